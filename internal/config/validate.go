package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the config for errors.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.MetricsPort <= 0 || cfg.Server.MetricsPort > 65535 {
		errs = append(errs, "server.metricsPort must be between 1 and 65535")
	}
	if cfg.Server.RateLimit < 0 {
		errs = append(errs, "server.rateLimit must not be negative")
	}

	required := []struct {
		name, value string
	}{
		{"slack.botToken", cfg.Slack.BotToken},
		{"slack.appToken", cfg.Slack.AppToken},
		{"slack.appID", cfg.Slack.AppID},
		{"slack.privilegedChannel", cfg.Slack.PrivilegedChannel},
		{"slack.roleName", cfg.Slack.RoleName},
		{"webhook.url", cfg.Webhook.URL},
		{"database.sqlite.path", cfg.Database.SQLite.Path},
	}
	for _, r := range required {
		if unset(r.value) {
			errs = append(errs, r.name+" is required")
		}
	}

	if cfg.Slack.RegisterCommand && unset(cfg.Slack.ConfigToken) {
		errs = append(errs, "slack.configToken is required when registerCommand is enabled")
	}
	if !strings.HasPrefix(cfg.Slack.Command, "/") || len(cfg.Slack.Command) < 2 {
		errs = append(errs, fmt.Sprintf("slack.command must start with / (got %q)", cfg.Slack.Command))
	}

	if !unset(cfg.Webhook.URL) {
		u, err := url.Parse(cfg.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("webhook.url must be an http or https URL (got %q)", cfg.Webhook.URL))
		}
	}
	if cfg.Webhook.Timeout <= 0 {
		errs = append(errs, "webhook.timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn or error (got %q)", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		errs = append(errs, fmt.Sprintf("logging.format must be json or text (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// unset treats an unexpanded ${VAR} reference as missing.
func unset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || (strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}"))
}
