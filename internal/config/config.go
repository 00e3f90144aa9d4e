package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Slack    SlackConfig    `yaml:"slack"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	MetricsPort     int           `yaml:"metricsPort"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// RateLimit is requests per minute per client IP on the status server.
	RateLimit int `yaml:"rateLimit"`
}

type SlackConfig struct {
	BotToken        string `yaml:"botToken"`
	AppToken        string `yaml:"appToken"`
	AppID           string `yaml:"appID"`
	ConfigToken     string `yaml:"configToken"`
	RegisterCommand bool   `yaml:"registerCommand"`
	// APIURL overrides the Slack Web API base URL, mostly for local testing.
	APIURL            string `yaml:"apiURL"`
	Command           string `yaml:"command"`
	PrivilegedChannel string `yaml:"privilegedChannel"`
	RoleName          string `yaml:"roleName"`
	NotifyGroup       string `yaml:"notifyGroup"`
	AckReaction       string `yaml:"ackReaction"`
}

type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

type DatabaseConfig struct {
	SQLite SQLiteConfig `yaml:"sqlite"`
}

type SQLiteConfig struct {
	Path              string `yaml:"path"`
	MaxOpenConns      int    `yaml:"maxOpenConns"`
	PragmaJournalMode string `yaml:"pragmaJournalMode"`
	PragmaBusyTimeout int    `yaml:"pragmaBusyTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults. Tokens, the app ID,
// the webhook URL, the privileged channel and the role name have no default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MetricsPort:     9090,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       120,
		},
		Slack: SlackConfig{
			Command:     "/w",
			AckReaction: "eyes",
		},
		Webhook: WebhookConfig{
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			SQLite: SQLiteConfig{
				Path:              "/data/playerbridge.db",
				MaxOpenConns:      1,
				PragmaJournalMode: "wal",
				PragmaBusyTimeout: 5000,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left as-is so validation can point at them.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}
