package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jonny/playerbridge/internal/adapter/inbound/slackbot"
	"github.com/jonny/playerbridge/internal/adapter/inbound/status"
	"github.com/jonny/playerbridge/internal/adapter/outbound/persistence/sqlite"
	"github.com/jonny/playerbridge/internal/adapter/outbound/slack"
	"github.com/jonny/playerbridge/internal/adapter/outbound/webhook"
	"github.com/jonny/playerbridge/internal/config"
	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/service"
	"github.com/jonny/playerbridge/pkg/health"
	"github.com/jonny/playerbridge/pkg/version"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	printVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = buildLogger(cfg.Logging)

	// --- Database ---
	store, err := sqlite.NewStore(sqlite.Config{
		Path:              cfg.Database.SQLite.Path,
		MaxOpenConns:      cfg.Database.SQLite.MaxOpenConns,
		PragmaJournalMode: cfg.Database.SQLite.PragmaJournalMode,
		PragmaBusyTimeout: cfg.Database.SQLite.PragmaBusyTimeout,
	})
	if err != nil {
		logger.Error("failed to open sqlite store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	grantRepo := sqlite.NewGrantRepo(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Slack ---
	slackClient := slack.NewClient(slack.Config{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		APIURL:   cfg.Slack.APIURL,
	})

	identity, err := slack.Login(ctx, slackClient)
	if err != nil {
		logger.Error("slack login failed", "error", err)
		os.Exit(1)
	}
	logger.Info("logged in to slack", "team", identity.Team, "team_id", identity.TeamID, "bot_user", identity.User)

	command := model.DefaultCommand().WithName(cfg.Slack.Command)
	if cfg.Slack.RegisterCommand {
		registrar := slack.NewRegistrar(slackClient, slack.RegistrarConfig{
			ConfigToken: cfg.Slack.ConfigToken,
			AppID:       cfg.Slack.AppID,
		})
		changed, err := registrar.Register(ctx, command)
		if err != nil {
			logger.Warn("slash command registration failed", "command", command.Name, "error", err)
		} else {
			logger.Info("slash command registered", "command", command.Name, "changed", changed)
		}
	}

	// --- Webhook ---
	gateway, err := webhook.NewClient(webhook.Config{
		URL:     cfg.Webhook.URL,
		Timeout: cfg.Webhook.Timeout,
		Headers: cfg.Webhook.Headers,
	}, logger)
	if err != nil {
		logger.Error("failed to create webhook client", "error", err)
		os.Exit(1)
	}

	// --- Domain services ---
	responder := slack.NewResponder(slackClient)
	grants := service.NewRoleGrantExecutor(slack.NewDirectory(slackClient))
	orchestrator := service.NewOrchestrator(
		service.Config{RoleName: cfg.Slack.RoleName},
		gateway,
		responder,
		grants,
		grantRepo,
		logger,
	)

	bot := slackbot.NewBot(slackClient, slackbot.Config{
		Command:           command,
		PrivilegedChannel: cfg.Slack.PrivilegedChannel,
		NotifyGroup:       cfg.Slack.NotifyGroup,
		AckReaction:       cfg.Slack.AckReaction,
	}, orchestrator, responder, logger)

	// --- Health checker ---
	checker := health.NewChecker()
	checker.Register("database", store.Ping)
	checker.Register("slack", slack.HealthCheck(slackClient))

	statusServer := status.NewServer(status.ServerConfig{
		Port:            cfg.Server.MetricsPort,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RateLimit:       cfg.Server.RateLimit,
	}, checker, grantRepo, logger)

	// --- Startup ---
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting status server", "port", cfg.Server.MetricsPort)
		return statusServer.Start(gCtx)
	})

	g.Go(func() error {
		logger.Info("starting slack bot", "command", command.Name, "privileged_channel", cfg.Slack.PrivilegedChannel)
		return bot.Start(gCtx)
	})

	logger.Info("playerbridge started", "version", version.String())

	err = g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if drainErr := bot.Drain(drainCtx); drainErr != nil {
		logger.Warn("in-flight lookups did not finish before shutdown", "error", drainErr)
	}

	if err != nil {
		logger.Error("playerbridge exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("playerbridge stopped")
}

// buildLogger constructs a slog.Logger based on config.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
