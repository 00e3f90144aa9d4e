package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/inbound"
)

// Config holds Slack bot configuration.
type Config struct {
	Command           model.CommandDescriptor
	PrivilegedChannel string
	NotifyGroup       string
	AckReaction       string
}

// Reactor marks a message as seen.
type Reactor interface {
	React(ctx context.Context, channelID, messageTS, emoji string) error
}

// Bot handles incoming Slack events via Socket Mode.
type Bot struct {
	socketMode *socketmode.Client
	config     Config
	trigger    inbound.TriggerPort
	reactor    Reactor
	logger     *slog.Logger
	inflight   sync.WaitGroup
}

// NewBot creates a new Bot with Socket Mode enabled. The client must carry
// the app-level token.
func NewBot(client *slackapi.Client, cfg Config, trigger inbound.TriggerPort, reactor Reactor, logger *slog.Logger) *Bot {
	if cfg.AckReaction == "" {
		cfg.AckReaction = "eyes"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		socketMode: socketmode.New(client),
		config:     cfg,
		trigger:    trigger,
		reactor:    reactor,
		logger:     logger,
	}
}

// Start begins processing Slack events. It blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	go b.handleEvents(ctx)
	err := b.socketMode.RunContext(ctx)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// Drain waits for in-flight triggers to finish or ctx to expire.
func (b *Bot) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining in-flight triggers: %w", ctx.Err())
	}
}

// handleEvents dispatches incoming Socket Mode events to the appropriate handler.
func (b *Bot) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socketMode.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				b.logger.Info("connecting to slack socket mode")
			case socketmode.EventTypeConnected:
				b.logger.Info("connected to slack socket mode")
			case socketmode.EventTypeConnectionError:
				b.logger.Warn("slack socket mode connection error", "data", evt.Data)
			case socketmode.EventTypeEventsAPI:
				b.handleEventsAPI(ctx, evt)
			case socketmode.EventTypeSlashCommand:
				b.handleSlashCommand(ctx, evt)
			default:
				if evt.Request != nil {
					b.socketMode.Ack(*evt.Request)
				}
			}
		}
	}
}

// dispatch hands a request to the trigger port on its own goroutine. The
// goroutine outlives ctx cancellation so shutdown can drain it.
func (b *Bot) dispatch(ctx context.Context, req model.LookupRequest) {
	ctx = context.WithoutCancel(ctx)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("trigger panicked",
					"trigger_id", req.ID,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		if err := b.trigger.HandleLookup(ctx, req); err != nil {
			b.logger.Error("trigger failed", "trigger_id", req.ID, "error", err)
		}
	}()
}
