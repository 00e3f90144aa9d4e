package slackbot

import (
	"context"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/jonny/playerbridge/internal/adapter/inbound/slackbot/template"
	"github.com/jonny/playerbridge/internal/domain/model"
)

// handleEventsAPI processes Slack Events API payloads (e.g. message events).
func (b *Bot) handleEventsAPI(ctx context.Context, evt socketmode.Event) {
	b.socketMode.Ack(*evt.Request)

	eventsPayload, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}

	switch ev := eventsPayload.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		b.processMessageEvent(ctx, eventsPayload.TeamID, ev)
	}
}

// processMessageEvent reacts to a whitelist command and hands it off.
// Any other message is ignored.
func (b *Bot) processMessageEvent(ctx context.Context, teamID string, ev *slackevents.MessageEvent) {
	req, ok := whitelistRequest(ev, teamID, b.config.PrivilegedChannel)
	if !ok {
		return
	}

	if err := b.reactor.React(ctx, ev.Channel, ev.TimeStamp, b.config.AckReaction); err != nil {
		b.logger.Warn("whitelist acknowledgement failed", "trigger_id", req.ID, "error", err)
	}
	b.dispatch(ctx, req)
}

// handleSlashCommand acks the lookup command in-channel, then hands it off.
func (b *Bot) handleSlashCommand(ctx context.Context, evt socketmode.Event) {
	cmd, ok := evt.Data.(slackapi.SlashCommand)
	if !ok {
		b.socketMode.Ack(*evt.Request)
		return
	}

	ack, req := b.processSlashCommand(cmd)
	b.socketMode.Ack(*evt.Request, ack)
	if req != nil {
		b.dispatch(ctx, *req)
	}
}

// processSlashCommand returns the ack payload and, when the command is a
// valid lookup, the request to dispatch.
func (b *Bot) processSlashCommand(cmd slackapi.SlashCommand) (map[string]any, *model.LookupRequest) {
	if !b.config.Command.Matches(cmd.Command) {
		b.logger.Warn("ignoring unknown slash command", "command", cmd.Command)
		return map[string]any{
			"text": ":question: Unknown command `" + template.Sanitize(cmd.Command) + "`",
		}, nil
	}

	req, ok := commandRequest(cmd)
	if !ok {
		return map[string]any{
			"text": template.UsageText(b.config.Command.Name, b.config.Command.UsageHint),
		}, nil
	}

	b.logger.Info("lookup command received",
		"trigger_id", req.ID,
		"player_id", req.PlayerID,
		"user", req.Requester.Tag,
	)
	return map[string]any{
		"response_type": slackapi.ResponseTypeInChannel,
		"text":          template.CommandAckText(req.PlayerID, b.config.NotifyGroup),
	}, &req
}
