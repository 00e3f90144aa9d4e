package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/playerbridge/internal/adapter/inbound/slackbot/template"
	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// Responder implements outbound.Responder via the Slack API.
type Responder struct {
	client *slackapi.Client
}

var _ outbound.Responder = (*Responder)(nil)

// NewResponder creates a new Slack Responder.
func NewResponder(client *slackapi.Client) *Responder {
	return &Responder{client: client}
}

// FollowUp posts the follow-up through the command's response_url when one
// is present, otherwise as a thread reply to the triggering message.
func (r *Responder) FollowUp(ctx context.Context, conv model.ConversationRef, msg outbound.FollowUpMessage) error {
	opts := []slackapi.MsgOption{
		slackapi.MsgOptionBlocks(template.BuildFollowUpBlocks(msg)...),
		slackapi.MsgOptionText(template.FollowUpText(msg), false),
	}

	switch {
	case conv.ResponseURL != "":
		opts = append(opts, slackapi.MsgOptionResponseURL(conv.ResponseURL, slackapi.ResponseTypeInChannel))
	case conv.MessageTS != "":
		opts = append(opts, slackapi.MsgOptionTS(conv.MessageTS))
	}

	if _, _, err := r.client.PostMessageContext(ctx, conv.ChannelID, opts...); err != nil {
		return fmt.Errorf("slack FollowUp: %w", err)
	}
	return nil
}

// React adds an emoji reaction to a message.
func (r *Responder) React(ctx context.Context, channelID, messageTS, emoji string) error {
	if err := r.client.AddReactionContext(ctx, emoji, slackapi.NewRefToMessage(channelID, messageTS)); err != nil {
		return fmt.Errorf("slack React: %w", err)
	}
	return nil
}
