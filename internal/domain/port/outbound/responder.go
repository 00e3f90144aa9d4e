package outbound

import (
	"context"

	"github.com/jonny/playerbridge/internal/domain/model"
)

// MessageLevel selects the visual treatment of a follow-up.
type MessageLevel string

const (
	LevelSuccess  MessageLevel = "success"
	LevelNotFound MessageLevel = "not_found"
	LevelInvalid  MessageLevel = "invalid"
	LevelFailure  MessageLevel = "failure"
)

// FollowUpMessage is the rendered result of a trigger. Detail is optional
// preformatted text such as a raw backend payload.
type FollowUpMessage struct {
	Level  MessageLevel
	Text   string
	Detail string
}

// Responder delivers the single follow-up for a trigger.
type Responder interface {
	FollowUp(ctx context.Context, conv model.ConversationRef, msg FollowUpMessage) error
}
