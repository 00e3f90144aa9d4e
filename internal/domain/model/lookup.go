package model

import "strings"

// Intent selects which workflow a trigger runs.
type Intent string

const (
	IntentQuery     Intent = "query"
	IntentWhitelist Intent = "whitelist"
)

// UserRef identifies the platform user that issued a trigger.
type UserRef struct {
	ID  string
	Tag string
}

// ConversationRef locates where replies for a trigger go.
// ResponseURL is set for slash commands, MessageTS for message triggers.
type ConversationRef struct {
	TeamID      string
	ChannelID   string
	MessageTS   string
	ResponseURL string
}

// LookupRequest is the canonical form of a trigger. It is built once by the
// trigger adapter and consumed once by the webhook gateway.
type LookupRequest struct {
	ID        string
	PlayerID  string
	Requester UserRef
	Context   ConversationRef
	Intent    Intent
}

// NewLookupRequest creates a LookupRequest with a fresh correlation ID.
func NewLookupRequest(intent Intent, playerID string, requester UserRef, conv ConversationRef) LookupRequest {
	return LookupRequest{
		ID:        generateID(),
		PlayerID:  strings.TrimSpace(playerID),
		Requester: requester,
		Context:   conv,
		Intent:    intent,
	}
}

// Valid reports whether the request can be dispatched.
func (r LookupRequest) Valid() bool {
	if r.PlayerID == "" {
		return false
	}
	return r.Intent == IntentQuery || r.Intent == IntentWhitelist
}
