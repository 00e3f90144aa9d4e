package model

// OutcomeKind names an Outcome variant for logs and audit rows.
type OutcomeKind string

const (
	OutcomeFound             OutcomeKind = "found"
	OutcomeNotFound          OutcomeKind = "not_found"
	OutcomeUnrecognizedReply OutcomeKind = "unrecognized_reply"
	OutcomeTransportFailure  OutcomeKind = "transport_failure"
)

// Outcome is the classified result of one lookup. The set of implementations
// is closed: Found, NotFound, UnrecognizedReply and TransportFailure.
type Outcome interface {
	Kind() OutcomeKind
	isOutcome()
}

// Found means the backend recognised the player. ExternalUserID is only
// guaranteed non-empty for whitelist lookups.
type Found struct {
	DisplayName    string
	ExternalUserID string
}

// NotFound means the backend answered with status "error".
type NotFound struct{}

// UnrecognizedReply carries a payload that did not match the reply contract.
type UnrecognizedReply struct {
	Raw string
}

// TransportFailure means the backend could not be reached or answered with a
// non-success HTTP status.
type TransportFailure struct {
	Cause error
}

func (Found) Kind() OutcomeKind             { return OutcomeFound }
func (NotFound) Kind() OutcomeKind          { return OutcomeNotFound }
func (UnrecognizedReply) Kind() OutcomeKind { return OutcomeUnrecognizedReply }
func (TransportFailure) Kind() OutcomeKind  { return OutcomeTransportFailure }

func (Found) isOutcome()             {}
func (NotFound) isOutcome()          {}
func (UnrecognizedReply) isOutcome() {}
func (TransportFailure) isOutcome()  {}
