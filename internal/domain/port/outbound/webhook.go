package outbound

import (
	"context"
	"fmt"

	"github.com/jonny/playerbridge/internal/domain/model"
)

// TransportErrorKind distinguishes webhook failures in logs.
type TransportErrorKind string

const (
	TransportNetwork TransportErrorKind = "network"
	TransportStatus  TransportErrorKind = "status"
	TransportDecode  TransportErrorKind = "decode"
)

// TransportError is returned by a WebhookGateway when no usable reply was
// obtained. Body holds the (truncated) response body for status and decode
// failures.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportStatus:
		return fmt.Sprintf("webhook %s error: unexpected status %d", e.Kind, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("webhook %s error: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("webhook %s error", e.Kind)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// WebhookGateway performs the single outbound call for a lookup.
type WebhookGateway interface {
	Dispatch(ctx context.Context, req model.LookupRequest) (model.WebhookReply, error)
}
