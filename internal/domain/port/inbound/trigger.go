package inbound

import (
	"context"

	"github.com/jonny/playerbridge/internal/domain/model"
)

// TriggerPort runs a lookup for an accepted trigger and delivers exactly one
// follow-up. The returned error only reports follow-up delivery problems.
type TriggerPort interface {
	HandleLookup(ctx context.Context, req model.LookupRequest) error
}
