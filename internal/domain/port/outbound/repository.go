package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/jonny/playerbridge/internal/domain/model"
)

// ErrInvalidPage is returned by List for an unsupported ordering.
var ErrInvalidPage = errors.New("invalid page request")

type PageRequest struct {
	Page    int
	Size    int
	OrderBy string
	Desc    bool
}

type PageResult[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	Size       int
}

type GrantFilter struct {
	PlayerID       string
	ExternalUserID string
	Result         model.GrantResultKind
	RequestedBy    string
	Since          *time.Time
	Until          *time.Time
}

// GrantRecordRepository stores the role grant audit trail.
type GrantRecordRepository interface {
	Create(ctx context.Context, rec model.GrantRecord) error
	List(ctx context.Context, filter GrantFilter, page PageRequest) (PageResult[model.GrantRecord], error)
}
