package repo

import (
	"context"
	"time"

	"github.com/liveprobe/liveprobe/internal/domain"
)

// Ports (interfaces) — any storage adapter can be swapped in.

type TargetStore interface {
	Add(ctx context.Context, t *domain.Target) error
	List(ctx context.Context) ([]*domain.Target, error)
	// GetByURL returns nil, nil when no target matches.
	GetByURL(ctx context.Context, url string) (*domain.Target, error)
}

type ResultStore interface {
	Append(ctx context.Context, r *domain.CheckResult) error
	// Latest returns the most recent result per target.
	Latest(ctx context.Context) ([]LatestRow, error)
}

// LatestRow is the read-model row for "current status of every target".
// HTTPStatus and LatencyMS are pointers so rows without a response (transport
// failures) can carry nulls.
type LatestRow struct {
	TargetID   string
	URL        string
	Up         bool
	HTTPStatus *int
	LatencyMS  *float64
	Reason     string
	CheckedAt  time.Time
}
