package repo

import (
	"context"
	"time"
)

// AlertRecord holds the last up/down state we saw for a target and the last
// time a notification went out (used for cooldown).
type AlertRecord struct {
	TargetID   string
	LastState  bool
	LastSentAt *time.Time
}

// AlertStore persists alert state between scans.
type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, targetID string) (*AlertRecord, error)
	// Set upserts the record. A zero sentAt stores NULL for last_sent_at.
	Set(ctx context.Context, targetID string, lastState bool, sentAt time.Time) error
}
