package statscache

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns the entry only while it is unexpired; an expired row is a
	// miss even if the sweep has not removed it yet.
	Get(ctx context.Context, eventKey, teamKey, statType string) (Entry, bool, error)
	Put(ctx context.Context, item Entry) error
	// DeleteExpired removes every row whose expiry has passed and reports
	// how many were swept.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
