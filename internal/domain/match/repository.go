package match

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, item Match) error
	UpsertMany(ctx context.Context, items []Match) error
	// List returns the event's matches in schedule order. A non-empty
	// teamKey filters to matches the team appears in.
	List(ctx context.Context, eventKey, teamKey string) ([]Match, error)
	Next(ctx context.Context, eventKey, teamKey string, now time.Time) (Match, bool, error)
	Last(ctx context.Context, eventKey, teamKey string) (Match, bool, error)
}
