package teamstatus

import "context"

type Repository interface {
	// Upsert writes the row by (team key, event key). Nil rating fields
	// must not clobber ratings a previous refresh already stored.
	Upsert(ctx context.Context, item Status) error
	Get(ctx context.Context, eventKey, teamKey string) (Status, bool, error)
}
