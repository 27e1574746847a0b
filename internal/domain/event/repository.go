package event

import "context"

type Repository interface {
	// GetActive returns the single active event. If more than one row is
	// active the latest start instant wins, with the event key as a
	// deterministic tie-break.
	GetActive(ctx context.Context) (Event, bool, error)
	GetByKey(ctx context.Context, eventKey string) (Event, bool, error)
	Upsert(ctx context.Context, item Event) error
	// ReplaceActiveSet deactivates every stored event and upserts the given
	// rows with their computed active flags, all inside one transaction, so
	// readers never observe an all-inactive intermediate state.
	ReplaceActiveSet(ctx context.Context, items []Event) error
}
