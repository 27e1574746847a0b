package appconfig

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Set creates or updates the entry in place. A nil description keeps
	// whatever description the row already carries.
	Set(ctx context.Context, key string, value *string, description *string, updatedBy string) error
}
