package webhooklog

import "context"

type Repository interface {
	Append(ctx context.Context, item Record) error
	// MarkProcessed flips the processed flag and stores the handling error,
	// if any. No other field is ever updated.
	MarkProcessed(ctx context.Context, id string, processErr *string) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
