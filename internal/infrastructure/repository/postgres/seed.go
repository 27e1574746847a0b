package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the default config rows a fresh database needs.
// Existing rows are left untouched, so reruns never undo operator edits.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, entry := range memory.SeedConfigEntries() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO app_config (key, value, description, encrypted, updated_by)
VALUES (:key, :value, :description, :encrypted, :updated_by)
ON CONFLICT (key) DO NOTHING`, map[string]any{
			"key":         entry.Key,
			"value":       entry.Value,
			"description": entry.Description,
			"encrypted":   entry.Encrypted,
			"updated_by":  entry.UpdatedBy,
		})
		if err != nil {
			return fmt.Errorf("bind seed config %s query: %w", entry.Key, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed config %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
