package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

type AppConfigRepository struct {
	db *sqlx.DB
}

func NewAppConfigRepository(db *sqlx.DB) *AppConfigRepository {
	return &AppConfigRepository{db: db}
}

func (r *AppConfigRepository) Get(ctx context.Context, key string) (appconfig.Entry, bool, error) {
	query, args, err := qb.Select("*").From("app_config").
		Where(qb.Eq("key", key)).
		ToSQL()
	if err != nil {
		return appconfig.Entry{}, false, fmt.Errorf("build get app config query: %w", err)
	}

	var row appConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return appconfig.Entry{}, false, nil
		}
		return appconfig.Entry{}, false, fmt.Errorf("get app config key=%s: %w", key, err)
	}

	return appconfig.Entry{
		Key:         row.Key,
		Value:       nullStringToPtr(row.Value),
		Description: row.Description.String,
		Encrypted:   row.Encrypted,
		UpdatedBy:   row.UpdatedBy,
		UpdatedAt:   row.UpdatedAt,
	}, true, nil
}

func (r *AppConfigRepository) Set(ctx context.Context, key string, value *string, description *string, updatedBy string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}

	insertModel := appConfigInsertModel{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedBy:   strings.TrimSpace(updatedBy),
	}
	query, args, err := qb.InsertModel("app_config", insertModel, `ON CONFLICT (key)
DO UPDATE SET
    value = EXCLUDED.value,
    description = COALESCE(EXCLUDED.description, app_config.description),
    updated_by = EXCLUDED.updated_by,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert app config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert app config key=%s: %w", key, err)
	}
	return nil
}
