package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/statscache"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

type StatsCacheRepository struct {
	db *sqlx.DB
}

func NewStatsCacheRepository(db *sqlx.DB) *StatsCacheRepository {
	return &StatsCacheRepository{db: db}
}

func (r *StatsCacheRepository) Get(ctx context.Context, eventKey, teamKey, statType string) (statscache.Entry, bool, error) {
	query, args, err := qb.Select("*").From("stats_cache").
		Where(
			qb.Eq("event_key", eventKey),
			qb.Eq("team_key", teamKey),
			qb.Eq("stat_type", statType),
			qb.Expr("expires_at > NOW()"),
		).
		ToSQL()
	if err != nil {
		return statscache.Entry{}, false, fmt.Errorf("build get stats cache query: %w", err)
	}

	var row statsCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return statscache.Entry{}, false, nil
		}
		return statscache.Entry{}, false, fmt.Errorf("get stats cache event=%s team=%s type=%s: %w", eventKey, teamKey, statType, err)
	}

	var payload map[string]any
	if row.Payload != "" {
		if err := jsoniter.UnmarshalFromString(row.Payload, &payload); err != nil {
			return statscache.Entry{}, false, fmt.Errorf("decode stats cache payload event=%s team=%s type=%s: %w", eventKey, teamKey, statType, err)
		}
	}

	return statscache.Entry{
		EventKey:  row.EventKey,
		TeamKey:   row.TeamKey,
		StatType:  row.StatType,
		Payload:   payload,
		ExpiresAt: row.ExpiresAt,
	}, true, nil
}

func (r *StatsCacheRepository) Put(ctx context.Context, item statscache.Entry) error {
	payload := "{}"
	if len(item.Payload) > 0 {
		raw, err := jsoniter.MarshalToString(item.Payload)
		if err != nil {
			return fmt.Errorf("encode stats cache payload event=%s team=%s type=%s: %w", item.EventKey, item.TeamKey, item.StatType, err)
		}
		payload = raw
	}

	insertModel := statsCacheInsertModel{
		EventKey:  item.EventKey,
		TeamKey:   item.TeamKey,
		StatType:  item.StatType,
		Payload:   payload,
		ExpiresAt: item.ExpiresAt,
	}
	query, args, err := qb.InsertModel("stats_cache", insertModel, `ON CONFLICT (event_key, team_key, stat_type)
DO UPDATE SET
    payload = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert stats cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert stats cache event=%s team=%s type=%s: %w", item.EventKey, item.TeamKey, item.StatType, err)
	}
	return nil
}

func (r *StatsCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stats_cache WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("delete expired stats cache rows: %w", err)
	}

	swept, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count swept stats cache rows: %w", err)
	}
	return swept, nil
}
