package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

const eventUpsertSuffix = `ON CONFLICT (event_key)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    event_code = EXCLUDED.event_code,
    event_type = EXCLUDED.event_type,
    city = EXCLUDED.city,
    state_prov = EXCLUDED.state_prov,
    country = EXCLUDED.country,
    location_name = EXCLUDED.location_name,
    timezone = EXCLUDED.timezone,
    start_at = EXCLUDED.start_at,
    end_at = EXCLUDED.end_at,
    year = EXCLUDED.year,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()`

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetActive(ctx context.Context) (event.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("is_active", true)).
		OrderBy("start_at DESC", "event_key DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get active event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get active event: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EventRepository) GetByKey(ctx context.Context, eventKey string) (event.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("event_key", eventKey)).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event by key query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event key=%s: %w", eventKey, err)
	}

	return row.toDomain(), true, nil
}

func (r *EventRepository) Upsert(ctx context.Context, item event.Event) error {
	query, args, err := qb.InsertModel("events", eventInsertModelFromDomain(item), eventUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event key=%s: %w", item.EventKey, err)
	}
	return nil
}

func (r *EventRepository) ReplaceActiveSet(ctx context.Context, items []event.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace active events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("events").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("is_active", true)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear active events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear active events: %w", err)
	}

	for _, item := range items {
		query, args, err := qb.InsertModel("events", eventInsertModelFromDomain(item), eventUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert event key=%s: %w", item.EventKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace active events tx: %w", err)
	}
	return nil
}
