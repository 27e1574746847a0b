package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

const eventMatchUpsertSuffix = `ON CONFLICT (match_key)
DO UPDATE SET
    event_key = EXCLUDED.event_key,
    comp_level = EXCLUDED.comp_level,
    set_number = EXCLUDED.set_number,
    match_number = EXCLUDED.match_number,
    winning_alliance = EXCLUDED.winning_alliance,
    red_alliance = EXCLUDED.red_alliance,
    blue_alliance = EXCLUDED.blue_alliance,
    scheduled_at = EXCLUDED.scheduled_at,
    predicted_at = EXCLUDED.predicted_at,
    actual_at = EXCLUDED.actual_at,
    post_result_at = EXCLUDED.post_result_at,
    score_breakdown = EXCLUDED.score_breakdown,
    videos = EXCLUDED.videos,
    updated_at = NOW()`

type EventMatchRepository struct {
	db *sqlx.DB
}

func NewEventMatchRepository(db *sqlx.DB) *EventMatchRepository {
	return &EventMatchRepository{db: db}
}

func (r *EventMatchRepository) Upsert(ctx context.Context, item match.Match) error {
	insertModel, err := eventMatchInsertModelFromDomain(item)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("event_matches", insertModel, eventMatchUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert event match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event match key=%s: %w", item.MatchKey, err)
	}
	return nil
}

func (r *EventMatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert event matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel, err := eventMatchInsertModelFromDomain(item)
		if err != nil {
			return err
		}
		query, args, err := qb.InsertModel("event_matches", insertModel, eventMatchUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert event match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert event match key=%s: %w", item.MatchKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert event matches tx: %w", err)
	}
	return nil
}

// List loads the event's matches and sorts them in schedule order in Go.
// Schedule order depends on the competition-level ranking, which lives in
// the domain package so every store orders matches the same way.
func (r *EventMatchRepository) List(ctx context.Context, eventKey, teamKey string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("event_matches").
		Where(qb.Eq("event_key", eventKey)).
		OrderBy("match_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list event matches query: %w", err)
	}

	var rows []eventMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list event matches event=%s: %w", eventKey, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if teamKey != "" {
		out = match.ForTeam(out, teamKey)
	}
	match.Sort(out)
	return out, nil
}

func (r *EventMatchRepository) Next(ctx context.Context, eventKey, teamKey string, now time.Time) (match.Match, bool, error) {
	items, err := r.List(ctx, eventKey, teamKey)
	if err != nil {
		return match.Match{}, false, err
	}
	next, ok := match.NextForTeam(items, teamKey, now)
	return next, ok, nil
}

func (r *EventMatchRepository) Last(ctx context.Context, eventKey, teamKey string) (match.Match, bool, error) {
	items, err := r.List(ctx, eventKey, teamKey)
	if err != nil {
		return match.Match{}, false, err
	}
	last, ok := match.LastForTeam(items, teamKey)
	return last, ok, nil
}
