package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

type TeamEventStatusRepository struct {
	db *sqlx.DB
}

func NewTeamEventStatusRepository(db *sqlx.DB) *TeamEventStatusRepository {
	return &TeamEventStatusRepository{db: db}
}

func (r *TeamEventStatusRepository) Upsert(ctx context.Context, item teamstatus.Status) error {
	insertModel := teamEventStatusInsertModel{
		EventKey:          item.EventKey,
		TeamKey:           item.TeamKey,
		QualRank:          item.QualRank,
		QualAverage:       item.QualAverage,
		Wins:              item.Wins,
		Losses:            item.Losses,
		Ties:              item.Ties,
		PlayoffAlliance:   item.PlayoffAlliance,
		PlayoffRecord:     item.PlayoffRecord,
		PlayoffStatus:     item.PlayoffStatus,
		OverallStatusText: item.OverallStatusText,
		NextMatchKey:      item.NextMatchKey,
		LastMatchKey:      item.LastMatchKey,
		OPR:               item.OPR,
		DPR:               item.DPR,
		CCWM:              item.CCWM,
	}

	// Ratings arrive from a separate fetch than the event status, so a NULL
	// rating keeps whatever an earlier refresh stored instead of erasing it.
	query, args, err := qb.InsertModel("team_event_statuses", insertModel, `ON CONFLICT (event_key, team_key)
DO UPDATE SET
    qual_rank = EXCLUDED.qual_rank,
    qual_average = EXCLUDED.qual_average,
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    ties = EXCLUDED.ties,
    playoff_alliance = EXCLUDED.playoff_alliance,
    playoff_record = EXCLUDED.playoff_record,
    playoff_status = EXCLUDED.playoff_status,
    overall_status_text = EXCLUDED.overall_status_text,
    next_match_key = EXCLUDED.next_match_key,
    last_match_key = EXCLUDED.last_match_key,
    opr = COALESCE(EXCLUDED.opr, team_event_statuses.opr),
    dpr = COALESCE(EXCLUDED.dpr, team_event_statuses.dpr),
    ccwm = COALESCE(EXCLUDED.ccwm, team_event_statuses.ccwm),
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team event status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team event status event=%s team=%s: %w", item.EventKey, item.TeamKey, err)
	}
	return nil
}

func (r *TeamEventStatusRepository) Get(ctx context.Context, eventKey, teamKey string) (teamstatus.Status, bool, error) {
	query, args, err := qb.Select("*").From("team_event_statuses").
		Where(
			qb.Eq("event_key", eventKey),
			qb.Eq("team_key", teamKey),
		).
		ToSQL()
	if err != nil {
		return teamstatus.Status{}, false, fmt.Errorf("build get team event status query: %w", err)
	}

	var row teamEventStatusTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamstatus.Status{}, false, nil
		}
		return teamstatus.Status{}, false, fmt.Errorf("get team event status event=%s team=%s: %w", eventKey, teamKey, err)
	}

	return row.toDomain(), true, nil
}
