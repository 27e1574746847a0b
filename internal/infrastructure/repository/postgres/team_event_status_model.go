package postgres

import (
	"database/sql"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
)

type teamEventStatusTableModel struct {
	EventKey          string          `db:"event_key"`
	TeamKey           string          `db:"team_key"`
	QualRank          sql.NullInt64   `db:"qual_rank"`
	QualAverage       sql.NullFloat64 `db:"qual_average"`
	Wins              sql.NullInt64   `db:"wins"`
	Losses            sql.NullInt64   `db:"losses"`
	Ties              sql.NullInt64   `db:"ties"`
	PlayoffAlliance   sql.NullInt64   `db:"playoff_alliance"`
	PlayoffRecord     sql.NullString  `db:"playoff_record"`
	PlayoffStatus     sql.NullString  `db:"playoff_status"`
	OverallStatusText sql.NullString  `db:"overall_status_text"`
	NextMatchKey      sql.NullString  `db:"next_match_key"`
	LastMatchKey      sql.NullString  `db:"last_match_key"`
	OPR               sql.NullFloat64 `db:"opr"`
	DPR               sql.NullFloat64 `db:"dpr"`
	CCWM              sql.NullFloat64 `db:"ccwm"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (m teamEventStatusTableModel) toDomain() teamstatus.Status {
	return teamstatus.Status{
		EventKey:          m.EventKey,
		TeamKey:           m.TeamKey,
		QualRank:          nullInt64ToIntPtr(m.QualRank),
		QualAverage:       nullFloat64ToPtr(m.QualAverage),
		Wins:              nullInt64ToIntPtr(m.Wins),
		Losses:            nullInt64ToIntPtr(m.Losses),
		Ties:              nullInt64ToIntPtr(m.Ties),
		PlayoffAlliance:   nullInt64ToIntPtr(m.PlayoffAlliance),
		PlayoffRecord:     nullStringToPtr(m.PlayoffRecord),
		PlayoffStatus:     nullStringToPtr(m.PlayoffStatus),
		OverallStatusText: nullStringToPtr(m.OverallStatusText),
		NextMatchKey:      nullStringToPtr(m.NextMatchKey),
		LastMatchKey:      nullStringToPtr(m.LastMatchKey),
		OPR:               nullFloat64ToPtr(m.OPR),
		DPR:               nullFloat64ToPtr(m.DPR),
		CCWM:              nullFloat64ToPtr(m.CCWM),
		UpdatedAt:         m.UpdatedAt,
	}
}

type teamEventStatusInsertModel struct {
	EventKey          string   `db:"event_key"`
	TeamKey           string   `db:"team_key"`
	QualRank          *int     `db:"qual_rank"`
	QualAverage       *float64 `db:"qual_average"`
	Wins              *int     `db:"wins"`
	Losses            *int     `db:"losses"`
	Ties              *int     `db:"ties"`
	PlayoffAlliance   *int     `db:"playoff_alliance"`
	PlayoffRecord     *string  `db:"playoff_record"`
	PlayoffStatus     *string  `db:"playoff_status"`
	OverallStatusText *string  `db:"overall_status_text"`
	NextMatchKey      *string  `db:"next_match_key"`
	LastMatchKey      *string  `db:"last_match_key"`
	OPR               *float64 `db:"opr"`
	DPR               *float64 `db:"dpr"`
	CCWM              *float64 `db:"ccwm"`
}
