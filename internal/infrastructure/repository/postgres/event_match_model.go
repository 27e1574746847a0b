package postgres

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
)

// Alliance rosters, videos, and score breakdowns are stored as jsonb
// documents; the relational columns only carry what queries filter on.
type allianceDoc struct {
	TeamKeys          []string `json:"team_keys"`
	Score             *int     `json:"score"`
	SurrogateTeamKeys []string `json:"surrogate_team_keys,omitempty"`
	DQTeamKeys        []string `json:"dq_team_keys,omitempty"`
}

type videoDoc struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type eventMatchTableModel struct {
	MatchKey        string         `db:"match_key"`
	EventKey        string         `db:"event_key"`
	CompLevel       string         `db:"comp_level"`
	SetNumber       sql.NullInt64  `db:"set_number"`
	MatchNumber     int            `db:"match_number"`
	WinningAlliance string         `db:"winning_alliance"`
	RedAlliance     string         `db:"red_alliance"`
	BlueAlliance    string         `db:"blue_alliance"`
	ScheduledAt     sql.NullTime   `db:"scheduled_at"`
	PredictedAt     sql.NullTime   `db:"predicted_at"`
	ActualAt        sql.NullTime   `db:"actual_at"`
	PostResultAt    sql.NullTime   `db:"post_result_at"`
	ScoreBreakdown  sql.NullString `db:"score_breakdown"`
	Videos          sql.NullString `db:"videos"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (m eventMatchTableModel) toDomain() (match.Match, error) {
	red, err := decodeAllianceDoc(m.RedAlliance)
	if err != nil {
		return match.Match{}, fmt.Errorf("decode red alliance match=%s: %w", m.MatchKey, err)
	}
	blue, err := decodeAllianceDoc(m.BlueAlliance)
	if err != nil {
		return match.Match{}, fmt.Errorf("decode blue alliance match=%s: %w", m.MatchKey, err)
	}

	out := match.Match{
		MatchKey:        m.MatchKey,
		EventKey:        m.EventKey,
		CompLevel:       m.CompLevel,
		SetNumber:       nullInt64ToIntPtr(m.SetNumber),
		MatchNumber:     m.MatchNumber,
		WinningAlliance: m.WinningAlliance,
		Red:             red,
		Blue:            blue,
		ScheduledAt:     nullTimeToTimePtr(m.ScheduledAt),
		PredictedAt:     nullTimeToTimePtr(m.PredictedAt),
		ActualAt:        nullTimeToTimePtr(m.ActualAt),
		PostResultAt:    nullTimeToTimePtr(m.PostResultAt),
	}

	if m.ScoreBreakdown.Valid && m.ScoreBreakdown.String != "" {
		var breakdown map[string]any
		if err := jsoniter.UnmarshalFromString(m.ScoreBreakdown.String, &breakdown); err != nil {
			return match.Match{}, fmt.Errorf("decode score breakdown match=%s: %w", m.MatchKey, err)
		}
		out.ScoreBreakdown = breakdown
	}

	if m.Videos.Valid && m.Videos.String != "" {
		var docs []videoDoc
		if err := jsoniter.UnmarshalFromString(m.Videos.String, &docs); err != nil {
			return match.Match{}, fmt.Errorf("decode videos match=%s: %w", m.MatchKey, err)
		}
		for _, doc := range docs {
			out.Videos = append(out.Videos, match.Video{Type: doc.Type, Key: doc.Key})
		}
	}

	return out, nil
}

type eventMatchInsertModel struct {
	MatchKey        string     `db:"match_key"`
	EventKey        string     `db:"event_key"`
	CompLevel       string     `db:"comp_level"`
	SetNumber       *int       `db:"set_number"`
	MatchNumber     int        `db:"match_number"`
	WinningAlliance string     `db:"winning_alliance"`
	RedAlliance     string     `db:"red_alliance"`
	BlueAlliance    string     `db:"blue_alliance"`
	ScheduledAt     *time.Time `db:"scheduled_at"`
	PredictedAt     *time.Time `db:"predicted_at"`
	ActualAt        *time.Time `db:"actual_at"`
	PostResultAt    *time.Time `db:"post_result_at"`
	ScoreBreakdown  *string    `db:"score_breakdown"`
	Videos          *string    `db:"videos"`
}

func eventMatchInsertModelFromDomain(item match.Match) (eventMatchInsertModel, error) {
	red, err := encodeAllianceDoc(item.Red)
	if err != nil {
		return eventMatchInsertModel{}, fmt.Errorf("encode red alliance match=%s: %w", item.MatchKey, err)
	}
	blue, err := encodeAllianceDoc(item.Blue)
	if err != nil {
		return eventMatchInsertModel{}, fmt.Errorf("encode blue alliance match=%s: %w", item.MatchKey, err)
	}

	out := eventMatchInsertModel{
		MatchKey:        item.MatchKey,
		EventKey:        item.EventKey,
		CompLevel:       item.CompLevel,
		SetNumber:       item.SetNumber,
		MatchNumber:     item.MatchNumber,
		WinningAlliance: item.WinningAlliance,
		RedAlliance:     red,
		BlueAlliance:    blue,
		ScheduledAt:     item.ScheduledAt,
		PredictedAt:     item.PredictedAt,
		ActualAt:        item.ActualAt,
		PostResultAt:    item.PostResultAt,
	}

	if len(item.ScoreBreakdown) > 0 {
		raw, err := jsoniter.MarshalToString(item.ScoreBreakdown)
		if err != nil {
			return eventMatchInsertModel{}, fmt.Errorf("encode score breakdown match=%s: %w", item.MatchKey, err)
		}
		out.ScoreBreakdown = &raw
	}

	if len(item.Videos) > 0 {
		docs := make([]videoDoc, 0, len(item.Videos))
		for _, video := range item.Videos {
			docs = append(docs, videoDoc{Type: video.Type, Key: video.Key})
		}
		raw, err := jsoniter.MarshalToString(docs)
		if err != nil {
			return eventMatchInsertModel{}, fmt.Errorf("encode videos match=%s: %w", item.MatchKey, err)
		}
		out.Videos = &raw
	}

	return out, nil
}

func encodeAllianceDoc(item match.Alliance) (string, error) {
	return jsoniter.MarshalToString(allianceDoc{
		TeamKeys:          item.TeamKeys,
		Score:             item.Score,
		SurrogateTeamKeys: item.SurrogateTeamKeys,
		DQTeamKeys:        item.DQTeamKeys,
	})
}

func decodeAllianceDoc(raw string) (match.Alliance, error) {
	if raw == "" {
		return match.Alliance{}, nil
	}
	var doc allianceDoc
	if err := jsoniter.UnmarshalFromString(raw, &doc); err != nil {
		return match.Alliance{}, err
	}
	return match.Alliance{
		TeamKeys:          doc.TeamKeys,
		Score:             doc.Score,
		SurrogateTeamKeys: doc.SurrogateTeamKeys,
		DQTeamKeys:        doc.DQTeamKeys,
	}, nil
}
