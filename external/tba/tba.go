package tba

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

// Wire shapes for the read API. Only the fields the site consumes are
// declared; unknown keys are ignored on decode.

type tbaEvent struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	EventCode    string `json:"event_code"`
	EventType    int    `json:"event_type"`
	City         string `json:"city"`
	StateProv    string `json:"state_prov"`
	Country      string `json:"country"`
	LocationName string `json:"location_name"`
	Timezone     string `json:"timezone"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Year         int    `json:"year"`
}

func (e tbaEvent) toExternal() usecase.ExternalEvent {
	return usecase.ExternalEvent{
		EventKey:     strings.TrimSpace(e.Key),
		Name:         e.Name,
		ShortName:    e.ShortName,
		EventCode:    e.EventCode,
		EventType:    e.EventType,
		City:         e.City,
		StateProv:    e.StateProv,
		Country:      e.Country,
		LocationName: e.LocationName,
		Timezone:     e.Timezone,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		Year:         e.Year,
	}
}

type tbaMatchAlliance struct {
	// Score stays a pointer: the upstream serves -1 until a match has
	// actually played, and downstream treats negatives as unscored.
	Score             *int     `json:"score"`
	TeamKeys          []string `json:"team_keys"`
	SurrogateTeamKeys []string `json:"surrogate_team_keys"`
	DQTeamKeys        []string `json:"dq_team_keys"`
}

func (a tbaMatchAlliance) toExternal() usecase.ExternalAlliance {
	return usecase.ExternalAlliance{
		TeamKeys:          a.TeamKeys,
		Score:             a.Score,
		SurrogateTeamKeys: a.SurrogateTeamKeys,
		DQTeamKeys:        a.DQTeamKeys,
	}
}

type tbaMatchAlliances struct {
	Red  tbaMatchAlliance `json:"red"`
	Blue tbaMatchAlliance `json:"blue"`
}

type tbaVideo struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type tbaMatch struct {
	Key             string            `json:"key"`
	CompLevel       string            `json:"comp_level"`
	SetNumber       *int              `json:"set_number"`
	MatchNumber     int               `json:"match_number"`
	Alliances       tbaMatchAlliances `json:"alliances"`
	WinningAlliance string            `json:"winning_alliance"`
	EventKey        string            `json:"event_key"`
	Time            *int64            `json:"time"`
	ActualTime      *int64            `json:"actual_time"`
	PredictedTime   *int64            `json:"predicted_time"`
	PostResultTime  *int64            `json:"post_result_time"`
	ScoreBreakdown  map[string]any    `json:"score_breakdown"`
	Videos          []tbaVideo        `json:"videos"`
}

func (m tbaMatch) toExternal() usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		MatchKey:        strings.TrimSpace(m.Key),
		EventKey:        m.EventKey,
		CompLevel:       m.CompLevel,
		SetNumber:       m.SetNumber,
		MatchNumber:     m.MatchNumber,
		WinningAlliance: m.WinningAlliance,
		Red:             m.Alliances.Red.toExternal(),
		Blue:            m.Alliances.Blue.toExternal(),
		ScheduledAt:     unixToTime(m.Time),
		PredictedAt:     unixToTime(m.PredictedTime),
		ActualAt:        unixToTime(m.ActualTime),
		PostResultAt:    unixToTime(m.PostResultTime),
		ScoreBreakdown:  m.ScoreBreakdown,
	}
	for _, video := range m.Videos {
		out.Videos = append(out.Videos, usecase.ExternalMatchVideo{Type: video.Type, Key: video.Key})
	}
	return out
}

type tbaWLTRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

func (r tbaWLTRecord) text() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
}

type tbaRanking struct {
	Rank          *int          `json:"rank"`
	QualAverage   *float64      `json:"qual_average"`
	MatchesPlayed int           `json:"matches_played"`
	Record        *tbaWLTRecord `json:"record"`
}

type tbaQualStatus struct {
	NumTeams int         `json:"num_teams"`
	Ranking  *tbaRanking `json:"ranking"`
	Status   string      `json:"status"`
}

type tbaAllianceStatus struct {
	Number *int   `json:"number"`
	Pick   int    `json:"pick"`
	Name   string `json:"name"`
}

type tbaPlayoffStatus struct {
	Level              string        `json:"level"`
	CurrentLevelRecord *tbaWLTRecord `json:"current_level_record"`
	Record             *tbaWLTRecord `json:"record"`
	Status             string        `json:"status"`
	PlayoffAverage     *float64      `json:"playoff_average"`
}

type tbaTeamEventStatus struct {
	Qual             *tbaQualStatus     `json:"qual"`
	Alliance         *tbaAllianceStatus `json:"alliance"`
	Playoff          *tbaPlayoffStatus  `json:"playoff"`
	OverallStatusStr *string            `json:"overall_status_str"`
	NextMatchKey     *string            `json:"next_match_key"`
	LastMatchKey     *string            `json:"last_match_key"`
}

func (s tbaTeamEventStatus) toExternal() *usecase.ExternalTeamEventStatus {
	out := &usecase.ExternalTeamEventStatus{
		OverallStatusText: s.OverallStatusStr,
		NextMatchKey:      s.NextMatchKey,
		LastMatchKey:      s.LastMatchKey,
	}
	if s.Qual != nil && s.Qual.Ranking != nil {
		ranking := s.Qual.Ranking
		out.QualRank = ranking.Rank
		out.QualAverage = ranking.QualAverage
		if ranking.Record != nil {
			wins, losses, ties := ranking.Record.Wins, ranking.Record.Losses, ranking.Record.Ties
			out.Wins, out.Losses, out.Ties = &wins, &losses, &ties
		}
	}
	if s.Alliance != nil {
		out.PlayoffAlliance = s.Alliance.Number
	}
	if s.Playoff != nil {
		if s.Playoff.Record != nil {
			text := s.Playoff.Record.text()
			out.PlayoffRecord = &text
		}
		if status := strings.TrimSpace(s.Playoff.Status); status != "" {
			out.PlayoffStatus = &status
		}
	}
	return out
}

type tbaEventOPRs struct {
	OPRs  map[string]float64 `json:"oprs"`
	DPRs  map[string]float64 `json:"dprs"`
	CCWMs map[string]float64 `json:"ccwms"`
}

func (o tbaEventOPRs) toExternal() *usecase.ExternalEventRatings {
	if len(o.OPRs) == 0 && len(o.DPRs) == 0 && len(o.CCWMs) == 0 {
		return nil
	}
	return &usecase.ExternalEventRatings{
		OPR:  o.OPRs,
		DPR:  o.DPRs,
		CCWM: o.CCWMs,
	}
}

// Award is one trophy or recognition from the award history endpoints.
// Award data is served straight from this client; nothing stores it.
type Award struct {
	Name             string
	AwardType        int
	EventKey         string
	Year             int
	TeamRecipients   []string
	PersonRecipients []string
}

type tbaAwardRecipient struct {
	TeamKey *string `json:"team_key"`
	Awardee *string `json:"awardee"`
}

type tbaAward struct {
	Name          string              `json:"name"`
	AwardType     int                 `json:"award_type"`
	EventKey      string              `json:"event_key"`
	Year          int                 `json:"year"`
	RecipientList []tbaAwardRecipient `json:"recipient_list"`
}

func mapAwards(items []tbaAward) []Award {
	out := make([]Award, 0, len(items))
	for _, item := range items {
		award := Award{
			Name:      item.Name,
			AwardType: item.AwardType,
			EventKey:  item.EventKey,
			Year:      item.Year,
		}
		for _, recipient := range item.RecipientList {
			if recipient.TeamKey != nil && *recipient.TeamKey != "" {
				award.TeamRecipients = append(award.TeamRecipients, *recipient.TeamKey)
			}
			if recipient.Awardee != nil && *recipient.Awardee != "" {
				award.PersonRecipients = append(award.PersonRecipients, *recipient.Awardee)
			}
		}
		out = append(out, award)
	}
	return out
}

func unixToTime(value *int64) *time.Time {
	if value == nil || *value <= 0 {
		return nil
	}
	at := time.Unix(*value, 0).UTC()
	return &at
}
