package match

import (
	"sort"
	"time"
)

// Competition levels in tournament order.
const (
	CompLevelQual    = "qm"
	CompLevelEighth  = "ef"
	CompLevelQuarter = "qf"
	CompLevelSemi    = "sf"
	CompLevelFinal   = "f"
)

const (
	AllianceRed  = "red"
	AllianceBlue = "blue"
)

// Alliance is one side of a match. A nil or negative score means the
// upstream has not posted a result yet (the API reports -1 until then).
type Alliance struct {
	TeamKeys          []string
	Score             *int
	SurrogateTeamKeys []string
	DQTeamKeys        []string
}

type Video struct {
	Type string
	Key  string
}

// Match is one scheduled or played match, keyed by the upstream match key
// (for example "2025mokc_qm12"). Rows are upserted by key, never deleted.
type Match struct {
	MatchKey        string
	EventKey        string
	CompLevel       string
	SetNumber       *int
	MatchNumber     int
	WinningAlliance string
	Red             Alliance
	Blue            Alliance
	ScheduledAt     *time.Time
	PredictedAt     *time.Time
	ActualAt        *time.Time
	PostResultAt    *time.Time
	ScoreBreakdown  map[string]any
	Videos          []Video
}

// CompLevelRank orders competition levels for schedule sorting; unknown
// levels sort after finals.
func CompLevelRank(level string) int {
	switch level {
	case CompLevelQual:
		return 0
	case CompLevelEighth:
		return 1
	case CompLevelQuarter:
		return 2
	case CompLevelSemi:
		return 3
	case CompLevelFinal:
		return 4
	default:
		return 5
	}
}

// SetNumberOrDefault returns the set number, treating absent or
// non-positive values as set 1 for ordering.
func (m Match) SetNumberOrDefault() int {
	if m.SetNumber == nil || *m.SetNumber <= 0 {
		return 1
	}
	return *m.SetNumber
}

func Less(a, b Match) bool {
	ar, br := CompLevelRank(a.CompLevel), CompLevelRank(b.CompLevel)
	if ar != br {
		return ar < br
	}
	as, bs := a.SetNumberOrDefault(), b.SetNumberOrDefault()
	if as != bs {
		return as < bs
	}
	return a.MatchNumber < b.MatchNumber
}

// Sort orders matches in place by competition level, then set number, then
// match number. This is the schedule order next/last selection relies on.
func Sort(items []Match) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

func (m Match) HasTeam(teamKey string) bool {
	return containsTeam(m.Red.TeamKeys, teamKey) || containsTeam(m.Blue.TeamKeys, teamKey)
}

// AllianceOf returns which side the team plays on, or "" when the team is
// in neither alliance.
func (m Match) AllianceOf(teamKey string) string {
	if containsTeam(m.Red.TeamKeys, teamKey) {
		return AllianceRed
	}
	if containsTeam(m.Blue.TeamKeys, teamKey) {
		return AllianceBlue
	}
	return ""
}

// IsUpcoming reports whether the match is still eligible as "next": neither
// score is real yet, or it has no scheduled time, or that time is in the
// future.
func (m Match) IsUpcoming(now time.Time) bool {
	if !scoreIsReal(m.Red.Score) && !scoreIsReal(m.Blue.Score) {
		return true
	}
	if m.ScheduledAt == nil {
		return true
	}
	return m.ScheduledAt.After(now)
}

// IsCompleted reports whether a result has posted: a post-result timestamp
// exists or both alliance scores are real.
func (m Match) IsCompleted() bool {
	if m.PostResultAt != nil {
		return true
	}
	return scoreIsReal(m.Red.Score) && scoreIsReal(m.Blue.Score)
}

// ForTeam returns a filtered copy holding only matches the team appears in,
// preserving order.
func ForTeam(items []Match, teamKey string) []Match {
	out := make([]Match, 0, len(items))
	for _, item := range items {
		if item.HasTeam(teamKey) {
			out = append(out, item)
		}
	}
	return out
}

// NextForTeam returns the first match in schedule order the team plays in
// that is still upcoming.
func NextForTeam(sorted []Match, teamKey string, now time.Time) (Match, bool) {
	for _, item := range sorted {
		if item.HasTeam(teamKey) && item.IsUpcoming(now) {
			return item, true
		}
	}
	return Match{}, false
}

// LastForTeam returns the latest match in schedule order the team plays in
// that has a posted result.
func LastForTeam(sorted []Match, teamKey string) (Match, bool) {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].HasTeam(teamKey) && sorted[i].IsCompleted() {
			return sorted[i], true
		}
	}
	return Match{}, false
}

// FollowingForTeam returns the team's first match strictly after the given
// one in schedule order, i.e. what the team plays once "after" is done.
func FollowingForTeam(sorted []Match, teamKey string, after Match) (Match, bool) {
	seen := false
	for _, item := range sorted {
		if item.MatchKey == after.MatchKey {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		if item.HasTeam(teamKey) {
			return item, true
		}
	}
	return Match{}, false
}

func scoreIsReal(score *int) bool {
	return score != nil && *score >= 0
}

func containsTeam(keys []string, teamKey string) bool {
	for _, key := range keys {
		if key == teamKey {
			return true
		}
	}
	return false
}
