package teamstatus

import (
	"fmt"
	"time"
)

// Status is the team's standing at one event, one row per
// (team key, event key). Nil pointers mean the upstream has not published
// that figure yet; absent ratings are unknown, never zero.
type Status struct {
	TeamKey           string
	EventKey          string
	QualRank          *int
	QualAverage       *float64
	Wins              *int
	Losses            *int
	Ties              *int
	PlayoffAlliance   *int
	PlayoffRecord     *string
	PlayoffStatus     *string
	OverallStatusText *string
	NextMatchKey      *string
	LastMatchKey      *string
	OPR               *float64
	DPR               *float64
	CCWM              *float64
	UpdatedAt         time.Time
}

// RecordText renders the qualification record as "W-L-T", or "" when the
// record is not published yet.
func (s Status) RecordText() string {
	if s.Wins == nil || s.Losses == nil || s.Ties == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d-%d", *s.Wins, *s.Losses, *s.Ties)
}
