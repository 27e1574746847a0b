package statscache

import "time"

// Stat types stored by the pipeline.
const (
	StatTypeRatings = "ratings"
)

// Entry is one cached derived statistic, keyed by
// (event key, team key, stat type). Expired entries are invisible to reads
// and swept by the daily cleanup.
type Entry struct {
	EventKey  string
	TeamKey   string
	StatType  string
	Payload   map[string]any
	ExpiresAt time.Time
}

func (e Entry) ExpiredAt(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
