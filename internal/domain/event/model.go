package event

import (
	"time"
)

// Event is one competition event the team attends, mirrored from the
// upstream API. EventKey is the upstream natural key (for example
// "2025mokc"); rows are upserted by it and deactivated, never deleted.
type Event struct {
	EventKey     string
	Name         string
	ShortName    string
	EventCode    string
	EventType    int
	City         string
	StateProv    string
	Country      string
	LocationName string
	Timezone     string
	StartAt      time.Time
	EndAt        time.Time
	Year         int
	IsActive     bool
}

// ComputeWindow converts the upstream "2006-01-02" date strings into
// concrete instants. The window opens at midnight on the start date and
// closes at the last second of the end date, both in the event's own
// timezone; an empty or unloadable timezone falls back to UTC.
func ComputeWindow(startDate, endDate, timezone string) (time.Time, time.Time, error) {
	loc := locationOrUTC(timezone)

	start, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end := endDay.Add(24*time.Hour - time.Second)
	return start, end, nil
}

// ActiveAt reports whether now falls inside the event's run window.
func (e Event) ActiveAt(now time.Time) bool {
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return false
	}
	return !now.Before(e.StartAt) && !now.After(e.EndAt)
}

func locationOrUTC(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
