package webhooklog

import "time"

// Message types the pipeline reacts to. Anything else is logged and
// ignored.
const (
	TypeVerification      = "verification"
	TypePing              = "ping"
	TypeUpcomingMatch     = "upcoming_match"
	TypeMatchScore        = "match_score"
	TypeAllianceSelection = "alliance_selection"
	TypeScheduleUpdated   = "schedule_updated"
)

// Record is one inbound push notification, kept for audit. Rows are only
// ever appended; the processed flag and error are the sole later updates.
type Record struct {
	ID          string
	MessageType string
	Payload     string
	EventKey    *string
	MatchKey    *string
	ReceivedAt  time.Time
	Processed   bool
	Error       *string
}
