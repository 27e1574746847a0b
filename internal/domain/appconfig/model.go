package appconfig

import "time"

// Keys the event pipeline reads at runtime.
const (
	KeyEnableEventDisplay = "enable_event_display"
	KeyTBAAPIKey          = "tba_api_key"
	KeyTeamNumber         = "team_number"
	KeyTBAWebhookSecret   = "tba_webhook_secret"
)

// Entry is one site configuration row. Values are strings; Encrypted marks
// values that must never be echoed back to operators.
type Entry struct {
	Key         string
	Value       *string
	Description string
	Encrypted   bool
	UpdatedBy   string
	UpdatedAt   time.Time
}

func (e Entry) StringValue() string {
	if e.Value == nil {
		return ""
	}
	return *e.Value
}

// IsTrue reports whether the entry holds the literal "true", the convention
// boolean flags use in the config table.
func (e Entry) IsTrue() bool {
	return e.StringValue() == "true"
}
