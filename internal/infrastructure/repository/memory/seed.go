package memory

import (
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
)

// SeedConfigEntries returns the config rows a fresh install starts with.
// The event pipeline stays disabled until an operator flips the display
// switch and stores an upstream API key.
func SeedConfigEntries() []appconfig.Entry {
	return []appconfig.Entry{
		{
			Key:         appconfig.KeyEnableEventDisplay,
			Value:       seedValue("false"),
			Description: "Master switch for the competition event display and background data sync.",
			UpdatedBy:   "system",
		},
		{
			Key:         appconfig.KeyTeamNumber,
			Value:       seedValue("1806"),
			Description: "FRC team number used for upstream event and match lookups.",
			UpdatedBy:   "system",
		},
		{
			Key:         appconfig.KeyTBAAPIKey,
			Description: "Read key for The Blue Alliance API v3. The stored value is never echoed back to operators.",
			Encrypted:   true,
			UpdatedBy:   "system",
		},
		{
			Key:         appconfig.KeyTBAWebhookSecret,
			Description: "Shared secret for verifying inbound webhook signatures. Unset accepts webhooks unverified.",
			Encrypted:   true,
			UpdatedBy:   "system",
		},
	}
}

func seedValue(value string) *string {
	return &value
}
