package postgres

import "time"

type statsCacheTableModel struct {
	EventKey  string    `db:"event_key"`
	TeamKey   string    `db:"team_key"`
	StatType  string    `db:"stat_type"`
	Payload   string    `db:"payload"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type statsCacheInsertModel struct {
	EventKey  string    `db:"event_key"`
	TeamKey   string    `db:"team_key"`
	StatType  string    `db:"stat_type"`
	Payload   string    `db:"payload"`
	ExpiresAt time.Time `db:"expires_at"`
}
