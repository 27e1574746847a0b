package postgres

import (
	"database/sql"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
)

type webhookLogTableModel struct {
	ID          string         `db:"id"`
	MessageType string         `db:"message_type"`
	Payload     string         `db:"payload"`
	EventKey    sql.NullString `db:"event_key"`
	MatchKey    sql.NullString `db:"match_key"`
	ReceivedAt  time.Time      `db:"received_at"`
	Processed   bool           `db:"processed"`
	LastError   sql.NullString `db:"last_error"`
}

func (m webhookLogTableModel) toDomain() webhooklog.Record {
	return webhooklog.Record{
		ID:          m.ID,
		MessageType: m.MessageType,
		Payload:     m.Payload,
		EventKey:    nullStringToPtr(m.EventKey),
		MatchKey:    nullStringToPtr(m.MatchKey),
		ReceivedAt:  m.ReceivedAt,
		Processed:   m.Processed,
		Error:       nullStringToPtr(m.LastError),
	}
}

type webhookLogInsertModel struct {
	ID          string    `db:"id"`
	MessageType string    `db:"message_type"`
	Payload     string    `db:"payload"`
	EventKey    *string   `db:"event_key"`
	MatchKey    *string   `db:"match_key"`
	ReceivedAt  time.Time `db:"received_at"`
	Processed   bool      `db:"processed"`
	LastError   *string   `db:"last_error"`
}
