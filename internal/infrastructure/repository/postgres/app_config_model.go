package postgres

import (
	"database/sql"
	"time"
)

type appConfigTableModel struct {
	Key         string         `db:"key"`
	Value       sql.NullString `db:"value"`
	Description sql.NullString `db:"description"`
	Encrypted   bool           `db:"encrypted"`
	UpdatedBy   string         `db:"updated_by"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type appConfigInsertModel struct {
	Key         string  `db:"key"`
	Value       *string `db:"value"`
	Description *string `db:"description"`
	UpdatedBy   string  `db:"updated_by"`
}
