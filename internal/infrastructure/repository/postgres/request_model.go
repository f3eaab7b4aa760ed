package postgres

import (
	"database/sql"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

type requestTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	UserID      string         `db:"user_id"`
	Category    string         `db:"category"`
	Frequency   sql.NullString `db:"frequency"`
	Locality    string         `db:"locality"`
	Address     string         `db:"address"`
	Note        string         `db:"note"`
	State       string         `db:"state"`
	RequestedAt time.Time      `db:"requested_at"`
	ScheduledAt *time.Time     `db:"scheduled_at"`
	RecordID    sql.NullString `db:"record_public_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

func (m requestTableModel) toDomain() request.Request {
	return request.Request{
		ID:          m.PublicID,
		UserID:      m.UserID,
		Category:    request.Category(m.Category),
		Frequency:   request.Frequency(m.Frequency.String),
		Locality:    m.Locality,
		Address:     m.Address,
		Note:        m.Note,
		State:       request.State(m.State),
		RequestedAt: m.RequestedAt,
		ScheduledAt: m.ScheduledAt,
		RecordID:    m.RecordID.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
