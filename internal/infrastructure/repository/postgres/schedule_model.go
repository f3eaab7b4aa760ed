package postgres

import (
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
)

type scheduleTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Locality  string     `db:"locality"`
	Weekday   int        `db:"weekday"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m scheduleTableModel) toDomain() schedule.LocalitySchedule {
	return schedule.LocalitySchedule{
		ID:        m.PublicID,
		Locality:  m.Locality,
		Weekday:   time.Weekday(m.Weekday),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
