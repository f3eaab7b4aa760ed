package postgres

import (
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/user"
)

type userTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Role      string     `db:"role"`
	Locality  string     `db:"locality"`
	Address   string     `db:"address"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:        m.PublicID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      user.Role(m.Role),
		Locality:  m.Locality,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}
