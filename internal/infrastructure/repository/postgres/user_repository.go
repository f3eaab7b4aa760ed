package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecoreciclaje/collection-core/internal/domain/user"
	qb "github.com/ecoreciclaje/collection-core/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by id query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Expr("LOWER(email) = LOWER(?)", email),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by email query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by email: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	const insertQuery = `
INSERT INTO users (public_id, name, email, role, locality, address)
VALUES (:public_id, :name, :email, :role, :locality, :address)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"public_id": u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      string(u.Role),
		"locality":  u.Locality,
		"address":   u.Address,
	})
	if err != nil {
		return fmt.Errorf("bind insert user query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)
	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
