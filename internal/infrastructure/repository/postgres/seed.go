package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the baseline users, locality schedules and the
// default points configuration into an empty database. It is a no-op
// once any user exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, name, email, role, locality, address)
VALUES (:public_id, :name, :email, :role, :locality, :address)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"role":      string(u.Role),
			"locality":  u.Locality,
			"address":   u.Address,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, s := range memory.SeedSchedules() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO locality_schedules (public_id, locality, weekday)
VALUES (:public_id, :locality, :weekday)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": s.ID,
			"locality":  s.Locality,
			"weekday":   int(s.Weekday),
		})
		if err != nil {
			return fmt.Errorf("bind seed schedule %s query: %w", s.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed schedule %s: %w", s.ID, err)
		}
	}

	for _, cfg := range memory.SeedPointsConfigs() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO points_configs (public_id, description, base_points, weight_factor, separation_factor, active)
VALUES (:public_id, :description, :base_points, :weight_factor, :separation_factor, :active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":         cfg.ID,
			"description":       cfg.Description,
			"base_points":       cfg.BasePoints,
			"weight_factor":     cfg.WeightFactor,
			"separation_factor": cfg.SeparationFactor,
			"active":            cfg.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed points config %s query: %w", cfg.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed points config %s: %w", cfg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
