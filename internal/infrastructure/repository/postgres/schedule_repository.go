package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	qb "github.com/ecoreciclaje/collection-core/internal/platform/querybuilder"
)

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetByLocality(ctx context.Context, locality string) (schedule.LocalitySchedule, bool, error) {
	query, args, err := qb.Select("*").From("locality_schedules").
		Where(
			qb.Expr("LOWER(locality) = LOWER(?)", locality),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return schedule.LocalitySchedule{}, false, fmt.Errorf("build get locality schedule query: %w", err)
	}

	var row scheduleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return schedule.LocalitySchedule{}, false, nil
		}
		return schedule.LocalitySchedule{}, false, fmt.Errorf("get locality schedule: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ScheduleRepository) Upsert(ctx context.Context, s schedule.LocalitySchedule) error {
	const upsertQuery = `
INSERT INTO locality_schedules (public_id, locality, weekday)
VALUES (:public_id, :locality, :weekday)
ON CONFLICT (locality) WHERE deleted_at IS NULL
DO UPDATE SET
    weekday = EXCLUDED.weekday,
    updated_at = NOW(),
    deleted_at = NULL`

	upsertSQL, args, err := sqlx.Named(upsertQuery, map[string]any{
		"public_id": s.ID,
		"locality":  s.Locality,
		"weekday":   int(s.Weekday),
	})
	if err != nil {
		return fmt.Errorf("bind upsert locality schedule query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)
	if _, err := r.db.ExecContext(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("upsert locality schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) List(ctx context.Context) ([]schedule.LocalitySchedule, error) {
	query, args, err := qb.Select("*").From("locality_schedules").
		Where(qb.IsNull("deleted_at")).
		OrderBy("locality").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list locality schedules query: %w", err)
	}

	var rows []scheduleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list locality schedules: %w", err)
	}

	out := make([]schedule.LocalitySchedule, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
