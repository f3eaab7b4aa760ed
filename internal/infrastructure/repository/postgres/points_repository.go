package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	qb "github.com/ecoreciclaje/collection-core/internal/platform/querybuilder"
)

type PointsConfigRepository struct {
	db *sqlx.DB
}

func NewPointsConfigRepository(db *sqlx.DB) *PointsConfigRepository {
	return &PointsConfigRepository{db: db}
}

func (r *PointsConfigRepository) Save(ctx context.Context, cfg points.Config) error {
	const upsertQuery = `
INSERT INTO points_configs (public_id, description, base_points, weight_factor, separation_factor, active)
VALUES (:public_id, :description, :base_points, :weight_factor, :separation_factor, :active)
ON CONFLICT (public_id)
DO UPDATE SET
    description = EXCLUDED.description,
    base_points = EXCLUDED.base_points,
    weight_factor = EXCLUDED.weight_factor,
    separation_factor = EXCLUDED.separation_factor,
    updated_at = NOW()`

	upsertSQL, args, err := sqlx.Named(upsertQuery, map[string]any{
		"public_id":         cfg.ID,
		"description":       cfg.Description,
		"base_points":       cfg.BasePoints,
		"weight_factor":     cfg.WeightFactor,
		"separation_factor": cfg.SeparationFactor,
		"active":            cfg.Active,
	})
	if err != nil {
		return fmt.Errorf("bind upsert points config query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)
	if _, err := r.db.ExecContext(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("upsert points config: %w", err)
	}
	return nil
}

// ActivateExclusive deactivates every configuration and activates the
// given one inside a single transaction, so readers never observe two
// active rows.
func (r *PointsConfigRepository) ActivateExclusive(ctx context.Context, cfg points.Config) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for points config activation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deactivateQuery = `
UPDATE points_configs
SET active = FALSE, updated_at = NOW()
WHERE active = TRUE
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, deactivateQuery); err != nil {
		return fmt.Errorf("deactivate points configs: %w", err)
	}

	const activateQuery = `
INSERT INTO points_configs (public_id, description, base_points, weight_factor, separation_factor, active)
VALUES (:public_id, :description, :base_points, :weight_factor, :separation_factor, TRUE)
ON CONFLICT (public_id)
DO UPDATE SET
    description = EXCLUDED.description,
    base_points = EXCLUDED.base_points,
    weight_factor = EXCLUDED.weight_factor,
    separation_factor = EXCLUDED.separation_factor,
    active = TRUE,
    updated_at = NOW(),
    deleted_at = NULL`

	activateSQL, args, err := sqlx.Named(activateQuery, map[string]any{
		"public_id":         cfg.ID,
		"description":       cfg.Description,
		"base_points":       cfg.BasePoints,
		"weight_factor":     cfg.WeightFactor,
		"separation_factor": cfg.SeparationFactor,
	})
	if err != nil {
		return fmt.Errorf("bind activate points config query: %w", err)
	}
	activateSQL = tx.Rebind(activateSQL)
	if _, err := tx.ExecContext(ctx, activateSQL, args...); err != nil {
		return fmt.Errorf("activate points config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit points config activation tx: %w", err)
	}
	return nil
}

func (r *PointsConfigRepository) GetActive(ctx context.Context) (points.Config, bool, error) {
	query, args, err := qb.Select("*").From("points_configs").
		Where(
			qb.Expr("active = TRUE"),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return points.Config{}, false, fmt.Errorf("build get active points config query: %w", err)
	}

	var row pointsConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.Config{}, false, nil
		}
		return points.Config{}, false, fmt.Errorf("get active points config: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PointsConfigRepository) GetByID(ctx context.Context, configID string) (points.Config, bool, error) {
	query, args, err := qb.Select("*").From("points_configs").
		Where(
			qb.Eq("public_id", configID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return points.Config{}, false, fmt.Errorf("build get points config query: %w", err)
	}

	var row pointsConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.Config{}, false, nil
		}
		return points.Config{}, false, fmt.Errorf("get points config: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PointsConfigRepository) List(ctx context.Context) ([]points.Config, error) {
	query, args, err := qb.Select("*").From("points_configs").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list points configs query: %w", err)
	}

	var rows []pointsConfigTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list points configs: %w", err)
	}

	out := make([]points.Config, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PointsConfigRepository) Delete(ctx context.Context, configID string) error {
	query, args, err := qb.Update("points_configs").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", configID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete points config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete points config: %w", err)
	}
	return nil
}

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateRecord(ctx context.Context, rec points.Record) error {
	const insertQuery = `
INSERT INTO collection_records (public_id, request_public_id, company_id, weight_kg, separated, points, collected_at)
VALUES (:public_id, :request_public_id, :company_id, :weight_kg, :separated, :points, :collected_at)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"public_id":         rec.ID,
		"request_public_id": rec.RequestID,
		"company_id":        rec.CompanyID,
		"weight_kg":         rec.WeightKg,
		"separated":         rec.Separated,
		"points":            rec.Points,
		"collected_at":      rec.CollectedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert collection record query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)
	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert collection record: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetRecord(ctx context.Context, recordID string) (points.Record, bool, error) {
	query, args, err := qb.Select("*").From("collection_records").
		Where(qb.Eq("public_id", recordID)).
		ToSQL()
	if err != nil {
		return points.Record{}, false, fmt.Errorf("build get collection record query: %w", err)
	}

	var row collectionRecordTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.Record{}, false, nil
		}
		return points.Record{}, false, fmt.Errorf("get collection record: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LedgerRepository) AppendEntry(ctx context.Context, entry points.LedgerEntry) error {
	const insertQuery = `
INSERT INTO points_ledger (public_id, user_id, record_public_id, points, reason)
VALUES (:public_id, :user_id, :record_public_id, :points, :reason)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"public_id":        entry.ID,
		"user_id":          entry.UserID,
		"record_public_id": nullString(entry.RecordID),
		"points":           entry.Points,
		"reason":           entry.Reason,
	})
	if err != nil {
		return fmt.Errorf("bind insert ledger entry query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)
	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int) ([]points.LedgerEntry, error) {
	builder := qb.Select("*").From("points_ledger").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ledger entries query: %w", err)
	}

	var rows []ledgerEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	out := make([]points.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LedgerRepository) SumPointsByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Select("COALESCE(SUM(points), 0)").From("points_ledger").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build sum points query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}
	return total, nil
}
