package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	qb "github.com/ecoreciclaje/collection-core/internal/platform/querybuilder"
)

type RequestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req request.Request) error {
	const insertQuery = `
INSERT INTO collection_requests (
    public_id,
    user_id,
    category,
    frequency,
    locality,
    address,
    note,
    state,
    requested_at,
    scheduled_at
) VALUES (:public_id, :user_id, :category, :frequency, :locality, :address, :note, :state, :requested_at, :scheduled_at)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"public_id":    req.ID,
		"user_id":      req.UserID,
		"category":     string(req.Category),
		"frequency":    nullString(string(req.Frequency)),
		"locality":     req.Locality,
		"address":      req.Address,
		"note":         req.Note,
		"state":        string(req.State),
		"requested_at": req.RequestedAt,
		"scheduled_at": req.ScheduledAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert collection request query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)
	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert collection request: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, requestID string) (request.Request, bool, error) {
	query, args, err := qb.Select("*").From("collection_requests").
		Where(
			qb.Eq("public_id", requestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return request.Request{}, false, fmt.Errorf("build get collection request query: %w", err)
	}

	var row requestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return request.Request{}, false, nil
		}
		return request.Request{}, false, fmt.Errorf("get collection request: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RequestRepository) Update(ctx context.Context, req request.Request) error {
	query, args, err := qb.Update("collection_requests").
		Set("note", req.Note).
		Set("state", string(req.State)).
		Set("scheduled_at", req.ScheduledAt).
		Set("record_public_id", nullString(req.RecordID)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", req.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update collection request query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update collection request: %w", err)
	}
	return nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID string, filter request.ListFilter) ([]request.Request, error) {
	conditions := []qb.Condition{
		qb.Eq("user_id", userID),
		qb.IsNull("deleted_at"),
	}
	if filter.State != "" {
		conditions = append(conditions, qb.Eq("state", string(filter.State)))
	}

	builder := qb.Select("*").From("collection_requests").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list collection requests query: %w", err)
	}

	var rows []requestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list collection requests: %w", err)
	}

	out := make([]request.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RequestRepository) CountByUserAndDate(ctx context.Context, userID string, day time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("collection_requests").
		Where(
			qb.Eq("user_id", userID),
			qb.Expr("requested_at::date = ?::date", day),
			qb.Expr("state <> ?", string(request.StateCancelled)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count collection requests query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count collection requests: %w", err)
	}
	return count, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
