package request

import (
	"context"
	"time"
)

// ListFilter narrows request listings. A zero value lists everything
// for the user, newest first.
type ListFilter struct {
	State State
	Limit int
}

// Repository describes request persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, r Request) error
	GetByID(ctx context.Context, requestID string) (Request, bool, error)
	Update(ctx context.Context, r Request) error
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Request, error)
	CountByUserAndDate(ctx context.Context, userID string, day time.Time) (int, error)
}
