package schedule

import "context"

// Repository describes locality schedule persistence needs from use cases.
type Repository interface {
	GetByLocality(ctx context.Context, locality string) (LocalitySchedule, bool, error)
	Upsert(ctx context.Context, s LocalitySchedule) error
	List(ctx context.Context) ([]LocalitySchedule, error)
}
