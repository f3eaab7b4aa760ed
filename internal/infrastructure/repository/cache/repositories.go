package cache

import (
	"context"
	"strings"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/domain/user"
	basecache "github.com/ecoreciclaje/collection-core/internal/platform/cache"
)

// ScheduleRepository caches locality schedule reads. The schedule table
// is tiny and read on every organic request, so hits dominate.
type ScheduleRepository struct {
	next  schedule.Repository
	cache *basecache.Store
}

func NewScheduleRepository(next schedule.Repository, cache *basecache.Store) *ScheduleRepository {
	return &ScheduleRepository{next: next, cache: cache}
}

func (r *ScheduleRepository) GetByLocality(ctx context.Context, locality string) (schedule.LocalitySchedule, bool, error) {
	key := "schedule:locality:" + strings.ToLower(strings.TrimSpace(locality))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByLocality(ctx, locality)
		if err != nil {
			return nil, err
		}
		return cachedSchedule{value: item, exists: exists}, nil
	})
	if err != nil {
		return schedule.LocalitySchedule{}, false, err
	}

	cached, _ := v.(cachedSchedule)
	return cached.value, cached.exists, nil
}

func (r *ScheduleRepository) Upsert(ctx context.Context, s schedule.LocalitySchedule) error {
	if err := r.next.Upsert(ctx, s); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "schedule:")
	return nil
}

func (r *ScheduleRepository) List(ctx context.Context) ([]schedule.LocalitySchedule, error) {
	v, err := r.cache.GetOrLoad(ctx, "schedule:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]schedule.LocalitySchedule(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]schedule.LocalitySchedule)
	return append([]schedule.LocalitySchedule(nil), items...), nil
}

type cachedSchedule struct {
	value  schedule.LocalitySchedule
	exists bool
}

// UserRepository caches user lookups keyed by id and email.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	key := "user:id:" + userID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return cachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUser)
	return cached.value, cached.exists, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	key := "user:email:" + strings.ToLower(strings.TrimSpace(email))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return cachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUser)
	return cached.value, cached.exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	if err := r.next.Create(ctx, u); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "user:")
	return nil
}

type cachedUser struct {
	value  user.User
	exists bool
}

// PointsConfigRepository caches formula configuration reads. Every
// completed pickup loads the active configuration, so GetActive is the
// hot path. Writes invalidate the whole prefix because activation
// touches rows beyond the one being saved.
type PointsConfigRepository struct {
	next  points.ConfigRepository
	cache *basecache.Store
}

func NewPointsConfigRepository(next points.ConfigRepository, cache *basecache.Store) *PointsConfigRepository {
	return &PointsConfigRepository{next: next, cache: cache}
}

func (r *PointsConfigRepository) Save(ctx context.Context, cfg points.Config) error {
	if err := r.next.Save(ctx, cfg); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "pointsconfig:")
	return nil
}

func (r *PointsConfigRepository) ActivateExclusive(ctx context.Context, cfg points.Config) error {
	if err := r.next.ActivateExclusive(ctx, cfg); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "pointsconfig:")
	return nil
}

func (r *PointsConfigRepository) GetActive(ctx context.Context) (points.Config, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "pointsconfig:active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedPointsConfig{value: item, exists: exists}, nil
	})
	if err != nil {
		return points.Config{}, false, err
	}

	cached, _ := v.(cachedPointsConfig)
	return cached.value, cached.exists, nil
}

func (r *PointsConfigRepository) GetByID(ctx context.Context, configID string) (points.Config, bool, error) {
	key := "pointsconfig:id:" + configID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, configID)
		if err != nil {
			return nil, err
		}
		return cachedPointsConfig{value: item, exists: exists}, nil
	})
	if err != nil {
		return points.Config{}, false, err
	}

	cached, _ := v.(cachedPointsConfig)
	return cached.value, cached.exists, nil
}

func (r *PointsConfigRepository) List(ctx context.Context) ([]points.Config, error) {
	v, err := r.cache.GetOrLoad(ctx, "pointsconfig:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]points.Config(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]points.Config)
	return append([]points.Config(nil), items...), nil
}

func (r *PointsConfigRepository) Delete(ctx context.Context, configID string) error {
	if err := r.next.Delete(ctx, configID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "pointsconfig:")
	return nil
}

type cachedPointsConfig struct {
	value  points.Config
	exists bool
}
