package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
)

type PointsConfigRepository struct {
	mu     sync.Mutex
	items  map[string]points.Config
	orders []string
}

func NewPointsConfigRepository(configs []points.Config) *PointsConfigRepository {
	items := make(map[string]points.Config, len(configs))
	orders := make([]string, 0, len(configs))
	for _, cfg := range configs {
		items[cfg.ID] = cfg
		orders = append(orders, cfg.ID)
	}
	return &PointsConfigRepository{items: items, orders: orders}
}

func (r *PointsConfigRepository) Save(_ context.Context, cfg points.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[cfg.ID]; !exists {
		r.orders = append(r.orders, cfg.ID)
	}
	r.items[cfg.ID] = cfg
	return nil
}

// ActivateExclusive flips every other configuration off and stores cfg
// as the active one under a single lock.
func (r *PointsConfigRepository) ActivateExclusive(_ context.Context, cfg points.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.items {
		if existing.Active && id != cfg.ID {
			existing.Active = false
			existing.UpdatedAt = cfg.UpdatedAt
			r.items[id] = existing
		}
	}

	cfg.Active = true
	if _, exists := r.items[cfg.ID]; !exists {
		r.orders = append(r.orders, cfg.ID)
	}
	r.items[cfg.ID] = cfg
	return nil
}

func (r *PointsConfigRepository) GetActive(_ context.Context) (points.Config, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cfg := range r.items {
		if cfg.Active {
			return cfg, true, nil
		}
	}
	return points.Config{}, false, nil
}

func (r *PointsConfigRepository) GetByID(_ context.Context, configID string) (points.Config, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.items[configID]
	if !ok {
		return points.Config{}, false, nil
	}
	return cfg, true, nil
}

func (r *PointsConfigRepository) List(_ context.Context) ([]points.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]points.Config, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *PointsConfigRepository) Delete(_ context.Context, configID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, configID)
	for i, id := range r.orders {
		if id == configID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

type LedgerRepository struct {
	mu      sync.RWMutex
	records map[string]points.Record
	entries []points.LedgerEntry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		records: make(map[string]points.Record),
	}
}

func (r *LedgerRepository) CreateRecord(_ context.Context, rec points.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[rec.ID] = rec
	return nil
}

func (r *LedgerRepository) GetRecord(_ context.Context, recordID string) (points.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recordID]
	if !ok {
		return points.Record{}, false, nil
	}
	return rec, true, nil
}

func (r *LedgerRepository) AppendEntry(_ context.Context, entry points.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

func (r *LedgerRepository) ListEntriesByUser(_ context.Context, userID string, limit int) ([]points.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]points.LedgerEntry, 0)
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *LedgerRepository) SumPointsByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, entry := range r.entries {
		if entry.UserID == userID {
			total += entry.Points
		}
	}
	return total, nil
}
