package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
)

type ScheduleRepository struct {
	mu    sync.RWMutex
	items map[string]schedule.LocalitySchedule
}

func NewScheduleRepository(schedules []schedule.LocalitySchedule) *ScheduleRepository {
	items := make(map[string]schedule.LocalitySchedule, len(schedules))
	for _, s := range schedules {
		items[normalizeLocality(s.Locality)] = s
	}
	return &ScheduleRepository{items: items}
}

func (r *ScheduleRepository) GetByLocality(_ context.Context, locality string) (schedule.LocalitySchedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[normalizeLocality(locality)]
	if !ok {
		return schedule.LocalitySchedule{}, false, nil
	}
	return s, true, nil
}

func (r *ScheduleRepository) Upsert(_ context.Context, s schedule.LocalitySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[normalizeLocality(s.Locality)] = s
	return nil
}

func (r *ScheduleRepository) List(_ context.Context) ([]schedule.LocalitySchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.LocalitySchedule, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Locality < out[j].Locality
	})
	return out, nil
}

func normalizeLocality(locality string) string {
	return strings.ToLower(strings.TrimSpace(locality))
}
