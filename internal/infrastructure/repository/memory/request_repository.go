package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

type RequestRepository struct {
	mu     sync.RWMutex
	items  map[string]request.Request
	orders []string
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{
		items: make(map[string]request.Request),
	}
}

func (r *RequestRepository) Create(_ context.Context, req request.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; !exists {
		r.orders = append(r.orders, req.ID)
	}
	r.items[req.ID] = req
	return nil
}

func (r *RequestRepository) GetByID(_ context.Context, requestID string) (request.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[requestID]
	if !ok {
		return request.Request{}, false, nil
	}
	return req, true, nil
}

func (r *RequestRepository) Update(_ context.Context, req request.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; !exists {
		r.orders = append(r.orders, req.ID)
	}
	r.items[req.ID] = req
	return nil
}

func (r *RequestRepository) ListByUser(_ context.Context, userID string, filter request.ListFilter) ([]request.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]request.Request, 0)
	for _, id := range r.orders {
		req := r.items[id]
		if req.UserID != userID {
			continue
		}
		if filter.State != "" && req.State != filter.State {
			continue
		}
		out = append(out, req)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *RequestRepository) CountByUserAndDate(_ context.Context, userID string, day time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wantY, wantM, wantD := day.Date()
	count := 0
	for _, req := range r.items {
		if req.UserID != userID {
			continue
		}
		if req.State == request.StateCancelled {
			continue
		}
		y, m, d := req.RequestedAt.In(day.Location()).Date()
		if y == wantY && m == wantM && d == wantD {
			count++
		}
	}
	return count, nil
}
