package events

import (
	"context"
	"sync"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

// Type names a lifecycle event on the bus.
type Type string

const (
	TypeRequestCreated     Type = "request.created"
	TypeRequestScheduled   Type = "request.scheduled"
	TypeRequestAssigned    Type = "request.assigned"
	TypeRequestCancelled   Type = "request.cancelled"
	TypeRequestCompleted   Type = "request.completed"
	TypePointsAwarded      Type = "points.awarded"
	TypeScheduleConfigured Type = "schedule.configured"
	TypeConfigActivated    Type = "config.activated"
)

// Event is one immutable lifecycle fact published on the bus.
type Event struct {
	ID         string
	Type       Type
	OccurredAt time.Time
	UserID     string
	EntityID   string
	Payload    map[string]any
}

// Observer consumes published events. A failing observer never affects
// the publisher or the remaining observers.
type Observer interface {
	HandleEvent(ctx context.Context, evt Event) error
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, evt Event) error

func (f ObserverFunc) HandleEvent(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

const historyCapacity = 1000

// Bus is an explicit in-process event bus instance. Delivery is
// synchronous and in subscription order per type; typed observers run
// before catch-all observers.
type Bus struct {
	mu        sync.RWMutex
	byType    map[Type][]Observer
	all       []Observer
	history   []Event
	historyAt int
	logger    *logging.Logger
}

func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Default()
	}
	return &Bus{
		byType: make(map[Type][]Observer),
		logger: logger,
	}
}

func (b *Bus) Subscribe(eventType Type, obs Observer) {
	if obs == nil {
		return
	}
	b.mu.Lock()
	b.byType[eventType] = append(b.byType[eventType], obs)
	b.mu.Unlock()
}

func (b *Bus) SubscribeAll(obs Observer) {
	if obs == nil {
		return
	}
	b.mu.Lock()
	b.all = append(b.all, obs)
	b.mu.Unlock()
}

// Publish delivers the event to every matching observer and records it
// in the bounded history ring. Observer panics and errors are logged
// and swallowed.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.Lock()
	observers := make([]Observer, 0, len(b.byType[evt.Type])+len(b.all))
	observers = append(observers, b.byType[evt.Type]...)
	observers = append(observers, b.all...)
	b.record(evt)
	b.mu.Unlock()

	for _, obs := range observers {
		b.deliver(ctx, obs, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, obs Observer, evt Event) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.ErrorContext(ctx, "event observer panicked", "event_type", evt.Type, "event_id", evt.ID, "panic", rec)
		}
	}()

	if err := obs.HandleEvent(ctx, evt); err != nil {
		b.logger.WarnContext(ctx, "event observer failed", "event_type", evt.Type, "event_id", evt.ID, "error", err)
	}
}

// record keeps the last historyCapacity events. Caller holds b.mu.
func (b *Bus) record(evt Event) {
	if len(b.history) < historyCapacity {
		b.history = append(b.history, evt)
		return
	}
	b.history[b.historyAt] = evt
	b.historyAt = (b.historyAt + 1) % historyCapacity
}

// History returns recorded events, oldest first, optionally filtered by
// type. A zero limit returns everything retained.
func (b *Bus) History(eventType Type, limit int) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ordered := make([]Event, 0, len(b.history))
	ordered = append(ordered, b.history[b.historyAt:]...)
	ordered = append(ordered, b.history[:b.historyAt]...)

	out := make([]Event, 0, len(ordered))
	for _, evt := range ordered {
		if eventType != "" && evt.Type != eventType {
			continue
		}
		out = append(out, evt)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
