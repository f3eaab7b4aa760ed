package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/user"
	"github.com/ecoreciclaje/collection-core/internal/events"
	idgen "github.com/ecoreciclaje/collection-core/internal/platform/id"
)

// EventObserver turns lifecycle events into user notifications and
// hands them to the dispatcher.
type EventObserver struct {
	dispatcher *Dispatcher
	users      user.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewEventObserver(dispatcher *Dispatcher, users user.Repository, idGen idgen.Generator) *EventObserver {
	return &EventObserver{
		dispatcher: dispatcher,
		users:      users,
		idGen:      idGen,
		now:        time.Now,
	}
}

// Subscriptions lists the event types this observer cares about.
func (o *EventObserver) Subscriptions() []events.Type {
	return []events.Type{
		events.TypeRequestCreated,
		events.TypeRequestScheduled,
		events.TypeRequestCancelled,
		events.TypeRequestCompleted,
		events.TypePointsAwarded,
	}
}

func (o *EventObserver) HandleEvent(ctx context.Context, evt events.Event) error {
	if evt.UserID == "" {
		return nil
	}

	subject, body := renderTemplate(evt)
	if subject == "" {
		return nil
	}

	account, found, err := o.users.GetByID(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("resolve notification recipient: %w", err)
	}
	if !found || account.Email == "" {
		return nil
	}

	msgID, err := o.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate message id: %w", err)
	}

	return o.dispatcher.Dispatch(ctx, Message{
		ID:        msgID,
		Recipient: account.Email,
		Subject:   subject,
		Body:      body,
		Channel:   ChannelEmail,
		CreatedAt: o.now(),
		Metadata: map[string]string{
			"event_id":   evt.ID,
			"event_type": string(evt.Type),
			"entity_id":  evt.EntityID,
		},
	})
}

func renderTemplate(evt events.Event) (subject, body string) {
	switch evt.Type {
	case events.TypeRequestCreated:
		return "Collection request received",
			fmt.Sprintf("We received your %v collection request.", evt.Payload["category"])
	case events.TypeRequestScheduled:
		return "Collection scheduled",
			fmt.Sprintf("Your pickup is scheduled for %v.", evt.Payload["scheduledAt"])
	case events.TypeRequestCancelled:
		return "Collection request cancelled",
			fmt.Sprintf("Request %s was cancelled.", evt.EntityID)
	case events.TypeRequestCompleted:
		return "Collection completed",
			fmt.Sprintf("Your pickup of %vkg was completed. Thank you for recycling.", evt.Payload["weightKg"])
	case events.TypePointsAwarded:
		return "Points awarded",
			fmt.Sprintf("You earned %v points. Reason: %v.", evt.Payload["points"], evt.Payload["reason"])
	default:
		return "", ""
	}
}
