package notify

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

// Dispatcher hands messages to a worker pool so delivery retries never
// run on the request path.
type Dispatcher struct {
	pool   *ants.Pool
	sender Sender
	logger *logging.Logger
}

func NewDispatcher(workers int, sender Sender, logger *logging.Logger) (*Dispatcher, error) {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}

	return &Dispatcher{
		pool:   pool,
		sender: sender,
		logger: logger,
	}, nil
}

// Dispatch enqueues the message for background delivery. The submitted
// task outlives the caller's request context on purpose; only its trace
// linkage is carried over.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	detached := context.WithoutCancel(ctx)
	err := d.pool.Submit(func() {
		if sendErr := d.sender.Send(detached, msg); sendErr != nil {
			d.logger.WarnContext(detached, "background notification dropped",
				"message_id", msg.ID,
				"channel", msg.Channel,
				"error", sendErr,
			)
		}
	})
	if err != nil {
		return fmt.Errorf("submit notification to worker pool: %w", err)
	}
	return nil
}

func (d *Dispatcher) Close() {
	d.pool.Release()
}
