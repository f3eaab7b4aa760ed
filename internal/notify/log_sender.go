package notify

import (
	"context"

	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

// LogSender is the transport of last resort: it records the message and
// succeeds. Used when no gateway is configured, e.g. local development.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification (log transport)",
		"message_id", msg.ID,
		"recipient", msg.Recipient,
		"subject", msg.Subject,
		"channel", msg.Channel,
	)
	return nil
}
