package notify

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/platform/cache"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

// Middleware wraps a Sender with one delivery concern. The pipeline is
// assembled once at startup; ordering is explicit at the call site.
type Middleware func(Sender) Sender

// Pipeline composes middlewares around a base sender. The first
// middleware listed is the outermost one.
func Pipeline(base Sender, middlewares ...Middleware) Sender {
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// WithValidation rejects structurally broken messages before any
// transport work happens.
func WithValidation() Middleware {
	return func(next Sender) Sender {
		return SenderFunc(func(ctx context.Context, msg Message) error {
			if strings.TrimSpace(msg.Recipient) == "" {
				return fmt.Errorf("notification recipient is required")
			}
			if strings.TrimSpace(msg.Subject) == "" {
				return fmt.Errorf("notification subject is required")
			}
			switch msg.Channel {
			case ChannelEmail, ChannelSMS, ChannelPush, ChannelSystem:
			default:
				return fmt.Errorf("unknown notification channel %q", msg.Channel)
			}
			return next.Send(ctx, msg)
		})
	}
}

// RetryConfig tunes WithRetry. Sleep is overridable for tests.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxJitter  time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		MaxJitter:  time.Second,
	}
}

// WithRetry retries failed sends with exponential backoff plus jitter,
// capped at MaxDelay. The context aborts waiting immediately.
func WithRetry(cfg RetryConfig) Middleware {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryConfig().BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryConfig().MaxDelay
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	return func(next Sender) Sender {
		return SenderFunc(func(ctx context.Context, msg Message) error {
			var lastErr error
			for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
				if attempt > 0 {
					if err := cfg.Sleep(ctx, backoffDelay(cfg, attempt-1)); err != nil {
						return fmt.Errorf("retry wait aborted: %w", err)
					}
				}
				lastErr = next.Send(ctx, msg)
				if lastErr == nil {
					return nil
				}
			}
			return fmt.Errorf("send failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
		})
	}
}

func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.BaseDelay << attempt
	if cfg.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(cfg.MaxJitter)))
	}
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithDedupe drops repeat messages with the same recipient, subject and
// channel inside the store's TTL window.
func WithDedupe(store *cache.Store) Middleware {
	return func(next Sender) Sender {
		return SenderFunc(func(ctx context.Context, msg Message) error {
			key := dedupeKey(msg)
			if _, seen := store.Get(ctx, key); seen {
				return nil
			}
			if err := next.Send(ctx, msg); err != nil {
				return err
			}
			store.Set(ctx, key, struct{}{})
			return nil
		})
	}
}

func dedupeKey(msg Message) string {
	return msg.Recipient + "|" + msg.Subject + "|" + string(msg.Channel)
}

// WithLogging records every delivery outcome with its duration.
func WithLogging(logger *logging.Logger) Middleware {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next Sender) Sender {
		return SenderFunc(func(ctx context.Context, msg Message) error {
			started := time.Now()
			err := next.Send(ctx, msg)
			if err != nil {
				logger.WarnContext(ctx, "notification delivery failed",
					"message_id", msg.ID,
					"channel", msg.Channel,
					"duration_ms", time.Since(started).Milliseconds(),
					"error", err,
				)
				return err
			}
			logger.InfoContext(ctx, "notification delivered",
				"message_id", msg.ID,
				"channel", msg.Channel,
				"duration_ms", time.Since(started).Milliseconds(),
			)
			return nil
		})
	}
}
