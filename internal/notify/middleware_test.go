package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/platform/cache"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

func validMessage() Message {
	return Message{
		ID:        "msg-1",
		Recipient: "ana@example.com",
		Subject:   "Collection scheduled",
		Body:      "Your pickup is scheduled.",
		Channel:   ChannelEmail,
	}
}

func TestWithValidation_RejectsBrokenMessages(t *testing.T) {
	var sent int
	sender := Pipeline(SenderFunc(func(context.Context, Message) error {
		sent++
		return nil
	}), WithValidation())

	cases := []func(*Message){
		func(m *Message) { m.Recipient = "" },
		func(m *Message) { m.Subject = " " },
		func(m *Message) { m.Channel = "carrier-pigeon" },
	}
	for i, mutate := range cases {
		msg := validMessage()
		mutate(&msg)
		if err := sender.Send(t.Context(), msg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if sent != 0 {
		t.Fatalf("expected no deliveries, got %d", sent)
	}

	if err := sender.Send(t.Context(), validMessage()); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected one delivery, got %d", sent)
	}
}

func TestWithRetry_BacksOffThenSucceeds(t *testing.T) {
	var attempts int
	base := SenderFunc(func(context.Context, Message) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transport down")
		}
		return nil
	})

	var waits []time.Duration
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		MaxJitter:  0,
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	sender := Pipeline(base, WithRetry(cfg))
	if err := sender.Send(t.Context(), validMessage()); err != nil {
		t.Fatalf("expected eventual success: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(waits) != 2 || waits[0] != 100*time.Millisecond || waits[1] != 200*time.Millisecond {
		t.Fatalf("expected doubling backoff, got %v", waits)
	}
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts int
	base := SenderFunc(func(context.Context, Message) error {
		attempts++
		return fmt.Errorf("transport down")
	})

	cfg := DefaultRetryConfig()
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }

	sender := Pipeline(base, WithRetry(cfg))
	if err := sender.Send(t.Context(), validMessage()); err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if attempts != cfg.MaxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", cfg.MaxRetries+1, attempts)
	}
}

func TestBackoffDelay_CappedAtMaxDelay(t *testing.T) {
	cfg := RetryConfig{
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		MaxJitter: 0,
	}
	if got := backoffDelay(cfg, 10); got != 30*time.Second {
		t.Fatalf("expected 30s cap, got %v", got)
	}
}

func TestWithDedupe_DropsRepeatsInsideWindow(t *testing.T) {
	var sent int
	sender := Pipeline(SenderFunc(func(context.Context, Message) error {
		sent++
		return nil
	}), WithDedupe(cache.NewStore(5*time.Minute)))

	msg := validMessage()
	for i := 0; i < 3; i++ {
		if err := sender.Send(t.Context(), msg); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}
	if sent != 1 {
		t.Fatalf("expected one delivery for duplicates, got %d", sent)
	}

	other := validMessage()
	other.Subject = "Points awarded"
	if err := sender.Send(t.Context(), other); err != nil {
		t.Fatalf("distinct message failed: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected distinct subject to deliver, got %d", sent)
	}
}

func TestWithDedupe_FailedSendIsNotMarked(t *testing.T) {
	var attempts int
	sender := Pipeline(SenderFunc(func(context.Context, Message) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("transport down")
		}
		return nil
	}), WithDedupe(cache.NewStore(5*time.Minute)))

	msg := validMessage()
	if err := sender.Send(t.Context(), msg); err == nil {
		t.Fatal("expected first send to fail")
	}
	if err := sender.Send(t.Context(), msg); err != nil {
		t.Fatalf("expected retry of unmarked message to pass: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestPipeline_FullOrder(t *testing.T) {
	var sent int
	base := SenderFunc(func(context.Context, Message) error {
		sent++
		return nil
	})

	cfg := DefaultRetryConfig()
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }

	sender := Pipeline(base,
		WithValidation(),
		WithRetry(cfg),
		WithDedupe(cache.NewStore(5*time.Minute)),
		WithLogging(logging.NewNop()),
	)

	if err := sender.Send(t.Context(), Message{Channel: ChannelEmail}); err == nil {
		t.Fatal("expected validation to reject before transport")
	}
	if sent != 0 {
		t.Fatalf("expected no transport call, got %d", sent)
	}

	if err := sender.Send(t.Context(), validMessage()); err != nil {
		t.Fatalf("full pipeline failed: %v", err)
	}
	if err := sender.Send(t.Context(), validMessage()); err != nil {
		t.Fatalf("duplicate through pipeline failed: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected dedupe to hold delivery at 1, got %d", sent)
	}
}
