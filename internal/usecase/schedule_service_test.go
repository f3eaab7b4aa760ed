package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/events"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/memory"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
)

func newScheduleService(repo schedule.Repository) *ScheduleService {
	logger := logging.NewNop()
	service := NewScheduleService(repo, events.NewBus(logger), &seqIDGenerator{prefix: "sch"}, logger)
	service.now = func() time.Time {
		return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	}
	return service
}

func TestScheduleService_SetLocalitySchedule_CreateThenReplace(t *testing.T) {
	repo := memory.NewScheduleRepository(nil)
	service := newScheduleService(repo)

	created, err := service.SetLocalitySchedule(t.Context(), SetLocalityScheduleInput{
		Locality: "Suba",
		Weekday:  "TUESDAY",
	})
	if err != nil {
		t.Fatalf("set schedule failed: %v", err)
	}
	if created.Weekday != time.Tuesday {
		t.Fatalf("expected Tuesday, got %v", created.Weekday)
	}

	replaced, err := service.SetLocalitySchedule(t.Context(), SetLocalityScheduleInput{
		Locality: "Suba",
		Weekday:  "THURSDAY",
	})
	if err != nil {
		t.Fatalf("replace schedule failed: %v", err)
	}
	if replaced.ID != created.ID {
		t.Fatalf("expected replacement to keep id %s, got %s", created.ID, replaced.ID)
	}
	if replaced.Weekday != time.Thursday {
		t.Fatalf("expected Thursday, got %v", replaced.Weekday)
	}

	stored, found, err := repo.GetByLocality(t.Context(), "Suba")
	if err != nil || !found {
		t.Fatalf("expected stored schedule, found=%v err=%v", found, err)
	}
	if stored.Weekday != time.Thursday {
		t.Fatalf("expected stored Thursday, got %v", stored.Weekday)
	}
}

func TestScheduleService_SetLocalitySchedule_RejectsWeekend(t *testing.T) {
	service := newScheduleService(memory.NewScheduleRepository(nil))

	_, err := service.SetLocalitySchedule(t.Context(), SetLocalityScheduleInput{
		Locality: "Suba",
		Weekday:  "SUNDAY",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected %v, got %v", ErrInvalidInput, err)
	}
}

func TestScheduleService_EnsureDefault(t *testing.T) {
	repo := memory.NewScheduleRepository(nil)
	service := newScheduleService(repo)

	first, err := service.EnsureDefault(t.Context(), "Teusaquillo")
	if err != nil {
		t.Fatalf("ensure default failed: %v", err)
	}
	if want := schedule.AssignWeekday("Teusaquillo"); first.Weekday != want {
		t.Fatalf("expected derived weekday %v, got %v", want, first.Weekday)
	}
	if !schedule.BusinessDay(first.Weekday) {
		t.Fatalf("derived weekday %v is not a business day", first.Weekday)
	}

	// A second call returns the persisted entry instead of re-deriving.
	again, err := service.EnsureDefault(t.Context(), "Teusaquillo")
	if err != nil {
		t.Fatalf("ensure default failed: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected same schedule id %s, got %s", first.ID, again.ID)
	}
}

func TestScheduleService_EnsureDefault_ExplicitConfigWins(t *testing.T) {
	repo := memory.NewScheduleRepository(nil)
	service := newScheduleService(repo)

	configured, err := service.SetLocalitySchedule(t.Context(), SetLocalityScheduleInput{
		Locality: "Teusaquillo",
		Weekday:  "FRIDAY",
	})
	if err != nil {
		t.Fatalf("set schedule failed: %v", err)
	}

	got, err := service.EnsureDefault(t.Context(), "Teusaquillo")
	if err != nil {
		t.Fatalf("ensure default failed: %v", err)
	}
	if got.ID != configured.ID || got.Weekday != time.Friday {
		t.Fatalf("expected configured Friday schedule, got %+v", got)
	}
}

func TestScheduleService_List(t *testing.T) {
	service := newScheduleService(memory.NewScheduleRepository(memory.SeedSchedules()))

	items, err := service.List(t.Context())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 schedules, got %d", len(items))
	}
}
