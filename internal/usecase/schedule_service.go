package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/events"
	idgen "github.com/ecoreciclaje/collection-core/internal/platform/id"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

// SetLocalityScheduleInput configures the pickup weekday for a
// locality. Weekday is the uppercase English day name.
type SetLocalityScheduleInput struct {
	Locality string
	Weekday  string
}

type ScheduleService struct {
	scheduleRepo schedule.Repository
	bus          *events.Bus
	chain        *validation.Chain[validation.LocalitySchedulePayload]
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewScheduleService(
	scheduleRepo schedule.Repository,
	bus *events.Bus,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		bus:          bus,
		chain:        validation.LocalityScheduleChain(),
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// SetLocalitySchedule creates or replaces the pickup weekday for a
// locality. An explicit configuration always wins over the derived
// default from EnsureDefault.
func (s *ScheduleService) SetLocalitySchedule(ctx context.Context, input SetLocalityScheduleInput) (schedule.LocalitySchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.SetLocalitySchedule")
	defer span.End()

	payload := validation.LocalitySchedulePayload{
		Locality: strings.TrimSpace(input.Locality),
		Weekday:  strings.TrimSpace(input.Weekday),
	}
	result, err := s.chain.Validate(ctx, payload)
	if err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if !result.Valid() {
		return schedule.LocalitySchedule{}, newValidationFailed(result)
	}

	weekday, err := schedule.ParseWeekday(payload.Weekday)
	if err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	entry := schedule.LocalitySchedule{
		Locality:  payload.Locality,
		Weekday:   weekday,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, found, err := s.scheduleRepo.GetByLocality(ctx, payload.Locality)
	if err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("load locality schedule: %w", err)
	}
	if found {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	} else {
		id, err := s.idGen.NewID()
		if err != nil {
			return schedule.LocalitySchedule{}, fmt.Errorf("generate schedule id: %w", err)
		}
		entry.ID = id
	}

	if err := s.scheduleRepo.Upsert(ctx, entry); err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("persist locality schedule: %w", err)
	}

	eventID, idErr := s.idGen.NewID()
	if idErr == nil {
		s.bus.Publish(ctx, events.Event{
			ID:         eventID,
			Type:       events.TypeScheduleConfigured,
			OccurredAt: now,
			EntityID:   entry.ID,
			Payload: map[string]any{
				"locality": entry.Locality,
				"weekday":  schedule.WeekdayName(entry.Weekday),
			},
		})
	}

	s.logger.InfoContext(ctx, "locality schedule configured",
		"locality", entry.Locality,
		"weekday", schedule.WeekdayName(entry.Weekday),
	)
	return entry, nil
}

// List returns every configured locality schedule.
func (s *ScheduleService) List(ctx context.Context) ([]schedule.LocalitySchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.List")
	defer span.End()

	items, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locality schedules: %w", err)
	}
	return items, nil
}

// EnsureDefault makes sure a locality has a schedule, deriving the
// weekday from the locality name when none was configured. The derived
// entry is persisted so every later lookup sees the same day.
func (s *ScheduleService) EnsureDefault(ctx context.Context, locality string) (schedule.LocalitySchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.EnsureDefault")
	defer span.End()

	locality = strings.TrimSpace(locality)
	if locality == "" {
		return schedule.LocalitySchedule{}, fmt.Errorf("%w: locality is required", ErrInvalidInput)
	}

	existing, found, err := s.scheduleRepo.GetByLocality(ctx, locality)
	if err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("load locality schedule: %w", err)
	}
	if found {
		return existing, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("generate schedule id: %w", err)
	}

	now := s.now()
	entry := schedule.LocalitySchedule{
		ID:        id,
		Locality:  locality,
		Weekday:   schedule.AssignWeekday(locality),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.scheduleRepo.Upsert(ctx, entry); err != nil {
		return schedule.LocalitySchedule{}, fmt.Errorf("persist locality schedule: %w", err)
	}

	s.logger.InfoContext(ctx, "default locality schedule assigned",
		"locality", locality,
		"weekday", schedule.WeekdayName(entry.Weekday),
	)
	return entry, nil
}
