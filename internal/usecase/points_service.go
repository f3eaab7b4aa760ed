package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/events"
	idgen "github.com/ecoreciclaje/collection-core/internal/platform/id"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

// CreateConfigInput describes a new award configuration. Configurations
// start inactive and must be activated explicitly.
type CreateConfigInput struct {
	Description      string
	BasePoints       float64
	WeightFactor     float64
	SeparationFactor float64
}

// PointsSummary is the balance view for a single user.
type PointsSummary struct {
	UserID  string               `json:"userId"`
	Total   int                  `json:"total"`
	Entries []points.LedgerEntry `json:"entries"`
}

// AdjustmentInput grants a bonus or applies a penalty outside the
// regular collection flow.
type AdjustmentInput struct {
	UserID string
	Points int
	Reason string
}

type PointsService struct {
	configRepo points.ConfigRepository
	ledgerRepo points.LedgerRepository
	bus        *events.Bus
	chain      *validation.Chain[validation.PointsConfigPayload]
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewPointsService(
	configRepo points.ConfigRepository,
	ledgerRepo points.LedgerRepository,
	bus *events.Bus,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}
	svc := &PointsService{
		configRepo: configRepo,
		ledgerRepo: ledgerRepo,
		bus:        bus,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
	svc.chain = validation.PointsConfigChain(func(ctx context.Context, description string) (bool, error) {
		configs, err := configRepo.List(ctx)
		if err != nil {
			return false, err
		}
		for _, cfg := range configs {
			if strings.EqualFold(cfg.Description, description) {
				return true, nil
			}
		}
		return false, nil
	})
	return svc
}

// CreateConfiguration stores a new inactive award configuration.
func (s *PointsService) CreateConfiguration(ctx context.Context, input CreateConfigInput) (points.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.CreateConfiguration")
	defer span.End()

	payload := validation.PointsConfigPayload{
		Description:      strings.TrimSpace(input.Description),
		BasePoints:       input.BasePoints,
		WeightFactor:     input.WeightFactor,
		SeparationFactor: input.SeparationFactor,
	}
	result, err := s.chain.Validate(ctx, payload)
	if err != nil {
		return points.Config{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if !result.Valid() {
		return points.Config{}, newValidationFailed(result)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return points.Config{}, fmt.Errorf("generate config id: %w", err)
	}

	now := s.now()
	cfg := points.Config{
		ID:               id,
		Description:      payload.Description,
		BasePoints:       payload.BasePoints,
		WeightFactor:     payload.WeightFactor,
		SeparationFactor: payload.SeparationFactor,
		Active:           false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return points.Config{}, fmt.Errorf("persist points config: %w", err)
	}

	s.logger.InfoContext(ctx, "points configuration created", "config_id", cfg.ID, "description", cfg.Description)
	return cfg, nil
}

// ActivateConfiguration makes the given configuration the single active
// one. Deactivating the previous configuration and activating the new
// one happen atomically in the repository.
func (s *PointsService) ActivateConfiguration(ctx context.Context, configID string) (points.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ActivateConfiguration")
	defer span.End()

	configID = strings.TrimSpace(configID)
	cfg, found, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return points.Config{}, fmt.Errorf("load points config: %w", err)
	}
	if !found {
		return points.Config{}, fmt.Errorf("%w: points config %s", ErrNotFound, configID)
	}

	cfg.Active = true
	cfg.UpdatedAt = s.now()
	if err := s.configRepo.ActivateExclusive(ctx, cfg); err != nil {
		return points.Config{}, fmt.Errorf("activate points config: %w", err)
	}

	eventID, idErr := s.idGen.NewID()
	if idErr == nil {
		s.bus.Publish(ctx, events.Event{
			ID:         eventID,
			Type:       events.TypeConfigActivated,
			OccurredAt: cfg.UpdatedAt,
			EntityID:   cfg.ID,
			Payload: map[string]any{
				"description": cfg.Description,
			},
		})
	}

	s.logger.InfoContext(ctx, "points configuration activated", "config_id", cfg.ID)
	return cfg, nil
}

// ListConfigurations returns every stored configuration.
func (s *PointsService) ListConfigurations(ctx context.Context) ([]points.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ListConfigurations")
	defer span.End()

	configs, err := s.configRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list points configs: %w", err)
	}
	return configs, nil
}

// DeleteConfiguration removes an inactive configuration. The active
// configuration cannot be deleted, only replaced by activating another.
func (s *PointsService) DeleteConfiguration(ctx context.Context, configID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.DeleteConfiguration")
	defer span.End()

	configID = strings.TrimSpace(configID)
	cfg, found, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return fmt.Errorf("load points config: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: points config %s", ErrNotFound, configID)
	}
	if cfg.Active {
		return fmt.Errorf("%w: active configuration cannot be deleted", ErrConfigConflict)
	}
	if err := s.configRepo.Delete(ctx, configID); err != nil {
		return fmt.Errorf("delete points config: %w", err)
	}
	return nil
}

// Summary returns the user's balance together with the most recent
// ledger entries.
func (s *PointsService) Summary(ctx context.Context, userID string, limit int) (PointsSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.Summary")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return PointsSummary{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	total, err := s.ledgerRepo.SumPointsByUser(ctx, userID)
	if err != nil {
		return PointsSummary{}, fmt.Errorf("sum points: %w", err)
	}
	entries, err := s.ledgerRepo.ListEntriesByUser(ctx, userID, limit)
	if err != nil {
		return PointsSummary{}, fmt.Errorf("list ledger entries: %w", err)
	}
	return PointsSummary{UserID: userID, Total: total, Entries: entries}, nil
}

// GrantBonus appends a positive ledger entry outside the collection flow.
func (s *PointsService) GrantBonus(ctx context.Context, input AdjustmentInput) (points.LedgerEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.GrantBonus")
	defer span.End()

	if input.Points <= 0 {
		return points.LedgerEntry{}, fmt.Errorf("%w: bonus points must be positive", ErrInvalidInput)
	}
	return s.appendAdjustment(ctx, input.UserID, input.Points, points.BonusReason(input.Reason))
}

// ApplyPenalty appends a negative ledger entry. The amount is given as
// a positive number and stored negated.
func (s *PointsService) ApplyPenalty(ctx context.Context, input AdjustmentInput) (points.LedgerEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ApplyPenalty")
	defer span.End()

	if input.Points <= 0 {
		return points.LedgerEntry{}, fmt.Errorf("%w: penalty points must be positive", ErrInvalidInput)
	}
	return s.appendAdjustment(ctx, input.UserID, -input.Points, points.PenaltyReason(input.Reason))
}

func (s *PointsService) appendAdjustment(ctx context.Context, userID string, amount int, reason string) (points.LedgerEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return points.LedgerEntry{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return points.LedgerEntry{}, fmt.Errorf("generate ledger entry id: %w", err)
	}
	entry := points.LedgerEntry{
		ID:        id,
		UserID:    userID,
		Points:    amount,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return points.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}

	eventID, idErr := s.idGen.NewID()
	if idErr == nil {
		s.bus.Publish(ctx, events.Event{
			ID:         eventID,
			Type:       events.TypePointsAwarded,
			OccurredAt: entry.CreatedAt,
			UserID:     userID,
			EntityID:   entry.ID,
			Payload: map[string]any{
				"points": amount,
				"reason": reason,
			},
		})
	}
	return entry, nil
}

// Estimate previews an award without persisting anything.
func (s *PointsService) Estimate(ctx context.Context, input points.EstimateInput) (points.Estimate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.Estimate")
	defer span.End()

	if _, err := request.ParseCategory(string(input.Category)); err != nil {
		return points.Estimate{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.QuantityKg <= 0 {
		return points.Estimate{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if input.At.IsZero() {
		input.At = s.now()
	}
	return points.PreviewEstimate(input), nil
}
