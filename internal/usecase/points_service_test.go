package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/events"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/memory"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

func newPointsService(configRepo points.ConfigRepository, ledgerRepo points.LedgerRepository) *PointsService {
	logger := logging.NewNop()
	service := NewPointsService(configRepo, ledgerRepo, events.NewBus(logger), &seqIDGenerator{prefix: "pts"}, logger)
	service.now = func() time.Time {
		return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	}
	return service
}

func TestPointsService_CreateConfiguration_StartsInactive(t *testing.T) {
	configRepo := memory.NewPointsConfigRepository(memory.SeedPointsConfigs())
	service := newPointsService(configRepo, memory.NewLedgerRepository())

	created, err := service.CreateConfiguration(t.Context(), CreateConfigInput{
		Description:      "High season parameters",
		BasePoints:       15,
		WeightFactor:     2.5,
		SeparationFactor: 6,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if created.Active {
		t.Fatal("new configuration must start inactive")
	}

	active, found, err := configRepo.GetActive(t.Context())
	if err != nil || !found {
		t.Fatalf("expected an active config, found=%v err=%v", found, err)
	}
	if active.ID != memory.PointsConfigIDDefault {
		t.Fatalf("expected default config to stay active, got %s", active.ID)
	}
}

func TestPointsService_CreateConfiguration_DuplicateDescription(t *testing.T) {
	service := newPointsService(memory.NewPointsConfigRepository(memory.SeedPointsConfigs()), memory.NewLedgerRepository())

	_, err := service.CreateConfiguration(t.Context(), CreateConfigInput{
		Description:      "default award parameters",
		BasePoints:       12,
		WeightFactor:     2,
		SeparationFactor: 4,
	})
	var failed *ValidationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if len(failed.Findings) != 1 || failed.Findings[0].Code != validation.CodeValueNotUnique {
		t.Fatalf("expected %s finding, got %+v", validation.CodeValueNotUnique, failed.Findings)
	}
}

func TestPointsService_ActivateConfiguration_SwapsActive(t *testing.T) {
	configRepo := memory.NewPointsConfigRepository(memory.SeedPointsConfigs())
	service := newPointsService(configRepo, memory.NewLedgerRepository())

	created, err := service.CreateConfiguration(t.Context(), CreateConfigInput{
		Description:      "High season parameters",
		BasePoints:       15,
		WeightFactor:     2.5,
		SeparationFactor: 6,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	activated, err := service.ActivateConfiguration(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !activated.Active {
		t.Fatal("expected activated config to be active")
	}

	configs, err := service.ListConfigurations(t.Context())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	activeCount := 0
	for _, cfg := range configs {
		if cfg.Active {
			activeCount++
			if cfg.ID != created.ID {
				t.Fatalf("expected %s active, got %s", created.ID, cfg.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active config, got %d", activeCount)
	}
}

func TestPointsService_ActivateConfiguration_ConcurrentSingleWinner(t *testing.T) {
	configRepo := memory.NewPointsConfigRepository(nil)
	service := newPointsService(configRepo, memory.NewLedgerRepository())

	ids := make([]string, 8)
	for i := range ids {
		cfg, err := service.CreateConfiguration(t.Context(), CreateConfigInput{
			Description:      fmt.Sprintf("candidate %d", i),
			BasePoints:       10 + float64(i),
			WeightFactor:     2,
			SeparationFactor: 5,
		})
		if err != nil {
			t.Fatalf("create config %d failed: %v", i, err)
		}
		ids[i] = cfg.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(configID string) {
			defer wg.Done()
			if _, err := service.ActivateConfiguration(t.Context(), configID); err != nil {
				t.Errorf("activate %s failed: %v", configID, err)
			}
		}(id)
	}
	wg.Wait()

	configs, err := service.ListConfigurations(t.Context())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	activeCount := 0
	for _, cfg := range configs {
		if cfg.Active {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active config after concurrent activations, got %d", activeCount)
	}
}

func TestPointsService_DeleteConfiguration(t *testing.T) {
	configRepo := memory.NewPointsConfigRepository(memory.SeedPointsConfigs())
	service := newPointsService(configRepo, memory.NewLedgerRepository())

	if err := service.DeleteConfiguration(t.Context(), memory.PointsConfigIDDefault); !errors.Is(err, ErrConfigConflict) {
		t.Fatalf("expected %v for active config, got %v", ErrConfigConflict, err)
	}

	created, err := service.CreateConfiguration(t.Context(), CreateConfigInput{
		Description:      "Disposable parameters",
		BasePoints:       11,
		WeightFactor:     2,
		SeparationFactor: 4,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if err := service.DeleteConfiguration(t.Context(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := service.DeleteConfiguration(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %v, got %v", ErrNotFound, err)
	}
}

func TestPointsService_SummaryAndAdjustments(t *testing.T) {
	ledgerRepo := memory.NewLedgerRepository()
	service := newPointsService(memory.NewPointsConfigRepository(memory.SeedPointsConfigs()), ledgerRepo)

	if _, err := service.GrantBonus(t.Context(), AdjustmentInput{
		UserID: memory.UserIDResident,
		Points: 50,
		Reason: "first collection",
	}); err != nil {
		t.Fatalf("grant bonus failed: %v", err)
	}
	if _, err := service.ApplyPenalty(t.Context(), AdjustmentInput{
		UserID: memory.UserIDResident,
		Points: 20,
		Reason: "missed pickup",
	}); err != nil {
		t.Fatalf("apply penalty failed: %v", err)
	}

	summary, err := service.Summary(t.Context(), memory.UserIDResident, 10)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Total != 30 {
		t.Fatalf("expected total 30, got %d", summary.Total)
	}
	if len(summary.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(summary.Entries))
	}

	if _, err := service.GrantBonus(t.Context(), AdjustmentInput{
		UserID: memory.UserIDResident,
		Points: -5,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected %v for non-positive bonus, got %v", ErrInvalidInput, err)
	}
	if _, err := service.ApplyPenalty(t.Context(), AdjustmentInput{
		UserID: memory.UserIDResident,
		Points: 0,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected %v for non-positive penalty, got %v", ErrInvalidInput, err)
	}
}

func TestPointsService_Estimate(t *testing.T) {
	service := newPointsService(memory.NewPointsConfigRepository(nil), memory.NewLedgerRepository())

	est, err := service.Estimate(t.Context(), points.EstimateInput{
		Category:   "ORGANIC",
		QuantityKg: 10,
		At:         time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if est.Points != 88 {
		t.Fatalf("expected 88 points, got %d", est.Points)
	}

	if _, err := service.Estimate(t.Context(), points.EstimateInput{
		Category:   "PLUTONIUM",
		QuantityKg: 1,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected %v, got %v", ErrInvalidInput, err)
	}
}
