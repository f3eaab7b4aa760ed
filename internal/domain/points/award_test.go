package points

import (
	"testing"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

func TestAward_FallbackFormula(t *testing.T) {
	// 10 base + 5kg * 2 + 5 separation = 25, exactly.
	got := Award(FallbackConfig(), 5, true)
	if got != 25 {
		t.Fatalf("expected 25 points, got %d", got)
	}
}

func TestAward_WithoutSeparation(t *testing.T) {
	got := Award(FallbackConfig(), 5, false)
	if got != 20 {
		t.Fatalf("expected 20 points, got %d", got)
	}
}

func TestAward_RoundsHalfAwayFromZero(t *testing.T) {
	cfg := Config{BasePoints: 10, WeightFactor: 2, SeparationFactor: 5}

	if got := Award(cfg, 0.25, false); got != 11 {
		t.Fatalf("expected 10.5 to round to 11, got %d", got)
	}
	if got := Award(cfg, 0.2, false); got != 10 {
		t.Fatalf("expected 10.4 to round to 10, got %d", got)
	}
}

func TestCollectionReason(t *testing.T) {
	got := CollectionReason(5, request.CategoryOrganic)
	if got != "collection of 5kg - organic" {
		t.Fatalf("unexpected reason %q", got)
	}

	got = CollectionReason(2.5, request.CategoryHazardous)
	if got != "collection of 2.5kg - hazardous" {
		t.Fatalf("unexpected reason %q", got)
	}
}

func TestTotal_SumsEntriesIncludingPenalties(t *testing.T) {
	entries := []LedgerEntry{
		{Points: 25},
		{Points: 50},
		{Points: -10},
	}
	if got := Total(entries); got != 65 {
		t.Fatalf("expected total 65, got %d", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("expected empty ledger total 0, got %d", got)
	}
}
