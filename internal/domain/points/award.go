package points

import (
	"fmt"
	"math"
	"strings"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

// FallbackConfig is the award parameter set used when no configuration
// has ever been activated.
func FallbackConfig() Config {
	return Config{
		ID:               "fallback",
		Description:      "built-in defaults",
		BasePoints:       10,
		WeightFactor:     2,
		SeparationFactor: 5,
	}
}

// Award computes the points for a completed collection:
// base + weight*factor, plus the separation factor when the household
// pre-separated the waste. The result is rounded half away from zero.
func Award(cfg Config, weightKg float64, separated bool) int {
	total := cfg.BasePoints + weightKg*cfg.WeightFactor
	if separated {
		total += cfg.SeparationFactor
	}
	return int(math.Round(total))
}

// CollectionReason renders the ledger reason line for an awarded pickup.
func CollectionReason(weightKg float64, category request.Category) string {
	return fmt.Sprintf("collection of %gkg - %s", weightKg, strings.ToLower(string(category)))
}

// BonusReason and PenaltyReason render ledger lines for manual movements.
func BonusReason(reason string) string {
	return "bonus: " + strings.TrimSpace(reason)
}

func PenaltyReason(reason string) string {
	return "penalty: " + strings.TrimSpace(reason)
}

// Total folds a ledger slice into the user's balance.
func Total(entries []LedgerEntry) int {
	total := 0
	for _, entry := range entries {
		total += entry.Points
	}
	return total
}
