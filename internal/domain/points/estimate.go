package points

import (
	"math"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

// EstimateInput feeds the pre-collection points preview. The preview is
// informational only; the binding award happens at completion time with
// the active configuration.
type EstimateInput struct {
	Category    request.Category
	QuantityKg  float64
	Material    string
	Critical    bool
	HighQuality bool
	FirstTime   bool
	Recurring   bool
	At          time.Time
}

// Estimate is the preview breakdown returned to the client.
type Estimate struct {
	Points         int     `json:"points"`
	Base           int     `json:"base"`
	Bonuses        int     `json:"bonuses"`
	TemporalFactor float64 `json:"temporalFactor"`
	CategoryFactor float64 `json:"categoryFactor"`
}

type categoryParams struct {
	base       float64
	multiplier float64
}

var estimateTable = map[request.Category]categoryParams{
	request.CategoryOrganic:   {base: 8, multiplier: 1.1},
	request.CategoryInorganic: {base: 12, multiplier: 1.2},
	request.CategoryHazardous: {base: 25, multiplier: 1.5},
}

const (
	bonusFirstTime   = 50
	bonusRecurring   = 20
	bonusHighQuality = 30
)

// campaign months carry an environmental-awareness uplift.
var campaignMonths = map[time.Month]bool{
	time.April:   true,
	time.June:    true,
	time.October: true,
}

// PreviewEstimate computes floor(quantity*base*multiplier), adds flat
// bonuses, then applies the temporal and category factors with a final
// floor. Hazardous quantities score highest, organics lowest.
func PreviewEstimate(input EstimateInput) Estimate {
	params := estimateTable[input.Category]

	base := int(math.Floor(input.QuantityKg * params.base * params.multiplier))

	bonuses := 0
	if input.FirstTime {
		bonuses += bonusFirstTime
	}
	if input.Recurring {
		bonuses += bonusRecurring
	}
	if input.HighQuality {
		bonuses += bonusHighQuality
	}

	temporal := 1.0
	if campaignMonths[input.At.Month()] {
		temporal = 1.2
	}

	factor := categoryFactor(input)

	return Estimate{
		Points:         int(math.Floor(float64(base+bonuses) * temporal * factor)),
		Base:           base,
		Bonuses:        bonuses,
		TemporalFactor: temporal,
		CategoryFactor: factor,
	}
}

func categoryFactor(input EstimateInput) float64 {
	switch input.Category {
	case request.CategoryOrganic:
		if input.HighQuality {
			return 1.15
		}
		return 1.0
	case request.CategoryInorganic:
		switch strings.ToLower(strings.TrimSpace(input.Material)) {
		case "glass":
			return 1.3
		case "plastic":
			return 1.2
		case "paper", "cardboard":
			return 1.1
		default:
			return 1.0
		}
	case request.CategoryHazardous:
		if input.Critical {
			return 1.4
		}
		return 1.0
	default:
		return 1.0
	}
}
