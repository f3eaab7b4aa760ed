package request

import (
	"fmt"
	"strings"
	"time"
)

// Category is the waste stream a collection request belongs to.
type Category string

const (
	CategoryOrganic   Category = "ORGANIC"
	CategoryInorganic Category = "INORGANIC"
	CategoryHazardous Category = "HAZARDOUS"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryOrganic:
		return CategoryOrganic, nil
	case CategoryInorganic:
		return CategoryInorganic, nil
	case CategoryHazardous:
		return CategoryHazardous, nil
	default:
		return "", fmt.Errorf("unknown waste category %q", raw)
	}
}

// Frequency is the pickup cadence code for non-organic streams. The
// codes are part of the public contract and match the legacy forms.
type Frequency string

const (
	FrequencyOnce     Frequency = "UNICA"
	FrequencyWeekly   Frequency = "SEMANAL_1"
	FrequencyBiweekly Frequency = "SEMANAL_2"
	FrequencyMonthly  Frequency = "MENSUAL"
)

// FrequenciesFor lists the cadences a category accepts. Organic pickups
// follow the locality calendar and carry no frequency at all.
func FrequenciesFor(category Category) []Frequency {
	switch category {
	case CategoryInorganic:
		return []Frequency{FrequencyOnce, FrequencyWeekly, FrequencyBiweekly}
	case CategoryHazardous:
		return []Frequency{FrequencyOnce, FrequencyMonthly}
	default:
		return nil
	}
}

func ValidFrequency(category Category, freq Frequency) bool {
	for _, candidate := range FrequenciesFor(category) {
		if candidate == freq {
			return true
		}
	}
	return false
}

// Request is a household collection request moving through the lifecycle.
type Request struct {
	ID          string
	UserID      string
	Category    Category
	Frequency   Frequency
	Locality    string
	Address     string
	Note        string
	State       State
	RequestedAt time.Time
	ScheduledAt *time.Time
	RecordID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
