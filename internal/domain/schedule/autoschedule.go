package schedule

import (
	"fmt"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

const organicPickupHour = 8

// AssignWeekday derives a stable default pickup weekday (Mon..Fri) for a
// locality that has no curated schedule yet. The hash is the legacy
// 31-multiplier string hash over UTF-16 code units, kept bit-compatible
// so existing localities land on the same day after migration.
func AssignWeekday(locality string) time.Weekday {
	var h int32
	for _, unit := range utf16Units(locality) {
		h = 31*h + int32(unit)
	}
	return weekdayFromHash(h)
}

// weekdayFromHash folds the signed hash into Monday..Friday. The
// absolute value is taken in 64 bits because negating MinInt32 in
// int32 overflows back to itself.
func weekdayFromHash(h int32) time.Weekday {
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return time.Monday + time.Weekday(v%5)
}

func utf16Units(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r < 0x10000 {
			out = append(out, uint16(r))
			continue
		}
		r -= 0x10000
		out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return out
}

// NextOrganicDate returns the next occurrence of the locality weekday
// strictly after today, fixed at 08:00 in today's location. A request
// placed on the pickup day itself rolls a full week.
func NextOrganicDate(today time.Time, target time.Weekday) time.Time {
	days := int(target) - int(today.Weekday())
	if days <= 0 {
		days += 7
	}
	next := today.AddDate(0, 0, days)
	return time.Date(next.Year(), next.Month(), next.Day(), organicPickupHour, 0, 0, 0, today.Location())
}

// FrequencyOffsetDays maps a cadence code to the lead days added to the
// requested date.
func FrequencyOffsetDays(category request.Category, freq request.Frequency) (int, error) {
	switch category {
	case request.CategoryInorganic:
		switch freq {
		case request.FrequencyOnce, request.FrequencyBiweekly:
			return 3, nil
		case request.FrequencyWeekly:
			return 7, nil
		}
	case request.CategoryHazardous:
		switch freq {
		case request.FrequencyOnce:
			return 5, nil
		case request.FrequencyMonthly:
			return 7, nil
		}
	}
	return 0, fmt.Errorf("no pickup offset for category %s frequency %s", category, freq)
}

// NextFrequencyDate computes the pickup date for non-organic streams:
// requested date plus the cadence offset. Hazardous pickups need
// certified crews and are pushed forward past weekends.
func NextFrequencyDate(category request.Category, freq request.Frequency, requested time.Time) (time.Time, error) {
	offset, err := FrequencyOffsetDays(category, freq)
	if err != nil {
		return time.Time{}, err
	}

	next := requested.AddDate(0, 0, offset)
	if category == request.CategoryHazardous {
		switch next.Weekday() {
		case time.Saturday:
			next = next.AddDate(0, 0, 2)
		case time.Sunday:
			next = next.AddDate(0, 0, 1)
		}
	}
	return next, nil
}
