package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
)

func TestNextOrganicDate_LandsOnLocalityWeekday(t *testing.T) {
	// Wednesday requesting a Monday pickup lands on the following Monday.
	today := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)

	got := NextOrganicDate(today, time.Monday)

	want := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextOrganicDate_SameDayRollsFullWeek(t *testing.T) {
	monday := time.Date(2024, 1, 8, 7, 0, 0, 0, time.UTC)

	got := NextOrganicDate(monday, time.Monday)

	want := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected pickup rolled to %v, got %v", want, got)
	}
}

func TestNextOrganicDate_AlwaysStrictlyInFuture(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		today := base.AddDate(0, 0, dayOffset)
		for target := time.Sunday; target <= time.Saturday; target++ {
			got := NextOrganicDate(today, target)
			if !got.After(today) {
				t.Fatalf("today=%v target=%v: pickup %v is not in the future", today, target, got)
			}
			if got.Weekday() != target {
				t.Fatalf("today=%v: expected weekday %v, got %v", today, target, got.Weekday())
			}
			if diff := got.Sub(today); diff > 7*24*time.Hour {
				t.Fatalf("today=%v target=%v: pickup %v more than a week out", today, target, got)
			}
		}
	}
}

func TestAssignWeekday_DeterministicAndBusinessDay(t *testing.T) {
	localities := []string{"Centro", "Norte", "Sur", "Oriente", "Occidente", "La Candelaria"}
	for _, locality := range localities {
		first := AssignWeekday(locality)
		second := AssignWeekday(locality)
		if first != second {
			t.Fatalf("locality %q: got %v then %v", locality, first, second)
		}
		if !BusinessDay(first) {
			t.Fatalf("locality %q: assigned %v, want Mon..Fri", locality, first)
		}
	}
}

func TestWeekdayFromHash_MinInt32(t *testing.T) {
	// 2147483648 % 5 == 3, matching a double-precision abs.
	got := weekdayFromHash(math.MinInt32)
	if got != time.Thursday {
		t.Fatalf("expected Thursday, got %v", got)
	}
	if !BusinessDay(got) {
		t.Fatalf("expected a business day, got %v", got)
	}
}

func TestNextFrequencyDate_InorganicOnce(t *testing.T) {
	requested := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) // Wednesday

	got, err := NextFrequencyDate(request.CategoryInorganic, request.FrequencyOnce, requested)
	if err != nil {
		t.Fatalf("next frequency date failed: %v", err)
	}

	lower := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	upper := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)
	if got.Before(lower) || got.After(upper) {
		t.Fatalf("expected pickup within [%v, %v], got %v", lower, upper, got)
	}
}

func TestNextFrequencyDate_HazardousSkipsWeekend(t *testing.T) {
	// Monday + 5 days lands on Saturday and must advance to Monday.
	requested := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	got, err := NextFrequencyDate(request.CategoryHazardous, request.FrequencyOnce, requested)
	if err != nil {
		t.Fatalf("next frequency date failed: %v", err)
	}

	if got.Weekday() == time.Saturday || got.Weekday() == time.Sunday {
		t.Fatalf("hazardous pickup landed on a weekend: %v", got)
	}
	want := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextFrequencyDate_UnknownCadence(t *testing.T) {
	requested := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	if _, err := NextFrequencyDate(request.CategoryOrganic, request.FrequencyOnce, requested); err == nil {
		t.Fatal("expected error for organic cadence lookup")
	}
	if _, err := NextFrequencyDate(request.CategoryInorganic, request.FrequencyMonthly, requested); err == nil {
		t.Fatal("expected error for inorganic monthly cadence")
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" monday ")
	if err != nil {
		t.Fatalf("parse weekday failed: %v", err)
	}
	if day != time.Monday {
		t.Fatalf("expected Monday, got %v", day)
	}
	if _, err := ParseWeekday("someday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}
