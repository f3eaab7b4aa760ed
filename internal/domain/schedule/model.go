package schedule

import (
	"fmt"
	"strings"
	"time"
)

// LocalitySchedule binds a locality to its organic pickup weekday.
type LocalitySchedule struct {
	ID        string
	Locality  string
	Weekday   time.Weekday
	CreatedAt time.Time
	UpdatedAt time.Time
}

var weekdayNames = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

func ParseWeekday(raw string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

func WeekdayName(day time.Weekday) string {
	return strings.ToUpper(day.String())
}

// BusinessDay reports whether pickups run on the given weekday.
func BusinessDay(day time.Weekday) bool {
	return day >= time.Monday && day <= time.Friday
}
