// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayRange returns [start of day, start of next day) for t in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := BeginningOfDay(t.In(loc))
	return start, start.AddDate(0, 0, 1)
}

// ParseDate parses a YYYY-MM-DD civil date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// SlotWindow turns a catalog slot such as "09:00 - 10:00" into the [start, end)
// interval on the given civil day.
func SlotWindow(day time.Time, slot string) (time.Time, time.Time, error) {
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slot %q", slot)
	}
	from, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slot start %q: %w", slot, err)
	}
	to, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slot end %q: %w", slot, err)
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, from.Hour(), from.Minute(), 0, 0, day.Location())
	end := time.Date(y, m, d, to.Hour(), to.Minute(), 0, 0, day.Location())
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %q ends before it starts", slot)
	}
	return start, end, nil
}
