package utils

import (
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestSlotWindow(t *testing.T) {
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, ist)
	start, end, err := SlotWindow(day, "09:00 - 10:30")
	if err != nil {
		t.Fatalf("SlotWindow: %v", err)
	}
	if !start.Equal(time.Date(2026, 10, 20, 9, 0, 0, 0, ist)) || !end.Equal(time.Date(2026, 10, 20, 10, 30, 0, 0, ist)) {
		t.Fatalf("unexpected window %s - %s", start, end)
	}

	for _, bad := range []string{"", "09:00", "10:00 - 09:00", "9 - 10", "09:00 - 09:00"} {
		if _, _, err := SlotWindow(day, bad); err == nil {
			t.Fatalf("SlotWindow(%q) should fail", bad)
		}
	}
}

func TestDayRange(t *testing.T) {
	// 20:00 UTC is already the next civil day in India
	start, end := DayRange(time.Date(2026, 10, 20, 20, 0, 0, 0, time.UTC), ist)
	want := time.Date(2026, 10, 21, 0, 0, 0, 0, ist)
	if !start.Equal(want) || !end.Equal(want.AddDate(0, 0, 1)) {
		t.Fatalf("DayRange=%s - %s, want %s", start, end, want)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-20 ", ist)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Location() != ist || d.Day() != 20 {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseDate("20/10/2026", ist); err == nil {
		t.Fatalf("expected an error for a non ISO date")
	}
}
