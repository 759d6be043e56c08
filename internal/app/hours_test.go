package app_test

import (
	"testing"
	"time"

	"launderette_near/internal/app"
)

func TestParseOpeningHours_AllDay(t *testing.T) {
	got := app.ParseOpeningHours("24/7")
	if len(got) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got))
	}
	first := got["monday"]
	for day, rng := range got {
		if rng != first || rng == "Closed" {
			t.Fatalf("day %s: expected full-day range %q, got %q", day, first, rng)
		}
	}
}

func TestParseOpeningHours_WeekdayRange(t *testing.T) {
	got := app.ParseOpeningHours("Mon-Fri: 9:00am - 5:00pm, Sat-Sun: Closed")
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		if got[d] != "9:00am - 5:00pm" {
			t.Fatalf("%s = %q", d, got[d])
		}
	}
	for _, d := range []string{"saturday", "sunday"} {
		if got[d] != "Closed" {
			t.Fatalf("%s = %q", d, got[d])
		}
	}
}

func TestParseOpeningHours_RangeWrapsForward(t *testing.T) {
	got := app.ParseOpeningHours("Fri-Mon: 8:00am - 8:00pm")
	open := []string{"friday", "saturday", "sunday", "monday"}
	closed := []string{"tuesday", "wednesday", "thursday"}
	for _, d := range open {
		if got[d] != "8:00am - 8:00pm" {
			t.Fatalf("%s should be open, got %q", d, got[d])
		}
	}
	for _, d := range closed {
		if got[d] != "Closed" {
			t.Fatalf("%s should default to Closed, got %q", d, got[d])
		}
	}
}

func TestParseOpeningHours_SingleDayDefaultsRestClosed(t *testing.T) {
	got := app.ParseOpeningHours("Tue: 10:00am - 2:00pm")
	if got["tuesday"] != "10:00am - 2:00pm" {
		t.Fatalf("tuesday = %q", got["tuesday"])
	}
	if got["wednesday"] != "Closed" {
		t.Fatalf("wednesday = %q", got["wednesday"])
	}
}

func TestParseOpeningHours_Tolerance(t *testing.T) {
	// unknown day token dropped, colon-less segment skipped
	got := app.ParseOpeningHours("Blursday: 9:00am - 5:00pm, nonsense segment, Sat: 9:00am - 1:00pm")
	if got["saturday"] != "9:00am - 1:00pm" {
		t.Fatalf("saturday = %q", got["saturday"])
	}
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "sunday"} {
		if got[d] != "Closed" {
			t.Fatalf("%s = %q", d, got[d])
		}
	}
}

func TestParseOpeningHours_Abbreviations(t *testing.T) {
	got := app.ParseOpeningHours("Tues: 9:00am - 5:00pm, Thurs: 9:00am - 5:00pm")
	if got["tuesday"] != "9:00am - 5:00pm" || got["thursday"] != "9:00am - 5:00pm" {
		t.Fatalf("abbreviations not recognized: %v", got)
	}
}

// at builds a time on a fixed week: 2024-01-01 is a Monday.
func at(day int, hour, min int) time.Time {
	return time.Date(2024, 1, 1+day, hour, min, 0, 0, time.UTC)
}

func TestIsOpenAt_FailOpen(t *testing.T) {
	// no hours data at all
	if !app.IsOpenAt(nil, at(0, 12, 0)) {
		t.Fatal("nil hours map should report open")
	}
	// today missing from the map
	if !app.IsOpenAt(map[string]string{"tuesday": "9:00am - 5:00pm"}, at(0, 12, 0)) {
		t.Fatal("missing day entry should report open")
	}
	// unparseable range
	if !app.IsOpenAt(map[string]string{"monday": "early till late"}, at(0, 12, 0)) {
		t.Fatal("unparseable range should report open")
	}
}

func TestIsOpenAt_Range(t *testing.T) {
	hours := map[string]string{"monday": "9:00am - 5:00pm"}
	if !app.IsOpenAt(hours, at(0, 12, 30)) {
		t.Fatal("12:30 inside 9-5 should be open")
	}
	if app.IsOpenAt(hours, at(0, 8, 59)) {
		t.Fatal("8:59 before open should be closed")
	}
	if app.IsOpenAt(hours, at(0, 17, 1)) {
		t.Fatal("17:01 after close should be closed")
	}
}

func TestIsOpenAt_ExplicitClosed(t *testing.T) {
	if app.IsOpenAt(map[string]string{"monday": "Closed"}, at(0, 12, 0)) {
		t.Fatal("explicit Closed entry should report closed")
	}
}

func TestIsOpenAt_OvernightRange(t *testing.T) {
	hours := map[string]string{"monday": "8:00pm - 2:00am"}
	if !app.IsOpenAt(hours, at(0, 23, 0)) {
		t.Fatal("23:00 inside overnight range should be open")
	}
	if app.IsOpenAt(hours, at(0, 12, 0)) {
		t.Fatal("noon outside overnight range should be closed")
	}
}

func TestIsOpenAt_AllDaySchedule(t *testing.T) {
	hours := app.ParseOpeningHours("24/7")
	for h := 0; h < 24; h++ {
		if !app.IsOpenAt(hours, at(3, h, 30)) {
			t.Fatalf("24/7 listing closed at hour %d", h)
		}
	}
}
