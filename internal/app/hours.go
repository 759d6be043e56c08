package app

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekDays is the canonical forward order used for range expansion.
var weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// fullDayHours is what every day gets for a round-the-clock schedule.
const fullDayHours = "12:00am - 11:59pm"

// ParseOpeningHours converts a compact schedule string like
// "Mon-Fri: 9:00am - 7:00pm, Sat: 9:00am - 5:00pm, Sun: Closed" into a map
// from each lowercase day name to either a display range or "Closed".
//
// The parser is deliberately tolerant: unrecognized day tokens are dropped,
// segments without a colon are skipped, and any day left unassigned defaults
// to "Closed". Listing hours are entered by hand upstream, so strictness here
// would only lose data.
func ParseOpeningHours(s string) map[string]string {
	out := make(map[string]string, len(weekDays))

	if isAllDay(s) {
		for _, d := range weekDays {
			out[d] = fullDayHours
		}
		return out
	}

	for _, seg := range strings.Split(s, ", ") {
		i := strings.Index(seg, ":")
		if i < 0 {
			continue
		}
		daySpec := strings.TrimSpace(seg[:i])
		hours := strings.TrimSpace(seg[i+1:])
		if strings.EqualFold(hours, "closed") {
			hours = "Closed"
		}
		for _, d := range expandDays(daySpec) {
			out[d] = hours
		}
	}

	for _, d := range weekDays {
		if _, ok := out[d]; !ok {
			out[d] = "Closed"
		}
	}
	return out
}

func isAllDay(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24/7", "open 24/7", "24 hours":
		return true
	}
	return false
}

// expandDays resolves a day-spec into concrete day names. A hyphenated range
// is inclusive and walks forward through the week, so "Fri-Mon" yields
// friday, saturday, sunday, monday.
func expandDays(spec string) []string {
	if from, to, ok := strings.Cut(spec, "-"); ok {
		a, aok := dayIndex(from)
		b, bok := dayIndex(to)
		if !aok || !bok {
			return nil
		}
		days := make([]string, 0, 7)
		for i := a; ; i = (i + 1) % 7 {
			days = append(days, weekDays[i])
			if i == b {
				break
			}
		}
		return days
	}
	if i, ok := dayIndex(spec); ok {
		return []string{weekDays[i]}
	}
	return nil
}

// dayIndex accepts a full day name or any abbreviation of three letters or
// more ("Mon", "Tues", "thurs").
func dayIndex(tok string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(tok))
	if len(t) < 3 {
		return 0, false
	}
	for i, d := range weekDays {
		if strings.HasPrefix(d, t) {
			return i, true
		}
	}
	return 0, false
}

var hoursRangeRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(am|pm)\s*-\s*(\d{1,2}):(\d{2})\s*(am|pm)\s*$`)

// IsOpenAt reports whether a listing with the given hours map is open at the
// given time. The policy is fail-open: a nil map, a missing day entry, or a
// range that doesn't match the expected 12-hour pattern all report open.
// Only an explicit "Closed" entry or a parsed range excluding the current
// minute reports closed. Callers depend on listings without hours data being
// shown as open, so do not tighten this.
func IsOpenAt(hours map[string]string, at time.Time) bool {
	if len(hours) == 0 {
		return true
	}
	today := strings.ToLower(at.Weekday().String())
	rng, ok := hours[today]
	if !ok {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(rng), "closed") {
		return false
	}
	m := hoursRangeRe.FindStringSubmatch(rng)
	if m == nil {
		return true
	}
	open := toMinutes(m[1], m[2], m[3])
	close := toMinutes(m[4], m[5], m[6])
	now := at.Hour()*60 + at.Minute()
	if close < open { // overnight range
		return now >= open || now <= close
	}
	return now >= open && now <= close
}

// toMinutes converts a 12-hour clock reading to minutes since midnight.
func toMinutes(hh, mm, ampm string) int {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h == 12 {
		h = 0
	}
	if strings.EqualFold(ampm, "pm") {
		h += 12
	}
	return h*60 + m
}
