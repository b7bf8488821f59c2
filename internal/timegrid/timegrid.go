// Package timegrid provides the canonical time representation for the
// scheduling core: weekdays as ordinals, times of day as minutes since
// midnight, and half-open intervals with an overlap primitive.
package timegrid

import (
	"fmt"
	"strings"
)

// Minutes is a time of day expressed as minutes since midnight (0–1439).
type Minutes int

// MinutesPerDay bounds valid Minutes values (exclusive).
const MinutesPerDay = 24 * 60

// Valid reports whether m falls within a single day.
func (m Minutes) Valid() bool {
	return m >= 0 && m < MinutesPerDay
}

// Clock formats m as a 24-hour "HH:MM" string.
func (m Minutes) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Clock12 formats m as a 12-hour "H:MM AM/PM" string.
func (m Minutes) Clock12() string {
	h, mm := int(m)/60, int(m)%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, mm, suffix)
}

// ParseClock parses a 24-hour "HH:MM" string into Minutes.
func ParseClock(s string) (Minutes, error) {
	var h, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q: hour 0-23, minute 0-59", s)
	}
	return Minutes(h*60 + mm), nil
}

// Day is a weekday ordinal, Monday = 0 through Sunday = 6.
type Day int

// Weekday ordinals.
const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Valid reports whether d is one of the seven weekday ordinals.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the English weekday name, or "Day(n)" when out of range.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// ParseDay resolves a weekday name (case-insensitive, full name or
// three-letter prefix) to its ordinal.
func ParseDay(name string) (Day, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, full := range dayNames {
		l := strings.ToLower(full)
		if n == l || (len(n) == 3 && n == l[:3]) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", name)
}

// Days lists all weekday ordinals in order, Monday first.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Interval is a half-open [Start, End) span within one day.
type Interval struct {
	Start Minutes
	End   Minutes
}

// Valid reports whether the interval lies within one day and has positive
// duration. Zero-duration intervals are invalid: a session must take time.
func (iv Interval) Valid() bool {
	return iv.Start.Valid() && iv.End > iv.Start && iv.End <= MinutesPerDay
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() Minutes {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return iv.Start.Clock() + " - " + iv.End.Clock()
}

// Overlaps reports whether two half-open intervals intersect. Intervals
// that merely touch at a boundary (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
