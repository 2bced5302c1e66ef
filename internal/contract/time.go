package contract

import (
	"strings"
	"time"
)

// offsetLayouts match timestamps that carry an explicit zone, with or
// without fractional seconds.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
}

// naiveLayouts match timestamps without any zone. Per the report
// contract these are taken as UTC, never local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseReportDate normalizes a raw document timestamp into a
// zone-aware instant. It accepts ISO-8601 with a trailing Z, an
// explicit numeric offset, or no zone at all, and a space instead of
// the T separator. An explicit offset is preserved, so hour and
// weekday reflect the author's local clock; naive timestamps are taken
// as UTC. The second return is false when the value is empty or
// unparseable; callers treat that as "absent", never as a zero time.
func ParseReportDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Count(s, " ") == 1 && !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the fractional number of days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}
