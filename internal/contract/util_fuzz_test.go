package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and ignore patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		patterns string // comma-separated
	}{
		{"reports/alice.json", "*audit.json"},
		{"archive/2024/report.json", "archive/"},
		{"reports/q3_audit.json", "*audit.json"},
		{"report.json.bak", ".bak"},
		{"", ""},
		{"very/long/path/to/report.json", "**/draft/**"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.patterns)
	}

	f.Fuzz(func(_ *testing.T, path string, patternsStr string) {
		patterns := []string{}
		if patternsStr != "" {
			// Simple split, may not handle complex cases but good for fuzzing
			for pat := range strings.SplitSeq(patternsStr, ",") {
				if trimmed := strings.TrimSpace(pat); trimmed != "" {
					patterns = append(patterns, trimmed)
				}
			}
		}
		_ = ShouldIgnore(path, patterns)
	})
}

// FuzzParseReportDate fuzzes the timestamp normalizer; any input must
// either parse to a UTC instant or report absence, never panic.
func FuzzParseReportDate(f *testing.F) {
	seeds := []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00+02:00",
		"2024-01-15 10:30:00",
		"2024-01-15",
		"not-a-date",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		when, ok := ParseReportDate(raw)
		if ok && !when.IsZero() && when.Location().String() != "UTC" {
			t.Errorf("parsed time not in UTC: %v", when)
		}
	})
}
