package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseReportDate covers the timestamp variants that show up in
// real report documents.
func TestParseReportDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantAbs bool // expect the "absent" outcome
	}{
		{
			name:  "zulu suffix",
			input: "2024-01-15T10:30:00Z",
			want:  time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "positive offset marks the same instant",
			input: "2024-01-15T10:30:00+02:00",
			want:  time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "negative offset marks the same instant",
			input: "2024-01-15T10:30:00-05:00",
			want:  time.Date(2024, time.January, 15, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "no zone assumes UTC",
			input: "2024-01-15T10:30:00",
			want:  time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds",
			input: "2024-01-15T10:30:00.123456Z",
			want:  time.Date(2024, time.January, 15, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "space separator",
			input: "2024-01-15 10:30:00",
			want:  time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2024-01-15",
			want:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2024-01-15T10:30:00Z  ",
			want:  time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty string",
			input:   "",
			wantAbs: true,
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantAbs: true,
		},
		{
			name:    "partial garbage",
			input:   "2024-13-45T99:99:99Z",
			wantAbs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReportDate(tt.input)
			if tt.wantAbs {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

// TestParseReportDateKeepsEmbeddedOffset pins the local-clock reading
// of offset timestamps: hour and weekday come from the author's zone,
// not from the UTC rendering of the same instant.
func TestParseReportDateKeepsEmbeddedOffset(t *testing.T) {
	got, ok := ParseReportDate("2024-03-16T23:00:00+05:00")
	require.True(t, ok)
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, time.Saturday, got.Weekday())
	assert.True(t, got.Equal(time.Date(2024, time.March, 16, 18, 0, 0, 0, time.UTC)))

	naive, ok := ParseReportDate("2024-03-16T23:00:00")
	require.True(t, ok)
	assert.Equal(t, time.UTC, naive.Location())
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 4, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 3.5, DaysBetween(a, b), 1e-9)
	assert.InDelta(t, -3.5, DaysBetween(b, a), 1e-9)
	assert.Zero(t, DaysBetween(a, a))
}
