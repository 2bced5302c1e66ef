package metrics

import (
	"testing"
	"time"

	"github.com/huangsam/devinsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkPatternsPeakHour(t *testing.T) {
	a := schema.NewAggregate()
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	// Two commits at 09:00 and two at 14:00, the earlier hour wins the tie.
	a.Commits = []schema.Commit{
		datedCommit("alice", "svc-api", schema.DirectCommit, day.Add(9*time.Hour), 1, 0),
		datedCommit("alice", "svc-api", schema.DirectCommit, day.Add(9*time.Hour), 1, 0),
		datedCommit("alice", "svc-api", schema.DirectCommit, day.Add(14*time.Hour), 1, 0),
		datedCommit("alice", "svc-api", schema.DirectCommit, day.Add(14*time.Hour), 1, 0),
	}
	a.Commits = append(a.Commits, schema.Commit{UserID: "bob", Type: schema.DirectCommit})

	tbl := NewEngine(a).buildWorkPatterns()
	require.Equal(t, 2, tbl.RowCount())

	byUser := make(map[string]int)
	for i := range tbl.Rows {
		byUser[cell(t, tbl, i, "userId").(string)] = i
	}
	assert.Equal(t, "09:00", cell(t, tbl, byUser["alice"], "Peak_Hour"))

	// No dated commits means no peak hour.
	assert.Nil(t, cell(t, tbl, byUser["bob"], "Peak_Hour"))
}

func TestBuildWorkPatternsUsesAuthorLocalClock(t *testing.T) {
	a := schema.NewAggregate()
	// Saturday 23:00 in UTC+5 is Saturday evening for the author even
	// though the instant falls on Saturday 18:00 UTC.
	loc := time.FixedZone("", 5*3600)
	a.Commits = []schema.Commit{
		datedCommit("alice", "svc-api", schema.DirectCommit, time.Date(2024, 3, 16, 23, 0, 0, 0, loc), 1, 0),
	}

	tbl := NewEngine(a).buildWorkPatterns()
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, 100.0, cell(t, tbl, 0, "After_Hours_Percentage"))
	assert.Equal(t, 100.0, cell(t, tbl, 0, "Weekend_Percentage"))
	assert.Equal(t, "23:00", cell(t, tbl, 0, "Peak_Hour"))
}

func TestBuildWeeklyHeatmapDense(t *testing.T) {
	a := schema.NewAggregate()
	when := time.Date(2024, 3, 16, 22, 0, 0, 0, time.UTC) // Saturday
	a.Commits = []schema.Commit{
		datedCommit("alice", "svc-api", schema.DirectCommit, when, 1, 0),
	}

	tbl := NewEngine(a).buildWeeklyHeatmap()
	require.Equal(t, 7*24, tbl.RowCount())

	nonZero := 0
	for i := range tbl.Rows {
		if cell(t, tbl, i, "Commits").(int) > 0 {
			nonZero++
			assert.Equal(t, "Saturday", cell(t, tbl, i, "Day"))
			assert.Equal(t, "22:00", cell(t, tbl, i, "Hour"))
			assert.Equal(t, 22, cell(t, tbl, i, "Hour_Number"))
		}
	}
	assert.Equal(t, 1, nonZero)
}

func TestBuildYearlyHeatmapDense(t *testing.T) {
	a := schema.NewAggregate()
	a.Commits = []schema.Commit{
		datedCommit("alice", "svc-api", schema.DirectCommit, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), 1, 0),
		datedCommit("bob", "svc-api", schema.DirectCommit, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 1, 0),
	}

	tbl := NewEngine(a).buildYearlyHeatmap()
	require.Equal(t, 2*12, tbl.RowCount())

	// Sorted users, dense months: alice's July entry sits at month index 6.
	assert.Equal(t, "alice", cell(t, tbl, 6, "userId"))
	assert.Equal(t, "July", cell(t, tbl, 6, "Month"))
	assert.Equal(t, 7, cell(t, tbl, 6, "Month_Number"))
	assert.Equal(t, 1, cell(t, tbl, 6, "Commits"))
}

func TestBuildRepoMatrixDense(t *testing.T) {
	a := schema.NewAggregate()
	when := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	a.Commits = []schema.Commit{
		datedCommit("alice", "svc-api", schema.DirectCommit, when, 1, 0),
		datedCommit("bob", "svc-web", schema.DirectCommit, when, 1, 0),
	}
	a.Repository("svc-etl").Direct = 3 // known repo with no commit records

	tbl := NewEngine(a).buildRepoMatrix()
	require.Equal(t, 2*3, tbl.RowCount())

	zeros := 0
	for i := range tbl.Rows {
		if cell(t, tbl, i, "Commit_Count").(int) == 0 {
			zeros++
		}
	}
	assert.Equal(t, 4, zeros)
}
