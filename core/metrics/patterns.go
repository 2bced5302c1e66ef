package metrics

import (
	"sort"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// buildWorkPatterns summarizes when each contributor commits. The peak
// hour is the fullest of the 24 buckets, with the earliest hour winning
// ties; it is absent for contributors with no dated commits.
func (e *Engine) buildWorkPatterns() *schema.Table {
	t := schema.NewTable(schema.TableWorkPatterns, e.withMeta(
		"userId", "Contributor_Name", "After_Hours_Percentage", "Weekend_Percentage", "Peak_Hour",
	)...)

	stats := make([]*userStats, len(e.userStatsList()))
	copy(stats, e.userStatsList())
	afterHours := func(s *userStats) float64 {
		return contract.SafePercentage(float64(s.afterHours), float64(s.dated))
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return afterHours(stats[i]) > afterHours(stats[j])
	})

	for _, s := range stats {
		var peak any
		if s.dated > 0 {
			best := 0
			for h := 1; h < 24; h++ {
				if s.hourCounts[h] > s.hourCounts[best] {
					best = h
				}
			}
			peak = schema.HourLabel(best)
		}
		t.Append(e.rowWithMeta(
			s.userID,
			s.author,
			contract.Round1(afterHours(s)),
			contract.Round1(contract.SafePercentage(float64(s.weekend), float64(s.dated))),
			peak,
		)...)
	}
	return t
}

// buildWeeklyHeatmap emits the dense contributor x day x hour grid.
// All 168 buckets appear for every contributor, zeros included.
func (e *Engine) buildWeeklyHeatmap() *schema.Table {
	t := schema.NewTable(schema.TableWeeklyHeatmap,
		"userId", "Day", "Hour", "Hour_Number", "Commits")

	for _, id := range e.sortedUserIDs() {
		s := e.userStatsFor(id)
		for day := range schema.DayNames {
			for hour := range 24 {
				t.Append(id, schema.DayNames[day], schema.HourLabel(hour), hour, s.dayHour[day][hour])
			}
		}
	}
	return t
}

// buildYearlyHeatmap emits the dense contributor x month grid.
func (e *Engine) buildYearlyHeatmap() *schema.Table {
	t := schema.NewTable(schema.TableYearlyHeatmap,
		"userId", "Month", "Month_Number", "Commits")

	for _, id := range e.sortedUserIDs() {
		s := e.userStatsFor(id)
		for month := range schema.MonthNames {
			t.Append(id, schema.MonthNames[month], month+1, s.monthCounts[month])
		}
	}
	return t
}
