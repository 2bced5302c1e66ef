package metrics

import (
	"sort"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// buildContributors produces the per-contributor rollup, sorted by
// total commits descending. Percentages only consider commits whose
// facts are known: timing percentages use dated commits, the direct
// rate uses commits with a known type.
func (e *Engine) buildContributors() *schema.Table {
	t := schema.NewTable(schema.TableContributors, e.withMeta(
		"userId", "Author", "Total_Commits", "Direct_Commits", "PR_Commits",
		"Total_Additions", "Total_Deletions", "Avg_Commit_Size",
		"After_Hours_Commits_Percent", "Weekend_Commits_Percent",
		"Direct_Commit_Rate_Percent", "Unique_Repositories",
	)...)

	stats := make([]*userStats, len(e.userStatsList()))
	copy(stats, e.userStatsList())
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].total > stats[j].total
	})

	for _, s := range stats {
		t.Append(e.rowWithMeta(
			s.userID,
			s.author,
			s.total,
			s.direct,
			s.pr,
			s.additions,
			s.deletions,
			contract.Round1(contract.SafeDivide(float64(s.additions+s.deletions), float64(s.total))),
			contract.Round1(contract.SafePercentage(float64(s.afterHours), float64(s.dated))),
			contract.Round1(contract.SafePercentage(float64(s.weekend), float64(s.dated))),
			contract.Round1(contract.SafePercentage(float64(s.direct), float64(s.classified()))),
			len(s.repos),
		)...)
	}
	return t
}

// buildDirectCommits lists contributors who push without pull requests,
// sorted by direct rate descending.
func (e *Engine) buildDirectCommits() *schema.Table {
	t := schema.NewTable(schema.TableDirectCommits, e.withMeta(
		"userId", "Author", "Total_Commits", "Direct_Commits", "Direct_Commit_Rate_Percent",
	)...)

	var rows []*userStats
	for _, s := range e.userStatsList() {
		if s.direct > 0 {
			rows = append(rows, s)
		}
	}
	rate := func(s *userStats) float64 {
		return contract.SafePercentage(float64(s.direct), float64(s.classified()))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rate(rows[i]) > rate(rows[j])
	})

	for _, s := range rows {
		t.Append(e.rowWithMeta(
			s.userID, s.author, s.total, s.direct, contract.Round1(rate(s)),
		)...)
	}
	return t
}
