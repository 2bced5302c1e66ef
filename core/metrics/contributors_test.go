package metrics

import (
	"testing"
	"time"

	"github.com/huangsam/devinsight/core/agg"
	"github.com/huangsam/devinsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContributorsRollup(t *testing.T) {
	doc := schema.Document{
		Name:   "report.json",
		Family: schema.FamilyFlat,
		Flat: &schema.FlatDocument{
			Commits: []schema.FlatCommit{
				{
					SHA: "a1", UserID: "alice", Author: "Alice", Repository: "svc-api",
					Type: "direct", Date: "2024-03-16T22:15:00Z",
					Stats: schema.CommitStats{Additions: 10, Deletions: 2},
				},
				{
					SHA: "a2", UserID: "alice", Author: "Alice", Repository: "svc-web",
					Type: "pull_request", PullRequest: "7", Date: "2024-03-12T10:00:00Z",
					Stats: schema.CommitStats{Additions: 5, Deletions: 1},
				},
				{
					SHA: "b1", UserID: "bob", Author: "Bob", Repository: "svc-api",
					Type: "direct", Date: "2024-03-13T09:00:00Z",
					Stats: schema.CommitStats{Additions: 2, Deletions: 2},
				},
			},
		},
	}
	tbl := NewEngine(agg.Aggregate([]schema.Document{doc}, nil)).buildContributors()
	require.Equal(t, 2, tbl.RowCount())

	// alice has more commits, so she sorts first.
	assert.Equal(t, "alice", cell(t, tbl, 0, "userId"))
	assert.Equal(t, "Alice", cell(t, tbl, 0, "Author"))
	assert.Equal(t, 2, cell(t, tbl, 0, "Total_Commits"))
	assert.Equal(t, 1, cell(t, tbl, 0, "Direct_Commits"))
	assert.Equal(t, 1, cell(t, tbl, 0, "PR_Commits"))
	assert.Equal(t, 9.0, cell(t, tbl, 0, "Avg_Commit_Size"))
	assert.Equal(t, 50.0, cell(t, tbl, 0, "After_Hours_Commits_Percent"))
	assert.Equal(t, 50.0, cell(t, tbl, 0, "Weekend_Commits_Percent"))
	assert.Equal(t, 50.0, cell(t, tbl, 0, "Direct_Commit_Rate_Percent"))
	assert.Equal(t, 2, cell(t, tbl, 0, "Unique_Repositories"))

	assert.Equal(t, "bob", cell(t, tbl, 1, "userId"))
	assert.Equal(t, 100.0, cell(t, tbl, 1, "Direct_Commit_Rate_Percent"))
}

func TestBuildContributorsUnknownTypeExcludedFromDirectRate(t *testing.T) {
	a := schema.NewAggregate()
	when := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	a.Commits = []schema.Commit{
		datedCommit("carol", "svc-api", schema.DirectCommit, when, 1, 0),
		datedCommit("carol", "svc-api", schema.UnknownCommit, when.Add(time.Hour), 1, 0),
	}
	tbl := NewEngine(a).buildContributors()
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, 100.0, cell(t, tbl, 0, "Direct_Commit_Rate_Percent"))
}

func TestBuildDirectCommitsFiltersAndSorts(t *testing.T) {
	a := schema.NewAggregate()
	when := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	a.Commits = []schema.Commit{
		datedCommit("pure-pr", "svc-api", schema.PRCommit, when, 1, 0),
		datedCommit("mixed", "svc-api", schema.DirectCommit, when, 1, 0),
		datedCommit("mixed", "svc-api", schema.PRCommit, when, 1, 0),
		datedCommit("pusher", "svc-api", schema.DirectCommit, when, 1, 0),
	}
	tbl := NewEngine(a).buildDirectCommits()
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, "pusher", cell(t, tbl, 0, "userId"))
	assert.Equal(t, 100.0, cell(t, tbl, 0, "Direct_Commit_Rate_Percent"))
	assert.Equal(t, "mixed", cell(t, tbl, 1, "userId"))
	assert.Equal(t, 50.0, cell(t, tbl, 1, "Direct_Commit_Rate_Percent"))
}
