package agg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/devinsight/schema"
)

// flatDoc builds a small flat-family document for merge tests.
func flatDoc(name string, commits []schema.FlatCommit, prs map[string]schema.FlatPullRequest, meta map[string]any) schema.Document {
	return schema.Document{
		Name:   name,
		Family: schema.FamilyFlat,
		Flat: &schema.FlatDocument{
			Commits:              commits,
			GroupedByPullRequest: prs,
			MetaTags:             meta,
			Summary: &schema.FlatSummary{
				TotalCommits:  len(commits),
				DirectCommits: countType(commits, "direct"),
				PRCommits:     countType(commits, "pull_request"),
			},
		},
	}
}

func countType(commits []schema.FlatCommit, tp string) int {
	n := 0
	for _, c := range commits {
		// Anything but an explicit "direct" rides a pull request.
		if c.Type == tp || (tp == "pull_request" && c.Type != "direct" && c.Type != "pull_request") {
			n++
		}
	}
	return n
}

func TestAggregateSumsAcrossDocuments(t *testing.T) {
	docA := flatDoc("a.json", []schema.FlatCommit{
		{SHA: "a1", Author: "Alice", UserID: "alice", Repository: "org/api", Type: "direct", Date: "2024-01-15T10:00:00Z", Stats: schema.CommitStats{Additions: 10, Deletions: 2}},
	}, nil, map[string]any{"team": "platform"})
	docA.Flat.GroupedByRepository = map[string]schema.FlatRepository{
		"org/api": {Direct: 1, TotalAdditions: 10, TotalDeletions: 2, TotalFiles: 1},
	}
	docA.Flat.Summary.TotalFilesChanged = 2

	docB := flatDoc("b.json", []schema.FlatCommit{
		{SHA: "b1", Author: "Bob", UserID: "bob", Repository: "org/api", Type: "pull_request", PullRequest: "7", Date: "2024-01-16T11:00:00Z", Stats: schema.CommitStats{Additions: 3, Deletions: 1}},
	}, nil, map[string]any{"team": "web", "quarter": "Q1"})
	docB.Flat.GroupedByRepository = map[string]schema.FlatRepository{
		"org/api": {PullRequest: 1, TotalAdditions: 3, TotalDeletions: 1, TotalFiles: 2},
	}
	docB.Flat.Summary.TotalFilesChanged = 3

	out := Aggregate([]schema.Document{docA, docB}, nil)

	require.Len(t, out.Commits, 2)
	repo := out.Repositories["org/api"]
	require.NotNil(t, repo)
	assert.Equal(t, 1, repo.Direct)
	assert.Equal(t, 1, repo.PullRequest)
	assert.Equal(t, 13, repo.TotalAdditions)
	assert.Equal(t, 3, repo.TotalDeletions)
	assert.Equal(t, 3, repo.TotalFiles)

	assert.Equal(t, 2, out.Summary.TotalCommits)
	assert.Equal(t, 1, out.Summary.DirectCommits)
	assert.Equal(t, 1, out.Summary.PRCommits)
	assert.Equal(t, 5, out.Summary.TotalFilesChanged)
	assert.Equal(t, 1, out.Summary.TotalRepositories)

	// Later documents win meta tag conflicts; first-seen order is kept.
	assert.Equal(t, "web", out.MetaTags["team"])
	assert.Equal(t, "Q1", out.MetaTags["quarter"])
	assert.Equal(t, []string{"team", "quarter"}, out.MetaOrder)
}

func TestAggregateOrderIndependentTotals(t *testing.T) {
	docA := flatDoc("a.json", []schema.FlatCommit{
		{SHA: "a1", UserID: "alice", Repository: "org/api", Date: "2024-01-15T10:00:00Z", Stats: schema.CommitStats{Additions: 5}},
	}, nil, nil)
	docB := flatDoc("b.json", []schema.FlatCommit{
		{SHA: "b1", UserID: "bob", Repository: "org/web", Date: "2024-02-15T10:00:00Z", Stats: schema.CommitStats{Deletions: 4}},
	}, nil, nil)

	fwd := Aggregate([]schema.Document{docA, docB}, nil)
	rev := Aggregate([]schema.Document{docB, docA}, nil)

	assert.Equal(t, fwd.Summary, rev.Summary)
	assert.Len(t, rev.Commits, len(fwd.Commits))
	assert.Equal(t, len(fwd.RepoOrder), len(rev.RepoOrder))
}

func TestAggregatePROverwriteLastWins(t *testing.T) {
	docA := flatDoc("a.json", nil, map[string]schema.FlatPullRequest{
		"org/api#7": {Repository: "org/api", Number: "7", TotalAdditions: 10, Commits: []schema.FlatCommit{
			{SHA: "a1", UserID: "alice", Date: "2024-01-15T10:00:00Z"},
		}},
	}, nil)
	docB := flatDoc("b.json", nil, map[string]schema.FlatPullRequest{
		"org/api#7": {Repository: "org/api", Number: "7", TotalAdditions: 99, Commits: []schema.FlatCommit{
			{SHA: "b1", UserID: "bob", Date: "2024-01-16T10:00:00Z"},
			{SHA: "b2", UserID: "bob", Date: "2024-01-17T10:00:00Z"},
		}},
	}, nil)

	out := Aggregate([]schema.Document{docA, docB}, nil)

	require.Len(t, out.PROrder, 1)
	pr := out.PullRequests["org/api#7"]
	require.NotNil(t, pr)
	assert.Equal(t, 99, pr.TotalAdditions)
	assert.Len(t, pr.Commits, 2)
	assert.Equal(t, "bob", pr.UserID)

	// The opposite order keeps docA's version instead.
	out = Aggregate([]schema.Document{docB, docA}, nil)
	pr = out.PullRequests["org/api#7"]
	assert.Equal(t, 10, pr.TotalAdditions)
	assert.Len(t, pr.Commits, 1)
}

func TestAggregatePRKeyFallback(t *testing.T) {
	doc := flatDoc("a.json", nil, map[string]schema.FlatPullRequest{
		"org/api#42": {},
	}, nil)

	out := Aggregate([]schema.Document{doc}, nil)
	pr := out.PullRequests["org/api#42"]
	require.NotNil(t, pr)
	assert.Equal(t, "org/api", pr.Repository)
	assert.Equal(t, "42", pr.Number)
	assert.Equal(t, schema.UnknownUser, pr.UserID)
}

func TestAggregateNonDirectTypesCountAsPR(t *testing.T) {
	doc := flatDoc("a.json", []schema.FlatCommit{
		{SHA: "a1", UserID: "alice", Repository: "org/api", Type: "direct", Date: "2024-01-15T10:00:00Z"},
		{SHA: "a2", UserID: "alice", Repository: "org/api", Type: "pr", Date: "2024-01-15T11:00:00Z"},
		{SHA: "a3", UserID: "alice", Repository: "org/api", Date: "2024-01-15T12:00:00Z"},
	}, nil, nil)

	out := Aggregate([]schema.Document{doc}, nil)

	require.Len(t, out.Commits, 3)
	assert.Equal(t, schema.DirectCommit, out.Commits[0].Type)
	assert.Equal(t, schema.PRCommit, out.Commits[1].Type)
	assert.Equal(t, schema.PRCommit, out.Commits[2].Type)
}

func TestAggregateExplicitPRUserIDWins(t *testing.T) {
	doc := flatDoc("a.json", nil, map[string]schema.FlatPullRequest{
		"org/api#7": {Repository: "org/api", Number: "7", UserID: "carol", Commits: []schema.FlatCommit{
			{SHA: "a1", UserID: "bob", Date: "2024-01-15T10:00:00Z"},
		}},
	}, nil)

	out := Aggregate([]schema.Document{doc}, nil)
	pr := out.PullRequests["org/api#7"]
	require.NotNil(t, pr)
	assert.Equal(t, "carol", pr.UserID)
}

func TestAggregateRepoGroupingCarriesUserAndCommits(t *testing.T) {
	doc := flatDoc("a.json", nil, nil, nil)
	doc.Flat.GroupedByRepository = map[string]schema.FlatRepository{
		"org/api": {
			UserID: "dana",
			Direct: 1,
			Commits: []schema.FlatCommit{
				{SHA: "g1", UserID: "dana", Type: "direct", Date: "2024-01-15T10:00:00Z"},
			},
		},
	}

	out := Aggregate([]schema.Document{doc}, nil)
	repo := out.Repositories["org/api"]
	require.NotNil(t, repo)
	assert.Equal(t, "dana", repo.UserID)
	require.Len(t, repo.Commits, 1)
	assert.Equal(t, "dana", repo.Commits[0].UserID)
	assert.Equal(t, "org/api", repo.Commits[0].Repository)
}

func TestAggregateAnalyticsDocument(t *testing.T) {
	cycle := 2.0
	doc := schema.Document{
		Name:   "bob.json",
		Family: schema.FamilyAnalytics,
		Analytics: &schema.AnalyticsDocument{
			Metadata: schema.AnalyticsMetadata{
				SearchUser: "bob",
				MetaTags:   map[string]any{"org": "acme"},
			},
			Summary: schema.AnalyticsSummary{
				TotalCommits:          2,
				TotalPRsCreated:       2,
				TotalPRsMerged:        1,
				TotalReviewsSubmitted: 4,
				LinesAdded:            20,
				LinesDeleted:          5,
				PrimaryLanguages:      []string{"Go"},
			},
			Analytics: schema.AnalyticsSections{
				CodeChurn: &schema.CodeChurnSection{Details: []schema.CodeChurnDetail{
					{SHA: "c1", Repository: "org/web", Stats: schema.CommitStats{Additions: 15, Deletions: 3}, Author: schema.AnalyticsAuthor{Name: "Bob", Date: "2024-02-01T09:00:00Z"}},
					{SHA: "c2", Repository: "org/web", Stats: schema.CommitStats{Additions: 5, Deletions: 2}, Author: schema.AnalyticsAuthor{Date: "bad-date"}},
				}},
				PRThroughput: &schema.PRThroughputSection{
					MergeRate: 50,
					Details: []schema.PRThroughputDetail{
						{Repository: "org/web", Number: "7", State: "merged", CreatedAt: "2024-01-20T10:00:00Z", MergedAt: "2024-01-22T10:00:00Z"},
						{Repository: "org/web", Number: "9", State: "open", CreatedAt: "2024-02-01T10:00:00Z"},
					},
				},
				PRCycleTime: &schema.PRCycleTimeSection{
					AvgCycleTime: 2,
					Details: []schema.PRCycleTimeDetail{
						{Repository: "org/web", Number: "7", CycleTime: &cycle},
					},
				},
				WorkPatterns: &schema.WorkPatternsSection{AfterHoursPercentage: 40},
			},
		},
	}

	out := Aggregate([]schema.Document{doc}, nil)

	// Commits land with the searchUser id and unknown type.
	require.Len(t, out.Commits, 2)
	assert.Equal(t, "bob", out.Commits[0].UserID)
	assert.Equal(t, schema.UnknownCommit, out.Commits[0].Type)
	assert.True(t, out.Commits[0].Dated)
	assert.False(t, out.Commits[1].Dated)

	// PRs pick up cycle times: from the detail section for #7, derived
	// from timestamps otherwise, absent when neither exists.
	require.Len(t, out.PROrder, 2)
	pr7 := out.PullRequests["org/web#7"]
	require.NotNil(t, pr7.CycleTimeDays)
	assert.InDelta(t, 2.0, *pr7.CycleTimeDays, 1e-9)
	pr9 := out.PullRequests["org/web#9"]
	assert.Nil(t, pr9.CycleTimeDays)

	// Insights carry the summary rollups.
	in := out.Insights["bob"]
	require.NotNil(t, in)
	assert.Equal(t, 4, in.ReviewsSubmitted)
	assert.True(t, in.HasReviews)
	assert.Equal(t, 50.0, in.MergeRate)
	assert.True(t, in.HasMergeRate)
	assert.Equal(t, 2.0, in.AvgCycleTimeDays)
	assert.Equal(t, 40.0, in.AfterHoursPercent)
	assert.Equal(t, []string{"Go"}, in.PrimaryLanguages)

	assert.Equal(t, "acme", out.MetaTags["org"])
	assert.Equal(t, 2, out.Summary.TotalCommits)
	assert.Equal(t, 20, out.Summary.TotalAdditions)
}

func TestAggregateUserFallbacks(t *testing.T) {
	doc := flatDoc("a.json", []schema.FlatCommit{
		{SHA: "x1", Author: "Carol", Date: "2024-01-15T10:00:00Z"},
		{SHA: "x2", Date: "2024-01-15T11:00:00Z"},
	}, nil, nil)

	out := Aggregate([]schema.Document{doc}, nil)
	require.Len(t, out.Commits, 2)
	assert.Equal(t, "Carol", out.Commits[0].UserID)
	assert.Equal(t, schema.UnknownUser, out.Commits[1].UserID)
	assert.Equal(t, schema.UnknownUser, out.Commits[1].Author)
}

func TestAggregateEmptyInput(t *testing.T) {
	out := Aggregate(nil, []schema.SourceFileInfo{{Name: "x.json"}})
	assert.Empty(t, out.Commits)
	assert.Empty(t, out.PROrder)
	assert.Zero(t, out.Summary.TotalCommits)
	assert.Len(t, out.Sources, 1)
}
