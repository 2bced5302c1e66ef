package metrics

import (
	"sort"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// buildRepositories summarizes activity per repository, sorted by total
// commits descending. Contributor lists come from the commit records,
// counters from the merged repository totals.
func (e *Engine) buildRepositories() *schema.Table {
	t := schema.NewTable(schema.TableRepositories, e.withMeta(
		"Repository_Name", "Direct_Commits", "PR_Commits", "Total_Commits",
		"Total_Additions", "Total_Deletions", "Total_Files_Changed",
		"PR_Usage_Percentage", "Contributors_Count", "Contributors",
	)...)

	contributors := make(map[string]map[string]struct{})
	record := func(repo, userID string) {
		if repo == "" {
			return
		}
		if contributors[repo] == nil {
			contributors[repo] = make(map[string]struct{})
		}
		contributors[repo][userID] = struct{}{}
	}
	for i := range e.agg.Commits {
		c := &e.agg.Commits[i]
		record(c.Repository, c.UserID)
	}
	// Commits nested in grouping payloads and the payload's own userId
	// count too; some documents only carry commits there.
	for _, name := range e.agg.RepoOrder {
		repo := e.agg.Repositories[name]
		for i := range repo.Commits {
			record(name, repo.Commits[i].UserID)
		}
		if len(contributors[name]) == 0 && repo.UserID != "" {
			record(name, repo.UserID)
		}
	}

	names := make([]string, len(e.agg.RepoOrder))
	copy(names, e.agg.RepoOrder)
	sort.SliceStable(names, func(i, j int) bool {
		return e.agg.Repositories[names[i]].TotalCommits() > e.agg.Repositories[names[j]].TotalCommits()
	})

	for _, name := range names {
		repo := e.agg.Repositories[name]
		users := contributors[name]
		t.Append(e.rowWithMeta(
			name,
			repo.Direct,
			repo.PullRequest,
			repo.TotalCommits(),
			repo.TotalAdditions,
			repo.TotalDeletions,
			repo.TotalFiles,
			contract.Round1(contract.SafePercentage(float64(repo.PullRequest), float64(repo.TotalCommits()))),
			len(users),
			schema.JoinUsers(users),
		)...)
	}
	return t
}

// buildRepoMatrix emits the dense contributor x repository grid so
// downstream pivots never have to fill in missing pairs. Repositories
// come from both the merged totals and the raw commits.
func (e *Engine) buildRepoMatrix() *schema.Table {
	t := schema.NewTable(schema.TableRepoMatrix, "userId", "Repository", "Commit_Count")

	repoSet := make(map[string]struct{})
	for _, name := range e.agg.RepoOrder {
		repoSet[name] = struct{}{}
	}
	counts := make(map[string]map[string]int)
	for i := range e.agg.Commits {
		c := &e.agg.Commits[i]
		if c.Repository == "" {
			continue
		}
		repoSet[c.Repository] = struct{}{}
		if counts[c.UserID] == nil {
			counts[c.UserID] = make(map[string]int)
		}
		counts[c.UserID][c.Repository]++
	}

	repos := schema.SortedKeys(repoSet)
	for _, id := range e.sortedUserIDs() {
		for _, repo := range repos {
			t.Append(id, repo, counts[id][repo])
		}
	}
	return t
}
