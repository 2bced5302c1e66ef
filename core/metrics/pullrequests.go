package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// prCommitSpan scans a PR's dated commits and returns the first and
// last instants plus the span in whole elapsed days, partial days
// truncated. The span is nil with fewer than two dated commits; a
// single commit has no meaningful cycle, and zero would be
// indistinguishable from a genuinely instant turnaround.
func prCommitSpan(pr *schema.PullRequest) (first, last *time.Time, span *float64) {
	var lo, hi time.Time
	n := 0
	for i := range pr.Commits {
		c := &pr.Commits[i]
		if !c.Dated {
			continue
		}
		if n == 0 {
			lo, hi = c.When, c.When
		} else {
			if c.When.Before(lo) {
				lo = c.When
			}
			if c.When.After(hi) {
				hi = c.When
			}
		}
		n++
	}
	if n == 0 {
		return nil, nil, nil
	}
	if n >= 2 {
		d := math.Floor(contract.DaysBetween(lo, hi))
		span = &d
	}
	return &lo, &hi, span
}

// prCycleTime prefers the reported cycle time from analytics documents
// and falls back to the observed commit span.
func prCycleTime(pr *schema.PullRequest) *float64 {
	if pr.CycleTimeDays != nil {
		d := contract.Round1(*pr.CycleTimeDays)
		return &d
	}
	_, _, span := prCommitSpan(pr)
	return span
}

// prAuthors returns the distinct contributor ids on a PR's commits,
// falling back to the PR owner when there are no commits.
func prAuthors(pr *schema.PullRequest) map[string]struct{} {
	users := make(map[string]struct{})
	for i := range pr.Commits {
		users[pr.Commits[i].UserID] = struct{}{}
	}
	if len(users) == 0 && pr.UserID != "" {
		users[pr.UserID] = struct{}{}
	}
	return users
}

// orderedPRs returns the merged pull requests in first-seen order.
func (e *Engine) orderedPRs() []*schema.PullRequest {
	out := make([]*schema.PullRequest, 0, len(e.agg.PROrder))
	for _, key := range e.agg.PROrder {
		out = append(out, e.agg.PullRequests[key])
	}
	return out
}

// buildPullRequests lists every merged PR entry, slowest cycle first
// with unknown cycles at the bottom.
func (e *Engine) buildPullRequests() *schema.Table {
	t := schema.NewTable(schema.TablePullRequests, e.withMeta(
		"PR_Key", "Repository", "PR_Number", "userId", "State",
		"Commits_Count", "Total_Additions", "Total_Deletions", "Total_Files",
		"First_Commit_Date", "Last_Commit_Date", "Cycle_Time_Days",
		"Authors_Count", "Authors",
	)...)

	prs := e.orderedPRs()
	cycles := make(map[string]*float64, len(prs))
	for _, pr := range prs {
		cycles[pr.Key] = prCycleTime(pr)
	}
	sort.SliceStable(prs, func(i, j int) bool {
		a, b := cycles[prs[i].Key], cycles[prs[j].Key]
		if (a == nil) != (b == nil) {
			return a != nil
		}
		if a == nil {
			return false
		}
		return *a > *b
	})

	for _, pr := range prs {
		first, last, _ := prCommitSpan(pr)
		users := prAuthors(pr)
		var firstCell, lastCell, cycleCell any
		if first != nil {
			firstCell = schema.FormatInstant(*first)
			lastCell = schema.FormatInstant(*last)
		}
		if ct := cycles[pr.Key]; ct != nil {
			cycleCell = *ct
		}
		t.Append(e.rowWithMeta(
			pr.Key, pr.Repository, pr.Number, pr.UserID, pr.State,
			len(pr.Commits), pr.TotalAdditions, pr.TotalDeletions, pr.TotalFiles,
			firstCell, lastCell, cycleCell,
			len(users), schema.JoinUsers(users),
		)...)
	}
	return t
}

// buildPRCommits breaks each PR down by its commit records, biggest
// churn first. PRs without commit lists keep their reported totals.
func (e *Engine) buildPRCommits() *schema.Table {
	t := schema.NewTable(schema.TablePRCommits, e.withMeta(
		"Repository", "PR_Number", "Authors", "Commit_Count",
		"Total_Additions", "Total_Deletions", "Total_Churn", "Files_Changed",
		"First_Commit_Date", "Last_Commit_Date", "Commit_Span_Days",
	)...)

	type prRow struct {
		pr        *schema.PullRequest
		additions int
		deletions int
		files     int
	}
	var rows []prRow
	for _, pr := range e.orderedPRs() {
		row := prRow{pr: pr}
		if len(pr.Commits) > 0 {
			filenames := make(map[string]struct{})
			for i := range pr.Commits {
				c := &pr.Commits[i]
				row.additions += c.Additions
				row.deletions += c.Deletions
				for _, f := range c.Files {
					filenames[f.Filename] = struct{}{}
				}
			}
			row.files = len(filenames)
		} else {
			row.additions = pr.TotalAdditions
			row.deletions = pr.TotalDeletions
			row.files = pr.TotalFiles
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].additions+rows[i].deletions > rows[j].additions+rows[j].deletions
	})

	for _, row := range rows {
		first, last, span := prCommitSpan(row.pr)
		var firstCell, lastCell, spanCell any
		if first != nil {
			firstCell = schema.FormatInstant(*first)
			lastCell = schema.FormatInstant(*last)
		}
		if span != nil {
			spanCell = *span
		}
		t.Append(e.rowWithMeta(
			row.pr.Repository, row.pr.Number, schema.JoinUsers(prAuthors(row.pr)),
			len(row.pr.Commits), row.additions, row.deletions,
			row.additions+row.deletions, row.files,
			firstCell, lastCell, spanCell,
		)...)
	}
	return t
}

// buildPRSpeed aggregates commit spans per contributor over PRs that
// have a measurable span, slowest average first.
func (e *Engine) buildPRSpeed() *schema.Table {
	t := schema.NewTable(schema.TablePRSpeed, e.withMeta(
		"userId", "Total_PRs", "Avg_Span_Days", "Median_Span_Days",
		"Longest_Span_Days", "Avg_Commits_Per_PR", "Avg_Churn_Per_PR",
	)...)

	type speed struct {
		spans   []float64
		commits int
		churn   int
	}
	perUser := make(map[string]*speed)
	var order []string
	for _, pr := range e.orderedPRs() {
		_, _, span := prCommitSpan(pr)
		if span == nil {
			continue
		}
		sp, ok := perUser[pr.UserID]
		if !ok {
			sp = &speed{}
			perUser[pr.UserID] = sp
			order = append(order, pr.UserID)
		}
		sp.spans = append(sp.spans, *span)
		sp.commits += len(pr.Commits)
		for i := range pr.Commits {
			sp.churn += pr.Commits[i].TotalChanges()
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return contract.Mean(perUser[order[i]].spans) > contract.Mean(perUser[order[j]].spans)
	})

	for _, id := range order {
		sp := perUser[id]
		longest := 0.0
		for _, v := range sp.spans {
			if v > longest {
				longest = v
			}
		}
		n := float64(len(sp.spans))
		t.Append(e.rowWithMeta(
			id,
			len(sp.spans),
			contract.Round1(contract.Mean(sp.spans)),
			contract.Round1(contract.Median(sp.spans)),
			contract.Round1(longest),
			contract.Round1(contract.SafeDivide(float64(sp.commits), n)),
			contract.Round1(contract.SafeDivide(float64(sp.churn), n)),
		)...)
	}
	return t
}

// buildMultiAuthorPRs lists pull requests with more than one distinct
// contributor on their commits.
func (e *Engine) buildMultiAuthorPRs() *schema.Table {
	t := schema.NewTable(schema.TableMultiAuthorPRs, e.withMeta(
		"Repository", "PR_Number", "Authors_Count", "Authors",
		"Total_Commits", "Total_Churn",
	)...)

	for _, pr := range e.orderedPRs() {
		users := prAuthors(pr)
		if len(users) < 2 {
			continue
		}
		churn := 0
		for i := range pr.Commits {
			churn += pr.Commits[i].TotalChanges()
		}
		t.Append(e.rowWithMeta(
			pr.Repository, pr.Number, len(users), schema.JoinUsers(users),
			len(pr.Commits), churn,
		)...)
	}
	return t
}
