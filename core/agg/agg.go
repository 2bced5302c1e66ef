// Package agg merges parsed report documents into one aggregate view.
package agg

import (
	"slices"
	"sort"
	"strings"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// Aggregate folds every document into a single schema.Aggregate.
// Commit lists and repository totals sum across documents; duplicate
// pull request keys are replaced by the later document; meta tags
// shallow-merge with later documents winning per key. Processing order
// follows the docs slice, which the loader keeps lexical by path.
func Aggregate(docs []schema.Document, sources []schema.SourceFileInfo) *schema.Aggregate {
	out := schema.NewAggregate()
	for i := range docs {
		doc := &docs[i]
		switch doc.Family {
		case schema.FamilyFlat:
			mergeFlat(out, doc)
		case schema.FamilyAnalytics:
			mergeAnalytics(out, doc)
		}
	}

	// Unique counters reflect the merged view, not the per-document sums.
	out.Summary.TotalRepositories = len(out.RepoOrder)
	out.Summary.TotalPullRequests = len(out.PROrder)
	out.Sources = sources
	return out
}

// mergeFlat folds one flat-family document into the aggregate.
func mergeFlat(out *schema.Aggregate, doc *schema.Document) {
	flat := doc.Flat
	if flat == nil {
		return
	}

	// 1. Normalize and append the top-level commit list
	for i := range flat.Commits {
		out.Commits = append(out.Commits, normalizeFlatCommit(&flat.Commits[i], doc.Name))
	}

	// 2. Sum repository totals, in sorted key order for determinism.
	// The first grouping payload to name a userId keeps it, and commits
	// nested in the payload ride along for contributor derivation.
	for _, name := range sortedRepoKeys(flat.GroupedByRepository) {
		grp := flat.GroupedByRepository[name]
		repo := out.Repository(name)
		if repo.UserID == "" && strings.TrimSpace(grp.UserID) != "" {
			repo.UserID = grp.UserID
		}
		repo.Direct += grp.Direct
		repo.PullRequest += grp.PullRequest
		repo.TotalAdditions += grp.TotalAdditions
		repo.TotalDeletions += grp.TotalDeletions
		repo.TotalFiles += grp.TotalFiles
		for i := range grp.Commits {
			c := normalizeFlatCommit(&grp.Commits[i], doc.Name)
			if c.Repository == "" {
				c.Repository = name
			}
			repo.Commits = append(repo.Commits, c)
		}
	}

	// 3. Replace pull requests wholesale on duplicate keys
	for _, key := range sortedPRKeys(flat.GroupedByPullRequest) {
		grp := flat.GroupedByPullRequest[key]
		out.SetPullRequest(normalizeFlatPR(key, &grp, doc.Name))
	}

	// 4. Shallow-merge meta tags, later documents win per key
	for _, key := range sortedMetaKeys(flat.MetaTags) {
		out.SetMetaTag(key, flat.MetaTags[key])
	}

	// 5. Sum the summary counters
	if s := flat.Summary; s != nil {
		out.Summary.TotalCommits += s.TotalCommits
		out.Summary.DirectCommits += s.DirectCommits
		out.Summary.PRCommits += s.PRCommits
		out.Summary.TotalAdditions += s.TotalAdditions
		out.Summary.TotalDeletions += s.TotalDeletions
		out.Summary.TotalFilesChanged += s.TotalFilesChanged
	}
}

// mergeAnalytics folds one analytics-family document into the
// aggregate. The nested detail arrays populate the same commit, PR and
// repository structures the flat family uses.
func mergeAnalytics(out *schema.Aggregate, doc *schema.Document) {
	ad := doc.Analytics
	if ad == nil {
		return
	}
	user := ad.SearchUser()

	// 1. Code churn details become commits. The analytics schema does
	// not say whether a commit went through a PR, so the type stays
	// unknown rather than guessing.
	if cc := ad.Analytics.CodeChurn; cc != nil {
		for i := range cc.Details {
			d := &cc.Details[i]
			commit := schema.Commit{
				SHA:        d.SHA,
				Author:     firstNonEmpty(d.Author.Name, user),
				UserID:     user,
				Repository: d.Repository,
				Type:       schema.UnknownCommit,
				Message:    d.Message,
				URL:        d.URL,
				Date:       d.Author.Date,
				Additions:  d.Stats.Additions,
				Deletions:  d.Stats.Deletions,
				SourceFile: doc.Name,
			}
			commit.When, commit.Dated = contract.ParseReportDate(d.Author.Date)
			out.Commits = append(out.Commits, commit)

			if d.Repository != "" {
				repo := out.Repository(d.Repository)
				repo.TotalAdditions += d.Stats.Additions
				repo.TotalDeletions += d.Stats.Deletions
			}
		}
	}

	// 2. Throughput details become pull requests, enriched with cycle
	// times when the cycle time section carries a matching entry.
	cycles := indexCycleTimes(ad.Analytics.PRCycleTime)
	if pt := ad.Analytics.PRThroughput; pt != nil {
		for i := range pt.Details {
			d := &pt.Details[i]
			pr := &schema.PullRequest{
				Key:            prKey(d.Repository, d.Number.String()),
				Repository:     d.Repository,
				Number:         d.Number.String(),
				UserID:         user,
				Title:          d.Title,
				State:          d.State,
				CreatedAt:      d.CreatedAt,
				MergedAt:       d.MergedAt,
				ClosedAt:       d.ClosedAt,
				TotalAdditions: d.Additions,
				TotalDeletions: d.Deletions,
				TotalFiles:     d.ChangedFiles,
			}
			if ct, ok := cycles[pr.Key]; ok {
				pr.CycleTimeDays = ct
			} else if ct := cycleFromTimestamps(d.CreatedAt, d.MergedAt); ct != nil {
				pr.CycleTimeDays = ct
			}
			out.SetPullRequest(pr)
		}
	}

	// 3. Per-user insights from the summary and sections
	in := out.Insight(user)
	in.DisplayName = firstNonEmpty(in.DisplayName, user)
	in.DateRangeStart = firstNonEmpty(in.DateRangeStart, ad.Metadata.DateRange.Start)
	in.DateRangeEnd = firstNonEmpty(in.DateRangeEnd, ad.Metadata.DateRange.End)
	in.TotalPRsCreated += ad.Summary.TotalPRsCreated
	in.TotalPRsMerged += ad.Summary.TotalPRsMerged
	in.ReviewsSubmitted += ad.Summary.TotalReviewsSubmitted
	in.HasReviews = true
	in.LinesAdded += ad.Summary.LinesAdded
	in.LinesDeleted += ad.Summary.LinesDeleted
	in.FilesChanged += ad.Summary.FilesChanged
	in.TotalCommits += ad.Summary.TotalCommits
	if ad.Summary.ActiveDays > in.ActiveDays {
		in.ActiveDays = ad.Summary.ActiveDays
	}
	for _, lang := range ad.Summary.PrimaryLanguages {
		if !slices.Contains(in.PrimaryLanguages, lang) {
			in.PrimaryLanguages = append(in.PrimaryLanguages, lang)
		}
	}
	if pt := ad.Analytics.PRThroughput; pt != nil {
		in.MergeRate = pt.MergeRate
		in.HasMergeRate = true
	}
	if ct := ad.Analytics.PRCycleTime; ct != nil {
		in.AvgCycleTimeDays = ct.AvgCycleTime
		in.HasCycleTime = true
	}
	if wp := ad.Analytics.WorkPatterns; wp != nil {
		in.AfterHoursPercent = wp.AfterHoursPercentage
		in.HasAfterHours = true
	}

	// 4. Meta tags and summary counters
	for _, key := range sortedMetaKeys(ad.Metadata.MetaTags) {
		out.SetMetaTag(key, ad.Metadata.MetaTags[key])
	}
	out.Summary.TotalCommits += ad.Summary.TotalCommits
	out.Summary.TotalAdditions += ad.Summary.LinesAdded
	out.Summary.TotalDeletions += ad.Summary.LinesDeleted
}

// normalizeFlatCommit converts one flat commit record. Only an explicit
// "direct" type counts as a direct push; anything else, including a
// missing type, is treated as pull-request mediated.
func normalizeFlatCommit(fc *schema.FlatCommit, source string) schema.Commit {
	commit := schema.Commit{
		SHA:        fc.SHA,
		Author:     firstNonEmpty(fc.Author, schema.UnknownUser),
		UserID:     firstNonEmpty(fc.UserID, fc.Author, schema.UnknownUser),
		Repository: fc.Repository,
		Type:       schema.PRCommit,
		PRNumber:   fc.PullRequest.String(),
		Message:    fc.Message,
		URL:        fc.URL,
		Date:       fc.Date,
		Additions:  fc.Stats.Additions,
		Deletions:  fc.Stats.Deletions,
		SourceFile: source,
	}
	if fc.Type == string(schema.DirectCommit) {
		commit.Type = schema.DirectCommit
	}
	commit.When, commit.Dated = contract.ParseReportDate(fc.Date)
	for _, f := range fc.Files {
		commit.Files = append(commit.Files, schema.FileChange{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
		})
	}
	return commit
}

// normalizeFlatPR converts one groupedByPullRequest entry. Repository
// and number fall back to the "repository#number" key when the entry
// does not spell them out; an explicit userId on the entry wins over
// the first commit's author.
func normalizeFlatPR(key string, grp *schema.FlatPullRequest, source string) *schema.PullRequest {
	repo, number := splitPRKey(key)
	pr := &schema.PullRequest{
		Key:            key,
		Repository:     firstNonEmpty(grp.Repository, repo),
		Number:         firstNonEmpty(grp.Number.String(), number),
		TotalAdditions: grp.TotalAdditions,
		TotalDeletions: grp.TotalDeletions,
		TotalFiles:     grp.TotalFiles,
	}
	for i := range grp.Commits {
		pr.Commits = append(pr.Commits, normalizeFlatCommit(&grp.Commits[i], source))
	}
	switch {
	case strings.TrimSpace(grp.UserID) != "":
		pr.UserID = grp.UserID
	case len(pr.Commits) > 0:
		pr.UserID = pr.Commits[0].UserID
	default:
		pr.UserID = schema.UnknownUser
	}
	return pr
}

// indexCycleTimes builds a key lookup for the cycle time details.
func indexCycleTimes(section *schema.PRCycleTimeSection) map[string]*float64 {
	out := make(map[string]*float64)
	if section == nil {
		return out
	}
	for i := range section.Details {
		d := &section.Details[i]
		if d.CycleTime != nil {
			out[prKey(d.Repository, d.Number.String())] = d.CycleTime
		}
	}
	return out
}

// cycleFromTimestamps derives a cycle time from createdAt/mergedAt when
// both parse; nil marks absence.
func cycleFromTimestamps(createdAt, mergedAt string) *float64 {
	created, ok := contract.ParseReportDate(createdAt)
	if !ok {
		return nil
	}
	merged, ok := contract.ParseReportDate(mergedAt)
	if !ok {
		return nil
	}
	days := contract.DaysBetween(created, merged)
	if days < 0 {
		return nil
	}
	return &days
}

func prKey(repo, number string) string {
	return repo + "#" + number
}

// splitPRKey splits "repository#number" into its parts. The last '#'
// wins so repository names containing '#' stay intact.
func splitPRKey(key string) (string, string) {
	idx := strings.LastIndex(key, "#")
	if idx < 0 {
		return key, ""
	}
	return key[:idx], key[idx+1:]
}

func sortedRepoKeys(m map[string]schema.FlatRepository) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPRKeys(m map[string]schema.FlatPullRequest) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMetaKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
