// Package schema has the data model, constants and table shapes for all parts of devinsight.
package schema

import "time"

// Commit represents a single normalized commit, regardless of which
// document family it came from.
type Commit struct {
	SHA        string     // Commit hash
	Author     string     // Display name of the commit author
	UserID     string     // Stable contributor identifier, falls back to Author
	Repository string     // Repository the commit belongs to
	Type       CommitType // Direct push or pull-request mediated
	PRNumber   string     // Pull request number, empty for direct commits
	Message    string     // First line of the commit message
	URL        string     // Link to the commit, when the document carries one
	Date       string     // Raw timestamp string as found in the document
	When       time.Time  // Normalized instant keeping any embedded offset, valid only when Dated
	Dated      bool       // Whether Date parsed into a usable instant
	Additions  int        // Lines added
	Deletions  int        // Lines deleted
	Files      []FileChange
	SourceFile string // Input file the commit was loaded from
}

// TotalChanges returns additions plus deletions.
func (c *Commit) TotalChanges() int {
	return c.Additions + c.Deletions
}

// Hour returns the commit hour in [0,23]. Only meaningful when Dated.
func (c *Commit) Hour() int {
	return c.When.Hour()
}

// DayIndex returns the weekday with Monday as 0, matching the report's
// day ordering. Only meaningful when Dated.
func (c *Commit) DayIndex() int {
	return (int(c.When.Weekday()) + 6) % 7
}

// IsAfterHours reports whether the commit landed outside the business
// window defined by BusinessStartHour and BusinessEndHour.
func (c *Commit) IsAfterHours() bool {
	h := c.Hour()
	return h < BusinessStartHour || h > BusinessEndHour
}

// IsWeekend reports whether the commit landed on Saturday or Sunday.
func (c *Commit) IsWeekend() bool {
	return c.DayIndex() >= 5
}

// FileChange represents one file touched by a commit.
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
}

// PullRequest accumulates every commit seen for one pull request key
// ("repository#number") plus its churn totals. When two documents carry
// the same key, the later document replaces the earlier entry wholesale.
type PullRequest struct {
	Key            string
	Repository     string
	Number         string
	UserID         string
	Title          string
	State          string
	CreatedAt      string
	MergedAt       string
	ClosedAt       string
	Commits        []Commit
	TotalAdditions int
	TotalDeletions int
	TotalFiles     int
	CycleTimeDays  *float64 // Reported cycle time from analytics documents, nil otherwise
}

// RepositoryTotals accumulates commit counts and churn for one
// repository across every input document. Commits carried inside the
// grouping payloads land here too; the top-level commit list does not
// repeat them.
type RepositoryTotals struct {
	Name           string
	UserID         string // From the grouping payload, first document wins
	Direct         int
	PullRequest    int
	TotalAdditions int
	TotalDeletions int
	TotalFiles     int
	Commits        []Commit
}

// TotalCommits returns direct plus pull-request commit counts.
func (r *RepositoryTotals) TotalCommits() int {
	return r.Direct + r.PullRequest
}

// SummaryTotals holds the overall counters summed across documents.
type SummaryTotals struct {
	TotalCommits      int
	DirectCommits     int
	PRCommits         int
	TotalAdditions    int
	TotalDeletions    int
	TotalFilesChanged int
	TotalRepositories int
	TotalPullRequests int
}

// ContributorInsights carries the per-contributor rollups that only
// analytics-family documents report directly (merge rate, reviews,
// average cycle time). Flat-family inputs leave the Has* fields false
// and the metrics engine derives what it can from raw commits instead.
type ContributorInsights struct {
	UserID            string
	DisplayName       string
	TotalPRsCreated   int
	TotalPRsMerged    int
	MergeRate         float64
	HasMergeRate      bool
	ReviewsSubmitted  int
	HasReviews        bool
	AvgCycleTimeDays  float64
	HasCycleTime      bool
	AfterHoursPercent float64
	HasAfterHours     bool
	ActiveDays        int
	LinesAdded        int
	LinesDeleted      int
	FilesChanged      int
	TotalCommits      int
	PrimaryLanguages  []string
	DateRangeStart    string
	DateRangeEnd      string
}

// SourceFileInfo records the outcome of loading one input file.
type SourceFileInfo struct {
	Name    string
	Path    string
	Family  DocumentFamily
	Parsed  bool
	Empty   bool
	Records int
	Error   string
}

// Aggregate is the single merged view of every parsed input document.
// Maps carry companion order slices so that output is deterministic and
// follows first-seen order, independent of map iteration.
type Aggregate struct {
	Commits      []Commit
	Repositories map[string]*RepositoryTotals
	RepoOrder    []string
	PullRequests map[string]*PullRequest
	PROrder      []string
	MetaTags     map[string]any
	MetaOrder    []string
	Summary      SummaryTotals
	Insights     map[string]*ContributorInsights
	InsightOrder []string
	Sources      []SourceFileInfo
}

// NewAggregate returns an empty aggregate ready for merging.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Repositories: make(map[string]*RepositoryTotals),
		PullRequests: make(map[string]*PullRequest),
		MetaTags:     make(map[string]any),
		Insights:     make(map[string]*ContributorInsights),
	}
}

// Repository returns the totals entry for name, creating it in
// first-seen order when absent.
func (a *Aggregate) Repository(name string) *RepositoryTotals {
	if r, ok := a.Repositories[name]; ok {
		return r
	}
	r := &RepositoryTotals{Name: name}
	a.Repositories[name] = r
	a.RepoOrder = append(a.RepoOrder, name)
	return r
}

// SetPullRequest stores pr under its key. A duplicate key replaces the
// earlier entry but keeps its original position in the order.
func (a *Aggregate) SetPullRequest(pr *PullRequest) {
	if _, ok := a.PullRequests[pr.Key]; !ok {
		a.PROrder = append(a.PROrder, pr.Key)
	}
	a.PullRequests[pr.Key] = pr
}

// SetMetaTag stores a meta tag. A duplicate key takes the new value but
// keeps its original position in the order.
func (a *Aggregate) SetMetaTag(key string, value any) {
	if _, ok := a.MetaTags[key]; !ok {
		a.MetaOrder = append(a.MetaOrder, key)
	}
	a.MetaTags[key] = value
}

// Insight returns the insights entry for userID, creating it in
// first-seen order when absent.
func (a *Aggregate) Insight(userID string) *ContributorInsights {
	if in, ok := a.Insights[userID]; ok {
		return in
	}
	in := &ContributorInsights{UserID: userID}
	a.Insights[userID] = in
	a.InsightOrder = append(a.InsightOrder, userID)
	return in
}
