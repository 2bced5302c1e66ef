package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString unmarshals from either a JSON string or a JSON number.
// Report generators are inconsistent about pull request numbers, so
// both "42" and 42 must land as "42".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Integral floats like 42.0 render as "42".
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
	} else {
		*f = FlexString(n.String())
	}
	return nil
}

// String returns the underlying value.
func (f FlexString) String() string {
	return string(f)
}

// Document is one parsed input file, tagged with the family it was
// detected as. Exactly one of Flat or Analytics is non-nil for a known
// family; both are nil for FamilyUnknown.
type Document struct {
	Name      string
	Path      string
	Family    DocumentFamily
	Flat      *FlatDocument
	Analytics *AnalyticsDocument
}

// Empty reports whether the document carries no usable records.
func (d *Document) Empty() bool {
	switch d.Family {
	case FamilyFlat:
		return d.Flat == nil || d.Flat.Empty()
	case FamilyAnalytics:
		return d.Analytics == nil || d.Analytics.Empty()
	}
	return true
}

// FlatDocument is the flat schema family: top-level commit list plus
// repository and pull-request groupings.
type FlatDocument struct {
	Commits              []FlatCommit               `json:"commits"`
	GroupedByRepository  map[string]FlatRepository  `json:"groupedByRepository"`
	GroupedByPullRequest map[string]FlatPullRequest `json:"groupedByPullRequest"`
	MetaTags             map[string]any             `json:"metaTags"`
	Summary              *FlatSummary               `json:"summary"`
}

// Empty reports whether the document has no commits anywhere.
func (d *FlatDocument) Empty() bool {
	if len(d.Commits) > 0 {
		return false
	}
	for _, repo := range d.GroupedByRepository {
		if len(repo.Commits) > 0 {
			return false
		}
	}
	return len(d.GroupedByPullRequest) == 0
}

// FlatCommit is a commit record in the flat family. Line churn lives
// under a nested stats object, not at the top level.
type FlatCommit struct {
	SHA         string           `json:"sha"`
	Author      string           `json:"author"`
	UserID      string           `json:"userId"`
	Repository  string           `json:"repository"`
	Type        string           `json:"type"`
	PullRequest FlexString       `json:"pullRequest"`
	Message     string           `json:"message"`
	URL         string           `json:"url"`
	Date        string           `json:"date"`
	Stats       CommitStats      `json:"stats"`
	Files       []FlatFileChange `json:"files"`
}

// CommitStats is the nested churn block on commit records.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// FlatFileChange is one file entry under a flat commit.
type FlatFileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// FlatRepository is one groupedByRepository entry.
type FlatRepository struct {
	UserID         string       `json:"userId"`
	Direct         int          `json:"direct"`
	PullRequest    int          `json:"pull_request"`
	TotalAdditions int          `json:"totalAdditions"`
	TotalDeletions int          `json:"totalDeletions"`
	TotalFiles     int          `json:"totalFiles"`
	Commits        []FlatCommit `json:"commits"`
}

// FlatPullRequest is one groupedByPullRequest entry, keyed by
// "repository#number" in the parent map.
type FlatPullRequest struct {
	Repository     string       `json:"repository"`
	Number         FlexString   `json:"number"`
	UserID         string       `json:"userId"`
	Commits        []FlatCommit `json:"commits"`
	TotalAdditions int          `json:"totalAdditions"`
	TotalDeletions int          `json:"totalDeletions"`
	TotalFiles     int          `json:"totalFiles"`
}

// FlatSummary is the flat family's overall counters.
type FlatSummary struct {
	TotalCommits      int `json:"totalCommits"`
	DirectCommits     int `json:"directCommits"`
	PRCommits         int `json:"prCommits"`
	TotalAdditions    int `json:"totalAdditions"`
	TotalDeletions    int `json:"totalDeletions"`
	TotalFilesChanged int `json:"totalFilesChanged"`
	TotalRepositories int `json:"totalRepositories"`
	TotalPullRequests int `json:"totalPullRequests"`
}

// AnalyticsDocument is the analytics schema family: per-user metadata,
// summary counters and nested analysis sections.
type AnalyticsDocument struct {
	Metadata  AnalyticsMetadata `json:"metadata"`
	Summary   AnalyticsSummary  `json:"summary"`
	Analytics AnalyticsSections `json:"analytics"`
	RawData   *AnalyticsRawData `json:"rawData"`
}

// Empty reports whether the document has no detail records at all.
func (d *AnalyticsDocument) Empty() bool {
	a := d.Analytics
	if a.CodeChurn != nil && len(a.CodeChurn.Details) > 0 {
		return false
	}
	if a.PRThroughput != nil && len(a.PRThroughput.Details) > 0 {
		return false
	}
	return d.Summary.TotalCommits == 0 && d.Summary.TotalPRsCreated == 0
}

// SearchUser returns the contributor id the document was generated for.
func (d *AnalyticsDocument) SearchUser() string {
	if u := strings.TrimSpace(d.Metadata.SearchUser); u != "" {
		return u
	}
	return UnknownUser
}

// AnalyticsMetadata describes the report run that produced the document.
type AnalyticsMetadata struct {
	SearchUser           string         `json:"searchUser"`
	DateRange            DateRange      `json:"dateRange"`
	RepositoriesAnalyzed []string       `json:"repositoriesAnalyzed"`
	MetaTags             map[string]any `json:"metaTags"`
	GeneratedAt          string         `json:"generatedAt"`
	ReportVersion        string         `json:"reportVersion"`
}

// DateRange is the analysis window of an analytics document.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AnalyticsSummary holds the per-user counters of an analytics document.
type AnalyticsSummary struct {
	TotalCommits          int      `json:"totalCommits"`
	TotalPRsCreated       int      `json:"totalPRsCreated"`
	TotalPRsMerged        int      `json:"totalPRsMerged"`
	TotalReviewsSubmitted int      `json:"totalReviewsSubmitted"`
	LinesAdded            int      `json:"linesAdded"`
	LinesDeleted          int      `json:"linesDeleted"`
	FilesChanged          int      `json:"filesChanged"`
	ActiveDays            int      `json:"activeDays"`
	PrimaryLanguages      []string `json:"primaryLanguages"`
}

// AnalyticsSections groups the nested analysis blocks. Any of them may
// be absent when the producing module was disabled.
type AnalyticsSections struct {
	PRThroughput *PRThroughputSection `json:"prThroughput"`
	CodeChurn    *CodeChurnSection    `json:"codeChurn"`
	WorkPatterns *WorkPatternsSection `json:"workPatterns"`
	PRCycleTime  *PRCycleTimeSection  `json:"prCycleTime"`
}

// PRThroughputSection carries pull request state details.
type PRThroughputSection struct {
	MergeRate float64              `json:"mergeRate"`
	Details   []PRThroughputDetail `json:"details"`
}

// PRThroughputDetail is one pull request in the throughput section.
// Lifecycle timestamps use snake_case keys, unlike the section names.
type PRThroughputDetail struct {
	Repository   string     `json:"repository"`
	Number       FlexString `json:"number"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	CreatedAt    string     `json:"created_at"`
	MergedAt     string     `json:"merged_at"`
	ClosedAt     string     `json:"closed_at"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
}

// CodeChurnSection carries per-commit churn details.
type CodeChurnSection struct {
	Details []CodeChurnDetail `json:"details"`
}

// CodeChurnDetail is one commit in the churn section. Churn lives in a
// nested stats block and the timestamp hangs off the author.
type CodeChurnDetail struct {
	SHA        string          `json:"sha"`
	Repository string          `json:"repository"`
	Message    string          `json:"message"`
	URL        string          `json:"url"`
	Stats      CommitStats     `json:"stats"`
	Author     AnalyticsAuthor `json:"author"`
}

// AnalyticsAuthor identifies a commit author in analytics details.
type AnalyticsAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// WorkPatternsSection carries timing distributions.
type WorkPatternsSection struct {
	AfterHoursPercentage float64        `json:"afterHoursPercentage"`
	DayDistribution      map[string]int `json:"dayDistribution"`
	HourDistribution     map[string]int `json:"hourDistribution"`
}

// PRCycleTimeSection carries per-PR cycle times.
type PRCycleTimeSection struct {
	AvgCycleTime float64             `json:"avgCycleTime"`
	Details      []PRCycleTimeDetail `json:"details"`
}

// PRCycleTimeDetail is one pull request in the cycle time section.
type PRCycleTimeDetail struct {
	Repository string     `json:"repository"`
	Number     FlexString `json:"number"`
	CreatedAt  string     `json:"created_at"`
	MergedAt   string     `json:"merged_at"`
	ClosedAt   string     `json:"closed_at"`
	CycleTime  *float64   `json:"cycleTime"`
	Status     string     `json:"status"`
}

// AnalyticsRawData is the optional raw payload some generators append.
type AnalyticsRawData struct {
	PullRequests []PRThroughputDetail `json:"pullRequests"`
}
