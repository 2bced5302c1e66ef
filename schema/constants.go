package schema

// Custom string types for type safety.
type (
	// DocumentFamily identifies which input schema a JSON document follows.
	DocumentFamily string

	// CommitType distinguishes direct pushes from pull-request commits.
	CommitType string

	// RiskFlag is a per-metric traffic-light flag.
	RiskFlag string

	// RiskLevel is the overall risk classification for a contributor.
	RiskLevel string

	// DatabaseBackend represents the database backend for worksheet export.
	DatabaseBackend string
)

// All document families supported.
const (
	FamilyFlat      DocumentFamily = "flat"
	FamilyAnalytics DocumentFamily = "analytics"
	FamilyUnknown   DocumentFamily = "unknown"
)

// All commit types supported. Analytics documents do not say whether a
// commit went through a pull request, so their commits stay unknown and
// are left out of direct-rate calculations.
const (
	DirectCommit  CommitType = "direct" // default
	PRCommit      CommitType = "pull_request"
	UnknownCommit CommitType = "unknown"
)

// Traffic-light flags used in the inefficiency analysis.
const (
	GreenFlag  RiskFlag = "Green"
	YellowFlag RiskFlag = "Yellow"
	RedFlag    RiskFlag = "Red"
)

// Overall risk levels, ordered from best to worst.
const (
	RiskNone   RiskLevel = "None"
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// All export backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends lists all valid export backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Business window for after-hours classification. A commit at exactly
// 08:00 or 18:59 counts as business hours.
const (
	BusinessStartHour = 8
	BusinessEndHour   = 18
)

// Fixed thresholds for the inefficiency flags. Percentages are in
// [0,100], cycle time in days.
const (
	MergeRateWarnBelow     = 80.0
	CycleTimeWarnAboveDays = 5.0
	AfterHoursHighAbove    = 50.0
	AfterHoursWarnAbove    = 25.0
	WeekendWarnAbove       = 30.0
	DirectRateHighAbove    = 70.0
	DirectRateWarnAbove    = 50.0
)

// UnknownUser is the contributor id used when a commit carries neither
// a userId nor an author.
const UnknownUser = "unknown"

// Worksheet names, in emission order.
const (
	TableContributors   = "Contributor Analysis"
	TableRepositories   = "Repository Summary"
	TableCommits        = "All Commits"
	TableFileChanges    = "All File Changes"
	TablePullRequests   = "All Pull Requests"
	TableWorkPatterns   = "Work Patterns"
	TableWeeklyHeatmap  = "Commit Heatmap Weekly"
	TableYearlyHeatmap  = "Commit Heatmap Yearly"
	TablePRCommits      = "PR Commit Analysis"
	TablePRSpeed        = "PR Contributor Speed"
	TableRepoMatrix     = "Repo Matrix"
	TableMultiAuthorPRs = "Multi Author PR"
	TableDirectCommits  = "Direct Commit Analysis"
	TableRiskFlags      = "Inefficiency Flags"
	TableUserSummary    = "Summary"
	TableSourceFiles    = "JSON Files Loaded"
)

// TableOrder fixes the worksheet ordering for every output surface.
var TableOrder = []string{
	TableContributors,
	TableRepositories,
	TableCommits,
	TableFileChanges,
	TablePullRequests,
	TableWorkPatterns,
	TableWeeklyHeatmap,
	TableYearlyHeatmap,
	TablePRCommits,
	TablePRSpeed,
	TableRepoMatrix,
	TableMultiAuthorPRs,
	TableDirectCommits,
	TableRiskFlags,
	TableUserSummary,
	TableSourceFiles,
}

// DayNames maps DayIndex (Monday=0) to display names.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MonthNames maps time.Month-1 to display names.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// riskRank orders risk levels for comparisons.
var riskRank = map[RiskLevel]int{
	RiskNone:   0,
	RiskLow:    1,
	RiskMedium: 2,
	RiskHigh:   3,
}

// WorseRisk returns the higher of two risk levels.
func WorseRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}
