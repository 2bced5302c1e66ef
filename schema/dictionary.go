package schema

import "fmt"

// ColumnDoc documents one worksheet column for the data dictionary.
type ColumnDoc struct {
	Description string
	Source      string
	Formula     string
}

// commonColumnDocs covers columns that appear on several worksheets.
var commonColumnDocs = map[string]ColumnDoc{
	"userId": {
		Description: "Stable contributor identifier",
		Source:      "Document userId field, falling back to author name",
		Formula:     "userId if present, else author, else \"unknown\"",
	},
	"Author": {
		Description: "Display name of the contributor",
		Source:      "Commit author field",
		Formula:     "Direct field",
	},
	"Repository": {
		Description: "Repository the record belongs to",
		Source:      "Commit or pull request repository field",
		Formula:     "Direct field",
	},
	"PR_Number": {
		Description: "Pull request number",
		Source:      "Commit pull_request field or PR key",
		Formula:     "Direct field, empty for direct commits",
	},
	"Total_Commits": {
		Description: "Total number of commits",
		Source:      "Aggregated commit records",
		Formula:     "count(commits)",
	},
	"Direct_Commits": {
		Description: "Commits pushed without a pull request",
		Source:      "Aggregated commit records",
		Formula:     "count(commits where type = direct)",
	},
	"PR_Commits": {
		Description: "Commits that went through a pull request",
		Source:      "Aggregated commit records",
		Formula:     "count(commits where type = pull_request)",
	},
	"Total_Additions": {
		Description: "Total lines added",
		Source:      "Commit additions fields",
		Formula:     "sum(additions)",
	},
	"Total_Deletions": {
		Description: "Total lines deleted",
		Source:      "Commit deletions fields",
		Formula:     "sum(deletions)",
	},
	"Total_Churn": {
		Description: "Total lines changed",
		Source:      "Commit additions and deletions fields",
		Formula:     "sum(additions + deletions)",
	},
	"After_Hours_Percent": {
		Description: "Share of dated commits outside the 08:00-18:59 window",
		Source:      "Normalized commit timestamps",
		Formula:     "100 * after_hours_commits / dated_commits, clamped to [0,100]",
	},
	"Weekend_Percent": {
		Description: "Share of dated commits on Saturday or Sunday",
		Source:      "Normalized commit timestamps",
		Formula:     "100 * weekend_commits / dated_commits, clamped to [0,100]",
	},
	"Direct_Commit_Rate_Percent": {
		Description: "Share of commits bypassing pull requests",
		Source:      "Aggregated commit records",
		Formula:     "100 * direct_commits / total_commits, clamped to [0,100]",
	},
	"Authors": {
		Description: "Distinct contributor ids, semicolon separated",
		Source:      "Commit userId fields",
		Formula:     "sorted unique userIds joined with \"; \"",
	},
	"Authors_Count": {
		Description: "Number of distinct contributors",
		Source:      "Commit userId fields",
		Formula:     "count(unique userIds)",
	},
	"First_Commit_Date": {
		Description: "Earliest dated commit, ISO-8601",
		Source:      "Normalized commit timestamps",
		Formula:     "min(commit dates)",
	},
	"Last_Commit_Date": {
		Description: "Latest dated commit, ISO-8601",
		Source:      "Normalized commit timestamps",
		Formula:     "max(commit dates)",
	},
	"Merge_Rate_Percent": {
		Description: "Share of created pull requests that merged",
		Source:      "Analytics summary or aggregated PR states",
		Formula:     "100 * merged / created, clamped to [0,100]",
	},
}

// tableColumnDocs covers worksheet-specific columns.
var tableColumnDocs = map[string]map[string]ColumnDoc{
	TableContributors: {
		"Avg_Commit_Size": {
			Description: "Average lines changed per commit",
			Source:      "Commit additions and deletions fields",
			Formula:     "(sum(additions) + sum(deletions)) / total_commits",
		},
		"After_Hours_Commits_Percent": {
			Description: "Share of dated commits outside the 08:00-18:59 window",
			Source:      "Normalized commit timestamps",
			Formula:     "100 * after_hours_commits / dated_commits, clamped to [0,100]",
		},
		"Weekend_Commits_Percent": {
			Description: "Share of dated commits on Saturday or Sunday",
			Source:      "Normalized commit timestamps",
			Formula:     "100 * weekend_commits / dated_commits, clamped to [0,100]",
		},
		"Unique_Repositories": {
			Description: "Number of distinct repositories touched",
			Source:      "Commit repository fields",
			Formula:     "count(unique repositories)",
		},
	},
	TableRepositories: {
		"Repository_Name": {
			Description: "Repository name",
			Source:      "groupedByRepository keys and commit repositories",
			Formula:     "Direct field",
		},
		"Total_Files_Changed": {
			Description: "Total file touches across commits",
			Source:      "Repository totalFiles fields",
			Formula:     "sum(totalFiles)",
		},
		"PR_Usage_Percentage": {
			Description: "Share of commits that went through a pull request",
			Source:      "Repository direct and pull_request counters",
			Formula:     "100 * pr_commits / total_commits, clamped to [0,100]",
		},
		"Contributors_Count": {
			Description: "Number of distinct contributors to the repository",
			Source:      "Commit userId fields",
			Formula:     "count(unique userIds)",
		},
		"Contributors": {
			Description: "Distinct contributor ids, semicolon separated",
			Source:      "Commit userId fields",
			Formula:     "sorted unique userIds joined with \"; \"",
		},
	},
	TableCommits: {
		"SHA":           {Description: "Commit hash", Source: "Commit sha field", Formula: "Direct field"},
		"Date":          {Description: "Normalized commit instant, ISO-8601 keeping its offset; raw string when unparseable", Source: "Commit date field", Formula: "Parsed with embedded offset, naive values taken as UTC"},
		"Type":          {Description: "direct or pull_request", Source: "Commit type field", Formula: "Direct field, defaults to direct"},
		"Message":       {Description: "Commit message", Source: "Commit message field", Formula: "Direct field"},
		"URL":           {Description: "Link to the commit", Source: "Commit url field", Formula: "Direct field"},
		"Additions":     {Description: "Lines added by the commit", Source: "Commit additions field", Formula: "Direct field"},
		"Deletions":     {Description: "Lines deleted by the commit", Source: "Commit deletions field", Formula: "Direct field"},
		"Total_Changes": {Description: "Lines changed by the commit", Source: "Commit additions and deletions fields", Formula: "additions + deletions"},
		"Files_Changed": {Description: "Number of files touched", Source: "Commit files array", Formula: "len(files)"},
		"Hour":          {Description: "Commit hour 0-23, absent when undated", Source: "Normalized commit timestamp", Formula: "hour(date)"},
		"Day_of_Week":   {Description: "Day name Monday-Sunday, absent when undated", Source: "Normalized commit timestamp", Formula: "weekday(date)"},
		"Is_After_Hours": {
			Description: "Whether the commit landed outside business hours",
			Source:      "Normalized commit timestamp",
			Formula:     "hour < 8 or hour > 18",
		},
		"Is_Weekend":  {Description: "Whether the commit landed on a weekend", Source: "Normalized commit timestamp", Formula: "weekday in {Saturday, Sunday}"},
		"Source_File": {Description: "Input file the commit was loaded from", Source: "Loader bookkeeping", Formula: "Direct field"},
	},
	TableFileChanges: {
		"Filename":      {Description: "Path of the changed file", Source: "Commit files array", Formula: "Direct field"},
		"Status":        {Description: "Change status such as modified or added", Source: "Commit files array", Formula: "Direct field"},
		"Commit_SHA":    {Description: "Hash of the commit that changed the file", Source: "Commit sha field", Formula: "Direct field"},
		"Commit_Author": {Description: "Author of the commit that changed the file", Source: "Commit author field", Formula: "Direct field"},
		"Additions":     {Description: "Lines added to the file", Source: "File additions field", Formula: "Direct field"},
		"Deletions":     {Description: "Lines deleted from the file", Source: "File deletions field", Formula: "Direct field"},
		"Total_Changes": {Description: "Lines changed in the file", Source: "File additions and deletions fields", Formula: "additions + deletions"},
	},
	TablePullRequests: {
		"PR_Key":        {Description: "Unique pull request key", Source: "groupedByPullRequest keys", Formula: "repository#number"},
		"State":         {Description: "Pull request state such as open, merged or closed", Source: "PR state field", Formula: "Direct field"},
		"Commits_Count": {Description: "Number of commits on the pull request", Source: "PR commit list", Formula: "count(commits)"},
		"Total_Files":   {Description: "Total file touches across PR commits", Source: "PR totalFiles field", Formula: "Direct field"},
		"Cycle_Time_Days": {
			Description: "Days between first and last dated commit; absent with fewer than two dated commits",
			Source:      "Normalized commit timestamps or analytics cycle time details",
			Formula:     "(max(dates) - min(dates)) in days",
		},
	},
	TableWorkPatterns: {
		"Contributor_Name": {
			Description: "Display name of the contributor",
			Source:      "Commit author fields",
			Formula:     "First non-empty author name, falls back to the user id",
		},
		"After_Hours_Percentage": {
			Description: "Share of dated commits outside the 08:00-18:59 window",
			Source:      "Normalized commit timestamps",
			Formula:     "100 * after_hours_commits / dated_commits, clamped to [0,100]",
		},
		"Weekend_Percentage": {
			Description: "Share of dated commits on Saturday or Sunday",
			Source:      "Normalized commit timestamps",
			Formula:     "100 * weekend_commits / dated_commits, clamped to [0,100]",
		},
		"Peak_Hour": {
			Description: "Hour bucket with the most commits; earliest hour wins ties",
			Source:      "Normalized commit timestamps",
			Formula:     "argmax over 24 hour buckets, formatted HH:00",
		},
	},
	TableWeeklyHeatmap: {
		"Day":         {Description: "Day name Monday-Sunday", Source: "Normalized commit timestamps", Formula: "weekday(date)"},
		"Hour":        {Description: "Hour bucket formatted HH:00", Source: "Normalized commit timestamps", Formula: "hour(date)"},
		"Hour_Number": {Description: "Hour bucket 0-23 for sorting", Source: "Normalized commit timestamps", Formula: "hour(date)"},
		"Commits":     {Description: "Dated commits in the bucket; zero rows are kept", Source: "Aggregated commit records", Formula: "count(commits in bucket)"},
	},
	TableYearlyHeatmap: {
		"Month":        {Description: "Month name January-December", Source: "Normalized commit timestamps", Formula: "month(date)"},
		"Month_Number": {Description: "Month 1-12 for sorting", Source: "Normalized commit timestamps", Formula: "month(date)"},
		"Commits":      {Description: "Dated commits in the bucket; zero rows are kept", Source: "Aggregated commit records", Formula: "count(commits in bucket)"},
	},
	TablePRCommits: {
		"Commit_Count":  {Description: "Number of commits on the pull request", Source: "PR commit list", Formula: "count(commits)"},
		"Files_Changed": {Description: "Distinct files touched across PR commits", Source: "Commit files arrays", Formula: "count(unique filenames)"},
		"Commit_Span_Days": {
			Description: "Days between first and last dated commit; absent with fewer than two dated commits",
			Source:      "Normalized commit timestamps",
			Formula:     "(max(dates) - min(dates)) in days",
		},
	},
	TablePRSpeed: {
		"Total_PRs":          {Description: "Pull requests with at least two dated commits", Source: "Aggregated PR records", Formula: "count(PRs with span)"},
		"Avg_Span_Days":      {Description: "Average commit span across qualifying PRs", Source: "Normalized commit timestamps", Formula: "mean(spans)"},
		"Median_Span_Days":   {Description: "Median commit span across qualifying PRs", Source: "Normalized commit timestamps", Formula: "median(spans)"},
		"Longest_Span_Days":  {Description: "Longest commit span across qualifying PRs", Source: "Normalized commit timestamps", Formula: "max(spans)"},
		"Avg_Commits_Per_PR": {Description: "Average commits per qualifying PR", Source: "PR commit lists", Formula: "mean(commit counts)"},
		"Avg_Churn_Per_PR":   {Description: "Average lines changed per qualifying PR", Source: "PR commit lists", Formula: "mean(additions + deletions)"},
	},
	TableRepoMatrix: {
		"Commit_Count": {
			Description: "Commits by the contributor in the repository; zero cells are kept",
			Source:      "Aggregated commit records",
			Formula:     "count(commits by userId in repository)",
		},
	},
	TableRiskFlags: {
		"Merge_Rate_Flag":     {Description: "Yellow when merge rate is below 80%", Source: "Threshold comparison", Formula: "Yellow if merge_rate < 80 else Green"},
		"Reviews_Submitted":   {Description: "Code reviews submitted by the contributor", Source: "Analytics summary totalReviewsSubmitted", Formula: "sum across documents"},
		"Reviews_Flag":        {Description: "Red when no reviews were submitted", Source: "Threshold comparison", Formula: "Red if reviews = 0 else Green"},
		"Avg_Cycle_Time_Days": {Description: "Average pull request cycle time", Source: "Analytics cycle times or commit spans", Formula: "mean(cycle times)"},
		"Cycle_Time_Flag":     {Description: "Yellow when the average cycle exceeds 5 days", Source: "Threshold comparison", Formula: "Yellow if avg_cycle > 5 else Green"},
		"After_Hours_Flag":    {Description: "Red above 50%, Yellow above 25%", Source: "Threshold comparison", Formula: "Red if pct > 50, Yellow if pct > 25, else Green"},
		"Weekend_Flag":        {Description: "Yellow above 30%", Source: "Threshold comparison", Formula: "Yellow if pct > 30 else Green"},
		"Direct_Commit_Flag":  {Description: "Red above 70%, Yellow above 50%", Source: "Threshold comparison", Formula: "Red if rate > 70, Yellow if rate > 50, else Green"},
		"Total_Flags":         {Description: "Number of non-Green flags raised", Source: "Flag columns", Formula: "count(flags != Green)"},
		"Overall_Risk_Level": {
			Description: "Overall classification from the individual flags",
			Source:      "Flag columns",
			Formula:     "High if any Red; Medium if >1 Yellow; Low if 1 Yellow; else None",
		},
	},
	TableUserSummary: {
		"Date_Range_Start":        {Description: "Start of the analysis window", Source: "Analytics metadata dateRange", Formula: "Direct field"},
		"Date_Range_End":          {Description: "End of the analysis window", Source: "Analytics metadata dateRange", Formula: "Direct field"},
		"Total_PRs_Created":       {Description: "Pull requests opened in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Total_PRs_Merged":        {Description: "Pull requests merged in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Total_Reviews_Submitted": {Description: "Code reviews submitted in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Lines_Added":             {Description: "Lines added in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Lines_Deleted":           {Description: "Lines deleted in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Files_Changed":           {Description: "Files changed in the window", Source: "Analytics summary", Formula: "sum across documents"},
		"Active_Days":             {Description: "Days with at least one commit", Source: "Analytics summary", Formula: "Direct field"},
		"Primary_Languages":       {Description: "Most used languages, semicolon separated", Source: "Analytics summary", Formula: "unique languages joined with \"; \""},
	},
	TableSourceFiles: {
		"File_Name":           {Description: "Input file name", Source: "Loader bookkeeping", Formula: "Direct field"},
		"File_Path":           {Description: "Input file path", Source: "Loader bookkeeping", Formula: "Direct field"},
		"Schema_Family":       {Description: "Detected schema family: flat, analytics or unknown", Source: "Top-level key detection", Formula: "flat if commits/grouped keys, analytics if analytics/metadata keys"},
		"Successfully_Parsed": {Description: "Whether the file parsed as JSON", Source: "Loader bookkeeping", Formula: "Direct field"},
		"Is_Empty":            {Description: "Whether the file carried no usable records", Source: "Loader bookkeeping", Formula: "Direct field"},
		"Records":             {Description: "Usable records extracted from the file", Source: "Loader bookkeeping", Formula: "commit + PR record count"},
		"Error":               {Description: "Parse error message, empty on success", Source: "Loader bookkeeping", Formula: "Direct field"},
	},
}

// DescribeColumn returns documentation for a worksheet column. Lookup
// order is worksheet-specific, then shared, then a generic fallback so
// the call always succeeds.
func DescribeColumn(table, column string) ColumnDoc {
	if cols, ok := tableColumnDocs[table]; ok {
		if doc, ok := cols[column]; ok {
			return doc
		}
	}
	if doc, ok := commonColumnDocs[column]; ok {
		return doc
	}
	return ColumnDoc{
		Description: fmt.Sprintf("Data field: %s", column),
		Source:      "Derived from aggregated report data",
		Formula:     "Computed during report generation",
	}
}
