package metrics

import (
	"strings"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// buildUserSummary surfaces the per-contributor analytics rollups in
// the order their documents were loaded.
func (e *Engine) buildUserSummary() *schema.Table {
	t := schema.NewTable(schema.TableUserSummary, e.withMeta(
		"userId",
		"Date_Range_Start",
		"Date_Range_End",
		"Total_Commits",
		"Total_PRs_Created",
		"Total_PRs_Merged",
		"Merge_Rate_Percent",
		"Total_Reviews_Submitted",
		"Lines_Added",
		"Lines_Deleted",
		"Files_Changed",
		"Active_Days",
		"Primary_Languages",
	)...)

	for _, id := range e.agg.InsightOrder {
		in := e.agg.Insights[id]

		var mergeCell, reviewsCell any
		if in.HasMergeRate {
			mergeCell = contract.Round1(in.MergeRate)
		}
		if in.HasReviews {
			reviewsCell = in.ReviewsSubmitted
		}
		t.Append(e.rowWithMeta(
			in.UserID,
			in.DateRangeStart,
			in.DateRangeEnd,
			in.TotalCommits,
			in.TotalPRsCreated,
			in.TotalPRsMerged,
			mergeCell,
			reviewsCell,
			in.LinesAdded,
			in.LinesDeleted,
			in.FilesChanged,
			in.ActiveDays,
			strings.Join(in.PrimaryLanguages, "; "),
		)...)
	}
	return t
}

// buildSourceFiles records the fate of every JSON file the loader saw,
// parsed or not. No meta columns here, the table describes inputs
// rather than report data.
func (e *Engine) buildSourceFiles() *schema.Table {
	t := schema.NewTable(schema.TableSourceFiles,
		"File_Name",
		"File_Path",
		"Schema_Family",
		"Successfully_Parsed",
		"Is_Empty",
		"Records",
		"Error",
	)

	for _, src := range e.agg.Sources {
		t.Append(
			src.Name,
			src.Path,
			string(src.Family),
			src.Parsed,
			src.Empty,
			src.Records,
			src.Error,
		)
	}
	return t
}
