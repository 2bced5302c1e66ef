package metrics

import (
	"sort"

	"github.com/huangsam/devinsight/schema"
)

// buildCommits flattens every commit into one row, newest first.
// Undated commits keep their raw date string and sort to the bottom;
// their derived time columns stay absent.
func (e *Engine) buildCommits() *schema.Table {
	t := schema.NewTable(schema.TableCommits, e.withMeta(
		"userId", "SHA", "Author", "Date", "Repository", "Type", "PR_Number",
		"Message", "URL", "Additions", "Deletions", "Total_Changes",
		"Files_Changed", "Hour", "Day_of_Week", "Is_After_Hours", "Is_Weekend",
		"Source_File",
	)...)

	commits := make([]*schema.Commit, 0, len(e.agg.Commits))
	for i := range e.agg.Commits {
		commits = append(commits, &e.agg.Commits[i])
	}
	sort.SliceStable(commits, func(i, j int) bool {
		a, b := commits[i], commits[j]
		if a.Dated != b.Dated {
			return a.Dated
		}
		return a.When.After(b.When)
	})

	for _, c := range commits {
		var date any = c.Date
		var hour, day, afterHours, weekend any
		if c.Dated {
			date = schema.FormatInstant(c.When)
			hour = c.Hour()
			day = schema.DayNames[c.DayIndex()]
			afterHours = c.IsAfterHours()
			weekend = c.IsWeekend()
		}
		t.Append(e.rowWithMeta(
			c.UserID, c.SHA, c.Author, date, c.Repository, string(c.Type), c.PRNumber,
			c.Message, c.URL, c.Additions, c.Deletions, c.TotalChanges(),
			len(c.Files), hour, day, afterHours, weekend, c.SourceFile,
		)...)
	}
	return t
}

// buildFileChanges emits one row per file touched per commit, biggest
// changes first.
func (e *Engine) buildFileChanges() *schema.Table {
	t := schema.NewTable(schema.TableFileChanges, e.withMeta(
		"userId", "Filename", "Status", "Commit_SHA", "Commit_Author",
		"Repository", "PR_Number", "Additions", "Deletions", "Total_Changes",
	)...)

	type fileRow struct {
		commit *schema.Commit
		file   *schema.FileChange
	}
	var rows []fileRow
	for i := range e.agg.Commits {
		c := &e.agg.Commits[i]
		for j := range c.Files {
			rows = append(rows, fileRow{commit: c, file: &c.Files[j]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].file, rows[j].file
		return a.Additions+a.Deletions > b.Additions+b.Deletions
	})

	for _, r := range rows {
		t.Append(e.rowWithMeta(
			r.commit.UserID,
			r.file.Filename,
			r.file.Status,
			r.commit.SHA,
			r.commit.Author,
			r.commit.Repository,
			r.commit.PRNumber,
			r.file.Additions,
			r.file.Deletions,
			r.file.Additions+r.file.Deletions,
		)...)
	}
	return t
}
