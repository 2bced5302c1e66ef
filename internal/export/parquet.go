// Package export holds the secondary export surfaces: Parquet files
// for warehouse ingestion and SQL worksheet storage.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// CommitRecord is the flattened commit row written to Parquet.
type CommitRecord struct {
	SHA        string `parquet:"sha,snappy"`
	UserID     string `parquet:"user_id,snappy"`
	Author     string `parquet:"author,snappy"`
	Repository string `parquet:"repository,snappy"`
	CommitType string `parquet:"commit_type,snappy"`
	PRNumber   string `parquet:"pr_number,optional,snappy"`

	// CommitTime is nil for commits whose date string did not parse.
	CommitTime *time.Time `parquet:"commit_time,optional,snappy"`

	Additions    int32 `parquet:"additions,snappy"`
	Deletions    int32 `parquet:"deletions,snappy"`
	FilesChanged int32 `parquet:"files_changed,snappy"`

	AfterHours bool `parquet:"after_hours,snappy"`
	Weekend    bool `parquet:"weekend,snappy"`

	SourceFile string `parquet:"source_file,snappy"`
}

// ContributorRecord is the per-contributor rollup row written to Parquet.
type ContributorRecord struct {
	UserID             string  `parquet:"user_id,snappy"`
	TotalCommits       int32   `parquet:"total_commits,snappy"`
	DirectCommits      int32   `parquet:"direct_commits,snappy"`
	PRCommits          int32   `parquet:"pr_commits,snappy"`
	TotalAdditions     int64   `parquet:"total_additions,snappy"`
	TotalDeletions     int64   `parquet:"total_deletions,snappy"`
	AfterHoursPercent  float64 `parquet:"after_hours_percent,snappy"`
	WeekendPercent     float64 `parquet:"weekend_percent,snappy"`
	DirectRatePercent  float64 `parquet:"direct_rate_percent,snappy"`
	UniqueRepositories int32   `parquet:"unique_repositories,snappy"`
}

// WriteParquet writes the commit and contributor Parquet files next to
// the workbook and returns their paths.
func WriteParquet(outputDir, base string, agg *schema.Aggregate) ([]string, error) {
	commitsPath := filepath.Join(outputDir, base+"_commits.parquet")
	if err := writeParquetFile(commitsPath, buildCommitRecords(agg)); err != nil {
		return nil, err
	}
	contributorsPath := filepath.Join(outputDir, base+"_contributors.parquet")
	if err := writeParquetFile(contributorsPath, buildContributorRecords(agg)); err != nil {
		return nil, err
	}
	return []string{commitsPath, contributorsPath}, nil
}

// writeParquetFile writes records to a Parquet file using struct schema
// inference.
func writeParquetFile[T any](path string, records []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

func buildCommitRecords(agg *schema.Aggregate) []CommitRecord {
	records := make([]CommitRecord, 0, len(agg.Commits))
	for i := range agg.Commits {
		c := &agg.Commits[i]
		rec := CommitRecord{
			SHA:          c.SHA,
			UserID:       c.UserID,
			Author:       c.Author,
			Repository:   c.Repository,
			CommitType:   string(c.Type),
			Additions:    int32(c.Additions),
			Deletions:    int32(c.Deletions),
			FilesChanged: int32(len(c.Files)),
			PRNumber:     c.PRNumber,
			SourceFile:   c.SourceFile,
		}
		if c.Dated {
			when := c.When
			rec.CommitTime = &when
			rec.AfterHours = c.IsAfterHours()
			rec.Weekend = c.IsWeekend()
		}
		records = append(records, rec)
	}
	return records
}

func buildContributorRecords(agg *schema.Aggregate) []ContributorRecord {
	type rollup struct {
		total, direct, pr    int
		additions, deletions int
		dated, after, wkend  int
		repos                map[string]struct{}
	}
	perUser := make(map[string]*rollup)
	var order []string
	for i := range agg.Commits {
		c := &agg.Commits[i]
		r, ok := perUser[c.UserID]
		if !ok {
			r = &rollup{repos: make(map[string]struct{})}
			perUser[c.UserID] = r
			order = append(order, c.UserID)
		}
		r.total++
		switch c.Type {
		case schema.DirectCommit:
			r.direct++
		case schema.PRCommit:
			r.pr++
		}
		r.additions += c.Additions
		r.deletions += c.Deletions
		if c.Repository != "" {
			r.repos[c.Repository] = struct{}{}
		}
		if c.Dated {
			r.dated++
			if c.IsAfterHours() {
				r.after++
			}
			if c.IsWeekend() {
				r.wkend++
			}
		}
	}

	records := make([]ContributorRecord, 0, len(order))
	for _, id := range order {
		r := perUser[id]
		records = append(records, ContributorRecord{
			UserID:             id,
			TotalCommits:       int32(r.total),
			DirectCommits:      int32(r.direct),
			PRCommits:          int32(r.pr),
			TotalAdditions:     int64(r.additions),
			TotalDeletions:     int64(r.deletions),
			AfterHoursPercent:  contract.SafePercentage(float64(r.after), float64(r.dated)),
			WeekendPercent:     contract.SafePercentage(float64(r.wkend), float64(r.dated)),
			DirectRatePercent:  contract.SafePercentage(float64(r.direct), float64(r.direct+r.pr)),
			UniqueRepositories: int32(len(r.repos)),
		})
	}
	return records
}
