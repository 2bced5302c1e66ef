// Package metrics builds the report worksheets from an aggregate.
// Every builder is a pure function of the aggregate, so the tables can
// be computed concurrently and always come out in the same fixed order.
package metrics

import (
	"sort"
	"sync"

	"github.com/huangsam/devinsight/schema"
)

// Engine derives all output tables from one aggregate.
type Engine struct {
	agg *schema.Aggregate

	statsOnce sync.Once
	stats     []*userStats
	statsByID map[string]*userStats
}

// NewEngine returns an engine over the given aggregate.
func NewEngine(agg *schema.Aggregate) *Engine {
	return &Engine{agg: agg}
}

// tableBuilder pairs a worksheet name with its builder.
type tableBuilder struct {
	name  string
	build func() *schema.Table
}

// builders returns every builder in emission order. The order must stay
// aligned with schema.TableOrder.
func (e *Engine) builders() []tableBuilder {
	return []tableBuilder{
		{schema.TableContributors, e.buildContributors},
		{schema.TableRepositories, e.buildRepositories},
		{schema.TableCommits, e.buildCommits},
		{schema.TableFileChanges, e.buildFileChanges},
		{schema.TablePullRequests, e.buildPullRequests},
		{schema.TableWorkPatterns, e.buildWorkPatterns},
		{schema.TableWeeklyHeatmap, e.buildWeeklyHeatmap},
		{schema.TableYearlyHeatmap, e.buildYearlyHeatmap},
		{schema.TablePRCommits, e.buildPRCommits},
		{schema.TablePRSpeed, e.buildPRSpeed},
		{schema.TableRepoMatrix, e.buildRepoMatrix},
		{schema.TableMultiAuthorPRs, e.buildMultiAuthorPRs},
		{schema.TableDirectCommits, e.buildDirectCommits},
		{schema.TableRiskFlags, e.buildRiskFlags},
		{schema.TableUserSummary, e.buildUserSummary},
		{schema.TableSourceFiles, e.buildSourceFiles},
	}
}

// BuildTables computes every worksheet. An empty aggregate still yields
// the full table set with zero rows, never a missing table. Builders
// run on up to workers goroutines; the output order is fixed either way.
func (e *Engine) BuildTables(workers int) []*schema.Table {
	builders := e.builders()
	tables := make([]*schema.Table, len(builders))

	if workers <= 1 {
		for i, b := range builders {
			tables[i] = b.build()
		}
		return tables
	}

	if workers > len(builders) {
		workers = len(builders)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tables[i] = builders[i].build()
			}
		}()
	}
	for i := range builders {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return tables
}

// metaHeaders returns the meta tag columns appended to analysis tables.
func (e *Engine) metaHeaders() []string {
	return e.agg.MetaOrder
}

// metaCells returns the meta tag values in header order.
func (e *Engine) metaCells() []any {
	cells := make([]any, len(e.agg.MetaOrder))
	for i, key := range e.agg.MetaOrder {
		cells[i] = e.agg.MetaTags[key]
	}
	return cells
}

// withMeta appends the meta columns to a base header list.
func (e *Engine) withMeta(headers ...string) []string {
	return append(headers, e.metaHeaders()...)
}

// rowWithMeta appends the meta values to a base row.
func (e *Engine) rowWithMeta(cells ...any) []any {
	return append(cells, e.metaCells()...)
}

// userStats accumulates per-contributor commit facts shared by several
// builders.
type userStats struct {
	userID      string
	author      string
	total       int
	direct      int
	pr          int
	unknownType int
	additions   int
	deletions   int
	dated       int
	afterHours  int
	weekend     int
	repos       map[string]struct{}
	hourCounts  [24]int
	dayHour     [7][24]int
	monthCounts [12]int
}

// classified returns the commits whose direct/PR split is known.
func (s *userStats) classified() int {
	return s.direct + s.pr
}

// userStatsList walks the commit list once and caches the result so
// concurrent builders share it.
func (e *Engine) userStatsList() []*userStats {
	e.statsOnce.Do(func() {
		e.statsByID = make(map[string]*userStats)
		for i := range e.agg.Commits {
			c := &e.agg.Commits[i]
			s, ok := e.statsByID[c.UserID]
			if !ok {
				s = &userStats{userID: c.UserID, repos: make(map[string]struct{})}
				e.statsByID[c.UserID] = s
				e.stats = append(e.stats, s)
			}
			if s.author == "" && c.Author != schema.UnknownUser {
				s.author = c.Author
			}
			s.total++
			switch c.Type {
			case schema.DirectCommit:
				s.direct++
			case schema.PRCommit:
				s.pr++
			default:
				s.unknownType++
			}
			s.additions += c.Additions
			s.deletions += c.Deletions
			if c.Repository != "" {
				s.repos[c.Repository] = struct{}{}
			}
			if c.Dated {
				s.dated++
				if c.IsAfterHours() {
					s.afterHours++
				}
				if c.IsWeekend() {
					s.weekend++
				}
				s.hourCounts[c.Hour()]++
				s.dayHour[c.DayIndex()][c.Hour()]++
				s.monthCounts[int(c.When.Month())-1]++
			}
		}
		for _, s := range e.stats {
			if s.author == "" {
				s.author = s.userID
			}
		}
	})
	return e.stats
}

// userStatsFor returns the cached stats entry for a contributor, nil
// when they have no commits.
func (e *Engine) userStatsFor(userID string) *userStats {
	e.userStatsList()
	return e.statsByID[userID]
}

// sortedUserIDs returns every contributor id with commits, sorted.
func (e *Engine) sortedUserIDs() []string {
	stats := e.userStatsList()
	ids := make([]string, 0, len(stats))
	for _, s := range stats {
		ids = append(ids, s.userID)
	}
	sort.Strings(ids)
	return ids
}
