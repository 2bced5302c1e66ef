package metrics

import (
	"testing"
	"time"

	"github.com/huangsam/devinsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFlagsThresholds(t *testing.T) {
	tests := []struct {
		name string
		in   riskInputs
		want riskFlags
	}{
		{
			name: "all healthy",
			in: riskInputs{
				mergeRate: 90, hasMergeRate: true,
				reviews: 3, hasReviews: true,
				cycleDays: 2, hasCycle: true,
				afterHoursPct: 10, weekendPct: 5,
				directRatePct: 20, hasDirectRate: true,
			},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.GreenFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
		{
			name: "merge rate just below threshold",
			in:   riskInputs{mergeRate: 79.9, hasMergeRate: true},
			want: riskFlags{
				mergeRate: schema.YellowFlag, reviews: schema.GreenFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
		{
			name: "zero reviews with evidence",
			in:   riskInputs{reviews: 0, hasReviews: true},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.RedFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
		{
			name: "slow cycle and heavy after hours",
			in:   riskInputs{cycleDays: 5.1, hasCycle: true, afterHoursPct: 50.1},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.GreenFlag,
				cycleTime: schema.YellowFlag, afterHours: schema.RedFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
		{
			name: "boundary values stay green",
			in: riskInputs{
				mergeRate: 80, hasMergeRate: true,
				cycleDays: 5, hasCycle: true,
				afterHoursPct: 25, weekendPct: 30,
				directRatePct: 50, hasDirectRate: true,
			},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.GreenFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
		{
			name: "direct pushes dominate",
			in:   riskInputs{directRatePct: 70.1, hasDirectRate: true, weekendPct: 30.1},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.GreenFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.YellowFlag, direct: schema.RedFlag,
			},
		},
		{
			name: "missing metrics never flag",
			in:   riskInputs{},
			want: riskFlags{
				mergeRate: schema.GreenFlag, reviews: schema.GreenFlag,
				cycleTime: schema.GreenFlag, afterHours: schema.GreenFlag,
				weekend: schema.GreenFlag, direct: schema.GreenFlag,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluateFlags(tt.in))
		})
	}
}

func TestOverallRisk(t *testing.T) {
	g, y, r := schema.GreenFlag, schema.YellowFlag, schema.RedFlag
	tests := []struct {
		name      string
		flags     []schema.RiskFlag
		wantLevel schema.RiskLevel
		wantCount int
	}{
		{"all green", []schema.RiskFlag{g, g, g}, schema.RiskNone, 0},
		{"one yellow", []schema.RiskFlag{g, y, g}, schema.RiskLow, 1},
		{"two yellows", []schema.RiskFlag{y, y, g}, schema.RiskMedium, 2},
		{"red wins", []schema.RiskFlag{r, y, g}, schema.RiskHigh, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, count := overallRisk(tt.flags)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestAfterHoursFlagMonotonic(t *testing.T) {
	rank := map[schema.RiskFlag]int{
		schema.GreenFlag:  0,
		schema.YellowFlag: 1,
		schema.RedFlag:    2,
	}
	prev := 0
	for pct := 0; pct <= 100; pct++ {
		f := evaluateFlags(riskInputs{afterHoursPct: float64(pct)})
		cur := rank[f.afterHours]
		assert.GreaterOrEqual(t, cur, prev, "pct=%d", pct)
		prev = cur
	}
}

func TestBuildRiskFlagsDerivesFromOwnedPRs(t *testing.T) {
	a := schema.NewAggregate()
	night := time.Date(2024, 3, 11, 22, 0, 0, 0, time.UTC)
	for i := range 4 {
		a.Commits = append(a.Commits,
			datedCommit("dana", "svc-api", schema.DirectCommit, night.AddDate(0, 0, i), 1, 0))
	}
	cycle := 6.0
	a.SetPullRequest(&schema.PullRequest{
		Key: "svc-api#1", Repository: "svc-api", Number: "1", UserID: "dana",
		State: "merged", MergedAt: "2024-03-12T10:00:00Z", CycleTimeDays: &cycle,
	})
	a.SetPullRequest(&schema.PullRequest{
		Key: "svc-api#2", Repository: "svc-api", Number: "2", UserID: "dana",
		State: "open",
	})

	tbl := NewEngine(a).buildRiskFlags()
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, "dana", cell(t, tbl, 0, "userId"))

	// 1 of 2 owned PRs merged, avg cycle from the only measurable PR.
	assert.Equal(t, 50.0, cell(t, tbl, 0, "Merge_Rate_Percent"))
	assert.Equal(t, string(schema.YellowFlag), cell(t, tbl, 0, "Merge_Rate_Flag"))
	assert.Equal(t, 6.0, cell(t, tbl, 0, "Avg_Cycle_Time_Days"))
	assert.Equal(t, string(schema.YellowFlag), cell(t, tbl, 0, "Cycle_Time_Flag"))

	// Every commit landed at 22:00, all direct.
	assert.Equal(t, 100.0, cell(t, tbl, 0, "After_Hours_Percent"))
	assert.Equal(t, string(schema.RedFlag), cell(t, tbl, 0, "After_Hours_Flag"))
	assert.Equal(t, 100.0, cell(t, tbl, 0, "Direct_Commit_Rate_Percent"))
	assert.Equal(t, string(schema.RedFlag), cell(t, tbl, 0, "Direct_Commit_Flag"))

	// No review evidence leaves that flag green.
	assert.Nil(t, cell(t, tbl, 0, "Reviews_Submitted"))
	assert.Equal(t, string(schema.GreenFlag), cell(t, tbl, 0, "Reviews_Flag"))

	assert.Equal(t, string(schema.RiskHigh), cell(t, tbl, 0, "Overall_Risk_Level"))
	assert.Equal(t, 4, cell(t, tbl, 0, "Total_Flags"))
}

func TestBuildRiskFlagsInsightOnlyContributor(t *testing.T) {
	a := schema.NewAggregate()
	in := a.Insight("remote")
	in.MergeRate, in.HasMergeRate = 95, true
	in.ReviewsSubmitted, in.HasReviews = 4, true
	in.AvgCycleTimeDays, in.HasCycleTime = 1.5, true
	in.AfterHoursPercent, in.HasAfterHours = 12, true

	tbl := NewEngine(a).buildRiskFlags()
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, string(schema.RiskNone), cell(t, tbl, 0, "Overall_Risk_Level"))
	assert.Equal(t, 12.0, cell(t, tbl, 0, "After_Hours_Percent"))
	assert.Nil(t, cell(t, tbl, 0, "Direct_Commit_Rate_Percent"))
}
