package metrics

import (
	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// riskInputs carries the per-contributor metrics the flags compare
// against the fixed thresholds. The has* fields record whether a metric
// is backed by any evidence; without evidence the flag stays Green
// instead of punishing missing data.
type riskInputs struct {
	mergeRate     float64
	hasMergeRate  bool
	reviews       int
	hasReviews    bool
	cycleDays     float64
	hasCycle      bool
	afterHoursPct float64
	weekendPct    float64
	directRatePct float64
	hasDirectRate bool
}

// riskFlags holds the evaluated traffic lights for one contributor.
type riskFlags struct {
	mergeRate  schema.RiskFlag
	reviews    schema.RiskFlag
	cycleTime  schema.RiskFlag
	afterHours schema.RiskFlag
	weekend    schema.RiskFlag
	direct     schema.RiskFlag
}

// evaluateFlags applies the fixed thresholds to one contributor.
func evaluateFlags(in riskInputs) riskFlags {
	f := riskFlags{
		mergeRate:  schema.GreenFlag,
		reviews:    schema.GreenFlag,
		cycleTime:  schema.GreenFlag,
		afterHours: schema.GreenFlag,
		weekend:    schema.GreenFlag,
		direct:     schema.GreenFlag,
	}
	if in.hasMergeRate && in.mergeRate < schema.MergeRateWarnBelow {
		f.mergeRate = schema.YellowFlag
	}
	if in.hasReviews && in.reviews == 0 {
		f.reviews = schema.RedFlag
	}
	if in.hasCycle && in.cycleDays > schema.CycleTimeWarnAboveDays {
		f.cycleTime = schema.YellowFlag
	}
	switch {
	case in.afterHoursPct > schema.AfterHoursHighAbove:
		f.afterHours = schema.RedFlag
	case in.afterHoursPct > schema.AfterHoursWarnAbove:
		f.afterHours = schema.YellowFlag
	}
	if in.weekendPct > schema.WeekendWarnAbove {
		f.weekend = schema.YellowFlag
	}
	if in.hasDirectRate {
		switch {
		case in.directRatePct > schema.DirectRateHighAbove:
			f.direct = schema.RedFlag
		case in.directRatePct > schema.DirectRateWarnAbove:
			f.direct = schema.YellowFlag
		}
	}
	return f
}

// all returns the flags in column order.
func (f riskFlags) all() []schema.RiskFlag {
	return []schema.RiskFlag{f.mergeRate, f.reviews, f.cycleTime, f.afterHours, f.weekend, f.direct}
}

// overallRisk collapses the flags: any Red means High, two or more
// Yellows mean Medium, exactly one Yellow means Low, otherwise None.
func overallRisk(flags []schema.RiskFlag) (schema.RiskLevel, int) {
	reds, yellows := 0, 0
	for _, f := range flags {
		switch f {
		case schema.RedFlag:
			reds++
		case schema.YellowFlag:
			yellows++
		}
	}
	switch {
	case reds > 0:
		return schema.RiskHigh, reds + yellows
	case yellows > 1:
		return schema.RiskMedium, yellows
	case yellows == 1:
		return schema.RiskLow, yellows
	default:
		return schema.RiskNone, 0
	}
}

// riskInputsFor assembles the metrics for one contributor from commit
// stats, analytics insights and owned pull requests, in that order of
// preference.
func (e *Engine) riskInputsFor(id string) riskInputs {
	in := riskInputs{}
	s := e.userStatsFor(id)
	insight := e.agg.Insights[id]

	if s != nil && s.dated > 0 {
		in.afterHoursPct = contract.SafePercentage(float64(s.afterHours), float64(s.dated))
		in.weekendPct = contract.SafePercentage(float64(s.weekend), float64(s.dated))
	} else if insight != nil && insight.HasAfterHours {
		in.afterHoursPct = insight.AfterHoursPercent
	}
	if s != nil && s.classified() > 0 {
		in.directRatePct = contract.SafePercentage(float64(s.direct), float64(s.classified()))
		in.hasDirectRate = true
	}

	if insight != nil {
		if insight.HasMergeRate {
			in.mergeRate = insight.MergeRate
			in.hasMergeRate = true
		}
		if insight.HasReviews {
			in.reviews = insight.ReviewsSubmitted
			in.hasReviews = true
		}
		if insight.HasCycleTime {
			in.cycleDays = insight.AvgCycleTimeDays
			in.hasCycle = true
		}
	}

	// Fall back to the merged PR records for merge rate and cycle time.
	if !in.hasMergeRate || !in.hasCycle {
		total, merged := 0, 0
		var cycles []float64
		for _, key := range e.agg.PROrder {
			pr := e.agg.PullRequests[key]
			if pr.UserID != id {
				continue
			}
			total++
			if pr.State == "merged" || pr.MergedAt != "" {
				merged++
			}
			if ct := prCycleTime(pr); ct != nil {
				cycles = append(cycles, *ct)
			}
		}
		if !in.hasMergeRate && total > 0 {
			in.mergeRate = contract.SafePercentage(float64(merged), float64(total))
			in.hasMergeRate = true
		}
		if !in.hasCycle && len(cycles) > 0 {
			in.cycleDays = contract.Mean(cycles)
			in.hasCycle = true
		}
	}
	return in
}

// buildRiskFlags evaluates every contributor against the fixed
// thresholds and classifies their overall risk.
func (e *Engine) buildRiskFlags() *schema.Table {
	t := schema.NewTable(schema.TableRiskFlags, e.withMeta(
		"userId",
		"Merge_Rate_Percent", "Merge_Rate_Flag",
		"Reviews_Submitted", "Reviews_Flag",
		"Avg_Cycle_Time_Days", "Cycle_Time_Flag",
		"After_Hours_Percent", "After_Hours_Flag",
		"Weekend_Percent", "Weekend_Flag",
		"Direct_Commit_Rate_Percent", "Direct_Commit_Flag",
		"Total_Flags", "Overall_Risk_Level",
	)...)

	ids := make(map[string]struct{})
	for _, s := range e.userStatsList() {
		ids[s.userID] = struct{}{}
	}
	for _, id := range e.agg.InsightOrder {
		ids[id] = struct{}{}
	}

	for _, id := range schema.SortedKeys(ids) {
		in := e.riskInputsFor(id)
		flags := evaluateFlags(in)
		level, total := overallRisk(flags.all())

		var mergeCell, cycleCell, reviewsCell, directCell any
		if in.hasMergeRate {
			mergeCell = contract.Round1(in.mergeRate)
		}
		if in.hasReviews {
			reviewsCell = in.reviews
		}
		if in.hasCycle {
			cycleCell = contract.Round1(in.cycleDays)
		}
		if in.hasDirectRate {
			directCell = contract.Round1(in.directRatePct)
		}
		t.Append(e.rowWithMeta(
			id,
			mergeCell, string(flags.mergeRate),
			reviewsCell, string(flags.reviews),
			cycleCell, string(flags.cycleTime),
			contract.Round1(in.afterHoursPct), string(flags.afterHours),
			contract.Round1(in.weekendPct), string(flags.weekend),
			directCell, string(flags.direct),
			total, string(level),
		)...)
	}
	return t
}
