package impact

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricSummary aggregates all entries of one metric type.
type MetricSummary struct {
	MetricType MetricType `json:"metric_type"`
	TotalValue float64    `json:"total_value"`
	AvgValue   float64    `json:"avg_value"`
	Count      int        `json:"count"`
}

// Stats is the statistics view over a user's entries.
type Stats struct {
	TotalEntries    int             `json:"total_entries"`
	RecentEntries   int             `json:"recent_entries"`
	RecentActivity  int             `json:"recent_activity"`
	MetricBreakdown []MetricSummary `json:"metric_breakdown"`
}

// Summarize computes Stats for records as of now. recentDays and
// activityDays bound the two recency counts. Totals are summed as decimals
// so many small entries do not accumulate float drift.
func Summarize(records []Record, now time.Time, recentDays, activityDays int) Stats {
	recentCutoff := now.AddDate(0, 0, -recentDays)
	activityCutoff := now.AddDate(0, 0, -activityDays)

	totals := make(map[MetricType]decimal.Decimal)
	counts := make(map[MetricType]int)

	stats := Stats{TotalEntries: len(records)}
	for _, r := range records {
		if !r.CreatedAt.Before(recentCutoff) {
			stats.RecentEntries++
		}
		if !r.CreatedAt.Before(activityCutoff) {
			stats.RecentActivity++
		}
		totals[r.MetricType] = totals[r.MetricType].Add(decimal.NewFromFloat(r.Value))
		counts[r.MetricType]++
	}

	stats.MetricBreakdown = make([]MetricSummary, 0, len(counts))
	for _, m := range MetricTypes {
		n, ok := counts[m]
		if !ok {
			continue
		}
		total := totals[m]
		avg := total.Div(decimal.NewFromInt(int64(n)))
		stats.MetricBreakdown = append(stats.MetricBreakdown, MetricSummary{
			MetricType: m,
			TotalValue: total.InexactFloat64(),
			AvgValue:   avg.InexactFloat64(),
			Count:      n,
		})
	}
	return stats
}
