package model

import (
	"fmt"
	"sort"
	"time"

	U "campaigniq/util"
)

// SummaryStats are the headline totals across a session's datasets.
type SummaryStats struct {
	TotalInfluencers int     `json:"total_influencers"`
	TotalPosts       int     `json:"total_posts"`
	TotalOrders      int64   `json:"total_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalPayouts     float64 `json:"total_payouts"`
}

// ComputeSummaryStats folds the raw datasets into headline totals.
func ComputeSummaryStats(influencers []Influencer, posts []Post,
	tracking []TrackingEvent, payouts []Payout) SummaryStats {

	stats := SummaryStats{
		TotalInfluencers: len(influencers),
		TotalPosts:       len(posts),
	}
	for i := range tracking {
		stats.TotalOrders += tracking[i].Orders
		stats.TotalRevenue += tracking[i].Revenue
	}
	for i := range payouts {
		stats.TotalPayouts += payouts[i].TotalPayout
	}
	return stats
}

// IntegrityReport lists cross-dataset referential problems. Issues are
// rows that will be dropped as orphans; warnings flag influencers with
// partial coverage.
type IntegrityReport struct {
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// ValidateIntegrity cross-checks influencer id references between the
// four datasets.
func ValidateIntegrity(influencers []Influencer, posts []Post,
	tracking []TrackingEvent, payouts []Payout) IntegrityReport {

	report := IntegrityReport{Issues: []string{}, Warnings: []string{}}

	known := make(map[string]bool, len(influencers))
	for i := range influencers {
		known[influencers[i].ID] = true
	}

	postIDs := make(map[string]bool)
	for i := range posts {
		postIDs[posts[i].InfluencerID] = true
	}
	trackingIDs := make(map[string]bool)
	for i := range tracking {
		trackingIDs[tracking[i].InfluencerID] = true
	}
	payoutIDs := make(map[string]bool)
	for i := range payouts {
		payoutIDs[payouts[i].InfluencerID] = true
	}

	if missing := missingFrom(postIDs, known); len(missing) > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("posts reference non-existent influencer ids: %v", missing))
	}
	if missing := missingFrom(trackingIDs, known); len(missing) > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("tracking data references non-existent influencer ids: %v", missing))
	}
	if missing := missingFrom(payoutIDs, known); len(missing) > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("payouts reference non-existent influencer ids: %v", missing))
	}

	if len(missingFrom(postIDs, trackingIDs)) > 0 {
		report.Warnings = append(report.Warnings,
			"some influencers have posts but no tracking data")
	}
	if len(missingFrom(trackingIDs, payoutIDs)) > 0 {
		report.Warnings = append(report.Warnings,
			"some influencers have tracking data but no payout information")
	}
	return report
}

// missingFrom returns the sorted ids present in 'ids' but absent from
// 'reference'.
func missingFrom(ids, reference map[string]bool) []string {
	var missing []string
	for id := range ids {
		if !reference[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

// PlatformPerformanceRow is the per-platform outer join of post
// metrics with tracking metrics keyed by source.
type PlatformPerformanceRow struct {
	Platform       string        `json:"platform"`
	Reach          int64         `json:"reach"`
	Likes          int64         `json:"likes"`
	Comments       int64         `json:"comments"`
	Orders         int64         `json:"orders"`
	Revenue        float64       `json:"revenue"`
	EngagementRate OptionalFloat `json:"engagement_rate"`
	ConversionRate OptionalFloat `json:"conversion_rate"`
}

// ComputePlatformPerformance outer-joins post metrics by platform with
// tracking metrics by source. Sorted by revenue descending, platform
// ascending on ties.
func ComputePlatformPerformance(posts []Post, tracking []TrackingEvent) []PlatformPerformanceRow {
	byPlatform := make(map[string]*PlatformPerformanceRow)
	rowFor := func(platform string) *PlatformPerformanceRow {
		row := byPlatform[platform]
		if row == nil {
			row = &PlatformPerformanceRow{Platform: platform}
			byPlatform[platform] = row
		}
		return row
	}

	for i := range posts {
		row := rowFor(posts[i].Platform)
		row.Reach += posts[i].Reach
		row.Likes += posts[i].Likes
		row.Comments += posts[i].Comments
	}
	for i := range tracking {
		row := rowFor(tracking[i].Source)
		row.Orders += tracking[i].Orders
		row.Revenue += tracking[i].Revenue
	}

	rows := make([]PlatformPerformanceRow, 0, len(byPlatform))
	for _, row := range byPlatform {
		row.EngagementRate = EngagementRate(row.Likes, row.Comments, row.Reach)
		row.ConversionRate = ConversionRate(row.Orders, row.Reach)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Platform < rows[j].Platform
	})
	return rows
}

// Time-series bucketing periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// TimeSeriesRow is revenue/orders for one time bucket.
type TimeSeriesRow struct {
	PeriodStart   time.Time     `json:"period_start"`
	Revenue       float64       `json:"revenue"`
	Orders        int64         `json:"orders"`
	AvgOrderValue OptionalFloat `json:"avg_order_value"`
}

// ComputeTimeSeriesMetrics buckets tracking events by period for trend
// analysis. Unknown periods fall back to daily buckets.
func ComputeTimeSeriesMetrics(tracking []TrackingEvent, period string) []TimeSeriesRow {
	bucketOf := U.BeginningOfDayZ
	switch period {
	case PeriodWeekly:
		bucketOf = U.BeginningOfWeekZ
	case PeriodMonthly:
		bucketOf = U.BeginningOfMonthZ
	}

	buckets := make(map[time.Time]*TimeSeriesRow)
	for i := range tracking {
		start := bucketOf(tracking[i].EventDate)
		row := buckets[start]
		if row == nil {
			row = &TimeSeriesRow{PeriodStart: start}
			buckets[start] = row
		}
		row.Revenue += tracking[i].Revenue
		row.Orders += tracking[i].Orders
	}

	rows := make([]TimeSeriesRow, 0, len(buckets))
	for _, row := range buckets {
		row.AvgOrderValue = ratio(row.Revenue, float64(row.Orders))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PeriodStart.Before(rows[j].PeriodStart) })
	return rows
}
