package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSummaryStats(t *testing.T) {
	stats := ComputeSummaryStats(fixtureInfluencers(), fixturePosts(), fixtureTracking(), fixturePayouts())

	assert.Equal(t, 3, stats.TotalInfluencers)
	assert.Equal(t, 3, stats.TotalPosts)
	assert.Equal(t, int64(5), stats.TotalOrders)
	assert.Equal(t, 2000.0, stats.TotalRevenue)
	assert.Equal(t, 750.0, stats.TotalPayouts)
}

func TestValidateIntegrityClean(t *testing.T) {
	report := ValidateIntegrity(fixtureInfluencers(), fixturePosts(), fixtureTracking(), fixturePayouts())

	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
}

func TestValidateIntegrityFlagsOrphansAndGaps(t *testing.T) {
	tracking := append(fixtureTracking(), TrackingEvent{
		Source: "Twitter", Campaign: "summer_push", InfluencerID: "99",
		UserID: "u9", EventDate: day(3), Orders: 1, Revenue: 50})
	posts := append(fixturePosts(), Post{
		InfluencerID: "3", Platform: "Twitter", PublishDate: day(2), Reach: 100})

	report := ValidateIntegrity(fixtureInfluencers(), posts, tracking, fixturePayouts())

	assert.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "tracking data references non-existent influencer ids")
	assert.Contains(t, report.Issues[0], "99")

	// Influencer 3 posts without tracking; id 99 tracks without payout.
	assert.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "posts but no tracking data")
	assert.Contains(t, report.Warnings[1], "tracking data but no payout information")
}

func TestComputePlatformPerformance(t *testing.T) {
	rows := ComputePlatformPerformance(fixturePosts(), fixtureTracking())

	// Instagram and YouTube appear on both sides of the outer join;
	// rows come back revenue descending.
	assert.Len(t, rows, 2)
	assert.Equal(t, "Instagram", rows[0].Platform)
	assert.Equal(t, int64(1000), rows[0].Reach)
	assert.Equal(t, int64(3), rows[0].Orders)
	assert.Equal(t, 1500.0, rows[0].Revenue)
	assert.InDelta(t, 0.06, rows[0].EngagementRate.Value, 1e-9)

	assert.Equal(t, "YouTube", rows[1].Platform)
	assert.Equal(t, 500.0, rows[1].Revenue)
}

func TestComputePlatformPerformanceOuterJoin(t *testing.T) {
	tracking := append(fixtureTracking(), TrackingEvent{
		Source: "Twitter", Campaign: "summer_push", InfluencerID: "3",
		UserID: "u5", EventDate: day(2), Orders: 1, Revenue: 80})

	rows := ComputePlatformPerformance(fixturePosts(), tracking)

	assert.Len(t, rows, 3)
	assert.Equal(t, "Twitter", rows[2].Platform)
	assert.Equal(t, int64(0), rows[2].Reach)
	assert.False(t, rows[2].EngagementRate.Valid)
	assert.Equal(t, 80.0, rows[2].Revenue)
}

func TestComputeTimeSeriesMetrics(t *testing.T) {
	daily := ComputeTimeSeriesMetrics(fixtureTracking(), PeriodDaily)
	assert.Len(t, daily, 3)
	assert.Equal(t, day(2), daily[0].PeriodStart)
	assert.Equal(t, 900.0, daily[0].Revenue)
	assert.Equal(t, int64(2), daily[0].Orders)
	assert.InDelta(t, 450.0, daily[0].AvgOrderValue.Value, 1e-9)
	assert.Equal(t, 1000.0, daily[1].Revenue)

	weekly := ComputeTimeSeriesMetrics(fixtureTracking(), PeriodWeekly)
	assert.Len(t, weekly, 2)
	assert.Equal(t, 1900.0, weekly[0].Revenue)
	assert.Equal(t, int64(4), weekly[0].Orders)
	assert.Equal(t, 100.0, weekly[1].Revenue)

	monthly := ComputeTimeSeriesMetrics(fixtureTracking(), PeriodMonthly)
	assert.Len(t, monthly, 1)
	assert.Equal(t, 2000.0, monthly[0].Revenue)
	assert.Equal(t, int64(5), monthly[0].Orders)
	assert.InDelta(t, 400.0, monthly[0].AvgOrderValue.Value, 1e-9)
}

func TestComputeTimeSeriesMetricsUnknownPeriodFallsBackToDaily(t *testing.T) {
	rows := ComputeTimeSeriesMetrics(fixtureTracking(), "hourly")
	assert.Len(t, rows, 3)
}
