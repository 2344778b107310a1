package model

import (
	"github.com/pkg/errors"
)

// ROI performance tiers. Records with undefined ROI are bucketed as
// insufficient data, never silently dropped.
const (
	ROITierHigh             = "High"
	ROITierMedium           = "Medium"
	ROITierLow              = "Low"
	ROITierInsufficientData = "Insufficient Data"

	ROITierHighThreshold = 2.0
)

// Baseline revenue sources.
const (
	BaselineSourceCaller  = "caller_supplied"
	BaselineSourceOrganic = "organic_heuristic"
)

// BaselineConfig controls the incremental-ROAS baseline: revenue the
// influencer activity is assumed to not have caused. Either a caller
// supplied per-influencer estimate or the organic-conversion heuristic
// applied to reach. In both cases the baseline is an estimate, not a
// measured causal effect.
type BaselineConfig struct {
	OrganicConversionRate float64            `json:"organic_conversion_rate"`
	PerInfluencerRevenue  map[string]float64 `json:"per_influencer_revenue,omitempty"`
}

// Validate rejects baselines outside [0, 1] and negative revenue
// estimates before computation starts.
func (b *BaselineConfig) Validate() error {
	if b.OrganicConversionRate < 0 || b.OrganicConversionRate > 1 {
		return errors.Wrapf(ErrInvalidBaseline, "%v", b.OrganicConversionRate)
	}
	for id, revenue := range b.PerInfluencerRevenue {
		if revenue < 0 {
			return errors.Wrapf(ErrInvalidBaseline, "negative baseline revenue for influencer %s", id)
		}
	}
	return nil
}

// ROIResult is the per-influencer profitability outcome under one
// attribution model.
type ROIResult struct {
	InfluencerID string `json:"influencer_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Platform     string `json:"platform"`

	AttributedRevenue float64 `json:"attributed_revenue"`
	AttributedOrders  float64 `json:"attributed_orders"`
	TotalPayout       float64 `json:"total_payout"`
	HasPayout         bool    `json:"has_payout"`

	// BaselineRevenue is always an estimate; BaselineSource says whose.
	BaselineRevenue float64 `json:"baseline_revenue"`
	BaselineSource  string  `json:"baseline_source"`

	ROI             OptionalFloat `json:"roi"`
	ROAS            OptionalFloat `json:"roas"`
	IncrementalROAS OptionalFloat `json:"incremental_roas"`
	Tier            string        `json:"tier"`
}

// TierForROI buckets a possibly-undefined ROI into a performance tier.
func TierForROI(roi OptionalFloat) string {
	if !roi.Valid {
		return ROITierInsufficientData
	}
	switch {
	case roi.Value >= ROITierHighThreshold:
		return ROITierHigh
	case roi.Value >= 0:
		return ROITierMedium
	default:
		return ROITierLow
	}
}

// ComputeROI aggregates attributed revenue against payout cost per
// influencer. ROI and ROAS are undefined, not zero or infinity, when
// payout cost is zero or absent.
func ComputeROI(view *UnifiedView, attributed map[string]AttributedTotals,
	baseline BaselineConfig) ([]ROIResult, error) {

	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	rollups := view.RollupByInfluencer()
	results := make([]ROIResult, 0, len(rollups))
	for i := range rollups {
		rollup := &rollups[i]
		totals := attributed[rollup.InfluencerID]

		result := ROIResult{
			InfluencerID:      rollup.InfluencerID,
			Name:              rollup.Name,
			Category:          rollup.Category,
			Platform:          rollup.Platform,
			AttributedRevenue: totals.Revenue,
			AttributedOrders:  totals.Orders,
			TotalPayout:       rollup.TotalPayout,
			HasPayout:         rollup.HasPayout,
		}

		if estimate, supplied := baseline.PerInfluencerRevenue[rollup.InfluencerID]; supplied {
			result.BaselineRevenue = estimate
			result.BaselineSource = BaselineSourceCaller
		} else {
			result.BaselineRevenue = organicBaselineRevenue(rollup, baseline.OrganicConversionRate)
			result.BaselineSource = BaselineSourceOrganic
		}

		if result.HasPayout && result.TotalPayout > 0 {
			result.ROI = OptFloat((totals.Revenue - result.TotalPayout) / result.TotalPayout)
			result.ROAS = OptFloat(totals.Revenue / result.TotalPayout)
			result.IncrementalROAS = OptFloat((totals.Revenue - result.BaselineRevenue) / result.TotalPayout)
		}
		result.Tier = TierForROI(result.ROI)
		results = append(results, result)
	}
	return results, nil
}

// organicBaselineRevenue estimates the revenue an influencer's reach
// would have produced organically: organic conversion rate applied to
// reach, valued at the influencer's observed average order value.
func organicBaselineRevenue(rollup *UnifiedRecord, organicConversionRate float64) float64 {
	if rollup.Orders == 0 {
		return 0
	}
	avgOrderValue := rollup.Revenue / float64(rollup.Orders)
	return organicConversionRate * float64(rollup.Reach) * avgOrderValue
}

// ComputeAttributionAndROI is the composed entry point: build journeys
// from the view's surviving events, attribute credit under the chosen
// model, then fold into per-influencer ROI.
func ComputeAttributionAndROI(view *UnifiedView, method string, attributionConfig AttributionConfig,
	baseline BaselineConfig) ([]ROIResult, []AttributionResult, error) {

	journeys := BuildJourneys(view.Events)
	attributionResults, err := ApplyAttribution(journeys, method, attributionConfig)
	if err != nil {
		return nil, nil, err
	}
	roiResults, err := ComputeROI(view, AttributedByInfluencer(attributionResults), baseline)
	if err != nil {
		return nil, nil, err
	}
	return roiResults, attributionResults, nil
}
