package model

import (
	"sort"

	"github.com/pkg/errors"
)

// Performance segments for the composite score.
const (
	SegmentHighPerformer   = "High Performer"
	SegmentMediumPerformer = "Medium Performer"
	SegmentLowPerformer    = "Low Performer"

	segmentHighThreshold   = 200.0 / 3.0
	segmentMediumThreshold = 100.0 / 3.0
)

// ScoreWeights weights the four contributing metrics of the composite
// score. Weights need not sum to 1; they are normalized internally.
type ScoreWeights struct {
	Engagement      float64 `json:"engagement"`
	Conversion      float64 `json:"conversion"`
	Roas            float64 `json:"roas"`
	RevenuePerRupee float64 `json:"revenue_per_rupee"`
}

// DefaultScoreWeights is equal weighting across the four metrics.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Engagement: 0.25, Conversion: 0.25, Roas: 0.25, RevenuePerRupee: 0.25}
}

// Validate rejects negative weights and all-zero weight sets.
func (w *ScoreWeights) Validate() error {
	if w.Engagement < 0 || w.Conversion < 0 || w.Roas < 0 || w.RevenuePerRupee < 0 {
		return errors.Wrap(ErrInvalidScoreWeights, "negative weight")
	}
	if w.Engagement+w.Conversion+w.Roas+w.RevenuePerRupee <= 0 {
		return errors.Wrap(ErrInvalidScoreWeights, "zero weight sum")
	}
	return nil
}

// ScoreResult is the composite 0..100 score and segment label for one
// influencer, with the contributing raw metrics for display.
type ScoreResult struct {
	InfluencerID string `json:"influencer_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Platform     string `json:"platform"`
	Rank         int    `json:"rank"`

	Score   float64 `json:"score"`
	Segment string  `json:"segment"`
	Revenue float64 `json:"revenue"`

	EngagementRate  OptionalFloat `json:"engagement_rate"`
	ConversionRate  OptionalFloat `json:"conversion_rate"`
	Roas            OptionalFloat `json:"roas"`
	RevenuePerRupee OptionalFloat `json:"revenue_per_rupee"`
}

// metricColumn is one contributing metric across the scored set.
type metricColumn struct {
	weight float64
	values []OptionalFloat
}

// ScoreInfluencers min-max normalizes each contributing metric over
// the current filtered record set, weights them into a 0..100
// composite and labels performance segments. Undefined source values
// are excluded from the min/max and from that influencer's weighted
// sum, with remaining weights renormalized so scores stay comparable.
// Ranking is stable: score desc, total revenue desc, influencer id asc.
func ScoreInfluencers(view *UnifiedView, weights ScoreWeights) ([]ScoreResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	rollups := view.RollupByInfluencer()
	results := make([]ScoreResult, 0, len(rollups))
	for i := range rollups {
		rollup := &rollups[i]
		roas := NullFloat()
		if rollup.HasPayout && rollup.TotalPayout > 0 {
			roas = OptFloat(rollup.Revenue / rollup.TotalPayout)
		}
		results = append(results, ScoreResult{
			InfluencerID:    rollup.InfluencerID,
			Name:            rollup.Name,
			Category:        rollup.Category,
			Platform:        rollup.Platform,
			Revenue:         rollup.Revenue,
			EngagementRate:  rollup.EngagementRate(),
			ConversionRate:  rollup.ConversionRate(),
			Roas:            roas,
			RevenuePerRupee: rollup.RevenuePerRupee(),
		})
	}

	columns := []metricColumn{
		{weight: weights.Engagement, values: collect(results, func(r *ScoreResult) OptionalFloat { return r.EngagementRate })},
		{weight: weights.Conversion, values: collect(results, func(r *ScoreResult) OptionalFloat { return r.ConversionRate })},
		{weight: weights.Roas, values: collect(results, func(r *ScoreResult) OptionalFloat { return r.Roas })},
		{weight: weights.RevenuePerRupee, values: collect(results, func(r *ScoreResult) OptionalFloat { return r.RevenuePerRupee })},
	}

	normalized := make([][]OptionalFloat, len(columns))
	for c, column := range columns {
		normalized[c] = minMaxNormalize(column.values)
	}

	for i := range results {
		weightedSum := 0.0
		weightTotal := 0.0
		for c, column := range columns {
			value := normalized[c][i]
			if !value.Valid || column.weight == 0 {
				continue
			}
			weightedSum += column.weight * value.Value
			weightTotal += column.weight
		}
		if weightTotal > 0 {
			results[i].Score = weightedSum / weightTotal * 100
		}
		results[i].Segment = segmentForScore(results[i].Score)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Revenue != results[j].Revenue {
			return results[i].Revenue > results[j].Revenue
		}
		return results[i].InfluencerID < results[j].InfluencerID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func collect(results []ScoreResult, metricOf func(*ScoreResult) OptionalFloat) []OptionalFloat {
	values := make([]OptionalFloat, len(results))
	for i := range results {
		values[i] = metricOf(&results[i])
	}
	return values
}

// minMaxNormalize maps defined values to 0..1 over their observed
// range. A degenerate range (all defined values equal) normalizes to
// 1.0 for every defined value.
func minMaxNormalize(values []OptionalFloat) []OptionalFloat {
	min, max := 0.0, 0.0
	seen := false
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if !seen || v.Value < min {
			min = v.Value
		}
		if !seen || v.Value > max {
			max = v.Value
		}
		seen = true
	}

	out := make([]OptionalFloat, len(values))
	for i, v := range values {
		if !v.Valid {
			out[i] = NullFloat()
			continue
		}
		if max == min {
			out[i] = OptFloat(1)
			continue
		}
		out[i] = OptFloat((v.Value - min) / (max - min))
	}
	return out
}

func segmentForScore(score float64) string {
	switch {
	case score >= segmentHighThreshold:
		return SegmentHighPerformer
	case score >= segmentMediumThreshold:
		return SegmentMediumPerformer
	default:
		return SegmentLowPerformer
	}
}
