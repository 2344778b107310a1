package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestScoreInfluencersCompositeAndSegments(t *testing.T) {
	view := fixtureView(nil)
	results, err := ScoreInfluencers(view, DefaultScoreWeights())
	assert.Nil(t, err)
	assert.Len(t, results, 3)

	// Both active influencers share engagement 0.06; that column is
	// degenerate and normalizes to 1.0. Influencer 1 tops the other
	// three metrics and lands at 100; influencer 2 sits at the bottom
	// of each range and keeps only the engagement quarter.
	first := results[0]
	assert.Equal(t, "1", first.InfluencerID)
	assert.Equal(t, 1, first.Rank)
	assert.InDelta(t, 100.0, first.Score, 1e-9)
	assert.Equal(t, SegmentHighPerformer, first.Segment)

	second := results[1]
	assert.Equal(t, "2", second.InfluencerID)
	assert.Equal(t, 2, second.Rank)
	assert.InDelta(t, 25.0, second.Score, 1e-9)
	assert.Equal(t, SegmentLowPerformer, second.Segment)

	third := results[2]
	assert.Equal(t, "3", third.InfluencerID)
	assert.Equal(t, 3, third.Rank)
	assert.Equal(t, 0.0, third.Score)
	assert.Equal(t, SegmentLowPerformer, third.Segment)
	assert.False(t, third.EngagementRate.Valid)
}

func TestScoreInfluencersRenormalizesUndefinedMetrics(t *testing.T) {
	// Without payouts the cost metrics are undefined everywhere; the
	// remaining engagement and conversion weights renormalize instead of
	// dragging every score toward zero.
	view := BuildUnifiedView(fixtureInfluencers(), fixturePosts(), fixtureTracking(), nil, nil)
	results, err := ScoreInfluencers(view, DefaultScoreWeights())
	assert.Nil(t, err)

	assert.Equal(t, "1", results[0].InfluencerID)
	assert.InDelta(t, 100.0, results[0].Score, 1e-9)
	assert.Equal(t, "2", results[1].InfluencerID)
	assert.InDelta(t, 50.0, results[1].Score, 1e-9)
	assert.Equal(t, SegmentMediumPerformer, results[1].Segment)
	assert.False(t, results[1].Roas.Valid)
}

func TestScoreInfluencersTieBreaks(t *testing.T) {
	influencers := []Influencer{
		{ID: "b", Name: "B", Platform: "Instagram"},
		{ID: "a", Name: "A", Platform: "Instagram"},
	}
	view := BuildUnifiedView(influencers, nil, nil, nil, nil)
	results, err := ScoreInfluencers(view, DefaultScoreWeights())
	assert.Nil(t, err)

	// Equal scores and revenue resolve by influencer id.
	assert.Equal(t, "a", results[0].InfluencerID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "b", results[1].InfluencerID)
	assert.Equal(t, 2, results[1].Rank)
}

func TestScoreInfluencersDeterministic(t *testing.T) {
	view := fixtureView(nil)
	first, err := ScoreInfluencers(view, DefaultScoreWeights())
	assert.Nil(t, err)
	second, err := ScoreInfluencers(view, DefaultScoreWeights())
	assert.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestScoreWeightsValidation(t *testing.T) {
	view := fixtureView(nil)

	_, err := ScoreInfluencers(view, ScoreWeights{Engagement: -0.1, Conversion: 0.5})
	assert.Equal(t, ErrInvalidScoreWeights, errors.Cause(err))

	_, err = ScoreInfluencers(view, ScoreWeights{})
	assert.Equal(t, ErrInvalidScoreWeights, errors.Cause(err))

	weights := ScoreWeights{Engagement: 2, Conversion: 2, Roas: 2, RevenuePerRupee: 2}
	assert.Nil(t, weights.Validate())
}
