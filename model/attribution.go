package model

import (
	"sort"

	"github.com/pkg/errors"
)

// Selectable attribution methods.
const (
	AttributionMethodFirstTouch = "First_Touch"
	AttributionMethodLastTouch  = "Last_Touch"
	AttributionMethodLinear     = "Linear"
	AttributionMethodTimeDecay  = "Time_Decay"
)

// AttributionMethods lists the selectable methods in display order.
var AttributionMethods = []string{
	AttributionMethodFirstTouch,
	AttributionMethodLastTouch,
	AttributionMethodLinear,
	AttributionMethodTimeDecay,
}

// AttributionConfig carries the method parameters. HalfLifeDays only
// applies to Time_Decay.
type AttributionConfig struct {
	HalfLifeDays float64 `json:"half_life_days"`
}

// ValidateAttributionInputs rejects bad method names and non-positive
// half lives at the call boundary, before any computation starts.
func ValidateAttributionInputs(method string, config AttributionConfig) error {
	found := false
	for _, m := range AttributionMethods {
		if m == method {
			found = true
			break
		}
	}
	if !found {
		return errors.Wrapf(ErrUnknownAttributionType, "%q", method)
	}
	if method == AttributionMethodTimeDecay && config.HalfLifeDays <= 0 {
		return errors.Wrapf(ErrInvalidHalfLife, "%v", config.HalfLifeDays)
	}
	return nil
}

// JourneyTouchpoint is one tracking event inside a user journey.
// InsertionIndex is the event's position in the uploaded table and is
// the deterministic tie-break for identical timestamps.
type JourneyTouchpoint struct {
	Event          TrackingEvent
	InsertionIndex int
}

// Journey is the time-ordered sequence of tracking events for one user.
type Journey struct {
	UserID      string
	Touchpoints []JourneyTouchpoint
}

// BuildJourneys groups events by user_id and orders each journey by
// event date, breaking timestamp ties by insertion order so results
// reproduce across runs. Journeys are returned sorted by user id.
func BuildJourneys(events []TrackingEvent) []Journey {
	byUser := make(map[string][]JourneyTouchpoint)
	for i, event := range events {
		byUser[event.UserID] = append(byUser[event.UserID],
			JourneyTouchpoint{Event: event, InsertionIndex: i})
	}

	userIDs := make([]string, 0, len(byUser))
	for userID := range byUser {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	journeys := make([]Journey, 0, len(byUser))
	for _, userID := range userIDs {
		touchpoints := byUser[userID]
		sort.SliceStable(touchpoints, func(i, j int) bool {
			ti, tj := touchpoints[i].Event.EventDate, touchpoints[j].Event.EventDate
			if ti.Equal(tj) {
				return touchpoints[i].InsertionIndex < touchpoints[j].InsertionIndex
			}
			return ti.Before(tj)
		})
		journeys = append(journeys, Journey{UserID: userID, Touchpoints: touchpoints})
	}
	return journeys
}

// AttributionResult is the fractional credit for one touchpoint.
// Weights across a user's journey sum to 1.0.
type AttributionResult struct {
	UserID            string  `json:"user_id"`
	InfluencerID      string  `json:"influencer_id"`
	Campaign          string  `json:"campaign"`
	Source            string  `json:"source"`
	InsertionIndex    int     `json:"-"`
	Weight            float64 `json:"weight"`
	AttributedOrders  float64 `json:"attributed_orders"`
	AttributedRevenue float64 `json:"attributed_revenue"`
}

// ApplyAttribution assigns fractional revenue/order credit to every
// touchpoint of every journey under the selected method. Single-event
// journeys yield weight 1.0 under every method.
func ApplyAttribution(journeys []Journey, method string, config AttributionConfig) ([]AttributionResult, error) {
	if err := ValidateAttributionInputs(method, config); err != nil {
		return nil, err
	}

	var results []AttributionResult
	for _, journey := range journeys {
		if len(journey.Touchpoints) == 0 {
			continue
		}

		var weights []float64
		switch method {
		case AttributionMethodFirstTouch:
			weights = getFirstTouchWeights(journey.Touchpoints)
		case AttributionMethodLastTouch:
			weights = getLastTouchWeights(journey.Touchpoints)
		case AttributionMethodLinear:
			weights = getLinearTouchWeights(journey.Touchpoints)
		case AttributionMethodTimeDecay:
			weights = getTimeDecayWeights(journey.Touchpoints, config.HalfLifeDays)
		}

		for i, touchpoint := range journey.Touchpoints {
			event := touchpoint.Event
			results = append(results, AttributionResult{
				UserID:            journey.UserID,
				InfluencerID:      event.InfluencerID,
				Campaign:          event.Campaign,
				Source:            event.Source,
				InsertionIndex:    touchpoint.InsertionIndex,
				Weight:            weights[i],
				AttributedOrders:  float64(event.Orders) * weights[i],
				AttributedRevenue: event.Revenue * weights[i],
			})
		}
	}
	return results, nil
}

// AttributedTotals is the weighted revenue and order credit folded
// over attribution results.
type AttributedTotals struct {
	Revenue float64 `json:"revenue"`
	Orders  float64 `json:"orders"`
}

// AttributedByInfluencer sums attributed credit per influencer.
func AttributedByInfluencer(results []AttributionResult) map[string]AttributedTotals {
	return sumAttributed(results, func(r *AttributionResult) string { return r.InfluencerID })
}

// AttributedByCampaign sums attributed credit per campaign.
func AttributedByCampaign(results []AttributionResult) map[string]AttributedTotals {
	return sumAttributed(results, func(r *AttributionResult) string { return r.Campaign })
}

// AttributedBySource sums attributed credit per tracking source.
func AttributedBySource(results []AttributionResult) map[string]AttributedTotals {
	return sumAttributed(results, func(r *AttributionResult) string { return r.Source })
}

func sumAttributed(results []AttributionResult, keyOf func(*AttributionResult) string) map[string]AttributedTotals {
	totals := make(map[string]AttributedTotals)
	for i := range results {
		key := keyOf(&results[i])
		total := totals[key]
		total.Revenue += results[i].AttributedRevenue
		total.Orders += results[i].AttributedOrders
		totals[key] = total
	}
	return totals
}
