package model

import (
	"math"

	U "campaigniq/util"
)

// Weight assignment per attribution method. Touchpoints arrive already
// time-ordered with deterministic tie-breaks; every function returns
// one weight per touchpoint summing to 1.0 for a non-empty journey.

// getFirstTouchWeights gives full credit to the earliest touchpoint.
func getFirstTouchWeights(touchpoints []JourneyTouchpoint) []float64 {
	weights := make([]float64, len(touchpoints))
	weights[0] = 1
	return weights
}

// getLastTouchWeights gives full credit to the latest touchpoint.
func getLastTouchWeights(touchpoints []JourneyTouchpoint) []float64 {
	weights := make([]float64, len(touchpoints))
	weights[len(weights)-1] = 1
	return weights
}

// getLinearTouchWeights splits credit equally across the journey.
func getLinearTouchWeights(touchpoints []JourneyTouchpoint) []float64 {
	weights := make([]float64, len(touchpoints))
	for i := range weights {
		weights[i] = 1 / float64(len(weights))
	}
	return weights
}

// getTimeDecayWeights assigns weight proportional to
// 2^(-days/halfLife) where days is the distance from the journey's
// last touchpoint. A touchpoint a full half life earlier receives half
// the credit; weights are then normalized to sum to 1.0.
func getTimeDecayWeights(touchpoints []JourneyTouchpoint, halfLifeDays float64) []float64 {
	weights := make([]float64, len(touchpoints))
	lastTime := touchpoints[len(touchpoints)-1].Event.EventDate

	totalWeight := 0.0
	for i, touchpoint := range touchpoints {
		days := U.DaysBetween(touchpoint.Event.EventDate, lastTime)
		weight := math.Pow(2, -days/halfLifeDays)
		weights[i] = weight
		totalWeight += weight
	}
	for i := range weights {
		weights[i] = weights[i] / totalWeight
	}
	return weights
}
