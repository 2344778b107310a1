package model

import (
	"time"

	U "campaigniq/util"
)

// TrackingEvent is one attributable conversion event. A user may have
// multiple events across touchpoints forming a journey.
type TrackingEvent struct {
	Source       string    `json:"source"`
	Campaign     string    `json:"campaign"`
	InfluencerID string    `json:"influencer_id"`
	UserID       string    `json:"user_id"`
	Product      string    `json:"product"`
	EventDate    time.Time `json:"date"`
	Orders       int64     `json:"orders"`
	Revenue      float64   `json:"revenue"`
}

// BuildTrackingEvents validates and loads the tracking table with
// skip-and-report semantics, or rejects the whole table in strict mode.
func BuildTrackingEvents(table Table, strict bool, maxViolationRows int) ([]TrackingEvent, *ValidationResult, error) {
	result, err := ValidateTable(DatasetTracking, table, maxViolationRows)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStrict(result, strict); err != nil {
		return nil, result, err
	}
	if hasMissingColumn(result) {
		return []TrackingEvent{}, result, nil
	}

	invalid := result.invalidRowSet()
	events := make([]TrackingEvent, 0, len(table))
	for i, row := range table {
		if invalid[i] {
			continue
		}
		source, _ := U.GetValueAsString(row["source"])
		campaign, _ := U.GetValueAsString(row["campaign"])
		influencerID, _ := U.GetValueAsString(row["influencer_id"])
		userID, _ := U.GetValueAsString(row["user_id"])
		product, _ := U.GetValueAsString(row["product"])
		eventDate, _ := U.ParseDate(row["date"])
		orders, _ := U.GetValueAsInt64(row["orders"])
		revenue, _ := U.GetValueAsFloat64(row["revenue"])
		events = append(events, TrackingEvent{
			Source:       source,
			Campaign:     campaign,
			InfluencerID: influencerID,
			UserID:       userID,
			Product:      product,
			EventDate:    eventDate,
			Orders:       orders,
			Revenue:      revenue,
		})
	}
	return events, result, nil
}
