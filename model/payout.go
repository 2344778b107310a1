package model

import (
	U "campaigniq/util"
)

// Payout is the agreed cost for one influencer. When basis is
// per-order the payout is already-aggregated cost, never recomputed
// from order counts.
type Payout struct {
	InfluencerID string  `json:"influencer_id"`
	Basis        string  `json:"basis"`
	TotalPayout  float64 `json:"total_payout"`
}

// BuildPayouts validates and loads the payouts table with
// skip-and-report semantics, or rejects the whole table in strict mode.
func BuildPayouts(table Table, strict bool, maxViolationRows int) ([]Payout, *ValidationResult, error) {
	result, err := ValidateTable(DatasetPayouts, table, maxViolationRows)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStrict(result, strict); err != nil {
		return nil, result, err
	}
	if hasMissingColumn(result) {
		return []Payout{}, result, nil
	}

	invalid := result.invalidRowSet()
	payouts := make([]Payout, 0, len(table))
	for i, row := range table {
		if invalid[i] {
			continue
		}
		influencerID, _ := U.GetValueAsString(row["influencer_id"])
		basis, _ := U.GetValueAsString(row["basis"])
		totalPayout, _ := U.GetValueAsFloat64(row["total_payout"])
		payouts = append(payouts, Payout{
			InfluencerID: influencerID,
			Basis:        basis,
			TotalPayout:  totalPayout,
		})
	}
	return payouts, result, nil
}
