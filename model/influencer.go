package model

import (
	U "campaigniq/util"
)

// Influencer is one creator enrolled in a campaign. Immutable once
// loaded for the session.
type Influencer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	FollowerCount int64  `json:"follower_count"`
	Platform      string `json:"platform"`
}

// BuildInfluencers validates and loads the influencers table. In
// non-strict mode rows with violations are skipped and reported; in
// strict mode any violation rejects the whole table.
func BuildInfluencers(table Table, strict bool, maxViolationRows int) ([]Influencer, *ValidationResult, error) {
	result, err := ValidateTable(DatasetInfluencers, table, maxViolationRows)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStrict(result, strict); err != nil {
		return nil, result, err
	}
	if hasMissingColumn(result) {
		// No row carries the full contract; nothing loadable.
		return []Influencer{}, result, nil
	}

	invalid := result.invalidRowSet()
	influencers := make([]Influencer, 0, len(table))
	for i, row := range table {
		if invalid[i] {
			continue
		}
		id, _ := U.GetValueAsString(row["id"])
		name, _ := U.GetValueAsString(row["name"])
		category, _ := U.GetValueAsString(row["category"])
		gender, _ := U.GetValueAsString(row["gender"])
		followerCount, _ := U.GetValueAsInt64(row["follower_count"])
		platform, _ := U.GetValueAsString(row["platform"])
		influencers = append(influencers, Influencer{
			ID:            id,
			Name:          name,
			Category:      category,
			Gender:        gender,
			FollowerCount: followerCount,
			Platform:      platform,
		})
	}
	return influencers, result, nil
}
