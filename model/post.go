package model

import (
	"time"

	U "campaigniq/util"
)

// Post is one published piece of content. Many posts per influencer.
type Post struct {
	InfluencerID string    `json:"influencer_id"`
	Platform     string    `json:"platform"`
	PublishDate  time.Time `json:"date"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption"`
	Reach        int64     `json:"reach"`
	Likes        int64     `json:"likes"`
	Comments     int64     `json:"comments"`
}

// BuildPosts validates and loads the posts table with skip-and-report
// semantics, or rejects the whole table in strict mode.
func BuildPosts(table Table, strict bool, maxViolationRows int) ([]Post, *ValidationResult, error) {
	result, err := ValidateTable(DatasetPosts, table, maxViolationRows)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStrict(result, strict); err != nil {
		return nil, result, err
	}
	if hasMissingColumn(result) {
		return []Post{}, result, nil
	}

	invalid := result.invalidRowSet()
	posts := make([]Post, 0, len(table))
	for i, row := range table {
		if invalid[i] {
			continue
		}
		influencerID, _ := U.GetValueAsString(row["influencer_id"])
		platform, _ := U.GetValueAsString(row["platform"])
		publishDate, _ := U.ParseDate(row["date"])
		url, _ := U.GetValueAsString(row["url"])
		caption, _ := U.GetValueAsString(row["caption"])
		reach, _ := U.GetValueAsInt64(row["reach"])
		likes, _ := U.GetValueAsInt64(row["likes"])
		comments, _ := U.GetValueAsInt64(row["comments"])
		posts = append(posts, Post{
			InfluencerID: influencerID,
			Platform:     platform,
			PublishDate:  publishDate,
			URL:          url,
			Caption:      caption,
			Reach:        reach,
			Likes:        likes,
			Comments:     comments,
		})
	}
	return posts, result, nil
}
