package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	U "campaigniq/util"
)

// Filters restricts the raw datasets before joining. Every field is
// optional; absence means no restriction. Dates are inclusive.
type Filters struct {
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Platforms  []string   `json:"platforms,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Campaigns  []string   `json:"campaigns,omitempty"`
}

func (f *Filters) matchesDate(t time.Time) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

func (f *Filters) matchesPlatform(platform string) bool {
	return len(f.Platforms) == 0 || U.ContainsStringInArray(f.Platforms, platform)
}

func (f *Filters) matchesCategory(category string) bool {
	return len(f.Categories) == 0 || U.ContainsStringInArray(f.Categories, category)
}

func (f *Filters) matchesCampaign(campaign string) bool {
	return len(f.Campaigns) == 0 || U.ContainsStringInArray(f.Campaigns, campaign)
}

// MatchesInfluencer applies platform and category restrictions.
func (f *Filters) MatchesInfluencer(influencer *Influencer) bool {
	return f.matchesPlatform(influencer.Platform) && f.matchesCategory(influencer.Category)
}

// MatchesPost applies date and platform restrictions.
func (f *Filters) MatchesPost(post *Post) bool {
	return f.matchesDate(post.PublishDate) && f.matchesPlatform(post.Platform)
}

// MatchesTrackingEvent applies date and campaign restrictions. The
// event's source is an acquisition channel, not the influencer's home
// platform; platform restriction is applied through the influencer.
func (f *Filters) MatchesTrackingEvent(event *TrackingEvent) bool {
	return f.matchesDate(event.EventDate) && f.matchesCampaign(event.Campaign)
}

// Fingerprint is a deterministic cache key component for this filter
// combination. Set order is irrelevant.
func (f *Filters) Fingerprint() string {
	var sb strings.Builder
	if f.From != nil {
		sb.WriteString(fmt.Sprintf("from=%d;", f.From.Unix()))
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf("to=%d;", f.To.Unix()))
	}
	sets := []struct {
		name   string
		values []string
	}{
		{"platforms", f.Platforms},
		{"categories", f.Categories},
		{"campaigns", f.Campaigns},
	}
	for _, s := range sets {
		name, set := s.name, s.values
		if len(set) == 0 {
			continue
		}
		sorted := make([]string, len(set))
		copy(sorted, set)
		sort.Strings(sorted)
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(strings.Join(sorted, ","))
		sb.WriteString(";")
	}
	return sb.String()
}
