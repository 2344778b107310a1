package model

import (
	"sort"
)

// UnifiedRecord is one row per (influencer, campaign) pairing, the
// join output consumed by all downstream calculators. Post metrics and
// payout have no campaign dimension upstream, so they are influencer
// scoped and repeated on each of the influencer's campaign rows;
// rollups count them once per influencer.
type UnifiedRecord struct {
	InfluencerID  string `json:"influencer_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	Platform      string `json:"platform"`
	FollowerCount int64  `json:"follower_count"`

	// Campaign is empty for influencers with no tracked activity.
	Campaign string `json:"campaign,omitempty"`

	// Influencer-scoped post aggregates.
	PostCount int64 `json:"post_count"`
	Reach     int64 `json:"reach"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`

	// Campaign-scoped tracking aggregates.
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`

	// Distinct campaigns the influencer touched.
	CampaignsTouched int `json:"campaigns_touched"`

	// Influencer-scoped payout.
	HasPayout   bool    `json:"has_payout"`
	PayoutBasis string  `json:"payout_basis,omitempty"`
	TotalPayout float64 `json:"total_payout"`
}

// EngagementRate of the record's post aggregates.
func (r *UnifiedRecord) EngagementRate() OptionalFloat {
	return EngagementRate(r.Likes, r.Comments, r.Reach)
}

// ConversionRate of the record, orders over reach proxy.
func (r *UnifiedRecord) ConversionRate() OptionalFloat {
	return ConversionRate(r.Orders, r.Reach)
}

// CostPerAcquisition of the record.
func (r *UnifiedRecord) CostPerAcquisition() OptionalFloat {
	if !r.HasPayout {
		return NullFloat()
	}
	return CostPerAcquisition(r.TotalPayout, r.Orders)
}

// CostPerMille of the record.
func (r *UnifiedRecord) CostPerMille() OptionalFloat {
	if !r.HasPayout {
		return NullFloat()
	}
	return CostPerMille(r.TotalPayout, r.Reach)
}

// RevenuePerRupee of the record.
func (r *UnifiedRecord) RevenuePerRupee() OptionalFloat {
	if !r.HasPayout {
		return NullFloat()
	}
	return RevenuePerRupee(r.Revenue, r.TotalPayout)
}

// OrphanReport counts rows whose influencer_id resolved to no loaded
// influencer. Excluded rows are reported for display, never fatal:
// real marketing exports routinely contain stale ids.
type OrphanReport struct {
	Posts          int      `json:"posts"`
	TrackingEvents int      `json:"tracking_events"`
	Payouts        int      `json:"payouts"`
	UnknownIDs     []string `json:"unknown_ids,omitempty"`
}

func (o *OrphanReport) Total() int {
	return o.Posts + o.TrackingEvents + o.Payouts
}

// UnifiedView is the analysis-ready output of the join: one record per
// (influencer, campaign), the surviving filtered tracking events for
// attribution, and the orphan report.
type UnifiedView struct {
	Records []UnifiedRecord `json:"records"`
	Events  []TrackingEvent `json:"-"`
	Orphans OrphanReport    `json:"orphans"`
}

type postAggregate struct {
	count, reach, likes, comments int64
}

type trackingAggregate struct {
	orders  int64
	revenue float64
}

// BuildUnifiedView filters the raw datasets, groups posts and tracking
// events by influencer (and campaign where present), left-joins onto
// the influencer set and left-joins payouts. Influencers with no
// activity still appear with zero-filled metrics.
func BuildUnifiedView(influencers []Influencer, posts []Post, tracking []TrackingEvent,
	payouts []Payout, filters *Filters) *UnifiedView {

	if filters == nil {
		filters = &Filters{}
	}

	knownIDs := make(map[string]bool, len(influencers))
	for i := range influencers {
		knownIDs[influencers[i].ID] = true
	}

	selected := make(map[string]*Influencer)
	selectedIDs := make([]string, 0, len(influencers))
	for i := range influencers {
		influencer := &influencers[i]
		if _, seen := selected[influencer.ID]; seen {
			continue
		}
		if filters.MatchesInfluencer(influencer) {
			selected[influencer.ID] = influencer
			selectedIDs = append(selectedIDs, influencer.ID)
		}
	}
	sort.Strings(selectedIDs)

	view := &UnifiedView{}
	unknown := make(map[string]bool)

	postAggs := make(map[string]*postAggregate)
	for i := range posts {
		post := &posts[i]
		if !knownIDs[post.InfluencerID] {
			view.Orphans.Posts++
			unknown[post.InfluencerID] = true
			continue
		}
		if _, included := selected[post.InfluencerID]; !included || !filters.MatchesPost(post) {
			continue
		}
		agg := postAggs[post.InfluencerID]
		if agg == nil {
			agg = &postAggregate{}
			postAggs[post.InfluencerID] = agg
		}
		agg.count++
		agg.reach += post.Reach
		agg.likes += post.Likes
		agg.comments += post.Comments
	}

	trackingAggs := make(map[string]map[string]*trackingAggregate)
	for i := range tracking {
		event := &tracking[i]
		if !knownIDs[event.InfluencerID] {
			view.Orphans.TrackingEvents++
			unknown[event.InfluencerID] = true
			continue
		}
		if _, included := selected[event.InfluencerID]; !included || !filters.MatchesTrackingEvent(event) {
			continue
		}
		byCampaign := trackingAggs[event.InfluencerID]
		if byCampaign == nil {
			byCampaign = make(map[string]*trackingAggregate)
			trackingAggs[event.InfluencerID] = byCampaign
		}
		agg := byCampaign[event.Campaign]
		if agg == nil {
			agg = &trackingAggregate{}
			byCampaign[event.Campaign] = agg
		}
		agg.orders += event.Orders
		agg.revenue += event.Revenue
		view.Events = append(view.Events, *event)
	}

	payoutByID := make(map[string]*Payout)
	for i := range payouts {
		payout := &payouts[i]
		if !knownIDs[payout.InfluencerID] {
			view.Orphans.Payouts++
			unknown[payout.InfluencerID] = true
			continue
		}
		// At most one payout per influencer is assumed; keep the first.
		if _, exists := payoutByID[payout.InfluencerID]; !exists {
			payoutByID[payout.InfluencerID] = payout
		}
	}

	for id := range unknown {
		view.Orphans.UnknownIDs = append(view.Orphans.UnknownIDs, id)
	}
	sort.Strings(view.Orphans.UnknownIDs)

	for _, id := range selectedIDs {
		influencer := selected[id]
		base := UnifiedRecord{
			InfluencerID:  influencer.ID,
			Name:          influencer.Name,
			Category:      influencer.Category,
			Gender:        influencer.Gender,
			Platform:      influencer.Platform,
			FollowerCount: influencer.FollowerCount,
		}
		if agg := postAggs[id]; agg != nil {
			base.PostCount = agg.count
			base.Reach = agg.reach
			base.Likes = agg.likes
			base.Comments = agg.comments
		}
		if payout := payoutByID[id]; payout != nil {
			base.HasPayout = true
			base.PayoutBasis = payout.Basis
			base.TotalPayout = payout.TotalPayout
		}

		byCampaign := trackingAggs[id]
		if len(byCampaign) == 0 {
			view.Records = append(view.Records, base)
			continue
		}
		campaigns := make([]string, 0, len(byCampaign))
		for campaign := range byCampaign {
			campaigns = append(campaigns, campaign)
		}
		sort.Strings(campaigns)
		for _, campaign := range campaigns {
			record := base
			record.Campaign = campaign
			record.Orders = byCampaign[campaign].orders
			record.Revenue = byCampaign[campaign].revenue
			record.CampaignsTouched = len(campaigns)
			view.Records = append(view.Records, record)
		}
	}
	return view
}

// RollupByInfluencer folds campaign rows back to one record per
// influencer. Post aggregates and payout are taken once; orders and
// revenue are summed across campaigns.
func (v *UnifiedView) RollupByInfluencer() []UnifiedRecord {
	rollups := make([]UnifiedRecord, 0, len(v.Records))
	index := make(map[string]int)
	for i := range v.Records {
		record := &v.Records[i]
		at, seen := index[record.InfluencerID]
		if !seen {
			rollup := *record
			rollup.Campaign = ""
			rollups = append(rollups, rollup)
			index[record.InfluencerID] = len(rollups) - 1
			continue
		}
		rollups[at].Orders += record.Orders
		rollups[at].Revenue += record.Revenue
	}
	return rollups
}

// GroupRollup is an aggregate over a set of influencers sharing a key.
type GroupRollup struct {
	Key         string  `json:"key"`
	Influencers int     `json:"influencers"`
	PostCount   int64   `json:"post_count"`
	Reach       int64   `json:"reach"`
	Likes       int64   `json:"likes"`
	Comments    int64   `json:"comments"`
	Orders      int64   `json:"orders"`
	Revenue     float64 `json:"revenue"`
	TotalPayout float64 `json:"total_payout"`
	HasPayout   bool    `json:"has_payout"`
}

// RollupByPlatform groups influencer rollups by home platform. Keys
// are returned in ascending order.
func (v *UnifiedView) RollupByPlatform() []GroupRollup {
	groups := make(map[string]*GroupRollup)
	for _, rollup := range v.RollupByInfluencer() {
		group := groups[rollup.Platform]
		if group == nil {
			group = &GroupRollup{Key: rollup.Platform}
			groups[rollup.Platform] = group
		}
		group.Influencers++
		group.PostCount += rollup.PostCount
		group.Reach += rollup.Reach
		group.Likes += rollup.Likes
		group.Comments += rollup.Comments
		group.Orders += rollup.Orders
		group.Revenue += rollup.Revenue
		if rollup.HasPayout {
			group.TotalPayout += rollup.TotalPayout
			group.HasPayout = true
		}
	}
	return sortedGroups(groups)
}

// RollupByCampaign groups campaign rows by campaign. An influencer's
// payout is split equally across their campaigns so campaign costs do
// not double count.
func (v *UnifiedView) RollupByCampaign() []GroupRollup {
	groups := make(map[string]*GroupRollup)
	for i := range v.Records {
		record := &v.Records[i]
		if record.Campaign == "" {
			continue
		}
		group := groups[record.Campaign]
		if group == nil {
			group = &GroupRollup{Key: record.Campaign}
			groups[record.Campaign] = group
		}
		group.Influencers++
		group.Orders += record.Orders
		group.Revenue += record.Revenue
		if record.HasPayout && record.CampaignsTouched > 0 {
			group.TotalPayout += record.TotalPayout / float64(record.CampaignsTouched)
			group.HasPayout = true
		}
	}
	return sortedGroups(groups)
}

func sortedGroups(groups map[string]*GroupRollup) []GroupRollup {
	out := make([]GroupRollup, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
