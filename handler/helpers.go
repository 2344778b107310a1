package handler

import (
	"net/http"

	M "campaigniq/model"
	U "campaigniq/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// FiltersPayload is the wire form of view filters; dates arrive as the
// date strings the upload formats use, not RFC3339 instants.
type FiltersPayload struct {
	From       string   `json:"from,omitempty"`
	To         string   `json:"to,omitempty"`
	Platforms  []string `json:"platforms,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Campaigns  []string `json:"campaigns,omitempty"`
}

// toFilters parses the payload's date bounds.
func (p *FiltersPayload) toFilters() (*M.Filters, error) {
	filters := &M.Filters{
		Platforms:  p.Platforms,
		Categories: p.Categories,
		Campaigns:  p.Campaigns,
	}
	if p.From != "" {
		from, err := U.ParseDate(p.From)
		if err != nil {
			return nil, errors.Wrap(err, "invalid 'from' date")
		}
		filters.From = &from
	}
	if p.To != "" {
		to, err := U.ParseDate(p.To)
		if err != nil {
			return nil, errors.Wrap(err, "invalid 'to' date")
		}
		filters.To = &to
	}
	return filters, nil
}

// getSessionOrAbort resolves the session path param or writes 404.
func getSessionOrAbort(c *gin.Context) *M.Session {
	session, err := store.GetSession(c.Param("session_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Invalid session."})
		return nil
	}
	return session
}

// buildUnifiedViewCached memoizes BuildUnifiedView per (dataset
// version, filter fingerprint). The engine itself never caches; the
// memo lives here at the presentation boundary.
func buildUnifiedViewCached(session *M.Session, filters *M.Filters) *M.UnifiedView {
	if filters == nil {
		filters = &M.Filters{}
	}
	cacheKey := session.Version + "|" + filters.Fingerprint()
	if cached, exists := viewCache.Get(cacheKey); exists {
		return cached.(*M.UnifiedView)
	}

	view := M.BuildUnifiedView(session.Influencers, session.Posts,
		session.Tracking, session.Payouts, filters)
	viewCache.Add(cacheKey, view)
	return view
}
