package handler

import (
	"encoding/json"
	"net/http"

	C "campaigniq/config"
	mid "campaigniq/middleware"
	M "campaigniq/model"
	U "campaigniq/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type unifiedViewPayload struct {
	Filters FiltersPayload `json:"filters"`
}

// UnifiedViewHandler builds the filtered analysis-ready view: one
// record per (influencer, campaign) plus the orphan report.
func UnifiedViewHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	var payload unifiedViewPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		logCtx.WithError(err).Error("Unified view failed. Json decode failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unified view failed. Json decode failed."})
		return
	}
	filters, err := payload.Filters.toFilters()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := buildUnifiedViewCached(session, filters)
	c.JSON(http.StatusOK, view)
}

type scorePayload struct {
	Filters FiltersPayload  `json:"filters"`
	Weights *M.ScoreWeights `json:"weights,omitempty"`
}

// ScoreHandler computes the composite influencer leaderboard. Weights
// default to the configured score weights when omitted.
func ScoreHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	var payload scorePayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		logCtx.WithError(err).Error("Scoring failed. Json decode failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Scoring failed. Json decode failed."})
		return
	}
	filters, err := payload.Filters.toFilters()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weights := configuredScoreWeights()
	if payload.Weights != nil {
		weights = *payload.Weights
	}

	view := buildUnifiedViewCached(session, filters)
	results, err := M.ScoreInfluencers(view, weights)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": results})
}

// PlatformPerformanceHandler reports the per-platform outer join of
// post metrics with tracking metrics.
func PlatformPerformanceHandler(c *gin.Context) {
	session := getSessionOrAbort(c)
	if session == nil {
		return
	}
	rows := M.ComputePlatformPerformance(session.Posts, session.Tracking)
	c.JSON(http.StatusOK, gin.H{"platforms": rows})
}

type timeSeriesPayload struct {
	Period  string         `json:"period"`
	Filters FiltersPayload `json:"filters"`
}

// TimeSeriesHandler buckets the filtered tracking events by period for
// trend analysis.
func TimeSeriesHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	var payload timeSeriesPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		logCtx.WithError(err).Error("Time series failed. Json decode failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Time series failed. Json decode failed."})
		return
	}
	filters, err := payload.Filters.toFilters()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := buildUnifiedViewCached(session, filters)
	rows := M.ComputeTimeSeriesMetrics(view.Events, payload.Period)
	c.JSON(http.StatusOK, gin.H{"series": rows})
}

func configuredScoreWeights() M.ScoreWeights {
	conf := C.GetConfig().ScoreWeights
	return M.ScoreWeights{
		Engagement:      conf.Engagement,
		Conversion:      conf.Conversion,
		Roas:            conf.Roas,
		RevenuePerRupee: conf.RevenuePerRupee,
	}
}
