package handler

import (
	"encoding/json"
	"net/http"

	C "campaigniq/config"
	mid "campaigniq/middleware"
	M "campaigniq/model"
	U "campaigniq/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type attributionPayload struct {
	Method       string            `json:"method"`
	HalfLifeDays float64           `json:"half_life_days,omitempty"`
	Baseline     *M.BaselineConfig `json:"baseline,omitempty"`
	Filters      FiltersPayload    `json:"filters"`
}

// AttributionHandler attributes conversion credit under the selected
// model and folds it into per-influencer ROI. Configuration errors are
// fatal to the call; they never fall back to defaults.
func AttributionHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	var payload attributionPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		logCtx.WithError(err).Error("Attribution failed. Json decode failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Attribution failed. Json decode failed."})
		return
	}
	filters, err := payload.Filters.toFilters()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attributionConfig := M.AttributionConfig{HalfLifeDays: payload.HalfLifeDays}
	if payload.HalfLifeDays == 0 {
		attributionConfig.HalfLifeDays = C.GetConfig().AttributionHalfLifeDays
	}
	baseline := M.BaselineConfig{OrganicConversionRate: C.GetConfig().OrganicConversionRate}
	if payload.Baseline != nil {
		baseline = *payload.Baseline
	}

	view := buildUnifiedViewCached(session, filters)
	roiResults, attributionResults, err := M.ComputeAttributionAndROI(view,
		payload.Method, attributionConfig, baseline)
	if err != nil {
		if errors.Cause(err) == M.ErrUnknownAttributionType ||
			errors.Cause(err) == M.ErrInvalidHalfLife ||
			errors.Cause(err) == M.ErrInvalidBaseline {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logCtx.WithError(err).Error("Attribution failed. Query execution failed.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Attribution failed. Query execution failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method":      payload.Method,
		"roi":         roiResults,
		"touchpoints": attributionResults,
		"orphans":     view.Orphans,
		"by_campaign": M.AttributedByCampaign(attributionResults),
		"by_source":   M.AttributedBySource(attributionResults),
	})
}
