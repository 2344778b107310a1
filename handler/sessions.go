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

// CreateSessionHandler registers a new, empty analysis session.
func CreateSessionHandler(c *gin.Context) {
	session := store.CreateSession()
	c.JSON(http.StatusCreated, session)
}

// SessionStatusHandler reports upload status, summary stats and the
// cross-dataset integrity report.
func SessionStatusHandler(c *gin.Context) {
	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	status, err := store.Status(session.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Invalid session."})
		return
	}

	response := gin.H{"status": status}
	if status.AllUploaded {
		response["summary"] = M.ComputeSummaryStats(session.Influencers,
			session.Posts, session.Tracking, session.Payouts)
		response["integrity"] = M.ValidateIntegrity(session.Influencers,
			session.Posts, session.Tracking, session.Payouts)
	}
	c.JSON(http.StatusOK, response)
}

type uploadDatasetPayload struct {
	Rows M.Table `json:"rows"`
}

// UploadDatasetHandler validates and loads one dataset into the
// session. Rows with violations are skipped and reported; ?strict=true
// rejects the whole table on any violation.
func UploadDatasetHandler(c *gin.Context) {
	logCtx := log.WithFields(log.Fields{
		"reqId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	session := getSessionOrAbort(c)
	if session == nil {
		return
	}

	kind := c.Param("kind")
	if !M.IsValidDatasetKind(kind) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Upload failed. Unknown dataset kind."})
		return
	}
	strict := c.Query("strict") == "true"

	var payload uploadDatasetPayload
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		logCtx.WithError(err).Error("Upload failed. Json decode failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Upload failed. Json decode failed."})
		return
	}

	maxViolationRows := C.GetConfig().MaxViolationRows
	var validation *M.ValidationResult
	var loaded int
	var err error

	switch kind {
	case M.DatasetInfluencers:
		var influencers []M.Influencer
		influencers, validation, err = M.BuildInfluencers(payload.Rows, strict, maxViolationRows)
		if err == nil {
			loaded = len(influencers)
			err = store.SetDataset(session.ID, kind, influencers)
		}
	case M.DatasetPosts:
		var posts []M.Post
		posts, validation, err = M.BuildPosts(payload.Rows, strict, maxViolationRows)
		if err == nil {
			loaded = len(posts)
			err = store.SetDataset(session.ID, kind, posts)
		}
	case M.DatasetTracking:
		var events []M.TrackingEvent
		events, validation, err = M.BuildTrackingEvents(payload.Rows, strict, maxViolationRows)
		if err == nil {
			loaded = len(events)
			err = store.SetDataset(session.ID, kind, events)
		}
	case M.DatasetPayouts:
		var payouts []M.Payout
		payouts, validation, err = M.BuildPayouts(payload.Rows, strict, maxViolationRows)
		if err == nil {
			loaded = len(payouts)
			err = store.SetDataset(session.ID, kind, payouts)
		}
	}

	if err != nil {
		logCtx.WithError(err).Error("Upload failed. Table rejected.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Upload failed. Table rejected.", "validation": validation})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"validation": validation,
		"loaded":     loaded,
		"skipped":    len(payload.Rows) - loaded,
	})
}
