package handler

import (
	C "campaigniq/config"
	mid "campaigniq/middleware"
	M "campaigniq/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

var store *M.SessionStore

// viewCache memoizes unified views on (dataset version, filter
// fingerprint). Uploads bump the version, so stale entries age out of
// the LRU without invalidation bookkeeping.
var viewCache *lru.Cache

// InitAppRoutes wires the analytics API onto the engine.
func InitAppRoutes(r *gin.Engine) {
	store = M.NewSessionStore()

	var err error
	viewCache, err = lru.New(C.GetConfig().UnifiedViewCacheSize)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize unified view cache.")
	}

	// CORS
	if C.IsDevelopment() {
		log.Info("Running in development.")
		config := cors.DefaultConfig()
		config.AllowOrigins = []string{"http://localhost:8080",
			"http://localhost:3000"}
		r.Use(cors.New(config))
	} else if origins := C.GetConfig().AllowedOrigins; len(origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = origins
		r.Use(cors.New(config))
	}

	r.Use(mid.SetScopeRequestId())
	r.Use(mid.RequestLogger())

	r.GET("/status", StatusHandler)
	r.POST("/sessions", CreateSessionHandler)
	r.GET("/sessions/:session_id/status", SessionStatusHandler)
	r.POST("/sessions/:session_id/datasets/:kind", UploadDatasetHandler)
	r.POST("/sessions/:session_id/unified", UnifiedViewHandler)
	r.POST("/sessions/:session_id/attribution", AttributionHandler)
	r.POST("/sessions/:session_id/scores", ScoreHandler)
	r.GET("/sessions/:session_id/platforms", PlatformPerformanceHandler)
	r.POST("/sessions/:session_id/timeseries", TimeSeriesHandler)
	r.GET("/sessions/:session_id/export/roi.csv", ExportROICSVHandler)
	r.GET("/sessions/:session_id/export/roi.xlsx", ExportROIXLSXHandler)
}

// StatusHandler is the health endpoint.
func StatusHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "success"})
}
