package main

import (
	"flag"
	"strconv"
	"strings"

	C "campaigniq/config"
	H "campaigniq/handler"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --api_http_port=8080 --attribution_half_life_days=7 --organic_conversion_rate=0.02
func main() {
	env := flag.String("env", "development", "")
	port := flag.Int("api_http_port", 8080, "")

	attributionHalfLifeDays := flag.Float64("attribution_half_life_days", 0,
		"Default half life in days for the Time_Decay attribution model")
	organicConversionRate := flag.Float64("organic_conversion_rate", 0,
		"Heuristic organic conversion rate for the incremental ROAS baseline estimate")
	maxViolationRows := flag.Int("max_violation_rows", 0,
		"Cap on offending row indices reported per schema violation")
	unifiedViewCacheSize := flag.Int("unified_view_cache_size", 0,
		"LRU size for memoized unified views")
	allowedOrigins := flag.String("allowed_origins", "",
		"Comma separated list of allowed CORS origins outside development")
	flag.Parse()

	config := &C.Configuration{
		AppName:                 "app_server",
		Env:                     *env,
		Port:                    *port,
		AttributionHalfLifeDays: *attributionHalfLifeDays,
		OrganicConversionRate:   *organicConversionRate,
		MaxViolationRows:        *maxViolationRows,
		UnifiedViewCacheSize:    *unifiedViewCacheSize,
	}
	if *allowedOrigins != "" {
		config.AllowedOrigins = strings.Split(*allowedOrigins, ",")
	}

	if err := C.InitConf(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	H.InitAppRoutes(r)

	log.WithFields(log.Fields{"port": config.Port, "env": config.Env}).Info("Starting server.")
	if err := r.Run(":" + strconv.Itoa(config.Port)); err != nil {
		log.WithError(err).Fatal("Failed to start server.")
	}
}
