package config

import (
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

// Engine defaults. Overridable per deployment through InitConf and the
// CAMPAIGNIQ_* environment, never silently per request: bad request
// level overrides are rejected at the call boundary instead.
const (
	DefaultAttributionHalfLifeDays = 7.0
	DefaultOrganicConversionRate   = 0.0
	DefaultMaxViolationRows        = 25
	DefaultUnifiedViewCacheSize    = 64
)

// ScoreWeightsConf holds the composite score weights. Equal weighting
// across the four metrics unless configured otherwise.
type ScoreWeightsConf struct {
	Engagement      float64 `json:"engagement" default:"0.25"`
	Conversion      float64 `json:"conversion" default:"0.25"`
	Roas            float64 `json:"roas" default:"0.25"`
	RevenuePerRupee float64 `json:"revenue_per_rupee" default:"0.25"`
}

type Configuration struct {
	AppName                 string           `json:"app_name" ignored:"true"`
	Env                     string           `json:"env" envconfig:"ENV"`
	Port                    int              `json:"port" envconfig:"PORT"`
	AttributionHalfLifeDays float64          `json:"attribution_half_life_days" envconfig:"ATTRIBUTION_HALF_LIFE_DAYS"`
	OrganicConversionRate   float64          `json:"organic_conversion_rate" envconfig:"ORGANIC_CONVERSION_RATE"`
	MaxViolationRows        int              `json:"max_violation_rows" envconfig:"MAX_VIOLATION_ROWS"`
	UnifiedViewCacheSize    int              `json:"unified_view_cache_size" envconfig:"UNIFIED_VIEW_CACHE_SIZE"`
	ScoreWeights            ScoreWeightsConf `json:"score_weights" ignored:"true"`
	AllowedOrigins          []string         `json:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

var configuration *Configuration = nil
var confMutex sync.Mutex

// InitConf initialises the package level configuration, fills defaults
// for zero values and applies CAMPAIGNIQ_* environment overrides.
func InitConf(config *Configuration) error {
	confMutex.Lock()
	defer confMutex.Unlock()

	if config == nil {
		return errors.New("nil configuration")
	}

	if err := envconfig.Process("campaigniq", config); err != nil {
		return errors.Wrap(err, "failed to process env configuration")
	}

	if config.Env == "" {
		config.Env = DEVELOPMENT
	}
	if config.AttributionHalfLifeDays == 0 {
		config.AttributionHalfLifeDays = DefaultAttributionHalfLifeDays
	}
	if config.AttributionHalfLifeDays < 0 {
		return errors.Errorf("invalid attribution half life %v", config.AttributionHalfLifeDays)
	}
	if config.OrganicConversionRate < 0 || config.OrganicConversionRate > 1 {
		return errors.Errorf("organic conversion rate %v out of [0, 1]", config.OrganicConversionRate)
	}
	if config.MaxViolationRows <= 0 {
		config.MaxViolationRows = DefaultMaxViolationRows
	}
	if config.UnifiedViewCacheSize <= 0 {
		config.UnifiedViewCacheSize = DefaultUnifiedViewCacheSize
	}
	emptyWeights := ScoreWeightsConf{}
	if config.ScoreWeights == emptyWeights {
		config.ScoreWeights = ScoreWeightsConf{
			Engagement: 0.25, Conversion: 0.25, Roas: 0.25, RevenuePerRupee: 0.25}
	}

	configuration = config
	initLogging()
	return nil
}

func initLogging() {
	if IsDevelopment() {
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func GetConfig() *Configuration {
	if configuration == nil {
		// Fallback for tests that use the engine without the server.
		defaultConf := &Configuration{AppName: "test"}
		if err := InitConf(defaultConf); err != nil {
			log.WithError(err).Fatal("Failed to initialize default configuration.")
		}
	}
	return configuration
}

func IsDevelopment() bool {
	return strings.Compare(configuration.Env, DEVELOPMENT) == 0
}
