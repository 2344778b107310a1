package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitConfDefaults(t *testing.T) {
	conf := &Configuration{AppName: "campaigniq_test"}
	assert.Nil(t, InitConf(conf))

	assert.Equal(t, DEVELOPMENT, conf.Env)
	assert.Equal(t, DefaultAttributionHalfLifeDays, conf.AttributionHalfLifeDays)
	assert.Equal(t, DefaultOrganicConversionRate, conf.OrganicConversionRate)
	assert.Equal(t, DefaultMaxViolationRows, conf.MaxViolationRows)
	assert.Equal(t, DefaultUnifiedViewCacheSize, conf.UnifiedViewCacheSize)
	assert.Equal(t, 0.25, conf.ScoreWeights.Engagement)
	assert.Equal(t, 0.25, conf.ScoreWeights.RevenuePerRupee)
	assert.True(t, IsDevelopment())
}

func TestInitConfKeepsExplicitValues(t *testing.T) {
	conf := &Configuration{
		AppName:                 "campaigniq_test",
		Env:                     "staging",
		AttributionHalfLifeDays: 14,
		OrganicConversionRate:   0.002,
		MaxViolationRows:        50,
		ScoreWeights:            ScoreWeightsConf{Engagement: 0.4, Conversion: 0.2, Roas: 0.2, RevenuePerRupee: 0.2},
	}
	assert.Nil(t, InitConf(conf))

	assert.Equal(t, "staging", conf.Env)
	assert.Equal(t, 14.0, conf.AttributionHalfLifeDays)
	assert.Equal(t, 0.002, conf.OrganicConversionRate)
	assert.Equal(t, 50, conf.MaxViolationRows)
	assert.Equal(t, 0.4, conf.ScoreWeights.Engagement)
	assert.False(t, IsDevelopment())

	// Restore development defaults for other tests in the package.
	assert.Nil(t, InitConf(&Configuration{AppName: "campaigniq_test"}))
}

func TestInitConfRejectsInvalidValues(t *testing.T) {
	assert.NotNil(t, InitConf(nil))
	assert.NotNil(t, InitConf(&Configuration{AttributionHalfLifeDays: -1}))
	assert.NotNil(t, InitConf(&Configuration{OrganicConversionRate: -0.5}))
	assert.NotNil(t, InitConf(&Configuration{OrganicConversionRate: 1.5}))
}

func TestGetConfigInitializesLazily(t *testing.T) {
	conf := GetConfig()
	assert.NotNil(t, conf)
	assert.Equal(t, conf, GetConfig())
}
