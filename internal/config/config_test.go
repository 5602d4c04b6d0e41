// file: internal/config/config_test.go
// version: 1.0.0
// guid: c0b50ae3-5361-4815-8f0e-5318822f0a34

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	InitConfig()

	assert.Equal(t, "/", AppConfig.APIBaseURL)
	assert.Equal(t, 15*time.Second, AppConfig.UpstreamTimeout)
	assert.Equal(t, time.Minute, AppConfig.CacheTTL)
	assert.Equal(t, 30, AppConfig.DownloadRatePerMinute)
	assert.Equal(t, "internal/server/templates", AppConfig.TemplateDir)
}

func TestInitConfigOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("api_base_url", "https://api.example.org")
	viper.Set("r2_public_domain", "https://covers.example.org")
	viper.Set("upstream_timeout", "5s")
	InitConfig()

	assert.Equal(t, "https://api.example.org", AppConfig.APIBaseURL)
	assert.Equal(t, "https://covers.example.org", AppConfig.R2PublicDomain)
	assert.Equal(t, 5*time.Second, AppConfig.UpstreamTimeout)
}

func TestInitConfigEmptyBaseURLFallsBack(t *testing.T) {
	viper.Reset()
	viper.Set("api_base_url", "")
	InitConfig()

	assert.Equal(t, "/", AppConfig.APIBaseURL)
}
