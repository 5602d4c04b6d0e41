// file: internal/config/config.go
// version: 1.1.0
// guid: f9298505-eb02-4757-9a25-8caded213b95

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	APIBaseURL       string
	R2PublicDomain   string
	AssetsBaseURL    string
	AssetsPathPrefix string

	UpstreamTimeout time.Duration
	CacheTTL        time.Duration

	DownloadRatePerMinute int
	DownloadBurst         int

	TemplateDir string
	DevMode     bool
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("api_base_url", "/")
	viper.SetDefault("upstream_timeout", "15s")
	viper.SetDefault("cache_ttl", "1m")
	viper.SetDefault("download_rate_per_minute", 30)
	viper.SetDefault("download_burst", 5)
	viper.SetDefault("template_dir", "internal/server/templates")

	AppConfig = Config{
		APIBaseURL:            viper.GetString("api_base_url"),
		R2PublicDomain:        viper.GetString("r2_public_domain"),
		AssetsBaseURL:         viper.GetString("assets_base_url"),
		AssetsPathPrefix:      viper.GetString("assets_path_prefix"),
		UpstreamTimeout:       viper.GetDuration("upstream_timeout"),
		CacheTTL:              viper.GetDuration("cache_ttl"),
		DownloadRatePerMinute: viper.GetInt("download_rate_per_minute"),
		DownloadBurst:         viper.GetInt("download_burst"),
		TemplateDir:           viper.GetString("template_dir"),
		DevMode:               viper.GetBool("dev"),
	}

	if AppConfig.APIBaseURL == "" {
		AppConfig.APIBaseURL = "/"
	}
	if AppConfig.UpstreamTimeout <= 0 {
		AppConfig.UpstreamTimeout = 15 * time.Second
	}
	if AppConfig.CacheTTL <= 0 {
		AppConfig.CacheTTL = time.Minute
	}
}
