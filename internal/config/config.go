package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Auth modes for bearer token handling.
const (
	// AuthModeUnverified only decodes token claims without checking the
	// signature. It establishes that a well-formed token was supplied and
	// should only be used behind a platform that terminates authentication.
	AuthModeUnverified = "unverified"
	// AuthModeHMAC verifies token signatures against a shared secret.
	AuthModeHMAC = "hmac"
)

// Config holds all configuration for the stockwatch service.
type Config struct {
	Port string `mapstructure:"port"`

	// API keys for the two market-data providers
	TwelveDataAPIKey string `mapstructure:"twelve_data_api_key"`
	FinnhubAPIKey    string `mapstructure:"finnhub_api_key"`

	// Base URLs for provider endpoints (configurable for testing)
	TwelveDataBaseURL string `mapstructure:"twelve_data_base_url"`
	FinnhubBaseURL    string `mapstructure:"finnhub_base_url"`

	// ProviderTimeout bounds every outbound provider call
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`

	// Watchlist store connection
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Bearer token handling
	AuthMode       string `mapstructure:"auth_mode"`
	AuthHMACSecret string `mapstructure:"auth_hmac_secret"`

	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
}

// Load reads configuration from environment variables and optional config
// file. Environment variables take precedence over config file values.
//
// Required environment variables:
//   - TWELVE_DATA_API_KEY
//   - FINNHUB_API_KEY
//   - AUTH_HMAC_SECRET (only when AUTH_MODE=hmac)
//
// Missing required keys fail here, at startup, rather than on the first
// request that needs them.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("twelve_data_base_url", "https://api.twelvedata.com")
	v.SetDefault("finnhub_base_url", "https://finnhub.io/api/v1")
	v.SetDefault("provider_timeout", "10s")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("auth_mode", AuthModeUnverified)
	v.SetDefault("cors_allow_origins", []string{"*"})

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockwatch")
	_ = v.ReadInConfig()

	v.BindEnv("port", "PORT")
	v.BindEnv("twelve_data_api_key", "TWELVE_DATA_API_KEY")
	v.BindEnv("finnhub_api_key", "FINNHUB_API_KEY")
	v.BindEnv("twelve_data_base_url", "TWELVE_DATA_BASE_URL")
	v.BindEnv("finnhub_base_url", "FINNHUB_BASE_URL")
	v.BindEnv("provider_timeout", "PROVIDER_TIMEOUT")
	v.BindEnv("redis_addr", "REDIS_ADDR")
	v.BindEnv("redis_password", "REDIS_PASSWORD")
	v.BindEnv("redis_db", "REDIS_DB")
	v.BindEnv("auth_mode", "AUTH_MODE")
	v.BindEnv("auth_hmac_secret", "AUTH_HMAC_SECRET")
	v.BindEnv("cors_allow_origins", "CORS_ALLOW_ORIGINS")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.AuthMode != AuthModeUnverified && config.AuthMode != AuthModeHMAC {
		return nil, fmt.Errorf("invalid AUTH_MODE %q: must be %q or %q",
			config.AuthMode, AuthModeUnverified, AuthModeHMAC)
	}

	var missing []string
	if config.TwelveDataAPIKey == "" {
		missing = append(missing, "TWELVE_DATA_API_KEY")
	}
	if config.FinnhubAPIKey == "" {
		missing = append(missing, "FINNHUB_API_KEY")
	}
	if config.AuthMode == AuthModeHMAC && config.AuthHMACSecret == "" {
		missing = append(missing, "AUTH_HMAC_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return config, nil
}
