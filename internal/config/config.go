package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8000"
	DefaultDBPath         = "careernav.db"
	DefaultLogDir         = "logs"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxUploadBytes = 10 * 1024 * 1024 // backend rejects anything larger
)

// Config holds application configuration
type Config struct {
	APIBaseURL       string
	DBPath           string
	LogDir           string
	RequestTimeout   time.Duration
	MaxUploadBytes   int64
	Debug            bool
	TelemetryEnabled bool
}

// Load builds the configuration from defaults, an optional config file and
// CAREERNAV_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("debug", false)
	v.SetDefault("telemetry_enabled", true)

	v.SetEnvPrefix("CAREERNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIBaseURL:       strings.TrimRight(v.GetString("api_base_url"), "/"),
		DBPath:           v.GetString("db_path"),
		LogDir:           v.GetString("log_dir"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		MaxUploadBytes:   v.GetInt64("max_upload_bytes"),
		Debug:            v.GetBool("debug"),
		TelemetryEnabled: v.GetBool("telemetry_enabled"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log dir cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be > 0")
	}
	return nil
}
