package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.EqualValues(t, DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "careernav.yaml")
	content := "api_base_url: https://career.example.com/\nrequest_timeout: 5s\ndb_path: from-file.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CAREERNAV_DB_PATH", "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://career.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "from-env.db", cfg.DBPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		APIBaseURL:     "http://localhost:8000",
		DBPath:         "x.db",
		LogDir:         "logs",
		RequestTimeout: time.Second,
		MaxUploadBytes: 1,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"relative url": func(c *Config) { c.APIBaseURL = "localhost:8000/api" },
		"ftp scheme":   func(c *Config) { c.APIBaseURL = "ftp://host" },
		"empty db":     func(c *Config) { c.DBPath = "" },
		"empty logdir": func(c *Config) { c.LogDir = "" },
		"zero timeout": func(c *Config) { c.RequestTimeout = 0 },
		"zero upload":  func(c *Config) { c.MaxUploadBytes = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
