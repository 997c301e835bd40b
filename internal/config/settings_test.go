package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := DefaultSettings()
	s.APIBaseURL = "https://api.example.com"
	s.RetryAttempts = 7
	s.CoverArtResize = false
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoad_YAMLPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: https://yaml.example\nlog_level: debug\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://yaml.example", s.APIBaseURL)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/api/distribution/requests/", s.CreateRequestPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DISTRO_AUTH_TOKEN", "from-env")
	t.Setenv("DISTRO_RATE_LIMIT_RPM", "12")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.AuthToken)
	assert.Equal(t, 12, s.RateLimitRPM)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestToClientConfig(t *testing.T) {
	s := DefaultSettings()
	s.AuthToken = "tok"
	s.TimeoutSeconds = 10
	s.RetryInitialWaitSeconds = 0.25

	c := s.ToClientConfig()
	assert.Equal(t, s.APIBaseURL, c.BaseURL)
	assert.Equal(t, "/api/distribution/requests/", c.CreateRequestPath)
	assert.Equal(t, "tok", c.AuthToken)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, 250*time.Millisecond, c.RetryInitialWait)
	assert.Equal(t, 4*time.Second, c.RetryMaxWait)
}

func TestCoverArtOptions(t *testing.T) {
	s := DefaultSettings()
	s.CoverArtMaxSize = 1400
	s.ConvertCoverArtToJPG = false

	opts := s.CoverArtOptions()
	assert.True(t, opts.Resize)
	assert.Equal(t, 1400, opts.MaxSize)
	assert.False(t, opts.ConvertToJPEG)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	s := DefaultSettings()
	s.LogLevel = "warn"
	s.LogFormat = "json"

	logger := s.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
