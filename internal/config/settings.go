package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apihttp "github.com/handiism/distro-wizard/internal/http"
	ioutils "github.com/handiism/distro-wizard/internal/io"
)

// EnvPrefix prefixes every environment override, e.g. DISTRO_AUTH_TOKEN.
const EnvPrefix = "DISTRO"

// Settings holds all configuration options.
type Settings struct {
	// API settings
	APIBaseURL        string `json:"api_base_url" mapstructure:"api_base_url"`
	CreateRequestPath string `json:"create_request_path" mapstructure:"create_request_path"`
	AuthCheckPath     string `json:"auth_check_path" mapstructure:"auth_check_path"`
	ProfilePath       string `json:"profile_path" mapstructure:"profile_path"`
	PaymentPath       string `json:"payment_path" mapstructure:"payment_path"`
	UserAgent         string `json:"user_agent" mapstructure:"user_agent"`
	TimeoutSeconds    int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	// Authentication
	AuthToken      string `json:"auth_token" mapstructure:"auth_token"`
	AuthCookieName string `json:"auth_cookie_name" mapstructure:"auth_cookie_name"`

	// Resilience for account lookups. Distribution requests are never retried.
	RateLimitRPM            int     `json:"rate_limit_rpm" mapstructure:"rate_limit_rpm"`
	RetryAttempts           int     `json:"retry_attempts" mapstructure:"retry_attempts"`
	RetryInitialWaitSeconds float64 `json:"retry_initial_wait_seconds" mapstructure:"retry_initial_wait_seconds"`
	CircuitBreakerThreshold int     `json:"circuit_breaker_threshold" mapstructure:"circuit_breaker_threshold"`

	// Cover art settings
	CoverArtResize       bool `json:"cover_art_resize" mapstructure:"cover_art_resize"`
	CoverArtMaxSize      int  `json:"cover_art_max_size" mapstructure:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg" mapstructure:"convert_cover_art_to_jpg"`

	// Logging
	LogLevel  string `json:"log_level" mapstructure:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" mapstructure:"log_format"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIBaseURL:        "http://localhost:8000",
		CreateRequestPath: "/api/distribution/requests/",
		AuthCheckPath:     "/api/auth/check",
		ProfilePath:       "/api/profile/",
		PaymentPath:       "/api/payment-details/",
		UserAgent:         "distro-wizard/1.0",
		TimeoutSeconds:    120,

		AuthCookieName: "auth_token",

		RateLimitRPM:            60,
		RetryAttempts:           3,
		RetryInitialWaitSeconds: 0.5,
		CircuitBreakerThreshold: 5,

		CoverArtResize:       true,
		CoverArtMaxSize:      3000,
		ConvertCoverArtToJPG: true,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "distro-wizard", "settings.json")
}

// Load reads settings from a JSON or YAML file, then applies DISTRO_*
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, DefaultSettings()); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read settings %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// setDefaults registers every field so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, s *Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, value := range fields {
		v.SetDefault(key, value)
	}
	return nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ToClientConfig converts settings to the API client configuration.
func (s *Settings) ToClientConfig() apihttp.Config {
	initial := time.Duration(s.RetryInitialWaitSeconds * float64(time.Second))
	return apihttp.Config{
		BaseURL:           s.APIBaseURL,
		CreateRequestPath: s.CreateRequestPath,
		UserAgent:         s.UserAgent,
		AuthToken:         s.AuthToken,
		AuthCookieName:    s.AuthCookieName,
		Timeout:           time.Duration(s.TimeoutSeconds) * time.Second,
		RateLimitRPM:      s.RateLimitRPM,
		RetryAttempts:     s.RetryAttempts,
		RetryInitialWait:  initial,
		RetryMaxWait:      initial * 16,
		BreakerThreshold:  s.CircuitBreakerThreshold,
		BreakerTimeout:    30 * time.Second,
	}
}

// CoverArtOptions returns the cover art preparation options.
func (s *Settings) CoverArtOptions() ioutils.CoverArtOptions {
	return ioutils.CoverArtOptions{
		Resize:        s.CoverArtResize,
		MaxSize:       s.CoverArtMaxSize,
		ConvertToJPEG: s.ConvertCoverArtToJPG,
	}
}
