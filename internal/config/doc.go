// Package config provides configuration management for distro-wizard.
//
// This package handles:
//   - Loading settings from JSON or YAML files
//   - DISTRO_* environment overrides for every key
//   - Default configuration values
//   - Conversion to the API client configuration and the logger
//
// # Loading
//
//	settings, err := config.Load(config.DefaultPath())
//	// Uses defaults if the file doesn't exist.
//	// DISTRO_AUTH_TOKEN=... overrides auth_token.
//
// # Saving Settings
//
//	settings.APIBaseURL = "https://api.example.com"
//	err := settings.Save(config.DefaultPath())
package config
