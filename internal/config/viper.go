// Package config provides Viper-backed access to northstar configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/northstarhq/northstar/pkg/errors"
)

// Recognized configuration keys.
const (
	// KeyAPIKey is the Gemini API credential. Required for any operation
	// that talks to the model.
	KeyAPIKey = "GEMINI_API_KEY"

	// KeyModelOverride pins the completion model, skipping discovery.
	KeyModelOverride = "GEMINI_MODEL"

	// KeyDatabase overrides the SQLite database path.
	KeyDatabase = "NORTHSTAR_DB"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return the OS value.
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// APIKey returns the Gemini API credential. A missing credential is a
// configuration error, not a pipeline error.
func APIKey() (string, error) {
	key := GetString(KeyAPIKey)
	if key == "" {
		return "", &errors.ConfigError{
			Component: "gemini",
			Message:   KeyAPIKey + " not set - add it to .env.local or the environment",
			Err:       errors.ErrAPIKeyRequired,
		}
	}
	return key, nil
}

// ModelOverride returns the explicitly configured completion model, or ""
// when model selection should use discovery.
func ModelOverride() string {
	return GetString(KeyModelOverride)
}

// DatabasePath returns the SQLite database location, defaulting to
// ~/.northstar/northstar.db.
func DatabasePath() string {
	if path := GetString(KeyDatabase); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "northstar.db"
	}
	return filepath.Join(home, ".northstar", "northstar.db")
}
