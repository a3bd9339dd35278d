package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/pkg/errors"
)

func TestAPIKey(t *testing.T) {
	t.Setenv(KeyAPIKey, "")
	_, err := APIKey()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)

	t.Setenv(KeyAPIKey, "test-key")
	key, err := APIKey()
	require.NoError(t, err)
	assert.Equal(t, "test-key", key)
}

func TestModelOverride(t *testing.T) {
	t.Setenv(KeyModelOverride, "")
	assert.Equal(t, "", ModelOverride())

	t.Setenv(KeyModelOverride, "gemini-2.0-flash")
	assert.Equal(t, "gemini-2.0-flash", ModelOverride())
}

func TestDatabasePath(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(KeyDatabase, custom)
	assert.Equal(t, custom, DatabasePath())

	t.Setenv(KeyDatabase, "")
	path := DatabasePath()
	assert.Contains(t, path, "northstar.db")
}
