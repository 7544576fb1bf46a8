package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultCoreURL, cfg.Core.URL)
	assert.Equal(t, DefaultClientName, cfg.Core.Name)
	assert.Equal(t, DefaultFetchTimeoutS, cfg.Attachment.FetchTimeoutSeconds)
	assert.Equal(t, DefaultUpdateTimeoutS, cfg.Telegram.UpdateTimeoutSeconds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"
format = "json"

[core]
url = "ws://core:9000/api/ws"

[telegram]
update_timeout_seconds = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "ws://core:9000/api/ws", cfg.Core.URL)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, DefaultClientName, cfg.Core.Name)
	assert.Equal(t, 10, cfg.Telegram.UpdateTimeoutSeconds)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("log = {"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
