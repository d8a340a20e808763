package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[satstore]
backend = s3
container = eo-products
connection_env = MY_S3_ENDPOINT
log_level = debug

[satstore.transfer]
retries = 3
timeout_seconds = 120
concurrency = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendS3, cfg.Backend)
	assert.Equal(t, "eo-products", cfg.Container)
	assert.Equal(t, "MY_S3_ENDPOINT", cfg.ConnectionEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Transfer.Retries)
	assert.Equal(t, 120, cfg.Transfer.TimeoutSeconds)
	assert.Equal(t, 8, cfg.Transfer.Concurrency)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("[satstore]\nbackend = ftp\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown backend")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Transfer.Retries = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Transfer.TimeoutSeconds = -5
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config")

	cfg := Default()
	cfg.Backend = BackendLocal
	cfg.Container = "/data/staging"
	cfg.Transfer.Retries = 2
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend, loaded.Backend)
	assert.Equal(t, cfg.Container, loaded.Container)
	assert.Equal(t, cfg.Transfer.Retries, loaded.Transfer.Retries)
}
