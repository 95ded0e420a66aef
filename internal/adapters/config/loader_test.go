package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/config"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	opts, err := config.NewLoader(logger.New()).Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions(), opts)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
cache:
  mode: durable
  min_cost: 50ms
render:
  digits: 4
`)

	opts, err := config.NewLoader(logger.New()).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.CacheDurable, opts.CacheMode)
	assert.Equal(t, 50*time.Millisecond, opts.MinCacheCost)
	assert.Equal(t, 4, opts.Digits)
	assert.True(t, opts.CacheEnabled, "untouched fields keep their defaults")
	assert.Equal(t, domain.DefaultOptions().Width, opts.Width)
}

func TestLoad_CacheDirAnchorsAtConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache:\n  dir: my-cache\n")

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	opts, err := config.NewLoader(logger.New()).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my-cache"), opts.CacheDir)
}

func TestLoad_FindsFileInParent(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache:\n  enabled: false\n")

	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	opts, err := config.NewLoader(logger.New()).Load(nested)
	require.NoError(t, err)
	assert.False(t, opts.CacheEnabled)
}

func TestLoad_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache:\n  mode: bogus\n")

	_, err := config.NewLoader(logger.New()).Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache:\n  min_cost: soon\n")

	_, err := config.NewLoader(logger.New()).Load(dir)
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache: [\n")

	_, err := config.NewLoader(logger.New()).Load(dir)
	assert.Error(t, err)
}
