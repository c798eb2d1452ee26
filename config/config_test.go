package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides merge with defaults", func(t *testing.T) {
		path := writeConfig(t, `
checksum:
  algorithm: crc32-castagnoli
stream:
  concurrency: 8
  decompression: auto
log:
  level: debug
  development: true
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "crc32-castagnoli", cfg.Checksum.Algorithm)
		assert.Equal(t, 8, cfg.Stream.Concurrency)
		assert.Equal(t, "auto", cfg.Stream.Decompression)
		assert.Equal(t, 64*1024, cfg.Stream.ChunkSize)
		assert.Equal(t, 4096, cfg.Page.Size)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Development)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "error reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "stream: [unterminated"))
		assert.ErrorContains(t, err, "error parsing config file")
	})

	t.Run("invalid values surface a validation error", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "stream:\n  chunk_size: 10\n"))
		require.Error(t, err)

		ve := cerrors.AsValidationError(err)
		require.NotNil(t, ve)
		assert.Equal(t, "stream.chunk_size", ve.Field)
	})
}

func TestValidatePageSizeBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Page.Size = MaxPageSize
	require.NoError(t, cfg.Validate())

	cfg.Page.Size = MaxPageSize * 2
	ve := cerrors.AsValidationError(cfg.Validate())
	require.NotNil(t, ve)
	assert.Equal(t, "page.size", ve.Field)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Config)
		field  string
	}{
		"empty algorithm":     {func(c *Config) { c.Checksum.Algorithm = "" }, "checksum.algorithm"},
		"too many workers":    {func(c *Config) { c.Stream.Concurrency = MaxWorkers + 1 }, "stream.concurrency"},
		"no workers":          {func(c *Config) { c.Stream.Concurrency = 0 }, "stream.concurrency"},
		"huge chunk":          {func(c *Config) { c.Stream.ChunkSize = MaxChunkSize + 1 }, "stream.chunk_size"},
		"unknown format":      {func(c *Config) { c.Stream.Decompression = "gzip" }, "stream.decompression"},
		"page not power of 2": {func(c *Config) { c.Page.Size = 1000 }, "page.size"},
		"page too small":      {func(c *Config) { c.Page.Size = 8 }, "page.size"},
		"page too large":      {func(c *Config) { c.Page.Size = MaxPageSize * 4 }, "page.size"},
		"unknown log level":   {func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			ve := cerrors.AsValidationError(cfg.Validate())
			require.NotNil(t, ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}
