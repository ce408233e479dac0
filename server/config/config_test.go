package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid listen address", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.ListenAddress = "rando-address" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidListenAddress)
	})

	t.Run("invalid http timeout", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.HTTPTimeoutSeconds = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidHTTPTimeout)
	})

	t.Run("invalid market symbol", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Market.Fiat = "etb1"

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidMarketSymbol)
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		cfg, err := Read(filepath.Join(t.TempDir(), "nope.toml"))

		assert.Nil(t, cfg)
		assert.Error(t, err)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")

		content := `
listen_address = "127.0.0.1:9000"

[market]
fiat = "kes"
`

		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
		assert.Equal(t, "KES", cfg.Market.Fiat)

		// Untouched values stay at their defaults
		assert.Equal(t, DefaultAsset, cfg.Market.Asset)
		assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout())
	})
}
