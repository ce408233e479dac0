package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YonasGr/binance-p2p/bot"
	"github.com/YonasGr/binance-p2p/server/config"
)

func TestServer_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.ListenAddress = "rando-address"

		s, err := New(bot.NewStats(), WithConfig(cfg))

		assert.Nil(t, s)
		assert.ErrorIs(t, err, config.ErrInvalidListenAddress)
	})

	t.Run("default server", func(t *testing.T) {
		t.Parallel()

		s, err := New(bot.NewStats())
		require.NoError(t, err)

		require.NotNil(t, s)
		assert.NotNil(t, s.logger)
		assert.NotNil(t, s.mux)
	})
}

func TestHandlers_Health(t *testing.T) {
	t.Parallel()

	s := &Server{
		stats:  bot.NewStats(),
		logger: noopLogger,
	}

	w := httptest.NewRecorder()
	s.Health(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_Status(t *testing.T) {
	t.Parallel()

	s := &Server{
		stats:  bot.NewStats(),
		logger: noopLogger,
	}

	w := httptest.NewRecorder()
	s.Status(w, httptest.NewRequest(http.MethodGet, "/status", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Zero(t, resp.Stats.Commands)
	assert.Zero(t, resp.Stats.UserErrors)
	assert.Zero(t, resp.Stats.UpstreamErrors)
	assert.GreaterOrEqual(t, resp.Stats.UptimeSeconds, int64(0))
}
