package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const btcDetail = `{
	"id": "bitcoin",
	"symbol": "btc",
	"name": "Bitcoin",
	"market_data": {
		"market_cap": {"usd": 1900000000000},
		"current_price": {"usd": 97000.10},
		"price_change_percentage_24h": -1.25
	},
	"links": {"homepage": ["http://www.bitcoin.org", ""]},
	"description": {"en": "Bitcoin is the first cryptocurrency.\nSecond line is dropped."}
}`

func TestClient_CoinInfoBySymbol(t *testing.T) {
	t.Parallel()

	t.Run("curated symbol skips search", func(t *testing.T) {
		t.Parallel()

		var searched bool

		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				switch {
				case strings.HasPrefix(r.URL.Path, "/search"):
					searched = true

					w.WriteHeader(http.StatusInternalServerError)
				case r.URL.Path == "/coins/bitcoin":
					_, _ = w.Write([]byte(btcDetail))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			},
		))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)

		info, err := c.CoinInfoBySymbol(context.Background(), "btc")
		require.NoError(t, err)
		require.NotNil(t, info)

		assert.False(t, searched)
		assert.Equal(t, "bitcoin", info.ID)
		assert.Equal(t, "btc", info.Symbol)
		assert.Equal(t, "Bitcoin", info.Name)
		assert.Equal(t, "http://www.bitcoin.org", info.HomepageURL)

		require.NotNil(t, info.PriceUSD)
		assert.True(t, info.PriceUSD.Equal(decimal.RequireFromString("97000.10")))

		require.NotNil(t, info.MarketCapUSD)
		assert.True(t, info.MarketCapUSD.Equal(decimal.RequireFromString("1900000000000")))

		require.NotNil(t, info.Change24hPct)
		assert.True(t, info.Change24hPct.Equal(decimal.RequireFromString("-1.25")))

		// First line only
		assert.Equal(t, "Bitcoin is the first cryptocurrency.", info.Description)
	})

	t.Run("unknown symbol falls back to search", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				switch {
				case strings.HasPrefix(r.URL.Path, "/search"):
					require.Equal(t, "PEPE", r.URL.Query().Get("query"))

					_, _ = w.Write([]byte(`{"coins": [{"id": "pepe"}, {"id": "pepe-2"}]}`))
				case r.URL.Path == "/coins/pepe":
					_, _ = w.Write([]byte(`{"id": "pepe", "symbol": "pepe", "name": "Pepe"}`))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			},
		))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)

		info, err := c.CoinInfoBySymbol(context.Background(), "PEPE")
		require.NoError(t, err)
		require.NotNil(t, info)

		assert.Equal(t, "pepe", info.ID)

		// Missing market data stays nil
		assert.Nil(t, info.PriceUSD)
		assert.Nil(t, info.MarketCapUSD)
		assert.Nil(t, info.Change24hPct)
		assert.Empty(t, info.HomepageURL)
	})

	t.Run("no search match is absent", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"coins": []}`))
			},
		))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)

		info, err := c.CoinInfoBySymbol(context.Background(), "ZZZNOTACOIN")
		require.NoError(t, err)

		assert.Nil(t, info)
	})

	t.Run("upstream failure is absent, not an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)

		info, err := c.CoinInfoBySymbol(context.Background(), "BTC")
		require.NoError(t, err)

		assert.Nil(t, info)
	})

	t.Run("long description is capped", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 450)

		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/coins/tether", r.URL.Path)

				_, _ = w.Write([]byte(
					`{"id": "tether", "symbol": "usdt", "name": "Tether", "description": {"en": "` + long + `"}}`,
				))
			},
		))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)

		info, err := c.CoinInfoBySymbol(context.Background(), "USDT")
		require.NoError(t, err)
		require.NotNil(t, info)

		assert.Len(t, info.Description, 400)
	})
}
