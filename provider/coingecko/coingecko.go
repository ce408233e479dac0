// Package coingecko resolves coarse coin metadata from the CoinGecko API.
//
// Lookups are always best-effort: any upstream failure at any step yields
// an absent result instead of a propagated error, since coin metadata is
// supplementary to every command that asks for it.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YonasGr/binance-p2p/market"
)

// DefaultBaseURL is the public CoinGecko API base
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const descriptionLimit = 400

// curatedIDs maps major ticker symbols straight to CoinGecko IDs,
// skipping the search round-trip
var curatedIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"TON":  "toncoin",
	"SOL":  "solana",
	"BNB":  "binancecoin",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
	"XRP":  "ripple",
}

// searchResponse is the /search endpoint response
type searchResponse struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

// coinResponse is the /coins/{id} endpoint response, reduced to the
// fields this client projects
//
//nolint:tagliatelle // CoinGecko API uses snake case
type coinResponse struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		MarketCap struct {
			USD *decimal.Decimal `json:"usd"`
		} `json:"market_cap"`
		CurrentPrice struct {
			USD *decimal.Decimal `json:"usd"`
		} `json:"current_price"`
		PriceChange24h *decimal.Decimal `json:"price_change_percentage_24h"`
	} `json:"market_data"`
	Links struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
}

// Client is the CoinGecko metadata client
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new instance of the CoinGecko client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// CoinInfoBySymbol resolves coin metadata for a ticker symbol.
// The symbol is first checked against the curated majors table; misses
// fall back to the text search endpoint, taking the first match.
// An unresolvable symbol returns (nil, nil).
func (c *Client) CoinInfoBySymbol(ctx context.Context, symbol string) (*market.CoinInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	id, ok := curatedIDs[symbol]
	if !ok {
		id = c.searchID(ctx, symbol)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if id == "" {
		return nil, nil
	}

	var coin coinResponse
	if err := c.getJSON(ctx, c.baseURL+"/coins/"+url.PathEscape(id), &coin); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, nil
	}

	var homepage string
	if len(coin.Links.Homepage) > 0 {
		homepage = coin.Links.Homepage[0]
	}

	return &market.CoinInfo{
		ID:           coin.ID,
		Symbol:       coin.Symbol,
		Name:         coin.Name,
		MarketCapUSD: coin.MarketData.MarketCap.USD,
		PriceUSD:     coin.MarketData.CurrentPrice.USD,
		Change24hPct: coin.MarketData.PriceChange24h,
		HomepageURL:  homepage,
		Description:  shortDescription(coin.Description.EN),
	}, nil
}

// searchID resolves a symbol through the text search endpoint,
// returning an empty ID when nothing matches
func (c *Client) searchID(ctx context.Context, symbol string) string {
	var res searchResponse

	searchURL := c.baseURL + "/search?query=" + url.QueryEscape(symbol)
	if err := c.getJSON(ctx, searchURL, &res); err != nil {
		return ""
	}

	if len(res.Coins) == 0 {
		return ""
	}

	return res.Coins[0].ID
}

// getJSON executes a GET request and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("unable to create GET request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}

	return nil
}

// shortDescription reduces a description to its first line,
// capped at 400 characters
func shortDescription(s string) string {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = s[:i]
	}

	if len(s) > descriptionLimit {
		s = s[:descriptionLimit]
	}

	return strings.TrimSpace(s)
}
