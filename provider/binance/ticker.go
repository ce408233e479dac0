package binance

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

// TickerSource resolves spot prices from the Binance ticker API.
// It implements market.PriceSource.
type TickerSource struct {
	client *binance.Client
}

// NewTickerSource creates a new ticker price source.
// Public market data needs no API credentials.
func NewTickerSource(timeout time.Duration) *TickerSource {
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &TickerSource{client: client}
}

// DirectPrice looks up the last price for the given pair symbol.
// Unknown pairs, upstream failures and unparsable prices all resolve
// to absent: callers treat a missing direct pair as an expected branch.
// Only context cancellation surfaces as an error.
func (t *TickerSource) DirectPrice(ctx context.Context, pair string) (decimal.Decimal, bool, error) {
	prices, err := t.client.NewListPricesService().
		Symbol(strings.ToUpper(pair)).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return decimal.Decimal{}, false, ctx.Err()
		}

		// Unquoted symbols come back as API errors
		return decimal.Decimal{}, false, nil
	}

	if len(prices) == 0 {
		return decimal.Decimal{}, false, nil
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Decimal{}, false, nil
	}

	return price, true, nil
}
