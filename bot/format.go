package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/YonasGr/binance-p2p/market"
)

// nullMarker renders missing upstream values explicitly instead of
// silently omitting them
const nullMarker = "null"

const startText = "Hello! I can fetch Binance P2P ETB rates, convert coins, " +
	"and show coin info. Use /help to see commands."

const helpText = "Available commands:\n" +
	"/p2p_usdt_top [buy|sell] - get top USDT P2P offers for ETB (default: buy)\n" +
	"/p2p_usdt_amount <amount><ETB|USDT> [buy|sell] - show top 10 offers for that amount\n" +
	"/convert <FROM> <TO> [amount] - convert between coins using Binance prices\n" +
	"/coininfo <SYMBOL> - get market info about a coin (market cap, price...)\n"

// formatOffers renders the cheapest offers as 1-indexed lines, sorted
// ascending by price with provider order preserved on ties.
// Offers without a provider price are not listed: a row with no price
// is not actionable. Returns an empty string when nothing is displayable
func formatOffers(offers []market.Offer, showCompleted bool) string {
	displayable := make([]market.Offer, 0, len(offers))

	for _, o := range offers {
		if o.PriceRaw != "" {
			displayable = append(displayable, o)
		}
	}

	if len(displayable) == 0 {
		return ""
	}

	market.SortOffersByPrice(displayable)

	if len(displayable) > displayLimit {
		displayable = displayable[:displayLimit]
	}

	lines := make([]string, 0, len(displayable))

	for i, o := range displayable {
		name := o.DisplayName
		if name == "" {
			name = "anon"
		}

		line := fmt.Sprintf(
			"%d. %s — %s %s | min %s - max %s",
			i+1, name, o.PriceRaw, o.Fiat, o.MinAmount, o.MaxAmount,
		)

		if showCompleted {
			line += fmt.Sprintf(" | completed: %d", o.CompletedOrders)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// formatConversion renders a resolved conversion at 8 decimal places,
// tagging whether the direct pair or the intermediary path was used
func formatConversion(req market.ConversionRequest, res *market.ConversionResult) string {
	if pair, ok := strings.CutPrefix(res.Path, "direct:"); ok {
		return fmt.Sprintf(
			"%s %s = %s %s (via %s on Binance)",
			res.Amount, req.From, res.Result.StringFixed(8), req.To, pair,
		)
	}

	intermediary := strings.TrimPrefix(res.Path, "via:")

	return fmt.Sprintf(
		"%s %s ≈ %s %s (via %s)",
		res.Amount, req.From, res.Result.StringFixed(8), req.To, intermediary,
	)
}

// formatCoinInfo renders the fixed coin metadata layout
func formatCoinInfo(info *market.CoinInfo) string {
	text := fmt.Sprintf(
		"%s (%s)\n"+
			"Price (USD): %s\n"+
			"Market Cap (USD): %s\n"+
			"24h Change: %s%%\n"+
			"Website: %s",
		info.Name,
		strings.ToUpper(info.Symbol),
		decimalOrNull(info.PriceUSD),
		decimalOrNull(info.MarketCapUSD),
		decimalOrNull(info.Change24hPct),
		stringOrNull(info.HomepageURL),
	)

	if info.Description != "" {
		text += "\n" + info.Description
	}

	return text
}

func decimalOrNull(d *decimal.Decimal) string {
	if d == nil {
		return nullMarker
	}

	return d.String()
}

func stringOrNull(s string) string {
	if s == "" {
		return nullMarker
	}

	return s
}
