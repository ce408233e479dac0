package market

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUpstream marks transport or decoding failures against an upstream API.
// A response that does not parse must never be mistaken for an empty result.
var ErrUpstream = errors.New("upstream request failed")

type TradeDirection string

const (
	DirectionBuy  TradeDirection = "BUY"
	DirectionSell TradeDirection = "SELL"
)

func (d TradeDirection) String() string {
	return string(d)
}

// ParseTradeDirection parses a user-supplied direction token ("buy"/"sell",
// any case). The second return reports whether the token was recognized.
func ParseTradeDirection(token string) (TradeDirection, bool) {
	switch TradeDirection(strings.ToUpper(strings.TrimSpace(token))) {
	case DirectionBuy:
		return DirectionBuy, true
	case DirectionSell:
		return DirectionSell, true
	default:
		return "", false
	}
}

// OfferQuery is a single P2P offer search filter.
// Constructed per request, never persisted.
type OfferQuery struct {
	Asset       string
	Fiat        string
	Direction   TradeDirection
	TransAmount string // optional transaction amount, provider expects a string
	Rows        int
}

// Offer is a normalized P2P advertisement.
// Derived from exactly one raw provider record.
type Offer struct {
	// Price is the parsed offer price, used for sorting only.
	// A malformed provider price parses to zero; PriceRaw keeps what the
	// provider actually sent for display.
	Price           decimal.Decimal
	PriceRaw        string
	MinAmount       string
	MaxAmount       string
	Fiat            string
	Asset           string
	Direction       TradeDirection
	PublisherType   string
	DisplayName     string
	CompletedOrders int
	CompletionRate  float64
	PaymentMethods  []string
}

// SortOffersByPrice sorts offers ascending by price, in place.
// The sort is stable: offers with equal prices keep provider order.
func SortOffersByPrice(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price.LessThan(offers[j].Price)
	})
}

// ConversionRequest asks for amount of the source asset expressed
// in the target asset.
type ConversionRequest struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// ConversionResult is a resolved conversion.
// Path is "direct:<PAIR>" when a direct quote was used, or
// "via:<INTERMEDIARY>" when the price was composed through two legs.
type ConversionResult struct {
	Amount decimal.Decimal
	Result decimal.Decimal
	Path   string
}

// CoinInfo is a coarse coin metadata projection.
// Numeric fields are pointers: a missing upstream value stays nil and is
// rendered as an explicit null, never silently dropped.
type CoinInfo struct {
	ID           string
	Symbol       string
	Name         string
	MarketCapUSD *decimal.Decimal
	PriceUSD     *decimal.Decimal
	Change24hPct *decimal.Decimal
	HomepageURL  string
	Description  string
}
