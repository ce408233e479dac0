// Package bot implements the chat command surface: argument parsing,
// upstream execution and reply formatting.
//
// The processor is fully stateless across invocations. Every command
// execution parses its own arguments, makes its own upstream calls and
// produces its replies; no value outlives the invocation, so arbitrary
// interleaving of concurrent commands is safe.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/YonasGr/binance-p2p/market"
)

const (
	topOffersRows    = 20
	amountOffersRows = 50
	displayLimit     = 10
)

const (
	unitETB  = "ETB"
	unitUSDT = "USDT"
)

// User input errors, recovered locally before any upstream call is made
var (
	errUnknownUnit = errors.New("unrecognized amount unit")
	errBadAmount   = errors.New("unparsable amount")
)

// OfferSearcher fetches P2P offers matching a query
type OfferSearcher interface {
	SearchOffers(ctx context.Context, query market.OfferQuery) ([]market.Offer, error)
}

// Converter resolves asset pair conversions
type Converter interface {
	Convert(ctx context.Context, req market.ConversionRequest) (*market.ConversionResult, error)
}

// CoinInfoSource resolves coin metadata by ticker symbol
type CoinInfoSource interface {
	CoinInfoBySymbol(ctx context.Context, symbol string) (*market.CoinInfo, error)
}

// Processor parses chat commands, drives the upstream collaborators and
// formats replies. It never fails a command with a propagated error:
// every outcome, including upstream failure, becomes a reply.
type Processor struct {
	offers    OfferSearcher
	converter Converter
	coins     CoinInfoSource

	logger *slog.Logger
	stats  *Stats

	asset string
	fiat  string
}

type ProcessorOption func(p *Processor)

// WithLogger specifies the logger for the processor
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithMarketDefaults overrides the default P2P asset and fiat pair.
// Defaults to USDT/ETB.
func WithMarketDefaults(asset, fiat string) ProcessorOption {
	return func(p *Processor) {
		p.asset = strings.ToUpper(asset)
		p.fiat = strings.ToUpper(fiat)
	}
}

// NewProcessor creates a new command processor
func NewProcessor(
	offers OfferSearcher,
	converter Converter,
	coins CoinInfoSource,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		offers:    offers,
		converter: converter,
		coins:     coins,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats:     NewStats(),
		asset:     unitUSDT,
		fiat:      unitETB,
	}

	// Apply the options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Stats exposes the processor counters for the ops surface
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Handle executes a single chat command, emitting replies through send.
// Unknown commands are ignored
func (p *Processor) Handle(ctx context.Context, command string, args []string, send func(text string)) {
	switch command {
	case "start":
		p.stats.commands.Add(1)
		send(startText)
	case "help":
		p.stats.commands.Add(1)
		send(helpText)
	case "p2p_usdt_top":
		p.stats.commands.Add(1)
		p.topOffers(ctx, args, send)
	case "p2p_usdt_amount":
		p.stats.commands.Add(1)
		p.amountOffers(ctx, args, send)
	case "convert":
		p.stats.commands.Add(1)
		p.convert(ctx, args, send)
	case "coininfo":
		p.stats.commands.Add(1)
		p.coinInfo(ctx, args, send)
	default:
		p.logger.Debug(
			"ignoring unknown command",
			"command", command,
		)
	}
}

// topOffers handles: p2p_usdt_top [buy|sell]
func (p *Processor) topOffers(ctx context.Context, args []string, send func(string)) {
	direction := market.DirectionBuy

	if len(args) > 0 {
		parsed, ok := market.ParseTradeDirection(args[0])
		if !ok {
			p.stats.userErrors.Add(1)
			send("trade must be 'buy' or 'sell'.")

			return
		}

		direction = parsed
	}

	send(fmt.Sprintf(
		"Fetching top %s P2P offers (%s) for %s...",
		p.asset, direction, p.fiat,
	))

	query := market.OfferQuery{
		Asset:     p.asset,
		Fiat:      p.fiat,
		Direction: direction,
		Rows:      topOffersRows,
	}

	p.runOfferSearch(ctx, query, true, "No offers found.", send)
}

// amountOffers handles: p2p_usdt_amount <amount><ETB|USDT> [buy|sell]
func (p *Processor) amountOffers(ctx context.Context, args []string, send func(string)) {
	if len(args) == 0 {
		p.stats.userErrors.Add(1)
		send("Please provide an amount with unit, e.g. 5000ETB or 50USDT")

		return
	}

	amount, unit, err := parseAmountToken(args[0])
	if err != nil {
		p.stats.userErrors.Add(1)

		if errors.Is(err, errUnknownUnit) {
			send("Unit not recognized. End amount with ETB or USDT.")
		} else {
			send("Couldn't parse the amount. Use digits then unit, e.g. 5000ETB")
		}

		return
	}

	direction := market.DirectionBuy

	if len(args) > 1 {
		parsed, ok := market.ParseTradeDirection(args[1])
		if !ok {
			p.stats.userErrors.Add(1)
			send("trade must be 'buy' or 'sell'.")

			return
		}

		direction = parsed
	}

	send(fmt.Sprintf(
		"Searching top offers for %s%s (%s)...",
		amount, unit, direction,
	))

	// Fiat amounts are filtered as whole units
	transAmount := amount.String()
	if unit == unitETB {
		transAmount = amount.Truncate(0).String()
	}

	query := market.OfferQuery{
		Asset:       p.asset,
		Fiat:        p.fiat,
		Direction:   direction,
		TransAmount: transAmount,
		Rows:        amountOffersRows,
	}

	p.runOfferSearch(ctx, query, false, "No offers found for that amount.", send)
}

// runOfferSearch executes an offer query and replies with the formatted
// result, distinguishing upstream failure from an empty match set
func (p *Processor) runOfferSearch(
	ctx context.Context,
	query market.OfferQuery,
	showCompleted bool,
	emptyReply string,
	send func(string),
) {
	offers, err := p.offers.SearchOffers(ctx, query)
	if err != nil {
		p.stats.upstreamErrors.Add(1)
		p.logger.Error(
			"unable to fetch offers",
			"asset", query.Asset,
			"fiat", query.Fiat,
			"err", err,
		)

		send("Couldn't fetch P2P offers right now. Try again later.")

		return
	}

	lines := formatOffers(offers, showCompleted)
	if lines == "" {
		send(emptyReply)

		return
	}

	send(lines)
}

// convert handles: convert <FROM> <TO> [amount]
func (p *Processor) convert(ctx context.Context, args []string, send func(string)) {
	if len(args) < 2 {
		p.stats.userErrors.Add(1)
		send("Usage: /convert FROM TO [amount]. Example: /convert BTC USDT 0.1")

		return
	}

	req := market.ConversionRequest{
		From:   strings.ToUpper(args[0]),
		To:     strings.ToUpper(args[1]),
		Amount: decimal.NewFromInt(1),
	}

	if len(args) >= 3 {
		amount, err := decimal.NewFromString(args[2])
		if err != nil || amount.IsNegative() {
			p.stats.userErrors.Add(1)
			send("Couldn't parse the amount. Use a decimal number, e.g. 0.1")

			return
		}

		req.Amount = amount
	}

	result, err := p.converter.Convert(ctx, req)
	if err != nil {
		p.stats.upstreamErrors.Add(1)
		p.logger.Error(
			"unable to resolve conversion",
			"from", req.From,
			"to", req.To,
			"err", err,
		)
	}

	if result == nil {
		send("Couldn't fetch direct prices from Binance for those symbols. Try /coininfo for more info.")

		return
	}

	send(formatConversion(req, result))
}

// coinInfo handles: coininfo <SYMBOL>
func (p *Processor) coinInfo(ctx context.Context, args []string, send func(string)) {
	if len(args) != 1 {
		p.stats.userErrors.Add(1)
		send("Usage: /coininfo SYMBOL (e.g. BTC, ETH, TON)")

		return
	}

	symbol := strings.ToUpper(args[0])

	send(fmt.Sprintf("Fetching info for %s...", symbol))

	info, err := p.coins.CoinInfoBySymbol(ctx, symbol)
	if err != nil {
		p.stats.upstreamErrors.Add(1)
		p.logger.Error(
			"unable to fetch coin info",
			"symbol", symbol,
			"err", err,
		)
	}

	if info == nil {
		send("Coin not found on CoinGecko. Try a different symbol.")

		return
	}

	send(formatCoinInfo(info))
}

// parseAmountToken splits a "<number><unit>" token where the unit is a
// case-insensitive ETB or USDT suffix
func parseAmountToken(token string) (decimal.Decimal, string, error) {
	var (
		upper = strings.ToUpper(strings.TrimSpace(token))
		unit  string
	)

	switch {
	case strings.HasSuffix(upper, unitUSDT):
		unit = unitUSDT
	case strings.HasSuffix(upper, unitETB):
		unit = unitETB
	default:
		return decimal.Decimal{}, "", errUnknownUnit
	}

	amount, err := decimal.NewFromString(upper[:len(upper)-len(unit)])
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, "", errBadAmount
	}

	return amount, unit, nil
}
