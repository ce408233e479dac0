package market

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultIntermediary is the common asset used to bridge two assets
// lacking a directly quoted pair.
const DefaultIntermediary = "USDT"

// PriceSource resolves a direct spot price for a concatenated pair symbol
// (e.g. "BTCUSDT").
type PriceSource interface {
	// DirectPrice returns the last price for the given pair symbol.
	// The second return is false when no such pair is quoted; lookup
	// failures other than context cancellation are folded into an
	// absent result, since callers treat "no direct pair" as an
	// expected branch.
	DirectPrice(ctx context.Context, pair string) (decimal.Decimal, bool, error)
}

// PairQuote is a resolved pair price and the route it was resolved through.
type PairQuote struct {
	Price decimal.Decimal
	Path  string
}

// Resolver resolves asset pair prices, preferring direct quotes and
// falling back to a two-leg composition through the intermediary asset.
type Resolver struct {
	source       PriceSource
	logger       *slog.Logger
	intermediary string
}

type ResolverOption func(r *Resolver)

// WithLogger specifies the logger for the resolver
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithIntermediary overrides the intermediary bridge asset.
// Defaults to USDT.
func WithIntermediary(symbol string) ResolverOption {
	return func(r *Resolver) {
		r.intermediary = strings.ToUpper(symbol)
	}
}

// NewResolver creates a new Resolver instance
func NewResolver(source PriceSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:       source,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		intermediary: DefaultIntermediary,
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// PairPrice resolves the price of one unit of from expressed in to.
// A direct quote always wins over the composed path, even when both
// resolve, since direct quotes avoid compounding bid/ask spread.
// An unresolvable pair returns (nil, nil).
func (r *Resolver) PairPrice(ctx context.Context, from, to string) (*PairQuote, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	// Converting the intermediary into itself needs no lookup at all
	if from == r.intermediary && to == r.intermediary {
		return &PairQuote{
			Price: decimal.NewFromInt(1),
			Path:  "via:" + r.intermediary,
		}, nil
	}

	// Try the direct pair first
	pair := from + to

	price, ok, err := r.source.DirectPrice(ctx, pair)
	if err != nil {
		return nil, err
	}

	if ok {
		return &PairQuote{
			Price: price,
			Path:  "direct:" + pair,
		}, nil
	}

	r.logger.Debug(
		"no direct pair, composing through intermediary",
		"pair", pair,
		"intermediary", r.intermediary,
	)

	// Compose two legs through the intermediary
	fromLeg, ok, err := r.legPrice(ctx, from)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, nil
	}

	toLeg, ok, err := r.legPrice(ctx, to)
	if err != nil {
		return nil, err
	}

	if !ok || toLeg.IsZero() {
		return nil, nil
	}

	return &PairQuote{
		Price: fromLeg.Div(toLeg),
		Path:  "via:" + r.intermediary,
	}, nil
}

// legPrice resolves the price of one asset unit in the intermediary,
// falling back to the reciprocal of the reversed pair when the forward
// pair is not quoted
func (r *Resolver) legPrice(ctx context.Context, asset string) (decimal.Decimal, bool, error) {
	if asset == r.intermediary {
		return decimal.NewFromInt(1), true, nil
	}

	price, ok, err := r.source.DirectPrice(ctx, asset+r.intermediary)
	if err != nil || ok {
		return price, ok, err
	}

	// Reversed pair, reciprocal price
	price, ok, err = r.source.DirectPrice(ctx, r.intermediary+asset)
	if err != nil || !ok {
		return decimal.Decimal{}, false, err
	}

	if price.IsZero() {
		return decimal.Decimal{}, false, nil
	}

	return decimal.NewFromInt(1).Div(price), true, nil
}

// Convert resolves the pair price and applies it to the requested amount.
// An unresolvable pair returns (nil, nil).
func (r *Resolver) Convert(ctx context.Context, req ConversionRequest) (*ConversionResult, error) {
	quote, err := r.PairPrice(ctx, req.From, req.To)
	if err != nil || quote == nil {
		return nil, err
	}

	return &ConversionResult{
		Amount: req.Amount,
		Result: req.Amount.Mul(quote.Price),
		Path:   quote.Path,
	}, nil
}
