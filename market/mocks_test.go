package market

import (
	"context"

	"github.com/shopspring/decimal"
)

type directPriceDelegate func(context.Context, string) (decimal.Decimal, bool, error)

type mockSource struct {
	directPriceFn directPriceDelegate
}

func (m *mockSource) DirectPrice(ctx context.Context, pair string) (decimal.Decimal, bool, error) {
	if m.directPriceFn != nil {
		return m.directPriceFn(ctx, pair)
	}

	return decimal.Decimal{}, false, nil
}

// tableSource resolves pairs from a fixed symbol->price table and
// records every lookup it serves
type tableSource struct {
	prices  map[string]string
	lookups []string
}

func (m *tableSource) DirectPrice(_ context.Context, pair string) (decimal.Decimal, bool, error) {
	m.lookups = append(m.lookups, pair)

	raw, ok := m.prices[pair]
	if !ok {
		return decimal.Decimal{}, false, nil
	}

	return decimal.RequireFromString(raw), true, nil
}
