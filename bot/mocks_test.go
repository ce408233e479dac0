package bot

import (
	"context"

	"github.com/YonasGr/binance-p2p/market"
)

type (
	searchOffersDelegate     func(context.Context, market.OfferQuery) ([]market.Offer, error)
	convertDelegate          func(context.Context, market.ConversionRequest) (*market.ConversionResult, error)
	coinInfoBySymbolDelegate func(context.Context, string) (*market.CoinInfo, error)
)

type mockOfferSearcher struct {
	searchOffersFn searchOffersDelegate
}

func (m *mockOfferSearcher) SearchOffers(
	ctx context.Context,
	query market.OfferQuery,
) ([]market.Offer, error) {
	if m.searchOffersFn != nil {
		return m.searchOffersFn(ctx, query)
	}

	return nil, nil
}

type mockConverter struct {
	convertFn convertDelegate
}

func (m *mockConverter) Convert(
	ctx context.Context,
	req market.ConversionRequest,
) (*market.ConversionResult, error) {
	if m.convertFn != nil {
		return m.convertFn(ctx, req)
	}

	return nil, nil
}

type mockCoinInfoSource struct {
	coinInfoBySymbolFn coinInfoBySymbolDelegate
}

func (m *mockCoinInfoSource) CoinInfoBySymbol(
	ctx context.Context,
	symbol string,
) (*market.CoinInfo, error) {
	if m.coinInfoBySymbolFn != nil {
		return m.coinInfoBySymbolFn(ctx, symbol)
	}

	return nil, nil
}

// capturingSend collects every reply a command emits
type capturingSend struct {
	replies []string
}

func (c *capturingSend) send(text string) {
	c.replies = append(c.replies, text)
}
