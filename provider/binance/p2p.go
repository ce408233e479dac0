//nolint:tagliatelle // Binance API uses camel case
package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YonasGr/binance-p2p/market"
)

// DefaultP2PURL is the public Binance P2P advertisement search endpoint
const DefaultP2PURL = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"

// p2pSearchRequest is the request body for the Binance P2P API
type p2pSearchRequest struct {
	Page           int                   `json:"page"`
	Rows           int                   `json:"rows"`
	Asset          string                `json:"asset"`
	Fiat           string                `json:"fiat"`
	TradeType      market.TradeDirection `json:"tradeType"`
	ProMerchantAds bool                  `json:"proMerchantAds"`
	PublisherType  *string               `json:"publisherType"`
	TransAmount    string                `json:"transAmount,omitempty"`
}

// p2pSearchResponse is the response from the Binance P2P API
type p2pSearchResponse struct {
	Data []p2pItem `json:"data"`
}

type p2pItem struct {
	Adv        p2pAdv        `json:"adv"`
	Advertiser p2pAdvertiser `json:"advertiser"`
}

type p2pAdv struct {
	Price                string           `json:"price"`
	MinSingleTransAmount string           `json:"minSingleTransAmount"`
	MaxSingleTransAmount string           `json:"maxSingleTransAmount"`
	Fiat                 string           `json:"fiat"`
	Asset                string           `json:"asset"`
	TradeType            string           `json:"tradeType"`
	TradeMethods         []p2pTradeMethod `json:"tradeMethods"`
}

type p2pTradeMethod struct {
	TradeMethodName string `json:"tradeMethodName"`
	Identifier      string `json:"identifier"`
}

type p2pAdvertiser struct {
	NickName          string  `json:"nickName"`
	UserName          string  `json:"userName"`
	UserType          string  `json:"userType"`
	MonthOrderCount   int     `json:"monthOrderCount"`
	OrderCompleteRate float64 `json:"orderCompleteRate"`
}

// P2PClient searches P2P advertisements on Binance
type P2PClient struct {
	client *http.Client
	url    string
}

// NewP2PClient creates a new instance of the P2P search client
func NewP2PClient(url string, timeout time.Duration) *P2PClient {
	return &P2PClient{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// SearchOffers fetches one page of P2P offers matching the query and
// normalizes them into flat records. The result keeps provider order;
// sorting is the caller's responsibility.
//
// A well-formed response with no matching advertisements returns an
// empty slice and nil error. Transport failures, non-2xx statuses and
// undecodable bodies return a market.ErrUpstream wrapped error.
func (c *P2PClient) SearchOffers(ctx context.Context, query market.OfferQuery) ([]market.Offer, error) {
	reqBody := p2pSearchRequest{
		Page:           1,
		Rows:           query.Rows,
		Asset:          query.Asset,
		Fiat:           query.Fiat,
		TradeType:      query.Direction,
		ProMerchantAds: false,
		PublisherType:  nil,
		TransAmount:    query.TransAmount,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to execute POST request: %w", market.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: invalid status code received: %d", market.ErrUpstream, resp.StatusCode)
	}

	var apiResp p2pSearchResponse
	if err = json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: unable to decode response: %w", market.ErrUpstream, err)
	}

	offers := make([]market.Offer, 0, len(apiResp.Data))
	for _, item := range apiResp.Data {
		offers = append(offers, normalizeOffer(item))
	}

	return offers, nil
}

// normalizeOffer flattens one raw advertisement record.
// Missing provider fields map to zero values, never a crash
func normalizeOffer(item p2pItem) market.Offer {
	var (
		adv        = item.Adv
		advertiser = item.Advertiser
	)

	name := advertiser.NickName
	if name == "" {
		name = advertiser.UserName
	}

	// Malformed prices sort as zero; the raw string is kept for display
	price, _ := decimal.NewFromString(adv.Price)

	methods := make([]string, 0, len(adv.TradeMethods))

	for _, m := range adv.TradeMethods {
		switch {
		case m.TradeMethodName != "":
			methods = append(methods, m.TradeMethodName)
		case m.Identifier != "":
			methods = append(methods, m.Identifier)
		}
	}

	return market.Offer{
		Price:           price,
		PriceRaw:        adv.Price,
		MinAmount:       adv.MinSingleTransAmount,
		MaxAmount:       adv.MaxSingleTransAmount,
		Fiat:            adv.Fiat,
		Asset:           adv.Asset,
		Direction:       market.TradeDirection(adv.TradeType),
		PublisherType:   advertiser.UserType,
		DisplayName:     name,
		CompletedOrders: advertiser.MonthOrderCount,
		CompletionRate:  advertiser.OrderCompleteRate,
		PaymentMethods:  methods,
	}
}
