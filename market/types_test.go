package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTypes_ParseTradeDirection(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name      string
		token     string
		direction TradeDirection
		ok        bool
	}{
		{
			name:      "lowercase buy",
			token:     "buy",
			direction: DirectionBuy,
			ok:        true,
		},
		{
			name:      "mixed case sell",
			token:     "SeLL",
			direction: DirectionSell,
			ok:        true,
		},
		{
			name:      "padded token",
			token:     " buy ",
			direction: DirectionBuy,
			ok:        true,
		},
		{
			name:  "unknown token",
			token: "hold",
		},
		{
			name:  "empty token",
			token: "",
		},
	}

	for _, testCase := range testTable {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			direction, ok := ParseTradeDirection(testCase.token)

			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.direction, direction)
		})
	}
}

func TestTypes_SortOffersByPrice(t *testing.T) {
	t.Parallel()

	offer := func(name, price string) Offer {
		return Offer{
			DisplayName: name,
			Price:       decimal.RequireFromString(price),
			PriceRaw:    price,
		}
	}

	offers := []Offer{
		offer("c", "161.50"),
		offer("a", "160.00"),
		offer("b", "160.00"),
		offer("d", "159.90"),
	}

	SortOffersByPrice(offers)

	names := make([]string, 0, len(offers))
	for _, o := range offers {
		names = append(names, o.DisplayName)
	}

	// Equal prices keep provider order (a before b)
	assert.Equal(t, []string{"d", "a", "b", "c"}, names)
}
