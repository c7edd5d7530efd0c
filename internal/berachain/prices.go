package berachain

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"rfa-explorer/internal/domain"
)

const currentPricesQuery = `query GetCurrentPrices {
  tokenGetCurrentPrices(chains: [BERACHAIN]) {
    address
    price
    updatedAt
  }
}`

const historicalPricesQuery = `query GetHistoricalPrices($addresses: [String!]!) {
  tokenGetHistoricalPrices(addresses: $addresses, chain: BERACHAIN, range: THIRTY_DAY) {
    address
    prices {
      price
      timestamp
      updatedAt
    }
  }
}`

// flexInt decodes an integer sent either as a JSON number or as a string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse integer %q: %w", b, err)
	}
	*f = flexInt(v)
	return nil
}

type currentPrice struct {
	Address   string  `json:"address"`
	Price     float64 `json:"price"`
	UpdatedAt flexInt `json:"updatedAt"`
}

type currentPricesData struct {
	Prices []currentPrice `json:"tokenGetCurrentPrices"`
}

type historicalPrice struct {
	Price     float64 `json:"price"`
	Timestamp flexInt `json:"timestamp"`
	UpdatedAt flexInt `json:"updatedAt"`
}

type tokenHistory struct {
	Address string            `json:"address"`
	Prices  []historicalPrice `json:"prices"`
}

type historicalPricesData struct {
	Tokens []tokenHistory `json:"tokenGetHistoricalPrices"`
}

// CurrentPrices returns the latest USD price of every Berachain token the
// API knows, keyed by lower-case address.
func (c *Client) CurrentPrices(ctx context.Context) (map[string]float64, error) {
	data, err := query[currentPricesData](ctx, c, "GetCurrentPrices", currentPricesQuery, nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(data.Prices))
	for _, p := range data.Prices {
		out[strings.ToLower(p.Address)] = p.Price
	}
	return out, nil
}

// HistoricalPrices returns up to thirty days of prices for addresses, keyed
// by lower-case address. Points are returned in server order.
func (c *Client) HistoricalPrices(ctx context.Context, addresses []string) (map[string][]domain.PricePoint, error) {
	lower := make([]string, len(addresses))
	for i, a := range addresses {
		lower[i] = strings.ToLower(a)
	}

	vars := map[string]interface{}{"addresses": lower}
	data, err := query[historicalPricesData](ctx, c, "GetHistoricalPrices", historicalPricesQuery, vars)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.PricePoint, len(data.Tokens))
	for _, tok := range data.Tokens {
		points := make([]domain.PricePoint, 0, len(tok.Prices))
		for _, p := range tok.Prices {
			points = append(points, domain.PricePoint{
				Timestamp: int64(p.Timestamp),
				Price:     p.Price,
				UpdatedAt: int64(p.UpdatedAt),
			})
		}
		out[strings.ToLower(tok.Address)] = points
	}
	return out, nil
}
