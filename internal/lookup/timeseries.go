package lookup

import (
	"errors"
	"sort"

	"rfa-explorer/internal/domain"
)

// ErrNoPriceData is returned when a series has no points.
var ErrNoPriceData = errors.New("no price data available")

// PriceAt returns the price at or before target (Unix seconds).
// Points must be sorted by timestamp ascending.
// If no point is at or before target, returns the first available price.
// Returns ErrNoPriceData if the slice is empty.
func PriceAt(target int64, prices []domain.PricePoint) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoPriceData
	}

	// index of the first point after target
	i := sort.Search(len(prices), func(i int) bool { return prices[i].Timestamp > target })
	if i == 0 {
		return prices[0].Price, nil
	}
	return prices[i-1].Price, nil
}

// Latest returns the most recent point of a series sorted ascending.
func Latest(prices []domain.PricePoint) (domain.PricePoint, error) {
	if len(prices) == 0 {
		return domain.PricePoint{}, ErrNoPriceData
	}
	return prices[len(prices)-1], nil
}
