// Package pricing derives wrapper premiums and chart series from token prices.
package pricing

import (
	"math"
)

// Premium returns the percentage premium of price over baseline.
// ok is false when the baseline is not positive or an input is not finite.
func Premium(baseline, price float64) (float64, bool) {
	if !finite(baseline) || !finite(price) || baseline <= 0 {
		return 0, false
	}
	return (price - baseline) / baseline * 100, true
}

// premiumPtr is Premium for JSON output, where unavailable renders as null.
func premiumPtr(baseline, price float64) *float64 {
	p, ok := Premium(baseline, price)
	if !ok {
		return nil
	}
	return &p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
