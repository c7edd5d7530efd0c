package domain

// PricePoint is one historical price observation for a token.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // Unix timestamp in seconds
	Price     float64 `json:"price"`     // USD price
	UpdatedAt int64   `json:"updatedAt"` // when the upstream last refreshed this point
}

// WrapperInfo is derived per request and never stored.
type WrapperInfo struct {
	Key              string       `json:"key"`
	Name             string       `json:"name"`
	Symbol           string       `json:"symbol"`
	Address          string       `json:"address"`
	WebsiteURL       string       `json:"websiteUrl,omitempty"`
	LatestPrice      float64      `json:"latestPrice"`
	PremiumPercent   *float64     `json:"premiumPercent"` // nil when the baseline is unavailable
	IsBaseline       bool         `json:"isBaseline"`
	HistoricalPrices []PricePoint `json:"historicalPrices"`
}

// ChartRow is one timestamp of the joined multi-token price chart.
// Values holds one entry per token key; missing points are 0.
type ChartRow struct {
	Timestamp int64              `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

// PriceSnapshot is the result of one price refresh.
type PriceSnapshot struct {
	Current   map[string]float64      `json:"current"`   // keyed by token key
	History   map[string][]PricePoint `json:"history"`   // keyed by token key
	FetchedAt int64                   `json:"fetchedAt"` // Unix seconds
}

// Price returns the current price for key, or 0 if unknown.
func (s *PriceSnapshot) Price(key string) float64 {
	if s == nil || s.Current == nil {
		return 0
	}
	return s.Current[key]
}
