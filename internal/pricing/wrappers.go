package pricing

import (
	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/lookup"
)

// BuildWrappers assembles the per-token view. current and history are keyed
// by token key. A token without a current quote falls back to the latest
// point of its history. The baseline token always reports a 0 premium when
// its own price is known.
func BuildWrappers(tokens []domain.Token, current map[string]float64, history map[string][]domain.PricePoint) []domain.WrapperInfo {
	latest := func(key string) float64 {
		if p, ok := current[key]; ok && finite(p) && p > 0 {
			return p
		}
		if last, err := lookup.Latest(SortPoints(history[key])); err == nil {
			return last.Price
		}
		return 0
	}

	baseline := latest(domain.BaselineKey)

	out := make([]domain.WrapperInfo, 0, len(tokens))
	for _, t := range tokens {
		price := latest(t.Key)
		points := SortPoints(history[t.Key])

		info := domain.WrapperInfo{
			Key:              t.Key,
			Name:             t.Name,
			Symbol:           t.Symbol,
			Address:          t.Address,
			WebsiteURL:       t.WebsiteURL,
			LatestPrice:      price,
			IsBaseline:       t.Key == domain.BaselineKey,
			HistoricalPrices: points,
		}
		if price > 0 {
			info.PremiumPercent = premiumPtr(baseline, price)
		}
		out = append(out, info)
	}
	return out
}
