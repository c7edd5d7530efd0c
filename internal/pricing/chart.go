package pricing

import (
	"fmt"
	"sort"
	"strings"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/lookup"
)

// Denomination selects the unit chart values are expressed in.
type Denomination string

const (
	DenomUSD  Denomination = "usd"
	DenomBera Denomination = "bera"
)

// ParseDenomination parses "usd" or "bera". Empty input yields DenomUSD.
func ParseDenomination(s string) (Denomination, error) {
	switch Denomination(strings.ToLower(strings.TrimSpace(s))) {
	case "", DenomUSD:
		return DenomUSD, nil
	case DenomBera:
		return DenomBera, nil
	default:
		return DenomUSD, fmt.Errorf("unknown denomination %q", s)
	}
}

// JoinSeries merges per-token series into one row per distinct timestamp,
// ascending. Every row carries a value for every key; a key without a
// point at that timestamp gets 0.
func JoinSeries(series map[string][]domain.PricePoint, keys []string) []domain.ChartRow {
	byTS := make(map[int64]map[string]float64)
	for _, key := range keys {
		for _, p := range series[key] {
			row, ok := byTS[p.Timestamp]
			if !ok {
				row = make(map[string]float64, len(keys))
				byTS[p.Timestamp] = row
			}
			row[key] = p.Price
		}
	}

	timestamps := make([]int64, 0, len(byTS))
	for ts := range byTS {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	rows := make([]domain.ChartRow, 0, len(timestamps))
	for _, ts := range timestamps {
		values := make(map[string]float64, len(keys))
		for _, key := range keys {
			values[key] = byTS[ts][key]
		}
		rows = append(rows, domain.ChartRow{Timestamp: ts, Values: values})
	}
	return rows
}

// Denominate re-expresses row values in units of the baseline token, using
// the baseline price at or before each row's timestamp. Rows are copied.
// Values become 0 where the baseline price is missing or zero.
func Denominate(rows []domain.ChartRow, baseline []domain.PricePoint, keys []string) []domain.ChartRow {
	sortedBase := SortPoints(baseline)

	out := make([]domain.ChartRow, len(rows))
	for i, row := range rows {
		base, err := lookup.PriceAt(row.Timestamp, sortedBase)
		if err != nil || !finite(base) || base <= 0 {
			base = 0
		}

		values := make(map[string]float64, len(keys))
		for _, key := range keys {
			if base == 0 {
				values[key] = 0
				continue
			}
			values[key] = row.Values[key] / base
		}
		out[i] = domain.ChartRow{Timestamp: row.Timestamp, Values: values}
	}
	return out
}
