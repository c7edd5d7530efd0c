package metrics

import (
	"math"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/ranking"
)

// Compute builds the analytics summary for projects. It never fails:
// an empty set yields zero values and empty slices.
func Compute(projects []domain.Project) Summary {
	s := Summary{
		ProjectCount: len(projects),
		PieData:      []Share{},
		Top:          []Share{},
		Others:       OthersBucket{Top: []Share{}},
	}

	known := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		s.TotalAllocation += p.BeraAmount
		if !p.Known() {
			s.UnknownCount++
			continue
		}
		known = append(known, p)
		switch {
		case p.BeraAmount >= LargeTierMin:
			s.Tiers.Large++
		case p.BeraAmount >= MediumTierMin:
			s.Tiers.Medium++
		default:
			s.Tiers.Small++
		}
	}
	s.KnownCount = len(known)
	s.AverageAllocation = safeDiv(s.TotalAllocation, float64(s.KnownCount))

	// Same order as the table so ties line up across views.
	for _, p := range ranking.Default(known) {
		s.PieData = append(s.PieData, Share{
			Name:          p.ProjectName,
			TwitterHandle: p.TwitterHandle,
			Amount:        p.BeraAmount,
			Percentage:    percentOf(p.BeraAmount, s.TotalAllocation),
		})
	}

	split := min(TopN, len(s.PieData))
	s.Top = append(s.Top, s.PieData[:split]...)
	s.Others = others(s.PieData[split:], s.TotalAllocation)

	return s
}

func others(rest []Share, total float64) OthersBucket {
	b := OthersBucket{Count: len(rest), Top: []Share{}}
	for i, sh := range rest {
		b.Total += sh.Amount
		if i < TopN {
			b.Top = append(b.Top, sh)
		} else {
			b.Remaining++
			b.RemainingTotal += sh.Amount
		}
	}
	b.Percentage = percentOf(b.Total, total)
	return b
}

// percentOf returns part/total*100, or 0 for an empty total.
func percentOf(part, total float64) float64 {
	return safeDiv(part, total) * 100
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a / b
	if !finite(r) {
		return 0
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
