// Package metrics computes summary analytics over an allocation set.
package metrics

// TopN is the number of projects shown individually in the distribution.
const TopN = 10

// Tier thresholds in BERA.
const (
	LargeTierMin  = 100_000.0
	MediumTierMin = 50_000.0
)

// Tiers counts confirmed allocations by size band.
type Tiers struct {
	Large  int `json:"large"`  // >= 100k
	Medium int `json:"medium"` // [50k, 100k)
	Small  int `json:"small"`  // (0, 50k)
}

// Share is one project's slice of the total allocation.
type Share struct {
	Name          string  `json:"name"`
	TwitterHandle string  `json:"twitterHandle"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage"`
}

// OthersBucket summarizes confirmed projects outside the top N.
type OthersBucket struct {
	Count          int     `json:"count"`
	Total          float64 `json:"total"`
	Percentage     float64 `json:"percentage"`
	Top            []Share `json:"top"`
	Remaining      int     `json:"remaining"`
	RemainingTotal float64 `json:"remainingTotal"`
}

// Summary is the full analytics view of one dataset.
type Summary struct {
	ProjectCount      int          `json:"projectCount"`
	KnownCount        int          `json:"knownCount"`
	UnknownCount      int          `json:"unknownCount"`
	TotalAllocation   float64      `json:"totalAllocation"`
	AverageAllocation float64      `json:"averageAllocation"`
	Tiers             Tiers        `json:"tiers"`
	PieData           []Share      `json:"pieData"`
	Top               []Share      `json:"top"`
	Others            OthersBucket `json:"others"`

	// Populated by WithPrice; zero when no price is available.
	BeraPrice  float64 `json:"beraPrice"`
	TotalUSD   float64 `json:"totalUsd"`
	AverageUSD float64 `json:"averageUsd"`
}

// WithPrice returns a copy of s with USD values at the given BERA price.
// A non-positive price leaves the USD values at zero.
func (s Summary) WithPrice(price float64) Summary {
	if price <= 0 || !finite(price) {
		s.BeraPrice, s.TotalUSD, s.AverageUSD = 0, 0, 0
		return s
	}
	s.BeraPrice = price
	s.TotalUSD = s.TotalAllocation * price
	s.AverageUSD = s.AverageAllocation * price
	return s
}
