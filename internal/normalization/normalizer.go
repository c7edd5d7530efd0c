// Package normalization turns raw allocation rows into typed projects.
package normalization

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"rfa-explorer/internal/domain"
)

// numericPrefix matches the longest leading decimal number of a string,
// with an optional exponent. Anything after the match is ignored, so
// "12.5k" reads as 12.5 and "1,000" reads as 1.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// Stats counts the rows NormalizeAll discarded.
type Stats struct {
	Input      int
	EmptyName  int
	Duplicates int
}

// Dropped returns the total number of discarded rows.
func (s Stats) Dropped() int {
	return s.EmptyName + s.Duplicates
}

// ParseAmount reads an allocation amount from free text.
// Empty, unparseable, negative and non-finite values all become 0.
func ParseAmount(text string) float64 {
	prefix := numericPrefix.FindString(strings.TrimSpace(text))
	if prefix == "" {
		return 0
	}

	d, err := decimal.NewFromString(prefix)
	if err != nil || d.IsNegative() {
		return 0
	}

	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// Normalize converts a single raw record. It never fails.
func Normalize(rec domain.RawRecord) domain.Project {
	name := strings.TrimSpace(rec.ProjectName)
	return domain.Project{
		ProjectName:   name,
		BeraAmount:    ParseAmount(rec.BeraAmount),
		TwitterHandle: domain.HandleFromName(name),
	}
}

// NormalizeAll converts records in input order.
// Rows without a name are dropped, and a name seen twice keeps its first row.
func NormalizeAll(records []domain.RawRecord) ([]domain.Project, Stats) {
	stats := Stats{Input: len(records)}
	projects := make([]domain.Project, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		p := Normalize(rec)
		if p.ProjectName == "" {
			stats.EmptyName++
			continue
		}
		if _, dup := seen[p.ProjectName]; dup {
			stats.Duplicates++
			continue
		}
		seen[p.ProjectName] = struct{}{}
		projects = append(projects, p)
	}

	return projects, stats
}
