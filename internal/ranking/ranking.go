// Package ranking assigns dense ranks to allocations and orders them for display.
package ranking

import (
	"sort"

	"rfa-explorer/internal/domain"
)

// Ranks maps a project name to its dense rank. Only projects with a
// confirmed allocation are present.
type Ranks map[string]int

// Lookup returns the rank for name. ok is false for unranked projects.
func (r Ranks) Lookup(name string) (int, bool) {
	rank, ok := r[name]
	return rank, ok
}

// DenseRanks ranks projects with amount > 0 by amount descending.
// Equal amounts share a rank and the next distinct amount takes rank+1.
func DenseRanks(projects []domain.Project) Ranks {
	known := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.Known() {
			known = append(known, p)
		}
	}

	sort.SliceStable(known, func(i, j int) bool {
		return known[i].BeraAmount > known[j].BeraAmount
	})

	ranks := make(Ranks, len(known))
	rank := 0
	for i, p := range known {
		if i == 0 || p.BeraAmount < known[i-1].BeraAmount {
			rank++
		}
		ranks[p.ProjectName] = rank
	}
	return ranks
}
