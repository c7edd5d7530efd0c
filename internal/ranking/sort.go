package ranking

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"rfa-explorer/internal/domain"
)

// SortKey selects the column used for ordering.
type SortKey string

// Direction is the sort direction.
type Direction string

const (
	SortByName   SortKey = "name"
	SortByAmount SortKey = "amount"

	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortKey accepts both short names and JSON field names.
// Anything else yields SortByAmount.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "projectname":
		return SortByName
	default:
		return SortByAmount
	}
}

// ParseDirection returns Desc for anything other than "asc".
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Sort returns a new slice ordered by key and dir; the input is not modified.
//
// For amount ordering, unconfirmed (zero) allocations always sort after
// confirmed ones, whatever the direction. Pairs of zeros and pairs of equal
// amounts fall back to name ascending.
func Sort(projects []domain.Project, key SortKey, dir Direction) []domain.Project {
	out := make([]domain.Project, len(projects))
	copy(out, projects)

	// collate.Collator keeps internal buffers, so one per call.
	coll := collate.New(language.English)
	byName := func(a, b domain.Project) int {
		return coll.CompareString(a.ProjectName, b.ProjectName)
	}

	var less func(a, b domain.Project) bool
	switch key {
	case SortByName:
		less = func(a, b domain.Project) bool {
			c := byName(a, b)
			if dir == Asc {
				return c < 0
			}
			return c > 0
		}
	default:
		less = func(a, b domain.Project) bool {
			aKnown, bKnown := a.Known(), b.Known()
			switch {
			case !aKnown && !bKnown:
				return byName(a, b) < 0
			case !aKnown:
				return false
			case !bKnown:
				return true
			case a.BeraAmount == b.BeraAmount:
				return byName(a, b) < 0
			case dir == Asc:
				return a.BeraAmount < b.BeraAmount
			default:
				return a.BeraAmount > b.BeraAmount
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// Default orders projects the way the projects endpoint serves them.
func Default(projects []domain.Project) []domain.Project {
	return Sort(projects, SortByAmount, Desc)
}
