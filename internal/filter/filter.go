// Package filter implements the free-text project search.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"rfa-explorer/internal/domain"
)

// fold case-folds s and strips every '@'.
func fold(c cases.Caser, s string) string {
	return strings.ReplaceAll(c.String(s), "@", "")
}

// Filter returns the projects whose name contains query, ignoring case and
// '@' on both sides. An empty query returns projects unchanged.
func Filter(projects []domain.Project, query string) []domain.Project {
	query = strings.TrimSpace(query)
	if query == "" {
		return projects
	}

	caser := cases.Fold()
	q := fold(caser, query)

	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(fold(caser, p.ProjectName), q) {
			out = append(out, p)
		}
	}
	return out
}
