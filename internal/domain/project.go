package domain

import "strings"

// RawRecord is one allocation row as read from the external source.
// Both fields are unparsed text; the amount may be empty or non-numeric.
type RawRecord struct {
	ProjectName string // project_name column
	BeraAmount  string // bera_amount column
}

// Project is the canonical allocation entity.
type Project struct {
	ProjectName   string  `json:"projectName"`   // unique key within a dataset
	BeraAmount    float64 `json:"beraAmount"`    // 0 means "allocation not yet confirmed"
	TwitterHandle string  `json:"twitterHandle"` // ProjectName without its leading '@'
}

// Known reports whether the allocation amount is confirmed.
func (p Project) Known() bool {
	return p.BeraAmount > 0
}

// HandleFromName derives the social handle from a project name by removing
// the first '@'.
func HandleFromName(name string) string {
	return strings.Replace(name, "@", "", 1)
}
