package reporting

import (
	"time"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/metrics"
)

// Report is a point-in-time rendering of every explorer view.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Source      string
	DatasetID   string  // fingerprint of the rows in default order
	BeraPrice   float64 // 0 when prices were not fetched

	// Allocation table in default order, ranks included
	Table explorer.TableView

	// Summary analytics with USD values
	Summary metrics.Summary

	// BGT wrapper premiums (trailing 7 days)
	Wrappers []domain.WrapperInfo
}
