// Package reporting renders the explorer views to Markdown and CSV.
package reporting

import (
	"context"
	"time"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/idhash"
	"rfa-explorer/internal/pricing"
	"rfa-explorer/internal/ranking"
)

// Generator produces reports from the explorer service.
type Generator struct {
	svc *explorer.Service
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(svc *explorer.Service) *Generator {
	return &Generator{
		svc: svc,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate collects every view. It does not fetch prices; call
// RefreshPrices on the service first for USD values and premiums.
func (g *Generator) Generate(ctx context.Context) *Report {
	table := g.svc.Table(ctx, explorer.TableQuery{Sort: ranking.SortByAmount, Dir: ranking.Desc})
	bgt := g.svc.Wrappers(ctx, pricing.Window7D, pricing.DenomUSD)

	return &Report{
		GeneratedAt: g.now(),
		Source:      g.svc.SourceKind(),
		DatasetID:   datasetID(table),
		BeraPrice:   table.BeraPrice,
		Table:       table,
		Summary:     g.svc.Analytics(ctx),
		Wrappers:    bgt.Wrappers,
	}
}

func datasetID(table explorer.TableView) string {
	projects := make([]domain.Project, len(table.Rows))
	for i, row := range table.Rows {
		projects[i] = row.Project
	}
	return idhash.ComputeDatasetID(projects)
}
