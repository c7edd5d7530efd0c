package explorer

import (
	"context"

	"rfa-explorer/internal/avatar"
	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/filter"
	"rfa-explorer/internal/metrics"
	"rfa-explorer/internal/pricing"
	"rfa-explorer/internal/ranking"
)

// TableQuery selects and orders table rows.
type TableQuery struct {
	Query string
	Sort  ranking.SortKey
	Dir   ranking.Direction
}

// TableRow is one rendered table line.
type TableRow struct {
	Rank     *int           `json:"rank"` // nil renders as "-"
	Project  domain.Project `json:"project"`
	USDValue *float64       `json:"usdValue"` // nil when amount or price is unknown
	Initials string         `json:"initials"`
}

// TableView is the table endpoint payload.
type TableView struct {
	Rows      []TableRow `json:"rows"`
	Total     int        `json:"total"` // size of the unfiltered dataset
	BeraPrice float64    `json:"beraPrice"`
}

// Table ranks the full dataset, then filters and sorts for display.
// Ranks are not affected by the filter.
func (s *Service) Table(ctx context.Context, q TableQuery) TableView {
	projects := s.loadProjects(ctx)
	ranks := ranking.DenseRanks(projects)
	price := s.BeraPrice(ctx)

	if q.Sort == "" {
		q.Sort = ranking.SortByAmount
	}
	if q.Dir == "" {
		q.Dir = ranking.Desc
	}
	shown := ranking.Sort(filter.Filter(projects, q.Query), q.Sort, q.Dir)

	rows := make([]TableRow, 0, len(shown))
	for _, p := range shown {
		row := TableRow{Project: p, Initials: avatar.Initials(p.TwitterHandle)}
		if r, ok := ranks.Lookup(p.ProjectName); ok {
			row.Rank = &r
		}
		if p.Known() && price > 0 {
			usd := p.BeraAmount * price
			row.USDValue = &usd
		}
		rows = append(rows, row)
	}

	return TableView{Rows: rows, Total: len(projects), BeraPrice: price}
}

// Analytics returns the summary with USD values at the current price.
func (s *Service) Analytics(ctx context.Context) metrics.Summary {
	return metrics.Compute(s.loadProjects(ctx)).WithPrice(s.BeraPrice(ctx))
}

// BGTView is the wrapper premium payload.
type BGTView struct {
	Window       pricing.Window       `json:"range"`
	Denomination pricing.Denomination `json:"denomination"`
	Wrappers     []domain.WrapperInfo `json:"wrappers"`
	Chart        []domain.ChartRow    `json:"chart"`
	FetchedAt    int64                `json:"fetchedAt"`
}

// Wrappers builds premiums and the joined chart for window, expressed in
// denom. Without a snapshot every price is 0 and every premium null.
func (s *Service) Wrappers(ctx context.Context, window pricing.Window, denom pricing.Denomination) BGTView {
	snap := s.Snapshot(ctx)
	var (
		current map[string]float64
		history map[string][]domain.PricePoint
	)
	view := BGTView{Window: window, Denomination: denom}
	if snap != nil {
		current, history = snap.Current, snap.History
		view.FetchedAt = snap.FetchedAt
	}

	now := s.now()
	windowed := make(map[string][]domain.PricePoint, len(s.tokens))
	for _, t := range s.tokens {
		windowed[t.Key] = pricing.FilterWindow(history[t.Key], window, now)
	}

	view.Wrappers = pricing.BuildWrappers(s.tokens, current, windowed)

	keys := domain.TokenKeys(s.tokens)
	view.Chart = pricing.JoinSeries(windowed, keys)
	if denom == pricing.DenomBera {
		view.Chart = pricing.Denominate(view.Chart, windowed[domain.BaselineKey], keys)
	}
	return view
}
