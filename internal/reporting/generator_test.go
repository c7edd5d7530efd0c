package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/logging"
	"rfa-explorer/internal/storage/memory"
)

type stubSource struct{}

func (stubSource) Kind() string { return "csv" }

func (stubSource) Load(context.Context) ([]domain.RawRecord, error) {
	return []domain.RawRecord{
		{ProjectName: "@big", BeraAmount: "150000"},
		{ProjectName: "@mid", BeraAmount: "60000"},
		{ProjectName: "@pipe|name", BeraAmount: "10"},
		{ProjectName: "@comma, inc", BeraAmount: ""},
	}, nil
}

type stubPrices struct{}

func (stubPrices) CurrentPrices(context.Context) (map[string]float64, error) {
	return map[string]float64{
		"0x0000000000000000000000000000000000000000": 2,
		"0xac03caba51e17c86c921e1f6cbfbdc91f8bb2e6b": 2.2,
	}, nil
}

func (stubPrices) HistoricalPrices(context.Context, []string) (map[string][]domain.PricePoint, error) {
	return nil, nil
}

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newGenerator(t *testing.T, withPrices bool) *Generator {
	t.Helper()
	opts := explorer.Options{
		Source:    stubSource{},
		Snapshots: memory.NewPriceSnapshotStore(),
		Logger:    logging.Discard(),
	}
	if withPrices {
		opts.Prices = stubPrices{}
	}
	svc := explorer.New(opts)
	if withPrices {
		if err := svc.RefreshPrices(context.Background()); err != nil {
			t.Fatalf("RefreshPrices: %v", err)
		}
	}
	return NewGenerator(svc).WithClock(func() time.Time { return fixedTime })
}

func TestGenerate(t *testing.T) {
	r := newGenerator(t, true).Generate(context.Background())

	if !r.GeneratedAt.Equal(fixedTime) {
		t.Errorf("expected fixed clock, got %v", r.GeneratedAt)
	}
	if r.Source != "csv" {
		t.Errorf("expected csv source, got %s", r.Source)
	}
	if len(r.DatasetID) != 64 {
		t.Errorf("expected dataset fingerprint, got %q", r.DatasetID)
	}
	if r.BeraPrice != 2 {
		t.Errorf("expected BERA price 2, got %v", r.BeraPrice)
	}
	if len(r.Table.Rows) != 4 || r.Table.Rows[0].Project.ProjectName != "@big" {
		t.Errorf("unexpected table rows %+v", r.Table.Rows)
	}
	if r.Summary.Tiers.Large != 1 || r.Summary.Tiers.Medium != 1 || r.Summary.Tiers.Small != 1 {
		t.Errorf("unexpected tiers %+v", r.Summary.Tiers)
	}
	if len(r.Wrappers) != 4 {
		t.Errorf("expected 4 wrappers, got %d", len(r.Wrappers))
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(newGenerator(t, true).Generate(context.Background()))

	for _, want := range []string{
		"# RFA Allocations Report",
		"Generated: 2025-03-01T12:00:00Z",
		"| Total Allocation (BERA) | 210010 |",
		"| BERA Price (USD) | 2.0000 |",
		"| Large | >= 100,000 | 1 |",
		"| 1 | @big | 150000 |",
		"| iBGT | 2.2000 | +10.00% |",
		"| stBGT | 0.0000 | n/a |",
		`@pipe\|name`,
		"| - | @comma, inc | TBA | - |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_Offline(t *testing.T) {
	md := RenderMarkdown(newGenerator(t, false).Generate(context.Background()))

	if !strings.Contains(md, "| BERA Price (USD) | unavailable |") {
		t.Error("expected unavailable price")
	}
	if strings.Contains(md, "Total Allocation (USD)") {
		t.Error("USD totals must be omitted without a price")
	}
}

func TestRenderCSV(t *testing.T) {
	r := newGenerator(t, true).Generate(context.Background())
	out := RenderCSV(r.Table.Rows)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "rank,project_name,twitter_handle,bera_amount,usd_value" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "1,@big,big,150000,300000.00" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if lines[4] != `,"@comma, inc","comma, inc",0,` {
		t.Errorf("unexpected unranked row %q", lines[4])
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{0: "0", 12.5: "12.5", 100: "100", 0.000001: "0.000001"}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Errorf("formatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
