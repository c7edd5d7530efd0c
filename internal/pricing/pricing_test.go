package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfa-explorer/internal/domain"
)

func TestPremium(t *testing.T) {
	p, ok := Premium(2, 3)
	require.True(t, ok)
	assert.InDelta(t, 50.0, p, 1e-9)

	p, ok = Premium(2, 1)
	require.True(t, ok)
	assert.InDelta(t, -50.0, p, 1e-9)

	_, ok = Premium(0, 3)
	assert.False(t, ok, "zero baseline")

	_, ok = Premium(-1, 3)
	assert.False(t, ok, "negative baseline")

	_, ok = Premium(2, math.NaN())
	assert.False(t, ok, "NaN price")

	_, ok = Premium(math.Inf(1), 1)
	assert.False(t, ok, "infinite baseline")
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, Window7D, w)

	w, err = ParseWindow("30D")
	require.NoError(t, err)
	assert.Equal(t, Window30D, w)
	assert.Equal(t, 30, w.Days())

	_, err = ParseWindow("1y")
	assert.Error(t, err)
}

func TestFilterWindow_UnsortedInput(t *testing.T) {
	now := time.Unix(100*secondsPerDay, 0)
	day := func(ago int) int64 { return now.Unix() - int64(ago)*secondsPerDay }

	points := []domain.PricePoint{
		{Timestamp: day(1), Price: 3},
		{Timestamp: day(40), Price: 1},
		{Timestamp: day(5), Price: 2},
	}

	got := FilterWindow(points, Window7D, now)
	require.Len(t, got, 2)
	assert.Equal(t, day(5), got[0].Timestamp)
	assert.Equal(t, day(1), got[1].Timestamp)

	got = FilterWindow(points, Window30D, now)
	assert.Len(t, got, 2)

	// Input untouched
	assert.Equal(t, day(1), points[0].Timestamp)
}

func TestFilterWindow_BoundaryInclusive(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	edge := now.Unix() - 7*secondsPerDay

	got := FilterWindow([]domain.PricePoint{{Timestamp: edge}, {Timestamp: edge - 1}}, Window7D, now)
	require.Len(t, got, 1)
	assert.Equal(t, edge, got[0].Timestamp)
}

func TestJoinSeries_FillsZeros(t *testing.T) {
	series := map[string][]domain.PricePoint{
		"bera": {{Timestamp: 20, Price: 2}, {Timestamp: 10, Price: 1}},
		"ibgt": {{Timestamp: 20, Price: 3}},
	}

	rows := JoinSeries(series, []string{"bera", "ibgt", "lbgt"})
	require.Len(t, rows, 2)

	assert.Equal(t, int64(10), rows[0].Timestamp)
	assert.Equal(t, map[string]float64{"bera": 1, "ibgt": 0, "lbgt": 0}, rows[0].Values)
	assert.Equal(t, int64(20), rows[1].Timestamp)
	assert.Equal(t, map[string]float64{"bera": 2, "ibgt": 3, "lbgt": 0}, rows[1].Values)
}

func TestJoinSeries_Empty(t *testing.T) {
	assert.Empty(t, JoinSeries(nil, []string{"bera"}))
}

func TestDenominate(t *testing.T) {
	rows := []domain.ChartRow{
		{Timestamp: 10, Values: map[string]float64{"bera": 2, "ibgt": 3}},
		{Timestamp: 25, Values: map[string]float64{"bera": 4, "ibgt": 2}},
	}
	baseline := []domain.PricePoint{{Timestamp: 20, Price: 4}, {Timestamp: 10, Price: 2}}

	got := Denominate(rows, baseline, []string{"bera", "ibgt"})
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0].Values["bera"], 1e-9)
	assert.InDelta(t, 1.5, got[0].Values["ibgt"], 1e-9)
	assert.InDelta(t, 0.5, got[1].Values["ibgt"], 1e-9)

	// Original rows are not modified
	assert.Equal(t, 3.0, rows[0].Values["ibgt"])
}

func TestDenominate_MissingBaseline(t *testing.T) {
	rows := []domain.ChartRow{{Timestamp: 10, Values: map[string]float64{"ibgt": 3}}}

	got := Denominate(rows, nil, []string{"ibgt"})
	assert.Equal(t, 0.0, got[0].Values["ibgt"])

	got = Denominate(rows, []domain.PricePoint{{Timestamp: 5, Price: 0}}, []string{"ibgt"})
	assert.Equal(t, 0.0, got[0].Values["ibgt"])
}

func TestBuildWrappers(t *testing.T) {
	current := map[string]float64{"bera": 2, "ibgt": 3}
	history := map[string][]domain.PricePoint{
		"lbgt": {{Timestamp: 2, Price: 1.8}, {Timestamp: 1, Price: 1.5}},
	}

	got := BuildWrappers(domain.TrackedTokens(), current, history)
	require.Len(t, got, 4)

	byKey := make(map[string]domain.WrapperInfo)
	for _, w := range got {
		byKey[w.Key] = w
	}

	bera := byKey["bera"]
	assert.True(t, bera.IsBaseline)
	require.NotNil(t, bera.PremiumPercent)
	assert.Equal(t, 0.0, *bera.PremiumPercent)

	ibgt := byKey["ibgt"]
	require.NotNil(t, ibgt.PremiumPercent)
	assert.InDelta(t, 50.0, *ibgt.PremiumPercent, 1e-9)

	// Falls back to latest history point
	lbgt := byKey["lbgt"]
	assert.Equal(t, 1.8, lbgt.LatestPrice)
	require.NotNil(t, lbgt.PremiumPercent)
	assert.InDelta(t, -10.0, *lbgt.PremiumPercent, 1e-9)
	assert.Equal(t, int64(1), lbgt.HistoricalPrices[0].Timestamp)

	stbgt := byKey["stbgt"]
	assert.Equal(t, 0.0, stbgt.LatestPrice)
	assert.Nil(t, stbgt.PremiumPercent)
}

func TestBuildWrappers_NoBaseline(t *testing.T) {
	got := BuildWrappers(domain.TrackedTokens(), map[string]float64{"ibgt": 3}, nil)
	for _, w := range got {
		assert.Nil(t, w.PremiumPercent, w.Key)
	}
}
