package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlipSentinel/internal/model"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func iptr(v int) *int        { return &v }

// widgetInputs is the canonical single-item market: a 1000-limit "Widget"
// trading 100/110 with healthy volume on both windows.
func widgetInputs() Inputs {
	return Inputs{
		Mapping: map[int]model.CatalogEntry{
			100: {ID: 100, Name: "Widget", BuyLimit: i64(1000)},
		},
		Latest: map[int]model.LatestPrice{
			100: {High: i64(110), Low: i64(100)},
		},
		FiveMin: map[int]model.AggregateEntry{
			100: {AvgHighPrice: f64(110), AvgLowPrice: f64(100), HighVolume: i64(500), LowVolume: i64(600)},
		},
		OneHour: map[int]model.AggregateEntry{
			100: {AvgHighPrice: f64(100), AvgLowPrice: f64(90), HighVolume: i64(4000), LowVolume: i64(5000)},
		},
	}
}

func TestCompute_WidgetScenario(t *testing.T) {
	res := Compute(widgetInputs(), Overrides{})
	require.Len(t, res.Recommendations, 1)

	rec := res.Recommendations[0]
	assert.Equal(t, 100, rec.ItemID)
	assert.Equal(t, "Widget", rec.ItemName)
	assert.Equal(t, int64(101), rec.BuyPrice)
	assert.Equal(t, int64(109), rec.SellPrice)
	assert.Equal(t, int64(2), rec.TaxPerUnit)
	assert.Equal(t, int64(107), rec.NetSellPerUnit)
	assert.Equal(t, int64(6), rec.ProfitPerUnit)
	assert.Equal(t, int64(500), rec.ThinVol5m)
	assert.Equal(t, int64(4000), rec.ThinVol1h)

	// qtyTarget 1500 clamped into [500, min(4500, maxQty)]; the 1000 buy
	// limit is the binding cap here.
	assert.Equal(t, int64(1000), rec.Quantity)
	assert.Equal(t, int64(6000), rec.TotalProfit)
	assert.InDelta(t, 10.0, rec.EstBuyMin, 1e-9)
	assert.InDelta(t, 10.0, rec.EstSellMin, 1e-9)

	// 7.9% spread is over the 6% threshold and thin5=500 is below the 800
	// needed for the override, so the item is a near miss, not eligible.
	assert.False(t, rec.Eligible)
	assert.Contains(t, rec.Notes, "spread wide (7.9%)")
}

func TestCompute_MissingSeriesYieldsEmpty(t *testing.T) {
	full := widgetInputs()

	cases := map[string]Inputs{
		"all absent":     {},
		"no mapping":     {Latest: full.Latest, FiveMin: full.FiveMin, OneHour: full.OneHour},
		"no latest":      {Mapping: full.Mapping, FiveMin: full.FiveMin, OneHour: full.OneHour},
		"no five minute": {Mapping: full.Mapping, Latest: full.Latest, OneHour: full.OneHour},
		"no one hour":    {Mapping: full.Mapping, Latest: full.Latest, FiveMin: full.FiveMin},
	}
	for name, in := range cases {
		res := Compute(in, Overrides{})
		assert.NotNil(t, res.Recommendations, name)
		assert.Empty(t, res.Recommendations, name)
		assert.Equal(t, DefaultParams(), res.Params, name)
	}
}

func TestCompute_SkipsItemsMissingFromAnySeries(t *testing.T) {
	in := widgetInputs()
	// Item 200 exists only in the 5-minute series.
	in.FiveMin[200] = model.AggregateEntry{AvgHighPrice: f64(50), AvgLowPrice: f64(40), HighVolume: i64(900), LowVolume: i64(900)}

	res := Compute(in, Overrides{})
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, 100, res.Recommendations[0].ItemID)
}

func TestCompute_AbsoluteLiquidityFloor(t *testing.T) {
	in := widgetInputs()
	e := in.FiveMin[100]
	e.HighVolume = i64(19) // below the absolute floor of 20
	in.FiveMin[100] = e

	res := Compute(in, Overrides{})
	assert.Empty(t, res.Recommendations)

	// Every surviving candidate respects both floors.
	res = Compute(widgetInputs(), Overrides{})
	for _, rec := range res.Recommendations {
		assert.GreaterOrEqual(t, rec.ThinVol5m, DefaultParams().AbsMinThin5m)
		assert.GreaterOrEqual(t, rec.ThinVol1h, DefaultParams().AbsMinThin1h)
	}
}

func TestCompute_NonPositiveProfitDiscarded(t *testing.T) {
	in := widgetInputs()
	e := in.FiveMin[100]
	// buy 101, sell 103, tax 2: profit per unit is exactly zero.
	e.AvgLowPrice = f64(100)
	e.AvgHighPrice = f64(104)
	in.FiveMin[100] = e

	res := Compute(in, Overrides{})
	assert.Empty(t, res.Recommendations)
}

func TestCompute_NoPositiveSpreadDiscarded(t *testing.T) {
	in := widgetInputs()
	e := in.FiveMin[100]
	e.AvgLowPrice = f64(100)
	e.AvgHighPrice = f64(101) // sell floor(100) <= buy floor(101)
	in.FiveMin[100] = e

	res := Compute(in, Overrides{})
	assert.Empty(t, res.Recommendations)
}

func TestCompute_LatestPriceFallback(t *testing.T) {
	in := widgetInputs()
	in.FiveMin[100] = model.AggregateEntry{HighVolume: i64(500), LowVolume: i64(600)}

	res := Compute(in, Overrides{})
	require.Len(t, res.Recommendations, 1)

	rec := res.Recommendations[0]
	assert.Equal(t, int64(101), rec.BuyPrice)
	assert.Equal(t, int64(109), rec.SellPrice)
	// No 5-minute average high means no momentum signal.
	assert.Zero(t, rec.BreakoutScore)
}

func TestTaxPerUnit_LinearAndCapRegions(t *testing.T) {
	assert.Equal(t, int64(2), taxPerUnit(100, 0.02, 5_000_000))
	assert.Equal(t, int64(5_000_000), taxPerUnit(1_000_000_000, 0.02, 5_000_000))
	// Exactly at the cap boundary.
	assert.Equal(t, int64(5_000_000), taxPerUnit(250_000_000, 0.02, 5_000_000))
}

func TestCompute_QuantityNeverExceedsCaps(t *testing.T) {
	p := DefaultParams()
	res := Compute(widgetInputs(), Overrides{})
	require.Len(t, res.Recommendations, 1)

	rec := res.Recommendations[0]
	budget := int64(float64(p.Cash) * p.AllocPct)
	exposure := int64(float64(p.Cash) * p.MaxPerItemExposure)
	spendable := budget
	if exposure < spendable {
		spendable = exposure
	}
	assert.LessOrEqual(t, rec.Quantity, spendable/rec.BuyPrice)
	assert.LessOrEqual(t, rec.Quantity, *rec.BuyLimit)
}

func TestCompute_BudgetNearMiss(t *testing.T) {
	// 50k cash affords 99 units, far below the 500 needed for a 5-minute
	// fill, so the item surfaces flagged rather than vanishing.
	res := Compute(widgetInputs(), Overrides{Cash: i64(50_000)})
	require.Len(t, res.Recommendations, 1)

	rec := res.Recommendations[0]
	assert.Equal(t, int64(99), rec.Quantity)
	assert.False(t, rec.Eligible)
	assert.Contains(t, rec.Notes, "budget too small to size qty for >=5m fills")
	// 99 units fill in under a minute, outside the leg window.
	assert.Contains(t, rec.Notes, "time window miss (buy=1.0m, sell=1.0m)")
}

func TestCompute_ZeroCashYieldsNothing(t *testing.T) {
	res := Compute(widgetInputs(), Overrides{Cash: i64(0)})
	assert.Empty(t, res.Recommendations)
}

func TestCompute_SpreadOverride(t *testing.T) {
	in := Inputs{
		Mapping: map[int]model.CatalogEntry{
			7: {ID: 7, Name: "Hot item"},
		},
		Latest: map[int]model.LatestPrice{
			7: {High: i64(110), Low: i64(100)},
		},
		FiveMin: map[int]model.AggregateEntry{
			// 7.9% spread, but thin5=1200 and spike 1.2x confirm it.
			7: {AvgHighPrice: f64(110), AvgLowPrice: f64(100), HighVolume: i64(1200), LowVolume: i64(1300)},
		},
		OneHour: map[int]model.AggregateEntry{
			7: {AvgHighPrice: f64(108), AvgLowPrice: f64(98), HighVolume: i64(12000), LowVolume: i64(13000)},
		},
	}

	res := Compute(in, Overrides{})
	require.Len(t, res.Recommendations, 1)

	rec := res.Recommendations[0]
	assert.True(t, rec.Eligible)
	assert.Contains(t, rec.Notes, "wide spread but volume-confirmed (spike=1.20x)")
}

func TestCompute_SpreadHardCapRejectsEvenConfirmed(t *testing.T) {
	in := Inputs{
		Mapping: map[int]model.CatalogEntry{
			7: {ID: 7, Name: "Too wide"},
		},
		Latest: map[int]model.LatestPrice{
			7: {High: i64(120), Low: i64(100)},
		},
		FiveMin: map[int]model.AggregateEntry{
			// 17.8% spread: over the 12% hard cap no confirmation helps.
			7: {AvgHighPrice: f64(120), AvgLowPrice: f64(100), HighVolume: i64(1200), LowVolume: i64(1300)},
		},
		OneHour: map[int]model.AggregateEntry{
			7: {AvgHighPrice: f64(118), AvgLowPrice: f64(98), HighVolume: i64(12000), LowVolume: i64(13000)},
		},
	}

	res := Compute(in, Overrides{})
	require.Len(t, res.Recommendations, 1)
	assert.False(t, res.Recommendations[0].Eligible)
}

func multiItemInputs() Inputs {
	in := Inputs{
		Mapping: map[int]model.CatalogEntry{},
		Latest:  map[int]model.LatestPrice{},
		FiveMin: map[int]model.AggregateEntry{},
		OneHour: map[int]model.AggregateEntry{},
	}
	// Narrow-spread, fully eligible items with increasing profit.
	for i, avgHigh := range []float64{105, 106, 107, 108} {
		id := 10 + i
		in.Mapping[id] = model.CatalogEntry{ID: id, Name: "Item"}
		in.Latest[id] = model.LatestPrice{High: i64(int64(avgHigh)), Low: i64(100)}
		in.FiveMin[id] = model.AggregateEntry{
			AvgHighPrice: f64(avgHigh), AvgLowPrice: f64(100),
			HighVolume: i64(500), LowVolume: i64(600),
		}
		in.OneHour[id] = model.AggregateEntry{
			AvgHighPrice: f64(avgHigh), AvgLowPrice: f64(100),
			HighVolume: i64(5000), LowVolume: i64(6000),
		}
	}
	return in
}

func TestCompute_SortedByScoreAndTruncated(t *testing.T) {
	res := Compute(multiItemInputs(), Overrides{})
	require.Len(t, res.Recommendations, 4)
	for i := 1; i < len(res.Recommendations); i++ {
		assert.GreaterOrEqual(t, res.Recommendations[i-1].Score, res.Recommendations[i].Score)
	}

	res = Compute(multiItemInputs(), Overrides{TopN: iptr(2)})
	require.Len(t, res.Recommendations, 2)
	// The two widest-margin items survive the cut.
	assert.Equal(t, 13, res.Recommendations[0].ItemID)
	assert.Equal(t, 12, res.Recommendations[1].ItemID)
}

func TestCompute_Idempotent(t *testing.T) {
	in := multiItemInputs()
	first := Compute(in, Overrides{})
	second := Compute(in, Overrides{})
	assert.Equal(t, first, second)
}

func TestOverrides_Apply(t *testing.T) {
	p := Overrides{
		Cash:         i64(42),
		AllocPct:     f64(0.5),
		TopN:         iptr(3),
		MinThinVol1h: i64(777),
	}.Apply(DefaultParams())

	assert.Equal(t, int64(42), p.Cash)
	assert.Equal(t, 0.5, p.AllocPct)
	assert.Equal(t, 3, p.TopN)
	assert.Equal(t, int64(777), p.MinThinVol1h)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultParams().TaxRate, p.TaxRate)
	assert.Equal(t, DefaultParams().MaxSpreadPct, p.MaxSpreadPct)
}
