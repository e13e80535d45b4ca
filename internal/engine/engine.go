package engine

import (
	"fmt"
	"math"
	"sort"

	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/model"
)

// Inputs is the consistent view of the market cache an engine call works on.
// A nil map means the series has never been fetched.
type Inputs struct {
	Mapping map[int]model.CatalogEntry
	Latest  map[int]model.LatestPrice
	FiveMin map[int]model.AggregateEntry
	OneHour map[int]model.AggregateEntry
}

// InputsFromCache grabs one snapshot pointer per series. The maps are the
// snapshots' own immutable data, so the view stays coherent for the whole
// call even while refresh tasks install newer snapshots.
func InputsFromCache(c *marketcache.Cache) Inputs {
	var in Inputs
	if snap := c.Mapping.Get(); snap != nil {
		in.Mapping = snap.Data
	}
	if snap := c.Latest.Get(); snap != nil {
		in.Latest = snap.Data
	}
	if snap := c.FiveMin.Get(); snap != nil {
		in.FiveMin = snap.Data
	}
	if snap := c.OneHour.Get(); snap != nil {
		in.OneHour = snap.Data
	}
	return in
}

// Result is the engine output: the params actually used plus the ranked
// recommendation list.
type Result struct {
	Params          Params                     `json:"params"`
	Recommendations []model.FlipRecommendation `json:"recommendations"`
}

func clampI64(n, lo, hi int64) int64 {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}

// taxPerUnit computes the exchange tax on one unit sold at sellPrice.
func taxPerUnit(sellPrice int64, rate float64, cap int64) int64 {
	tax := int64(math.Floor(float64(sellPrice) * rate))
	if tax > cap {
		return cap
	}
	return tax
}

// thinVolume is the smaller side of a window's two-sided volume: a flip
// needs both a seller and a buyer, so the thin side caps throughput.
func thinVolume(e model.AggregateEntry) int64 {
	var high, low int64
	if e.HighVolume != nil {
		high = *e.HighVolume
	}
	if e.LowVolume != nil {
		low = *e.LowVolume
	}
	if high < low {
		return high
	}
	return low
}

// estFillMinutes estimates how long one leg of qty units takes to fill at
// the current 5-minute thin-volume pace.
func estFillMinutes(qty, thinVol5m int64) float64 {
	per5 := math.Max(1, float64(thinVol5m))
	return float64(qty) / per5 * 5
}

// volumeSpike annualizes the 5-minute thin rate to the 1-hour window's pace.
func volumeSpike(thin5m, thin1h int64) float64 {
	return float64(thin5m*12) / math.Max(1, float64(thin1h))
}

// breakoutScore blends short-term price momentum with the volume spike
// ratio into a 0..100 heuristic favouring items with rising demand.
func breakoutScore(avgHigh5m, avgHigh1h *float64, thin5m, thin1h int64) float64 {
	var h5, h1 float64
	if avgHigh5m != nil {
		h5 = *avgHigh5m
	}
	if avgHigh1h != nil {
		h1 = *avgHigh1h
	}
	if h5 <= 0 || h1 <= 0 {
		return 0
	}

	momentum := (h5 - h1) / h1
	spike := volumeSpike(thin5m, thin1h)

	score := momentum*200 + math.Log(spike+1)*15
	return math.Max(0, math.Min(100, score))
}

// quantityPick is the result of sizing a position for the fill-time window.
type quantityPick struct {
	qty          int64
	canHitWindow bool
}

// chooseQuantity sizes the position so each leg fills inside the configured
// time window, subject to budget, per-item exposure, and the 4-hour buy
// limit. When the budget cannot even sustain the fastest acceptable window
// the affordable quantity is returned with canHitWindow false so the item
// surfaces as a near miss instead of vanishing.
func chooseQuantity(p Params, thin5m, buyPrice int64, buyLimit *int64) quantityPick {
	budget := int64(math.Floor(float64(p.Cash) * p.AllocPct))
	exposureCap := int64(math.Floor(float64(p.Cash) * p.MaxPerItemExposure))

	spendable := budget
	if exposureCap < spendable {
		spendable = exposureCap
	}
	maxAffordable := spendable / buyPrice

	limitCap := int64(1_000_000_000)
	if buyLimit != nil {
		limitCap = *buyLimit
	}
	maxQty := maxAffordable
	if limitCap < maxQty {
		maxQty = limitCap
	}
	if maxQty < 0 {
		maxQty = 0
	}

	// minutes = qty/thin5m*5, so qty = thin5m*minutes/5.
	qtyMin := int64(math.Ceil(float64(thin5m) * p.MinLegMin / 5))
	qtyMax := int64(math.Floor(float64(thin5m) * p.MaxLegMin / 5))

	// Prefer roughly a 15-minute fill per leg.
	qtyTarget := int64(math.Round(float64(thin5m) * 15 / 5))

	if maxQty <= 0 {
		return quantityPick{qty: 0}
	}
	if maxQty < qtyMin {
		return quantityPick{qty: maxQty}
	}

	upper := qtyMax
	if maxQty < upper {
		upper = maxQty
	}
	return quantityPick{qty: clampI64(qtyTarget, qtyMin, upper), canHitWindow: true}
}

// Compute transforms the cached market view into scored, filtered, ranked
// flip candidates. It is pure: the same inputs and overrides always yield
// the same output, and it never returns an error. If any series is absent
// the recommendation list is empty.
func Compute(in Inputs, ov Overrides) Result {
	p := ov.Apply(DefaultParams())
	recs := make([]model.FlipRecommendation, 0)

	if in.Mapping == nil || in.Latest == nil || in.FiveMin == nil || in.OneHour == nil {
		return Result{Params: p, Recommendations: recs}
	}

	for itemID, e5 := range in.FiveMin {
		m, okM := in.Mapping[itemID]
		lat, okL := in.Latest[itemID]
		e1, okH := in.OneHour[itemID]
		if !okM || !okL || !okH {
			continue
		}

		thin5 := thinVolume(e5)
		thin1 := thinVolume(e1)

		// Absolute floor: near-zero liquidity never reaches scoring.
		if thin5 < p.AbsMinThin5m || thin1 < p.AbsMinThin1h {
			continue
		}

		// Prefer the 5-minute average, fall back to the latest trade.
		var buyBase, sellBase float64
		if e5.AvgLowPrice != nil {
			buyBase = *e5.AvgLowPrice
		} else if lat.Low != nil {
			buyBase = float64(*lat.Low)
		}
		if e5.AvgHighPrice != nil {
			sellBase = *e5.AvgHighPrice
		} else if lat.High != nil {
			sellBase = float64(*lat.High)
		}
		if buyBase <= 0 || sellBase <= 0 {
			continue
		}

		// Outbid the resting buy order by one, undercut the resting sell
		// order by one.
		buyPrice := int64(math.Floor(buyBase + 1))
		sellPrice := int64(math.Floor(sellBase - 1))
		if sellPrice <= buyPrice {
			continue
		}

		spreadPct := float64(sellPrice-buyPrice) / float64(buyPrice)

		tax := taxPerUnit(sellPrice, p.TaxRate, p.TaxCap)
		netSell := sellPrice - tax
		profitPerUnit := netSell - buyPrice
		if profitPerUnit <= 0 {
			continue
		}

		pick := chooseQuantity(p, thin5, buyPrice, m.BuyLimit)
		if pick.qty <= 0 {
			continue
		}

		estBuyMin := estFillMinutes(pick.qty, thin5)
		estSellMin := estFillMinutes(pick.qty, thin5)

		var notes []string

		liquidityOK := thin5 >= p.MinThinVol5m && thin1 >= p.MinThinVol1h
		if !liquidityOK {
			notes = append(notes, fmt.Sprintf("low liquidity (thin5=%d, thin1=%d)", thin5, thin1))
		}

		spike := volumeSpike(thin5, thin1)
		spreadWide := spreadPct > p.MaxSpreadPct
		spreadConfirmed := thin5 >= p.SpreadWideMinThinVol5m &&
			thin1 >= p.SpreadWideMinThinVol1h &&
			spike >= p.SpreadWideMinVolumeSpike

		spreadOK := !spreadWide
		if spreadWide {
			// A wide spread only survives with volume confirmation and
			// under the hard ceiling.
			spreadOK = spreadConfirmed && spreadPct <= p.MaxSpreadPctHard
			if spreadOK {
				notes = append(notes, fmt.Sprintf("wide spread but volume-confirmed (spike=%.2fx)", spike))
			} else {
				notes = append(notes, fmt.Sprintf("spread wide (%.1f%%)", spreadPct*100))
				if !spreadConfirmed {
					notes = append(notes, fmt.Sprintf("no volume confirmation (spike=%.2fx)", spike))
				}
			}
		}

		timeOK := estBuyMin >= p.MinLegMin && estBuyMin <= p.MaxLegMin &&
			estSellMin >= p.MinLegMin && estSellMin <= p.MaxLegMin
		if !timeOK {
			notes = append(notes, fmt.Sprintf("time window miss (buy=%.1fm, sell=%.1fm)", estBuyMin, estSellMin))
		}
		if !pick.canHitWindow {
			notes = append(notes, fmt.Sprintf("budget too small to size qty for >=%gm fills", p.MinLegMin))
		}

		bScore := breakoutScore(e5.AvgHighPrice, e1.AvgHighPrice, thin5, thin1)
		totalProfit := profitPerUnit * pick.qty
		profitPerMin := float64(totalProfit) / math.Max(1, estBuyMin+estSellMin)

		eligible := liquidityOK && spreadOK && timeOK

		// Eligible candidates rank first; near misses stay visible but
		// sink under stacked penalties.
		score := profitPerMin + bScore*2
		if !liquidityOK {
			score -= 500
		}
		if !spreadOK {
			score -= 250
		}
		if !timeOK {
			score -= 250
		}
		if !eligible {
			score -= 250
		}

		recs = append(recs, model.FlipRecommendation{
			ItemID:         itemID,
			ItemName:       m.Name,
			BuyLimit:       m.BuyLimit,
			BuyPrice:       buyPrice,
			SellPrice:      sellPrice,
			Quantity:       pick.qty,
			TaxPerUnit:     tax,
			NetSellPerUnit: netSell,
			ProfitPerUnit:  profitPerUnit,
			TotalProfit:    totalProfit,
			EstBuyMin:      estBuyMin,
			EstSellMin:     estSellMin,
			ThinVol5m:      thin5,
			ThinVol1h:      thin1,
			BreakoutScore:  bScore,
			Score:          score,
			Eligible:       eligible,
			Notes:          notes,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
	if p.TopN >= 0 && len(recs) > p.TopN {
		recs = recs[:p.TopN]
	}
	return Result{Params: p, Recommendations: recs}
}
