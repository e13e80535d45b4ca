package engine

// Params is the tunable policy for one engine invocation. A Params value is
// built per call by applying caller overrides onto DefaultParams and is never
// modified afterwards.
type Params struct {
	Cash               int64   `json:"cash"`
	AllocPct           float64 `json:"allocPct"`
	MaxPerItemExposure float64 `json:"maxPerItemExposure"`

	// Strict fill-time requirements, minutes per leg.
	MinLegMin float64 `json:"minLegMin"`
	MaxLegMin float64 `json:"maxLegMin"`

	TaxRate float64 `json:"taxRate"`
	TaxCap  int64   `json:"taxCap"`

	// Safety filters a candidate must pass to be eligible.
	MinThinVol5m int64   `json:"minThinVol5m"`
	MinThinVol1h int64   `json:"minThinVol1h"`
	MaxSpreadPct float64 `json:"maxSpreadPct"`

	// Absolute liquidity floor: items below this never surface at all,
	// not even as near misses.
	AbsMinThin5m int64 `json:"absMinThin5m"`
	AbsMinThin1h int64 `json:"absMinThin1h"`

	TopN int `json:"topN"`

	// Spread override: a spread above MaxSpreadPct is still allowed when
	// liquidity strongly confirms it, up to an absolute hard cap.
	MaxSpreadPctHard         float64 `json:"maxSpreadPctHard"`
	SpreadWideMinThinVol5m   int64   `json:"spreadWideMinThinVol5m"`
	SpreadWideMinThinVol1h   int64   `json:"spreadWideMinThinVol1h"`
	SpreadWideMinVolumeSpike float64 `json:"spreadWideMinVolumeSpike"`
}

// DefaultParams returns the fixed baseline policy.
func DefaultParams() Params {
	return Params{
		Cash:               5_000_000,
		AllocPct:           0.2,
		MaxPerItemExposure: 0.25,

		MinLegMin: 5,
		MaxLegMin: 45,
		TaxRate:   0.02,
		TaxCap:    5_000_000,

		MinThinVol5m: 200,
		MinThinVol1h: 3000,
		MaxSpreadPct: 0.06,

		AbsMinThin5m: 20,
		AbsMinThin1h: 200,

		TopN: 25,

		MaxSpreadPctHard:         0.12,
		SpreadWideMinThinVol5m:   800,
		SpreadWideMinThinVol1h:   12000,
		SpreadWideMinVolumeSpike: 1.05,
	}
}

// Overrides carries optional per-call parameter replacements. Nil fields
// leave the default untouched.
type Overrides struct {
	Cash               *int64   `json:"cash,omitempty"`
	AllocPct           *float64 `json:"allocPct,omitempty"`
	MaxPerItemExposure *float64 `json:"maxPerItemExposure,omitempty"`

	MinLegMin *float64 `json:"minLegMin,omitempty"`
	MaxLegMin *float64 `json:"maxLegMin,omitempty"`

	TaxRate *float64 `json:"taxRate,omitempty"`
	TaxCap  *int64   `json:"taxCap,omitempty"`

	MinThinVol5m *int64   `json:"minThinVol5m,omitempty"`
	MinThinVol1h *int64   `json:"minThinVol1h,omitempty"`
	MaxSpreadPct *float64 `json:"maxSpreadPct,omitempty"`

	AbsMinThin5m *int64 `json:"absMinThin5m,omitempty"`
	AbsMinThin1h *int64 `json:"absMinThin1h,omitempty"`

	TopN *int `json:"topN,omitempty"`

	MaxSpreadPctHard         *float64 `json:"maxSpreadPctHard,omitempty"`
	SpreadWideMinThinVol5m   *int64   `json:"spreadWideMinThinVol5m,omitempty"`
	SpreadWideMinThinVol1h   *int64   `json:"spreadWideMinThinVol1h,omitempty"`
	SpreadWideMinVolumeSpike *float64 `json:"spreadWideMinVolumeSpike,omitempty"`
}

// Apply merges the overrides onto p and returns the result.
func (o Overrides) Apply(p Params) Params {
	if o.Cash != nil {
		p.Cash = *o.Cash
	}
	if o.AllocPct != nil {
		p.AllocPct = *o.AllocPct
	}
	if o.MaxPerItemExposure != nil {
		p.MaxPerItemExposure = *o.MaxPerItemExposure
	}
	if o.MinLegMin != nil {
		p.MinLegMin = *o.MinLegMin
	}
	if o.MaxLegMin != nil {
		p.MaxLegMin = *o.MaxLegMin
	}
	if o.TaxRate != nil {
		p.TaxRate = *o.TaxRate
	}
	if o.TaxCap != nil {
		p.TaxCap = *o.TaxCap
	}
	if o.MinThinVol5m != nil {
		p.MinThinVol5m = *o.MinThinVol5m
	}
	if o.MinThinVol1h != nil {
		p.MinThinVol1h = *o.MinThinVol1h
	}
	if o.MaxSpreadPct != nil {
		p.MaxSpreadPct = *o.MaxSpreadPct
	}
	if o.AbsMinThin5m != nil {
		p.AbsMinThin5m = *o.AbsMinThin5m
	}
	if o.AbsMinThin1h != nil {
		p.AbsMinThin1h = *o.AbsMinThin1h
	}
	if o.TopN != nil {
		p.TopN = *o.TopN
	}
	if o.MaxSpreadPctHard != nil {
		p.MaxSpreadPctHard = *o.MaxSpreadPctHard
	}
	if o.SpreadWideMinThinVol5m != nil {
		p.SpreadWideMinThinVol5m = *o.SpreadWideMinThinVol5m
	}
	if o.SpreadWideMinThinVol1h != nil {
		p.SpreadWideMinThinVol1h = *o.SpreadWideMinThinVol1h
	}
	if o.SpreadWideMinVolumeSpike != nil {
		p.SpreadWideMinVolumeSpike = *o.SpreadWideMinVolumeSpike
	}
	return p
}
