package model

// CatalogEntry holds the static facts about one tradable item.
// BuyLimit is the 4-hour exchange buy limit; nil means unlimited.
type CatalogEntry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Members  bool   `json:"members"`
	BuyLimit *int64 `json:"buyLimit"`
}

// LatestPrice is the most recent observed trade on each side of the book.
// All fields may be nil for items that have never traded on that side.
type LatestPrice struct {
	High     *int64 `json:"high"`
	HighTime *int64 `json:"highTime"`
	Low      *int64 `json:"low"`
	LowTime  *int64 `json:"lowTime"`
}

// AggregateEntry holds windowed trading stats (5-minute or 1-hour window).
type AggregateEntry struct {
	AvgHighPrice *float64 `json:"avgHighPrice"`
	AvgLowPrice  *float64 `json:"avgLowPrice"`
	HighVolume   *int64   `json:"highPriceVolume"`
	LowVolume    *int64   `json:"lowPriceVolume"`
}

// ItemView joins all four cached series for a single item id.
// Series that lack the id contribute nil fields.
type ItemView struct {
	ID       int             `json:"id"`
	Name     *string         `json:"name"`
	Members  *bool           `json:"members"`
	BuyLimit *int64          `json:"buyLimit"`
	Latest   *LatestPrice    `json:"latest"`
	FiveMin  *AggregateEntry `json:"fiveMin"`
	OneHour  *AggregateEntry `json:"oneHour"`
}
