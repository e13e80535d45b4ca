package model

// FlipRecommendation is one scored buy-low/sell-high candidate produced by
// the engine. It is constructed once per engine call and never mutated.
type FlipRecommendation struct {
	ItemID   int    `json:"itemId"`
	ItemName string `json:"itemName"`
	BuyLimit *int64 `json:"buyLimit"`

	BuyPrice  int64 `json:"buyPrice"`
	SellPrice int64 `json:"sellPrice"`
	Quantity  int64 `json:"quantity"`

	TaxPerUnit     int64 `json:"taxPerUnit"`
	NetSellPerUnit int64 `json:"netSellPerUnit"`
	ProfitPerUnit  int64 `json:"profitPerUnit"`
	TotalProfit    int64 `json:"totalProfit"`

	// Estimated minutes to fill each leg at the current 5-minute pace.
	EstBuyMin  float64 `json:"estBuyMin"`
	EstSellMin float64 `json:"estSellMin"`

	ThinVol5m int64 `json:"thinVol5m"`
	ThinVol1h int64 `json:"thinVol1h"`

	BreakoutScore float64 `json:"breakoutScore"`
	Score         float64 `json:"score"`

	Eligible bool     `json:"eligible"`
	Notes    []string `json:"notes"`
}
