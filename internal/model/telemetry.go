package model

// Heartbeat is a liveness ping from a bridge client.
type Heartbeat struct {
	AccountHash    string `json:"accountHash"`
	TS             int64  `json:"ts"`
	PluginVersion  string `json:"pluginVersion,omitempty"`
	ClientRevision *int   `json:"clientRevision,omitempty"`
	World          *int   `json:"world,omitempty"`
}

// Wallet reports the client's spendable cash.
type Wallet struct {
	AccountHash    string `json:"accountHash"`
	TS             int64  `json:"ts"`
	Coins          *int64 `json:"coins,omitempty"`
	PlatinumTokens *int64 `json:"platinumTokens,omitempty"`
	CashTotal      int64  `json:"cashTotal"`
}

// Offer mirrors one exchange offer slot as reported by the bridge.
type Offer struct {
	AccountHash string `json:"accountHash"`
	TS          int64  `json:"ts"`
	Slot        int    `json:"slot"`
	ItemID      int    `json:"itemId"`
	ItemName    string `json:"itemName,omitempty"`
	Side        string `json:"side,omitempty"`
	Status      string `json:"status,omitempty"`
	Price       *int64 `json:"price,omitempty"`
	QtyTotal    *int64 `json:"qtyTotal,omitempty"`
	QtyFilled   *int64 `json:"qtyFilled,omitempty"`
}

// Session aggregates the latest telemetry for one account.
type Session struct {
	AccountHash string     `json:"accountHash"`
	LastSeenTS  int64      `json:"lastSeenTs"`
	Heartbeat   *Heartbeat `json:"heartbeat,omitempty"`
	Wallet      *Wallet    `json:"wallet,omitempty"`
	Offers      []Offer    `json:"offers,omitempty"`
}
