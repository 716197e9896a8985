package model

// Quote is one row of the simulated quote table.
type Quote struct {
	Symbol  string  `json:"symbol"`
	Company string  `json:"company"`
	Price   float64 `json:"price"`
	Change  float64 `json:"change"` // percent change vs base
	Volume  int64   `json:"volume"`
}

// Order is one row of the simulated order-table ticker.
type Order struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"` // "buy" | "sell"
	Price  float64 `json:"price"`
	Qty    int64   `json:"qty"`
	Time   int64   `json:"time"` // Unix seconds
}
