package model

// Message type discriminators carried by every broadcast payload.
const (
	TypeChartSnapshot = "chart_snapshot"
	TypeChartUpdate   = "chart_update"
	TypeQuotes        = "quotes"
	TypeOrders        = "orders"
)

// ChartMessage carries candle data to subscribers.
// A snapshot holds the full history oldest-first with the in-progress
// candle last; an update holds exactly one candle.
type ChartMessage struct {
	Type    string   `json:"type"`
	Candles []Candle `json:"candles"`
}

// QuotesMessage carries the full quote table.
type QuotesMessage struct {
	Type   string  `json:"type"`
	Quotes []Quote `json:"quotes"`
}

// OrdersMessage carries a batch of simulated order rows.
type OrdersMessage struct {
	Type   string  `json:"type"`
	Orders []Order `json:"orders"`
}
