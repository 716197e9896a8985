package model

import (
	"encoding/json"
	"math"
)

// Candle represents one OHLC aggregate over a fixed wall-clock duration.
// Prices are rounded to 2 decimal places before a candle leaves the engine.
type Candle struct {
	Time  int64   `json:"time"` // bucket open time, Unix seconds (UTC)
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}

// Round2 rounds a price to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
