// Package orders generates random rows for the simulated order-table
// ticker. Like the quote table it is stateless randomness; no order ever
// matches or persists.
package orders

import (
	"math/rand"
	"time"

	"feedsim/internal/model"
	"feedsim/internal/quotes"
)

// Generate produces n random order rows priced near each symbol's quote
// base. Side, size, and instrument are drawn uniformly.
func Generate(rng *rand.Rand, n int, now time.Time) []model.Order {
	out := make([]model.Order, n)
	for i := 0; i < n; i++ {
		inst := quotes.Table[rng.Intn(len(quotes.Table))]
		side := "buy"
		if rng.Intn(2) == 1 {
			side = "sell"
		}
		pct := (rng.Float64()*2 - 1) * 0.01
		out[i] = model.Order{
			Symbol: inst.Symbol,
			Side:   side,
			Price:  model.Round2(inst.Base * (1 + pct)),
			Qty:    int64(rng.Intn(990) + 10),
			Time:   now.Unix(),
		}
	}
	return out
}
