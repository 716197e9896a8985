// Package quotes generates the simulated instrument quote table. The table
// is stateless: every generation starts from the fixed instrument list and
// applies independent random jitter, so nothing is retained between calls.
package quotes

import (
	"math/rand"

	"feedsim/internal/model"
)

// Instrument is one fixed entry of the quote table.
type Instrument struct {
	Symbol  string
	Company string
	Base    float64
}

// Table is the fixed instrument list the feed quotes against.
var Table = []Instrument{
	{"ACME", "Acme Holdings", 164.20},
	{"BLDR", "Boulder Dynamics", 88.75},
	{"CYGN", "Cygnus Aerospace", 412.30},
	{"DELT", "Delta Materials", 57.10},
	{"EMBR", "Ember Energy", 23.85},
	{"FLNT", "Flint Logistics", 131.40},
	{"GRNV", "Greenvale Foods", 74.60},
	{"HLCX", "Helix Biolabs", 296.15},
	{"IONQ", "Ionfield Systems", 45.90},
	{"JUNC", "Junction Retail", 112.05},
}

// Generate jitters every instrument's base price by up to ±2% and returns
// the resulting quote rows. Prices round to 2 decimals on the wire.
func Generate(rng *rand.Rand) []model.Quote {
	out := make([]model.Quote, len(Table))
	for i, inst := range Table {
		pct := (rng.Float64()*2 - 1) * 0.02
		price := model.Round2(inst.Base * (1 + pct))
		out[i] = model.Quote{
			Symbol:  inst.Symbol,
			Company: inst.Company,
			Price:   price,
			Change:  model.Round2(pct * 100),
			Volume:  int64(rng.Intn(900_000) + 100_000),
		}
	}
	return out
}
