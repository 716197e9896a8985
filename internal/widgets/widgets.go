// Package widgets builds the homepage widgets payload: top gainers and
// losers plus a few index values. It is served over HTTP only and shares
// no state with the feed engine.
package widgets

import (
	"math/rand"
	"sort"

	"feedsim/internal/model"
	"feedsim/internal/quotes"
)

// Index is one simulated market index row.
type Index struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// Payload is the /api/widgets response body.
type Payload struct {
	Gainers []model.Quote `json:"gainers"`
	Losers  []model.Quote `json:"losers"`
	Indexes []Index       `json:"indexes"`
}

var indexBases = []struct {
	Name string
	Base float64
}{
	{"FSX 100", 7412.50},
	{"Composite", 15230.80},
	{"Small Cap", 2140.25},
}

// Generate jitters a fresh quote table, sorts it by change, and packages
// the extremes with simulated index values.
func Generate(rng *rand.Rand) Payload {
	qs := quotes.Generate(rng)
	sort.Slice(qs, func(i, j int) bool { return qs[i].Change > qs[j].Change })

	top := 3
	if len(qs) < top {
		top = len(qs)
	}
	gainers := make([]model.Quote, top)
	losers := make([]model.Quote, top)
	copy(gainers, qs[:top])
	copy(losers, qs[len(qs)-top:])

	idx := make([]Index, len(indexBases))
	for i, b := range indexBases {
		pct := (rng.Float64()*2 - 1) * 0.01
		idx[i] = Index{
			Name:   b.Name,
			Value:  model.Round2(b.Base * (1 + pct)),
			Change: model.Round2(pct * 100),
		}
	}

	return Payload{Gainers: gainers, Losers: losers, Indexes: idx}
}
