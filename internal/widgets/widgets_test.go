package widgets

import (
	"math/rand"
	"testing"
)

func TestGenerate_Shape(t *testing.T) {
	p := Generate(rand.New(rand.NewSource(19)))

	if len(p.Gainers) != 3 || len(p.Losers) != 3 {
		t.Fatalf("gainers=%d losers=%d, want 3 each", len(p.Gainers), len(p.Losers))
	}
	if len(p.Indexes) != 3 {
		t.Fatalf("indexes: got %d, want 3", len(p.Indexes))
	}

	// Gainers are sorted by change descending; every gainer beats every loser.
	for i := 1; i < len(p.Gainers); i++ {
		if p.Gainers[i].Change > p.Gainers[i-1].Change {
			t.Error("gainers not sorted by change descending")
		}
	}
	for _, g := range p.Gainers {
		for _, l := range p.Losers {
			if g.Change < l.Change {
				t.Errorf("gainer %s (%v) below loser %s (%v)",
					g.Symbol, g.Change, l.Symbol, l.Change)
			}
		}
	}
}
