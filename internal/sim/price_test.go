package sim

import (
	"math/rand"
	"testing"
)

func testParams() Params {
	return Params{
		BasePrice:       150,
		Volatility:      0.01,
		TrendProb:       0.02,
		ShockProb:       0.05,
		ReversionFactor: 0.5,
	}
}

func TestProcess_Deterministic(t *testing.T) {
	const n = 1000

	run := func(seed int64) []float64 {
		p := NewProcess(testParams(), rand.New(rand.NewSource(seed)))
		out := make([]float64, n)
		for i := range out {
			out[i] = p.Next()
		}
		return out
	}

	a := run(42)
	b := run(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := run(43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}
}

func TestProcess_DegenerateParamsHoldBase(t *testing.T) {
	p := NewProcess(Params{BasePrice: 150}, rand.New(rand.NewSource(1)))
	for i := 0; i < 10000; i++ {
		if got := p.Next(); got != 150 {
			t.Fatalf("call %d: got %v, want exactly 150", i, got)
		}
	}
}

func TestProcess_ClampBounds(t *testing.T) {
	// Extreme volatility forces the clamp on nearly every tick.
	params := Params{BasePrice: 100, Volatility: 5, ShockProb: 0.5}
	p := NewProcess(params, rand.New(rand.NewSource(7)))

	for i := 0; i < 5000; i++ {
		got := p.Next()
		if got < 50 || got > 200 {
			t.Fatalf("tick %d: price %v outside [50, 200]", i, got)
		}
	}
}

func TestProcess_RoundsToTwoDecimals(t *testing.T) {
	p := NewProcess(testParams(), rand.New(rand.NewSource(3)))
	for i := 0; i < 1000; i++ {
		got := p.Next()
		cents := got * 100
		if diff := cents - float64(int64(cents+0.5)); diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("tick %d: price %v not rounded to 2 decimals", i, got)
		}
	}
}

func TestTrend_RedrawRanges(t *testing.T) {
	// TrendProb=1 redraws on every advance.
	params := Params{TrendProb: 1}
	rng := rand.New(rand.NewSource(9))

	var tr Trend
	for i := 0; i < 1000; i++ {
		tr.Advance(params, rng)
		if tr.Bias < -1 || tr.Bias > 1 {
			t.Fatalf("bias %d outside {-1,0,1}", tr.Bias)
		}
		if tr.Strength < 0.3 || tr.Strength > 0.8 {
			t.Fatalf("strength %v outside [0.3, 0.8]", tr.Strength)
		}
	}
}

func TestTrend_DecayKeepsBias(t *testing.T) {
	// TrendProb=0 never redraws: strength decays geometrically, bias holds.
	tr := Trend{Bias: 1, Strength: 0.5}
	rng := rand.New(rand.NewSource(11))

	prev := tr.Strength
	for i := 0; i < 100; i++ {
		tr.Advance(Params{}, rng)
		if tr.Bias != 1 {
			t.Fatalf("bias changed without a redraw")
		}
		want := prev * 0.98
		if tr.Strength != want {
			t.Fatalf("step %d: strength %v, want %v", i, tr.Strength, want)
		}
		prev = tr.Strength
	}
}
