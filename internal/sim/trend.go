package sim

import "math/rand"

// Trend holds the current directional regime: a bias in {-1, 0, 1} and a
// strength in [0, 1] that decays geometrically until the regime is redrawn.
type Trend struct {
	Bias     int
	Strength float64
}

// Advance moves the regime forward one tick. With probability p.TrendProb
// the bias is redrawn uniformly from {-1, 0, 1} and the strength uniformly
// from [0.3, 0.8]; otherwise the strength decays and the bias is kept.
func (t *Trend) Advance(p Params, rng *rand.Rand) {
	if rng.Float64() < p.TrendProb {
		t.Bias = rng.Intn(3) - 1
		t.Strength = 0.3 + rng.Float64()*0.5
		return
	}
	t.Strength *= 0.98
}
