// Package sim generates a synthetic price series: a random walk with a
// short-lived trend regime, mean reversion toward a base price, and
// occasional shocks. All randomness flows through an injected rand source
// so the series is reproducible under a fixed seed.
package sim

import (
	"math/rand"

	"feedsim/internal/model"
)

// Params are the tunables of the price process. They are owned by the
// caller's configuration and never defaulted here.
type Params struct {
	BasePrice       float64
	Volatility      float64
	TrendProb       float64 // probability per tick of redrawing the trend regime
	ShockProb       float64 // probability per tick of a 3x shock on the random term
	ReversionFactor float64 // pull toward BasePrice
}

// Process produces the next simulated price from the last. It owns the
// trend regime and advances it on every tick before pricing.
type Process struct {
	params Params
	trend  Trend
	last   float64
	rng    *rand.Rand
}

// NewProcess creates a price process starting at the base price.
func NewProcess(params Params, rng *rand.Rand) *Process {
	return &Process{
		params: params,
		last:   params.BasePrice,
		rng:    rng,
	}
}

// Last returns the most recent price.
func (p *Process) Last() float64 { return p.last }

// Trend returns the current regime (for inspection; not a live reference).
func (p *Process) Trend() Trend { return p.trend }

// Next advances the trend regime and produces the next price:
// random walk + trend term + mean reversion, clamped to
// [base*0.5, base*2] and rounded to 2 decimals.
func (p *Process) Next() float64 {
	p.trend.Advance(p.params, p.rng)

	random := (p.rng.Float64()*2 - 1) * p.params.Volatility
	if p.rng.Float64() < p.params.ShockProb {
		// Shock multiplies the random term only, before the final clamp.
		random *= 3
	}

	trendTerm := float64(p.trend.Bias) * p.trend.Strength * p.params.Volatility * 0.5
	reversionTerm := -((p.last - p.params.BasePrice) / p.params.BasePrice) *
		p.params.ReversionFactor * p.params.Volatility

	next := p.last * (1 + random + trendTerm + reversionTerm)

	if lo := p.params.BasePrice * 0.5; next < lo {
		next = lo
	}
	if hi := p.params.BasePrice * 2; next > hi {
		next = hi
	}

	p.last = model.Round2(next)
	return p.last
}
