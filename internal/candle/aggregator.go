// Package candle builds OHLC candles from a stream of simulated prices.
// The Aggregator keeps exactly one open candle, completes it when a
// wall-clock duration boundary passes, and appends the sealed copy to a
// bounded History. Time is always passed in by the caller so tests drive
// the clock directly.
package candle

import (
	"time"

	"feedsim/internal/model"
)

// Aggregator maintains the currently-open candle and the completed History.
// Not goroutine-safe: it is written by a single tick path (see the engine's
// single scheduling domain).
type Aggregator struct {
	duration time.Duration
	history  *History

	open     model.Candle
	openedAt time.Time
	started  bool
}

// New creates an aggregator producing candles of the given duration into a
// history bounded at capacity.
func New(duration time.Duration, capacity int) *Aggregator {
	return &Aggregator{
		duration: duration,
		history:  NewHistory(capacity),
	}
}

// IngestTick incorporates one price observation. If no candle is open, a
// new one opens with open=high=low=close=price; otherwise close tracks the
// price and high/low widen monotonically.
func (a *Aggregator) IngestTick(price float64, now time.Time) {
	if !a.started {
		a.open = model.Candle{
			Time:  now.Unix(),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
		a.openedAt = now
		a.started = true
		return
	}

	c := &a.open
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
}

// MaybeComplete seals the open candle if its duration has elapsed. The
// sealed candle is appended to History and a new candle opens at the
// sealed close. Returns the sealed candle and true when a completion
// happened.
func (a *Aggregator) MaybeComplete(now time.Time) (model.Candle, bool) {
	if !a.started || now.Sub(a.openedAt) < a.duration {
		return model.Candle{}, false
	}
	return a.complete(now), true
}

// complete seals the open candle at now and reopens at its close.
func (a *Aggregator) complete(now time.Time) model.Candle {
	sealed := a.open
	repair(&sealed)
	a.history.Push(sealed)

	a.open = model.Candle{
		Time:  now.Unix(),
		Open:  sealed.Close,
		High:  sealed.Close,
		Low:   sealed.Close,
		Close: sealed.Close,
	}
	a.openedAt = now
	return sealed
}

// repair widens high/low so that high >= max(open, close) and
// low <= min(open, close). Floating-point rounding can nudge the
// extremes below the body; the candle is corrected in place, never
// rejected.
func repair(c *model.Candle) {
	if c.High < c.Open {
		c.High = c.Open
	}
	if c.High < c.Close {
		c.High = c.Close
	}
	if c.Low > c.Open {
		c.Low = c.Open
	}
	if c.Low > c.Close {
		c.Low = c.Close
	}
}

// Open returns a copy of the in-progress candle, and false if none is open.
func (a *Aggregator) Open() (model.Candle, bool) {
	if !a.started {
		return model.Candle{}, false
	}
	return a.open, true
}

// History returns the completed-candle buffer.
func (a *Aggregator) History() *History { return a.history }

// Snapshot returns the completed history oldest-first with the in-progress
// candle as the last element.
func (a *Aggregator) Snapshot() []model.Candle {
	out := a.history.Candles()
	if a.started {
		out = append(out, a.open)
	}
	return out
}

// Bootstrap replays candles*ticksPer synthetic prices offline so History is
// non-empty before the first subscriber connects. Candle open times are
// backdated so the sequence ends at now, leaving a freshly opened candle
// seeded by the last synthetic close.
func (a *Aggregator) Bootstrap(next func() float64, candles, ticksPer int, now time.Time) {
	if candles <= 0 || ticksPer <= 0 {
		return
	}
	start := now.Add(-time.Duration(candles) * a.duration)
	for i := 0; i < candles; i++ {
		at := start.Add(time.Duration(i) * a.duration)
		for k := 0; k < ticksPer; k++ {
			a.IngestTick(next(), at)
		}
		a.complete(at.Add(a.duration))
	}
}
