package candle

import (
	"math/rand"
	"testing"
	"time"

	"feedsim/internal/model"
	"feedsim/internal/sim"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestAggregator_OpensOnFirstTick(t *testing.T) {
	agg := New(time.Second, 10)

	if _, ok := agg.Open(); ok {
		t.Fatal("expected no open candle before any tick")
	}

	agg.IngestTick(101.50, t0)
	c, ok := agg.Open()
	if !ok {
		t.Fatal("expected an open candle after first tick")
	}
	if c.Open != 101.50 || c.High != 101.50 || c.Low != 101.50 || c.Close != 101.50 {
		t.Errorf("first tick should set open=high=low=close, got %+v", c)
	}
	if c.Time != t0.Unix() {
		t.Errorf("open time: got %d, want %d", c.Time, t0.Unix())
	}
}

func TestAggregator_HighLowMonotoneWithinCandle(t *testing.T) {
	agg := New(time.Minute, 10)
	rng := rand.New(rand.NewSource(5))

	agg.IngestTick(100, t0)
	prev, _ := agg.Open()
	for i := 1; i < 200; i++ {
		price := 100 + (rng.Float64()*2-1)*5
		agg.IngestTick(price, t0.Add(time.Duration(i)*100*time.Millisecond))
		c, _ := agg.Open()
		if c.High < prev.High {
			t.Fatalf("tick %d: high decreased %v -> %v", i, prev.High, c.High)
		}
		if c.Low > prev.Low {
			t.Fatalf("tick %d: low increased %v -> %v", i, prev.Low, c.Low)
		}
		if c.Close != price {
			t.Fatalf("tick %d: close %v does not track price %v", i, c.Close, price)
		}
		prev = c
	}
}

func TestAggregator_CompletesOnDurationBoundary(t *testing.T) {
	agg := New(time.Second, 10)

	agg.IngestTick(100, t0)
	agg.IngestTick(105, t0.Add(300*time.Millisecond))
	agg.IngestTick(98, t0.Add(600*time.Millisecond))

	if _, ok := agg.MaybeComplete(t0.Add(900 * time.Millisecond)); ok {
		t.Fatal("completed before the duration elapsed")
	}

	sealed, ok := agg.MaybeComplete(t0.Add(time.Second))
	if !ok {
		t.Fatal("expected completion at the boundary")
	}
	if sealed.Open != 100 || sealed.High != 105 || sealed.Low != 98 || sealed.Close != 98 {
		t.Errorf("sealed candle wrong: %+v", sealed)
	}

	// The next candle opens seeded by the completed close.
	next, ok := agg.Open()
	if !ok {
		t.Fatal("expected a fresh open candle after completion")
	}
	if next.Open != 98 || next.High != 98 || next.Low != 98 || next.Close != 98 {
		t.Errorf("reopened candle not seeded by close: %+v", next)
	}
	if agg.History().Len() != 1 {
		t.Errorf("history len: got %d, want 1", agg.History().Len())
	}
}

func TestAggregator_CompletedCandlesSatisfyOHLC(t *testing.T) {
	agg := New(time.Second, 500)
	rng := rand.New(rand.NewSource(17))

	now := t0
	price := 150.0
	for i := 0; i < 5000; i++ {
		price = model.Round2(price * (1 + (rng.Float64()*2-1)*0.01))
		agg.MaybeComplete(now)
		agg.IngestTick(price, now)
		now = now.Add(100 * time.Millisecond)
	}

	for i, c := range agg.History().Candles() {
		hi := c.Open
		if c.Close > hi {
			hi = c.Close
		}
		lo := c.Open
		if c.Close < lo {
			lo = c.Close
		}
		if c.High < hi {
			t.Errorf("candle %d: high %v < max(open, close) %v", i, c.High, hi)
		}
		if c.Low > lo {
			t.Errorf("candle %d: low %v > min(open, close) %v", i, c.Low, lo)
		}
	}
}

func TestAggregator_RepairWidensExtremes(t *testing.T) {
	c := model.Candle{Open: 100, High: 99.99, Low: 100.01, Close: 100}
	repair(&c)
	if c.High != 100 {
		t.Errorf("high not widened: %v", c.High)
	}
	if c.Low != 100 {
		t.Errorf("low not widened: %v", c.Low)
	}
}

func TestHistory_BoundedFIFOEviction(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 12; i++ {
		h.Push(model.Candle{Time: int64(i), Close: float64(i)})
		if h.Len() > 5 {
			t.Fatalf("after push %d: len %d exceeds capacity", i, h.Len())
		}
	}

	got := h.Candles()
	if len(got) != 5 {
		t.Fatalf("len: got %d, want 5", len(got))
	}
	// Oldest entries evicted strictly in order: 7..11 remain, oldest first.
	for i, c := range got {
		if want := int64(7 + i); c.Time != want {
			t.Errorf("slot %d: time %d, want %d", i, c.Time, want)
		}
	}
}

func TestAggregator_SnapshotOrdering(t *testing.T) {
	agg := New(time.Second, 100)

	now := t0
	for i := 0; i < 10; i++ {
		agg.MaybeComplete(now)
		agg.IngestTick(100+float64(i), now)
		now = now.Add(time.Second)
	}

	snap := agg.Snapshot()
	if len(snap) != 10 {
		t.Fatalf("snapshot len: got %d, want 10 (9 sealed + open)", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Time <= snap[i-1].Time {
			t.Fatalf("snapshot not ordered oldest-first at %d", i)
		}
	}

	open, _ := agg.Open()
	if snap[len(snap)-1] != open {
		t.Error("last snapshot element is not the in-progress candle")
	}
}

func TestAggregator_Bootstrap(t *testing.T) {
	params := sim.Params{
		BasePrice:       150,
		Volatility:      0.01,
		TrendProb:       0.02,
		ShockProb:       0.05,
		ReversionFactor: 0.5,
	}
	proc := sim.NewProcess(params, rand.New(rand.NewSource(23)))

	agg := New(time.Second, 100)
	agg.Bootstrap(proc.Next, 30, 10, t0)

	if got := agg.History().Len(); got != 30 {
		t.Fatalf("bootstrap history len: got %d, want 30", got)
	}

	candles := agg.History().Candles()
	for i, c := range candles {
		if want := t0.Add(time.Duration(i-30) * time.Second).Unix(); c.Time != want {
			t.Errorf("candle %d: time %d, want %d", i, c.Time, want)
		}
	}

	// A fresh candle is open at now, seeded by the last sealed close.
	open, ok := agg.Open()
	if !ok {
		t.Fatal("expected an open candle after bootstrap")
	}
	last := candles[len(candles)-1]
	if open.Open != last.Close {
		t.Errorf("open candle seed: got %v, want %v", open.Open, last.Close)
	}
	if open.Time != t0.Unix() {
		t.Errorf("open candle time: got %d, want %d", open.Time, t0.Unix())
	}
}

func TestAggregator_BootstrapCapRespected(t *testing.T) {
	proc := sim.NewProcess(sim.Params{BasePrice: 100, Volatility: 0.02}, rand.New(rand.NewSource(29)))
	agg := New(time.Second, 20)
	agg.Bootstrap(proc.Next, 50, 5, t0)

	if got := agg.History().Len(); got != 20 {
		t.Fatalf("history len: got %d, want capacity 20", got)
	}
	// The survivors are the newest 20 of the 50 generated.
	candles := agg.History().Candles()
	if candles[0].Time != t0.Add(-20*time.Second).Unix() {
		t.Errorf("oldest surviving candle at %d, want %d",
			candles[0].Time, t0.Add(-20*time.Second).Unix())
	}
}
