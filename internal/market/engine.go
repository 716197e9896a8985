// Package market is the feed engine: it owns the simulated price pipeline
// (trend → price → candle aggregation), the subscriber registry with its
// snapshot/incremental sync protocol, and the lifecycle that activates the
// pipeline on the first subscriber and tears it down on the last.
//
// One mutex guards all pipeline and registry state. The tick path holds it
// for one atomic unit of work per cycle (advance price, aggregate, fan
// out), so no subscriber ever observes a half-updated candle. Nothing in
// that path blocks: per-subscriber delivery is a non-blocking best-effort
// send.
package market

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"feedsim/internal/candle"
	"feedsim/internal/model"
	"feedsim/internal/orders"
	"feedsim/internal/quotes"
	"feedsim/internal/sim"
)

// Config holds the engine's immutable parameters. The candle duration and
// tick period are independent values; only their ratio (ticks per candle)
// is derived, never the other way around.
type Config struct {
	CandleDuration   time.Duration
	TickPeriod       time.Duration
	HistoryCapacity  int
	BootstrapCandles int
	BootstrapTicks   int

	// Sibling feed cadences, scheduled independently of the tick path.
	QuotePeriod    time.Duration
	OrderPeriod    time.Duration
	OrdersPerBatch int

	Sim sim.Params
}

// marketState is everything constructed on Idle→Active and dropped whole
// on Active→Idle. No module-level market state exists anywhere.
type marketState struct {
	proc *sim.Process
	agg  *candle.Aggregator
	rng  *rand.Rand // jitter source for the quote and order feeds
}

// Engine drives the simulation and the subscriber sync protocol.
type Engine struct {
	cfg Config
	log *zap.Logger

	// Optional hooks, set before the first Attach. Called with the engine
	// mutex held; they must not block.
	OnTick        func()
	OnCandleDone  func(model.Candle)
	OnDroppedSend func()
	OnActivate    func()
	OnDeactivate  func()
	OnSubscribers func(int)

	// Test seams. Production uses the defaults.
	NewRand func() *rand.Rand
	Now     func() time.Time

	mu     sync.Mutex
	subs   *syncRegistry
	state  *marketState // nil while idle
	cancel context.CancelFunc
}

// New creates an idle engine. No periodic work runs and no market state is
// retained until the first subscriber attaches.
func New(cfg Config, log *zap.Logger) *Engine {
	return &Engine{
		cfg:  cfg,
		log:  log,
		subs: newSyncRegistry(),
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// Attach registers a subscriber. Crossing 0→1 activates the pipeline,
// bootstrapping history first so the snapshot is never empty. The
// subscriber's first message is always a full snapshot, sent synchronously
// before Attach returns.
func (e *Engine) Attach(sub Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		e.activateLocked()
	}

	rec := e.subs.add(sub)
	rec.hasFullSnapshot = true
	if !sub.Send(e.chartSnapshotLocked()) {
		e.dropped()
	}
	if e.OnSubscribers != nil {
		e.OnSubscribers(e.subs.count())
	}
	e.log.Info("subscriber attached", zap.Int("subscribers", e.subs.count()))
}

// Detach removes a subscriber. Crossing 1→0 deactivates the pipeline and
// discards all market state. Detaching an unknown subscriber is a no-op.
func (e *Engine) Detach(sub Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subs.remove(sub)
	if e.subs.count() == 0 {
		e.deactivateLocked()
	}
	if e.OnSubscribers != nil {
		e.OnSubscribers(e.subs.count())
	}
	e.log.Info("subscriber detached", zap.Int("subscribers", e.subs.count()))
}

// Shutdown stops all scheduled work and discards state. Safe to call more
// than once and while idle.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deactivateLocked()
}

// Active reports whether the pipeline is running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != nil
}

// SubscriberCount returns the number of registered subscribers.
func (e *Engine) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs.count()
}

// Snapshot returns the same content as a full snapshot message: completed
// history oldest-first plus the in-progress candle. Returns nil while
// idle.
func (e *Engine) Snapshot() []model.Candle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	return e.state.agg.Snapshot()
}

// activateLocked builds a fresh market state, replays the bootstrap
// candles, and starts the scheduled producers.
func (e *Engine) activateLocked() {
	proc := sim.NewProcess(e.cfg.Sim, e.NewRand())
	agg := candle.New(e.cfg.CandleDuration, e.cfg.HistoryCapacity)
	agg.Bootstrap(proc.Next, e.cfg.BootstrapCandles, e.cfg.BootstrapTicks, e.Now())

	e.state = &marketState{proc: proc, agg: agg, rng: e.NewRand()}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go e.runTicks(ctx)
	go e.runQuotes(ctx)
	go e.runOrders(ctx)

	if e.OnActivate != nil {
		e.OnActivate()
	}
	e.log.Info("pipeline activated",
		zap.Int("bootstrap_candles", e.state.agg.History().Len()),
		zap.Duration("tick_period", e.cfg.TickPeriod),
		zap.Duration("candle_duration", e.cfg.CandleDuration))
}

// deactivateLocked cancels all scheduled work and drops history, the open
// candle, trend state, and subscriber records. Idempotent: repeated calls
// are no-ops.
func (e *Engine) deactivateLocked() {
	if e.cancel == nil && e.state == nil {
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.state = nil
	e.subs = newSyncRegistry()
	if e.OnDeactivate != nil {
		e.OnDeactivate()
	}
	e.log.Info("pipeline deactivated")
}

func (e *Engine) runTicks(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Cycle()
		}
	}
}

// Cycle runs one atomic unit of work: advance the trend and price, close
// the candle if its duration elapsed, ingest the tick, and fan out. A
// no-op while idle.
func (e *Engine) Cycle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	if st == nil {
		return
	}

	now := e.Now()
	price := st.proc.Next()

	// Complete before ingesting so the new tick lands in the next candle
	// once the boundary has passed.
	current, completed := st.agg.MaybeComplete(now)
	st.agg.IngestTick(price, now)
	if !completed {
		current, _ = st.agg.Open()
	} else if e.OnCandleDone != nil {
		e.OnCandleDone(current)
	}

	update, _ := json.Marshal(model.ChartMessage{
		Type:    model.TypeChartUpdate,
		Candles: []model.Candle{current},
	})

	// Lazily built: only needed when a record is missing the snapshot
	// flag (late joiner created out of band).
	var snapshot []byte

	e.subs.each(func(sub Subscriber, rec *subscriberRecord) {
		payload := update
		if !rec.hasFullSnapshot {
			if snapshot == nil {
				snapshot = e.chartSnapshotLocked()
			}
			payload = snapshot
			rec.hasFullSnapshot = true
		}
		if !sub.Send(payload) {
			e.dropped()
		}
	})

	if e.OnTick != nil {
		e.OnTick()
	}
}

func (e *Engine) runQuotes(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.QuotePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.broadcastQuotes()
		}
	}
}

func (e *Engine) broadcastQuotes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return
	}
	payload, _ := json.Marshal(model.QuotesMessage{
		Type:   model.TypeQuotes,
		Quotes: quotes.Generate(e.state.rng),
	})
	e.fanoutLocked(payload)
}

func (e *Engine) runOrders(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.OrderPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.broadcastOrders()
		}
	}
}

func (e *Engine) broadcastOrders() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return
	}
	payload, _ := json.Marshal(model.OrdersMessage{
		Type:   model.TypeOrders,
		Orders: orders.Generate(e.state.rng, e.cfg.OrdersPerBatch, e.Now()),
	})
	e.fanoutLocked(payload)
}

// fanoutLocked delivers a payload to every subscriber, best-effort.
func (e *Engine) fanoutLocked(payload []byte) {
	e.subs.each(func(sub Subscriber, _ *subscriberRecord) {
		if !sub.Send(payload) {
			e.dropped()
		}
	})
}

// chartSnapshotLocked marshals the full-snapshot message.
func (e *Engine) chartSnapshotLocked() []byte {
	payload, _ := json.Marshal(model.ChartMessage{
		Type:    model.TypeChartSnapshot,
		Candles: e.state.agg.Snapshot(),
	})
	return payload
}

func (e *Engine) dropped() {
	if e.OnDroppedSend != nil {
		e.OnDroppedSend()
	}
}
