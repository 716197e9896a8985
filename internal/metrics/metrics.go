// Package metrics exposes Prometheus metrics and a health endpoint for the
// feed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the feed engine.
type Metrics struct {
	TicksTotal     prometheus.Counter
	CandlesTotal   prometheus.Counter
	DroppedSends   prometheus.Counter
	Activations    prometheus.Counter
	Deactivations  prometheus.Counter
	RedisPublished prometheus.Counter
	RedisDropped   prometheus.Counter
	Subscribers    prometheus.Gauge
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_ticks_total",
			Help: "Total simulated price ticks processed",
		}),
		CandlesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_candles_total",
			Help: "Total candles completed and appended to history",
		}),
		DroppedSends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_dropped_sends_total",
			Help: "Payloads dropped for slow or dead subscribers",
		}),
		Activations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_pipeline_activations_total",
			Help: "Idle-to-active lifecycle transitions",
		}),
		Deactivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_pipeline_deactivations_total",
			Help: "Active-to-idle lifecycle transitions",
		}),
		RedisPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_redis_published_total",
			Help: "Completed candles mirrored to Redis",
		}),
		RedisDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsim_redis_dropped_total",
			Help: "Candles dropped because the Redis publish queue was full",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feedsim_subscribers",
			Help: "Currently connected subscribers",
		}),
	}

	prometheus.MustRegister(
		m.TicksTotal,
		m.CandlesTotal,
		m.DroppedSends,
		m.Activations,
		m.Deactivations,
		m.RedisPublished,
		m.RedisDropped,
		m.Subscribers,
	)
	return m
}
