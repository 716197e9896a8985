// cmd/feedserver — simulated market-data feed server.
//
// Broadcasts a synthetic candlestick chart, quote table, and order ticker
// over WebSocket. The simulation pipeline only runs while at least one
// subscriber is connected; it bootstraps fresh history on every
// activation and discards all state on the last disconnect.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"feedsim/config"
	"feedsim/internal/api"
	"feedsim/internal/gateway"
	"feedsim/internal/logger"
	"feedsim/internal/market"
	"feedsim/internal/metrics"
	"feedsim/internal/model"
	"feedsim/internal/sim"
	redisstore "feedsim/internal/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("feedserver starting",
		zap.String("addr", cfg.Server.Addr),
		zap.Duration("candle_duration", cfg.Feed.CandleDuration),
		zap.Duration("tick_period", cfg.Feed.TickPeriod))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prom := metrics.New()

	engine := market.New(market.Config{
		CandleDuration:   cfg.Feed.CandleDuration,
		TickPeriod:       cfg.Feed.TickPeriod,
		HistoryCapacity:  cfg.Feed.HistoryCapacity,
		BootstrapCandles: cfg.Feed.BootstrapCandles,
		BootstrapTicks:   cfg.Feed.BootstrapTicks,
		QuotePeriod:      cfg.Feed.QuotePeriod,
		OrderPeriod:      cfg.Feed.OrderPeriod,
		OrdersPerBatch:   cfg.Feed.OrdersPerBatch,
		Sim: sim.Params{
			BasePrice:       cfg.Sim.BasePrice,
			Volatility:      cfg.Sim.Volatility,
			TrendProb:       cfg.Sim.TrendProb,
			ShockProb:       cfg.Sim.ShockProb,
			ReversionFactor: cfg.Sim.ReversionFactor,
		},
	}, zl.Named("market"))

	// ---- Optional Redis mirror for completed candles ----
	var publisher *redisstore.Publisher
	if cfg.Redis.Addr != "" {
		publisher, err = redisstore.New(redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		}, zl.Named("redis"))
		if err != nil {
			zl.Warn("redis unavailable, mirror disabled", zap.Error(err))
			publisher = nil
		} else {
			publisher.OnPublished = func() { prom.RedisPublished.Inc() }
			publisher.OnDropped = func() { prom.RedisDropped.Inc() }
			defer publisher.Close()
			go publisher.Run(ctx)
		}
	}

	// ---- Metrics hooks ----
	engine.OnTick = func() { prom.TicksTotal.Inc() }
	engine.OnCandleDone = func(c model.Candle) {
		prom.CandlesTotal.Inc()
		if publisher != nil {
			publisher.Enqueue(c)
		}
	}
	engine.OnDroppedSend = func() { prom.DroppedSends.Inc() }
	engine.OnSubscribers = func(n int) { prom.Subscribers.Set(float64(n)) }
	engine.OnActivate = func() { prom.Activations.Inc() }
	engine.OnDeactivate = func() { prom.Deactivations.Inc() }

	// ---- Metrics & health server ----
	health := &metrics.Health{
		StartedAt:     time.Now(),
		ActiveFn:      engine.Active,
		SubscribersFn: engine.SubscriberCount,
	}
	metricsSrv := metrics.NewServer(cfg.Metrics.Addr, health, zl.Named("metrics"))
	metricsSrv.Start()

	// ---- Main HTTP server ----
	hub := gateway.NewHub(engine, zl.Named("gateway"))
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(engine, hub),
	}

	go func() {
		zl.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- Graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	zl.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)
	engine.Shutdown()
	cancel()
}
