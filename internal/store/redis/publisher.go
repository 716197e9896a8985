// Package redis mirrors completed candles to a Redis pub/sub channel for
// polling or downstream collaborators. The mirror is best-effort and sits
// entirely off the tick path: Enqueue never blocks, and a full queue drops
// the candle rather than stalling the engine.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"feedsim/internal/model"
)

// Config configures the Redis publisher.
type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string // pub/sub channel name, e.g. "feedsim:candles"
}

// Publisher pushes completed candles to Redis from its own goroutine.
type Publisher struct {
	client  *goredis.Client
	channel string
	queue   chan model.Candle
	log     *zap.Logger

	// Optional hooks for metrics.
	OnPublished func()
	OnDropped   func()
}

// New creates a Publisher and pings the server.
func New(cfg Config, log *zap.Logger) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("redis connected", zap.String("addr", cfg.Addr))
	return &Publisher{
		client:  client,
		channel: cfg.Channel,
		queue:   make(chan model.Candle, 1000),
		log:     log,
	}, nil
}

// Enqueue hands a completed candle to the publisher. Non-blocking: when
// the queue is full the candle is dropped.
func (p *Publisher) Enqueue(c model.Candle) {
	select {
	case p.queue <- c:
	default:
		if p.OnDropped != nil {
			p.OnDropped()
		}
	}
}

// Run consumes the queue and publishes candles. Blocks until ctx is
// cancelled.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-p.queue:
			if err := p.client.Publish(ctx, p.channel, c.JSON()).Err(); err != nil {
				p.log.Warn("redis publish failed", zap.Error(err))
				continue
			}
			if p.OnPublished != nil {
				p.OnPublished()
			}
		}
	}
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
