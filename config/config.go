// Package config loads application configuration with Viper: defaults,
// then an optional config.yaml, then environment variable overrides
// (dot notation mapped to underscores, e.g. FEED_TICK_PERIOD).
//
// Every tunable of the simulation core lives here; the engine itself never
// hardcodes a parameter.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Sim     SimConfig     `mapstructure:"sim"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"` // main listener: /ws and REST
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // /metrics and /healthz listener
}

// RedisConfig configures the optional candle mirror. An empty Addr
// disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// LogConfig defines the logger options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // optional rotated log file
	Environment string `mapstructure:"environment"` // "dev" or "prod"
}

// FeedConfig holds the engine's scheduling and sizing parameters. The
// candle duration and tick period are deliberately independent values.
type FeedConfig struct {
	CandleDuration   time.Duration `mapstructure:"candle_duration"`
	TickPeriod       time.Duration `mapstructure:"tick_period"`
	HistoryCapacity  int           `mapstructure:"history_capacity"`
	BootstrapCandles int           `mapstructure:"bootstrap_candles"`
	BootstrapTicks   int           `mapstructure:"bootstrap_ticks"`
	QuotePeriod      time.Duration `mapstructure:"quote_period"`
	OrderPeriod      time.Duration `mapstructure:"order_period"`
	OrdersPerBatch   int           `mapstructure:"orders_per_batch"`
}

// SimConfig holds the price-process parameters.
type SimConfig struct {
	BasePrice       float64 `mapstructure:"base_price"`
	Volatility      float64 `mapstructure:"volatility"`
	TrendProb       float64 `mapstructure:"trend_prob"`
	ShockProb       float64 `mapstructure:"shock_prob"`
	ReversionFactor float64 `mapstructure:"reversion_factor"`
}

// Load reads configuration from defaults, config.yaml (if present), and
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No file: defaults + env only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "feedsim:candles")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "prod")

	v.SetDefault("feed.candle_duration", 15*time.Second)
	v.SetDefault("feed.tick_period", 500*time.Millisecond)
	v.SetDefault("feed.history_capacity", 120)
	v.SetDefault("feed.bootstrap_candles", 60)
	v.SetDefault("feed.bootstrap_ticks", 30)
	v.SetDefault("feed.quote_period", 2*time.Second)
	v.SetDefault("feed.order_period", 3*time.Second)
	v.SetDefault("feed.orders_per_batch", 5)

	v.SetDefault("sim.base_price", 150.0)
	v.SetDefault("sim.volatility", 0.01)
	v.SetDefault("sim.trend_prob", 0.02)
	v.SetDefault("sim.shock_prob", 0.05)
	v.SetDefault("sim.reversion_factor", 0.5)
}

func (c *Config) validate() error {
	if c.Feed.CandleDuration <= 0 {
		return fmt.Errorf("feed.candle_duration must be positive")
	}
	if c.Feed.TickPeriod <= 0 {
		return fmt.Errorf("feed.tick_period must be positive")
	}
	if c.Feed.HistoryCapacity <= 0 {
		return fmt.Errorf("feed.history_capacity must be positive")
	}
	if c.Sim.BasePrice <= 0 {
		return fmt.Errorf("sim.base_price must be positive")
	}
	return nil
}
