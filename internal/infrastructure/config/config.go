package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Ledger
	HistoryDenseWindow int `env:"HISTORY_DENSE_WINDOW" envDefault:"65536"`

	// Metrics (CLI only: Prometheus text exposition written on exit, empty disables)
	MetricsTextfile string `env:"METRICS_TEXTFILE" envDefault:""`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPMaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES"   envDefault:"67108864"`

	// Rate limiting per client IP (requests per second, 0 disables)
	HTTPRateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"0"`
	HTTPRateBurst int     `env:"HTTP_RATE_BURST" envDefault:"10"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
