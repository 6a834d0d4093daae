package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/txledger/internal/adapter/http"
	"github.com/iho/txledger/internal/adapter/http/handler"
	"github.com/iho/txledger/internal/adapter/http/middleware"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/idgen"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	server := newServer(cfg, log)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newServer(cfg *config.Config, log zerolog.Logger) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	processor := usecase.NewProcessorUseCase(usecase.ProcessorConfig{
		IDGen:       idgen.NewULIDGenerator(),
		Metrics:     m,
		Logger:      log,
		DenseWindow: cfg.HistoryDenseWindow,
	})

	var limiter *middleware.RateLimiter
	if cfg.HTTPRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst, m.RateLimited.Inc)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ProcessHandler: handler.NewProcessHandler(processor, cfg.HTTPMaxBodyBytes),
		HealthHandler:  handler.NewHealthHandler(),
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		RateLimiter:    limiter,
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
