// Command scoreserver runs the trust-scoring HTTP service: config load,
// dependency wiring, and a graceful-shutdown serve loop.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/oraclabs/trustscore/internal/circuitbreaker"
	"github.com/oraclabs/trustscore/internal/config"
	"github.com/oraclabs/trustscore/internal/httpserver"
	"github.com/oraclabs/trustscore/internal/kvstore"
	"github.com/oraclabs/trustscore/internal/lifecycle"
	"github.com/oraclabs/trustscore/internal/logger"
	"github.com/oraclabs/trustscore/internal/metrics"
)

const shutdownGrace = 15 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("TRUSTSCORE_CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("scoreserver: failed to load config")
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Service:     "trustscore",
		Environment: cfg.Logging.Environment,
	})

	resources := lifecycle.NewManager()

	store := kvstore.NewMemoryStore(cfg.KVStore.MemoryMaxKeys)
	metricsCollector := metrics.New(prometheus.DefaultRegisterer)
	breakers := circuitbreaker.NewManager(circuitbreaker.Config{
		Enabled: cfg.CircuitBreaker.Enabled,
		Facilitator: circuitbreaker.BreakerConfig{
			MaxRequests:         cfg.CircuitBreaker.Facilitator.MaxRequests,
			Interval:            cfg.CircuitBreaker.Facilitator.Interval.Duration,
			Timeout:             cfg.CircuitBreaker.Facilitator.Timeout.Duration,
			ConsecutiveFailures: cfg.CircuitBreaker.Facilitator.ConsecutiveFailures,
			FailureRatio:        cfg.CircuitBreaker.Facilitator.FailureRatio,
			MinRequests:         cfg.CircuitBreaker.Facilitator.MinRequests,
		},
	})

	server := httpserver.New(cfg, store, metricsCollector, breakers, appLogger)
	resources.RegisterFunc("http_server", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(ctx)
	})

	errc := make(chan error, 1)
	go func() {
		appLogger.Info().Str("address", cfg.Server.Address).Msg("scoreserver: listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
			return
		}
		errc <- nil
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigc:
		appLogger.Info().Str("signal", sig.String()).Msg("scoreserver: shutting down")
	case err := <-errc:
		if err != nil {
			appLogger.Error().Err(err).Msg("scoreserver: listener failed")
		}
	}

	if err := resources.Close(); err != nil {
		appLogger.Error().Err(err).Msg("scoreserver: shutdown encountered errors")
		os.Exit(1)
	}
}
