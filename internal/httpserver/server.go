// Package httpserver wires the trust-scoring HTTP surface: preflight,
// landing page, health check, and the payment-gated scoring endpoint.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/oraclabs/trustscore/internal/circuitbreaker"
	"github.com/oraclabs/trustscore/internal/config"
	"github.com/oraclabs/trustscore/internal/graph"
	"github.com/oraclabs/trustscore/internal/kvstore"
	"github.com/oraclabs/trustscore/internal/logger"
	"github.com/oraclabs/trustscore/internal/metrics"
	"github.com/oraclabs/trustscore/internal/payment"
	"github.com/oraclabs/trustscore/internal/ratelimit"
	"github.com/oraclabs/trustscore/internal/reputation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	cfg        *config.Config
	store      kvstore.Store
	loader     *graph.Loader
	reputation *reputation.CachedEngine
	gate       *payment.Gate
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Server wires handlers, middleware, and dependencies into a runnable HTTP
// server.
type Server struct {
	handlers
	httpServer *http.Server
}

// New builds the fully configured scoring server.
func New(cfg *config.Config, store kvstore.Store, metricsCollector *metrics.Metrics, breakers *circuitbreaker.Manager, appLogger zerolog.Logger) *Server {
	loader := graph.NewLoader(store, cfg.Graph.SnapshotKey)
	repEngine := reputation.NewCachedEngine(store, cfg.Reputation.CacheTTL.Duration)
	facilitator := payment.NewFacilitatorClient(cfg.Facilitator.BaseURL, cfg.Facilitator.Timeout.Duration, breakers)
	gate := payment.NewGate(cfg.X402, facilitator)

	h := handlers{
		cfg:        cfg,
		store:      store,
		loader:     loader,
		reputation: repEngine,
		gate:       gate,
		metrics:    metricsCollector,
		logger:     appLogger,
	}

	router := chi.NewRouter()
	configureRouter(router, h)

	return &Server{
		handlers: h,
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			ReadTimeout:  cfg.Server.ReadTimeout.Duration,
			WriteTimeout: cfg.Server.WriteTimeout.Duration,
			IdleTimeout:  cfg.Server.IdleTimeout.Duration,
			Handler:      router,
		},
	}
}

func configureRouter(router chi.Router, h handlers) {
	router.Use(corsMiddleware)
	router.Use(securityHeadersMiddleware)
	router.Use(logger.Middleware(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Options("/*", h.preflight)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Get("/", h.root)
		r.Get("/health", h.health)
		r.Handle("/metrics", promhttp.Handler())
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(ratelimit.Middleware(ratelimit.Config{
			Limit:     h.cfg.RateLimit.Limit,
			Window:    h.cfg.RateLimit.Window.Duration,
			BypassIPs: h.cfg.RateLimit.BypassIPs,
			Metrics:   h.metrics,
		}, h.store))
		r.Post("/v1/score", h.score)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowedHandler(h.methodNotAllowed)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
