package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the trust scoring service.
type Metrics struct {
	// Scoring request metrics
	ScoreRequestsTotal *prometheus.CounterVec
	ScoreDuration      *prometheus.HistogramVec
	ScreenerVerdicts   *prometheus.CounterVec

	// Payment gate metrics
	PaymentAttemptsTotal *prometheus.CounterVec
	PaymentFailuresTotal *prometheus.CounterVec
	FacilitatorDuration  *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHitsTotal prometheus.Counter

	// Graph / reputation metrics
	GraphEntitiesGauge    prometheus.Gauge
	ReputationComputeTime prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		ScoreRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustscore_score_requests_total",
				Help: "Total number of /v1/score requests by outcome",
			},
			[]string{"outcome"}, // found | not_found | error
		),
		ScoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trustscore_score_duration_seconds",
				Help:    "Time to serve a scored response, end to end",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"outcome"},
		),
		ScreenerVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustscore_screener_verdicts_total",
				Help: "Total context-screener verdicts issued",
			},
			[]string{"verdict"}, // clean | suspicious | malicious
		),
		PaymentAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustscore_payment_attempts_total",
				Help: "Total payment gate attempts by stage and outcome",
			},
			[]string{"stage", "outcome"}, // stage: verify|settle, outcome: success|failure
		),
		PaymentFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustscore_payment_failures_total",
				Help: "Total payment gate failures by reason class",
			},
			[]string{"reason"},
		),
		FacilitatorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trustscore_facilitator_duration_seconds",
				Help:    "Latency of calls to the payment facilitator",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"endpoint"}, // verify|settle
		),
		RateLimitHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "trustscore_rate_limit_hits_total",
				Help: "Total number of requests rejected for exceeding the rate limit",
			},
		),
		GraphEntitiesGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "trustscore_graph_entities",
				Help: "Number of entities in the currently loaded graph snapshot",
			},
		),
		ReputationComputeTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trustscore_reputation_compute_seconds",
				Help:    "Time to compute the reputation vector on a cache miss",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
	}
}

// ObserveScoreRequest records a completed /v1/score request.
func (m *Metrics) ObserveScoreRequest(outcome string, duration time.Duration) {
	m.ScoreRequestsTotal.WithLabelValues(outcome).Inc()
	m.ScoreDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveScreenerVerdict records a context-screener verdict.
func (m *Metrics) ObserveScreenerVerdict(verdict string) {
	m.ScreenerVerdicts.WithLabelValues(verdict).Inc()
}

// ObservePaymentStage records a verify or settle call outcome.
func (m *Metrics) ObservePaymentStage(stage string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.PaymentAttemptsTotal.WithLabelValues(stage, outcome).Inc()
	m.FacilitatorDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObservePaymentFailure records a payment gate failure, bucketed by a coarse
// reason class (e.g. "verify", "settle", "malformed_proof", "missing_proof").
func (m *Metrics) ObservePaymentFailure(reason string) {
	m.PaymentFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveRateLimit records a single rejected request.
func (m *Metrics) ObserveRateLimit() {
	m.RateLimitHitsTotal.Inc()
}

// SetGraphSize records the current entity count of the loaded snapshot.
func (m *Metrics) SetGraphSize(entities int) {
	m.GraphEntitiesGauge.Set(float64(entities))
}

// ObserveReputationCompute records a reputation cache-miss computation.
func (m *Metrics) ObserveReputationCompute(duration time.Duration) {
	m.ReputationComputeTime.Observe(duration.Seconds())
}
