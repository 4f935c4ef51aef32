package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInitialization(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("metrics collector should not be nil")
	}
	if m.ScoreRequestsTotal == nil {
		t.Error("ScoreRequestsTotal should be initialized")
	}
	if m.PaymentAttemptsTotal == nil {
		t.Error("PaymentAttemptsTotal should be initialized")
	}
	if m.FacilitatorDuration == nil {
		t.Error("FacilitatorDuration should be initialized")
	}
	if m.RateLimitHitsTotal == nil {
		t.Error("RateLimitHitsTotal should be initialized")
	}
}

func TestObserveScoreRequest_IncrementsCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObserveScoreRequest("found", 10*time.Millisecond)

	got := promtest.ToFloat64(m.ScoreRequestsTotal.WithLabelValues("found"))
	if got != 1 {
		t.Errorf("expected counter 1, got %v", got)
	}
}

func TestObservePaymentStage_RecordsFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObservePaymentStage("settle", false, 50*time.Millisecond)

	got := promtest.ToFloat64(m.PaymentAttemptsTotal.WithLabelValues("settle", "failure"))
	if got != 1 {
		t.Errorf("expected counter 1, got %v", got)
	}
}

func TestObserveRateLimit_IncrementsCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObserveRateLimit()
	m.ObserveRateLimit()

	got := promtest.ToFloat64(m.RateLimitHitsTotal)
	if got != 2 {
		t.Errorf("expected counter 2, got %v", got)
	}
}

func TestSetGraphSize_SetsGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SetGraphSize(42)

	got := promtest.ToFloat64(m.GraphEntitiesGauge)
	if got != 42 {
		t.Errorf("expected gauge 42, got %v", got)
	}
}
