// Package circuitbreaker isolates the facilitator HTTP dependency: repeated
// verify/settle failures trip the breaker so a facilitator outage fails
// fast instead of piling up slow timeouts under load.
package circuitbreaker

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ServiceType identifies an external dependency for breaker isolation.
type ServiceType string

// ServiceFacilitator is the only external dependency this service calls
// synchronously on the request path.
const ServiceFacilitator ServiceType = "facilitator"

// Manager manages circuit breakers for external services.
type Manager struct {
	breakers map[ServiceType]*gobreaker.CircuitBreaker
	config   Config
}

// Config holds circuit breaker configuration.
type Config struct {
	Enabled     bool
	Facilitator BreakerConfig
}

// BreakerConfig configures a single circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval at which closed-state counts reset. Zero never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before trying half-open.
	Timeout time.Duration

	ConsecutiveFailures uint32
	FailureRatio        float64
	MinRequests         uint32
}

// NewManager creates a circuit breaker manager with the given configuration.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		breakers: make(map[ServiceType]*gobreaker.CircuitBreaker),
		config:   cfg,
	}
	if !cfg.Enabled {
		return m
	}
	m.breakers[ServiceFacilitator] = gobreaker.NewCircuitBreaker(toGobreakerSettings(string(ServiceFacilitator), cfg.Facilitator))
	return m
}

// Execute wraps a function call with circuit breaker protection. If circuit
// breakers are disabled or the service has none configured, it executes fn
// directly.
func (m *Manager) Execute(service ServiceType, fn func() (interface{}, error)) (interface{}, error) {
	if !m.config.Enabled {
		return fn()
	}
	breaker, ok := m.breakers[service]
	if !ok {
		return fn()
	}
	return breaker.Execute(fn)
}

// State returns the current state of a circuit breaker.
func (m *Manager) State(service ServiceType) string {
	if !m.config.Enabled {
		return "disabled"
	}
	breaker, ok := m.breakers[service]
	if !ok {
		return "not_configured"
	}
	return breaker.State().String()
}

func toGobreakerSettings(name string, cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if cfg.FailureRatio > 0 && cfg.MinRequests > 0 && counts.Requests >= cfg.MinRequests {
				if float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}
}

// DefaultConfig returns sensible defaults for the facilitator breaker.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Facilitator: BreakerConfig{
			MaxRequests:         3,
			Interval:            60 * time.Second,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
			FailureRatio:        0.5,
			MinRequests:         10,
		},
	}
}
