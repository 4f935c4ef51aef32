package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support string based YAML decoding.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration values expressed as Go-style strings or numbers interpreted as seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		raw := strings.TrimSpace(value.Value)
		if raw == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err == nil {
			d.Duration = parsed
			return nil
		}
		secs, convErr := time.ParseDuration(fmt.Sprintf("%ss", raw))
		if convErr == nil {
			d.Duration = secs
			return nil
		}
		return fmt.Errorf("invalid duration value %q: %w", raw, err)
	default:
		return fmt.Errorf("unsupported duration node kind: %v", value.Kind)
	}
}

// MarshalYAML renders the duration as a string to keep config edits human-friendly.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds application level configuration aggregated from file and
// environment variables.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Logging        LoggingConfig        `yaml:"logging"`
	KVStore        KVStoreConfig        `yaml:"kv_store"`
	Graph          GraphConfig          `yaml:"graph"`
	Reputation     ReputationConfig     `yaml:"reputation"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	Facilitator    FacilitatorConfig    `yaml:"facilitator"`
	X402           X402Config           `yaml:"x402"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string   `yaml:"address"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// LoggingConfig holds structured-logger configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // json | console
	Environment string `yaml:"environment"`
}

// KVStoreConfig configures the external key-value store backing the graph
// snapshot, the reputation cache, and rate-limit counters. The built-in
// backend is an in-process, TTL-aware, size-bounded store; a real
// deployment points this at a shared KV service instead.
type KVStoreConfig struct {
	MemoryMaxKeys int `yaml:"memory_max_keys"`
}

// GraphConfig names the key under which the whole-graph snapshot is stored.
type GraphConfig struct {
	SnapshotKey string `yaml:"snapshot_key"`
}

// ReputationConfig configures the reputation cache TTL.
type ReputationConfig struct {
	CacheTTL Duration `yaml:"cache_ttl"`
}

// RateLimitConfig configures the per-IP hourly quota.
type RateLimitConfig struct {
	Limit     int64    `yaml:"limit"`
	Window    Duration `yaml:"window"`
	BypassIPs []string `yaml:"bypass_ips"`
}

// FacilitatorConfig points at the remote payment facilitator.
type FacilitatorConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// X402Config carries the static payment-requirement terms this service
// advertises: one EVM accept option and one Solana accept option, sharing
// the same fixed amount and timeout.
type X402Config struct {
	EVMNetwork      string `yaml:"evm_network"`
	EVMAsset        string `yaml:"evm_asset"`
	EVMAssetName    string `yaml:"evm_asset_name"`
	EVMAssetVersion string `yaml:"evm_asset_version"`
	EVMPayTo        string `yaml:"evm_pay_to"`

	SolanaNetwork  string `yaml:"solana_network"`
	SolanaAsset    string `yaml:"solana_asset"`
	SolanaPayTo    string `yaml:"solana_pay_to"`
	SolanaFeePayer string `yaml:"solana_fee_payer"`
	SolanaDecimals int    `yaml:"solana_decimals"`
}

// CircuitBreakerConfig configures the facilitator-call circuit breaker.
type CircuitBreakerConfig struct {
	Enabled     bool                 `yaml:"enabled"`
	Facilitator BreakerServiceConfig `yaml:"facilitator"`
}

// BreakerServiceConfig configures a single circuit breaker.
type BreakerServiceConfig struct {
	MaxRequests         uint32   `yaml:"max_requests"`
	Interval            Duration `yaml:"interval"`
	Timeout             Duration `yaml:"timeout"`
	ConsecutiveFailures uint32   `yaml:"consecutive_failures"`
	FailureRatio        float64  `yaml:"failure_ratio"`
	MinRequests         uint32   `yaml:"min_requests"`
}
