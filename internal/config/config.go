package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := cfg.parseFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  Duration{Duration: 15 * time.Second},
			WriteTimeout: Duration{Duration: 15 * time.Second},
			IdleTimeout:  Duration{Duration: 60 * time.Second},
		},
		KVStore: KVStoreConfig{
			MemoryMaxKeys: 10000,
		},
		Graph: GraphConfig{
			SnapshotKey: "trustscore:graph:snapshot",
		},
		Reputation: ReputationConfig{
			CacheTTL: Duration{Duration: 8 * time.Hour},
		},
		RateLimit: RateLimitConfig{
			Limit:  100,
			Window: Duration{Duration: time.Hour},
		},
		Facilitator: FacilitatorConfig{
			Timeout: Duration{Duration: 20 * time.Second},
		},
		X402: X402Config{
			EVMNetwork:      "eip155:8453",
			EVMAssetName:    "USDC",
			EVMAssetVersion: "2",
			SolanaNetwork:   "solana:mainnet",
			SolanaDecimals:  6,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled: true,
			Facilitator: BreakerServiceConfig{
				MaxRequests:         3,
				Interval:            Duration{Duration: 60 * time.Second},
				Timeout:             Duration{Duration: 30 * time.Second},
				ConsecutiveFailures: 5,
				FailureRatio:        0.5,
				MinRequests:         10,
			},
		},
	}
}

func (c *Config) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}
