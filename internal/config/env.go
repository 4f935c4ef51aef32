package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over YAML configuration. All env
// vars use the TRUSTSCORE_ prefix for namespace isolation.
func (c *Config) applyEnvOverrides() {
	setIfEnv(&c.Server.Address, "TRUSTSCORE_SERVER_ADDRESS")
	setIfEnv(&c.Logging.Level, "TRUSTSCORE_LOG_LEVEL")
	setIfEnv(&c.Logging.Format, "TRUSTSCORE_LOG_FORMAT")

	setIfEnv(&c.Graph.SnapshotKey, "TRUSTSCORE_GRAPH_SNAPSHOT_KEY")
	setDurationIfEnv(&c.Reputation.CacheTTL, "TRUSTSCORE_REPUTATION_CACHE_TTL")

	setInt64IfEnv(&c.RateLimit.Limit, "TRUSTSCORE_RATE_LIMIT")
	setDurationIfEnv(&c.RateLimit.Window, "TRUSTSCORE_RATE_LIMIT_WINDOW")
	if v := os.Getenv("TRUSTSCORE_RATE_LIMIT_BYPASS_IPS"); v != "" {
		c.RateLimit.BypassIPs = splitAndTrim(v)
	}

	setIfEnv(&c.Facilitator.BaseURL, "TRUSTSCORE_FACILITATOR_BASE_URL")
	setDurationIfEnv(&c.Facilitator.Timeout, "TRUSTSCORE_FACILITATOR_TIMEOUT")

	setIfEnv(&c.X402.EVMNetwork, "TRUSTSCORE_X402_EVM_NETWORK")
	setIfEnv(&c.X402.EVMAsset, "TRUSTSCORE_X402_EVM_ASSET")
	setIfEnv(&c.X402.EVMAssetName, "TRUSTSCORE_X402_EVM_ASSET_NAME")
	setIfEnv(&c.X402.EVMAssetVersion, "TRUSTSCORE_X402_EVM_ASSET_VERSION")
	setIfEnv(&c.X402.EVMPayTo, "TRUSTSCORE_X402_EVM_PAY_TO")
	setIfEnv(&c.X402.SolanaNetwork, "TRUSTSCORE_X402_SOLANA_NETWORK")
	setIfEnv(&c.X402.SolanaAsset, "TRUSTSCORE_X402_SOLANA_ASSET")
	setIfEnv(&c.X402.SolanaPayTo, "TRUSTSCORE_X402_SOLANA_PAY_TO")
	setIfEnv(&c.X402.SolanaFeePayer, "TRUSTSCORE_X402_SOLANA_FEE_PAYER")

	setBoolIfEnv(&c.CircuitBreaker.Enabled, "TRUSTSCORE_CIRCUIT_BREAKER_ENABLED")
}

func setIfEnv(target *string, key string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

func setBoolIfEnv(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt64IfEnv(target *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}

func setDurationIfEnv(target *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			*target = Duration{Duration: dur}
		}
	}
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
