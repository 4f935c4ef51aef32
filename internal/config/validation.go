package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// finalize applies defaults the YAML/env layer left unset and validates the
// result.
func (c *Config) finalize() error {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Environment == "" {
		c.Logging.Environment = "production"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.RateLimit.Limit <= 0 {
		c.RateLimit.Limit = 100
	}

	return c.validate()
}

// validate checks that the fields required to run the service are present
// and well-formed. Address validation here is shape-only — never
// cryptographic — the facilitator owns actual signature verification.
func (c *Config) validate() error {
	var errs []string

	if c.Facilitator.BaseURL == "" {
		errs = append(errs, "facilitator.base_url is required")
	}
	if c.Graph.SnapshotKey == "" {
		errs = append(errs, "graph.snapshot_key is required")
	}

	if c.X402.EVMPayTo == "" {
		errs = append(errs, "x402.evm_pay_to is required")
	} else if !evmAddressPattern.MatchString(c.X402.EVMPayTo) {
		errs = append(errs, fmt.Sprintf("x402.evm_pay_to %q is not a well-formed EVM address", c.X402.EVMPayTo))
	}
	if c.X402.EVMAsset == "" {
		errs = append(errs, "x402.evm_asset is required")
	} else if !evmAddressPattern.MatchString(c.X402.EVMAsset) {
		errs = append(errs, fmt.Sprintf("x402.evm_asset %q is not a well-formed EVM address", c.X402.EVMAsset))
	}

	if c.X402.SolanaPayTo == "" {
		errs = append(errs, "x402.solana_pay_to is required")
	} else if _, err := solana.PublicKeyFromBase58(c.X402.SolanaPayTo); err != nil {
		errs = append(errs, fmt.Sprintf("x402.solana_pay_to %q is not a well-formed Solana address: %v", c.X402.SolanaPayTo, err))
	}
	if c.X402.SolanaAsset == "" {
		errs = append(errs, "x402.solana_asset is required")
	} else if _, err := solana.PublicKeyFromBase58(c.X402.SolanaAsset); err != nil {
		errs = append(errs, fmt.Sprintf("x402.solana_asset %q is not a well-formed Solana address: %v", c.X402.SolanaAsset, err))
	}
	if c.X402.SolanaFeePayer != "" {
		if _, err := solana.PublicKeyFromBase58(c.X402.SolanaFeePayer); err != nil {
			errs = append(errs, fmt.Sprintf("x402.solana_fee_payer %q is not a well-formed Solana address: %v", c.X402.SolanaFeePayer, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
