package payment

import (
	"github.com/oraclabs/trustscore/internal/config"
	"github.com/oraclabs/trustscore/pkg/x402"
)

const scoringDescription = "Trust score lookup for one knowledge-graph entity"

// BuildRequirements constructs the two accept options this service always
// advertises — EVM first, Solana second — for the given resource URL. Order
// matters for scenario 1 of the testable properties: the first option is
// the EVM network.
func BuildRequirements(cfg config.X402Config, resourceURL string) []x402.AcceptOption {
	return []x402.AcceptOption{
		{
			Scheme:            "exact",
			Network:           cfg.EVMNetwork,
			MaxAmountRequired: x402.Amount,
			Resource:          resourceURL,
			Description:       scoringDescription,
			MimeType:          "application/json",
			PayTo:             cfg.EVMPayTo,
			MaxTimeoutSeconds: x402.MaxTimeoutSeconds,
			Asset:             cfg.EVMAsset,
			Extra: map[string]any{
				"name":    cfg.EVMAssetName,
				"version": cfg.EVMAssetVersion,
			},
		},
		{
			Scheme:            "exact",
			Network:           cfg.SolanaNetwork,
			MaxAmountRequired: x402.Amount,
			Resource:          resourceURL,
			Description:       scoringDescription,
			MimeType:          "application/json",
			PayTo:             cfg.SolanaPayTo,
			MaxTimeoutSeconds: x402.MaxTimeoutSeconds,
			Asset:             cfg.SolanaAsset,
			Extra: map[string]any{
				"feePayer": cfg.SolanaFeePayer,
				"decimals": cfg.SolanaDecimals,
			},
		},
	}
}

// BuildDocument wraps the two accept options in the full requirement
// document body emitted verbatim on a 402, including the bazaar extension
// advertising the request/response shape to discovery tooling.
func BuildDocument(cfg config.X402Config, resourceURL string) x402.RequirementDocument {
	return x402.RequirementDocument{
		X402Version: x402.Version,
		Accepts:     BuildRequirements(cfg, resourceURL),
		Resource: x402.ResourceInfo{
			URL:         resourceURL,
			Description: scoringDescription,
			MimeType:    "application/json",
		},
		Description: scoringDescription,
		Extensions: map[string]any{
			"bazaar": map[string]any{
				"info": map[string]any{
					"input":  map[string]any{"entity": "Orac", "context": "optional free-text context"},
					"output": map[string]any{"found": true, "trust_score": 0.82, "tier": "established"},
				},
				"schema": map[string]any{
					"type":     "object",
					"required": []string{"entity"},
					"properties": map[string]any{
						"entity":  map[string]any{"type": "string"},
						"context": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

// SelectRequirement picks the accept option matching proof's classified
// network, falling back to the first offered option if nothing matches —
// per the proof-handling design, an unmatched shape is never rejected
// outright at this stage; the facilitator is the final arbiter.
func SelectRequirement(accepts []x402.AcceptOption, network x402.Network) x402.AcceptOption {
	want := "evm"
	if network == x402.NetworkSolana {
		want = "solana"
	}
	for _, a := range accepts {
		if networkFamily(a.Network) == want {
			return a
		}
	}
	return accepts[0]
}

func networkFamily(network string) string {
	if len(network) >= 6 && network[:6] == "solana" {
		return "solana"
	}
	return "evm"
}
