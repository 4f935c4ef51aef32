// Package response assembles the final /v1/score envelope: tier mapping,
// recommendation mapping, rank computation, and trust-neighborhood
// extraction over an already-scored entity.
package response

import (
	"github.com/oraclabs/trustscore/internal/graph"
	"github.com/oraclabs/trustscore/internal/reputation"
	"github.com/oraclabs/trustscore/internal/scoring"
	"github.com/oraclabs/trustscore/internal/screener"
)

// Tier cutoffs, exported so property tests can reference them directly.
const (
	TierCutoffUnknown   = 0.20
	TierCutoffNew        = 0.40
	TierCutoffEmerging   = 0.60
	TierCutoffEstablished = 0.80
	TierCutoffTrusted    = 0.95
)

// Recommendation cutoffs.
const (
	RecommendCutoffProceed = 0.50
	RecommendCutoffCaution = 0.25
)

// chargeAmount is the fixed per-query charge in major units, matching the
// atomic x402.Amount ("10000") at USDC's 6 decimals.
const chargeAmount = "0.01"

// PaymentEcho is attached to every successful response.
type PaymentEcho struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Payer    string `json:"payer"`
}

// Rank is the entity's position among all entities by reputation descending.
type Rank struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

// TrustNetwork is the entity's immediate trust neighborhood.
type TrustNetwork struct {
	TrustedBy []graph.Relation `json:"trusted_by"`
	Trusts    []graph.Relation `json:"trusts"`
}

// Envelope is the full /v1/score success body.
type Envelope struct {
	Found          bool               `json:"found"`
	Entity         string             `json:"entity"`
	TrustScore     float64            `json:"trust_score"`
	Tier           string             `json:"tier"`
	Recommendation string             `json:"recommendation"`
	Breakdown      *scoring.Breakdown `json:"breakdown,omitempty"`
	Raw            *scoring.RawSignals `json:"raw_signals,omitempty"`
	Safety         *screener.Result   `json:"safety"`
	Rank           *Rank              `json:"rank,omitempty"`
	TrustNetwork   *TrustNetwork      `json:"trust_network,omitempty"`
	Payment        PaymentEcho        `json:"payment"`
}

// Tier returns the total-function tier label for a composite score.
func Tier(score float64) string {
	switch {
	case score < TierCutoffUnknown:
		return "unknown"
	case score < TierCutoffNew:
		return "new"
	case score < TierCutoffEmerging:
		return "emerging"
	case score < TierCutoffEstablished:
		return "established"
	case score < TierCutoffTrusted:
		return "trusted"
	default:
		return "verified"
	}
}

// Recommendation returns the actionable verdict for a score and optional
// safety result. AVOID is returned iff safety is MALICIOUS, regardless of
// score — the double coupling between safety and recommendation is
// intentional.
func Recommendation(score float64, safety *screener.Result) string {
	if safety != nil && safety.Verdict == screener.VerdictMalicious {
		return "AVOID"
	}
	switch {
	case score >= RecommendCutoffProceed:
		return "PROCEED"
	case score >= RecommendCutoffCaution:
		return "CAUTION"
	default:
		return "INSUFFICIENT_DATA"
	}
}

// AssembleFound builds the envelope for a known entity.
func AssembleFound(entity graph.Entity, snap graph.Snapshot, rep reputation.Vector, result scoring.Result, safety *screener.Result, payer string) Envelope {
	order := make([]string, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		order = append(order, e.Name)
	}
	position, total := reputation.Rank(rep, order, entity.Name)

	breakdown := result.Breakdown
	raw := result.Raw

	return Envelope{
		Found:          true,
		Entity:         entity.Name,
		TrustScore:     result.Score,
		Tier:           Tier(result.Score),
		Recommendation: Recommendation(result.Score, safety),
		Breakdown:      &breakdown,
		Raw:            &raw,
		Safety:         safety,
		Rank:           &Rank{Position: position, Total: total},
		TrustNetwork: &TrustNetwork{
			TrustedBy: snap.TrustedBy(entity.Name),
			Trusts:    snap.Trusts(entity.Name),
		},
		Payment: PaymentEcho{Amount: chargeAmount, Currency: "USDC", Payer: payer},
	}
}

// unknownScoreDefault and the malicious-override are spelled out here since
// an unknown entity never reaches the composite scorer.
const unknownScoreDefault = 0.05

// AssembleUnknown builds the envelope for an entity absent from the graph.
func AssembleUnknown(name string, safety *screener.Result, payer string) Envelope {
	score := unknownScoreDefault
	if safety != nil && safety.Verdict == screener.VerdictMalicious {
		score = 0
	}
	return Envelope{
		Found:          false,
		Entity:         name,
		TrustScore:     score,
		Tier:           "unknown",
		Recommendation: Recommendation(score, safety),
		Safety:         safety,
		Payment:        PaymentEcho{Amount: chargeAmount, Currency: "USDC", Payer: payer},
	}
}
