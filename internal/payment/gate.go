// Package payment implements the x402 payment gate: building the
// requirement document advertised on an unpaid request, and running the
// verify-then-settle sequence against the facilitator for a paid one.
package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oraclabs/trustscore/internal/config"
	"github.com/oraclabs/trustscore/pkg/x402"
)

// Outcome is the result of gating a single request.
type Outcome struct {
	Paid    bool
	Payer   string
	Reason  string // populated only when Paid is false
	Accepts []x402.AcceptOption
}

// Gate owns the full payment lifecycle for one endpoint.
type Gate struct {
	cfg         config.X402Config
	facilitator *FacilitatorClient
}

func NewGate(cfg config.X402Config, facilitator *FacilitatorClient) *Gate {
	return &Gate{cfg: cfg, facilitator: facilitator}
}

// proofHeader returns the first non-empty payment proof header present on
// the request, checking Payment-Signature before the legacy X-Payment name.
func proofHeader(r *http.Request) string {
	if v := r.Header.Get("Payment-Signature"); v != "" {
		return v
	}
	return r.Header.Get("X-Payment")
}

// Check runs the full gate for an incoming request. On failure, Outcome.Paid
// is false, Reason explains why, and Accepts carries the requirement
// document's accept options so the caller can respond with 402.
func (g *Gate) Check(ctx context.Context, r *http.Request, resourceURL string) Outcome {
	accepts := BuildRequirements(g.cfg, resourceURL)

	header := proofHeader(r)
	if header == "" {
		return Outcome{Paid: false, Reason: "payment required", Accepts: accepts}
	}

	proof, err := x402.DecodeProof(header)
	if err != nil {
		return Outcome{Paid: false, Reason: "payment_error: " + err.Error(), Accepts: accepts}
	}

	requirement := SelectRequirement(accepts, proof.Classify())

	verified, err := g.facilitator.Verify(ctx, proof, requirement)
	if err != nil {
		return Outcome{Paid: false, Reason: err.Error(), Accepts: accepts}
	}
	if !verified.IsValid {
		reason := verified.InvalidReason
		if reason == "" {
			reason = "payment proof rejected by facilitator"
		}
		return Outcome{Paid: false, Reason: reason, Accepts: accepts}
	}

	settled, err := g.facilitator.Settle(ctx, proof, requirement)
	if err != nil {
		return Outcome{Paid: false, Reason: err.Error(), Accepts: accepts}
	}
	if !settled.Success {
		reason := settled.Error
		if reason == "" {
			reason = "settlement failed"
		}
		return Outcome{Paid: false, Reason: fmt.Sprintf("Settle: %s", reason), Accepts: accepts}
	}

	return Outcome{Paid: true, Payer: verified.Payer}
}

// Document builds the standalone requirement document for an unconditional
// 402 response (no proof handling involved).
func (g *Gate) Document(resourceURL string) x402.RequirementDocument {
	return BuildDocument(g.cfg, resourceURL)
}
