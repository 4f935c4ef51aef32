package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oraclabs/trustscore/internal/circuitbreaker"
	"github.com/oraclabs/trustscore/internal/errors"
	"github.com/oraclabs/trustscore/internal/httputil"
	"github.com/oraclabs/trustscore/internal/rpcutil"
	"github.com/oraclabs/trustscore/pkg/x402"
)

// facilitatorRequest is the body posted to both /verify and /settle — the
// two calls share an identical payload, differing only by endpoint.
type facilitatorRequest struct {
	X402Version         int                `json:"x402Version"`
	PaymentPayload      map[string]any     `json:"paymentPayload"`
	PaymentRequirements x402.AcceptOption  `json:"paymentRequirements"`
}

// verifyResponse is the facilitator's /verify reply.
type verifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason"`
	Payer         string `json:"payer"`
}

// settleResponse is the facilitator's /settle reply.
type settleResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	Transaction string `json:"transaction"`
}

// FacilitatorClient talks to the remote x402 payment facilitator. All calls
// run through a circuit breaker so a degraded facilitator fails fast instead
// of piling up blocked requests.
type FacilitatorClient struct {
	baseURL  string
	client   *http.Client
	breakers *circuitbreaker.Manager
}

func NewFacilitatorClient(baseURL string, timeout time.Duration, breakers *circuitbreaker.Manager) *FacilitatorClient {
	return &FacilitatorClient{
		baseURL:  baseURL,
		client:   httputil.NewClient(timeout),
		breakers: breakers,
	}
}

// Verify asks the facilitator whether proof is valid against requirement,
// without moving funds. It never calls Settle itself — ordering is the
// gate's responsibility. Verify is a read-only check, so transient
// facilitator failures are retried; Settle is not, since retrying a
// state-changing call risks double-execution.
func (c *FacilitatorClient) Verify(ctx context.Context, proof x402.Proof, requirement x402.AcceptOption) (*verifyResponse, error) {
	return rpcutil.WithRetry(ctx, func() (*verifyResponse, error) {
		var out verifyResponse
		if err := c.call(ctx, "/verify", proof, requirement, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Settle executes the previously verified payment. Callers must only invoke
// this after Verify has returned IsValid=true.
func (c *FacilitatorClient) Settle(ctx context.Context, proof x402.Proof, requirement x402.AcceptOption) (*settleResponse, error) {
	var out settleResponse
	if err := c.call(ctx, "/settle", proof, requirement, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *FacilitatorClient) call(ctx context.Context, path string, proof x402.Proof, requirement x402.AcceptOption, out any) error {
	body, err := json.Marshal(facilitatorRequest{
		X402Version:         proof.X402Version,
		PaymentPayload:      proof.Payload,
		PaymentRequirements: requirement,
	})
	if err != nil {
		return fmt.Errorf("encode facilitator request: %w", err)
	}

	// The client's configured timeout and the requirement's advertised
	// window both apply, so the effective deadline is the smaller of the two.
	if requirement.MaxTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(requirement.MaxTimeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := c.breakers.Execute(circuitbreaker.ServiceFacilitator, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			label := "Verify"
			if path == "/settle" {
				label = "Settle"
			}
			return nil, fmt.Errorf("%s: %s", label, errors.Truncate(string(respBody), 200))
		}
		return respBody, nil
	})
	if err != nil {
		return err
	}

	respBody := result.([]byte)
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode facilitator response: %w", err)
	}
	return nil
}
