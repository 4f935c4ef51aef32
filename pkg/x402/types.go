// Package x402 implements the wire-level types of the x402 payment
// protocol: the requirement document a server advertises on a 402, and the
// payment proof a client presents in return.
// Reference: https://github.com/coinbase/x402
package x402

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Version is the x402 protocol version advertised on every requirement
// document produced by this service.
const Version = 2

// AcceptOption is one entry of a requirement document's "accepts" array —
// one network's payment terms for the same logical charge.
type AcceptOption struct {
	Scheme            string         `json:"scheme"`
	Network           string         `json:"network"`
	MaxAmountRequired string         `json:"maxAmountRequired"`
	Resource          string         `json:"resource"`
	Description       string         `json:"description"`
	MimeType          string         `json:"mimeType"`
	PayTo             string         `json:"payTo"`
	MaxTimeoutSeconds int            `json:"maxTimeoutSeconds"`
	Asset             string         `json:"asset"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// ResourceInfo echoes the request URL the requirement document was issued
// for, plus a description and MIME type of the protected response.
type ResourceInfo struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// RequirementDocument is the full 402 body advertising accepted payment
// options to the client.
type RequirementDocument struct {
	X402Version int            `json:"x402Version"`
	Accepts     []AcceptOption `json:"accepts"`
	Resource    ResourceInfo   `json:"resource"`
	Description string         `json:"description"`
	Extensions  map[string]any `json:"extensions,omitempty"`
}

// Proof is the decoded representation of a client-presented payment header:
// an opaque record beyond the version tag and the raw payload, which is
// classified by shape rather than parsed further — cryptographic
// verification is the facilitator's job, not ours.
type Proof struct {
	X402Version int
	Payload     map[string]any
	Raw         map[string]any
}

// ErrEmptyProof is returned by DecodeProof when the header value is blank.
var ErrEmptyProof = errors.New("x402: empty payment header")

// DecodeProof base64-decodes header and parses it as a proof record. The
// payload is kept as a raw map so Classify and the facilitator request body
// can both consume it without a round-trip re-encoding.
func DecodeProof(header string) (Proof, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Proof{}, ErrEmptyProof
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return Proof{}, err
		}
	}

	var rest map[string]any
	if err := json.Unmarshal(data, &rest); err != nil {
		return Proof{}, err
	}

	proof := Proof{Raw: rest}
	if v, ok := rest["x402Version"].(float64); ok {
		proof.X402Version = int(v)
	}
	if p, ok := rest["payload"].(map[string]any); ok {
		proof.Payload = p
	}
	return proof, nil
}

// Network is a coarse classification of a proof's shape, used only to pick
// a matching AcceptOption — never to interpret the payload's contents.
type Network string

const (
	NetworkSolana Network = "solana"
	NetworkEVM    Network = "evm"
)

// Classify reports Solana if the payload carries a "transaction" field and
// no "authorization" field; EVM otherwise. This mirrors the two payload
// shapes exact-scheme facilitators accept and is the only shape inspection
// this service performs.
func (p Proof) Classify() Network {
	if p.Payload == nil {
		return NetworkEVM
	}
	_, hasTx := p.Payload["transaction"]
	_, hasAuth := p.Payload["authorization"]
	if hasTx && !hasAuth {
		return NetworkSolana
	}
	return NetworkEVM
}
