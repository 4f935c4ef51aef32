package x402

import "time"

const (
	// MaxTimeoutSeconds is the maximum facilitator settlement window advertised
	// on every accept option.
	MaxTimeoutSeconds = 300

	// Amount is the fixed charge per scoring request, in the asset's base
	// unit. USDC is 6-decimal, so this equals $0.01.
	Amount = "10000"
)

// FacilitatorDeadline is a 20-second per-call bound for a verify or settle
// call, well inside MaxTimeoutSeconds. The facilitator client does not read
// it: its timeout comes from the facilitator configuration.
const FacilitatorDeadline = 20 * time.Second
