// Package scoring implements the composite trust score: a weighted
// combination of graph reputation, temporal, attestation, and on-chain
// activity signals extracted from an entity's observations.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oraclabs/trustscore/internal/graph"
	"github.com/oraclabs/trustscore/internal/reputation"
	"github.com/oraclabs/trustscore/internal/screener"
)

// Component weights, summing to 1.0. Exported so property tests can
// reference them without duplicating the table.
const (
	WeightPagerank     = 0.25
	WeightObservations = 0.15
	WeightAge          = 0.15
	WeightWallet       = 0.20
	WeightAttestation  = 0.10
	WeightRelations    = 0.10
	WeightSafety       = 0.05
)

const dayHours = 24 * time.Hour

// Breakdown holds the seven weighted components, each rounded to four
// decimal places, in the order they are summed.
type Breakdown struct {
	Pagerank     float64 `json:"pagerank"`
	Observations float64 `json:"observation_density"`
	Age          float64 `json:"age_factor"`
	Wallet       float64 `json:"wallet_activity"`
	Attestation  float64 `json:"attestation_factor"`
	Relations    float64 `json:"relation_factor"`
	Safety       float64 `json:"safety_factor"`
}

// RawSignals reports the unweighted counts behind the breakdown, useful for
// audit and for the zero-observations/zero-relations invariant.
type RawSignals struct {
	Observations       int `json:"observations"`
	AgeDays            int `json:"age_days"`
	SignedObservations int `json:"signed_observations"`
	TrustRelationsIn   int `json:"trust_relations_in"`
	TrustRelationsOut  int `json:"trust_relations_out"`
	TotalRelations     int `json:"total_relations"`
}

// Result is the full scorer output for one entity.
type Result struct {
	Score     float64    `json:"trust_score"`
	Breakdown Breakdown  `json:"breakdown"`
	Raw       RawSignals `json:"raw_signals"`
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Score computes the composite trust score for entity in snap, given its
// reputation and an optional safety verdict (nil when no context was
// supplied on the request).
func Score(entity graph.Entity, snap graph.Snapshot, rep reputation.Vector, safety *screener.Result) Result {
	now := time.Now()
	active := entity.ActiveObservations(now)

	signed := 0
	for _, o := range active {
		if o.Signed() {
			signed++
		}
	}

	ageDays := 0
	if !entity.Created.IsZero() {
		d := now.Sub(entity.Created)
		if d > 0 {
			ageDays = int(d / dayHours)
		}
	}

	trustIn := len(snap.TrustedBy(entity.Name))
	trustOut := len(snap.Trusts(entity.Name))
	totalRel := snap.TotalRelations(entity.Name)

	b := Breakdown{
		Pagerank:     round4(rep.Get(entity.Name)),
		Observations: round4(observationDensity(len(active))),
		Age:          round4(ageFactor(ageDays)),
		Wallet:       round4(walletActivity(active, now)),
		Attestation:  round4(attestationFactor(signed)),
		Relations:    round4(relationFactor(totalRel)),
		Safety:       round4(safetyFactor(safety)),
	}

	composite := round4(
		WeightPagerank*b.Pagerank +
			WeightObservations*b.Observations +
			WeightAge*b.Age +
			WeightWallet*b.Wallet +
			WeightAttestation*b.Attestation +
			WeightRelations*b.Relations +
			WeightSafety*b.Safety,
	)

	return Result{
		Score:     composite,
		Breakdown: b,
		Raw: RawSignals{
			Observations:       len(active),
			AgeDays:            ageDays,
			SignedObservations: signed,
			TrustRelationsIn:   trustIn,
			TrustRelationsOut:  trustOut,
			TotalRelations:     totalRel,
		},
	}
}

func observationDensity(activeCount int) float64 {
	return 1 - math.Exp(-float64(activeCount)/8)
}

func ageFactor(ageDays int) float64 {
	return 1 - math.Exp(-float64(ageDays)/25)
}

func attestationFactor(signedCount int) float64 {
	if signedCount == 0 {
		return 0
	}
	v := 0.5 + 0.1*float64(signedCount)
	if v > 1 {
		v = 1
	}
	return v
}

func relationFactor(totalRelations int) float64 {
	v := float64(totalRelations) / 10
	if v > 1 {
		v = 1
	}
	return v
}

func safetyFactor(safety *screener.Result) float64 {
	if safety == nil {
		return 1.0
	}
	switch safety.Verdict {
	case screener.VerdictMalicious:
		return 0.0
	case screener.VerdictSuspicious:
		return 0.3
	default:
		return 1.0
	}
}

var (
	txCountPattern  = regexp.MustCompile(`(\d+)\s+transactions`)
	firstTxPattern  = regexp.MustCompile(`first on-chain transaction:\s*(\d{4}-\d{2}-\d{2})`)
)

// walletActivity extracts on-chain activity signals from the entity's
// active observation texts by substring/regex pattern. Parsing is
// defensive throughout: a malformed or absent signal contributes zero, it
// never raises.
func walletActivity(active []graph.Observation, now time.Time) float64 {
	total := 0.0

	if idx := findFirst(active, func(t string) bool {
		return strings.Contains(t, "on-chain activity:") && strings.Contains(t, "transactions")
	}); idx >= 0 {
		if m := txCountPattern.FindStringSubmatch(active[idx].Text); len(m) == 2 {
			if count, err := strconv.Atoi(m[1]); err == nil {
				total += (1 - math.Exp(-float64(count)/50)) * 0.7
			}
		}
	}

	if findFirst(active, func(t string) bool {
		return strings.Contains(t, "on-chain") && (strings.Contains(t, "ETH balance") || strings.Contains(t, "USDC balance"))
	}) >= 0 {
		total += 0.15
	}

	if idx := findFirst(active, func(t string) bool {
		return strings.Contains(t, "first on-chain transaction:")
	}); idx >= 0 {
		if m := firstTxPattern.FindStringSubmatch(active[idx].Text); len(m) == 2 {
			if ts, err := time.Parse("2006-01-02", m[1]); err == nil {
				days := now.Sub(ts) / dayHours
				if days < 0 {
					days = 0
				}
				contribution := float64(days) / 730
				if contribution > 0.15 {
					contribution = 0.15
				}
				total += contribution
			}
		}
	}

	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	return total
}

func findFirst(obs []graph.Observation, match func(string) bool) int {
	for i, o := range obs {
		if match(o.Text) {
			return i
		}
	}
	return -1
}
