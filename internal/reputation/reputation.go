// Package reputation implements the damped-propagation trust ranking over
// the graph's trust-typed edges, with a TTL-cached result.
package reputation

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/oraclabs/trustscore/internal/cacheutil"
	"github.com/oraclabs/trustscore/internal/graph"
	"github.com/oraclabs/trustscore/internal/kvstore"
)

const (
	// Damping is the damping factor applied at each propagation step.
	Damping = 0.85
	// MaxIterations bounds the propagation loop against pathological graphs.
	MaxIterations = 50
	// Tolerance is the max-delta convergence threshold.
	Tolerance = 0.001
	// degenerateRange below which min-max normalization is considered flat.
	degenerateRange = 1e-4
)

// Vector maps entity name to a reputation value in [0,1].
type Vector map[string]float64

// Get returns the entity's reputation, defaulting to 0 for unknown entities.
func (v Vector) Get(name string) float64 {
	return v[name]
}

// Rank returns the 1-based rank of name among all entities by reputation
// descending (ties broken by iteration order of the entity list) and the
// total entity count.
func Rank(v Vector, order []string, name string) (position, total int) {
	total = len(order)
	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool {
		return v[sorted[i]] > v[sorted[j]]
	})
	for i, n := range sorted {
		if n == name {
			return i + 1, total
		}
	}
	return 0, total
}

// Compute runs the damped-propagation algorithm over snap's trust-typed
// edge subset and returns the normalized reputation vector.
func Compute(snap graph.Snapshot) Vector {
	order := make([]string, 0, len(snap.Entities))
	known := make(map[string]bool, len(snap.Entities))
	for _, e := range snap.Entities {
		order = append(order, e.Name)
		known[e.Name] = true
	}

	score := make(map[string]float64, len(order))
	for _, name := range order {
		score[name] = 1.0
	}

	outDeg := make(map[string]int, len(order))
	type weightedSource struct {
		source string
		weight float64
	}
	inEdges := make(map[string][]weightedSource, len(order))

	for _, r := range snap.Relations {
		weight, trust := graph.TrustWeights[r.Relation]
		if !trust || !known[r.Source] || !known[r.Target] {
			continue
		}
		outDeg[r.Source]++
		inEdges[r.Target] = append(inEdges[r.Target], weightedSource{source: r.Source, weight: weight})
	}

	for iter := 0; iter < MaxIterations; iter++ {
		next := make(map[string]float64, len(order))
		maxDelta := 0.0
		for _, v := range order {
			sum := 0.0
			for _, in := range inEdges[v] {
				deg := outDeg[in.source]
				if deg < 1 {
					deg = 1
				}
				sum += (score[in.source] / float64(deg)) * in.weight
			}
			nv := (1 - Damping) + Damping*sum
			next[v] = nv
			if d := math.Abs(nv - score[v]); d > maxDelta {
				maxDelta = d
			}
		}
		score = next
		if maxDelta < Tolerance {
			break
		}
	}

	return normalize(score, order)
}

func normalize(score map[string]float64, order []string) Vector {
	out := make(Vector, len(order))
	if len(order) == 0 {
		return out
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range order {
		s := score[v]
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if max-min < degenerateRange {
		for _, v := range order {
			out[v] = 0.5
		}
		return out
	}

	for _, v := range order {
		n := (score[v] - min) / (max - min)
		out[v] = round4(n)
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// cacheKey is the fixed key under which the computed vector is cached.
// Bumping the suffix discards stale vectors when the cached schema evolves.
const cacheKey = "reputation:vector:v1"

// CachedEngine computes Vector with an 8-hour TTL cache in front of Compute.
type CachedEngine struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewCachedEngine builds a CachedEngine backed by store with the given TTL
// (8 hours per the reputation cache design).
func NewCachedEngine(store kvstore.Store, ttl time.Duration) *CachedEngine {
	return &CachedEngine{store: store, ttl: ttl}
}

// Compute returns the cached vector if present and unexpired; otherwise it
// recomputes from snap and writes back. Cache read/write failures are
// non-fatal: the engine always falls through to a fresh compute.
func (e *CachedEngine) Compute(ctx context.Context, snap graph.Snapshot) Vector {
	return cacheutil.KVReadThrough(ctx, e.store, cacheKey, e.ttl, func() Vector {
		return Compute(snap)
	})
}
