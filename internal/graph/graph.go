// Package graph models the knowledge graph of software agents: entities,
// their observations, and the labeled relations between them. The graph
// itself is owned by an external store; this package only parses and
// exposes the snapshot.
package graph

import (
	"encoding/json"
	"time"
)

// TrustWeights maps trust-bearing relation labels to their propagation
// weight. Relations whose label is absent from this table are ignored by
// the reputation engine but still counted toward connectedness.
var TrustWeights = map[string]float64{
	"trusts":           1.0,
	"endorsed_by":      0.9,
	"verified_by":      0.9,
	"collaborates_with": 0.7,
	"depends_on":       0.6,
	"implements":       0.6,
	"built":            0.8,
	"uses":             0.5,
}

// IsTrustRelation reports whether label is one of the trust-bearing labels.
func IsTrustRelation(label string) bool {
	_, ok := TrustWeights[label]
	return ok
}

// Signature captures the minimal provenance attached to an observation.
type Signature struct {
	Hex string `json:"signature_hex"`
}

// Observation is a tagged variant: either a bare string or a record with an
// optional expiry and signature. Both wire shapes decode into this single
// type, normalized at load time.
type Observation struct {
	Text      string
	ExpiresAt *time.Time
	Signature *Signature
}

// UnmarshalJSON accepts either a JSON string or a record of
// {text|observation, expires_at?, signature?}.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Text = s
		o.ExpiresAt = nil
		o.Signature = nil
		return nil
	}

	var rec struct {
		Text        string     `json:"text"`
		Observation string     `json:"observation"`
		ExpiresAt   *time.Time `json:"expires_at"`
		Signature   *struct {
			Hex string `json:"signature_hex"`
		} `json:"signature"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		// Defensive per error-handling design: a malformed observation never
		// raises, it just carries no text and contributes nothing downstream.
		o.Text = ""
		o.ExpiresAt = nil
		o.Signature = nil
		return nil
	}

	o.Text = rec.Text
	if o.Text == "" {
		o.Text = rec.Observation
	}
	o.ExpiresAt = rec.ExpiresAt
	if rec.Signature != nil && rec.Signature.Hex != "" {
		o.Signature = &Signature{Hex: rec.Signature.Hex}
	}
	return nil
}

// Active reports whether the observation has no expiry, or an expiry
// strictly after now.
func (o Observation) Active(now time.Time) bool {
	return o.ExpiresAt == nil || o.ExpiresAt.After(now)
}

// Signed reports whether the observation carries a non-empty signature.
func (o Observation) Signed() bool {
	return o.Signature != nil && o.Signature.Hex != ""
}

// Entity is a named node in the knowledge graph.
type Entity struct {
	Name         string        `json:"name"`
	EntityType   string        `json:"entityType"`
	Created      time.Time     `json:"created"`
	Updated      *time.Time    `json:"updated,omitempty"`
	Observations []Observation `json:"observations"`
}

// ActiveObservations returns the observations active at instant now.
func (e Entity) ActiveObservations(now time.Time) []Observation {
	out := make([]Observation, 0, len(e.Observations))
	for _, o := range e.Observations {
		if o.Active(now) {
			out = append(out, o)
		}
	}
	return out
}

// Relation is a labeled directed edge between two entities.
type Relation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Snapshot is the whole-graph read obtained atomically from the external
// store: all entities and all relations at a point in time.
type Snapshot struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// ByName indexes entities by name for O(1) lookup. Callers should build
// this once per snapshot rather than scanning Entities repeatedly.
func (s Snapshot) ByName() map[string]Entity {
	m := make(map[string]Entity, len(s.Entities))
	for _, e := range s.Entities {
		m[e.Name] = e
	}
	return m
}

// TotalRelations counts relations (of any label) where name is the source
// or the target.
func (s Snapshot) TotalRelations(name string) int {
	count := 0
	for _, r := range s.Relations {
		if r.Source == name || r.Target == name {
			count++
		}
	}
	return count
}

// TrustedBy returns trust-typed relations with name as the target.
func (s Snapshot) TrustedBy(name string) []Relation {
	var out []Relation
	for _, r := range s.Relations {
		if r.Target == name && IsTrustRelation(r.Relation) {
			out = append(out, r)
		}
	}
	return out
}

// Trusts returns trust-typed relations with name as the source.
func (s Snapshot) Trusts(name string) []Relation {
	var out []Relation
	for _, r := range s.Relations {
		if r.Source == name && IsTrustRelation(r.Relation) {
			out = append(out, r)
		}
	}
	return out
}
