package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/oraclabs/trustscore/internal/kvstore"
)

func TestObservation_UnmarshalJSON_BareString(t *testing.T) {
	var o Observation
	if err := json.Unmarshal([]byte(`"agent has a clean record"`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.Text != "agent has a clean record" {
		t.Errorf("expected bare string text, got %q", o.Text)
	}
	if o.ExpiresAt != nil || o.Signature != nil {
		t.Error("expected a bare string observation to have no expiry or signature")
	}
}

func TestObservation_UnmarshalJSON_RecordWithSignature(t *testing.T) {
	raw := `{"text":"audited","signature":{"signature_hex":"0xdead"}}`
	var o Observation
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !o.Signed() {
		t.Error("expected the observation to be signed")
	}
}

func TestObservation_UnmarshalJSON_Malformed_DefaultsEmptyWithoutError(t *testing.T) {
	var o Observation
	if err := json.Unmarshal([]byte(`42`), &o); err != nil {
		t.Fatalf("expected no error for malformed observation, got %v", err)
	}
	if o.Text != "" {
		t.Errorf("expected empty text, got %q", o.Text)
	}
}

func TestObservation_Active_RespectsExpiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := Observation{ExpiresAt: &past}
	current := Observation{ExpiresAt: &future}
	forever := Observation{}

	now := time.Now()
	if expired.Active(now) {
		t.Error("expected an expired observation to be inactive")
	}
	if !current.Active(now) {
		t.Error("expected an unexpired observation to be active")
	}
	if !forever.Active(now) {
		t.Error("expected an observation with no expiry to be active")
	}
}

func TestIsTrustRelation(t *testing.T) {
	if !IsTrustRelation("trusts") {
		t.Error("expected 'trusts' to be a trust relation")
	}
	if IsTrustRelation("mentions") {
		t.Error("expected 'mentions' to not be a trust relation")
	}
}

func TestSnapshot_TrustedByAndTrusts(t *testing.T) {
	snap := Snapshot{
		Relations: []Relation{
			{Source: "B", Target: "A", Relation: "trusts"},
			{Source: "A", Target: "C", Relation: "endorsed_by"},
			{Source: "D", Target: "A", Relation: "mentions"},
		},
	}
	if len(snap.TrustedBy("A")) != 1 {
		t.Errorf("expected 1 trust-typed relation targeting A, got %d", len(snap.TrustedBy("A")))
	}
	if len(snap.Trusts("A")) != 1 {
		t.Errorf("expected 1 trust-typed relation sourced from A, got %d", len(snap.Trusts("A")))
	}
	if snap.TotalRelations("A") != 3 {
		t.Errorf("expected 3 total relations touching A, got %d", snap.TotalRelations("A"))
	}
}

func TestLoader_Load_ReturnsErrUnavailableOnMiss(t *testing.T) {
	store := kvstore.NewMemoryStore(10)
	loader := NewLoader(store, "graph:snapshot")

	_, err := loader.Load(context.Background())
	if err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoader_Load_ParsesStoredSnapshot(t *testing.T) {
	store := kvstore.NewMemoryStore(10)
	snap := Snapshot{Entities: []Entity{{Name: "A"}}}
	raw, _ := json.Marshal(snap)
	store.Put(context.Background(), "graph:snapshot", raw, 0)

	loader := NewLoader(store, "graph:snapshot")
	loaded, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Entities) != 1 || loaded.Entities[0].Name != "A" {
		t.Errorf("expected the parsed snapshot to round-trip, got %+v", loaded)
	}
}

func TestLoader_Load_ReturnsErrUnavailableOnMalformedJSON(t *testing.T) {
	store := kvstore.NewMemoryStore(10)
	store.Put(context.Background(), "graph:snapshot", []byte("not json"), 0)

	loader := NewLoader(store, "graph:snapshot")
	_, err := loader.Load(context.Background())
	if err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable for malformed JSON, got %v", err)
	}
}
