package response

import (
	"testing"
	"time"

	"github.com/oraclabs/trustscore/internal/graph"
	"github.com/oraclabs/trustscore/internal/reputation"
	"github.com/oraclabs/trustscore/internal/scoring"
	"github.com/oraclabs/trustscore/internal/screener"
)

func TestTier_Cutoffs(t *testing.T) {
	cases := map[float64]string{
		0.0:  "unknown",
		0.19: "unknown",
		0.20: "new",
		0.39: "new",
		0.40: "emerging",
		0.59: "emerging",
		0.60: "established",
		0.79: "established",
		0.80: "trusted",
		0.94: "trusted",
		0.95: "verified",
		1.0:  "verified",
	}
	for score, want := range cases {
		if got := Tier(score); got != want {
			t.Errorf("Tier(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestRecommendation_MaliciousAlwaysAvoid(t *testing.T) {
	safety := &screener.Result{Verdict: screener.VerdictMalicious}
	if got := Recommendation(0.99, safety); got != "AVOID" {
		t.Errorf("expected AVOID regardless of score, got %q", got)
	}
}

func TestRecommendation_Cutoffs(t *testing.T) {
	if got := Recommendation(0.5, nil); got != "PROCEED" {
		t.Errorf("expected PROCEED, got %q", got)
	}
	if got := Recommendation(0.25, nil); got != "CAUTION" {
		t.Errorf("expected CAUTION, got %q", got)
	}
	if got := Recommendation(0.1, nil); got != "INSUFFICIENT_DATA" {
		t.Errorf("expected INSUFFICIENT_DATA, got %q", got)
	}
}

func TestAssembleUnknown_DefaultsAndMalicious(t *testing.T) {
	env := AssembleUnknown("NoSuchAgent", nil, "")
	if env.Found {
		t.Fatal("expected found=false")
	}
	if env.TrustScore != 0.05 {
		t.Errorf("expected default score 0.05, got %v", env.TrustScore)
	}
	if env.Tier != "unknown" {
		t.Errorf("expected tier unknown, got %q", env.Tier)
	}
	if env.Recommendation != "INSUFFICIENT_DATA" {
		t.Errorf("expected INSUFFICIENT_DATA, got %q", env.Recommendation)
	}

	malicious := &screener.Result{Verdict: screener.VerdictMalicious}
	env2 := AssembleUnknown("NoSuchAgent", malicious, "")
	if env2.TrustScore != 0 {
		t.Errorf("expected score 0 under malicious verdict, got %v", env2.TrustScore)
	}
	if env2.Recommendation != "AVOID" {
		t.Errorf("expected AVOID, got %q", env2.Recommendation)
	}
}

func TestAssembleFound_RankWithinBounds(t *testing.T) {
	snap := graph.Snapshot{
		Entities: []graph.Entity{
			{Name: "a", Created: time.Now()},
			{Name: "b", Created: time.Now()},
			{Name: "c", Created: time.Now()},
		},
		Relations: []graph.Relation{
			{Source: "a", Target: "b", Relation: "trusts"},
		},
	}
	rep := reputation.Compute(snap)
	entity := snap.ByName()["b"]
	result := scoring.Score(entity, snap, rep, nil)

	env := AssembleFound(entity, snap, rep, result, nil, "0xabc")
	if !env.Found {
		t.Fatal("expected found=true")
	}
	if env.Rank.Position < 1 || env.Rank.Position > env.Rank.Total {
		t.Errorf("rank position %d out of bounds [1,%d]", env.Rank.Position, env.Rank.Total)
	}
	if env.Payment.Payer != "0xabc" {
		t.Errorf("expected payer echoed, got %q", env.Payment.Payer)
	}
}
