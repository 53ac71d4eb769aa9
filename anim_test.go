package mural

import (
	"testing"
	"time"
)

func TestPlacementEndpoints(t *testing.T) {
	start := Vec2{X: 400, Y: 300}
	target := Vec2{X: 100, Y: 80}
	p := NewPlacement(start, target, 0)

	if p.Pos() != start {
		t.Errorf("initial pos = %v, want %v", p.Pos(), start)
	}
	p.Update(SpawnDuration + 0.1)
	if p.Pos() != target {
		t.Errorf("final pos = %v, want %v", p.Pos(), target)
	}
	if !p.Settled() {
		t.Error("placement not settled after full duration")
	}
}

func TestPlacementProgressMonotoneTowardTarget(t *testing.T) {
	p := NewPlacement(Vec2{X: 0, Y: 0}, Vec2{X: 100, Y: 0}, 0)
	prev := 0.0
	for i := 0; i < 20; i++ {
		p.Update(SpawnDuration / 20)
		if p.Pos().X < prev-1e-4 {
			t.Fatalf("step %d moved backwards: %v -> %v", i, prev, p.Pos().X)
		}
		prev = p.Pos().X
	}
	assertNearTol(t, "final X", p.Pos().X, 100, 1e-3)
}

func TestPlacementDelayHoldsStart(t *testing.T) {
	start := Vec2{X: 10, Y: 20}
	p := NewPlacement(start, Vec2{X: 200, Y: 200}, 0.5)

	p.Update(0.3)
	if p.Pos() != start {
		t.Errorf("pos during delay = %v, want %v", p.Pos(), start)
	}
	// The step spanning the delay boundary flows its leftover into the tween.
	p.Update(0.3)
	if p.Pos() == start {
		t.Error("pos unchanged after delay elapsed")
	}
}

func TestPlacementSettlesExactlyOnce(t *testing.T) {
	p := NewPlacement(Vec2{}, Vec2{X: 50, Y: 50}, 0)
	settles := 0
	for i := 0; i < 60; i++ {
		if p.Update(0.1) {
			settles++
		}
	}
	if settles != 1 {
		t.Errorf("settled %d times, want exactly 1", settles)
	}
}

func TestSettledPlacementIsInert(t *testing.T) {
	at := Vec2{X: 5, Y: 6}
	p := SettledPlacement(at)
	if !p.Settled() {
		t.Fatal("not settled")
	}
	if p.Update(1) {
		t.Error("settled placement reported a settle")
	}
	if p.Pos() != at || p.Target() != at {
		t.Errorf("pos/target = %v/%v, want %v", p.Pos(), p.Target(), at)
	}
}

// --- Glows ---

func TestResonanceGlowLifetime(t *testing.T) {
	g := NewGlowSet()
	now := time.Now()
	g.RaiseResonance("a", now)

	if _, ok := g.ResonanceIntensity("a", now.Add(ResonanceGlowDuration-time.Millisecond)); !ok {
		t.Error("glow inactive just before expiry")
	}
	if _, ok := g.ResonanceIntensity("a", now.Add(ResonanceGlowDuration)); ok {
		t.Error("glow active at expiry")
	}
	// Expired record was evicted: even queries at an earlier time find nothing.
	if len(g.resonance) != 0 {
		t.Errorf("expired record not evicted: %v", g.resonance)
	}
}

func TestResonanceGlowRestartOverwrites(t *testing.T) {
	g := NewGlowSet()
	now := time.Now()
	g.RaiseResonance("a", now)
	g.RaiseResonance("a", now.Add(2*time.Second))

	if _, ok := g.ResonanceIntensity("a", now.Add(4*time.Second)); !ok {
		t.Error("restarted glow expired on the original clock")
	}
}

func TestResonancePulseShape(t *testing.T) {
	assertNear(t, "pulse(0)", resonancePulse(0), 0)
	assertNearTol(t, "pulse(1)", resonancePulse(1), 0, 1e-9)

	// Peaks damp as t grows.
	early := resonancePulse(1.0 / 6)
	late := resonancePulse(5.0 / 6)
	if late >= early {
		t.Errorf("pulse not damping: early %v, late %v", early, late)
	}
	for _, tt := range []float64{0.1, 0.33, 0.5, 0.77, 0.95} {
		if v := resonancePulse(tt); v < 0 || v > 1 {
			t.Errorf("pulse(%v) = %v out of [0,1]", tt, v)
		}
	}
}

func TestSimilarityGlowLifetimeAndFade(t *testing.T) {
	g := NewGlowSet()
	now := time.Now()
	g.RaiseSimilarity("a", 0.9, now)

	full, ok := g.SimilarityIntensity("a", now)
	if !ok {
		t.Fatal("glow inactive at start")
	}
	assertNear(t, "intensity at start", full, 1.0)

	half, ok := g.SimilarityIntensity("a", now.Add(SimilarityGlowDuration/2))
	if !ok {
		t.Fatal("glow inactive at half-life")
	}
	assertNearTol(t, "intensity at half-life", half, 0.5, 1e-9)

	if _, ok := g.SimilarityIntensity("a", now.Add(SimilarityGlowDuration)); ok {
		t.Error("glow active at expiry")
	}
	if len(g.similarity) != 0 {
		t.Errorf("expired record not evicted: %v", g.similarity)
	}
}

func TestSimilarityScoreSurvivesUntilExpiry(t *testing.T) {
	g := NewGlowSet()
	now := time.Now()
	g.RaiseSimilarity("a", 0.72, now)

	score, ok := g.SimilarityScore("a", now.Add(SimilarityGlowDuration-time.Millisecond))
	if !ok {
		t.Fatal("score unavailable before expiry")
	}
	assertNear(t, "score", score, 0.72)

	if _, ok := g.SimilarityScore("a", now.Add(SimilarityGlowDuration)); ok {
		t.Error("score available after expiry")
	}
}

func TestSimilarityTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{0.95, 1.0},
		{0.86, 1.0},
		{0.85, 0.75},
		{0.71, 0.75},
		{0.7, 0.5},
		{0.51, 0.5},
		{0.5, 0.3},
		{0.1, 0.3},
	}
	for _, c := range cases {
		assertNear(t, "tier", similarityTier(c.score), c.want)
	}
}

func TestGlowRemoveAndClear(t *testing.T) {
	g := NewGlowSet()
	now := time.Now()
	g.RaiseResonance("a", now)
	g.RaiseSimilarity("a", 0.9, now)
	g.RaiseSimilarity("b", 0.6, now)

	g.Remove("a")
	if _, ok := g.ResonanceIntensity("a", now); ok {
		t.Error("resonance survived Remove")
	}
	if _, ok := g.SimilarityIntensity("a", now); ok {
		t.Error("similarity survived Remove")
	}
	if _, ok := g.SimilarityIntensity("b", now); !ok {
		t.Error("unrelated glow removed")
	}

	g.Clear()
	if _, ok := g.SimilarityIntensity("b", now); ok {
		t.Error("glow survived Clear")
	}
}
