package mural

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Spawn animation timing. Full layout staggers delays so entities cascade
// into place instead of all animating at once.
const (
	SpawnDuration = 1.1  // seconds
	SpawnStagger  = 0.06 // seconds of delay per index
	// RecencyWindow: entities created within this window appear directly
	// at their spiral target: they are new to the viewer, not re-entering
	// a settled mural.
	RecencyWindow = 5 * time.Second
)

// Glow lifetimes.
const (
	ResonanceGlowDuration  = 3 * time.Second
	SimilarityGlowDuration = 6 * time.Second
	// resonancePulses is the number of visible pulses a resonance glow
	// produces before damping to zero at expiry.
	resonancePulses = 3
)

// Placement interpolates an entity from a start position to its layout
// target with a cosine ease-in-out curve over [delay, delay+duration].
// Before the window the position clamps to start; after it, to the target,
// and the placement settles, a one-way latch that is never re-opened.
type Placement struct {
	start   Vec2
	target  Vec2
	delay   float32 // seconds remaining before interpolation begins
	tx, ty  *gween.Tween
	pos     Vec2
	settled bool
}

// NewPlacement creates an unsettled placement animating start → target
// after delay seconds.
func NewPlacement(start, target Vec2, delay float32) *Placement {
	return &Placement{
		start:  start,
		target: target,
		delay:  delay,
		tx:     gween.New(float32(start.X), float32(target.X), SpawnDuration, ease.InOutSine),
		ty:     gween.New(float32(start.Y), float32(target.Y), SpawnDuration, ease.InOutSine),
		pos:    start,
	}
}

// SettledPlacement creates a placement already latched at its target.
// Used for entities inside the recency window.
func SettledPlacement(at Vec2) *Placement {
	return &Placement{start: at, target: at, pos: at, settled: true}
}

// Update advances the animation by dt seconds. It reports true exactly
// once, on the frame the placement settles, so the caller can commit the
// canonical position.
func (p *Placement) Update(dt float32) bool {
	if p.settled {
		return false
	}
	if p.delay > 0 {
		if dt <= p.delay {
			p.delay -= dt
			return false
		}
		dt -= p.delay
		p.delay = 0
	}

	x, doneX := p.tx.Update(dt)
	y, doneY := p.ty.Update(dt)
	p.pos = Vec2{X: float64(x), Y: float64(y)}
	if doneX && doneY {
		p.pos = p.target
		p.settled = true
		return true
	}
	return false
}

// Pos returns the current animated position.
func (p *Placement) Pos() Vec2 {
	return p.pos
}

// Target returns the layout target position.
func (p *Placement) Target() Vec2 {
	return p.target
}

// Settled reports whether the placement has latched to its target.
func (p *Placement) Settled() bool {
	return p.settled
}

// --- Glows ---

type similarityGlow struct {
	start time.Time
	score float64
}

// GlowSet holds per-entity glow records. An expired record (age >=
// duration) is equivalent to an absent one and is evicted lazily on the
// access that observes it; there is no expiry timer.
type GlowSet struct {
	resonance  map[EntityID]time.Time
	similarity map[EntityID]similarityGlow
}

// NewGlowSet creates an empty glow set.
func NewGlowSet() *GlowSet {
	return &GlowSet{
		resonance:  make(map[EntityID]time.Time),
		similarity: make(map[EntityID]similarityGlow),
	}
}

// RaiseResonance starts (or restarts) a resonance glow on the entity.
// A duplicate raise is an overwrite, not an error.
func (g *GlowSet) RaiseResonance(id EntityID, now time.Time) {
	g.resonance[id] = now
}

// RaiseSimilarity starts a similarity glow carrying the reported score.
func (g *GlowSet) RaiseSimilarity(id EntityID, score float64, now time.Time) {
	g.similarity[id] = similarityGlow{start: now, score: score}
}

// ResonanceIntensity returns the current pulse intensity of the entity's
// resonance glow, or false if none is active.
func (g *GlowSet) ResonanceIntensity(id EntityID, now time.Time) (float64, bool) {
	start, ok := g.resonance[id]
	if !ok {
		return 0, false
	}
	age := now.Sub(start)
	if age < 0 || age >= ResonanceGlowDuration {
		delete(g.resonance, id)
		return 0, false
	}
	t := age.Seconds() / ResonanceGlowDuration.Seconds()
	return resonancePulse(t), true
}

// SimilarityIntensity returns the current intensity of the entity's
// similarity glow, or false if none is active. Intensity is the score's
// tier multiplier faded linearly to zero over the glow's lifetime.
func (g *GlowSet) SimilarityIntensity(id EntityID, now time.Time) (float64, bool) {
	rec, ok := g.similarity[id]
	if !ok {
		return 0, false
	}
	age := now.Sub(rec.start)
	if age < 0 || age >= SimilarityGlowDuration {
		delete(g.similarity, id)
		return 0, false
	}
	t := age.Seconds() / SimilarityGlowDuration.Seconds()
	return similarityTier(rec.score) * (1 - t), true
}

// SimilarityScore returns the score recorded for an active similarity
// glow, or false if none is active.
func (g *GlowSet) SimilarityScore(id EntityID, now time.Time) (float64, bool) {
	rec, ok := g.similarity[id]
	if !ok {
		return 0, false
	}
	if age := now.Sub(rec.start); age < 0 || age >= SimilarityGlowDuration {
		delete(g.similarity, id)
		return 0, false
	}
	return rec.score, true
}

// Remove drops all glow records for the entity.
func (g *GlowSet) Remove(id EntityID) {
	delete(g.resonance, id)
	delete(g.similarity, id)
}

// Clear drops every glow record.
func (g *GlowSet) Clear() {
	clear(g.resonance)
	clear(g.similarity)
}

// resonancePulse produces k visible pulses damping to zero by t=1.
func resonancePulse(t float64) float64 {
	return math.Abs(math.Sin(t*math.Pi*resonancePulses)) * (1 - t)
}

// similarityTier maps a similarity score in [0,1] to a visual intensity
// multiplier: very similar, similar, slightly similar, baseline.
func similarityTier(score float64) float64 {
	switch {
	case score > 0.85:
		return 1.0
	case score > 0.7:
		return 0.75
	case score > 0.5:
		return 0.5
	default:
		return 0.3
	}
}
