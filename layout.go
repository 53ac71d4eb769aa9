package mural

import "math"

// boundsMargin keeps placements away from the reference-space edges so a
// blob's silhouette stays fully visible at rest.
const boundsMargin = 30.0

// LayoutParams configures the spiral placement strategy.
type LayoutParams struct {
	// Step is the angular advance per index in radians.
	Step float64
	// Separation is the radius growth per radian (Archimedean constant).
	Separation float64
	// Base is the radius offset at angle zero.
	Base float64
	// MinDist is the minimum allowed distance to any already-placed target.
	MinDist float64
	// Retry is the angular advance applied on each collision back-off.
	Retry float64
	// MaxRetries bounds the back-off loop; the final candidate is accepted
	// even if still colliding once the budget is exhausted.
	MaxRetries int
}

// FullLayoutParams is the looser parameter set used when laying out the
// whole entity collection at once.
func FullLayoutParams() LayoutParams {
	return LayoutParams{
		Step:       0.6,
		Separation: 6.0,
		Base:       40,
		MinDist:    36,
		Retry:      0.4,
		MaxRetries: 24,
	}
}

// InsertParams is the tighter parameter set used for single-entity
// insertion at the spiral tail (polling or similarity discoveries), where
// denser packing is tolerable.
func InsertParams() LayoutParams {
	return LayoutParams{
		Step:       0.6,
		Separation: 5.0,
		Base:       40,
		MinDist:    28,
		Retry:      0.4,
		MaxRetries: 24,
	}
}

// Place returns the spiral position for the entity at the given insertion
// index, backing off from any taken position closer than MinDist. The
// returned flag reports whether the retry budget was exhausted with the
// candidate still in collision (graceful degradation over infinite retry).
//
// Placement is fully deterministic: the same index and taken set always
// produce the same coordinates.
func (p LayoutParams) Place(index int, taken []Vec2) (Vec2, bool) {
	angle := float64(index) * p.Step
	var candidate Vec2
	for attempt := 0; ; attempt++ {
		radius := p.Base + p.Separation*angle
		candidate = Vec2{
			// The reference rectangle is wider than tall; stretching the
			// spiral horizontally uses the extra room.
			X: RefWidth/2 + radius*math.Cos(angle)*(RefWidth/RefHeight),
			Y: RefHeight/2 + radius*math.Sin(angle),
		}
		candidate.X = clamp(candidate.X, boundsMargin, RefWidth-boundsMargin)
		candidate.Y = clamp(candidate.Y, boundsMargin, RefHeight-boundsMargin)

		if !tooClose(candidate, taken, p.MinDist) {
			return candidate, false
		}
		if attempt >= p.MaxRetries {
			return candidate, true
		}
		angle += p.Retry
	}
}

// tooClose reports whether c lies within minDist of any taken position.
func tooClose(c Vec2, taken []Vec2, minDist float64) bool {
	for _, t := range taken {
		dx := c.X - t.X
		dy := c.Y - t.Y
		if dx*dx+dy*dy < minDist*minDist {
			return true
		}
	}
	return false
}
