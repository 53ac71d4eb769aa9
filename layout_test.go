package mural

import (
	"math"
	"testing"
)

func TestPlaceDeterministic(t *testing.T) {
	params := FullLayoutParams()
	taken := []Vec2{{X: 420, Y: 300}, {X: 380, Y: 330}}
	a, exhaustedA := params.Place(7, taken)
	b, exhaustedB := params.Place(7, taken)
	if a != b || exhaustedA != exhaustedB {
		t.Errorf("Place(7) not deterministic: %v/%v vs %v/%v", a, exhaustedA, b, exhaustedB)
	}
}

func TestPlaceRespectsMinDistance(t *testing.T) {
	params := FullLayoutParams()
	var taken []Vec2
	for i := 0; i < 60; i++ {
		pos, exhausted := params.Place(i, taken)
		if exhausted {
			continue // accepted-in-collision positions are exempt
		}
		for j, prev := range taken {
			dx := pos.X - prev.X
			dy := pos.Y - prev.Y
			if d := math.Sqrt(dx*dx + dy*dy); d < params.MinDist {
				t.Fatalf("index %d is %.2f from index %d, want >= %v", i, d, j, params.MinDist)
			}
		}
		taken = append(taken, pos)
	}
	if len(taken) < 40 {
		t.Errorf("only %d of 60 placements found clear positions", len(taken))
	}
}

func TestPlaceStaysInBounds(t *testing.T) {
	params := InsertParams()
	var taken []Vec2
	for i := 0; i < 200; i++ {
		pos, _ := params.Place(i, taken)
		if pos.X < boundsMargin || pos.X > RefWidth-boundsMargin ||
			pos.Y < boundsMargin || pos.Y > RefHeight-boundsMargin {
			t.Fatalf("index %d placed out of bounds: %v", i, pos)
		}
		taken = append(taken, pos)
	}
}

func TestPlaceRetryBudgetExhaustion(t *testing.T) {
	params := InsertParams()
	// Saturate the whole tray so no candidate can clear MinDist.
	var taken []Vec2
	for x := 0.0; x <= RefWidth; x += params.MinDist / 2 {
		for y := 0.0; y <= RefHeight; y += params.MinDist / 2 {
			taken = append(taken, Vec2{X: x, Y: y})
		}
	}
	pos, exhausted := params.Place(0, taken)
	if !exhausted {
		t.Error("expected retry budget exhaustion on a saturated mural")
	}
	if pos.X < boundsMargin || pos.X > RefWidth-boundsMargin {
		t.Errorf("degraded placement out of bounds: %v", pos)
	}
}

func TestPlaceLaterIndicesSpiralOutward(t *testing.T) {
	params := FullLayoutParams()
	center := Vec2{X: RefWidth / 2, Y: RefHeight / 2}
	near, _ := params.Place(0, nil)
	far, _ := params.Place(20, nil)
	if distTo(center, far) <= distTo(center, near) {
		t.Errorf("index 20 (%v) not farther from center than index 0 (%v)", far, near)
	}
}

func distTo(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
