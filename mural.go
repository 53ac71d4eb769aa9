package mural

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Reference space: the fixed logical coordinate system entity positions
// live in, independent of any viewport.
const (
	RefWidth  = 800.0
	RefHeight = 600.0
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

var colorWhiteRGBA = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Vec2 is a 2D vector used for positions, offsets, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Shape selects one of the three blob silhouettes.
type Shape uint8

const (
	ShapeSmooth Shape = iota // soft sinusoidal lobes
	ShapeSpiky               // alternating long/short star points
	ShapeJagged              // seeded irregular per-vertex jitter
)

// String returns the wire name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeSpiky:
		return "spiky"
	case ShapeJagged:
		return "jagged"
	default:
		return "smooth"
	}
}

// ParseShape maps a wire name to a Shape. Unknown names fall back to smooth.
func ParseShape(name string) Shape {
	switch name {
	case "spiky":
		return ShapeSpiky
	case "jagged":
		return ShapeJagged
	default:
		return ShapeSmooth
	}
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter (glow overdraw)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if b == BlendAdd {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
