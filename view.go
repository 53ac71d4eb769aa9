package mural

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits. The lower bound keeps the whole mural at most slightly
// smaller than the fitted view; the upper bound keeps blobs readable.
const (
	MinZoom = 0.5
	MaxZoom = 4.0
)

// View maps between reference space and the viewport's logical pixel
// space. It owns the pan center, the zoom scale, and the device pixel
// ratio. Rendering and hit testing both go through it.
//
// Device pixel ratio is a separate multiplicative layer applied only at
// the drawing surface: ToScreen and ToRef operate in logical pixels, so
// hit testing is unaffected by it.
type View struct {
	// CenterX and CenterY are the reference-space point at the viewport
	// center (the pan center).
	CenterX, CenterY float64
	// Zoom is the user zoom on top of the base fit (1.0 = fitted).
	Zoom float64
	// Width and Height are the viewport size in logical pixels.
	Width, Height float64
	// DPR is the device pixel ratio applied at draw-surface level.
	DPR float64

	zoomTween *gween.Tween
}

// NewView creates a view centered on the reference rectangle at fit zoom.
func NewView(width, height, dpr float64) *View {
	return &View{
		CenterX: RefWidth / 2,
		CenterY: RefHeight / 2,
		Zoom:    1.0,
		Width:   width,
		Height:  height,
		DPR:     dpr,
	}
}

// Resize records a new viewport size and device pixel ratio.
func (v *View) Resize(width, height, dpr float64) {
	v.Width = width
	v.Height = height
	v.DPR = dpr
	v.clampPan()
}

// baseFit is the uniform scale fitting the reference rectangle into the
// viewport while preserving aspect ratio.
func (v *View) baseFit() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return math.Min(v.Width/RefWidth, v.Height/RefHeight)
}

// Scale returns the effective reference-to-logical-pixel scale.
func (v *View) Scale() float64 {
	return v.baseFit() * v.Zoom
}

// ToScreen converts a reference-space point to logical pixels.
func (v *View) ToScreen(rx, ry float64) (sx, sy float64) {
	s := v.Scale()
	return (rx-v.CenterX)*s + v.Width/2, (ry-v.CenterY)*s + v.Height/2
}

// ToRef converts a logical-pixel point to reference space.
func (v *View) ToRef(sx, sy float64) (rx, ry float64) {
	s := v.Scale()
	return v.CenterX + (sx-v.Width/2)/s, v.CenterY + (sy-v.Height/2)/s
}

// ZoomAround multiplies the zoom by factor while keeping the reference
// point under the screen position (sx, sy) fixed. The new pan center is
// solved algebraically from the focus point rather than re-derived.
func (v *View) ZoomAround(factor, sx, sy float64) {
	rx, ry := v.ToRef(sx, sy)
	v.zoomTween = nil
	v.Zoom = clamp(v.Zoom*factor, MinZoom, MaxZoom)

	s := v.Scale()
	v.CenterX = rx - (sx-v.Width/2)/s
	v.CenterY = ry - (sy-v.Height/2)/s
	v.clampPan()
}

// ZoomTo animates the zoom toward target over duration seconds, keeping
// the current pan center. Used by explicit zoom controls.
func (v *View) ZoomTo(target float64, duration float32) {
	target = clamp(target, MinZoom, MaxZoom)
	v.zoomTween = gween.New(float32(v.Zoom), float32(target), duration, ease.OutQuad)
}

// VisibleBounds returns the reference-space rectangle currently covered
// by the viewport.
func (v *View) VisibleBounds() Rect {
	x0, y0 := v.ToRef(0, 0)
	x1, y1 := v.ToRef(v.Width, v.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Pan shifts the view by a logical-pixel delta (drag semantics: content
// follows the pointer, so the center moves opposite the delta).
func (v *View) Pan(dxPix, dyPix float64) {
	s := v.Scale()
	v.CenterX -= dxPix / s
	v.CenterY -= dyPix / s
	v.clampPan()
}

// Update advances any active zoom animation. Called once per frame tick.
func (v *View) Update(dt float32) {
	if v.zoomTween == nil {
		return
	}
	val, done := v.zoomTween.Update(dt)
	v.Zoom = float64(val)
	if done {
		v.zoomTween = nil
	}
	v.clampPan()
}

// clampPan keeps the pan center inside the reference rectangle so the
// mural cannot be dragged entirely out of view.
func (v *View) clampPan() {
	v.CenterX = clamp(v.CenterX, 0, RefWidth)
	v.CenterY = clamp(v.CenterY, 0, RefHeight)
}
