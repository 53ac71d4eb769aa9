package mural

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// backgroundColor is the mural's night-sky backdrop.
var backgroundColor = Color{R: 0.07, G: 0.06, B: 0.11, A: 1}

// Glow rendering tuning.
const (
	glowRadiusScale     = 1.5
	glowAlpha           = 0.4
	selectionRingScale  = 1.22
	selectionRingAlpha  = 0.2
	scatterParticleSize = 3.0
	floatAwayAlphaScale = 0.8
)

// Draw renders one frame: blobs at their animated positions, glow
// overdraw, the selection ring, and deletion ephemera. The screen image
// is in device pixels; the view's DPR is applied here and nowhere else.
func (m *Mural) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(backgroundColor))

	if m.loadErr != nil {
		ebitenutil.DebugPrint(screen, "the mural could not be loaded, please try again later")
		return
	}

	dpr := m.view.DPR
	if dpr <= 0 {
		dpr = 1
	}
	scale := m.view.Scale() * dpr

	normal := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	additive := &ebiten.DrawTrianglesOptions{AntiAlias: true, Blend: BlendAdd.EbitenBlend()}

	cull := inflate(m.view.VisibleBounds(), BlobRadius(5)*glowRadiusScale)

	for _, e := range m.entities {
		pos := m.posOf(e)
		if !cull.Contains(pos.X, pos.Y) {
			continue
		}
		sx, sy := m.view.ToScreen(pos.X, pos.Y)
		sx *= dpr
		sy *= dpr
		radius := BlobRadius(e.Intensity) * scale
		seed := ShapeSeed(e.ID)

		glow := 0.0
		if v, ok := m.glows.SimilarityIntensity(e.ID, m.now); ok {
			glow = v
		}
		if v, ok := m.glows.ResonanceIntensity(e.ID, m.now); ok && v > glow {
			glow = v
		}
		if glow > 0 {
			col := e.Color
			col.A = glowAlpha * glow
			m.drawBlob(screen, e.Shape, sx, sy, radius*glowRadiusScale, seed, col, additive)
		}
		if e.ID == m.selected {
			col := ColorWhite
			col.A = selectionRingAlpha
			m.drawBlob(screen, e.Shape, sx, sy, radius*selectionRingScale, seed, col, additive)
		}

		body := e.Color
		body.A = 1
		m.drawBlob(screen, e.Shape, sx, sy, radius, seed, body, normal)
	}

	m.drawEphemera(screen, dpr, scale, normal, additive)
}

// drawBlob builds the silhouette fan and submits it in one triangle call.
func (m *Mural) drawBlob(dst *ebiten.Image, shape Shape, cx, cy, radius float64, seed uint32, col Color, opts *ebiten.DrawTrianglesOptions) {
	m.drawOutline = BlobOutline(shape, cx, cy, radius, seed, m.drawOutline[:0])
	m.drawVerts, m.drawInds = buildBlobFan(m.drawOutline, cx, cy, col, m.drawVerts[:0], m.drawInds[:0])
	dst.DrawTriangles(m.drawVerts, m.drawInds, ensureWhitePixel(), opts)
}

// drawEphemera renders float-away silhouettes and scatter particles.
func (m *Mural) drawEphemera(screen *ebiten.Image, dpr, scale float64, normal, additive *ebiten.DrawTrianglesOptions) {
	for i := range m.eph.floats {
		f := &m.eph.floats[i]
		sx, sy := m.view.ToScreen(f.x, f.y)
		col := f.col
		col.A = f.alpha() * floatAwayAlphaScale
		m.drawBlob(screen, f.shape, sx*dpr, sy*dpr, f.radius*scale, f.seed, col, normal)
	}
	for i := range m.eph.parts {
		p := &m.eph.parts[i]
		sx, sy := m.view.ToScreen(p.x, p.y)
		col := p.col
		col.A = p.alpha()
		m.drawQuad(screen, sx*dpr, sy*dpr, scatterParticleSize*scale, col, additive)
	}
}

// drawQuad submits a small axis-aligned particle quad.
func (m *Mural) drawQuad(dst *ebiten.Image, cx, cy, half float64, col Color, opts *ebiten.DrawTrianglesOptions) {
	m.drawOutline = append(m.drawOutline[:0],
		Vec2{X: cx - half, Y: cy - half},
		Vec2{X: cx + half, Y: cy - half},
		Vec2{X: cx + half, Y: cy + half},
		Vec2{X: cx - half, Y: cy + half},
	)
	m.drawVerts, m.drawInds = buildBlobFan(m.drawOutline, cx, cy, col, m.drawVerts[:0], m.drawInds[:0])
	dst.DrawTriangles(m.drawVerts, m.drawInds, ensureWhitePixel(), opts)
}

// inflate grows a rectangle by margin on every side.
func inflate(r Rect, margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// toRGBA converts a non-premultiplied Color to a premultiplied RGBA value.
func toRGBA(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R*c.A, 0, 1) * 255),
		G: uint8(clamp(c.G*c.A, 0, 1) * 255),
		B: uint8(clamp(c.B*c.A, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}
