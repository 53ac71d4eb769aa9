package mural

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelZoomStep is the per-notch zoom factor for mouse-wheel zooming.
const wheelZoomStep = 0.1

// Keyboard zoom: each press eases toward the stepped zoom level.
const (
	keyZoomStep     = 1.4
	keyZoomDuration = 0.25
)

// Game adapts the mural to ebiten's frame loop: it polls raw mouse and
// touch input into the arbiter each tick and forwards Draw/Layout. The
// frame callback never blocks; all I/O runs through the controller's
// async fold path.
type Game struct {
	mural *Mural
	arb   *Arbiter

	mouseDown      bool
	mouseX, mouseY float64
	touchMap       [maxPointers]ebiten.TouchID
	touchUsed      [maxPointers]bool
	touchX, touchY [maxPointers]float64
	prevTouchIDs   []ebiten.TouchID
}

// NewGame wires a controller to an arbiter whose semantic gestures drive
// the controller and view.
func NewGame(m *Mural) *Game {
	view := m.View()
	arb := NewArbiter(m, Gestures{
		Select:       m.Select,
		Resonate:     m.Resonate,
		DeleteIntent: m.Delete,
		Pan:          view.Pan,
		Pinch: func(ratio, cx, cy float64) {
			view.ZoomAround(ratio, cx, cy)
		},
	})
	return &Game{mural: m, arb: arb}
}

// Update runs one cooperative tick: input, gesture timers, then the
// controller's fold/animate/poll pass.
func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())

	g.pollMouse(now)
	g.pollTouches(now)
	g.pollWheel()
	g.pollKeys()
	g.arb.Tick(now)
	g.mural.Update(now, dt)
	return nil
}

// Draw renders the current frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mural.Draw(screen)
}

// Layout sizes the drawing surface in device pixels while keeping the
// view (and therefore all hit testing) in logical pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	g.mural.View().Resize(float64(outsideWidth), float64(outsideHeight), dpr)
	return int(float64(outsideWidth) * dpr), int(float64(outsideHeight) * dpr)
}

// pollMouse feeds mouse state transitions as pointer 0.
func (g *Game) pollMouse(now time.Time) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && !g.mouseDown:
		g.arb.PointerDown(0, x, y, now)
	case pressed && g.mouseDown:
		if x != g.mouseX || y != g.mouseY {
			g.arb.PointerMove(0, x, y, now)
		}
	case !pressed && g.mouseDown:
		g.arb.PointerUp(0, x, y, now)
	}
	g.mouseDown = pressed
	g.mouseX, g.mouseY = x, y
}

// pollTouches maps platform touch ids to pointer slots 1-9 and feeds
// down/move/up transitions.
func (g *Game) pollTouches(now time.Time) {
	touchIDs := ebiten.AppendTouchIDs(g.prevTouchIDs[:0])
	g.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := g.touchSlot(tid)
		if slot < 0 {
			continue
		}
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)

		if !g.arb.pointers[slot].down {
			g.arb.PointerDown(slot, x, y, now)
		} else if x != g.touchX[slot] || y != g.touchY[slot] {
			g.arb.PointerMove(slot, x, y, now)
		}
		activeSlots[slot] = true
		g.touchX[slot], g.touchY[slot] = x, y
	}

	// Release slots whose touch disappeared this frame.
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && !activeSlots[i] {
			g.arb.PointerUp(i, g.touchX[i], g.touchY[i], now)
			g.touchUsed[i] = false
			g.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (g *Game) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && g.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !g.touchUsed[i] {
			g.touchUsed[i] = true
			g.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// pollKeys applies eased keyboard zoom: +/- step the zoom, 0 resets to fit.
func (g *Game) pollKeys() {
	view := g.mural.View()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		view.ZoomTo(view.Zoom*keyZoomStep, keyZoomDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		view.ZoomTo(view.Zoom/keyZoomStep, keyZoomDuration)
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		view.ZoomTo(1, keyZoomDuration)
	}
}

// pollWheel applies mouse-wheel zoom around the cursor.
func (g *Game) pollWheel() {
	_, yoff := ebiten.Wheel()
	if yoff == 0 {
		return
	}
	factor := 1 + wheelZoomStep*yoff
	if factor < 0.5 {
		factor = 0.5
	}
	g.mural.View().ZoomAround(factor, g.mouseX, g.mouseY)
}
