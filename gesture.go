package mural

import (
	"math"
	"time"
)

// Gesture timing and movement thresholds.
const (
	maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

	// DragDeadZone is the movement in logical pixels beyond which a press
	// stops being a potential tap or long-press and becomes a drag.
	DragDeadZone = 6.0
	// LongPressDelay is how long a still press on the viewer's own entity
	// must be held before delete-intent fires.
	LongPressDelay = 500 * time.Millisecond
	// DoubleTapWindow is the window within which a second tap on the same
	// entity resolves as Resonate instead of Select.
	DoubleTapWindow = 350 * time.Millisecond

	// Per-frame pinch ratio clamp, against jitter-induced runaway zoom.
	pinchRatioMin = 0.9
	pinchRatioMax = 1.1
)

// Hit is the result of entity hit testing.
type Hit struct {
	ID            EntityID
	OwnedByViewer bool
}

// HitTester resolves a logical-pixel point to the topmost entity under it,
// using current animated positions.
type HitTester interface {
	HitAt(sx, sy float64) (Hit, bool)
}

// Gestures holds the semantic-action callbacks the arbiter resolves raw
// pointer events into. Nil callbacks are skipped.
type Gestures struct {
	Select       func(EntityID)
	Resonate     func(EntityID)
	DeleteIntent func(EntityID)
	// Pan receives per-event deltas in logical pixels.
	Pan func(dx, dy float64)
	// Pinch receives the clamped per-frame scale ratio and the gesture
	// center in logical pixels.
	Pinch func(ratio, cx, cy float64)
}

// pointerSession is the per-pointer gesture state machine.
type pointerSession struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	// consumed suppresses tap resolution on release (set by long-press
	// fire and by pinch participation).
	consumed bool
}

type pinchSession struct {
	active   bool
	p0, p1   int
	prevDist float64
}

// Arbiter classifies raw pointer events into semantic gestures: tap/select,
// double-tap/resonate, long-press/delete-intent, drag/pan, pinch/zoom.
// Ambiguity is resolved with timing and movement thresholds.
//
// State is terminal per gesture session; nothing persists across sessions
// except the rolling last-tap record used for double-tap detection.
type Arbiter struct {
	hits HitTester
	on   Gestures

	pointers [maxPointers]pointerSession
	pinch    pinchSession

	// Pending long-press timer. Armed on pointer-down over the viewer's
	// own entity; disarmed by movement, release, or a second touch.
	lpArmed    bool
	lpPointer  int
	lpDeadline time.Time
	lpTarget   EntityID

	lastTapID EntityID
	lastTapAt time.Time
}

// NewArbiter creates an arbiter resolving hits through the given tester.
func NewArbiter(hits HitTester, on Gestures) *Arbiter {
	return &Arbiter{hits: hits, on: on}
}

// PointerDown feeds a press at logical-pixel coordinates.
func (a *Arbiter) PointerDown(id int, x, y float64, now time.Time) {
	if id < 0 || id >= maxPointers {
		return
	}
	ps := &a.pointers[id]
	ps.down = true
	ps.startX, ps.startY = x, y
	ps.lastX, ps.lastY = x, y
	ps.dragging = false
	ps.consumed = false

	if a.activePointers() >= 2 {
		a.beginPinch()
		return
	}

	// A single press starts both a potential drag and, when the press
	// lands on an entity the viewer owns, a long-press timer.
	if hit, ok := a.hits.HitAt(x, y); ok && hit.OwnedByViewer {
		a.lpArmed = true
		a.lpPointer = id
		a.lpDeadline = now.Add(LongPressDelay)
		a.lpTarget = hit.ID
	}
}

// PointerMove feeds a move for a held pointer. Moves for pointers that are
// not down are ignored (the mural has no hover affordances).
func (a *Arbiter) PointerMove(id int, x, y float64, now time.Time) {
	if id < 0 || id >= maxPointers {
		return
	}
	ps := &a.pointers[id]
	if !ps.down {
		return
	}
	a.fireLongPress(now)

	dx := x - ps.lastX
	dy := y - ps.lastY
	ps.lastX, ps.lastY = x, y

	if a.pinch.active && (id == a.pinch.p0 || id == a.pinch.p1) {
		a.updatePinch()
		return
	}

	if !ps.dragging {
		sx := x - ps.startX
		sy := y - ps.startY
		if math.Sqrt(sx*sx+sy*sy) > DragDeadZone {
			// Beyond the threshold: the long-press timer is cancelled,
			// the drag is not.
			if a.lpArmed && a.lpPointer == id {
				a.lpArmed = false
			}
			ps.dragging = true
		}
	}
	if ps.dragging && !ps.consumed && a.activePointers() == 1 {
		if a.on.Pan != nil && (dx != 0 || dy != 0) {
			a.on.Pan(dx, dy)
		}
	}
}

// PointerUp feeds a release and resolves the session.
func (a *Arbiter) PointerUp(id int, x, y float64, now time.Time) {
	if id < 0 || id >= maxPointers {
		return
	}
	ps := &a.pointers[id]
	if !ps.down {
		return
	}
	a.fireLongPress(now)

	if a.pinch.active && (id == a.pinch.p0 || id == a.pinch.p1) {
		a.endPinch(id)
	}
	if a.lpArmed && a.lpPointer == id {
		a.lpArmed = false
	}

	tap := !ps.dragging && !ps.consumed
	ps.down = false
	ps.dragging = false
	ps.consumed = false

	if !tap {
		return
	}
	hit, ok := a.hits.HitAt(x, y)
	if !ok {
		a.lastTapID = ""
		return
	}
	if hit.ID == a.lastTapID && now.Sub(a.lastTapAt) <= DoubleTapWindow {
		// Second tap inside the window: Resonate instead of Select, and
		// clear the record so a third tap starts fresh.
		a.lastTapID = ""
		if a.on.Resonate != nil {
			a.on.Resonate(hit.ID)
		}
		return
	}
	a.lastTapID = hit.ID
	a.lastTapAt = now
	if a.on.Select != nil {
		a.on.Select(hit.ID)
	}
}

// Tick advances the long-press timer. Call once per frame.
func (a *Arbiter) Tick(now time.Time) {
	a.fireLongPress(now)
}

// fireLongPress raises delete-intent when the armed timer has elapsed.
// The firing session is consumed so the subsequent release produces no tap.
func (a *Arbiter) fireLongPress(now time.Time) {
	if !a.lpArmed || now.Before(a.lpDeadline) {
		return
	}
	a.lpArmed = false
	a.pointers[a.lpPointer].consumed = true
	if a.on.DeleteIntent != nil {
		a.on.DeleteIntent(a.lpTarget)
	}
}

func (a *Arbiter) activePointers() int {
	count := 0
	for i := range a.pointers {
		if a.pointers[i].down {
			count++
		}
	}
	return count
}

// beginPinch switches the session to pinch-zoom mode. Any pending
// long-press is cancelled and both pointers are consumed: a pinch never
// resolves to taps.
func (a *Arbiter) beginPinch() {
	a.lpArmed = false

	found := 0
	for i := range a.pointers {
		if !a.pointers[i].down {
			continue
		}
		if found == 0 {
			a.pinch.p0 = i
		} else if found == 1 {
			a.pinch.p1 = i
		}
		found++
	}
	if found < 2 {
		return
	}
	a.pinch.active = true
	a.pinch.prevDist = a.pinchDist()
	a.pointers[a.pinch.p0].consumed = true
	a.pointers[a.pinch.p1].consumed = true
	a.pointers[a.pinch.p0].dragging = false
	a.pointers[a.pinch.p1].dragging = false
}

func (a *Arbiter) pinchDist() float64 {
	p0 := &a.pointers[a.pinch.p0]
	p1 := &a.pointers[a.pinch.p1]
	dx := p1.lastX - p0.lastX
	dy := p1.lastY - p0.lastY
	return math.Sqrt(dx*dx + dy*dy)
}

// updatePinch computes the per-frame scale ratio from the change in
// inter-finger distance, clamped against jitter.
func (a *Arbiter) updatePinch() {
	dist := a.pinchDist()
	if a.pinch.prevDist <= 0 || dist <= 0 {
		a.pinch.prevDist = dist
		return
	}
	ratio := clamp(dist/a.pinch.prevDist, pinchRatioMin, pinchRatioMax)
	a.pinch.prevDist = dist

	p0 := &a.pointers[a.pinch.p0]
	p1 := &a.pointers[a.pinch.p1]
	cx := (p0.lastX + p1.lastX) / 2
	cy := (p0.lastY + p1.lastY) / 2
	if a.on.Pinch != nil && ratio != 1 {
		a.on.Pinch(ratio, cx, cy)
	}
}

// endPinch leaves pinch mode when either participating pointer lifts. The
// remaining pointer continues as a drag: it pans again but can no longer
// resolve to a tap.
func (a *Arbiter) endPinch(lifted int) {
	a.pinch.active = false
	remaining := a.pinch.p0
	if lifted == a.pinch.p0 {
		remaining = a.pinch.p1
	}
	if a.pointers[remaining].down {
		a.pointers[remaining].dragging = true
		a.pointers[remaining].consumed = false
	}
}
