package mural

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// HitRadius is the hit-test radius in reference units, larger than the
// visual blob radius so targets remain usable on touch.
const HitRadius = 30.0

// Store is the persistence collaborator as consumed by the controller.
// Implementations live in the store package.
type Store interface {
	// FetchEntities returns the full entity set, reverse chronological.
	FetchEntities(ctx context.Context) ([]Entity, error)
	// FetchSimilar returns up to 8 other entities genuinely similar to the
	// given one, scored in [0,1], descending.
	FetchSimilar(ctx context.Context, id EntityID) ([]Scored, error)
	// FetchSimilarOwn returns up to 5 of the owner's other entities with a
	// distance score, ascending.
	FetchSimilarOwn(ctx context.Context, id EntityID, owner string) ([]Scored, error)
	// RecordResonance records actor's resonance with the target entity.
	RecordResonance(ctx context.Context, target EntityID, actor string) error
	// Delete removes the entity; owner mismatch must fail.
	Delete(ctx context.Context, id EntityID, owner string) error
	// PollResonances returns recent resonance events targeting the
	// owner's entities.
	PollResonances(ctx context.Context, owner string) ([]Resonance, error)
}

// fold is a state delta produced off-thread and applied on the frame tick.
type fold func(*Mural)

// Mural owns the canonical entity collection and all per-entity transient
// state, orchestrating layout, animation, gestures, and the store.
//
// Concurrency discipline: network calls run in goroutines, but their
// results come back as folds through a channel drained at the start of
// Update on the frame goroutine: state maps are only ever mutated between
// frames by whoever holds control, and render passes observe committed
// state only. After Close, pending folds become inert.
type Mural struct {
	store  Store
	log    *zap.Logger
	viewer string
	view   *View

	ctx     context.Context
	cancel  context.CancelFunc
	results chan fold
	closed  bool

	entities   []*Entity // insertion order; draw order bottom to top
	index      map[EntityID]*Entity
	placements map[EntityID]*Placement
	glows      *GlowSet
	// removed tombstones optimistically deleted ids so a poll that still
	// includes them cannot resurrect them (accepted inconsistency).
	removed map[EntityID]struct{}
	eph     Ephemera

	// placeCursor is the spiral tail index. Monotonic: deletions never
	// reclaim spiral positions, keeping insertion deterministic.
	placeCursor int

	selected   EntityID
	ownSimilar []Scored

	loaded  bool
	loadErr error

	// Per-frame draw buffers, reused to avoid hot-path allocation.
	drawOutline []Vec2
	drawVerts   []ebiten.Vertex
	drawInds    []uint16

	now                time.Time
	sinceEntityPoll    float64
	sinceResonancePoll float64
	entityPollEvery    float64
	resonancePollEvery float64
}

// NewMural creates a controller over the given store and view. The logger
// may be nil.
func NewMural(st Store, view *View, viewer string, log *zap.Logger, cfg Config) *Mural {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Mural{
		store:              st,
		log:                log,
		viewer:             viewer,
		view:               view,
		ctx:                ctx,
		cancel:             cancel,
		results:            make(chan fold, 16),
		index:              make(map[EntityID]*Entity),
		placements:         make(map[EntityID]*Placement),
		glows:              NewGlowSet(),
		removed:            make(map[EntityID]struct{}),
		entityPollEvery:    cfg.EntityPollSeconds,
		resonancePollEvery: cfg.ResonancePollSeconds,
	}
}

// Start issues the initial full fetch. Its failure is fatal to the view
// (surfaced via LoadError, no retry); every later request failure is a
// silent no-op per the error-handling design.
func (m *Mural) Start() {
	now := time.Now()
	go func() {
		list, err := m.store.FetchEntities(m.ctx)
		var f fold
		if err != nil {
			f = func(m *Mural) {
				m.loadErr = err
				m.log.Error("initial load failed", zap.Error(err))
			}
		} else {
			f = func(m *Mural) { m.foldInitial(list, now) }
		}
		m.deliver(f)
	}()
}

// deliver hands a fold to the frame goroutine, dropping it on teardown.
func (m *Mural) deliver(f fold) {
	select {
	case m.results <- f:
	case <-m.ctx.Done():
	}
}

// dispatch runs a store call off-thread and folds its result back in.
// Errors are logged at debug and otherwise discarded.
func (m *Mural) dispatch(op string, call func(ctx context.Context) (fold, error)) {
	go func() {
		f, err := call(m.ctx)
		if err != nil {
			m.log.Debug("request failed", zap.String("op", op), zap.Error(err))
			return
		}
		if f != nil {
			m.deliver(f)
		}
	}()
}

// foldInitial lays out the fetched collection: full spiral layout with
// cascading spawn animation from the mural center.
func (m *Mural) foldInitial(list []Entity, fetchedAt time.Time) {
	params := FullLayoutParams()
	center := Vec2{X: RefWidth / 2, Y: RefHeight / 2}
	taken := make([]Vec2, 0, len(list))

	for i := range list {
		e := list[i]
		if _, dup := m.index[e.ID]; dup {
			continue
		}
		target := Vec2{X: e.X, Y: e.Y}
		if !e.Placed() {
			target, _ = params.Place(m.placeCursor, taken)
		}
		taken = append(taken, target)

		ent := &e
		m.entities = append(m.entities, ent)
		m.index[e.ID] = ent
		if fetchedAt.Sub(e.CreatedAt) < RecencyWindow {
			ent.X, ent.Y = target.X, target.Y
			m.placements[e.ID] = SettledPlacement(target)
		} else {
			delay := float32(m.placeCursor) * SpawnStagger
			m.placements[e.ID] = NewPlacement(center, target, delay)
		}
		m.placeCursor++
	}
	m.loaded = true
	m.log.Info("mural loaded", zap.Int("entities", len(m.entities)))
}

// insertAtTail appends a newly discovered entity at the spiral's growing
// edge. Already-known and tombstoned ids are no-ops, making poll and
// similarity folds idempotent.
func (m *Mural) insertAtTail(e Entity) {
	if _, gone := m.removed[e.ID]; gone {
		return
	}
	if _, known := m.index[e.ID]; known {
		return
	}
	params := InsertParams()
	taken := make([]Vec2, 0, len(m.entities))
	for _, ent := range m.entities {
		taken = append(taken, m.targetOf(ent))
	}
	target := Vec2{X: e.X, Y: e.Y}
	if !e.Placed() {
		target, _ = params.Place(m.placeCursor, taken)
	}
	m.placeCursor++

	ent := &e
	m.entities = append(m.entities, ent)
	m.index[e.ID] = ent
	if m.now.Sub(e.CreatedAt) < RecencyWindow {
		ent.X, ent.Y = target.X, target.Y
		m.placements[e.ID] = SettledPlacement(target)
	} else {
		m.placements[e.ID] = NewPlacement(Vec2{X: RefWidth / 2, Y: RefHeight / 2}, target, 0)
	}
}

// targetOf returns the entity's resting position: committed coordinates,
// or the placement target while the spawn animation runs.
func (m *Mural) targetOf(e *Entity) Vec2 {
	if p, ok := m.placements[e.ID]; ok {
		return p.Target()
	}
	return Vec2{X: e.X, Y: e.Y}
}

// posOf returns the entity's current animated position.
func (m *Mural) posOf(e *Entity) Vec2 {
	if p, ok := m.placements[e.ID]; ok {
		return p.Pos()
	}
	return Vec2{X: e.X, Y: e.Y}
}

// Update advances one frame: folds pending results, advances animations,
// and drives the polling cadence. Never blocks.
func (m *Mural) Update(now time.Time, dt float64) {
	if m.closed {
		return
	}
	m.now = now

	for {
		select {
		case f := <-m.results:
			f(m)
		default:
			goto drained
		}
	}
drained:

	for id, p := range m.placements {
		if p.Update(float32(dt)) {
			// Settle commits the canonical position exactly once.
			if e, ok := m.index[id]; ok {
				t := p.Target()
				e.X, e.Y = t.X, t.Y
			}
		}
	}
	m.eph.Update(dt)
	m.view.Update(float32(dt))

	if !m.loaded {
		return
	}
	m.sinceEntityPoll += dt
	if m.sinceEntityPoll >= m.entityPollEvery {
		m.sinceEntityPoll = 0
		m.pollEntities()
	}
	m.sinceResonancePoll += dt
	if m.sinceResonancePoll >= m.resonancePollEvery {
		m.sinceResonancePoll = 0
		m.pollResonances()
	}
}

// pollEntities fetches the entity set and inserts anything new at the
// spiral tail. Existing entities are never re-laid-out.
func (m *Mural) pollEntities() {
	m.dispatch("poll_entities", func(ctx context.Context) (fold, error) {
		list, err := m.store.FetchEntities(ctx)
		if err != nil {
			return nil, err
		}
		return func(m *Mural) {
			for i := range list {
				m.insertAtTail(list[i])
			}
		}, nil
	})
}

// pollResonances raises glows for recent resonances targeting the
// viewer's own entities.
func (m *Mural) pollResonances() {
	m.dispatch("poll_resonances", func(ctx context.Context) (fold, error) {
		events, err := m.store.PollResonances(ctx, m.viewer)
		if err != nil {
			return nil, err
		}
		return func(m *Mural) {
			for _, ev := range events {
				if _, known := m.index[ev.TargetID]; known {
					m.glows.RaiseResonance(ev.TargetID, m.now)
				}
			}
		}, nil
	})
}

// Select toggles the highlight on an entity. Re-selecting the highlighted
// entity clears the highlight and all glow state; otherwise the selection
// moves, prior glow state is cleared, and a similarity lookup is issued.
// If the entity is the viewer's own, a same-owner lookup additionally
// populates the side panel.
func (m *Mural) Select(id EntityID) {
	if m.selected == id {
		m.selected = ""
		m.glows.Clear()
		m.ownSimilar = nil
		return
	}
	e, ok := m.index[id]
	if !ok {
		return
	}
	m.selected = id
	m.glows.Clear()
	m.ownSimilar = nil

	m.dispatch("fetch_similar", func(ctx context.Context) (fold, error) {
		scored, err := m.store.FetchSimilar(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(m *Mural) {
			if m.selected != id {
				return // selection moved while in flight
			}
			for _, s := range scored {
				if _, gone := m.removed[s.Entity.ID]; gone {
					continue
				}
				m.insertAtTail(s.Entity)
				m.glows.RaiseSimilarity(s.Entity.ID, s.Score, m.now)
			}
		}, nil
	})

	if m.ownedByViewer(e) {
		m.dispatch("fetch_similar_own", func(ctx context.Context) (fold, error) {
			scored, err := m.store.FetchSimilarOwn(ctx, id, m.viewer)
			if err != nil {
				return nil, err
			}
			return func(m *Mural) {
				if m.selected == id {
					m.ownSimilar = scored
				}
			}, nil
		})
	}
}

// Resonate optimistically raises a resonance glow on the target and
// fire-and-forgets the record request. Failure is not surfaced; the glow
// is a best-effort social signal and is never rolled back.
func (m *Mural) Resonate(id EntityID) {
	if _, ok := m.index[id]; !ok {
		return
	}
	m.glows.RaiseResonance(id, m.now)
	m.dispatch("record_resonance", func(ctx context.Context) (fold, error) {
		return nil, m.store.RecordResonance(ctx, id, m.viewer)
	})
}

// Delete optimistically removes the viewer's own entity: it leaves the
// canonical list and every state map synchronously, a tombstone prevents
// resurrection by later polls, and float-away ephemera spawn at its last
// animated position. The store request is fire-and-forget with no
// rollback path.
func (m *Mural) Delete(id EntityID) {
	e, ok := m.index[id]
	if !ok || !m.ownedByViewer(e) {
		return
	}
	pos := m.posOf(e)

	for i, ent := range m.entities {
		if ent.ID == id {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
	delete(m.index, id)
	delete(m.placements, id)
	m.glows.Remove(id)
	m.removed[id] = struct{}{}
	if m.selected == id {
		m.selected = ""
		m.ownSimilar = nil
	}

	m.eph.SpawnBurst(pos.X, pos.Y, BlobRadius(e.Intensity), e.Shape, ShapeSeed(id), e.Color)
	m.log.Debug("entity deleted", zap.String("id", string(id)))
	m.dispatch("delete", func(ctx context.Context) (fold, error) {
		return nil, m.store.Delete(ctx, id, m.viewer)
	})
}

// HitAt resolves a logical-pixel point to the topmost entity under it.
// Entities are scanned in reverse insertion order (topmost-drawn wins)
// at their current animated positions.
func (m *Mural) HitAt(sx, sy float64) (Hit, bool) {
	rx, ry := m.view.ToRef(sx, sy)
	for i := len(m.entities) - 1; i >= 0; i-- {
		e := m.entities[i]
		pos := m.posOf(e)
		dx := pos.X - rx
		dy := pos.Y - ry
		if dx*dx+dy*dy <= HitRadius*HitRadius {
			return Hit{ID: e.ID, OwnedByViewer: m.ownedByViewer(e)}, true
		}
	}
	return Hit{}, false
}

func (m *Mural) ownedByViewer(e *Entity) bool {
	return m.viewer != "" && e.Owner == m.viewer
}

// View returns the view state shared with rendering and input.
func (m *Mural) View() *View {
	return m.view
}

// Selected returns the highlighted entity id, or "" when none.
func (m *Mural) Selected() EntityID {
	return m.selected
}

// OwnSimilar returns the side-panel list of the viewer's own similar past
// entries for the current selection.
func (m *Mural) OwnSimilar() []Scored {
	return m.ownSimilar
}

// Loaded reports whether the initial fetch has been folded in.
func (m *Mural) Loaded() bool {
	return m.loaded
}

// LoadError returns the fatal initial-load failure, if any.
func (m *Mural) LoadError() error {
	return m.loadErr
}

// Entities returns the canonical collection in draw order. The returned
// slice MUST NOT be mutated.
func (m *Mural) Entities() []*Entity {
	return m.entities
}

// Close tears down the render-loop lifetime: polls stop, in-flight
// results become inert, and all state maps are cleared.
func (m *Mural) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	m.entities = nil
	clear(m.index)
	clear(m.placements)
	clear(m.removed)
	m.glows.Clear()
	m.eph.Clear()
}
