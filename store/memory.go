package store

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hushwall/mural"
)

// resonanceWindow is how far back PollResonances looks.
const resonanceWindow = 30 * time.Second

type memEntity struct {
	mural.Entity
	embedding []float32
}

// MemoryStore is an in-memory implementation of the mural's store
// contract. Similarity is cosine over stored embeddings with the same
// thresholding and top-k behavior the real service applies server-side.
//
// Safe for concurrent use: the controller calls it from request
// goroutines.
type MemoryStore struct {
	mu         sync.Mutex
	entities   []memEntity
	resonances []mural.Resonance
	now        func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock overrides the store's clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}

// Add inserts an already-classified entity with its embedding, assigning
// an id and creation time when absent, and returns the stored entity.
func (s *MemoryStore) Add(e mural.Entity, embedding []float32) mural.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = mural.EntityID(uuid.NewString())
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.entities = append(s.entities, memEntity{Entity: e, embedding: embedding})
	return e
}

// FetchEntities returns all entities in reverse chronological order.
func (s *MemoryStore) FetchEntities(ctx context.Context) ([]mural.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]mural.Entity, 0, len(s.entities))
	for i := range s.entities {
		out = append(out, s.entities[i].Entity)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FetchSimilar returns up to SimilarLimit other entities whose embedding
// cosine similarity to the target meets SimilarThreshold, descending.
func (s *MemoryStore) FetchSimilar(ctx context.Context, id mural.EntityID) ([]mural.Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.find(id)
	if !ok {
		return nil, ErrNotFound
	}

	var results []mural.Scored
	for i := range s.entities {
		cand := &s.entities[i]
		if cand.ID == id {
			continue
		}
		score := cosine(target.embedding, cand.embedding)
		if score < SimilarThreshold {
			continue
		}
		results = append(results, mural.Scored{Entity: cand.Entity, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > SimilarLimit {
		results = results[:SimilarLimit]
	}
	return results, nil
}

// FetchSimilarOwn returns up to OwnSimilarLimit of the owner's other
// entities scored by distance (1 - similarity), ascending, thresholded.
func (s *MemoryStore) FetchSimilarOwn(ctx context.Context, id mural.EntityID, owner string) ([]mural.Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.find(id)
	if !ok {
		return nil, ErrNotFound
	}

	var results []mural.Scored
	for i := range s.entities {
		cand := &s.entities[i]
		if cand.ID == id || cand.Owner != owner {
			continue
		}
		dist := 1 - cosine(target.embedding, cand.embedding)
		if dist > OwnDistanceThreshold {
			continue
		}
		results = append(results, mural.Scored{Entity: cand.Entity, Score: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if len(results) > OwnSimilarLimit {
		results = results[:OwnSimilarLimit]
	}
	return results, nil
}

// RecordResonance appends a resonance event for the target entity.
func (s *MemoryStore) RecordResonance(ctx context.Context, target mural.EntityID, actor string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(target); !ok {
		return ErrNotFound
	}
	s.resonances = append(s.resonances, mural.Resonance{
		TargetID: target,
		ActorID:  actor,
		At:       s.now(),
	})
	return nil
}

// Delete removes the entity. The owner must match the stored owner.
func (s *MemoryStore) Delete(ctx context.Context, id mural.EntityID, owner string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entities {
		if s.entities[i].ID != id {
			continue
		}
		if s.entities[i].Owner != owner {
			return ErrOwnerMismatch
		}
		s.entities = append(s.entities[:i], s.entities[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// PollResonances returns recent resonance events targeting the owner's
// entities.
func (s *MemoryStore) PollResonances(ctx context.Context, owner string) ([]mural.Resonance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-resonanceWindow)
	owned := make(map[mural.EntityID]struct{})
	for i := range s.entities {
		if s.entities[i].Owner == owner {
			owned[s.entities[i].ID] = struct{}{}
		}
	}

	var out []mural.Resonance
	for _, r := range s.resonances {
		if r.At.Before(cutoff) {
			continue
		}
		if _, ok := owned[r.TargetID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// find returns the stored record for id. Caller holds the lock.
func (s *MemoryStore) find(id mural.EntityID) (*memEntity, bool) {
	for i := range s.entities {
		if s.entities[i].ID == id {
			return &s.entities[i], true
		}
	}
	return nil, false
}

// cosine computes cosine similarity between two embeddings, 0 when either
// is empty or mismatched in length.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
