// Package store provides implementations of the mural's persistence
// collaborator: an HTTP/JSON client for the real service and an
// in-memory store with embedding-based similarity used by tests and the
// offline demo.
//
// The contracts that matter are structural, not bit-exact: result
// ordering, similarity thresholds and limits, and owner checks. The
// mural's glow and layout logic depends on these.
package store

import "errors"

// Query contract limits shared by both implementations.
const (
	// SimilarLimit caps a similarity lookup's result set.
	SimilarLimit = 8
	// SimilarThreshold is the minimum similarity score returned; weaker
	// matches are not "genuinely similar" and are dropped.
	SimilarThreshold = 0.5
	// OwnSimilarLimit caps the same-owner lookup's result set.
	OwnSimilarLimit = 5
	// OwnDistanceThreshold is the maximum distance returned by the
	// same-owner lookup (distance = 1 - similarity).
	OwnDistanceThreshold = 0.5
)

var (
	// ErrNotFound reports a lookup against an unknown entity id.
	ErrNotFound = errors.New("store: entity not found")
	// ErrOwnerMismatch reports a delete attempt by a non-owner.
	ErrOwnerMismatch = errors.New("store: owner mismatch")
)
