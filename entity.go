package mural

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityID is the opaque unique identifier the store assigns on creation.
type EntityID string

// Entity is one submitted expression, visualized as a blob on the mural.
//
// Position is in reference space and is assigned by the layout engine the
// first time the entity is placed; a zero position means "not yet placed".
type Entity struct {
	ID        EntityID
	Owner     string // opaque viewer token; empty means anonymous
	Message   string
	Color     Color
	Shape     Shape
	Intensity int    // bounded ordinal, 0 when unset
	Category  string // enumerated tag, empty when unset
	X, Y      float64
	CreatedAt time.Time
}

// Placed reports whether the entity has a committed reference-space position.
func (e *Entity) Placed() bool {
	return e.X != 0 || e.Y != 0
}

// Scored pairs an entity with the similarity score a lookup reported for it.
// The score is transient query output, never entity state.
type Scored struct {
	Entity Entity
	Score  float64
}

// Resonance is one lightweight acknowledgment directed at an entity.
type Resonance struct {
	TargetID EntityID
	ActorID  string
	At       time.Time
}

// LoadOrCreateToken returns the viewer's opaque identity token, generating
// and persisting a new one on first run. There is no authentication; the
// token only lets the viewer recognize their own entities.
func LoadOrCreateToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write token file: %w", err)
	}
	return token, nil
}
