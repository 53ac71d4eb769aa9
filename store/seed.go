package store

import (
	"time"

	"github.com/hushwall/mural"
)

// Seed fills an empty MemoryStore with a small set of entities so the
// mural has something to show when no backend is configured. A few are
// owned by viewer so the owner-only interactions can be tried offline.
func Seed(s *MemoryStore, viewer string) {
	base := time.Now().Add(-time.Hour)
	seeds := []struct {
		owner     string
		message   string
		color     mural.Color
		shape     mural.Shape
		intensity int
		category  string
		embedding []float32
	}{
		{"stranger-1", "finally slept through the night", mural.Color{R: 0.45, G: 0.72, B: 0.95, A: 1}, mural.ShapeSmooth, 2, "calm", []float32{0.9, 0.1, 0.0, 0.2}},
		{"stranger-1", "missed the last train again", mural.Color{R: 0.55, G: 0.45, B: 0.75, A: 1}, mural.ShapeJagged, 3, "frustration", []float32{0.1, 0.8, 0.3, 0.1}},
		{"stranger-2", "she said yes", mural.Color{R: 0.98, G: 0.75, B: 0.3, A: 1}, mural.ShapeSpiky, 5, "joy", []float32{0.2, 0.1, 0.9, 0.3}},
		{"stranger-2", "quiet morning, good coffee", mural.Color{R: 0.5, G: 0.85, B: 0.6, A: 1}, mural.ShapeSmooth, 1, "calm", []float32{0.85, 0.15, 0.1, 0.25}},
		{"stranger-3", "third rejection this month", mural.Color{R: 0.35, G: 0.4, B: 0.65, A: 1}, mural.ShapeJagged, 4, "sadness", []float32{0.1, 0.7, 0.2, 0.6}},
		{viewer, "nervous about tomorrow", mural.Color{R: 0.8, G: 0.5, B: 0.55, A: 1}, mural.ShapeSpiky, 3, "anxiety", []float32{0.2, 0.6, 0.1, 0.7}},
		{viewer, "proud of the little garden", mural.Color{R: 0.55, G: 0.9, B: 0.45, A: 1}, mural.ShapeSmooth, 2, "joy", []float32{0.3, 0.1, 0.85, 0.2}},
	}
	for i, sd := range seeds {
		s.Add(mural.Entity{
			Owner:     sd.owner,
			Message:   sd.message,
			Color:     sd.color,
			Shape:     sd.shape,
			Intensity: sd.intensity,
			Category:  sd.category,
			CreatedAt: base.Add(time.Duration(i) * 4 * time.Minute),
		}, sd.embedding)
	}
}
