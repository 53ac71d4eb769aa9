package mural

import (
	"hash/fnv"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// blobSegments is the number of outline points per silhouette.
const blobSegments = 24

// BlobRadius returns the visual radius for an entity's intensity (0 when
// unset). Higher intensity draws slightly larger.
func BlobRadius(intensity int) float64 {
	return 20 + 1.5*float64(clamp(float64(intensity), 0, 5))
}

// ShapeSeed derives the deterministic per-entity silhouette seed.
func ShapeSeed(id EntityID) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// blobNoise is a tiny deterministic hash in [0,1) keyed by seed and index.
// Silhouettes must be stable frame to frame, so no math/rand here.
func blobNoise(seed, i uint32) float64 {
	x := seed ^ (i * 0x9e3779b9)
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return float64(x) / float64(math.MaxUint32)
}

// BlobOutline appends the closed silhouette polygon for the given shape,
// centered at (cx, cy), to buf and returns it. The outline is fully
// determined by (shape, radius, seed).
func BlobOutline(shape Shape, cx, cy, radius float64, seed uint32, buf []Vec2) []Vec2 {
	phase := blobNoise(seed, 0) * 2 * math.Pi
	phase2 := blobNoise(seed, 1) * 2 * math.Pi

	for i := 0; i < blobSegments; i++ {
		a := float64(i) / blobSegments * 2 * math.Pi
		var r float64
		switch shape {
		case ShapeSpiky:
			// Alternating long and short radii make star points; the seed
			// only rotates the star so points differ between entities.
			if i%2 == 0 {
				r = radius * 1.15
			} else {
				r = radius * 0.55
			}
			a += phase
		case ShapeJagged:
			r = radius * (0.7 + 0.45*blobNoise(seed, uint32(i)+2))
		default: // ShapeSmooth
			r = radius * (1 + 0.12*math.Sin(3*a+phase) + 0.07*math.Sin(5*a+phase2))
		}
		buf = append(buf, Vec2{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return buf
}

// buildBlobFan generates vertices and indices for a blob outline,
// fan-triangulated around an explicit center vertex so the star-shaped
// (non-convex) silhouettes triangulate correctly.
// N outline points produce N+1 vertices and 3*N indices.
func buildBlobFan(outline []Vec2, cx, cy float64, col Color, verts []ebiten.Vertex, inds []uint16) ([]ebiten.Vertex, []uint16) {
	n := len(outline)
	if n < 3 {
		return verts, inds
	}
	base := uint16(len(verts))

	cr := float32(col.R * col.A)
	cg := float32(col.G * col.A)
	cb := float32(col.B * col.A)
	ca := float32(col.A)

	verts = append(verts, ebiten.Vertex{
		DstX: float32(cx), DstY: float32(cy),
		ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
	})
	for _, p := range outline {
		verts = append(verts, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		inds = append(inds, base, base+1+uint16(i), base+1+uint16(next))
	}
	return verts, inds
}

// whitePixel is the shared 1x1 image blob fans are drawn with; color comes
// from vertex colors. Created lazily so tests never touch the GPU.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(colorWhiteRGBA)
	}
	return whitePixel
}
