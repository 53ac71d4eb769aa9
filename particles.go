package mural

import (
	"math"
	"math/rand/v2"
)

// Deletion ephemera tuning.
const (
	floatAwayLife   = 1.4 // seconds
	floatAwayRise   = 60.0
	scatterCount    = 14
	scatterLifeMin  = 0.5
	scatterLifeMax  = 1.1
	scatterSpeedMin = 40.0
	scatterSpeedMax = 110.0
	maxScatter      = 256
)

// floatAway is the deleted blob's silhouette drifting upward while fading.
type floatAway struct {
	x, y   float64
	radius float64
	shape  Shape
	seed   uint32
	col    Color
	age    float64
	life   float64
}

// scatterParticle is one point particle with velocity and fading alpha.
type scatterParticle struct {
	x, y   float64
	vx, vy float64
	col    Color
	age    float64
	life   float64
}

// Ephemera holds the short-lived visual-only records spawned by optimistic
// deletion. Purely cosmetic; nothing here is persisted or reconciled.
type Ephemera struct {
	floats []floatAway
	parts  []scatterParticle
}

// SpawnBurst creates a float-away silhouette and a scatter burst at the
// entity's last known position. New particles are silently dropped when
// the pool is full.
func (e *Ephemera) SpawnBurst(x, y, radius float64, shape Shape, seed uint32, col Color) {
	e.floats = append(e.floats, floatAway{
		x: x, y: y, radius: radius,
		shape: shape, seed: seed, col: col,
		life: floatAwayLife,
	})
	for i := 0; i < scatterCount; i++ {
		if len(e.parts) >= maxScatter {
			break
		}
		angle := rand.Float64() * 2 * math.Pi
		speed := scatterSpeedMin + rand.Float64()*(scatterSpeedMax-scatterSpeedMin)
		e.parts = append(e.parts, scatterParticle{
			x: x, y: y,
			vx:   math.Cos(angle) * speed,
			vy:   math.Sin(angle) * speed,
			col:  col,
			life: scatterLifeMin + rand.Float64()*(scatterLifeMax-scatterLifeMin),
		})
	}
}

// Update advances all ephemera by dt seconds, swap-removing anything that
// has fully faded.
func (e *Ephemera) Update(dt float64) {
	i := 0
	for i < len(e.floats) {
		f := &e.floats[i]
		f.age += dt
		if f.age >= f.life {
			last := len(e.floats) - 1
			e.floats[i] = e.floats[last]
			e.floats = e.floats[:last]
			continue
		}
		f.y -= floatAwayRise * dt / floatAwayLife
		i++
	}

	i = 0
	for i < len(e.parts) {
		p := &e.parts[i]
		p.age += dt
		if p.age >= p.life {
			last := len(e.parts) - 1
			e.parts[i] = e.parts[last]
			e.parts = e.parts[:last]
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		i++
	}
}

// Active reports whether any ephemera are still alive.
func (e *Ephemera) Active() bool {
	return len(e.floats) > 0 || len(e.parts) > 0
}

// alpha returns the current fade of a float-away record.
func (f *floatAway) alpha() float64 {
	return 1 - f.age/f.life
}

// alpha returns the current fade of a scatter particle.
func (p *scatterParticle) alpha() float64 {
	return 1 - p.age/p.life
}

// Clear discards all ephemera.
func (e *Ephemera) Clear() {
	e.floats = e.floats[:0]
	e.parts = e.parts[:0]
}
