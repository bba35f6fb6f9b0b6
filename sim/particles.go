package sim

import (
	"math"
	"math/rand"

	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
)

// Particle is one advected trail head in screen-pixel space. PrevX/Y
// hold last frame's position so the renderer draws segments, not dots.
type Particle struct {
	X, Y         float64
	PrevX, PrevY float64
	Age          int
	MaxAge       int
}

// SampleFunc returns the wind vector at a screen position, plus the
// field's current max speed for normalization. ok=false means no data
// within range — which is NOT the same as calm wind.
type SampleFunc func(x, y float64) (vec field.Vector, maxSpeed float64, ok bool)

// Tuning holds the advection constants that don't vary with zoom.
type Tuning struct {
	MaxSpeedPx   float64
	BaseDropRate float64
	DropRateBump float64
	FadeFrames   int
	AgeJitter    float64
}

// Pool is a fixed-size particle pool. Particles are never freed
// individually; they cycle through respawns, and LOD changes resize the
// pool by appending or truncating only — a full re-seed flashes.
type Pool struct {
	particles []Particle
	rng       *rand.Rand
	tuning    Tuning

	// Respawns counts transitions this frame, exposed for the HUD.
	Respawns int
}

// NewPool creates an empty pool; the first Step's LOD resize fills it.
func NewPool(rng *rand.Rand, tuning Tuning) *Pool {
	return &Pool{rng: rng, tuning: tuning}
}

// Particles exposes the live slice for rendering. Read-only between
// Steps.
func (p *Pool) Particles() []Particle { return p.particles }

// Resize grows or shrinks the pool to the LOD target. Growth appends
// freshly respawned particles; shrink truncates.
func (p *Pool) Resize(count int, vp geo.Viewport, maxAge int) {
	if count < 0 {
		count = 0
	}
	if count <= len(p.particles) {
		p.particles = p.particles[:count]
		return
	}
	for len(p.particles) < count {
		var pt Particle
		p.respawn(&pt, vp, maxAge)
		p.particles = append(p.particles, pt)
	}
}

// Step advances every particle one frame: pan compensation, field
// sampling, advection, aging, and the respawn rules.
func (p *Pool) Step(vp geo.Viewport, sample SampleFunc, lod LODParams, panDX, panDY float64) {
	p.Respawns = 0

	for i := range p.particles {
		pt := &p.particles[i]

		// Keep the particle glued to the terrain during a pan.
		if panDX != 0 || panDY != 0 {
			pt.X += panDX
			pt.Y += panDY
			pt.PrevX += panDX
			pt.PrevY += panDY
			if !vp.OnScreen(pt.X, pt.Y) {
				p.respawn(pt, vp, lod.MaxParticleAge)
				continue
			}
		}

		pt.Age++
		if pt.Age >= pt.MaxAge {
			p.respawn(pt, vp, lod.MaxParticleAge)
			continue
		}

		vec, maxSpeed, ok := sample(pt.X, pt.Y)
		if !ok {
			// No data here — forced respawn, never treated as calm.
			p.respawn(pt, vp, lod.MaxParticleAge)
			continue
		}

		norm := 0.0
		if maxSpeed > 0 {
			norm = vec.Speed / maxSpeed
			if norm > 1 {
				norm = 1
			}
		}
		// Fast particles cross the screen quickly and pile up in the
		// jet streaks; dropping them more often keeps density even.
		if p.rng.Float64() < p.tuning.BaseDropRate+p.tuning.DropRateBump*norm {
			p.respawn(pt, vp, lod.MaxParticleAge)
			continue
		}

		mag := math.Hypot(vec.U, vec.V)
		if mag > 0 {
			step := vec.Speed * lod.SpeedScale
			if step > p.tuning.MaxSpeedPx {
				step = p.tuning.MaxSpeedPx
			}
			pt.PrevX, pt.PrevY = pt.X, pt.Y
			// Screen y grows southward; v is northward.
			pt.X += vec.U / mag * step
			pt.Y -= vec.V / mag * step
		} else {
			pt.PrevX, pt.PrevY = pt.X, pt.Y
		}

		// Past any edge: respawn, never wrap — a wrapped particle
		// drags a full-width streak across the trail buffer.
		if !vp.OnScreen(pt.X, pt.Y) {
			p.respawn(pt, vp, lod.MaxParticleAge)
		}
	}
}

// respawn places a particle uniformly at random in the viewport with a
// fresh jittered lifetime, so the pool never pulses in sync.
func (p *Pool) respawn(pt *Particle, vp geo.Viewport, baseMaxAge int) {
	pt.X = p.rng.Float64() * vp.Width
	pt.Y = p.rng.Float64() * vp.Height
	pt.PrevX, pt.PrevY = pt.X, pt.Y
	pt.Age = 0

	j := p.tuning.AgeJitter
	pt.MaxAge = int(float64(baseMaxAge) * (1 - j/2 + p.rng.Float64()*j))
	if pt.MaxAge < 1 {
		pt.MaxAge = 1
	}
	p.Respawns++
}

// Alpha returns the age-based opacity in [0,1]: ramp in over the first
// FadeFrames of life, ramp out over the last FadeFrames.
func (p *Pool) Alpha(pt *Particle) float64 {
	fade := float64(p.tuning.FadeFrames)
	if fade <= 0 {
		return 1
	}
	a := 1.0
	if in := float64(pt.Age) / fade; in < a {
		a = in
	}
	if out := float64(pt.MaxAge-pt.Age) / fade; out < a {
		a = out
	}
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
