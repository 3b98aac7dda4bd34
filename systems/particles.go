package systems

import (
	"fmt"
	"math"
	"math/rand"
)

// Particle is one grain of sand on the plate. Inactive particles are
// skipped by integration but never removed; the array size is fixed at
// construction.
type Particle struct {
	X, Y   float32
	VX, VY float32
	Active bool
}

// ForceModelKind selects which force law drives the particles.
type ForceModelKind uint8

const (
	// ForceGradientFollow: pure gradient descent toward nodal lines,
	// with occasional jitter. Used in Demo mode.
	ForceGradientFollow ForceModelKind = iota
	// ForceResonanceGated: settling strength scales with the control
	// signal cubed, noise scales inversely. The primary Live model.
	ForceResonanceGated
	// ForceMotionGated: particles get kicked where the plate moves
	// hard and drift toward calm regions. The alternate Live model.
	ForceMotionGated
)

// ForceModel bundles a force law with the inputs it samples.
type ForceModel struct {
	Kind      ForceModelKind
	Field     *WaveField
	Motion    *MotionGrid
	Control   float32
	Amplitude float32
}

// GradientFollow builds the Demo-mode force model.
func GradientFollow(field *WaveField) ForceModel {
	return ForceModel{Kind: ForceGradientFollow, Field: field}
}

// ResonanceGated builds the primary Live-mode force model. control is
// the combined pitch-accuracy/loudness signal in [0,1]; amplitude the
// wave amplitude multiplier.
func ResonanceGated(field *WaveField, control, amplitude float32) ForceModel {
	return ForceModel{Kind: ForceResonanceGated, Field: field, Control: control, Amplitude: amplitude}
}

// MotionGated builds the alternate Live-mode force model driven by a
// plate motion grid.
func MotionGated(motion *MotionGrid) ForceModel {
	return ForceModel{Kind: ForceMotionGated, Motion: motion}
}

// Shared integration constants. Forces and velocities are capped with
// squared comparisons to keep square roots off the hot path.
const (
	boundaryMargin = 15.0
	boundaryForce  = 100.0
	maxForce       = 500.0
	maxForceSq     = maxForce * maxForce
	maxVelocity    = 200.0
	maxVelocitySq  = maxVelocity * maxVelocity

	defaultSpawnMargin = 20.0
)

// ParticleField owns the particle array and integrates per-particle
// forces each tick. Randomness comes from the injected generator, so
// runs are reproducible under a fixed seed.
type ParticleField struct {
	particles   []Particle
	gridSize    float32
	spawnMargin float32
	rng         *rand.Rand
}

// NewParticleField spawns count particles uniformly inside spawnMargin
// of a gridSize x gridSize domain. A non-positive spawnMargin falls
// back to the default of 20 cells. Panics if count or gridSize is not
// positive.
func NewParticleField(gridSize, count int, spawnMargin float32, rng *rand.Rand) *ParticleField {
	if count <= 0 {
		panic(fmt.Sprintf("systems: particle count must be positive, got %d", count))
	}
	if gridSize <= 0 {
		panic(fmt.Sprintf("systems: particle grid size must be positive, got %d", gridSize))
	}
	if spawnMargin <= 0 {
		spawnMargin = defaultSpawnMargin
	}
	// Keep the spawn box inside the domain on small grids
	if half := float32(gridSize) / 2; spawnMargin > half {
		spawnMargin = half
	}
	f := &ParticleField{
		particles:   make([]Particle, count),
		gridSize:    float32(gridSize),
		spawnMargin: spawnMargin,
		rng:         rng,
	}
	f.Respawn()
	return f
}

// Respawn re-seeds all particles to uniform-random positions inside
// the spawn margin, with zero velocity.
func (f *ParticleField) Respawn() {
	innerSize := f.gridSize - 2*f.spawnMargin
	if innerSize < 0 {
		innerSize = 0
	}
	for i := range f.particles {
		f.particles[i] = Particle{
			X:      f.spawnMargin + f.rng.Float32()*innerSize,
			Y:      f.spawnMargin + f.rng.Float32()*innerSize,
			Active: true,
		}
	}
}

// Particles returns the particle slice for rendering and inspection.
func (f *ParticleField) Particles() []Particle {
	return f.particles
}

// Count returns the number of particles.
func (f *ParticleField) Count() int {
	return len(f.particles)
}

// GridSize returns the domain side length.
func (f *ParticleField) GridSize() float32 {
	return f.gridSize
}

// Integrate advances every active particle by one timestep under the
// given force model. All models share the same skeleton: accumulate the
// model force, add boundary repulsion, cap the force, semi-implicit
// Euler with velocity damping, cap the velocity, and clamp the position
// to the domain interior as a final safety net.
func (f *ParticleField) Integrate(dt float32, model ForceModel) {
	gridSize := f.gridSize
	gridMinusMargin := gridSize - boundaryMargin
	gridMinus2 := gridSize - 2
	const invMargin = 1.0 / boundaryMargin

	damping := float32(0.85)
	switch model.Kind {
	case ForceResonanceGated:
		damping = 0.82
	case ForceMotionGated:
		damping = 0.92
	}

	// Resonance-gated strengths are uniform across particles this tick.
	// Cubic control response sharpens the chaotic-to-locked transition;
	// noise never fully vanishes so the pattern stays alive.
	var settlingStrength, noiseStrength float32
	if model.Kind == ForceResonanceGated {
		c := model.Control
		settlingStrength = c * c * c * 700.0 * model.Amplitude
		noiseStrength = 80.0*(1.0-c*0.7) + 20.0
	}

	for i := range f.particles {
		p := &f.particles[i]
		if !p.Active {
			continue
		}

		var fx, fy float32

		switch model.Kind {
		case ForceGradientFollow:
			gx, gy := model.Field.GradientAt(p.X, p.Y)
			fx = -gx * 300.0
			fy = -gy * 300.0
			// Occasional jitter keeps particles from sticking
			if f.rng.Float32() < 0.1 {
				fx += (f.rng.Float32() - 0.5) * 20.0
				fy += (f.rng.Float32() - 0.5) * 20.0
			}

		case ForceResonanceGated:
			gx, gy := model.Field.GradientAt(p.X, p.Y)
			fx = -gx * settlingStrength
			fy = -gy * settlingStrength
			fx += (f.rng.Float32() - 0.5) * noiseStrength
			fy += (f.rng.Float32() - 0.5) * noiseStrength

		case ForceMotionGated:
			const (
				kickThreshold = 0.5
				kickStrength  = 100.0
				driftStrength = 200.0
				calmNoise     = 15.0
			)
			localMotion := model.Motion.At(p.X, p.Y)

			if localMotion > kickThreshold {
				// Randomly directed kick proportional to the excess
				kick := (localMotion - kickThreshold) * kickStrength
				angle := f.rng.Float64() * 2 * math.Pi
				fx += float32(math.Cos(angle)) * kick
				fy += float32(math.Sin(angle)) * kick
			}

			// Drift toward calm regions
			gx, gy := model.Motion.GradientAt(p.X, p.Y)
			fx -= gx * driftStrength
			fy -= gy * driftStrength

			// Gentle noise prevents freezing when the plate is quiet
			if localMotion < kickThreshold && f.rng.Float32() < 0.15 {
				fx += (f.rng.Float32() - 0.5) * calmNoise
				fy += (f.rng.Float32() - 0.5) * calmNoise
			}
		}

		// Boundary repulsion: linear falloff inside the margin. Soft
		// steering; the position clamp below is the hard stop.
		if p.X < boundaryMargin {
			fx += boundaryForce * (1 - p.X*invMargin)
		} else if p.X > gridMinusMargin {
			fx -= boundaryForce * (1 - (gridSize-p.X)*invMargin)
		}
		if p.Y < boundaryMargin {
			fy += boundaryForce * (1 - p.Y*invMargin)
		} else if p.Y > gridMinusMargin {
			fy -= boundaryForce * (1 - (gridSize-p.Y)*invMargin)
		}

		// Cap force before applying so a near-singular gradient cannot
		// eject a particle in a single frame
		forceSq := fx*fx + fy*fy
		if forceSq > maxForceSq {
			scale := maxForce / sqrtFloat(forceSq)
			fx *= scale
			fy *= scale
		}

		p.VX += fx * dt
		p.VY += fy * dt
		p.VX *= damping
		p.VY *= damping

		// Cap velocity after integration to prevent runaway accumulation
		velSq := p.VX*p.VX + p.VY*p.VY
		if velSq > maxVelocitySq {
			scale := maxVelocity / sqrtFloat(velSq)
			p.VX *= scale
			p.VY *= scale
		}

		p.X += p.VX * dt
		p.Y += p.VY * dt

		p.X = clampFloat(p.X, 1, gridMinus2)
		p.Y = clampFloat(p.Y, 1, gridMinus2)
	}
}

// MeanGradientMagnitude averages |gradient| of the wave field over all
// active particles. It trends toward zero as particles settle on nodal
// lines, which makes it a useful convergence metric.
func (f *ParticleField) MeanGradientMagnitude(field *WaveField) float32 {
	var sum float32
	var n int
	for i := range f.particles {
		p := &f.particles[i]
		if !p.Active {
			continue
		}
		gx, gy := field.GradientAt(p.X, p.Y)
		sum += sqrtFloat(gx*gx + gy*gy)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

// Speeds appends the speed of every active particle to dst and returns
// the extended slice. Used for window statistics.
func (f *ParticleField) Speeds(dst []float64) []float64 {
	for i := range f.particles {
		p := &f.particles[i]
		if !p.Active {
			continue
		}
		dst = append(dst, float64(velocityMagnitude(p.VX, p.VY)))
	}
	return dst
}
