package systems

import (
	"fmt"
	"math"
)

// DrivenSolver time-steps the 2D damped wave equation
//
//	u_tt = c^2 * (u_xx + u_yy) + source - damping * u_t
//
// with explicit leapfrog integration and a point source, modeling a
// plate driven by a speaker contact. Edges are clamped to zero.
type DrivenSolver struct {
	width  int
	height int

	// Wave state, double-buffered for time-stepping
	uCurr []float32 // u at time n
	uPrev []float32 // u at time n-1
	uNext []float32 // u at time n+1 (scratch)

	velocity []float32 // du/dt = (uCurr - uPrev) / dt

	waveSpeed float32
	damping   float32
	dx        float32

	time float32
}

// NewDrivenSolver creates a solver for a width x height grid.
// waveSpeed sets the resonant frequencies; damping the energy loss rate
// (0 = none). Panics if the grid is smaller than 5x5: the 3x3 source
// kernel needs a 2-cell margin inside the clamped boundary.
func NewDrivenSolver(width, height int, waveSpeed, damping float32) *DrivenSolver {
	if width < 5 || height < 5 {
		panic(fmt.Sprintf("systems: driven solver grid too small: %dx%d", width, height))
	}
	size := width * height
	return &DrivenSolver{
		width:     width,
		height:    height,
		uCurr:     make([]float32, size),
		uPrev:     make([]float32, size),
		uNext:     make([]float32, size),
		velocity:  make([]float32, size),
		waveSpeed: waveSpeed,
		damping:   damping,
		dx:        1.0,
	}
}

// Width returns the grid width.
func (s *DrivenSolver) Width() int { return s.width }

// Height returns the grid height.
func (s *DrivenSolver) Height() int { return s.height }

// Step advances the simulation by dt seconds, substepping as needed to
// stay under the CFL stability limit (c*dt/dx <= 0.707 in 2D). The
// source position is normalized to [0, 1] on both axes.
func (s *DrivenSolver) Step(dt, sourceX, sourceY, sourceAmplitude float32) {
	if dt <= 0 {
		return
	}

	const cflLimit = 0.707
	cflActual := s.waveSpeed * dt / s.dx
	numSubsteps := int(math.Ceil(float64(cflActual / cflLimit)))
	if numSubsteps < 1 {
		numSubsteps = 1
	}
	subDt := dt / float32(numSubsteps)

	cdtdx := s.waveSpeed * subDt / s.dx
	c2dt2dx2 := cdtdx * cdtdx
	dampingCoeff := s.damping * subDt

	srcX := int(clampFloat(sourceX*float32(s.width), 2, float32(s.width)-3))
	srcY := int(clampFloat(sourceY*float32(s.height), 2, float32(s.height)-3))

	for i := 0; i < numSubsteps; i++ {
		s.substep(c2dt2dx2, dampingCoeff, srcX, srcY, sourceAmplitude, subDt)
	}

	// Velocity field for the motion metric
	invDt := 1 / dt
	for i := range s.velocity {
		s.velocity[i] = (s.uCurr[i] - s.uPrev[i]) * invDt
	}

	s.time += dt
}

// substep runs one leapfrog update over the interior.
func (s *DrivenSolver) substep(c2dt2dx2, dampingCoeff float32, srcX, srcY int, sourceAmp, subDt float32) {
	w := s.width
	h := s.height

	for j := 1; j < h-1; j++ {
		for i := 1; i < w-1; i++ {
			idx := j*w + i

			laplacian := s.uCurr[idx-1] +
				s.uCurr[idx+1] +
				s.uCurr[idx-w] +
				s.uCurr[idx+w] -
				4*s.uCurr[idx]

			s.uNext[idx] = (2-dampingCoeff)*s.uCurr[idx] -
				(1-dampingCoeff)*s.uPrev[idx] +
				c2dt2dx2*laplacian
		}
	}

	// Point source spread over a 3x3 Gaussian-ish kernel: the center
	// gets 50% of the energy, the four neighbors 12.5% each.
	sourceValue := sourceAmp * subDt * subDt
	if absFloat(sourceValue) > 1e-10 {
		idx := srcY*w + srcX
		s.uNext[idx] += sourceValue * 0.5
		s.uNext[idx-1] += sourceValue * 0.125
		s.uNext[idx+1] += sourceValue * 0.125
		s.uNext[idx-w] += sourceValue * 0.125
		s.uNext[idx+w] += sourceValue * 0.125
	}

	// Edges stay at zero (interior-only iteration). Rotate buffers:
	// prev <- curr <- next.
	s.uPrev, s.uCurr, s.uNext = s.uCurr, s.uNext, s.uPrev
}

// AmplitudeAt samples the displacement field with bilinear interpolation.
func (s *DrivenSolver) AmplitudeAt(x, y float32) float32 {
	return sampleBilinear(s.uCurr, s.width, s.height, x, y)
}

// VelocityAt samples the velocity field with bilinear interpolation.
func (s *DrivenSolver) VelocityAt(x, y float32) float32 {
	return sampleBilinear(s.velocity, s.width, s.height, x, y)
}

// VelocityData returns the raw velocity grid for motion field updates.
func (s *DrivenSolver) VelocityData() []float32 {
	return s.velocity
}

// AmplitudeData returns the raw displacement grid for visualization.
func (s *DrivenSolver) AmplitudeData() []float32 {
	return s.uCurr
}

// Clear resets the solver to the zero state.
func (s *DrivenSolver) Clear() {
	for i := range s.uCurr {
		s.uCurr[i] = 0
		s.uPrev[i] = 0
		s.uNext[i] = 0
		s.velocity[i] = 0
	}
	s.time = 0
}

// Time returns the accumulated simulation time.
func (s *DrivenSolver) Time() float32 {
	return s.time
}

// SetWaveSpeed sets the wave propagation speed, floored at 1.
func (s *DrivenSolver) SetWaveSpeed(speed float32) {
	if speed < 1 {
		speed = 1
	}
	s.waveSpeed = speed
}

// SetDamping sets the damping coefficient, clamped to [0, 1].
func (s *DrivenSolver) SetDamping(damping float32) {
	s.damping = clampFloat(damping, 0, 1)
}

// TotalEnergy approximates the conserved energy of the undamped wave
// equation, E = 1/2 * sum(u_t^2 + c^2*|grad u|^2), as a diagnostic.
func (s *DrivenSolver) TotalEnergy() float32 {
	var kinetic float32
	for _, v := range s.velocity {
		kinetic += v * v
	}

	var potential float32
	w := s.width
	h := s.height
	invDx := 1 / max(s.dx, 1e-6)

	for j := 0; j < h-1; j++ {
		for i := 0; i < w-1; i++ {
			idx := j*w + i
			u := s.uCurr[idx]
			dudx := (s.uCurr[idx+1] - u) * invDx
			dudy := (s.uCurr[idx+w] - u) * invDx
			potential += dudx*dudx + dudy*dudy
		}
	}

	return 0.5 * (kinetic + s.waveSpeed*s.waveSpeed*potential)
}
