// Package engine couples audio analysis to the plate physics and the
// particle field, and owns the demo/live mode switch.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/cymatics/audio"
	"github.com/pthm-cable/cymatics/systems"
)

// DriverParams is the per-tick view of what is driving the plate,
// exposed for the HUD and telemetry.
type DriverParams struct {
	RMS              float32
	SpeakerX         float32
	SpeakerY         float32
	Bands            [4]float32
	ResonanceQuality float32
	SmoothedFreq     float32
}

// Options configures a Simulation. Zero values fall back to sensible
// defaults; out-of-range tunables are clamped.
type Options struct {
	GridSize      int
	ParticleCount int
	SpawnMargin   float32

	PlateConstant  float32
	FrequencyScale float32
	Amplitude      float32
	InitialMode    systems.PlateMode

	WaveSpeed     float32
	SolverDamping float32
	Excitation    float32
	SpeakerX      float32
	SpeakerY      float32

	RMSGate   float32
	TimeScale float32

	MotionGated bool
	RNG         *rand.Rand
}

// Phase names reported to the PhaseTimer.
const (
	phaseWaveField    = "wave_field"
	phaseDrivenSolver = "driven_solver"
	phaseParticles    = "particles"
)

// PhaseTimer receives phase boundaries during Step for profiling.
type PhaseTimer interface {
	StartPhase(name string)
}

// Simulation steps the full pipeline once per tick: pitch tracking,
// mode matching, wave field update, and particle integration.
type Simulation struct {
	wave    *systems.WaveField
	solver  *systems.DrivenSolver
	motion  *systems.MotionGrid
	field   *systems.ParticleField
	tracker *systems.FrequencyTracker

	mode          Mode
	current       systems.PlateMode
	plateConstant float32
	freqScale     float32
	amplitude     float32
	excitation    float32
	speakerX      float32
	speakerY      float32
	rmsGate       float32
	timeScale     float32
	useMotionGate bool

	driver  DriverParams
	control float32
	timer   PhaseTimer

	time        float64
	tick        uint64
	modeChanges int
}

// NewSimulation builds a simulation in demo mode. Panics when GridSize
// is below the solver minimum of 5 or ParticleCount is not positive.
func NewSimulation(opts Options) *Simulation {
	if opts.GridSize < 5 {
		panic(fmt.Sprintf("engine: grid size must be at least 5, got %d", opts.GridSize))
	}
	if opts.ParticleCount <= 0 {
		panic(fmt.Sprintf("engine: particle count must be positive, got %d", opts.ParticleCount))
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(1))
	}
	if opts.PlateConstant == 0 {
		opts.PlateConstant = 50
	}
	if opts.FrequencyScale == 0 {
		opts.FrequencyScale = 1
	}
	if opts.Amplitude == 0 {
		opts.Amplitude = 1
	}
	if opts.WaveSpeed <= 0 {
		opts.WaveSpeed = 100
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	initial := opts.InitialMode
	if initial.M == 0 || initial.N == 0 {
		initial = systems.NewPlateMode(3, 2)
	}

	s := &Simulation{
		wave:          systems.NewWaveField(opts.GridSize),
		solver:        systems.NewDrivenSolver(opts.GridSize, opts.GridSize, opts.WaveSpeed, opts.SolverDamping),
		motion:        systems.NewMotionGrid(opts.GridSize),
		field:         systems.NewParticleField(opts.GridSize, opts.ParticleCount, opts.SpawnMargin, opts.RNG),
		tracker:       systems.NewFrequencyTracker(),
		mode:          ModeDemo,
		current:       initial,
		excitation:    opts.Excitation,
		rmsGate:       opts.RMSGate,
		timeScale:     opts.TimeScale,
		useMotionGate: opts.MotionGated,
	}
	s.plateConstant = clamp(opts.PlateConstant, 10, 2000)
	s.freqScale = clamp(opts.FrequencyScale, 0.1, 3.0)
	s.amplitude = clamp(opts.Amplitude, 0.1, 2.0)
	s.speakerX = clamp(opts.SpeakerX, 0, 1)
	s.speakerY = clamp(opts.SpeakerY, 0, 1)
	s.driver.SpeakerX = s.speakerX
	s.driver.SpeakerY = s.speakerY
	return s
}

// Step advances the simulation by dt seconds of wall time. frame may
// be nil when no audio window is available this tick.
func (s *Simulation) Step(dt float32, frame *audio.Frame) {
	dt *= s.timeScale
	if dt <= 0 {
		return
	}

	switch s.mode {
	case ModeDemo:
		s.stepDemo(dt, frame)
	case ModeLive:
		s.stepLive(dt, frame)
	}

	s.time += float64(dt)
	s.tick++
}

// stepDemo locks the plate directly to the incoming pitch, bypassing
// smoothing and resonance gating. Silence holds the current pattern.
func (s *Simulation) stepDemo(dt float32, frame *audio.Frame) {
	if frame != nil {
		s.driver.RMS = frame.RMS
		s.driver.Bands = frame.Bands
		if frame.HasFreq {
			s.setCurrentMode(systems.FrequencyToMode(frame.Freq, s.plateConstant))
		}
	}
	s.startPhase(phaseWaveField)
	s.wave.Update(s.current, s.freqScale, s.amplitude)
	s.startPhase(phaseParticles)
	s.field.Integrate(dt, systems.GradientFollow(s.wave))
}

// stepLive runs the resonance pipeline: gated pitch smoothing, mode
// matching, and control-scaled particle forces.
func (s *Simulation) stepLive(dt float32, frame *audio.Frame) {
	var rms float32
	if frame != nil {
		rms = frame.RMS
		s.driver.Bands = frame.Bands
		if frame.HasFreq && rms > s.rmsGate {
			s.tracker.Push(frame.Freq)
		}
	}
	s.driver.RMS = rms
	s.driver.SmoothedFreq = s.tracker.Smoothed()

	var quality float32
	if smoothed := s.tracker.Smoothed(); smoothed > 0 {
		mode := systems.FrequencyToMode(smoothed, s.plateConstant)
		quality = systems.ResonanceQuality(smoothed, mode.Frequency(s.plateConstant))
		s.setCurrentMode(mode)
	}
	s.driver.ResonanceQuality = quality
	s.control = systems.ControlSignal(quality, rms)

	s.startPhase(phaseWaveField)
	s.wave.Update(s.current, s.freqScale, s.amplitude)

	if s.useMotionGate {
		s.startPhase(phaseDrivenSolver)
		s.solver.Step(dt, s.speakerX, s.speakerY, rms*s.excitation)
		s.motion.Fill(s.solver.VelocityData())
		s.startPhase(phaseParticles)
		s.field.Integrate(dt, systems.MotionGated(s.motion))
		return
	}
	s.startPhase(phaseParticles)
	s.field.Integrate(dt, systems.ResonanceGated(s.wave, s.control, s.amplitude))
}

// SetPhaseTimer attaches a profiler that is notified at phase
// boundaries inside Step. A nil timer disables reporting.
func (s *Simulation) SetPhaseTimer(timer PhaseTimer) {
	s.timer = timer
}

func (s *Simulation) startPhase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// setCurrentMode switches the plate mode and invalidates the wave
// field exactly once per change.
func (s *Simulation) setCurrentMode(mode systems.PlateMode) {
	if mode == s.current {
		return
	}
	s.current = mode
	s.wave.SetDirty()
	s.modeChanges++
}

// SetMode switches between demo and live. Both directions clear the
// driven solver so stale plate motion never leaks across modes.
// Particles keep their positions.
func (s *Simulation) SetMode(mode Mode) {
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.solver.Clear()
	switch mode {
	case ModeDemo:
		s.control = 0
		s.driver.ResonanceQuality = 0
		s.driver.SmoothedFreq = 0
	case ModeLive:
		s.tracker.Reset()
	}
}

// SetPlateMode forces the current mode, e.g. for demo cycling.
func (s *Simulation) SetPlateMode(mode systems.PlateMode) {
	s.setCurrentMode(mode)
}

// SetFrequencyScale adjusts pattern complexity, clamped to [0.1, 3].
func (s *Simulation) SetFrequencyScale(scale float32) {
	scale = clamp(scale, 0.1, 3.0)
	if scale != s.freqScale {
		s.freqScale = scale
		s.wave.SetDirty()
	}
}

// SetAmplitude adjusts wave amplitude, clamped to [0.1, 2].
func (s *Simulation) SetAmplitude(amplitude float32) {
	amplitude = clamp(amplitude, 0.1, 2.0)
	if amplitude != s.amplitude {
		s.amplitude = amplitude
		s.wave.SetDirty()
	}
}

// SetPlateConstant retunes the frequency-to-mode mapping, clamped to
// [10, 2000]. The wave field stays valid until the mode next changes.
func (s *Simulation) SetPlateConstant(constant float32) {
	s.plateConstant = clamp(constant, 10, 2000)
}

// SetSpeakerPosition moves the excitation point, in normalized [0,1]
// plate coordinates.
func (s *Simulation) SetSpeakerPosition(x, y float32) {
	s.speakerX = clamp(x, 0, 1)
	s.speakerY = clamp(y, 0, 1)
	s.driver.SpeakerX = s.speakerX
	s.driver.SpeakerY = s.speakerY
}

// SetMotionGated switches live mode between the analytic
// resonance-gated forces and the driven-solver motion gate.
func (s *Simulation) SetMotionGated(enabled bool) {
	s.useMotionGate = enabled
}

// ResetParticles respawns the particle field.
func (s *Simulation) ResetParticles() {
	s.field.Respawn()
}

func (s *Simulation) Mode() Mode                        { return s.mode }
func (s *Simulation) CurrentMode() systems.PlateMode    { return s.current }
func (s *Simulation) PlateConstant() float32            { return s.plateConstant }
func (s *Simulation) FrequencyScale() float32           { return s.freqScale }
func (s *Simulation) Amplitude() float32                { return s.amplitude }
func (s *Simulation) MotionGated() bool                 { return s.useMotionGate }
func (s *Simulation) DriverParams() DriverParams        { return s.driver }
func (s *Simulation) Control() float32                  { return s.control }
func (s *Simulation) Time() float64                     { return s.time }
func (s *Simulation) Tick() uint64                      { return s.tick }
func (s *Simulation) ModeChanges() int                  { return s.modeChanges }
func (s *Simulation) OutlierRejections() int            { return s.tracker.Rejections() }
func (s *Simulation) Wave() *systems.WaveField          { return s.wave }
func (s *Simulation) Motion() *systems.MotionGrid       { return s.motion }
func (s *Simulation) Solver() *systems.DrivenSolver     { return s.solver }
func (s *Simulation) Particles() *systems.ParticleField { return s.field }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
