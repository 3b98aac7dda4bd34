// Package app wires the simulation engine to audio input, telemetry,
// and the raylib presentation layer.
package app

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cymatics/audio"
	"github.com/pthm-cable/cymatics/config"
	"github.com/pthm-cable/cymatics/engine"
	"github.com/pthm-cable/cymatics/renderer"
	"github.com/pthm-cable/cymatics/systems"
	"github.com/pthm-cable/cymatics/telemetry"
	"github.com/pthm-cable/cymatics/ui"
)

// Options configures an App.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Live starts in live mode instead of demo.
	Live bool

	// ToneHz drives the simulation with a synthetic sine instead of
	// captured audio. Zero disables the tone generator.
	ToneHz float64
	// ToneAmplitude is the synthetic tone level in [0, 1].
	ToneAmplitude float64
}

// demoCycleSec is how long each pattern is held in demo mode before
// advancing to the next one.
const demoCycleSec = 4.0

// demoSequence is the pattern sweep shown in demo mode.
var demoSequence = []systems.PlateMode{
	{M: 1, N: 2}, {M: 2, N: 2}, {M: 1, N: 3}, {M: 2, N: 3},
	{M: 3, N: 3}, {M: 2, N: 4}, {M: 3, N: 4}, {M: 3, N: 5},
	{M: 4, N: 5}, {M: 5, N: 5},
}

// App holds the complete application state.
type App struct {
	cfg *config.Config
	sim *engine.Simulation

	// Audio front end
	analyzer   *audio.Analyzer
	oscillator *audio.Oscillator
	samples    []float32
	toneHz     float64
	toneAmp    float64

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	// Rendering
	fieldRenderer    *renderer.FieldRenderer
	particleRenderer *renderer.ParticleRenderer
	hud              *ui.HUD
	controls         *ui.ControlsPanel

	// State
	paused         bool
	stepsPerUpdate int
	demoIndex      int
	demoTimer      float32

	// Event counters already reported to the collector
	reportedModeChanges int
	reportedRejections  int

	width, height float32
}

// New creates an App from the loaded config and options.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()

	rng := rand.New(rand.NewSource(opts.Seed))

	sim := engine.NewSimulation(engine.Options{
		GridSize:       cfg.Sim.GridSize,
		ParticleCount:  cfg.Particles.Count,
		SpawnMargin:    float32(cfg.Particles.SpawnMargin),
		PlateConstant:  float32(cfg.Plate.Constant),
		FrequencyScale: float32(cfg.Plate.FrequencyScale),
		Amplitude:      float32(cfg.Plate.Amplitude),
		InitialMode:    systems.NewPlateMode(uint32(cfg.Plate.ModeM), uint32(cfg.Plate.ModeN)),
		WaveSpeed:      float32(cfg.Sim.WaveSpeed),
		SolverDamping:  float32(cfg.Sim.Damping),
		Excitation:     float32(cfg.Sim.Excitation),
		SpeakerX:       float32(cfg.Sim.SpeakerX),
		SpeakerY:       float32(cfg.Sim.SpeakerY),
		RMSGate:        float32(cfg.Audio.RMSGate),
		TimeScale:      float32(cfg.Sim.TimeScale),
		RNG:            rng,
	})
	if opts.Live {
		sim.SetMode(engine.ModeLive)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	sim.SetPhaseTimer(perf)

	a := &App{
		cfg:       cfg,
		sim:       sim,
		collector: telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perf:      perf,
		output:    output,
		logStats:  opts.LogStats,

		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		width:          float32(cfg.Screen.Width),
		height:         float32(cfg.Screen.Height),
	}

	if opts.ToneHz > 0 {
		a.analyzer = audio.NewAnalyzer(cfg.Audio.SampleRate, cfg.Audio.FFTSize, cfg.Audio.NoiseFloorDB)
		a.oscillator = audio.NewOscillator(cfg.Audio.SampleRate)
		a.samples = make([]float32, cfg.Audio.FFTSize)
		a.toneHz = opts.ToneHz
		a.toneAmp = opts.ToneAmplitude
		if a.toneAmp <= 0 {
			a.toneAmp = 0.8
		}
	}

	if !opts.Headless {
		a.fieldRenderer = renderer.NewFieldRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		a.particleRenderer = renderer.NewParticleRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		a.hud = ui.NewHUD()
		a.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-290, 10, 280)
	}

	return a, nil
}

// nextFrame produces this tick's audio features, or nil when no audio
// source is configured.
func (a *App) nextFrame() *audio.Frame {
	if a.oscillator == nil {
		return nil
	}
	a.oscillator.Fill(a.samples, a.toneHz, a.toneAmp)
	frame := a.analyzer.Analyze(a.samples)
	return &frame
}

// step advances the simulation by one tick and records telemetry.
func (a *App) step() {
	dt := a.cfg.Derived.DT32

	a.perf.StartTick()

	a.perf.StartPhase(telemetry.PhaseAudio)
	frame := a.nextFrame()

	a.sim.Step(dt, frame)

	// The pattern sweep only runs when nothing else drives the mode
	if a.sim.Mode() == engine.ModeDemo && a.oscillator == nil {
		a.advanceDemoCycle(dt)
	}

	a.perf.StartPhase(telemetry.PhaseTelemetry)
	d := a.sim.DriverParams()
	a.collector.RecordTick(float64(a.sim.Control()), float64(d.ResonanceQuality), float64(d.RMS))
	a.collector.RecordModeChanges(a.sim.ModeChanges() - a.reportedModeChanges)
	a.reportedModeChanges = a.sim.ModeChanges()
	a.collector.RecordOutlierRejections(a.sim.OutlierRejections() - a.reportedRejections)
	a.reportedRejections = a.sim.OutlierRejections()

	if a.collector.ShouldFlush(int32(a.sim.Tick())) {
		a.flushTelemetry()
	}

	a.perf.EndTick()
}

// advanceDemoCycle sweeps through the demo pattern sequence.
func (a *App) advanceDemoCycle(dt float32) {
	a.demoTimer += dt
	if a.demoTimer < demoCycleSec {
		return
	}
	a.demoTimer = 0
	a.demoIndex = (a.demoIndex + 1) % len(demoSequence)
	a.sim.SetPlateMode(demoSequence[a.demoIndex])
}

// UpdateHeadless runs simulation ticks without any rendering.
func (a *App) UpdateHeadless() {
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.step()
	}
}

// Update runs input handling and simulation ticks for graphics mode.
func (a *App) Update() {
	a.handleInput()
	if a.paused {
		return
	}
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.step()
	}
}

// Draw renders one frame.
func (a *App) Draw() {
	a.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	wave := a.sim.Wave()
	a.fieldRenderer.Update(wave.AmplitudeData(), wave.Size(), wave.Size())
	a.fieldRenderer.Draw()

	a.particleRenderer.Draw(a.sim.Particles().Particles(), a.sim.Particles().GridSize())

	a.drawHUD()

	rl.EndDrawing()
}

// Tick returns the current simulation tick.
func (a *App) Tick() uint64 {
	return a.sim.Tick()
}

// Unload flushes telemetry and frees GPU resources.
func (a *App) Unload() {
	a.flushTelemetry()
	if err := a.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if a.fieldRenderer != nil {
		a.fieldRenderer.Unload()
	}
}
