// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Plate     PlateConfig     `yaml:"plate"`
	Particles ParticlesConfig `yaml:"particles"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds simulation stepping parameters.
type SimConfig struct {
	GridSize   int     `yaml:"grid_size"`   // Field resolution (cells per side)
	DT         float64 `yaml:"dt"`          // Fixed timestep for headless runs
	TimeScale  float64 `yaml:"time_scale"`  // Simulation speed multiplier
	WaveSpeed  float64 `yaml:"wave_speed"`  // Wave propagation speed
	Damping    float64 `yaml:"damping"`     // Driven solver energy loss rate
	Excitation float64 `yaml:"excitation"`  // Driven solver source amplitude per unit RMS
	SpeakerX   float64 `yaml:"speaker_x"`   // Excitation point X (normalized 0-1)
	SpeakerY   float64 `yaml:"speaker_y"`   // Excitation point Y (normalized 0-1)
}

// PlateConfig holds plate physics and pattern parameters.
// Constant maps frequency to mode via f = C*(m^2+n^2). If zero, it is
// derived from the physical plate properties below.
type PlateConfig struct {
	Constant       float64 `yaml:"constant"`        // Eigenfrequency constant (Hz), clamped to [10, 2000]
	FrequencyScale float64 `yaml:"frequency_scale"` // Pattern complexity multiplier, clamped to [0.1, 3.0]
	Amplitude      float64 `yaml:"amplitude"`       // Wave amplitude multiplier, clamped to [0.1, 2.0]
	ModeM          int     `yaml:"mode_m"`          // Initial mode index m
	ModeN          int     `yaml:"mode_n"`          // Initial mode index n

	// Physical plate properties (used when constant is 0)
	Size          float64 `yaml:"size"`           // Side length (m)
	YoungsModulus float64 `yaml:"youngs_modulus"` // Pa
	Thickness     float64 `yaml:"thickness"`      // m
	Density       float64 `yaml:"density"`        // kg/m^3
	PoissonRatio  float64 `yaml:"poisson_ratio"`
}

// ParticlesConfig holds particle system parameters.
type ParticlesConfig struct {
	Count       int     `yaml:"count"`
	SpawnMargin float64 `yaml:"spawn_margin"` // Inset from edges at spawn (cells)
}

// AudioConfig holds spectral analysis parameters.
type AudioConfig struct {
	SampleRate   float64 `yaml:"sample_rate"`
	FFTSize      int     `yaml:"fft_size"`
	NoiseFloorDB float64 `yaml:"noise_floor_db"` // Peak below this is treated as silence
	RMSGate      float64 `yaml:"rms_gate"`       // Minimum RMS before pitch tracking engages
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Sim.DT as float32
	GridSize32 float32 // Sim.GridSize as float32
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config and clamps
// tunables to their valid ranges. Out-of-range values are clamped, never
// rejected.
func (c *Config) computeDerived() {
	// 5 is the driven solver's minimum (source kernel margin)
	if c.Sim.GridSize < 5 {
		c.Sim.GridSize = 5
	}
	if c.Sim.DT <= 0 {
		c.Sim.DT = 1.0 / 60.0
	}
	if c.Sim.TimeScale <= 0 {
		c.Sim.TimeScale = 1.0
	}
	c.Sim.SpeakerX = clamp(c.Sim.SpeakerX, 0, 1)
	c.Sim.SpeakerY = clamp(c.Sim.SpeakerY, 0, 1)

	// Derive the plate constant from physical properties when not set directly
	if c.Plate.Constant == 0 {
		c.Plate.Constant = physicalPlateConstant(
			c.Plate.Size, c.Plate.YoungsModulus, c.Plate.Thickness,
			c.Plate.Density, c.Plate.PoissonRatio,
		)
	}
	c.Plate.Constant = clamp(c.Plate.Constant, 10, 2000)
	c.Plate.FrequencyScale = clamp(c.Plate.FrequencyScale, 0.1, 3.0)
	c.Plate.Amplitude = clamp(c.Plate.Amplitude, 0.1, 2.0)
	if c.Plate.ModeM < 1 {
		c.Plate.ModeM = 1
	}
	if c.Plate.ModeN < 1 {
		c.Plate.ModeN = 1
	}

	if c.Particles.Count < 1 {
		c.Particles.Count = 1
	}

	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.GridSize32 = float32(c.Sim.GridSize)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// physicalPlateConstant mirrors systems.CalculatePlateConstant in float64,
// kept local so config does not depend on the systems package.
func physicalPlateConstant(size, youngs, thickness, density, poisson float64) float64 {
	if size <= 0 || thickness <= 0 || density <= 0 {
		return 50.0
	}
	d := (youngs * thickness * thickness * thickness) / (12.0 * (1.0 - poisson*poisson))
	return (math.Pi * math.Pi / (size * size)) * math.Sqrt(d/(density*thickness))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
