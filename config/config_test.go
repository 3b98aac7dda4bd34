package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Sim.GridSize != 256 {
		t.Errorf("grid_size = %d, want 256", cfg.Sim.GridSize)
	}
	if cfg.Plate.Constant != 50.0 {
		t.Errorf("plate constant = %v, want 50", cfg.Plate.Constant)
	}
	if cfg.Particles.Count != 50000 {
		t.Errorf("particle count = %d, want 50000", cfg.Particles.Count)
	}
	if cfg.Derived.GridSize32 != 256 {
		t.Errorf("derived grid size = %v, want 256", cfg.Derived.GridSize32)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	userYAML := []byte("sim:\n  grid_size: 128\nplate:\n  constant: 120.0\n")
	if err := os.WriteFile(path, userYAML, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sim.GridSize != 128 {
		t.Errorf("grid_size = %d, want 128 from user file", cfg.Sim.GridSize)
	}
	if cfg.Plate.Constant != 120.0 {
		t.Errorf("plate constant = %v, want 120 from user file", cfg.Plate.Constant)
	}
	// Untouched fields keep defaults
	if cfg.Particles.Count != 50000 {
		t.Errorf("particle count = %d, want default 50000", cfg.Particles.Count)
	}
}

func TestOutOfRangeValuesClamped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	userYAML := []byte("plate:\n  constant: 99999.0\n  frequency_scale: 10.0\n  amplitude: 0.0001\n")
	if err := os.WriteFile(path, userYAML, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Plate.Constant != 2000 {
		t.Errorf("plate constant = %v, want clamped to 2000", cfg.Plate.Constant)
	}
	if cfg.Plate.FrequencyScale != 3.0 {
		t.Errorf("frequency scale = %v, want clamped to 3.0", cfg.Plate.FrequencyScale)
	}
	if cfg.Plate.Amplitude != 0.1 {
		t.Errorf("amplitude = %v, want clamped to 0.1", cfg.Plate.Amplitude)
	}
}

func TestPhysicalPlateConstantDerivation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// constant: 0 triggers derivation from the physical properties
	userYAML := []byte("plate:\n  constant: 0\n")
	if err := os.WriteFile(path, userYAML, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Derived value must land in the valid clamped range
	if cfg.Plate.Constant < 10 || cfg.Plate.Constant > 2000 {
		t.Errorf("derived plate constant = %v, want within [10, 2000]", cfg.Plate.Constant)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Sim.GridSize != cfg.Sim.GridSize {
		t.Errorf("round trip grid_size = %d, want %d", reloaded.Sim.GridSize, cfg.Sim.GridSize)
	}
	if reloaded.Plate.Constant != cfg.Plate.Constant {
		t.Errorf("round trip plate constant = %v, want %v", reloaded.Plate.Constant, cfg.Plate.Constant)
	}
}
