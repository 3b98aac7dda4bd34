package audio

import (
	"math"
	"testing"
)

const (
	testRate = 48000.0
	testFFT  = 2048
)

func toneFrame(t *testing.T, freq, amplitude float64) Frame {
	t.Helper()
	a := NewAnalyzer(testRate, testFFT, -60.0)
	osc := NewOscillator(testRate)
	samples := make([]float32, testFFT)
	osc.Fill(samples, freq, amplitude)
	return a.Analyze(samples)
}

func TestAnalyzerDetectsTone(t *testing.T) {
	frame := toneFrame(t, 440.0, 0.5)

	if !frame.HasFreq {
		t.Fatal("440 Hz tone not detected")
	}
	binHz := testRate / testFFT
	if math.Abs(float64(frame.Freq)-440.0) > binHz {
		t.Errorf("detected %v Hz, want 440 within one bin (%v Hz)", frame.Freq, binHz)
	}
}

func TestAnalyzerRMS(t *testing.T) {
	// A sine of amplitude A has raw RMS A/sqrt(2); the 1.414
	// normalization maps that back to roughly A
	frame := toneFrame(t, 440.0, 0.5)
	if frame.RMS < 0.45 || frame.RMS > 0.55 {
		t.Errorf("RMS = %v, want near 0.5 for amplitude 0.5", frame.RMS)
	}

	loud := toneFrame(t, 440.0, 1.0)
	if loud.RMS < 0.95 || loud.RMS > 1.0 {
		t.Errorf("RMS = %v, want capped near 1 for full-scale tone", loud.RMS)
	}
}

func TestAnalyzerSilence(t *testing.T) {
	a := NewAnalyzer(testRate, testFFT, -60.0)
	frame := a.Analyze(make([]float32, testFFT))

	if frame.HasFreq {
		t.Error("silence reported a dominant frequency")
	}
	if frame.RMS != 0 {
		t.Errorf("RMS = %v for silence, want 0", frame.RMS)
	}
}

func TestAnalyzerBandPlacement(t *testing.T) {
	cases := []struct {
		freq float64
		band int
	}{
		{50.0, 0},   // sub-bass
		{150.0, 1},  // bass
		{1000.0, 2}, // mid
		{5000.0, 3}, // high
	}
	for _, tc := range cases {
		frame := toneFrame(t, tc.freq, 0.8)
		maxBand := 0
		for i, e := range frame.Bands {
			if e > frame.Bands[maxBand] {
				maxBand = i
			}
		}
		if maxBand != tc.band {
			t.Errorf("%v Hz tone: strongest band = %d (%v), want %d",
				tc.freq, maxBand, frame.Bands, tc.band)
		}
	}
}

func TestAnalyzerWindowLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("wrong window length did not panic")
		}
	}()
	a := NewAnalyzer(testRate, testFFT, -60.0)
	a.Analyze(make([]float32, testFFT-1))
}

func TestOscillatorPhaseContinuity(t *testing.T) {
	osc := NewOscillator(testRate)
	first := make([]float32, 64)
	second := make([]float32, 64)
	osc.Fill(first, 440.0, 1.0)
	osc.Fill(second, 440.0, 1.0)

	// The second window must continue the waveform, not restart it
	step := 2 * math.Pi * 440.0 / testRate
	want := float32(math.Sin(step * 64))
	if diff := math.Abs(float64(second[0] - want)); diff > 1e-5 {
		t.Errorf("second window starts at %v, want %v", second[0], want)
	}
}
