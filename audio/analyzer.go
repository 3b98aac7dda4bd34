// Package audio turns PCM sample windows into the spectral features
// that drive the simulation: dominant frequency, loudness, and band
// energies.
package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Frame holds the audio features extracted from one sample window.
// All values are range-normalized: RMS and Bands in [0,1], Freq in Hz.
type Frame struct {
	Freq    float32
	HasFreq bool // False when the peak is below the noise floor
	RMS     float32
	Bands   [4]float32 // sub-bass, bass, mid, high
}

// Band boundaries in Hz.
const (
	subBassLow  = 20.0
	subBassHigh = 80.0
	bassHigh    = 250.0
	midHigh     = 2000.0
	highHigh    = 8000.0
)

// Per-band normalization scales, tuned for typical speech and music
// where mid dominates and the extremes are weaker.
var bandScales = [4]float64{50.0, 30.0, 20.0, 40.0}

// Analyzer computes Frames from fixed-size PCM windows using a
// Hann-windowed real FFT.
type Analyzer struct {
	sampleRate   float64
	fftSize      int
	noiseFloorDB float64

	fft      *fourier.FFT
	window   []float64 // Hann coefficients
	scratch  []float64
	coeffs   []complex128
	spectrum []float64 // magnitude spectrum in dB
}

// NewAnalyzer creates an analyzer for windows of fftSize samples.
// Peaks below noiseFloorDB are reported as silence. Panics on a
// non-positive sample rate or an fftSize below 16.
func NewAnalyzer(sampleRate float64, fftSize int, noiseFloorDB float64) *Analyzer {
	if sampleRate <= 0 {
		panic(fmt.Sprintf("audio: sample rate must be positive, got %v", sampleRate))
	}
	if fftSize < 16 {
		panic(fmt.Sprintf("audio: fft size too small: %d", fftSize))
	}

	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	return &Analyzer{
		sampleRate:   sampleRate,
		fftSize:      fftSize,
		noiseFloorDB: noiseFloorDB,
		fft:          fourier.NewFFT(fftSize),
		window:       window,
		scratch:      make([]float64, fftSize),
		coeffs:       make([]complex128, fftSize/2+1),
		spectrum:     make([]float64, fftSize/2+1),
	}
}

// WindowSize returns the expected sample window length.
func (a *Analyzer) WindowSize() int {
	return a.fftSize
}

// SampleRate returns the configured sample rate in Hz.
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// Analyze extracts a Frame from one window of PCM samples.
// len(samples) must equal WindowSize; that mismatch is a programmer
// error and panics.
func (a *Analyzer) Analyze(samples []float32) Frame {
	if len(samples) != a.fftSize {
		panic(fmt.Sprintf("audio: window length %d, want %d", len(samples), a.fftSize))
	}

	var frame Frame
	frame.RMS = a.rms(samples)

	// Hann window suppresses spectral leakage before the FFT
	for i, s := range samples {
		a.scratch[i] = float64(s) * a.window[i]
	}
	a.fft.Coefficients(a.coeffs, a.scratch)

	// Magnitude spectrum in dB, normalized to the window length
	norm := 2.0 / float64(a.fftSize)
	for i, c := range a.coeffs {
		mag := cmplx.Abs(c) * norm
		a.spectrum[i] = 20 * math.Log10(mag+1e-12)
	}

	// Peak bin (skipping DC) gives the dominant frequency
	peakBin := 1
	peakDB := math.Inf(-1)
	for i := 1; i < len(a.spectrum); i++ {
		if a.spectrum[i] > peakDB {
			peakDB = a.spectrum[i]
			peakBin = i
		}
	}

	if peakDB > a.noiseFloorDB {
		frame.Freq = float32(a.fft.Freq(peakBin) * a.sampleRate)
		frame.HasFreq = true
	}

	frame.Bands = a.bandEnergies()
	return frame
}

// rms returns normalized loudness. A full-scale sine has a raw RMS of
// ~0.707, so the 1.414 factor maps it to 1.
func (a *Analyzer) rms(samples []float32) float32 {
	var sumSquares float64
	for _, s := range samples {
		sumSquares += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	return float32(math.Min(rms*1.414, 1.0))
}

// bandEnergies averages linear magnitude in four frequency bands and
// normalizes each with its own scale.
func (a *Analyzer) bandEnergies() [4]float32 {
	binHz := a.sampleRate / float64(a.fftSize)
	freqToBin := func(freq float64) int {
		bin := int(freq / binHz)
		if bin > len(a.spectrum)-1 {
			bin = len(a.spectrum) - 1
		}
		return bin
	}

	edges := [5]int{
		freqToBin(subBassLow),
		freqToBin(subBassHigh),
		freqToBin(bassHigh),
		freqToBin(midHigh),
		freqToBin(highHigh),
	}

	var bands [4]float32
	for b := 0; b < 4; b++ {
		start, end := edges[b], edges[b+1]
		if end <= start {
			continue
		}
		var sum float64
		for i := start; i < end; i++ {
			db := math.Max(a.spectrum[i], -100)
			sum += math.Pow(10, db/20)
		}
		mean := sum / float64(end-start)
		bands[b] = float32(math.Min(mean*bandScales[b], 1.0))
	}
	return bands
}
