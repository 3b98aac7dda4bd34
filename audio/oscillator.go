package audio

import "math"

// Oscillator generates sine test tones with phase continuity across
// windows, for driving the simulation without a capture device.
type Oscillator struct {
	sampleRate float64
	phase      float64
}

func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

// Fill overwrites dst with a sine of the given frequency and amplitude,
// continuing from the phase where the previous call left off.
func (o *Oscillator) Fill(dst []float32, freq, amplitude float64) {
	step := 2 * math.Pi * freq / o.sampleRate
	for i := range dst {
		dst[i] = float32(amplitude * math.Sin(o.phase))
		o.phase += step
	}
	// Keep phase bounded over long runs
	o.phase = math.Mod(o.phase, 2*math.Pi)
}

// Reset zeroes the phase accumulator.
func (o *Oscillator) Reset() {
	o.phase = 0
}
