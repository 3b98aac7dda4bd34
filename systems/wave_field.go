package systems

import (
	"fmt"
	"math"
)

// WaveField holds the analytic eigenmode pattern for a square plate.
//
// The field is a standing-wave superposition, not a time-stepped
// solution, so recomputation is needed only when the mode or the scale
// parameters change. Callers signal that with SetDirty; Update is a
// no-op while the field is clean.
type WaveField struct {
	size      int
	amplitude []float32
	energy    []float32
	dirty     bool
}

// NewWaveField creates a zeroed size x size field. The first Update
// computes it. Panics if size is not positive.
func NewWaveField(size int) *WaveField {
	if size <= 0 {
		panic(fmt.Sprintf("systems: wave field size must be positive, got %d", size))
	}
	return &WaveField{
		size:      size,
		amplitude: make([]float32, size*size),
		energy:    make([]float32, size*size),
		dirty:     true,
	}
}

// Size returns the grid resolution.
func (w *WaveField) Size() int {
	return w.size
}

// SetDirty forces recomputation on the next Update.
func (w *WaveField) SetDirty() {
	w.dirty = true
}

// Update recomputes the eigenmode pattern if the field is dirty.
//
// For a square plate the eigenmode is sin(m*pi*x/L)*sin(n*pi*y/L); the
// superposition with the swapped mode produces the classic Chladni
// figures. frequencyScale multiplies the mode indices (pattern
// complexity), amplitudeScale the wave height.
func (w *WaveField) Update(mode PlateMode, frequencyScale, amplitudeScale float32) {
	if !w.dirty {
		return
	}

	size := w.size
	m := float64(mode.M) * float64(frequencyScale)
	n := float64(mode.N) * float64(frequencyScale)

	for y := 0; y < size; y++ {
		ny := float64(y) / float64(size)
		sinMY := math.Sin(m * math.Pi * ny)
		sinNY := math.Sin(n * math.Pi * ny)
		for x := 0; x < size; x++ {
			nx := float64(x) / float64(size)

			mode1 := math.Sin(m*math.Pi*nx) * sinNY
			mode2 := math.Sin(n*math.Pi*nx) * sinMY

			a := float32(mode1+mode2) * amplitudeScale
			idx := y*size + x
			w.amplitude[idx] = a
			w.energy[idx] = a * a
		}
	}

	w.dirty = false
}

// AmplitudeAt samples the field with bilinear interpolation.
// Out-of-bounds coordinates clamp to the edge.
func (w *WaveField) AmplitudeAt(x, y float32) float32 {
	return sampleBilinear(w.amplitude, w.size, w.size, x, y)
}

// GradientAt returns the gradient of amplitude squared at a point,
// by central differences. Particles following the negative gradient
// settle onto nodal lines (amplitude minima).
func (w *WaveField) GradientAt(x, y float32) (gx, gy float32) {
	const eps = 1.0

	axPos := w.AmplitudeAt(x+eps, y)
	axNeg := w.AmplitudeAt(x-eps, y)
	ayPos := w.AmplitudeAt(x, y+eps)
	ayNeg := w.AmplitudeAt(x, y-eps)

	gx = (axPos*axPos - axNeg*axNeg) / (2 * eps)
	gy = (ayPos*ayPos - ayNeg*ayNeg) / (2 * eps)
	return gx, gy
}

// AmplitudeData returns the raw amplitude grid for rendering.
func (w *WaveField) AmplitudeData() []float32 {
	return w.amplitude
}

// EnergyData returns the raw energy grid for rendering.
func (w *WaveField) EnergyData() []float32 {
	return w.energy
}

// sampleBilinear interpolates a row-major grid at (x, y), clamping
// coordinates to the grid bounds.
func sampleBilinear(data []float32, width, height int, x, y float32) float32 {
	x = clampFloat(x, 0, float32(width-1))
	y = clampFloat(y, 0, float32(height-1))

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	if x1 > width-1 {
		x1 = width - 1
	}
	y1 := y0 + 1
	if y1 > height-1 {
		y1 = height - 1
	}

	fx := x - float32(x0)
	fy := y - float32(y0)

	v00 := data[y0*width+x0]
	v10 := data[y0*width+x1]
	v01 := data[y1*width+x0]
	v11 := data[y1*width+x1]

	v0 := v00*(1-fx) + v10*fx
	v1 := v01*(1-fx) + v11*fx

	return v0*(1-fy) + v1*fy
}
