package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cymatics/systems"
)

// ParticleRenderer renders sand particles scaled from plate to screen
// coordinates.
type ParticleRenderer struct {
	screenW, screenH float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(screenW, screenH int32) *ParticleRenderer {
	return &ParticleRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Resize updates screen dimensions.
func (r *ParticleRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Draw renders all active particles. Color encodes speed: settled sand
// is warm white, fast grains shift toward red.
func (r *ParticleRenderer) Draw(particles []systems.Particle, gridSize float32) {
	scaleX := r.screenW / gridSize
	scaleY := r.screenH / gridSize

	for i := range particles {
		p := &particles[i]
		if !p.Active {
			continue
		}

		speed := p.VX*p.VX + p.VY*p.VY
		heat := speed / 2500 // full red around speed 50
		if heat > 1 {
			heat = 1
		}

		color := rl.Color{
			R: 230,
			G: uint8(220 - heat*140),
			B: uint8(190 - heat*150),
			A: 235,
		}

		rl.DrawPixelV(rl.Vector2{X: p.X * scaleX, Y: p.Y * scaleY}, color)
	}
}
