// Package renderer draws the plate and its particles with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FieldRenderer renders the standing-wave amplitude as a background
// layer: dark at nodal lines, blue-violet at antinodes.
type FieldRenderer struct {
	tex        rl.Texture2D
	pixels     []color.RGBA
	texW, texH int

	screenW, screenH float32
	initialized      bool
}

// NewFieldRenderer creates a new field renderer.
func NewFieldRenderer(screenW, screenH int32) *FieldRenderer {
	return &FieldRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init initializes the renderer (must be called after raylib window is created).
func (r *FieldRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *FieldRenderer) Resize(w, h float32) {
	if w == r.screenW && h == r.screenH {
		return
	}
	r.screenW = w
	r.screenH = h
}

// Update uploads new amplitude data to the GPU texture. Amplitude is
// signed; the ramp maps |amplitude| so both phases of an antinode read
// the same.
func (r *FieldRenderer) Update(data []float32, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}
	if len(data) != w*h {
		return
	}

	for i, val := range data {
		v := val
		if v < 0 {
			v = -v
		}
		if v > 1 {
			v = 1
		}
		r.pixels[i] = color.RGBA{
			R: uint8(v * 90),
			G: uint8(v * 60),
			B: uint8(30 + v*180),
			A: 255,
		}
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the field layer stretched to the screen.
func (r *FieldRenderer) Draw() {
	if !r.initialized {
		return
	}

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
