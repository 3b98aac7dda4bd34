package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Mode         string
	ModeM        int
	ModeN        int
	SmoothedFreq float32
	Quality      float32
	Control      float32
	RMS          float32
	MotionGated  bool
	Tick         int32
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Driving state
	rl.DrawText(
		fmt.Sprintf("Mode: %s | Pattern: (%d,%d) | Pitch: %.0f Hz",
			data.Mode, data.ModeM, data.ModeN, data.SmoothedFreq),
		10, 35, 16, rl.LightGray,
	)

	// Simulation info
	forceLabel := "resonance"
	if data.MotionGated {
		forceLabel = "motion"
	}
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Forces: %s", data.Tick, data.FPS, forceLabel),
		10, 55, 16, rl.LightGray,
	)

	// Resonance bars
	y := h.renderer.DrawBar(10, 80, "Quality", data.Quality, 260)
	y = h.renderer.DrawBar(10, y, "Control", data.Control, 260)
	h.renderer.DrawBar(10, y, "RMS", data.RMS, 260)

	// Status
	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, y+20, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
