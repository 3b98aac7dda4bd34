package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TuningParams holds the live-adjustable plate parameters.
type TuningParams struct {
	FrequencyScale float32
	Amplitude      float32
	PlateConstant  float32
}

// Actions reports one-shot button presses from the panel.
type Actions struct {
	ToggleMode       bool
	ToggleMotionGate bool
	ResetParticles   bool
}

// ControlsPanel renders the right-side tuning panel with raygui widgets.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns updated params plus any button
// actions. When hidden, params pass through unchanged.
func (c *ControlsPanel) Draw(params TuningParams, modeLabel string, motionGated bool) (TuningParams, Actions) {
	var actions Actions
	if !c.visible {
		return params, actions
	}

	r := c.renderer
	padding := r.Theme.Padding

	panelHeight := int32(280)
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	sliderWidth := float32(c.width) - float32(padding)*2 - 50

	rl.DrawText("Plate Tuning", int32(x), int32(y), 16, rl.White)
	y += 26

	// Frequency scale slider
	rl.DrawText("Pattern complexity", int32(x), int32(y), 14, rl.Gray)
	y += 18
	params.FrequencyScale = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 20},
		"0.1", "3.0",
		params.FrequencyScale, 0.1, 3.0,
	)
	rl.DrawText(fmt.Sprintf("%.2f", params.FrequencyScale), int32(x+sliderWidth+8), int32(y+2), 16, rl.DarkGray)
	y += 32

	// Amplitude slider
	rl.DrawText("Wave amplitude", int32(x), int32(y), 14, rl.Gray)
	y += 18
	params.Amplitude = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 20},
		"0.1", "2.0",
		params.Amplitude, 0.1, 2.0,
	)
	rl.DrawText(fmt.Sprintf("%.2f", params.Amplitude), int32(x+sliderWidth+8), int32(y+2), 16, rl.DarkGray)
	y += 32

	// Plate constant slider
	rl.DrawText("Plate constant (Hz)", int32(x), int32(y), 14, rl.Gray)
	y += 18
	params.PlateConstant = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 20},
		"10", "2000",
		params.PlateConstant, 10, 2000,
	)
	rl.DrawText(fmt.Sprintf("%.0f", params.PlateConstant), int32(x+sliderWidth+8), int32(y+2), 16, rl.DarkGray)
	y += 38

	// Mode and force-model buttons
	buttonWidth := (float32(c.width) - float32(padding)*3) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: 28}, modeLabel) {
		actions.ToggleMode = true
	}
	gateLabel := "Gate: resonance"
	if motionGated {
		gateLabel = "Gate: motion"
	}
	if gui.Button(rl.Rectangle{X: x + buttonWidth + float32(padding), Y: y, Width: buttonWidth, Height: 28}, gateLabel) {
		actions.ToggleMotionGate = true
	}
	y += 36

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: 28}, "Reset Sand") {
		actions.ResetParticles = true
	}

	return params, actions
}
