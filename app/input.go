package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cymatics/engine"
	"github.com/pthm-cable/cymatics/ui"
)

const toneStepHz = 10.0

// handleInput processes keyboard shortcuts.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyD) {
		a.toggleMode()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.sim.SetMotionGated(!a.sim.MotionGated())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.sim.ResetParticles()
	}

	// Tone retuning only applies when the synthetic source is active
	if a.oscillator != nil {
		if rl.IsKeyPressed(rl.KeyLeft) && a.toneHz > toneStepHz {
			a.toneHz -= toneStepHz
		}
		if rl.IsKeyPressed(rl.KeyRight) {
			a.toneHz += toneStepHz
		}
	}
}

// toggleMode flips between demo and live driving.
func (a *App) toggleMode() {
	if a.sim.Mode() == engine.ModeDemo {
		a.sim.SetMode(engine.ModeLive)
	} else {
		a.sim.SetMode(engine.ModeDemo)
		a.demoTimer = 0
	}
}

// drawHUD renders the overlay and applies any panel interactions.
func (a *App) drawHUD() {
	d := a.sim.DriverParams()
	mode := a.sim.CurrentMode()

	a.hud.Draw(ui.HUDData{
		Title:        "Cymatics",
		Mode:         a.sim.Mode().String(),
		ModeM:        int(mode.M),
		ModeN:        int(mode.N),
		SmoothedFreq: d.SmoothedFreq,
		Quality:      d.ResonanceQuality,
		Control:      a.sim.Control(),
		RMS:          d.RMS,
		MotionGated:  a.sim.MotionGated(),
		Tick:         int32(a.sim.Tick()),
		FPS:          rl.GetFPS(),
		Paused:       a.paused,
		ScreenWidth:  int32(a.width),
		ScreenHeight: int32(a.height),
	})
	a.hud.DrawControls(int32(a.width), int32(a.height),
		"[Space] pause  [Tab] panel  [D] demo/live  [G] gate  [R] reset sand  [Left/Right] tone")

	modeLabel := "Go Live"
	if a.sim.Mode() == engine.ModeLive {
		modeLabel = "Go Demo"
	}
	params, actions := a.controls.Draw(ui.TuningParams{
		FrequencyScale: a.sim.FrequencyScale(),
		Amplitude:      a.sim.Amplitude(),
		PlateConstant:  a.sim.PlateConstant(),
	}, modeLabel, a.sim.MotionGated())

	a.sim.SetFrequencyScale(params.FrequencyScale)
	a.sim.SetAmplitude(params.Amplitude)
	a.sim.SetPlateConstant(params.PlateConstant)

	if actions.ToggleMode {
		a.toggleMode()
	}
	if actions.ToggleMotionGate {
		a.sim.SetMotionGated(!a.sim.MotionGated())
	}
	if actions.ResetParticles {
		a.sim.ResetParticles()
	}
}
