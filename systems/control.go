package systems

// ControlSignal combines resonance quality with loudness into the
// scalar that governs the chaos-to-order balance of the particle
// system. Quiet signals are boosted by 3x before capping at 1.
//
// The combination is multiplicative: a loud but off-pitch signal and a
// quiet but on-pitch signal both collapse toward zero. Only correct
// pitch at audible volume produces order.
func ControlSignal(quality, rms float32) float32 {
	loudness := clamp01(rms * 3)
	return clamp01(quality * loudness)
}
