package app

import (
	"log/slog"

	"github.com/pthm-cable/cymatics/telemetry"
)

// flushTelemetry closes the current stats window and writes it out.
func (a *App) flushTelemetry() {
	tick := int32(a.sim.Tick())
	mode := a.sim.CurrentMode()
	field := a.sim.Particles()

	stats := a.collector.Flush(tick, telemetry.Snapshot{
		Mode:            a.sim.Mode().String(),
		ModeM:           int(mode.M),
		ModeN:           int(mode.N),
		SmoothedFreq:    float64(a.sim.DriverParams().SmoothedFreq),
		Speeds:          field.Speeds(nil),
		MeanGradientMag: float64(field.MeanGradientMagnitude(a.sim.Wave())),
		SolverEnergy:    float64(a.sim.Solver().TotalEnergy()),
	})
	perfStats := a.perf.Stats()

	if a.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := a.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := a.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}
