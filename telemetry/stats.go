package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Driving state at window end
	Mode         string  `csv:"mode"`
	ModeM        int     `csv:"mode_m"`
	ModeN        int     `csv:"mode_n"`
	SmoothedFreq float64 `csv:"smoothed_freq"`

	// Resonance signals averaged over the window
	ControlMean float64 `csv:"control_mean"`
	ControlMax  float64 `csv:"control_max"`
	QualityMean float64 `csv:"quality_mean"`
	RMSMean     float64 `csv:"rms_mean"`

	// Events during window
	ModeChanges       int `csv:"mode_changes"`
	OutlierRejections int `csv:"outlier_rejections"`

	// Particle distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Settling: mean |gradient| at particle positions. Falls as
	// particles collect on nodal lines.
	MeanGradientMag float64 `csv:"mean_gradient_mag"`

	// Driven solver energy (motion-gated live mode only)
	SolverEnergy float64 `csv:"solver_energy"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean and percentiles from particle speeds.
func ComputeSpeedStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("mode", s.Mode),
		slog.Int("mode_m", s.ModeM),
		slog.Int("mode_n", s.ModeN),
		slog.Float64("smoothed_freq", s.SmoothedFreq),
		slog.Float64("control_mean", s.ControlMean),
		slog.Float64("control_max", s.ControlMax),
		slog.Float64("quality_mean", s.QualityMean),
		slog.Float64("rms_mean", s.RMSMean),
		slog.Int("mode_changes", s.ModeChanges),
		slog.Int("outlier_rejections", s.OutlierRejections),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("mean_gradient_mag", s.MeanGradientMag),
		slog.Float64("solver_energy", s.SolverEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"mode", s.Mode,
		"mode_m", s.ModeM,
		"mode_n", s.ModeN,
		"smoothed_freq", s.SmoothedFreq,
		"control_mean", s.ControlMean,
		"control_max", s.ControlMax,
		"quality_mean", s.QualityMean,
		"rms_mean", s.RMSMean,
		"mode_changes", s.ModeChanges,
		"outlier_rejections", s.OutlierRejections,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"mean_gradient_mag", s.MeanGradientMag,
		"solver_energy", s.SolverEnergy,
	)
}
