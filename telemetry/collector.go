package telemetry

// Collector accumulates per-tick signals within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Accumulators for current window
	ticks             int
	controlSum        float64
	controlMax        float64
	qualitySum        float64
	rmsSum            float64
	modeChanges       int
	outlierRejections int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordTick accumulates the per-tick resonance signals.
func (c *Collector) RecordTick(control, quality, rms float64) {
	c.ticks++
	c.controlSum += control
	if control > c.controlMax {
		c.controlMax = control
	}
	c.qualitySum += quality
	c.rmsSum += rms
}

// RecordModeChanges adds mode transitions observed since the last call.
func (c *Collector) RecordModeChanges(n int) {
	c.modeChanges += n
}

// RecordOutlierRejections adds rejected pitch samples observed since
// the last call.
func (c *Collector) RecordOutlierRejections(n int) {
	c.outlierRejections += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot holds the window-end state sampled by the caller.
type Snapshot struct {
	Mode            string
	ModeM           int
	ModeN           int
	SmoothedFreq    float64
	Speeds          []float64 // particle speeds for percentile calculation
	MeanGradientMag float64
	SolverEnergy    float64
}

// Flush produces a WindowStats and resets accumulators for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	var controlMean, qualityMean, rmsMean float64
	if c.ticks > 0 {
		controlMean = c.controlSum / float64(c.ticks)
		qualityMean = c.qualitySum / float64(c.ticks)
		rmsMean = c.rmsSum / float64(c.ticks)
	}

	speedMean, speedP10, speedP50, speedP90 := ComputeSpeedStats(snap.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Mode:         snap.Mode,
		ModeM:        snap.ModeM,
		ModeN:        snap.ModeN,
		SmoothedFreq: snap.SmoothedFreq,

		ControlMean: controlMean,
		ControlMax:  c.controlMax,
		QualityMean: qualityMean,
		RMSMean:     rmsMean,

		ModeChanges:       c.modeChanges,
		OutlierRejections: c.outlierRejections,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		MeanGradientMag: snap.MeanGradientMag,
		SolverEnergy:    snap.SolverEnergy,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.ticks = 0
	c.controlSum = 0
	c.controlMax = 0
	c.qualitySum = 0
	c.rmsSum = 0
	c.modeChanges = 0
	c.outlierRejections = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
