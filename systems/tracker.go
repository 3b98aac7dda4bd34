package systems

import "slices"

// historySize is the number of recent frequency samples kept for the
// median reference.
const historySize = 8

// FrequencyTracker smooths a noisy dominant-frequency stream.
//
// Pitch detectors misread percussive or noisy frames; a single bad frame
// must not visibly perturb the pattern. The tracker keeps the last 8 raw
// samples, uses their median as an outlier reference, and blends the
// median into an exponential estimate only when the new sample is within
// 30% of it.
type FrequencyTracker struct {
	history  [historySize]float32
	cursor   int
	smoothed float32
	rejected int
}

// NewFrequencyTracker creates a tracker with an empty history.
func NewFrequencyTracker() *FrequencyTracker {
	return &FrequencyTracker{}
}

// Push records a raw frequency sample and returns the updated smoothed
// estimate. Samples deviating more than 30% from the running median are
// rejected once an estimate is established; the very first reading is
// always bootstrapped through.
func (t *FrequencyTracker) Push(raw float32) float32 {
	t.history[t.cursor] = raw
	t.cursor = (t.cursor + 1) % historySize

	sorted := t.history
	slices.Sort(sorted[:])
	median := sorted[historySize/2]

	deviation := absFloat(raw-median) / max(median, 1)
	if deviation < 0.3 || t.smoothed == 0 {
		t.smoothed = t.smoothed*0.7 + median*0.3
	} else {
		t.rejected++
	}
	return t.smoothed
}

// Smoothed returns the current smoothed frequency estimate.
func (t *FrequencyTracker) Smoothed() float32 {
	return t.smoothed
}

// Rejections returns the cumulative count of rejected outlier samples.
func (t *FrequencyTracker) Rejections() int {
	return t.rejected
}

// Reset clears the history and the smoothed estimate.
func (t *FrequencyTracker) Reset() {
	*t = FrequencyTracker{}
}
