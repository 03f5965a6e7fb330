package pipeline

import "math"

// IntervalFrames converts the source frame rate and the configured capture
// interval into a frame-count modulus, computed once at startup. A source
// that reports an unknown rate (<= 0) falls back to fallbackFPS. The result
// is never below 1.
func IntervalFrames(sourceFPS float64, captureIntervalSeconds int, fallbackFPS float64) int {
	if sourceFPS <= 0 {
		sourceFPS = fallbackFPS
	}
	interval := int(math.Round(sourceFPS * float64(captureIntervalSeconds)))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// ShouldSample reports whether the frame at frameCount is a sample instant.
// Pure; intervalFrames must be >= 1 (guarded at configuration time).
func ShouldSample(frameCount int64, intervalFrames int) bool {
	return frameCount%int64(intervalFrames) == 0
}
