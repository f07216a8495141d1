// Package units provides shared constants and conversion helpers for
// tracking data recorded in camera pixels. Positions convert to
// millimetres through the calibration scale; per-frame velocities convert
// to millimetres per second through the scale and the sampling interval.
package units

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Unit constants
const (
	Pixel         = "px"
	PixelPerFrame = "px/frame"
	MM            = "mm"
	MMPerSecond   = "mm/s"
)

// PositionToMM converts a pixel coordinate to millimetres.
func PositionToMM(px, scaleMM float64) float64 {
	return px * scaleMM
}

// VelocityToMMPerSecond converts a per-frame pixel displacement to
// millimetres per second given the sampling interval dt in seconds.
func VelocityToMMPerSecond(pxPerFrame, scaleMM, dt float64) float64 {
	return pxPerFrame * scaleMM / dt
}

// SamplingInterval estimates the global frame interval in seconds as the
// mean of consecutive timestamp differences over frames [100, 200), a span
// chosen to skip acquisition start-up jitter. Shorter recordings fall back
// to the full trace. At least two timestamps are required.
func SamplingInterval(t []float64) (float64, error) {
	if len(t) < 2 {
		return 0, fmt.Errorf("need at least 2 timestamps to estimate sampling interval, got %d", len(t))
	}
	lo, hi := 100, 200
	if hi > len(t) {
		hi = len(t)
	}
	if hi-lo < 2 {
		lo, hi = 0, len(t)
	}
	diffs := make([]float64, hi-lo-1)
	for i := range diffs {
		diffs[i] = t[lo+i+1] - t[lo+i]
	}
	return stat.Mean(diffs, nil), nil
}

// BoutTimeStep estimates the frame interval over a single bout's timestamp
// trace: the covered duration divided by the number of intervals.
func BoutTimeStep(t []float64) (float64, error) {
	if len(t) < 2 {
		return 0, fmt.Errorf("need at least 2 timestamps to estimate bout time step, got %d", len(t))
	}
	return (t[len(t)-1] - t[0]) / float64(len(t)-1), nil
}
