package segment

import (
	"math"
	"sort"
)

// RollingMedian returns the trailing rolling median of xs: out[i] is the
// median of the window xs[max(0,i-window+1) .. i]. Windows at the start of
// the trace therefore use however many samples are available. NaN samples
// are excluded from their windows; a window containing only NaNs yields
// NaN. The input is not modified.
func RollingMedian(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	buf := make([]float64, 0, window)
	for i := range xs {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		buf = buf[:0]
		for _, v := range xs[lo : i+1] {
			if !math.IsNaN(v) {
				buf = append(buf, v)
			}
		}
		out[i] = median(buf)
	}
	return out
}

// median computes the sample median, averaging the two middle order
// statistics for even-length input. It sorts buf in place and returns NaN
// for empty input.
func median(buf []float64) float64 {
	n := len(buf)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(buf)
	if n%2 == 1 {
		return buf[n/2]
	}
	return (buf[n/2-1] + buf[n/2]) / 2
}
