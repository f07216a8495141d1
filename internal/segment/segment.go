// Package segment extracts above-threshold intervals from scalar activity
// traces. It is the core of bout detection: given a per-frame activity
// signal it returns the half-open frame ranges where the signal exceeds a
// threshold, after duration filtering and padding, together with a
// continuity flag marking ranges that follow their predecessor with no gap.
package segment

import (
	"fmt"
	"math"
)

// Range is a half-open frame-index interval [S, E).
type Range struct {
	S int
	E int
}

// Len returns the number of frames covered by the range.
func (r Range) Len() int { return r.E - r.S }

// Options control segment extraction. The zero value applies no duration
// filter, no padding, no frame cap and no smoothing; DefaultOptions returns
// the values used for production bout detection.
type Options struct {
	// MinDuration drops detected runs shorter than this many frames,
	// measured before padding.
	MinDuration int

	// PadBefore and PadAfter extend each surviving run by this many frames
	// on each side, clipped to the signal bounds. Padding never makes two
	// emitted ranges overlap: a range that would start inside its
	// predecessor is clipped to start where the predecessor ends.
	PadBefore int
	PadAfter  int

	// MaxFrames, when positive, truncates the signal to its first MaxFrames
	// samples before scanning. Debugging aid, not used in production.
	MaxFrames int

	// MedianWindow, when greater than one, smooths the signal with a
	// trailing rolling median of this window before thresholding, which
	// suppresses single-frame noise crossings.
	MedianWindow int
}

// DefaultOptions returns the extraction policy used for bout detection,
// matching the historical defaults of the tracking pipeline.
func DefaultOptions() Options {
	return Options{
		MinDuration: 20,
		PadBefore:   12,
		PadAfter:    25,
	}
}

// Validate checks the options for nonsensical values.
func (o Options) Validate() error {
	if o.MinDuration < 0 {
		return fmt.Errorf("min_duration must be non-negative, got %d", o.MinDuration)
	}
	if o.PadBefore < 0 || o.PadAfter < 0 {
		return fmt.Errorf("padding must be non-negative, got before=%d after=%d", o.PadBefore, o.PadAfter)
	}
	if o.MaxFrames < 0 {
		return fmt.Errorf("max_frames must be non-negative, got %d", o.MaxFrames)
	}
	if o.MedianWindow < 0 {
		return fmt.Errorf("median_window must be non-negative, got %d", o.MedianWindow)
	}
	return nil
}

// Extract scans signal for maximal runs of samples strictly above threshold
// and returns them as ordered, non-overlapping ranges alongside a parallel
// continuity slice: continuity[k] is true iff range k starts exactly where
// range k-1 ends (zero-frame gap after padding).
//
// NaN samples compare below any threshold, so an unfilled tracking gap
// splits a run and breaks continuity rather than counting as activity. Runs
// touching either end of the signal are truncated there, not dropped.
func Extract(signal []float64, threshold float64, opts Options) ([]Range, []bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	sig := signal
	if opts.MaxFrames > 0 && opts.MaxFrames < len(sig) {
		sig = sig[:opts.MaxFrames]
	}
	if opts.MedianWindow > 1 {
		sig = RollingMedian(sig, opts.MedianWindow)
	}

	var ranges []Range
	var continuity []bool
	n := len(sig)
	for s := 0; s < n; {
		// NaN > threshold is false, which is exactly the policy we want.
		if !(sig[s] > threshold) {
			s++
			continue
		}
		e := s + 1
		for e < n && sig[e] > threshold {
			e++
		}
		if e-s >= max(opts.MinDuration, 1) {
			ps := max(s-opts.PadBefore, 0)
			pe := min(e+opts.PadAfter, n)
			if k := len(ranges); k > 0 {
				prevE := ranges[k-1].E
				if pe <= prevE {
					// Fully inside the previous padded range; nothing new.
					s = e
					continue
				}
				if ps < prevE {
					ps = prevE
				}
			}
			follows := len(ranges) > 0 && ps == ranges[len(ranges)-1].E
			ranges = append(ranges, Range{S: ps, E: pe})
			continuity = append(continuity, follows)
		}
		s = e
	}
	return ranges, continuity, nil
}

// Above returns the boolean activity mask for the signal: true where the
// sample is strictly above threshold, false elsewhere including NaN.
func Above(signal []float64, threshold float64) []bool {
	mask := make([]bool, len(signal))
	for i, v := range signal {
		mask[i] = !math.IsNaN(v) && v > threshold
	}
	return mask
}
