// Package track holds the in-memory tracking table for freely-swimming
// recordings: a shared timestamp axis plus named kinematic channels for
// each tracked fish. Missing frames are represented as NaN and may be
// filled by Interpolate before downstream analysis.
package track

import (
	"fmt"
	"math"
)

// Channels are the per-fish kinematic traces, all the same length as the
// owning Table's timestamp axis. Positions and velocities are in camera
// pixels (per frame for velocities) as produced by the tracker; unit
// conversion happens at bout extraction time.
type Channels struct {
	X      []float64
	VX     []float64
	Y      []float64
	VY     []float64
	Theta  []float64
	VTheta []float64

	// Tail[j] is the angle trace of tail segment j.
	Tail [][]float64
}

// Table is a time-ordered tracking log for one recording.
type Table struct {
	// T holds per-frame timestamps in seconds, strictly increasing.
	T []float64

	Fish []Channels
}

// Len returns the number of frames.
func (tb *Table) Len() int { return len(tb.T) }

// NFish returns the number of tracked fish.
func (tb *Table) NFish() int { return len(tb.Fish) }

// NSegments returns the number of tail segments per fish, or zero for an
// empty table. Validate guarantees the count is uniform across fish.
func (tb *Table) NSegments() int {
	if len(tb.Fish) == 0 {
		return 0
	}
	return len(tb.Fish[0].Tail)
}

// Validate checks the structural invariants of the table: every channel of
// every fish has one sample per frame, every fish carries the same number of
// tail segments, and timestamps are finite and strictly increasing. A table
// that fails validation must not be fed to bout extraction.
func (tb *Table) Validate() error {
	n := len(tb.T)
	for i := 1; i < n; i++ {
		if math.IsNaN(tb.T[i-1]) || math.IsNaN(tb.T[i]) {
			return fmt.Errorf("timestamp at frame %d is NaN", i)
		}
		if tb.T[i] <= tb.T[i-1] {
			return fmt.Errorf("timestamps not strictly increasing at frame %d (%v -> %v)", i, tb.T[i-1], tb.T[i])
		}
	}
	nSegments := tb.NSegments()
	for iFish, ch := range tb.Fish {
		for _, c := range []struct {
			name string
			xs   []float64
		}{
			{"x", ch.X}, {"vx", ch.VX},
			{"y", ch.Y}, {"vy", ch.VY},
			{"theta", ch.Theta}, {"vtheta", ch.VTheta},
		} {
			if len(c.xs) != n {
				return fmt.Errorf("fish %d: channel %s has %d samples, want %d", iFish, c.name, len(c.xs), n)
			}
		}
		if len(ch.Tail) != nSegments {
			return fmt.Errorf("fish %d: %d tail segments, want %d", iFish, len(ch.Tail), nSegments)
		}
		for j, seg := range ch.Tail {
			if len(seg) != n {
				return fmt.Errorf("fish %d: tail segment %d has %d samples, want %d", iFish, j, len(seg), n)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (tb *Table) Clone() *Table {
	out := &Table{T: append([]float64(nil), tb.T...)}
	out.Fish = make([]Channels, len(tb.Fish))
	for i, ch := range tb.Fish {
		cc := Channels{
			X:      append([]float64(nil), ch.X...),
			VX:     append([]float64(nil), ch.VX...),
			Y:      append([]float64(nil), ch.Y...),
			VY:     append([]float64(nil), ch.VY...),
			Theta:  append([]float64(nil), ch.Theta...),
			VTheta: append([]float64(nil), ch.VTheta...),
		}
		cc.Tail = make([][]float64, len(ch.Tail))
		for j, seg := range ch.Tail {
			cc.Tail[j] = append([]float64(nil), seg...)
		}
		out.Fish[i] = cc
	}
	return out
}

// Interpolate returns a copy of the table with interior NaN runs of length
// at most maxGap filled by linear interpolation between the bracketing valid
// samples. Runs longer than maxGap are left unfilled so that downstream
// activity detection treats them as inactive rather than inventing motion.
// Leading and trailing NaNs are never extrapolated. Timestamps are not
// touched. A maxGap of zero (or less) disables filling.
func (tb *Table) Interpolate(maxGap int) *Table {
	out := tb.Clone()
	if maxGap <= 0 {
		return out
	}
	for i := range out.Fish {
		ch := &out.Fish[i]
		for _, xs := range [][]float64{ch.X, ch.VX, ch.Y, ch.VY, ch.Theta, ch.VTheta} {
			fillGaps(xs, maxGap)
		}
		for _, seg := range ch.Tail {
			fillGaps(seg, maxGap)
		}
	}
	return out
}

// fillGaps fills NaN runs of length <= maxGap that are strictly between two
// valid samples, interpolating linearly by frame index.
func fillGaps(xs []float64, maxGap int) {
	prev := -1 // index of last valid sample seen
	for i := 0; i < len(xs); i++ {
		if math.IsNaN(xs[i]) {
			continue
		}
		if gap := i - prev - 1; prev >= 0 && gap > 0 && gap <= maxGap {
			step := (xs[i] - xs[prev]) / float64(i-prev)
			for k := prev + 1; k < i; k++ {
				xs[k] = xs[prev] + step*float64(k-prev)
			}
		}
		prev = i
	}
}
