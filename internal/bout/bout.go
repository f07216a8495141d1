// Package bout turns tracking tables into discrete swim bouts: intervals
// of elevated locomotor activity per fish, each materialised as a small
// kinematic sub-table in physical units, plus a flat per-bout summary.
package bout

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/swimbouts/internal/segment"
	"github.com/banshee-data/swimbouts/internal/track"
	"github.com/banshee-data/swimbouts/internal/units"
)

// Bout is one fish's kinematics over a single activity interval. Fields
// mirror track.Channels but belong to exactly one fish; once converted to
// physical units a Bout is treated as immutable. Scaling is keyed by the
// semantic role of each field: X and Y are positions, VX and VY are
// velocities, and the angular fields are never rescaled.
type Bout struct {
	T      []float64
	X      []float64
	VX     []float64
	Y      []float64
	VY     []float64
	Theta  []float64
	VTheta []float64
	Tail   [][]float64
}

// Len returns the number of frames in the bout.
func (b Bout) Len() int { return len(b.T) }

// Slice copies frames [r.S, r.E) of fish iFish out of the table into a new
// Bout, still in pixel units.
func Slice(tb *track.Table, iFish int, r segment.Range) (Bout, error) {
	if iFish < 0 || iFish >= tb.NFish() {
		return Bout{}, fmt.Errorf("fish index %d out of range (have %d fish)", iFish, tb.NFish())
	}
	if r.S < 0 || r.E > tb.Len() || r.S >= r.E {
		return Bout{}, fmt.Errorf("range [%d,%d) out of table bounds [0,%d)", r.S, r.E, tb.Len())
	}
	ch := tb.Fish[iFish]
	b := Bout{
		T:      append([]float64(nil), tb.T[r.S:r.E]...),
		X:      append([]float64(nil), ch.X[r.S:r.E]...),
		VX:     append([]float64(nil), ch.VX[r.S:r.E]...),
		Y:      append([]float64(nil), ch.Y[r.S:r.E]...),
		VY:     append([]float64(nil), ch.VY[r.S:r.E]...),
		Theta:  append([]float64(nil), ch.Theta[r.S:r.E]...),
		VTheta: append([]float64(nil), ch.VTheta[r.S:r.E]...),
	}
	b.Tail = make([][]float64, len(ch.Tail))
	for j, seg := range ch.Tail {
		b.Tail[j] = append([]float64(nil), seg[r.S:r.E]...)
	}
	return b, nil
}

// Convert returns a copy of the bout with positions rescaled from pixels to
// millimetres and velocities from pixels per frame to millimetres per
// second. Angular fields pass through unchanged. A non-positive dt requests
// per-bout estimation from the bout's own timestamps.
func (b Bout) Convert(scaleMM, dt float64) (Bout, error) {
	if scaleMM <= 0 {
		return Bout{}, fmt.Errorf("scale must be positive, got %v mm/px", scaleMM)
	}
	if dt <= 0 {
		var err error
		if dt, err = units.BoutTimeStep(b.T); err != nil {
			return Bout{}, err
		}
	}
	out := Bout{
		T:      append([]float64(nil), b.T...),
		X:      append([]float64(nil), b.X...),
		VX:     append([]float64(nil), b.VX...),
		Y:      append([]float64(nil), b.Y...),
		VY:     append([]float64(nil), b.VY...),
		Theta:  append([]float64(nil), b.Theta...),
		VTheta: append([]float64(nil), b.VTheta...),
	}
	out.Tail = make([][]float64, len(b.Tail))
	for j, seg := range b.Tail {
		out.Tail[j] = append([]float64(nil), seg...)
	}
	floats.Scale(scaleMM, out.X)
	floats.Scale(scaleMM, out.Y)
	floats.Scale(scaleMM/dt, out.VX)
	floats.Scale(scaleMM/dt, out.VY)
	return out, nil
}
