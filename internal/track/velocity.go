package track

// Differentiate returns the discrete first difference of xs: out[i] =
// xs[i+1] - xs[i], with the final sample set to zero since no forward
// difference exists there. NaN inputs propagate into the neighbouring
// differences.
func Differentiate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := 0; i+1 < len(xs); i++ {
		out[i] = xs[i+1] - xs[i]
	}
	return out
}

// RecalculateVelocities rewrites fish iFish's velocity channels (vx, vy,
// vtheta) as first differences of the corresponding position and
// orientation channels, replacing whatever the tracker reported. Use when
// the source velocities are untrusted or absent.
func (tb *Table) RecalculateVelocities(iFish int) {
	ch := &tb.Fish[iFish]
	ch.VX = Differentiate(ch.X)
	ch.VY = Differentiate(ch.Y)
	ch.VTheta = Differentiate(ch.Theta)
}
