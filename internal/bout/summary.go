package bout

import "fmt"

// IdentityCaveat is attached to multi-fish summaries: tracking assigns fish
// to slots by position, so a slot index is not a stable biological identity
// when fish cross or leave the arena.
const IdentityCaveat = "fish indices reflect tracking slots, not individual identity; indices may swap where fish cross or leave the arena"

// SummaryRow is the fixed-width kinematic summary of one bout: timestamp,
// position and heading at the first and last frame of the bout.
type SummaryRow struct {
	IFish           int
	TStart          float64
	XStart          float64
	YStart          float64
	ThetaStart      float64
	TEnd            float64
	XEnd            float64
	YEnd            float64
	ThetaEnd        float64
	FollowsPrevious bool
}

// Summary is the flattened bout table across all fish, ordered
// fish-index-major and bout-time-minor. HasFish reports whether the IFish
// column is meaningful (more than one fish tracked); HasContinuity whether
// FollowsPrevious was populated. Caveat carries IdentityCaveat for
// multi-fish summaries and is empty otherwise.
type Summary struct {
	Rows          []SummaryRow
	HasFish       bool
	HasContinuity bool
	Caveat        string
}

// Summarize reduces the per-fish bout lists to one row per bout. The
// continuity argument may be nil to omit the FollowsPrevious column;
// otherwise its shape must match bouts exactly. Fish with no bouts simply
// contribute no rows.
func Summarize(bouts [][]Bout, continuity [][]bool) (*Summary, error) {
	if continuity != nil && len(continuity) != len(bouts) {
		return nil, fmt.Errorf("continuity has %d fish, bouts has %d", len(continuity), len(bouts))
	}
	total := 0
	for iFish, bs := range bouts {
		if continuity != nil && len(continuity[iFish]) != len(bs) {
			return nil, fmt.Errorf("fish %d: %d continuity flags for %d bouts", iFish, len(continuity[iFish]), len(bs))
		}
		total += len(bs)
	}

	s := &Summary{
		Rows:          make([]SummaryRow, 0, total),
		HasFish:       len(bouts) > 1,
		HasContinuity: continuity != nil,
	}
	if s.HasFish {
		s.Caveat = IdentityCaveat
	}
	for iFish, bs := range bouts {
		for iBout, b := range bs {
			if b.Len() == 0 {
				return nil, fmt.Errorf("fish %d: bout %d is empty", iFish, iBout)
			}
			last := b.Len() - 1
			row := SummaryRow{
				IFish:      iFish,
				TStart:     b.T[0],
				XStart:     b.X[0],
				YStart:     b.Y[0],
				ThetaStart: b.Theta[0],
				TEnd:       b.T[last],
				XEnd:       b.X[last],
				YEnd:       b.Y[last],
				ThetaEnd:   b.Theta[last],
			}
			if continuity != nil {
				row.FollowsPrevious = continuity[iFish][iBout]
			}
			s.Rows = append(s.Rows, row)
		}
	}
	return s, nil
}
