package bout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// miniBout builds a two-frame bout with recognisable start/end values.
func miniBout(t0, x0 float64) Bout {
	return Bout{
		T:      []float64{t0, t0 + 0.1},
		X:      []float64{x0, x0 + 1},
		VX:     []float64{1, 0},
		Y:      []float64{x0 * 2, x0*2 + 1},
		VY:     []float64{1, 0},
		Theta:  []float64{0.5, 0.6},
		VTheta: []float64{0.1, 0},
	}
}

func TestSummarizeSingleFish(t *testing.T) {
	bouts := [][]Bout{{miniBout(1, 10), miniBout(2, 20)}}

	s, err := Summarize(bouts, nil)
	require.NoError(t, err)

	require.Len(t, s.Rows, 2)
	assert.False(t, s.HasFish, "i_fish column only appears for multiple fish")
	assert.False(t, s.HasContinuity)
	assert.Empty(t, s.Caveat)

	r := s.Rows[0]
	assert.Equal(t, 1.0, r.TStart)
	assert.Equal(t, 10.0, r.XStart)
	assert.Equal(t, 20.0, r.YStart)
	assert.Equal(t, 0.5, r.ThetaStart)
	assert.InDelta(t, 1.1, r.TEnd, 1e-9)
	assert.Equal(t, 11.0, r.XEnd)
	assert.Equal(t, 21.0, r.YEnd)
	assert.InDelta(t, 0.6, r.ThetaEnd, 1e-9)
}

func TestSummarizeMultiFishOrder(t *testing.T) {
	// Fish 1's bouts precede fish 0's in time; output order must still be
	// fish-index-major.
	bouts := [][]Bout{
		{miniBout(5, 1)},
		{miniBout(1, 2), miniBout(2, 3)},
		{}, // a fish with no bouts contributes no rows
	}
	continuity := [][]bool{{false}, {false, true}, {}}

	s, err := Summarize(bouts, continuity)
	require.NoError(t, err)

	require.Len(t, s.Rows, 3)
	assert.True(t, s.HasFish)
	assert.True(t, s.HasContinuity)
	assert.Equal(t, IdentityCaveat, s.Caveat)

	assert.Equal(t, []int{0, 1, 1}, []int{s.Rows[0].IFish, s.Rows[1].IFish, s.Rows[2].IFish})
	assert.Equal(t, []bool{false, false, true},
		[]bool{s.Rows[0].FollowsPrevious, s.Rows[1].FollowsPrevious, s.Rows[2].FollowsPrevious})
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize([][]Bout{{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Rows)
	assert.False(t, s.HasFish)
}

func TestSummarizeShapeErrors(t *testing.T) {
	bouts := [][]Bout{{miniBout(1, 1)}}

	_, err := Summarize(bouts, [][]bool{{true}, {false}})
	assert.Error(t, err, "continuity fish count mismatch")

	_, err = Summarize(bouts, [][]bool{{true, false}})
	assert.Error(t, err, "continuity flag count mismatch")

	_, err = Summarize([][]Bout{{{}}}, nil)
	assert.Error(t, err, "empty bout")
}

func TestResultSummarize(t *testing.T) {
	res := &Result{
		Bouts:           [][]Bout{{miniBout(1, 1)}, {miniBout(2, 2)}},
		FollowsPrevious: [][]bool{{false}, {false}},
	}
	s, err := res.Summarize()
	require.NoError(t, err)
	assert.Len(t, s.Rows, res.NBouts())
	assert.True(t, s.HasFish)
	assert.True(t, s.HasContinuity)
}
