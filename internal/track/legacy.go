package track

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The original tracking logs are wide tables whose per-fish channels are
// encoded in the column names: f0_x, f0_vx, ..., f0_theta_00 and so on.
// ParseWide is the boundary where that naming scheme is decoded into the
// structured Table; nothing downstream of it deals in column names.

// FishColumnNames returns the legacy column names for one fish, in
// canonical order: x, vx, y, vy, theta, vtheta, then the tail segments.
func FishColumnNames(iFish, nSegments int) []string {
	names := []string{
		fmt.Sprintf("f%d_x", iFish),
		fmt.Sprintf("f%d_vx", iFish),
		fmt.Sprintf("f%d_y", iFish),
		fmt.Sprintf("f%d_vy", iFish),
		fmt.Sprintf("f%d_theta", iFish),
		fmt.Sprintf("f%d_vtheta", iFish),
	}
	for j := 0; j < nSegments; j++ {
		names = append(names, fmt.Sprintf("f%d_theta_%02d", iFish, j))
	}
	return names
}

// ParseWide builds a Table from a legacy wide-format header and row data.
// The header must contain a "t" column and, for each fish i in 0..n-1, the
// full set of f{i}_* channels; a fish with some but not all of its channels
// present is a schema error, as is a gap in the fish indices or a mismatch
// in tail segment counts between fish. Unrecognised columns are ignored.
// Empty cells and the literal "nan" become NaN.
func ParseWide(header []string, rows [][]float64) (*Table, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["t"]; !ok {
		return nil, fmt.Errorf("header has no t column")
	}

	nFish := 0
	for {
		if _, ok := cols[fmt.Sprintf("f%d_x", nFish)]; !ok {
			break
		}
		nFish++
	}
	if nFish == 0 {
		return nil, fmt.Errorf("header has no per-fish columns (expected f0_x, ...)")
	}
	for _, name := range header {
		var i int
		if _, err := fmt.Sscanf(name, "f%d_x", &i); err == nil && i >= nFish {
			return nil, fmt.Errorf("fish indices not contiguous: found %s but only %d fish", name, nFish)
		}
	}

	nSegments := 0
	for {
		if _, ok := cols[fmt.Sprintf("f0_theta_%02d", nSegments)]; !ok {
			break
		}
		nSegments++
	}

	for _, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row has %d values, header has %d columns", len(row), len(header))
		}
	}

	column := func(name string) ([]float64, error) {
		ci, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("missing column %s", name)
		}
		out := make([]float64, len(rows))
		for r, row := range rows {
			out[r] = row[ci]
		}
		return out, nil
	}

	tb := &Table{Fish: make([]Channels, nFish)}
	var err error
	if tb.T, err = column("t"); err != nil {
		return nil, err
	}
	for i := 0; i < nFish; i++ {
		names := FishColumnNames(i, nSegments)
		dst := []*[]float64{
			&tb.Fish[i].X, &tb.Fish[i].VX,
			&tb.Fish[i].Y, &tb.Fish[i].VY,
			&tb.Fish[i].Theta, &tb.Fish[i].VTheta,
		}
		for k, d := range dst {
			if *d, err = column(names[k]); err != nil {
				return nil, fmt.Errorf("fish %d: %w", i, err)
			}
		}
		tb.Fish[i].Tail = make([][]float64, nSegments)
		for j := 0; j < nSegments; j++ {
			if tb.Fish[i].Tail[j], err = column(names[6+j]); err != nil {
				return nil, fmt.Errorf("fish %d: %w", i, err)
			}
		}
		// A fish must not carry more tail segments than were detected for
		// fish 0; a stray extra column means the schema is inconsistent.
		if _, ok := cols[fmt.Sprintf("f%d_theta_%02d", i, nSegments)]; ok {
			return nil, fmt.Errorf("fish %d has more than %d tail segments", i, nSegments)
		}
	}
	return tb, tb.Validate()
}

// ParseCell converts one CSV cell into a float64, mapping empty cells and
// "nan" (any case) to NaN.
func ParseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
