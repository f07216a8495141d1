package track

import (
	"math"
	"strings"
	"testing"

	"github.com/banshee-data/swimbouts/internal/testutil"
)

func wideHeader(nFish, nSegments int) []string {
	header := []string{"t"}
	for i := 0; i < nFish; i++ {
		header = append(header, FishColumnNames(i, nSegments)...)
	}
	return header
}

func TestFishColumnNames(t *testing.T) {
	got := FishColumnNames(1, 2)
	want := []string{"f1_x", "f1_vx", "f1_y", "f1_vy", "f1_theta", "f1_vtheta", "f1_theta_00", "f1_theta_01"}
	if len(got) != len(want) {
		t.Fatalf("got %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseWide(t *testing.T) {
	header := wideHeader(2, 1)
	rows := [][]float64{
		// t, f0 (x vx y vy th vth tail0), f1 (same)
		{0.0, 1, 0.1, 2, 0.2, 0.5, 0.01, 0.3, 10, 1, 20, 2, 1.5, 0.1, 3},
		{0.1, 2, 0.1, 3, 0.2, 0.6, 0.01, 0.4, 11, 1, 22, 2, 1.6, 0.1, 4},
	}
	tb, err := ParseWide(header, rows)
	testutil.AssertNoError(t, err)

	if tb.NFish() != 2 || tb.NSegments() != 1 || tb.Len() != 2 {
		t.Fatalf("parsed shape = %d fish, %d segments, %d frames", tb.NFish(), tb.NSegments(), tb.Len())
	}
	testutil.AssertFloatsEqual(t, tb.T, []float64{0, 0.1}, 0)
	testutil.AssertFloatsEqual(t, tb.Fish[0].X, []float64{1, 2}, 0)
	testutil.AssertFloatsEqual(t, tb.Fish[0].Tail[0], []float64{0.3, 0.4}, 0)
	testutil.AssertFloatsEqual(t, tb.Fish[1].VX, []float64{1, 1}, 0)
	testutil.AssertFloatsEqual(t, tb.Fish[1].Tail[0], []float64{3, 4}, 0)
}

func TestParseWideIgnoresUnknownColumns(t *testing.T) {
	header := append(wideHeader(1, 0), "arena_temp")
	rows := [][]float64{{0.0, 1, 0, 1, 0, 0, 0, 28.5}}
	tb, err := ParseWide(header, rows)
	testutil.AssertNoError(t, err)
	if tb.NFish() != 1 {
		t.Errorf("NFish = %d, want 1", tb.NFish())
	}
}

func TestParseWideErrors(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		rows    [][]float64
		wantMsg string
	}{
		{
			name:    "no t column",
			header:  FishColumnNames(0, 0),
			rows:    [][]float64{{1, 0, 1, 0, 0, 0}},
			wantMsg: "no t column",
		},
		{
			name:    "no fish columns",
			header:  []string{"t"},
			rows:    [][]float64{{0}},
			wantMsg: "no per-fish columns",
		},
		{
			name:    "missing channel for fish",
			header:  []string{"t", "f0_x", "f0_vx", "f0_y", "f0_vy", "f0_theta"},
			rows:    [][]float64{{0, 1, 0, 1, 0, 0}},
			wantMsg: "missing column f0_vtheta",
		},
		{
			name:    "gap in fish indices",
			header:  append(append([]string{"t"}, FishColumnNames(0, 0)...), FishColumnNames(2, 0)...),
			rows:    [][]float64{{0, 1, 0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0}},
			wantMsg: "not contiguous",
		},
		{
			name:    "inconsistent tail segments",
			header:  append(append([]string{"t"}, FishColumnNames(0, 1)...), FishColumnNames(1, 2)...),
			rows:    [][]float64{{0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0}},
			wantMsg: "more than 1 tail segments",
		},
		{
			name:    "ragged row",
			header:  wideHeader(1, 0),
			rows:    [][]float64{{0, 1, 0}},
			wantMsg: "row has 3 values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWide(tt.header, tt.rows)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantNaN bool
		wantErr bool
	}{
		{in: "1.5", want: 1.5},
		{in: " -2 ", want: -2},
		{in: "", wantNaN: true},
		{in: "nan", wantNaN: true},
		{in: "NaN", wantNaN: true},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCell(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCell(%q) should have failed", tt.in)
			}
			continue
		}
		testutil.AssertNoError(t, err)
		if tt.wantNaN {
			if !math.IsNaN(got) {
				t.Errorf("ParseCell(%q) = %v, want NaN", tt.in, got)
			}
		} else if got != tt.want {
			t.Errorf("ParseCell(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
