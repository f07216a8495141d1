package bout

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/swimbouts/internal/monitoring"
	"github.com/banshee-data/swimbouts/internal/segment"
	"github.com/banshee-data/swimbouts/internal/track"
	"github.com/banshee-data/swimbouts/internal/units"
)

// Scaler supplies the camera calibration when the extraction config does
// not pin a scale explicitly. Implemented by the calibration lookup of the
// experiment layer.
type Scaler interface {
	// ScaleMM returns millimetres per pixel for the recording.
	ScaleMM() (float64, error)
}

// Config holds the bout extraction parameters. DefaultConfig documents the
// defaults; ThresholdMMPS has no safe default and must always be set
// deliberately for the species and arena at hand.
type Config struct {
	// MaxInterpolate is the longest interior NaN run (frames) filled by
	// linear interpolation before detection. Longer gaps stay NaN and read
	// as inactive.
	MaxInterpolate int

	// WindowSize is the rolling-median window applied to the activity
	// signal when MedianVel is set.
	WindowSize int

	// RecalculateVel discards tracker-reported velocities and recomputes
	// them by finite differencing of positions and orientation.
	RecalculateVel bool

	// MedianVel smooths the squared-velocity signal with a rolling median
	// before thresholding.
	MedianVel bool

	// ScaleMM is the calibration in millimetres per pixel. Zero means
	// derive it from the Scaler collaborator.
	ScaleMM float64

	// ThresholdMMPS is the speed threshold in mm/s (squared internally).
	// Must be positive.
	ThresholdMMPS float64

	// Segment carries the segment extractor policy. MedianWindow is
	// overridden from WindowSize when MedianVel is set.
	Segment segment.Options
}

// DefaultConfig returns the extraction defaults: interpolate gaps up to 2
// frames, 7-frame median window, 1 mm/s threshold, and the default segment
// policy.
func DefaultConfig() Config {
	return Config{
		MaxInterpolate: 2,
		WindowSize:     7,
		ThresholdMMPS:  1,
		Segment:        segment.DefaultOptions(),
	}
}

// Validate checks the configuration. A non-positive threshold is always a
// configuration error: bout detection against zero activity is meaningless
// and would classify every frame as active.
func (c Config) Validate() error {
	if c.ThresholdMMPS <= 0 {
		return fmt.Errorf("threshold must be positive, got %v mm/s", c.ThresholdMMPS)
	}
	if c.MaxInterpolate < 0 {
		return fmt.Errorf("max_interpolate must be non-negative, got %d", c.MaxInterpolate)
	}
	if c.MedianVel && c.WindowSize < 2 {
		return fmt.Errorf("window_size must be at least 2 when median_vel is set, got %d", c.WindowSize)
	}
	if c.ScaleMM < 0 {
		return fmt.Errorf("scale must be positive, got %v mm/px", c.ScaleMM)
	}
	return c.Segment.Validate()
}

// Result is the output of one extraction run: per-fish bout lists and the
// parallel continuity flags, in fish-index order. Per-fish lists are kept
// separate; bouts from different fish may overlap in time and are never
// merged or coalesced across fish.
type Result struct {
	Bouts           [][]Bout
	FollowsPrevious [][]bool
}

// NBouts returns the total bout count across all fish.
func (r *Result) NBouts() int {
	n := 0
	for _, bs := range r.Bouts {
		n += len(bs)
	}
	return n
}

// Summarize flattens the result into the per-bout summary table.
func (r *Result) Summarize() (*Summary, error) {
	return Summarize(r.Bouts, r.FollowsPrevious)
}

// Extractor runs bout extraction over tracking tables with a fixed
// configuration.
type Extractor struct {
	cfg    Config
	scaler Scaler
}

// NewExtractor validates the configuration and returns an Extractor. The
// scaler may be nil only when cfg.ScaleMM is set explicitly.
func NewExtractor(cfg Config, scaler Scaler) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bout extraction config: %w", err)
	}
	if cfg.ScaleMM == 0 && scaler == nil {
		return nil, fmt.Errorf("bout extraction config: no scale given and no calibration source available")
	}
	return &Extractor{cfg: cfg, scaler: scaler}, nil
}

// Extract detects bouts for every fish in the table. Per fish it fills
// short tracking gaps, optionally recomputes velocities, builds the
// activity signal as squared planar speed in (mm/s)², runs segment
// extraction against the squared threshold, and materialises each detected
// range as a unit-converted Bout. Fish are independent; a fish with no
// above-threshold activity simply contributes an empty list.
func (e *Extractor) Extract(tb *track.Table) (*Result, error) {
	if err := tb.Validate(); err != nil {
		return nil, fmt.Errorf("tracking table: %w", err)
	}
	scale := e.cfg.ScaleMM
	if scale == 0 {
		var err error
		if scale, err = e.scaler.ScaleMM(); err != nil {
			return nil, fmt.Errorf("derive scale: %w", err)
		}
	}
	if scale <= 0 {
		return nil, fmt.Errorf("calibration returned non-positive scale %v mm/px", scale)
	}
	dt, err := units.SamplingInterval(tb.T)
	if err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("estimated non-positive sampling interval %v s", dt)
	}

	work := tb.Interpolate(e.cfg.MaxInterpolate)
	opts := e.cfg.Segment
	if e.cfg.MedianVel {
		opts.MedianWindow = e.cfg.WindowSize
	}
	threshold2 := e.cfg.ThresholdMMPS * e.cfg.ThresholdMMPS

	res := &Result{
		Bouts:           make([][]Bout, 0, work.NFish()),
		FollowsPrevious: make([][]bool, 0, work.NFish()),
	}
	for iFish := range work.Fish {
		if e.cfg.RecalculateVel {
			work.RecalculateVelocities(iFish)
		}
		vel2 := activitySignal(work.Fish[iFish].VX, work.Fish[iFish].VY, scale/dt)
		ranges, follows, err := segment.Extract(vel2, threshold2, opts)
		if err != nil {
			return nil, fmt.Errorf("fish %d: %w", iFish, err)
		}
		bouts := make([]Bout, 0, len(ranges))
		for _, r := range ranges {
			raw, err := Slice(work, iFish, r)
			if err != nil {
				return nil, fmt.Errorf("fish %d: %w", iFish, err)
			}
			// Single-frame bouts cannot estimate their own time step; fall
			// back to the recording-wide interval.
			boutDT := 0.0
			if raw.Len() < 2 {
				boutDT = dt
			}
			b, err := raw.Convert(scale, boutDT)
			if err != nil {
				return nil, fmt.Errorf("fish %d: convert bout [%d,%d): %w", iFish, r.S, r.E, err)
			}
			bouts = append(bouts, b)
		}
		monitoring.Logf("bout: fish %d: %d bouts above %.3g mm/s", iFish, len(bouts), e.cfg.ThresholdMMPS)
		res.Bouts = append(res.Bouts, bouts)
		res.FollowsPrevious = append(res.FollowsPrevious, follows)
	}
	return res, nil
}

// activitySignal computes per-frame squared planar speed in (mm/s)² from
// pixel-per-frame velocity channels: (vx²+vy²)·k², with k = scale/dt. NaN
// velocities yield NaN activity.
func activitySignal(vx, vy []float64, k float64) []float64 {
	out := make([]float64, len(vx))
	for i := range out {
		out[i] = vx[i]*vx[i] + vy[i]*vy[i]
	}
	floats.Scale(k*k, out)
	return out
}
