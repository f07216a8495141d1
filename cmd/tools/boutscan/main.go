// boutscan runs bout extraction over a legacy wide-format tracking CSV and
// writes the per-bout summary as CSV. It is the file-loading glue around
// the swimbouts core, useful for batch reprocessing and for eyeballing
// thresholds on recorded data.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/banshee-data/swimbouts/internal/bout"
	"github.com/banshee-data/swimbouts/internal/config"
	"github.com/banshee-data/swimbouts/internal/track"
	"github.com/banshee-data/swimbouts/internal/version"
)

func main() {
	var logPath string
	var configPath string
	var outPath string
	var scale float64
	var threshold float64
	var showVersion bool

	flag.StringVar(&logPath, "log", "", "path to wide-format tracking CSV (required)")
	flag.StringVar(&configPath, "config", "", "path to extraction config JSON")
	flag.StringVar(&outPath, "out", "", "summary CSV output path (default stdout)")
	flag.Float64Var(&scale, "scale", 0, "calibration in mm per pixel (overrides config)")
	flag.Float64Var(&threshold, "threshold", 0, "speed threshold in mm/s (overrides config)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("boutscan %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if logPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfgDoc := &config.ExtractionConfig{}
	if configPath != "" {
		var err error
		if cfgDoc, err = config.Load(configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	cfg := cfgDoc.BoutConfig()
	if scale > 0 {
		cfg.ScaleMM = scale
	}
	if threshold > 0 {
		cfg.ThresholdMMPS = threshold
	}
	if cfg.ScaleMM == 0 {
		log.Fatalf("no calibration available: set -scale or scale_mm in the config")
	}

	tb, err := readTrackingCSV(logPath)
	if err != nil {
		log.Fatalf("read tracking log: %v", err)
	}

	runID := uuid.NewString()
	log.Printf("boutscan run %s: %d frames, %d fish, %d tail segments",
		runID, tb.Len(), tb.NFish(), tb.NSegments())

	ex, err := bout.NewExtractor(cfg, nil)
	if err != nil {
		log.Fatalf("configure extractor: %v", err)
	}
	res, err := ex.Extract(tb)
	if err != nil {
		log.Fatalf("extract bouts: %v", err)
	}
	summary, err := res.Summarize()
	if err != nil {
		log.Fatalf("summarize bouts: %v", err)
	}
	if summary.Caveat != "" {
		log.Printf("warning: %s", summary.Caveat)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeSummaryCSV(out, summary); err != nil {
		log.Fatalf("write summary: %v", err)
	}
	log.Printf("boutscan run %s: wrote %d bouts", runID, len(summary.Rows))
}

// readTrackingCSV parses a wide-format tracking log with a header row of
// legacy column names (t, f0_x, f0_vx, ...).
func readTrackingCSV(path string) (*track.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", path)
	}
	header := records[0]
	rows := make([][]float64, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := track.ParseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %s: %w", path, i+2, header[j], err)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return track.ParseWide(header, rows)
}

// writeSummaryCSV emits one row per bout. The i_fish and follows_previous
// columns appear only when the summary carries them, matching the shape of
// the in-memory table.
func writeSummaryCSV(f *os.File, s *bout.Summary) error {
	w := csv.NewWriter(f)
	header := []string{}
	if s.HasFish {
		header = append(header, "i_fish")
	}
	header = append(header,
		"t_start", "x_start", "y_start", "theta_start",
		"t_end", "x_end", "y_end", "theta_end",
	)
	if s.HasContinuity {
		header = append(header, "follows_previous")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range s.Rows {
		rec := []string{}
		if s.HasFish {
			rec = append(rec, strconv.Itoa(row.IFish))
		}
		for _, v := range []float64{
			row.TStart, row.XStart, row.YStart, row.ThetaStart,
			row.TEnd, row.XEnd, row.YEnd, row.ThetaEnd,
		} {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if s.HasContinuity {
			rec = append(rec, strconv.FormatBool(row.FollowsPrevious))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
