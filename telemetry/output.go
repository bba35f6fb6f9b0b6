package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// FrameRow is one CSV record of overlay frame telemetry.
type FrameRow struct {
	Frame       int64   `csv:"frame"`
	FPS         int32   `csv:"fps"`
	Particles   int     `csv:"particles"`
	Respawns    int     `csv:"respawns"`
	Zoom        float64 `csv:"zoom"`
	Generation  uint64  `csv:"generation"`
	FrameMeanMs float64 `csv:"frame_mean_ms"`
	FrameP95Ms  float64 `csv:"frame_p95_ms"`
	AdvectUs    int64   `csv:"advect_us"`
	TrailsUs    int64   `csv:"trails_us"`
}

// OutputManager accumulates telemetry rows and writes frames.csv on
// close. Returns nil when dir is empty (output disabled).
type OutputManager struct {
	dir  string
	rows []*FrameRow
}

// NewOutputManager creates the output directory up front so write
// failures surface at startup, not at shutdown.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputManager{dir: dir}, nil
}

// Append records one telemetry row.
func (om *OutputManager) Append(row FrameRow) {
	if om == nil {
		return
	}
	om.rows = append(om.rows, &row)
}

// Close writes the accumulated rows.
func (om *OutputManager) Close() error {
	if om == nil || len(om.rows) == 0 {
		return nil
	}
	path := filepath.Join(om.dir, "frames.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frames.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&om.rows, f); err != nil {
		return fmt.Errorf("writing frames.csv: %w", err)
	}
	return nil
}
