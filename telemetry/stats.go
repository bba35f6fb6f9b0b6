package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameStats summarizes frame times over the rolling window.
type FrameStats struct {
	MeanMs float64
	P50Ms  float64
	P95Ms  float64
}

// ComputeFrameStats reduces a slice of frame durations (seconds) to
// mean and quantiles in milliseconds.
func ComputeFrameStats(seconds []float64) FrameStats {
	if len(seconds) == 0 {
		return FrameStats{}
	}
	sorted := make([]float64, len(seconds))
	copy(sorted, seconds)
	sort.Float64s(sorted)

	return FrameStats{
		MeanMs: stat.Mean(sorted, nil) * 1000,
		P50Ms:  stat.Quantile(0.5, stat.Empirical, sorted, nil) * 1000,
		P95Ms:  stat.Quantile(0.95, stat.Empirical, sorted, nil) * 1000,
	}
}
