// Package telemetry tracks frame timing for the overlay and writes
// optional CSV experiment output.
package telemetry

import (
	"time"
)

// Phase names for one overlay frame.
const (
	PhaseInput     = "input"
	PhaseStore     = "store"
	PhaseRasterize = "rasterize"
	PhaseAdvect    = "advect"
	PhaseTrails    = "trails"
	PhaseWaves     = "waves"
	PhaseHUD       = "hud"
)

// phaseOrder keeps log output stable.
var phaseOrder = []string{
	PhaseInput, PhaseStore, PhaseRasterize, PhaseAdvect, PhaseTrails, PhaseWaves, PhaseHUD,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks per-phase timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector with a rolling window sized to
// hold windowSec of frames at the target FPS.
func NewPerfCollector(windowSec float64, targetFPS int) *PerfCollector {
	n := int(windowSec * float64(targetFPS))
	if n < 1 {
		n = 1
	}
	return &PerfCollector{
		windowSize: n,
		samples:    make([]PerfSample, n),
	}
}

// BeginFrame starts timing a new frame.
func (p *PerfCollector) BeginFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(phaseOrder))
	p.lastPhase = ""
}

// Phase closes the previous phase (if any) and opens a new one.
func (p *PerfCollector) Phase(name string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.lastPhase = name
	p.phaseStart = now
}

// EndFrame closes the frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}
	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// Avg returns the mean duration of one phase over the window.
func (p *PerfCollector) Avg(phase string) time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		total += p.samples[i].Phases[phase]
	}
	return total / time.Duration(p.sampleCount)
}

// FrameDurations returns the window's frame times in seconds.
func (p *PerfCollector) FrameDurations() []float64 {
	out := make([]float64, 0, p.sampleCount)
	for i := 0; i < p.sampleCount; i++ {
		out = append(out, p.samples[i].FrameDuration.Seconds())
	}
	return out
}

// SortedNames returns the known phase names in logging order.
func (p *PerfCollector) SortedNames() []string {
	return phaseOrder
}
