package overlay

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/telemetry"
)

// BeginFrame opens perf timing for the frame; input handling is the
// first phase.
func (o *Overlay) BeginFrame() {
	o.perf.BeginFrame()
	o.perf.Phase(telemetry.PhaseInput)
}

// EndFrame closes perf timing and emits periodic stats.
func (o *Overlay) EndFrame() {
	o.perf.EndFrame()

	interval := time.Duration(o.cfg.Telemetry.LogIntervalMs) * time.Millisecond
	if interval <= 0 || time.Since(o.lastStatsLog) < interval {
		return
	}
	o.lastStatsLog = time.Now()

	stats := telemetry.ComputeFrameStats(o.perf.FrameDurations())
	_, _, gen := o.store.Current()
	vp := o.engine.Viewport()

	var fps int32
	if !o.Headless {
		fps = rl.GetFPS()
	}

	o.logger.Info("frame stats",
		"frame", o.frame,
		"fps", fps,
		"particles", len(o.pool.Particles()),
		"respawns", o.pool.Respawns,
		"zoom", vp.Zoom,
		"generation", gen,
		"frame_mean_ms", stats.MeanMs,
		"frame_p95_ms", stats.P95Ms,
	)

	o.output.Append(telemetry.FrameRow{
		Frame:       o.frame,
		FPS:         fps,
		Particles:   len(o.pool.Particles()),
		Respawns:    o.pool.Respawns,
		Zoom:        vp.Zoom,
		Generation:  gen,
		FrameMeanMs: stats.MeanMs,
		FrameP95Ms:  stats.P95Ms,
		AdvectUs:    o.perf.Avg(telemetry.PhaseAdvect).Microseconds(),
		TrailsUs:    o.perf.Avg(telemetry.PhaseTrails).Microseconds(),
	})
}
