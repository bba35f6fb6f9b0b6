package overlay

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/telemetry"
)

// msToKnots converts wind speed for display only; everything upstream
// of the HUD stays in m/s.
const msToKnots = 1.94384

// Draw renders the overlay for the current frame: trails (or GPU
// sprites), wave rings, debug layers, HUD. The caller owns
// BeginDrawing/EndDrawing and draws the base map first; everything here
// composites on top with normal alpha blending.
func (o *Overlay) Draw() {
	if !o.visible {
		return
	}
	vp := o.engine.Viewport()

	o.perf.Phase(telemetry.PhaseTrails)
	if o.gpu != nil {
		o.gpu.SetViewport(vp)
		o.gpu.Update(o.lastLOD, o.tuning, o.panDX, o.panDY)
		o.panDX, o.panDY = 0, 0
		o.gpu.Draw(o.lastLOD, o.speedAt(vp))
	} else if o.trails != nil {
		o.trails.Draw(o.pool, o.lastLOD, o.speedAt(vp))
	}

	o.perf.Phase(telemetry.PhaseWaves)
	samples, _, _ := o.store.Current()
	o.waves.Draw(samples, vp, o.elapsed)

	o.perf.Phase(telemetry.PhaseHUD)
	if o.showSamples {
		o.drawSampleMarkers(vp)
	}
	if o.showGrid {
		o.drawFieldBounds(vp)
	}
	o.drawHUD(vp)
}

// drawSampleMarkers shows each station with its wind speed in knots.
func (o *Overlay) drawSampleMarkers(vp geo.Viewport) {
	samples, _, _ := o.store.Current()
	for i := range samples {
		s := &samples[i]
		x, y := vp.Project(s.Lat, s.Lon)
		if !vp.OnScreen(x, y) {
			continue
		}
		rl.DrawCircle(int32(x), int32(y), 3, rl.Color{R: 255, G: 255, B: 255, A: 200})
		label := fmt.Sprintf("%.0f kn", s.WindSpeed*msToKnots)
		rl.DrawText(label, int32(x)+6, int32(y)-6, 10, rl.Color{R: 255, G: 255, B: 255, A: 160})
	}
}

// drawFieldBounds outlines the rasterized field's bounding box.
func (o *Overlay) drawFieldBounds(vp geo.Viewport) {
	if o.dense == nil {
		return
	}
	b := o.dense.Bounds
	x0, y0 := vp.Project(b.North, b.West)
	x1, y1 := vp.Project(b.South, b.East)
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0),
		rl.Color{R: 120, G: 220, B: 120, A: 120})
}

func (o *Overlay) drawHUD(vp geo.Viewport) {
	mode := "cpu"
	count := len(o.pool.Particles())
	if o.gpu != nil {
		mode = "gpu"
		count = o.lastLOD.ParticleCount
	}

	_, _, gen := o.store.Current()
	age := "-"
	if t := o.store.FetchedAt(); !t.IsZero() {
		age = time.Since(t).Round(time.Second).String()
	}

	status := fmt.Sprintf("%d fps | %s | %d particles | z%.1f | gen %d | fetched %s ago",
		rl.GetFPS(), mode, count, vp.Zoom, gen, age)
	rl.DrawText(status, 10, int32(vp.Height)-22, 12, rl.Color{R: 255, G: 255, B: 255, A: 180})
}
