package overlay

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/geo"
)

// HandleInput drives the built-in map camera from mouse and keyboard.
// Only used when the overlay runs standalone with a MapCamera; embedded
// behind a real map engine, the host delivers viewport changes instead.
func (o *Overlay) HandleInput(cam *geo.MapCamera) {
	o.handleResize(cam)

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		o.showSamples = !o.showSamples
	}
	if rl.IsKeyPressed(rl.KeyG) {
		o.showGrid = !o.showGrid
	}
	if rl.IsKeyPressed(rl.KeyH) {
		o.visible = !o.visible
		// A hidden overlay also discards in-flight fetch responses.
		o.store.SetActive(o.visible)
	}

	// Drag panning: the map moves with the cursor, so the camera
	// center shifts opposite to the mouse delta.
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			cam.Pan(float64(-d.X), float64(-d.Y))
		}
	}

	// Arrow key panning.
	const panStep = 8.0
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panStep)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panStep)
	}

	// Zoom: mouse wheel or +/- keys.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		cam.ZoomBy(0.8)
	}

	cam.Tick()
}

// handleResize propagates window resizes to the camera and renderers.
func (o *Overlay) handleResize(cam *geo.MapCamera) {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	cam.Resize(w, h)

	if o.trails != nil {
		o.trails.Resize(int32(w), int32(h))
	}
	if o.gpu != nil {
		o.gpu.Resize(int32(w), int32(h))
	}
}
