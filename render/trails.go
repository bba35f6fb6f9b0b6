package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/sim"
)

// GL blend constants for the custom fade pass (rlgl passes these
// straight to glBlendFunc/glBlendEquation).
const (
	glZero     = 0
	glSrcAlpha = 0x0302
	glFuncAdd  = 0x8006
)

// TrailRenderer composites particle trails through a persistent
// off-screen buffer: each frame the buffer's alpha decays by the LOD
// fade factor, then the new segments draw on top, then the buffer is
// blitted over the map. Old positions fade exponentially instead of
// being cleared.
type TrailRenderer struct {
	trail  rl.RenderTexture2D
	width  int32
	height int32
}

// NewTrailRenderer allocates the trail buffer. Call after the raylib
// window exists.
func NewTrailRenderer(width, height int32) *TrailRenderer {
	r := &TrailRenderer{width: width, height: height}
	r.trail = rl.LoadRenderTexture(width, height)
	r.clear()
	return r
}

func (r *TrailRenderer) clear() {
	rl.BeginTextureMode(r.trail)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Resize reallocates the trail buffer for a new viewport size.
func (r *TrailRenderer) Resize(width, height int32) {
	if width == r.width && height == r.height {
		return
	}
	rl.UnloadRenderTexture(r.trail)
	r.width = width
	r.height = height
	r.trail = rl.LoadRenderTexture(width, height)
	r.clear()
}

// Draw fades the buffer, appends this frame's segments, and composites
// the result onto the screen.
func (r *TrailRenderer) Draw(pool *sim.Pool, lod sim.LODParams, speedAt func(x, y float64) (float64, bool)) {
	rl.BeginTextureMode(r.trail)

	// Decay pass: dst = dst * fade. Multiplying the existing pixels'
	// alpha by the fade factor is what keeps the overlay transparent
	// over the map; painting translucent black instead would tint it.
	rl.SetBlendFactors(glZero, glSrcAlpha, glFuncAdd)
	rl.BeginBlendMode(rl.BlendCustom)
	fade := uint8(lod.TrailFade * 255)
	rl.DrawRectangle(0, 0, r.width, r.height, rl.Color{R: fade, G: fade, B: fade, A: fade})
	rl.EndBlendMode()

	// Segment pass: previous position to current, colored by speed,
	// width modulated by speed on top of the LOD base width.
	particles := pool.Particles()
	for i := range particles {
		pt := &particles[i]
		if pt.X == pt.PrevX && pt.Y == pt.PrevY {
			continue
		}
		speed, ok := speedAt(pt.X, pt.Y)
		if !ok {
			continue
		}
		alpha := pool.Alpha(pt)
		if alpha <= 0.01 {
			continue
		}
		c := SpeedColor(speed)
		c.A = uint8(alpha * 255)
		width := float32(lod.LineWidth) * (0.7 + 0.3*float32(min1(speed/15)))
		rl.DrawLineEx(
			rl.Vector2{X: float32(pt.PrevX), Y: float32(pt.PrevY)},
			rl.Vector2{X: float32(pt.X), Y: float32(pt.Y)},
			width,
			rl.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		)
	}

	rl.EndTextureMode()

	// Composite. Render textures are y-flipped, hence negative height.
	rl.DrawTextureRec(
		r.trail.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(r.width), Height: -float32(r.height)},
		rl.Vector2{X: 0, Y: 0},
		rl.White,
	)
}

// Reset clears accumulated trails, used when the viewport jumps.
func (r *TrailRenderer) Reset() {
	r.clear()
}

// Unload frees the trail buffer.
func (r *TrailRenderer) Unload() {
	rl.UnloadRenderTexture(r.trail)
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
