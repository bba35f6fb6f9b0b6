package render

import (
	"fmt"
	"image"
	"math/rand"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/sim"
)

// GPUParticles runs the advection on the GPU: particle positions live
// in two RGBA state textures with sub-pixel packing, a fragment shader
// update pass advects every particle in parallel each frame, and the
// textures swap current/next roles afterwards (arena of two, index
// swap — never a grown list). Positions are read back once per frame
// for the sprite pass, the pattern the flow-field readback uses.
type GPUParticles struct {
	updateShader rl.Shader

	// Ping-pong particle state. state[cur] is read, state[1-cur] is
	// written, then cur flips.
	state [2]rl.RenderTexture2D
	cur   int

	windTex    rl.Texture2D
	hasWind    bool
	windMax    float64
	fieldMin   [2]float32
	fieldSize  [2]float32
	mercOffset [2]float32
	mercScale  [2]float32

	trail rl.RenderTexture2D

	stateSize int
	capacity  int
	width     int32
	height    int32
	rng       *rand.Rand

	positions []rl.Vector2 // decoded once per frame for the sprite pass

	locWind       int32
	locWindMax    int32
	locResolution int32
	locSpeedScale int32
	locMaxStep    int32
	locDropRate   int32
	locDropBump   int32
	locRandSeed   int32
	locPanDelta   int32
	locMercOffset int32
	locMercScale  int32
	locFieldMin   int32
	locFieldSize  int32
}

// NewGPUParticles probes shader support once. A nil return with error
// means the caller should cache the failure and stay on the CPU path;
// the probe must not be repeated every frame.
func NewGPUParticles(shaderDir string, stateSize int, width, height int32, rng *rand.Rand) (*GPUParticles, error) {
	shader := rl.LoadShader("", filepath.Join(shaderDir, "particle_update.fs"))
	if !rl.IsShaderValid(shader) {
		rl.UnloadShader(shader)
		return nil, fmt.Errorf("particle update shader unavailable")
	}

	g := &GPUParticles{
		updateShader: shader,
		stateSize:    stateSize,
		capacity:     stateSize * stateSize,
		width:        width,
		height:       height,
		rng:          rng,
		positions:    make([]rl.Vector2, 0, stateSize*stateSize),
	}

	g.locWind = rl.GetShaderLocation(shader, "windTex")
	g.locWindMax = rl.GetShaderLocation(shader, "windMax")
	g.locResolution = rl.GetShaderLocation(shader, "resolution")
	g.locSpeedScale = rl.GetShaderLocation(shader, "speedScale")
	g.locMaxStep = rl.GetShaderLocation(shader, "maxStep")
	g.locDropRate = rl.GetShaderLocation(shader, "dropRate")
	g.locDropBump = rl.GetShaderLocation(shader, "dropRateBump")
	g.locRandSeed = rl.GetShaderLocation(shader, "randSeed")
	g.locPanDelta = rl.GetShaderLocation(shader, "panDelta")
	g.locMercOffset = rl.GetShaderLocation(shader, "mercOffset")
	g.locMercScale = rl.GetShaderLocation(shader, "mercScale")
	g.locFieldMin = rl.GetShaderLocation(shader, "fieldMin")
	g.locFieldSize = rl.GetShaderLocation(shader, "fieldSize")

	g.state[0] = rl.LoadRenderTexture(int32(stateSize), int32(stateSize))
	g.state[1] = rl.LoadRenderTexture(int32(stateSize), int32(stateSize))
	g.trail = rl.LoadRenderTexture(width, height)
	g.seedState()
	g.clearTrail()

	return g, nil
}

// seedState uploads uniformly random packed positions into both state
// textures.
func (g *GPUParticles) seedState() {
	img := image.NewRGBA(image.Rect(0, 0, g.stateSize, g.stateSize))
	for i := 0; i < g.capacity; i++ {
		x := uint16(g.rng.Intn(65536))
		y := uint16(g.rng.Intn(65536))
		o := i * 4
		img.Pix[o] = byte(x & 0xff)
		img.Pix[o+1] = byte(y & 0xff)
		img.Pix[o+2] = byte(x >> 8)
		img.Pix[o+3] = byte(y >> 8)
	}
	rimg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)

	for i := range g.state {
		rl.BeginTextureMode(g.state[i])
		rl.DrawTexture(tex, 0, 0, rl.White)
		rl.EndTextureMode()
	}
	rl.UnloadTexture(tex)
}

func (g *GPUParticles) clearTrail() {
	rl.BeginTextureMode(g.trail)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// SetField uploads a freshly rasterized field as the wind texture and
// records how screen space maps into it. Called once per sample-set
// generation, not per frame.
func (g *GPUParticles) SetField(df *field.DenseField, vp geo.Viewport) {
	if g.hasWind {
		rl.UnloadTexture(g.windTex)
	}
	scale := df.MaxSpeed
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, df.Width, df.Height))
	copy(img.Pix, df.EncodeRGBA(scale))
	rimg := rl.NewImageFromImage(img)
	g.windTex = rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)
	g.hasWind = true
	g.windMax = scale

	// Field texture addressing is Mercator, matching the raster rows:
	// a linear-latitude row mapping would skew east-west speeds away
	// from the equator.
	b := df.Bounds
	g.fieldMin = [2]float32{float32(geo.MercatorX(b.West)), float32(geo.MercatorY(b.North))}
	g.fieldSize = [2]float32{
		float32(geo.MercatorX(b.East) - geo.MercatorX(b.West)),
		float32(geo.MercatorY(b.South) - geo.MercatorY(b.North)),
	}
	g.SetViewport(vp)
}

// SetViewport refreshes the screen-to-Mercator mapping. Called every
// frame so panning stays glued without reseeding particles.
func (g *GPUParticles) SetViewport(vp geo.Viewport) {
	nw, ww := vp.Unproject(0, 0)
	g.mercOffset = [2]float32{float32(geo.MercatorX(ww)), float32(geo.MercatorY(nw))}
	se, ee := vp.Unproject(vp.Width, vp.Height)
	g.mercScale = [2]float32{
		float32(geo.MercatorX(ee)) - g.mercOffset[0],
		float32(geo.MercatorY(se)) - g.mercOffset[1],
	}
}

// Update runs the advection pass into the next state texture, swaps,
// and decodes positions for drawing. panDX/panDY is this frame's pixel
// shift of fixed terrain, applied to every particle before advection so
// the state texture stays glued to the map during a pan, same as the
// CPU pool.
func (g *GPUParticles) Update(lod sim.LODParams, tuning sim.Tuning, panDX, panDY float64) {
	if !g.hasWind {
		return
	}

	next := 1 - g.cur

	rl.SetShaderValueTexture(g.updateShader, g.locWind, g.windTex)
	rl.SetShaderValue(g.updateShader, g.locWindMax, []float32{float32(g.windMax)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locResolution, []float32{float32(g.width), float32(g.height)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(g.updateShader, g.locSpeedScale, []float32{float32(lod.SpeedScale)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locMaxStep, []float32{float32(tuning.MaxSpeedPx)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locDropRate, []float32{float32(tuning.BaseDropRate)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locDropBump, []float32{float32(tuning.DropRateBump)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locRandSeed, []float32{g.rng.Float32()}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.updateShader, g.locPanDelta,
		[]float32{float32(panDX) / float32(g.width), float32(panDY) / float32(g.height)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(g.updateShader, g.locMercOffset, g.mercOffset[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(g.updateShader, g.locMercScale, g.mercScale[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(g.updateShader, g.locFieldMin, g.fieldMin[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(g.updateShader, g.locFieldSize, g.fieldSize[:], rl.ShaderUniformVec2)

	rl.BeginTextureMode(g.state[next])
	rl.BeginShaderMode(g.updateShader)
	rl.DrawTextureRec(
		g.state[g.cur].Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(g.stateSize), Height: -float32(g.stateSize)},
		rl.Vector2{},
		rl.White,
	)
	rl.EndShaderMode()
	rl.EndTextureMode()

	g.cur = next
	g.readback(lod.ParticleCount)
}

// readback decodes packed positions from the current state texture.
func (g *GPUParticles) readback(count int) {
	if count > g.capacity {
		count = g.capacity
	}
	img := rl.LoadImageFromTexture(g.state[g.cur].Texture)
	defer rl.UnloadImage(img)
	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	g.positions = g.positions[:0]
	for i := 0; i < count; i++ {
		c := colors[i]
		fx := (float32(c.R) + float32(c.B)*256) / 65535
		fy := (float32(c.G) + float32(c.A)*256) / 65535
		g.positions = append(g.positions, rl.Vector2{
			X: fx * float32(g.width),
			Y: fy * float32(g.height),
		})
	}
}

// Draw fades the persistent trail texture and stamps one point sprite
// per particle, colored by local speed, then composites over the map.
func (g *GPUParticles) Draw(lod sim.LODParams, speedAt func(x, y float64) (float64, bool)) {
	rl.BeginTextureMode(g.trail)

	rl.SetBlendFactors(glZero, glSrcAlpha, glFuncAdd)
	rl.BeginBlendMode(rl.BlendCustom)
	fade := uint8(lod.TrailFade * 255)
	rl.DrawRectangle(0, 0, g.width, g.height, rl.Color{R: fade, G: fade, B: fade, A: fade})
	rl.EndBlendMode()

	size := float32(lod.LineWidth)
	if size < 1 {
		size = 1
	}
	for _, pos := range g.positions {
		speed, ok := speedAt(float64(pos.X), float64(pos.Y))
		if !ok {
			continue
		}
		c := SpeedColor(speed)
		rl.DrawRectangleV(
			rl.Vector2{X: pos.X - size/2, Y: pos.Y - size/2},
			rl.Vector2{X: size, Y: size},
			rl.Color{R: c.R, G: c.G, B: c.B, A: 230},
		)
	}
	rl.EndTextureMode()

	rl.DrawTextureRec(
		g.trail.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(g.width), Height: -float32(g.height)},
		rl.Vector2{},
		rl.White,
	)
}

// Resize reallocates the trail buffer for a new window size. Particle
// state is screen-normalized, so the state textures carry over; only
// the trail accumulation target is tied to pixel dimensions.
func (g *GPUParticles) Resize(width, height int32) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	rl.UnloadRenderTexture(g.trail)
	g.trail = rl.LoadRenderTexture(width, height)
	g.clearTrail()
}

// Reset clears trails and reseeds positions, used on zoom jumps.
func (g *GPUParticles) Reset() {
	g.seedState()
	g.clearTrail()
}

// Unload releases all GPU resources.
func (g *GPUParticles) Unload() {
	rl.UnloadShader(g.updateShader)
	rl.UnloadRenderTexture(g.state[0])
	rl.UnloadRenderTexture(g.state[1])
	rl.UnloadRenderTexture(g.trail)
	if g.hasWind {
		rl.UnloadTexture(g.windTex)
	}
}
