// Package overlay orchestrates the wind layer: one frame callback
// drives store refresh, field rasterization, particle advection and
// drawing, in that order, against a map-engine viewport snapshot.
package overlay

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/swellmap/windlayer/config"
	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/render"
	"github.com/swellmap/windlayer/sim"
	"github.com/swellmap/windlayer/store"
	"github.com/swellmap/windlayer/telemetry"
)

// boundsPad widens fetch bounds beyond the viewport so particles near
// the edge still have data, and small pans stay within the fetched box.
const boundsPad = 0.25

// Overlay owns one visualization instance: the particle pool and trail
// buffer are exclusively its own, never shared across instances.
type Overlay struct {
	engine geo.MapEngine
	store  *store.Store
	logger *slog.Logger
	cfg    *config.Config

	lodCtl *sim.LOD
	pool   *sim.Pool
	tuning sim.Tuning

	trails *render.TrailRenderer
	gpu    *render.GPUParticles
	waves  *render.WaveRings

	// gpuProbed caches the one-time capability check; a failed probe
	// is never retried per frame.
	gpuProbed bool

	interp        *field.Interpolator
	dense         *field.DenseField
	fieldGen      uint64
	fieldRadiusKm float64

	prevView geo.Viewport
	haveView bool

	// panDX/panDY is this frame's terrain pixel shift, consumed by the
	// GPU pass in Draw (the CPU pool takes it directly in Update).
	panDX, panDY float64

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	rng          *rand.Rand
	frame        int64
	elapsed      float64
	lastLOD      sim.LODParams
	lastStatsLog time.Time

	// Headless disables every raylib call; the settle/fetch/advect
	// loop still runs for soak tests.
	Headless bool

	visible     bool
	showSamples bool
	showGrid    bool

	unsubMoveEnd func()
}

// New wires an overlay to a map engine and a sample store. Renderers
// are created later by InitRenderers, once a GL context exists.
func New(engine geo.MapEngine, st *store.Store, cfg *config.Config, rng *rand.Rand, logger *slog.Logger, output *telemetry.OutputManager) *Overlay {
	o := &Overlay{
		engine: engine,
		store:  st,
		logger: logger,
		cfg:    cfg,
		lodCtl: sim.NewLOD(cfg.LOD),
		rng:    rng,
		tuning: sim.Tuning{
			MaxSpeedPx:   cfg.Particles.MaxSpeedPx,
			BaseDropRate: cfg.Particles.BaseDropRate,
			DropRateBump: cfg.Particles.DropRateBump,
			FadeFrames:   cfg.Particles.FadeFrames,
			AgeJitter:    cfg.Particles.AgeJitter,
		},
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow, cfg.Screen.TargetFPS),
		output:  output,
		visible: true,
	}
	o.pool = sim.NewPool(rng, o.tuning)
	o.waves = render.NewWaveRings(cfg.Waves)

	// Fetches fire on settled viewports only; the store's debounce
	// coalesces whatever movement bursts still get through.
	o.unsubMoveEnd = engine.OnMoveEnd(func() {
		vp := engine.Viewport()
		o.store.Poke(vp.Bounds().Pad(boundsPad), vp.Zoom)
	})

	return o
}

// InitRenderers probes the GPU path once and allocates the trail
// buffer. Must run after the raylib window exists; skipped entirely in
// headless mode.
func (o *Overlay) InitRenderers() {
	vp := o.engine.Viewport()
	w, h := int32(vp.Width), int32(vp.Height)

	o.trails = render.NewTrailRenderer(w, h)

	if o.cfg.GPU.Enabled && !o.gpuProbed {
		gpu, err := render.NewGPUParticles(o.cfg.GPU.ShaderDir, o.cfg.GPU.StateTextureSize, w, h, o.rng)
		if err != nil {
			// Worst acceptable failure mode is fewer particles, not a
			// blank overlay.
			o.logger.Warn("GPU particle path unavailable, using CPU trails", "error", err)
		} else {
			o.gpu = gpu
		}
	}
	o.gpuProbed = true
}

// GPUActive reports which path renders this instance.
func (o *Overlay) GPUActive() bool { return o.gpu != nil }

// Kickstart requests the first fetch for the initial viewport.
func (o *Overlay) Kickstart() {
	vp := o.engine.Viewport()
	o.store.Poke(vp.Bounds().Pad(boundsPad), vp.Zoom)
}

// Update advances simulation state by one frame. dt is the frame time
// in seconds, used only for the wave animation clock.
func (o *Overlay) Update(dt float64) {
	o.frame++
	o.elapsed += dt

	vp := o.engine.Viewport()
	lod := o.lodCtl.Params(vp.Zoom)

	o.perf.Phase(telemetry.PhaseStore)
	o.refreshField(lod)

	o.perf.Phase(telemetry.PhaseAdvect)
	zoomChanged := o.haveView && vp.Zoom != o.prevView.Zoom

	var panDX, panDY float64
	if o.haveView && !zoomChanged {
		panDX, panDY = vp.PixelDelta(o.prevView)
	}
	o.panDX, o.panDY = panDX, panDY
	if zoomChanged && o.trails != nil {
		// Zoom rescales the whole field; stale trails would smear at
		// the wrong scale. The pool itself survives (resize only).
		o.trails.Reset()
		if o.gpu != nil {
			o.gpu.Reset()
		}
	}

	particleTarget := lod.ParticleCount
	if o.gpu == nil && o.gpuProbed && o.cfg.GPU.Enabled {
		particleTarget = int(float64(particleTarget) * o.cfg.GPU.FallbackParticleScale)
	}

	if o.gpu == nil {
		o.pool.Resize(particleTarget, vp, lod.MaxParticleAge)
		o.pool.Step(vp, o.sampleAt(vp), lod, panDX, panDY)
	}

	o.prevView = vp
	o.haveView = true
	o.lastLOD = lod
}

// refreshField rebuilds the interpolator and dense raster when a new
// sample generation landed or the LOD radius moved materially. The
// rebuild runs here, on the frame after the async fetch resolved —
// never synchronously inside a pan gesture handler.
func (o *Overlay) refreshField(lod sim.LODParams) {
	samples, bounds, gen := o.store.Current()
	if len(samples) == 0 {
		return
	}
	radiusDrift := math.Abs(lod.InterpRadiusKm-o.fieldRadiusKm) > o.fieldRadiusKm*0.2
	if gen == o.fieldGen && !radiusDrift {
		return
	}

	o.perf.Phase(telemetry.PhaseRasterize)
	o.interp = field.NewInterpolator(samples, o.cfg.Field.IDWPower, lod.InterpRadiusKm, o.cfg.Field.EpsilonKm)
	o.dense = field.Rasterize(o.interp, bounds, o.cfg.Field.DenseWidth, o.cfg.Field.DenseHeight)
	o.fieldGen = gen
	o.fieldRadiusKm = lod.InterpRadiusKm

	if o.gpu != nil {
		o.gpu.SetField(o.dense, o.engine.Viewport())
	}
	o.logger.Debug("dense field rebuilt",
		"generation", gen, "samples", len(samples), "radius_km", lod.InterpRadiusKm)
}

// sampleAt adapts the dense field to the pool's screen-space sampler,
// folding in the Mercator distortion so a given wind speed covers the
// right number of pixels at any latitude.
func (o *Overlay) sampleAt(vp geo.Viewport) sim.SampleFunc {
	return func(x, y float64) (field.Vector, float64, bool) {
		if o.dense == nil {
			return field.Vector{}, 0, false
		}
		u, w, ok := vp.UV(x, y, o.dense.Bounds)
		if !ok {
			return field.Vector{}, 0, false
		}
		vec, ok := o.dense.Sample(u, w)
		if !ok {
			return field.Vector{}, 0, false
		}
		lat, _ := vp.Unproject(x, y)
		vec.Speed /= geo.Distortion(lat)
		return vec, o.dense.MaxSpeed, true
	}
}

// speedAt reports the raw field speed at a screen position, for
// coloring.
func (o *Overlay) speedAt(vp geo.Viewport) func(x, y float64) (float64, bool) {
	return func(x, y float64) (float64, bool) {
		if o.dense == nil {
			return 0, false
		}
		u, w, ok := vp.UV(x, y, o.dense.Bounds)
		if !ok {
			return 0, false
		}
		vec, ok := o.dense.Sample(u, w)
		if !ok {
			return 0, false
		}
		return vec.Speed, true
	}
}

// Close releases subscriptions and renderer resources.
func (o *Overlay) Close() {
	if o.unsubMoveEnd != nil {
		o.unsubMoveEnd()
	}
	if o.trails != nil {
		o.trails.Unload()
	}
	if o.gpu != nil {
		o.gpu.Unload()
	}
}
