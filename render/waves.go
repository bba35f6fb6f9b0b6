package render

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/config"
	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
)

const metersToFeet = 3.28084

// ringJitter holds the per-sample animation variance. Derived from a
// stable hash of the rounded coordinates — never from global RNG state
// — so a refetch of the same stations replays the identical animation.
type ringJitter struct {
	offsetX, offsetY float64 // px
	sizeVar          float64 // 0.8..1.2
	phase            float64 // 0..1
	ringCount        int
}

// jitterFor derives the jitter values from an FNV-1a hash of the
// sample's coordinates rounded to ~11m.
func jitterFor(lat, lon float64, minRings, maxRings int) ringJitter {
	h := coordHash(lat, lon)
	j := ringJitter{}
	j.offsetX = float64(int(h&0xff)-128) / 32  // ±4 px
	j.offsetY = float64(int(h>>8&0xff)-128) / 32
	j.sizeVar = 0.8 + float64(h>>16&0xff)/255*0.4
	j.phase = float64(h>>24&0xff) / 256
	span := uint64(maxRings - minRings + 1)
	j.ringCount = minRings + int((h>>32)%span)
	return j
}

// coordHash is FNV-1a over the rounded lat/lon pair.
func coordHash(lat, lon float64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	a := int64(math.Round(lat * 1e4))
	b := int64(math.Round(lon * 1e4))
	h := uint64(offset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(a>>(i*8)) & 0xff
		h *= prime64
	}
	for i := 0; i < 8; i++ {
		h ^= uint64(b>>(i*8)) & 0xff
		h *= prime64
	}
	return h
}

// WaveRings animates expanding concentric arcs at each sample that
// carries wave data, phase-driven by the wave period.
type WaveRings struct {
	cfg config.WavesConfig
}

// NewWaveRings creates the wave ring renderer.
func NewWaveRings(cfg config.WavesConfig) *WaveRings {
	return &WaveRings{cfg: cfg}
}

// Draw renders rings for every wave-bearing sample in view. elapsed is
// the animation clock in seconds.
func (w *WaveRings) Draw(samples []field.GridSample, vp geo.Viewport, elapsed float64) {
	for i := range samples {
		s := &samples[i]
		if !s.HasWaves() {
			continue
		}
		x, y := vp.Project(s.Lat, s.Lon)
		if !vp.OnScreen(x, y) {
			continue
		}

		j := jitterFor(s.Lat, s.Lon, w.cfg.MinRings, w.cfg.MaxRings)
		cx := float32(x + j.offsetX)
		cy := float32(y + j.offsetY)

		period := *s.WavePeriodS
		if period < 1 {
			period = 1
		}
		// Longer swell period, slower ring expansion.
		cycle := elapsed/period + j.phase
		maxR := w.cfg.MaxRadiusPx * j.sizeVar * heightScale(*s.WaveHeightM)

		for k := 0; k < j.ringCount; k++ {
			prog := math.Mod(cycle+float64(k)/float64(j.ringCount), 1)
			radius := float32(prog * maxR)
			if radius < 2 {
				continue
			}
			alpha := uint8((1 - prog) * 170)
			col := rl.Color{R: 130, G: 200, B: 255, A: alpha}

			if s.WaveDirDeg != nil {
				// Arc opens toward the direction of travel; direction
				// is "coming from", compass degrees, screen 0° at +X.
				travel := *s.WaveDirDeg + 180
				start := float32(travel - 90 - w.cfg.ArcSpreadDeg/2)
				end := float32(travel - 90 + w.cfg.ArcSpreadDeg/2)
				rl.DrawRing(rl.Vector2{X: cx, Y: cy}, radius-1, radius, start, end, 24, col)
			} else {
				rl.DrawCircleLines(int32(cx), int32(cy), radius, col)
			}
		}

		label := fmt.Sprintf("%.1f ft", *s.WaveHeightM*metersToFeet)
		fs := int32(w.cfg.LabelFontSize)
		tw := rl.MeasureText(label, fs)
		rl.DrawText(label, int32(cx)-tw/2, int32(cy)-fs/2, fs, rl.Color{R: 235, G: 245, B: 255, A: 220})
	}
}

// heightScale maps wave height to a modest ring size multiplier.
func heightScale(heightM float64) float64 {
	s := 0.7 + heightM*0.15
	if s > 1.6 {
		s = 1.6
	}
	return s
}
