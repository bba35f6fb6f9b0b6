package field

import (
	"math"

	"github.com/swellmap/windlayer/geo"
)

// DenseField is a regular W×H raster of interpolated wind vectors
// covering a geographic bounding box. Rows are uniform in Mercator Y
// (not latitude), matching how the GPU texture addresses the field, so
// the CPU and shader paths sample identical data. Built once per
// sample-set generation; read-only afterwards.
type DenseField struct {
	Width, Height int
	Bounds        geo.Bounds

	u     []float64
	v     []float64
	speed []float64
	valid []bool

	// MaxSpeed is the largest cell speed, used to normalize colors.
	MaxSpeed float64
}

// Rasterize evaluates the interpolator at every cell center. Cells with
// no in-range sample stay masked invalid rather than zero, keeping calm
// wind distinguishable from missing data.
func Rasterize(ip *Interpolator, b geo.Bounds, width, height int) *DenseField {
	df := &DenseField{
		Width:  width,
		Height: height,
		Bounds: b,
		u:      make([]float64, width*height),
		v:      make([]float64, width*height),
		speed:  make([]float64, width*height),
		valid:  make([]bool, width*height),
	}

	y0 := geo.MercatorY(b.North)
	y1 := geo.MercatorY(b.South)
	for row := 0; row < height; row++ {
		fy := (float64(row) + 0.5) / float64(height)
		lat := geo.InverseMercatorY(y0 + fy*(y1-y0))
		for col := 0; col < width; col++ {
			fx := (float64(col) + 0.5) / float64(width)
			lon := b.West + fx*(b.East-b.West)

			vec, ok := ip.At(lat, lon)
			if !ok {
				continue
			}
			i := row*width + col
			df.u[i] = vec.U
			df.v[i] = vec.V
			df.speed[i] = vec.Speed
			df.valid[i] = true
			if vec.Speed > df.MaxSpeed {
				df.MaxSpeed = vec.Speed
			}
		}
	}
	return df
}

// Sample bilinearly interpolates the raster at normalized (u,w) in
// [0,1]². ok is false outside the raster or where any contributing cell
// is masked invalid.
func (df *DenseField) Sample(u, w float64) (Vector, bool) {
	// Bilinear lookup needs a 2x2 neighborhood.
	if df.Width < 2 || df.Height < 2 {
		return Vector{}, false
	}
	if u < 0 || u > 1 || w < 0 || w > 1 {
		return Vector{}, false
	}

	// Cell-center addressing: cell i's center sits at (i+0.5)/N of the
	// box, so box-normalized uv maps to raster index u*N - 0.5.
	fx := u*float64(df.Width) - 0.5
	fy := w*float64(df.Height) - 0.5
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	x0 := int(fx)
	y0 := int(fy)
	if x0 >= df.Width-1 {
		x0 = df.Width - 2
		fx = float64(df.Width - 1)
	}
	if y0 >= df.Height-1 {
		y0 = df.Height - 2
		fy = float64(df.Height - 1)
	}
	tx := clamp01(fx - float64(x0))
	ty := clamp01(fy - float64(y0))

	i00 := y0*df.Width + x0
	i10 := i00 + 1
	i01 := i00 + df.Width
	i11 := i01 + 1
	if !df.valid[i00] || !df.valid[i10] || !df.valid[i01] || !df.valid[i11] {
		return Vector{}, false
	}

	lerp2 := func(vals []float64) float64 {
		top := vals[i00]*(1-tx) + vals[i10]*tx
		bot := vals[i01]*(1-tx) + vals[i11]*tx
		return top*(1-ty) + bot*ty
	}
	return Vector{
		U:     lerp2(df.u),
		V:     lerp2(df.v),
		Speed: lerp2(df.speed),
	}, true
}

// EncodeRGBA packs the raster into 8-bit RGBA texels for upload as a
// GPU texture: R,G carry u,v mapped from [-scale, scale] to [0,255],
// B carries normalized speed, A is 255 for valid cells and 0 for
// masked ones so the shader can detect no-data.
func (df *DenseField) EncodeRGBA(scale float64) []byte {
	out := make([]byte, df.Width*df.Height*4)
	for i := 0; i < df.Width*df.Height; i++ {
		o := i * 4
		if !df.valid[i] {
			continue
		}
		out[o] = packSigned(df.u[i], scale)
		out[o+1] = packSigned(df.v[i], scale)
		norm := 0.0
		if df.MaxSpeed > 0 {
			norm = df.speed[i] / df.MaxSpeed
		}
		out[o+2] = byte(math.Round(clamp01(norm) * 255))
		out[o+3] = 255
	}
	return out
}

func packSigned(val, scale float64) byte {
	n := clamp01(val/(2*scale) + 0.5)
	return byte(math.Round(n * 255))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
