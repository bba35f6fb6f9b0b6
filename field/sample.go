// Package field holds the sparse grid samples and interpolates a
// continuous wind vector field from them, either on demand (IDW) or
// through a dense rasterized grid with bilinear lookups.
package field

import "math"

// GridSample is one sparse measurement from the grid-weather
// collaborator. Wind speed is metres/second end-to-end; knots appear
// only in display formatting. Wave fields are jointly nil (open-ocean
// point without wave model coverage) or jointly present.
type GridSample struct {
	Lat          float64  `json:"latitude"`
	Lon          float64  `json:"longitude"`
	WindSpeed    float64  `json:"windSpeed"`
	WindDirDeg   float64  `json:"windDirectionDeg"`
	TemperatureC float64  `json:"temperature"`
	WaveHeightM  *float64 `json:"waveHeight,omitempty"`
	WaveDirDeg   *float64 `json:"waveDirectionDeg,omitempty"`
	WavePeriodS  *float64 `json:"wavePeriodSec,omitempty"`
}

// HasWaves reports whether the wave triple is present.
func (s *GridSample) HasWaves() bool {
	return s.WaveHeightM != nil && s.WaveDirDeg != nil && s.WavePeriodS != nil
}

// Vector is an interpolated wind value: eastward and northward
// components in m/s plus the scalar speed.
type Vector struct {
	U, V  float64
	Speed float64
}

// UV converts a meteorological direction (degrees the wind blows FROM,
// 0 = north) and speed into eastward/northward components.
func UV(speed, dirDeg float64) (u, v float64) {
	rad := dirDeg * math.Pi / 180
	return -speed * math.Sin(rad), -speed * math.Cos(rad)
}

// vec precomputes a sample's components so the rasterizer doesn't
// re-derive them per cell.
func (s *GridSample) vec() Vector {
	u, v := UV(s.WindSpeed, s.WindDirDeg)
	return Vector{U: u, V: v, Speed: s.WindSpeed}
}
