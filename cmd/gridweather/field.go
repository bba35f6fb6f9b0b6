package main

import (
	"math"

	"github.com/swellmap/windlayer/field"
)

const (
	gridStepDeg = 0.5
	maxPoints   = 4096
)

// synthesizer produces deterministic weather grids from layered noise.
// The same seed and query bounds always yield the same samples, so the
// overlay's dedup and staleness logic can be exercised against it.
type synthesizer struct {
	wind  *perlin
	dir   *perlin
	temp  *perlin
	waves *perlin
}

func newSynthesizer(seed int64) *synthesizer {
	return &synthesizer{
		wind:  newPerlin(seed),
		dir:   newPerlin(seed + 1),
		temp:  newPerlin(seed + 2),
		waves: newPerlin(seed + 3),
	}
}

func snap(v, step float64, up bool) float64 {
	if up {
		return math.Ceil(v/step) * step
	}
	return math.Floor(v/step) * step
}

// grid evaluates samples on a coarse lattice snapped to gridStepDeg so
// that slightly different query bounds return identical points.
func (s *synthesizer) grid(south, north, west, east float64) []field.GridSample {
	south = snap(south, gridStepDeg, false)
	west = snap(west, gridStepDeg, false)
	north = snap(north, gridStepDeg, true)
	east = snap(east, gridStepDeg, true)

	var out []field.GridSample
	for lat := south; lat <= north+1e-9; lat += gridStepDeg {
		for lon := west; lon <= east+1e-9; lon += gridStepDeg {
			if len(out) >= maxPoints {
				return out
			}
			out = append(out, s.sample(lat, lon))
		}
	}
	return out
}

func (s *synthesizer) sample(lat, lon float64) field.GridSample {
	nx := lon * 0.08
	ny := lat * 0.08

	// Two octaves for speed, one broad octave for direction so the
	// flow stays coherent across neighbouring cells.
	speedNoise := s.wind.noise2D(nx, ny)*0.7 + s.wind.noise2D(nx*3, ny*3)*0.3
	speed := 4 + 9*(speedNoise*0.5+0.5)

	dirNoise := s.dir.noise2D(nx*0.5, ny*0.5)
	dir := math.Mod(dirNoise*360+720, 360)

	tempNoise := s.temp.noise2D(nx*0.6, ny*0.6)
	temp := 14 + 10*tempNoise - 0.2*math.Abs(lat)

	gs := field.GridSample{
		Lat:          lat,
		Lon:          lon,
		WindSpeed:    round1(speed),
		WindDirDeg:   round1(dir),
		TemperatureC: round1(temp),
	}

	// Wave data only where the wave channel runs high, standing in
	// for coastal cells. The three fields travel together.
	waveNoise := s.waves.noise2D(lon*0.25, lat*0.25)
	if waveNoise > 0.1 {
		h := round1(0.5 + 2.5*(waveNoise-0.1)/0.9)
		d := round1(math.Mod(dir+150+60*waveNoise, 360))
		p := round1(6 + 8*(waveNoise*0.5+0.5))
		gs.WaveHeightM = &h
		gs.WaveDirDeg = &d
		gs.WavePeriodS = &p
	}
	return gs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
