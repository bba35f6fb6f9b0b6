// Package render draws the particle trails, the GPU particle variant,
// and the wave rings into the transparent overlay.
package render

import "image/color"

// rampStop anchors the speed-to-color ramp at one wind speed (m/s).
type rampStop struct {
	speed float64
	c     color.RGBA
}

// Cool blue through red, monotone in perceived intensity. The exact
// stops are tuning, the ordering is not.
var rampStops = []rampStop{
	{0, color.RGBA{R: 60, G: 110, B: 230, A: 255}},   // blue
	{3, color.RGBA{R: 60, G: 190, B: 215, A: 255}},   // teal
	{6, color.RGBA{R: 80, G: 210, B: 110, A: 255}},   // green
	{9, color.RGBA{R: 230, G: 215, B: 70, A: 255}},   // yellow
	{13, color.RGBA{R: 240, G: 150, B: 50, A: 255}},  // orange
	{18, color.RGBA{R: 235, G: 65, B: 50, A: 255}},   // red
}

// SpeedColor maps a wind speed in m/s onto the ramp, blending linearly
// inside each bucket and clamping at the ends.
func SpeedColor(speed float64) color.RGBA {
	if speed <= rampStops[0].speed {
		return rampStops[0].c
	}
	last := rampStops[len(rampStops)-1]
	if speed >= last.speed {
		return last.c
	}
	for i := 0; i < len(rampStops)-1; i++ {
		lo, hi := rampStops[i], rampStops[i+1]
		if speed > hi.speed {
			continue
		}
		t := (speed - lo.speed) / (hi.speed - lo.speed)
		return color.RGBA{
			R: blend(lo.c.R, hi.c.R, t),
			G: blend(lo.c.G, hi.c.G, t),
			B: blend(lo.c.B, hi.c.B, t),
			A: 255,
		}
	}
	return last.c
}

func blend(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
