package geo

import "math"

// Bounds is a geographic bounding box.
type Bounds struct {
	South, North, West, East float64
}

// Contains reports whether a point lies inside the box.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// Pad grows the box by a fraction of its own span on every side, so
// particles advecting near the viewport edge still find field data.
func (b Bounds) Pad(frac float64) Bounds {
	dLat := (b.North - b.South) * frac
	dLon := (b.East - b.West) * frac
	return Bounds{
		South: math.Max(b.South-dLat, -MaxLatitude),
		North: math.Min(b.North+dLat, MaxLatitude),
		West:  b.West - dLon,
		East:  b.East + dLon,
	}
}

// Viewport is an immutable snapshot of the map transform for one frame:
// center, zoom and pixel dimensions. All conversions between geographic
// and screen space go through it.
type Viewport struct {
	CenterLat float64
	CenterLon float64
	Zoom      float64
	Width     float64
	Height    float64
}

// worldSize is the full Mercator world edge in pixels at this zoom.
func (v Viewport) worldSize() float64 {
	return tileSize * math.Exp2(v.Zoom)
}

// Project converts geographic coordinates to screen pixels.
func (v Viewport) Project(lat, lon float64) (x, y float64) {
	ws := v.worldSize()
	x = (MercatorX(lon)-MercatorX(v.CenterLon))*ws + v.Width/2
	y = (MercatorY(lat)-MercatorY(v.CenterLat))*ws + v.Height/2
	return x, y
}

// Unproject converts screen pixels back to geographic coordinates.
func (v Viewport) Unproject(x, y float64) (lat, lon float64) {
	ws := v.worldSize()
	mx := MercatorX(v.CenterLon) + (x-v.Width/2)/ws
	my := MercatorY(v.CenterLat) + (y-v.Height/2)/ws
	return InverseMercatorY(my), InverseMercatorX(mx)
}

// Bounds returns the geographic box visible in this viewport.
func (v Viewport) Bounds() Bounds {
	north, west := v.Unproject(0, 0)
	south, east := v.Unproject(v.Width, v.Height)
	return Bounds{South: south, North: north, West: west, East: east}
}

// OnScreen reports whether a pixel position lies inside the viewport.
func (v Viewport) OnScreen(x, y float64) bool {
	return x >= 0 && x <= v.Width && y >= 0 && y <= v.Height
}

// PixelDelta returns the screen-pixel shift of a fixed geographic point
// between a previous snapshot and this one. The overlay applies it to
// live particles each frame so they never swim relative to the terrain
// during a pan. Only valid while zoom is unchanged.
func (v Viewport) PixelDelta(prev Viewport) (dx, dy float64) {
	ws := v.worldSize()
	dx = (MercatorX(prev.CenterLon) - MercatorX(v.CenterLon)) * ws
	dy = (MercatorY(prev.CenterLat) - MercatorY(v.CenterLat)) * ws
	return dx, dy
}

// UV maps a screen pixel to normalized [0,1]² coordinates over a data
// bounding box, linear in longitude and in Mercator Y. Field textures
// and the dense raster share this addressing, so a naive linear-latitude
// row never sneaks in.
func (v Viewport) UV(x, y float64, b Bounds) (u, w float64, ok bool) {
	lat, lon := v.Unproject(x, y)
	u0 := MercatorX(b.West)
	u1 := MercatorX(b.East)
	w0 := MercatorY(b.North)
	w1 := MercatorY(b.South)
	if u1 <= u0 || w1 <= w0 {
		return 0, 0, false
	}
	u = (MercatorX(lon) - u0) / (u1 - u0)
	w = (MercatorY(lat) - w0) / (w1 - w0)
	if u < 0 || u > 1 || w < 0 || w > 1 {
		return u, w, false
	}
	return u, w, true
}
