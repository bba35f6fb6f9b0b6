// Package geo provides Web Mercator coordinate transforms and the
// viewport abstraction shared by the field, simulation and renderer.
package geo

import "math"

// MaxLatitude is the Web Mercator latitude cutoff.
const MaxLatitude = 85.05112878

// EarthRadiusKm is the mean earth radius used for sample distances.
const EarthRadiusKm = 6371.0

// tileSize is the Web Mercator base tile edge in pixels.
const tileSize = 256.0

// ClampLat restricts a latitude to the Mercator-projectable range.
func ClampLat(lat float64) float64 {
	if lat > MaxLatitude {
		return MaxLatitude
	}
	if lat < -MaxLatitude {
		return -MaxLatitude
	}
	return lat
}

// MercatorY maps latitude (degrees) to normalized Mercator Y in [0,1],
// 0 at the north cutoff and 1 at the south cutoff.
func MercatorY(lat float64) float64 {
	rad := ClampLat(lat) * math.Pi / 180
	return 0.5 - math.Log(math.Tan(math.Pi/4+rad/2))/(2*math.Pi)
}

// InverseMercatorY maps normalized Mercator Y back to latitude degrees.
func InverseMercatorY(y float64) float64 {
	return (2*math.Atan(math.Exp((0.5-y)*2*math.Pi)) - math.Pi/2) * 180 / math.Pi
}

// MercatorX maps longitude (degrees) to normalized Mercator X in [0,1].
func MercatorX(lon float64) float64 {
	return (lon + 180) / 360
}

// InverseMercatorX maps normalized Mercator X back to longitude degrees.
func InverseMercatorX(x float64) float64 {
	return x*360 - 180
}

// Distortion returns the east-west scale factor cos(lat), clamped away
// from zero so velocity conversion never blows up near the poles.
func Distortion(lat float64) float64 {
	c := math.Cos(ClampLat(lat) * math.Pi / 180)
	if c < 0.05 {
		return 0.05
	}
	return c
}

// DistanceKm returns the approximate great-circle distance between two
// points using the equirectangular approximation. Adequate at the
// scales a single viewport covers, and an order of magnitude cheaper
// than haversine in the per-cell rasterization loop.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	midLat := (lat1 + lat2) / 2 * math.Pi / 180
	dx := (lon2 - lon1) * math.Pi / 180 * math.Cos(midLat)
	dy := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(dx*dx+dy*dy) * EarthRadiusKm
}

// MetersPerPixel returns the ground resolution at a latitude and zoom.
func MetersPerPixel(lat, zoom float64) float64 {
	return 2 * math.Pi * EarthRadiusKm * 1000 * Distortion(lat) / (tileSize * math.Exp2(zoom))
}
