package geo

import (
	"math"
	"testing"
)

func TestMercatorYRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
	}{
		{"equator", 0},
		{"santa cruz", 36.95},
		{"southern ocean", -55.3},
		{"near north cutoff", 84.9},
		{"near south cutoff", -84.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InverseMercatorY(MercatorY(tt.lat))
			if math.Abs(got-tt.lat) > 1e-9 {
				t.Errorf("round trip of %v = %v", tt.lat, got)
			}
		})
	}
}

func TestMercatorYEquator(t *testing.T) {
	if y := MercatorY(0); math.Abs(y-0.5) > 1e-12 {
		t.Errorf("MercatorY(0) = %v, want 0.5", y)
	}
}

func TestMercatorYClampsBeyondCutoff(t *testing.T) {
	if y := MercatorY(89.9); math.Abs(y-MercatorY(MaxLatitude)) > 1e-12 {
		t.Errorf("MercatorY(89.9) = %v, want cutoff value %v", y, MercatorY(MaxLatitude))
	}
	if y := MercatorY(-89.9); math.Abs(y-MercatorY(-MaxLatitude)) > 1e-12 {
		t.Errorf("MercatorY(-89.9) = %v, want cutoff value %v", y, MercatorY(-MaxLatitude))
	}
}

func TestMercatorXRoundTrip(t *testing.T) {
	for _, lon := range []float64{-179.5, -122.02, 0, 45.1, 179.5} {
		got := InverseMercatorX(MercatorX(lon))
		if math.Abs(got-lon) > 1e-9 {
			t.Errorf("round trip of %v = %v", lon, got)
		}
	}
}

func TestDistortion(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		want float64
	}{
		{"equator", 0, 1.0},
		{"60 degrees", 60, 0.5},
		{"near pole clamps", 89.9, 0.05},
		{"cutoff clamps", MaxLatitude, 0.086},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distortion(tt.lat)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Distortion(%v) = %v, want %v", tt.lat, got, tt.want)
			}
		})
	}
}

func TestDistortionNeverBelowFloor(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 0.5 {
		if d := Distortion(lat); d < 0.05 {
			t.Fatalf("Distortion(%v) = %v, below floor", lat, d)
		}
	}
}

func TestDistanceKm(t *testing.T) {
	// One degree of latitude is ~111.2 km regardless of longitude.
	d := DistanceKm(36.0, -122.0, 37.0, -122.0)
	if math.Abs(d-111.2) > 1.0 {
		t.Errorf("1 degree lat = %v km, want ~111.2", d)
	}

	// One degree of longitude shrinks with cos(lat).
	dEq := DistanceKm(0, 0, 0, 1)
	dMid := DistanceKm(60, 0, 60, 1)
	if math.Abs(dMid/dEq-0.5) > 0.01 {
		t.Errorf("longitude distance ratio at 60N = %v, want ~0.5", dMid/dEq)
	}
}

func TestMetersPerPixelHalvesPerZoom(t *testing.T) {
	a := MetersPerPixel(36.95, 7)
	b := MetersPerPixel(36.95, 8)
	if math.Abs(a/b-2.0) > 1e-9 {
		t.Errorf("mpp ratio between zooms = %v, want 2", a/b)
	}
}
