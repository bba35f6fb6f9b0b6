package field

import (
	"math"
	"testing"
)

func threeStations() []GridSample {
	return []GridSample{
		{Lat: 36.0, Lon: -122.0, WindSpeed: 5, WindDirDeg: 270},
		{Lat: 36.0, Lon: -121.0, WindSpeed: 10, WindDirDeg: 270},
		{Lat: 37.0, Lon: -122.0, WindSpeed: 15, WindDirDeg: 270},
	}
}

func TestInterpolatorExactMatch(t *testing.T) {
	ip := NewInterpolator(threeStations(), 2, 300, 1.0)

	tests := []struct {
		name      string
		lat, lon  float64
		wantSpeed float64
	}{
		{"first station", 36.0, -122.0, 5},
		{"second station", 36.0, -121.0, 10},
		{"third station", 37.0, -122.0, 15},
		{"within epsilon of first", 36.005, -122.0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, ok := ip.At(tt.lat, tt.lon)
			if !ok {
				t.Fatal("At returned no data at a station")
			}
			if math.Abs(vec.Speed-tt.wantSpeed) > 1e-9 {
				t.Errorf("speed = %v, want %v", vec.Speed, tt.wantSpeed)
			}
		})
	}
}

func TestInterpolatorExactMatchAtOrigin(t *testing.T) {
	samples := []GridSample{
		{Lat: 0, Lon: 0, WindSpeed: 10, WindDirDeg: 0},
		{Lat: 0, Lon: 1, WindSpeed: 10, WindDirDeg: 90},
		{Lat: 1, Lon: 0, WindSpeed: 10, WindDirDeg: 180},
	}
	ip := NewInterpolator(samples, 2, 300, 1.0)

	vec, ok := ip.At(0, 0)
	if !ok {
		t.Fatal("no data at the origin station")
	}
	wantU, wantV := UV(10, 0)
	if vec.U != wantU || vec.V != wantV || vec.Speed != 10 {
		t.Errorf("origin value = %+v, want the first sample verbatim (u=%v v=%v)", vec, wantU, wantV)
	}
}

func TestInterpolatorBlendsBetweenStations(t *testing.T) {
	ip := NewInterpolator(threeStations(), 2, 300, 0.5)

	// Midpoint between the 5 and 10 m/s stations: equal weights.
	vec, ok := ip.At(36.0, -121.5)
	if !ok {
		t.Fatal("no data at blend point")
	}
	// The third station also contributes a little, pulling above 7.5.
	if vec.Speed < 7.5 || vec.Speed > 10 {
		t.Errorf("blended speed = %v, want in (7.5, 10)", vec.Speed)
	}
	// Westerly wind at every station: v stays ~0, u positive.
	if vec.U <= 0 || math.Abs(vec.V) > 1e-9 {
		t.Errorf("blended vector = (%v, %v), want eastward", vec.U, vec.V)
	}
}

func TestInterpolatorNoDataBeyondRadius(t *testing.T) {
	ip := NewInterpolator(threeStations(), 2, 50, 1.0)

	// ~500 km offshore: nothing in range. Must be not-ok, not calm.
	vec, ok := ip.At(36.0, -128.0)
	if ok {
		t.Errorf("At far offshore = (%+v, true), want no data", vec)
	}
	if vec.Speed != 0 || vec.U != 0 || vec.V != 0 {
		t.Errorf("no-data vector not zeroed: %+v", vec)
	}
}

func TestInterpolatorEmptySamples(t *testing.T) {
	ip := NewInterpolator(nil, 2, 300, 1.0)
	if _, ok := ip.At(36.0, -122.0); ok {
		t.Error("empty interpolator reported data")
	}
}

func TestUVComponents(t *testing.T) {
	tests := []struct {
		name   string
		speed  float64
		dirDeg float64
		wantU  float64
		wantV  float64
	}{
		{"northerly blows south", 10, 0, 0, -10},
		{"easterly blows west", 10, 90, -10, 0},
		{"southerly blows north", 10, 180, 0, 10},
		{"westerly blows east", 10, 270, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := UV(tt.speed, tt.dirDeg)
			if math.Abs(u-tt.wantU) > 1e-9 || math.Abs(v-tt.wantV) > 1e-9 {
				t.Errorf("UV(%v, %v) = (%v, %v), want (%v, %v)",
					tt.speed, tt.dirDeg, u, v, tt.wantU, tt.wantV)
			}
		})
	}
}
