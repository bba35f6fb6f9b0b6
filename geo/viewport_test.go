package geo

import (
	"math"
	"testing"
)

func testViewport() Viewport {
	return Viewport{
		CenterLat: 36.95,
		CenterLon: -122.02,
		Zoom:      7,
		Width:     1280,
		Height:    800,
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	v := testViewport()

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"center", 36.95, -122.02},
		{"offset northeast", 37.4, -121.3},
		{"offset southwest", 36.2, -123.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := v.Project(tt.lat, tt.lon)
			lat, lon := v.Unproject(x, y)
			if math.Abs(lat-tt.lat) > 1e-9 || math.Abs(lon-tt.lon) > 1e-9 {
				t.Errorf("round trip (%v, %v) = (%v, %v)", tt.lat, tt.lon, lat, lon)
			}
		})
	}
}

func TestProjectCenter(t *testing.T) {
	v := testViewport()
	x, y := v.Project(v.CenterLat, v.CenterLon)
	if math.Abs(x-v.Width/2) > 1e-9 || math.Abs(y-v.Height/2) > 1e-9 {
		t.Errorf("center projects to (%v, %v), want screen center", x, y)
	}
}

func TestBoundsContainCenter(t *testing.T) {
	v := testViewport()
	b := v.Bounds()
	if !b.Contains(v.CenterLat, v.CenterLon) {
		t.Errorf("bounds %+v do not contain the center", b)
	}
	if b.North <= b.South || b.East <= b.West {
		t.Errorf("degenerate bounds %+v", b)
	}
}

func TestPixelDeltaMatchesProjection(t *testing.T) {
	prev := testViewport()
	cur := prev
	cur.CenterLon += 0.05
	cur.CenterLat -= 0.02

	// A fixed geographic point must shift by exactly PixelDelta.
	lat, lon := 36.8, -122.3
	px, py := prev.Project(lat, lon)
	cx, cy := cur.Project(lat, lon)
	dx, dy := cur.PixelDelta(prev)

	if math.Abs((cx-px)-dx) > 1e-6 || math.Abs((cy-py)-dy) > 1e-6 {
		t.Errorf("PixelDelta = (%v, %v), projection shift = (%v, %v)", dx, dy, cx-px, cy-py)
	}
}

func TestPixelDeltaZeroWhenStationary(t *testing.T) {
	v := testViewport()
	dx, dy := v.PixelDelta(v)
	if dx != 0 || dy != 0 {
		t.Errorf("stationary delta = (%v, %v)", dx, dy)
	}
}

func TestUV(t *testing.T) {
	v := testViewport()
	b := v.Bounds()

	// Screen corners map to the unit square corners of their own bounds.
	u, w, ok := v.UV(0, 0, b)
	if !ok || math.Abs(u) > 1e-9 || math.Abs(w) > 1e-9 {
		t.Errorf("top-left UV = (%v, %v, %v), want (0, 0, true)", u, w, ok)
	}
	u, w, ok = v.UV(v.Width, v.Height, b)
	if !ok || math.Abs(u-1) > 1e-9 || math.Abs(w-1) > 1e-9 {
		t.Errorf("bottom-right UV = (%v, %v, %v), want (1, 1, true)", u, w, ok)
	}

	// Outside the data box reports not-ok.
	if _, _, ok := v.UV(-500, -500, b); ok {
		t.Error("UV outside bounds reported ok")
	}
}

func TestPadClampsToMercatorCutoff(t *testing.T) {
	b := Bounds{South: 80, North: 85, West: -10, East: 10}
	p := b.Pad(0.5)
	if p.North > MaxLatitude {
		t.Errorf("padded north %v exceeds cutoff", p.North)
	}
	if p.South >= b.South {
		t.Errorf("padding did not grow south: %v", p.South)
	}
}
