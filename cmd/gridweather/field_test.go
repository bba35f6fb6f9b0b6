package main

import (
	"testing"
)

func TestGridDeterministicPerSeed(t *testing.T) {
	a := newSynthesizer(7).grid(36, 38, -123, -121)
	b := newSynthesizer(7).grid(36, 38, -123, -121)
	if len(a) == 0 {
		t.Fatal("empty grid")
	}
	if len(a) != len(b) {
		t.Fatalf("grid sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].WindSpeed != b[i].WindSpeed || a[i].WindDirDeg != b[i].WindDirDeg {
			t.Fatalf("point %d differs between runs with the same seed", i)
		}
	}

	c := newSynthesizer(8).grid(36, 38, -123, -121)
	same := true
	for i := range a {
		if a[i].WindSpeed != c[i].WindSpeed {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical wind fields")
	}
}

func TestGridSnapsToCoarseLattice(t *testing.T) {
	s := newSynthesizer(7)

	// Slightly wiggled bounds snap to the same lattice, so the
	// overlapping points are identical values at identical coordinates.
	a := s.grid(36.01, 37.99, -122.99, -121.01)
	b := s.grid(36.24, 37.76, -122.76, -121.24)

	byCoord := map[[2]float64]float64{}
	for _, p := range a {
		byCoord[[2]float64{p.Lat, p.Lon}] = p.WindSpeed
	}
	matched := 0
	for _, p := range b {
		if speed, ok := byCoord[[2]float64{p.Lat, p.Lon}]; ok {
			matched++
			if speed != p.WindSpeed {
				t.Fatalf("point (%v, %v) changed value between queries", p.Lat, p.Lon)
			}
		}
	}
	if matched == 0 {
		t.Error("no shared lattice points between overlapping queries")
	}
}

func TestSampleRanges(t *testing.T) {
	s := newSynthesizer(7)
	points := s.grid(30, 45, -130, -115)

	sawWaves, sawBare := false, false
	for _, p := range points {
		if p.WindSpeed < 0 || p.WindSpeed > 30 {
			t.Fatalf("wind speed %v out of range at (%v, %v)", p.WindSpeed, p.Lat, p.Lon)
		}
		if p.WindDirDeg < 0 || p.WindDirDeg >= 360 {
			t.Fatalf("direction %v out of range at (%v, %v)", p.WindDirDeg, p.Lat, p.Lon)
		}
		if p.HasWaves() {
			sawWaves = true
			if *p.WaveHeightM <= 0 || *p.WavePeriodS <= 0 {
				t.Fatalf("degenerate wave data at (%v, %v)", p.Lat, p.Lon)
			}
		} else {
			sawBare = true
			// The wave triple travels together: all present or all nil.
			if p.WaveHeightM != nil || p.WaveDirDeg != nil || p.WavePeriodS != nil {
				t.Fatalf("partial wave triple at (%v, %v)", p.Lat, p.Lon)
			}
		}
	}
	if !sawWaves || !sawBare {
		t.Errorf("field variety: waves=%v bare=%v, want both over a large box", sawWaves, sawBare)
	}
}

func TestGridCapsPointCount(t *testing.T) {
	s := newSynthesizer(7)
	points := s.grid(-80, 80, -179, 179)
	if len(points) > maxPoints {
		t.Errorf("grid returned %d points, cap is %d", len(points), maxPoints)
	}
}
