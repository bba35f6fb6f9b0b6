package field

import (
	"math"

	"github.com/swellmap/windlayer/geo"
)

// Interpolator estimates a continuous wind vector from sparse samples
// by inverse-distance weighting. Samples beyond RadiusKm contribute
// nothing; a query within EpsilonKm of a sample returns that sample's
// value verbatim.
type Interpolator struct {
	samples []GridSample
	vecs    []Vector

	// Power is the IDW exponent (2 for smooth fields, 4 for sharper
	// localization around stations).
	Power float64
	// RadiusKm is the maximum search radius. Zero weight beyond it.
	RadiusKm float64
	// EpsilonKm is the exact-match distance.
	EpsilonKm float64
}

// NewInterpolator builds an interpolator over a sample set.
func NewInterpolator(samples []GridSample, power, radiusKm, epsilonKm float64) *Interpolator {
	vecs := make([]Vector, len(samples))
	for i := range samples {
		vecs[i] = samples[i].vec()
	}
	return &Interpolator{
		samples:   samples,
		vecs:      vecs,
		Power:     power,
		RadiusKm:  radiusKm,
		EpsilonKm: epsilonKm,
	}
}

// Samples returns the underlying sample set.
func (ip *Interpolator) Samples() []GridSample { return ip.samples }

// At interpolates the wind vector at a geographic point. ok is false
// when no sample lies within the search radius; callers must treat that
// as "no data here", never as a zero-velocity reading.
func (ip *Interpolator) At(lat, lon float64) (Vector, bool) {
	var sumU, sumV, sumS, sumW float64
	found := false

	for i := range ip.samples {
		s := &ip.samples[i]
		d := geo.DistanceKm(lat, lon, s.Lat, s.Lon)
		if d <= ip.EpsilonKm {
			// Directly at a station: crisp value, no blending.
			return ip.vecs[i], true
		}
		if d > ip.RadiusKm {
			continue
		}
		w := 1 / math.Pow(d, ip.Power)
		sumU += ip.vecs[i].U * w
		sumV += ip.vecs[i].V * w
		sumS += ip.vecs[i].Speed * w
		sumW += w
		found = true
	}
	if !found || sumW == 0 {
		return Vector{}, false
	}
	return Vector{U: sumU / sumW, V: sumV / sumW, Speed: sumS / sumW}, true
}
