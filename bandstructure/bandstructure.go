/*package bandstructure discretizes a Fermi surface into the real-space
chord vectors that drive ballistic transport under a magnetic field.

In the semiclassical picture a carrier's real-space orbit is its k-space
orbit rotated a quarter turn and scaled by 1/B (hbar/e absorbed into the
field units). The surface is sampled at N points; each bin i carries the
chord from sample i to sample i+1, and a carrier traverses one chord per
free step.
*/
package bandstructure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// Bandstructure holds the discretized Fermi surface of a device.
type Bandstructure struct {
	// R is the closed real-space orbit polygon: R[N] == R[0].
	R []geom.Vec
	// Dr[i] is the chord from R[i] to R[i+1].
	Dr []geom.Vec

	Phi, Field float64
}

// New builds the band structure from a closed loop of Fermi wave vectors,
// a crystal axis angle phi (radians, relative to the device), and a
// magnetic field value. The k loop may be given open; it is closed
// automatically.
func New(k []geom.Vec, phi, field float64) (*Bandstructure, error) {
	if len(k) < 3 {
		return nil, fmt.Errorf("bandstructure: need at least 3 wave vectors, got %d", len(k))
	}
	if field == 0 {
		return nil, fmt.Errorf("bandstructure: zero magnetic field has no closed orbit")
	}

	closed := k
	if k[0] != k[len(k)-1] {
		closed = append(append([]geom.Vec{}, k...), k[0])
	}

	bs := &Bandstructure{
		R:     make([]geom.Vec, len(closed)),
		Dr:    make([]geom.Vec, len(closed)-1),
		Phi:   phi,
		Field: field,
	}

	sin, cos := math.Sin(phi), math.Cos(phi)
	for i, kv := range closed {
		// Rotate by the crystal angle, then a quarter turn clockwise and
		// scale by 1/B to map the k-space orbit to real space.
		rot := geom.Vec{cos*kv[0] - sin*kv[1], sin*kv[0] + cos*kv[1]}
		bs.R[i] = geom.Vec{rot[1] / field, -rot[0] / field}
	}
	for i := range bs.Dr {
		bs.Dr[i] = bs.R[i+1].Sub(bs.R[i])
	}
	return bs, nil
}

// N returns the number of Fermi bins.
func (bs *Bandstructure) N() int { return len(bs.Dr) }

// Point returns the surface sample reached after traversing a fraction
// 1-f of bin i's chord, i.e. the position associated with the partial
// Fermi index (i, f).
func (bs *Bandstructure) Point(i int, f float64) geom.Vec {
	return bs.R[i].Add(bs.Dr[i].Scale(1 - f))
}

// InjectionProb computes the per-bin injection distribution for a
// boundary with the given outward normal angle. A bin's weight is the
// inward-directed component of its chord; chords moving along or out of
// the boundary get zero weight. The cumulative sum is returned alongside
// for direct sampling.
func (bs *Bandstructure) InjectionProb(normalAngle float64) (in, cum []float64, err error) {
	n := geom.Vec{math.Cos(normalAngle), math.Sin(normalAngle)}

	in = make([]float64, bs.N())
	for i, dr := range bs.Dr {
		if w := -dr.Dot(n); w > 0 {
			in[i] = w
		}
	}
	total := floats.Sum(in)
	if total == 0 {
		return nil, nil, fmt.Errorf(
			"bandstructure: no Fermi chord enters against normal angle %g", normalAngle)
	}
	floats.Scale(1/total, in)

	cum = make([]float64, len(in))
	floats.CumSum(cum, in)
	return in, cum, nil
}
