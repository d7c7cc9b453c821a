package montecarlo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// refRadius is the distance from the corner at which the reference
// points of the synthetic corner edge are placed.
const refRadius = 1000.0

// scatter draws a fresh outgoing bin from the edge's injection
// distribution.
func (s *Simulation) scatter(e *geom.Edge) FermiIndex {
	return FermiIndex{e.InjectionIndex(s.rng), 1}
}

// specular picks the outgoing bin of a mirror-like reflection off e: the
// line through the current Fermi-surface point parallel to the edge
// crosses the surface polygon again, and the crossing nearest the current
// point is the reflected state. A well-formed surface always has one; the
// absence of any crossing is a fatal geometric failure.
func (s *Simulation) specular(nf FermiIndex, e *geom.Edge) (FermiIndex, error) {
	cands := s.fermiIntersections(nf, e)
	p := s.bs.Point(nf.I, nf.F)

	best := FermiIndex{I: -1}
	minDist := math.Inf(1)
	for _, c := range cands {
		if c.I == nf.I {
			continue
		}
		if d := geom.Dist(p, s.bs.R[c.I]); d < minDist {
			minDist = d
			best = c
		}
	}
	if best.I < 0 {
		return FermiIndex{}, fmt.Errorf(
			"montecarlo: no Fermi surface crossing for specular reflection off layer %d edge",
			e.Layer)
	}
	return best, nil
}

// fermiIntersections finds every Fermi-surface chord crossed by the
// infinite line through the current surface point parallel to e, each
// with the chord fraction past the crossing.
func (s *Simulation) fermiIntersections(nf FermiIndex, e *geom.Edge) []FermiIndex {
	p := s.bs.Point(nf.I, nf.F)
	q := p.Add(e.Delta())

	var out []FermiIndex
	for i := 0; i < s.bs.N(); i++ {
		a := s.bs.R[i]
		b := a.Add(s.bs.Dr[i])

		x, ok := geom.IntersectLines(a, b, p, q)
		if !ok {
			continue
		}
		if !within(x[0], a[0], b[0]) || !within(x[1], a[1], b[1]) {
			continue
		}

		// Fraction of chord i left past the crossing, taken along the
		// chord's dominant axis.
		var f float64
		if math.Abs(b[1]-a[1]) >= math.Abs(b[0]-a[0]) {
			f = 1 - (x[1]-a[1])/(b[1]-a[1])
		} else {
			f = 1 - (x[0]-a[0])/(b[0]-a[0])
		}
		out = append(out, FermiIndex{i, f})
	}
	return out
}

func within(v, a, b float64) bool {
	return (a <= v && v <= b) || (b <= v && v <= a)
}

// combinedInjectionProb merges two edges' acceptance distributions by
// pointwise product, renormalized across all bins. It approximates the
// intersection of the two acceptance cones at a corner.
func combinedInjectionProb(e0, e1 *geom.Edge) (in, cum []float64, err error) {
	in = make([]float64, len(e0.InProb))
	floats.MulTo(in, e0.InProb, e1.InProb)

	total := floats.Sum(in)
	if total == 0 {
		return nil, nil, fmt.Errorf(
			"montecarlo: disjoint acceptance cones at corner of layers %d and %d",
			e0.Layer, e1.Layer)
	}
	floats.Scale(1/total, in)

	cum = make([]float64, len(in))
	floats.CumSum(cum, in)
	return in, cum, nil
}

// cornerScatter draws a fresh bin from the combined distribution of the
// two corner edges.
func (s *Simulation) cornerScatter(e0, e1 *geom.Edge) (FermiIndex, error) {
	_, cum, err := combinedInjectionProb(e0, e1)
	if err != nil {
		return FermiIndex{}, err
	}
	return FermiIndex{geom.SampleIndex(cum, s.rng.Float64()), 1}, nil
}

// cornerSpecular reflects off a corner by building a synthetic edge that
// bisects the two physical edges and delegating to the single-edge
// specular construction. The synthetic edge runs through the true
// intersection point of the two edge lines, perpendicular to the median
// toward the midpoint of two equidistant reference points, one per edge,
// each chosen on the side facing the incoming carrier.
func (s *Simulation) cornerSpecular(nf FermiIndex, e0, e1 *geom.Edge, layer int) (FermiIndex, error) {
	corner, ok := geom.IntersectLines(e0.P(0), e0.P(1), e1.P(0), e1.P(1))
	if !ok {
		return FermiIndex{}, fmt.Errorf(
			"montecarlo: parallel edges of layers %d and %d cannot form a corner",
			e0.Layer, e1.Layer)
	}

	cur := s.bs.R[nf.I]
	a := refPoint(corner, e0, cur)
	b := refPoint(corner, e1, cur)

	mid := a.Add(b).Scale(0.5)
	d := mid.Sub(corner)
	if d.Norm() == 0 {
		return FermiIndex{}, fmt.Errorf("montecarlo: degenerate corner bisector")
	}

	t := d.Perp().Scale(refRadius / d.Norm())
	virtual := geom.NewEdge(
		corner[0]-t[0], corner[1]-t[1],
		corner[0]+t[0], corner[1]+t[1],
		layer,
	)
	return s.specular(nf, virtual)
}

// refPoint places a point at refRadius from the corner along e's line,
// on whichever side is nearer the carrier's Fermi point cur.
func refPoint(corner geom.Vec, e *geom.Edge, cur geom.Vec) geom.Vec {
	// Anchor on the endpoint farther from the corner so the direction is
	// well defined even when the corner is one of e's endpoints.
	anchor := e.P(0)
	if geom.Dist(corner, e.P(1)) > geom.Dist(corner, anchor) {
		anchor = e.P(1)
	}

	shift := corner.Sub(anchor).Scale(refRadius / geom.Dist(corner, anchor))
	plus, minus := corner.Add(shift), corner.Sub(shift)
	if geom.Dist(cur, plus) <= geom.Dist(cur, minus) {
		return plus
	}
	return minus
}
