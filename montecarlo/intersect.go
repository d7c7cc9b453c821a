package montecarlo

import (
	"sort"

	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// Bias is the distance each reported intersection point is nudged back
// along the step toward its start. The next step then starts strictly
// inside the device instead of exactly on the edge it departs from. This
// is a numerical device, not a physical one; changing it must not change
// results beyond floating precision.
var Bias = 1e-10

// CornerEps is the tolerance under which the two nearest intersection
// distances of a step count as a simultaneous corner hit.
var CornerEps = 1e-12

// hit is one boundary edge crossed by a step, with the (biased) crossing
// point and its distance from the step start.
type hit struct {
	edge *geom.Edge
	p    geom.Vec
	s    float64
}

// sortedIntersections returns every edge crossed by the step from p to q,
// ordered by distance from p.
func (s *Simulation) sortedIntersections(p, q geom.Vec) []hit {
	hits := s.intersections(p, q)
	if len(hits) > 1 {
		sort.Slice(hits, func(i, j int) bool { return hits[i].s < hits[j].s })
	}
	return hits
}

// intersections runs the batched parametric test of the step against the
// frame. A crossing counts only when the carrier moves from the interior
// into the edge, i.e. with a positive component along the outward normal.
// The edge just departed fails that test (the bounced step moves back
// inward), so it is never re-detected at the step's start.
func (s *Simulation) intersections(p, q geom.Vec) []hit {
	step := q.Sub(p)
	norm := step.Norm()
	if norm == 0 {
		return nil
	}
	bias := step.Scale(Bias / norm)

	s.frame.StepParams(p, q, s.ts, s.us)

	var hits []hit
	for i, e := range s.frame.Edges {
		t, u := s.ts[i], s.us[i]
		if !(0 <= t && t <= 1 && 0 <= u && u <= 1) {
			continue
		}
		if step.Dot(e.Normal) <= 0 {
			continue
		}
		x := geom.Vec{
			e.X[0] + u*(e.X[1]-e.X[0]),
			e.Y[0] + u*(e.Y[1]-e.Y[0]),
		}
		if x == p {
			continue
		}
		x = x.Sub(bias)
		hits = append(hits, hit{edge: e, p: x, s: geom.Dist(p, x)})
	}
	return hits
}

// lineCrosses returns every auxiliary line crossed by the step from p to
// q. No normal filter and no bias: the lines only count crossings, in
// either direction, with no physical consequence.
func (s *Simulation) lineCrosses(p, q geom.Vec) []*geom.Edge {
	if len(s.lines.Lines) == 0 {
		return nil
	}
	s.lines.StepParams(p, q, s.lts, s.lus)

	var crosses []*geom.Edge
	for i, l := range s.lines.Lines {
		t, u := s.lts[i], s.lus[i]
		if 0 <= t && t <= 1 && 0 <= u && u <= 1 {
			crosses = append(crosses, l)
		}
	}
	return crosses
}

// updatePosition advances the carrier by the remaining fraction of its
// current chord and cycles the Fermi index to the next bin with a full
// chord ahead.
func (s *Simulation) updatePosition(nf FermiIndex, p geom.Vec) (FermiIndex, geom.Vec) {
	q := p.Add(s.bs.Dr[nf.I].Scale(nf.F))
	return FermiIndex{(nf.I + 1) % s.bs.N(), 1}, q
}

// nfIntersection rescales the in-bin fraction when the step from p to q
// is cut at x: the carrier keeps its bin and the untraversed part of the
// chord, which seeds the next step.
func nfIntersection(nf FermiIndex, p, x, q geom.Vec) FermiIndex {
	ratio := geom.Dist(p, x) / geom.Dist(p, q)
	return FermiIndex{nf.I, nf.F * (1 - ratio)}
}
