package montecarlo

import (
	"fmt"

	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// stepPosition advances a carrier by one free step and resolves whatever
// boundary it meets. It returns the waypoints produced by the step, the
// auxiliary lines crossed, and whether the trajectory ended (grounded
// absorption, or an error-tagged waypoint in debug mode).
func (s *Simulation) stepPosition(nf FermiIndex, p geom.Vec) (steps []Waypoint, crosses []*geom.Edge, terminal bool, err error) {
	if s.debugCheck(nf, p) {
		return []Waypoint{{NF: nf, X: p[0], Y: p[1], State: ErrorState}}, nil, true, nil
	}

	nfNew, q := s.updatePosition(nf, p)

	hits := s.sortedIntersections(p, q)
	crosses = s.lineCrosses(p, q)

	switch {
	case len(hits) == 0:
		steps = []Waypoint{{NF: nfNew, X: q[0], Y: q[1], State: Propagate}}
	case len(hits) == 1 || hits[1].s-hits[0].s > CornerEps:
		steps, terminal, err = s.branchSingle(nf, p, q, hits[0])
	default:
		steps, terminal, err = s.branchCorner(nf, p, q, hits[0], hits[1])
	}
	return steps, crosses, terminal, err
}

// branchSingle resolves a step truncated at one boundary edge.
func (s *Simulation) branchSingle(nf FermiIndex, p, q geom.Vec, h hit) ([]Waypoint, bool, error) {
	nfInt := nfIntersection(nf, p, h.p, q)

	switch h.edge.Kind() {
	case geom.DeviceBoundary:
		steps := []Waypoint{{NF: nfInt, X: h.p[0], Y: h.p[1], State: Collision, Edge: h.edge}}
		wp, err := s.bounce(nfInt, h)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil

	case geom.GroundedContact:
		if s.rng.Float64() < s.p.POhmicAbsorb {
			wp := Waypoint{NF: nfInt, X: h.p[0], Y: h.p[1], State: Absorbed, Edge: h.edge}
			return []Waypoint{wp}, true, nil
		}
		steps := []Waypoint{{NF: nfInt, X: h.p[0], Y: h.p[1], State: Collision}}
		wp, err := s.bounce(nfInt, h)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil

	case geom.FloatingContact:
		if s.rng.Float64() < s.p.POhmicAbsorb {
			steps := []Waypoint{{NF: nfInt, X: h.p[0], Y: h.p[1], State: Absorbed, Edge: h.edge}}
			wp, err := s.reinject(h.edge.Layer)
			if err != nil {
				return nil, false, err
			}
			return append(steps, wp), false, nil
		}
		steps := []Waypoint{{NF: nfInt, X: h.p[0], Y: h.p[1], State: Collision}}
		wp, err := s.bounce(nfInt, h)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil
	}
	return nil, false, fmt.Errorf("montecarlo: unclassifiable layer %d", h.edge.Layer)
}

// branchCorner resolves a step whose two nearest crossings coincide: two
// edges meeting at a vertex. The higher-layer edge is the counted one and
// decides the branching; the other contributes only to the combined
// corner physics.
func (s *Simulation) branchCorner(nf FermiIndex, p, q geom.Vec, h0, h1 hit) ([]Waypoint, bool, error) {
	nfInt := nfIntersection(nf, p, h0.p, q)

	counted := h0.edge
	if h1.edge.Layer > h0.edge.Layer {
		counted = h1.edge
	}

	switch counted.Kind() {
	case geom.DeviceBoundary:
		steps := []Waypoint{{NF: nfInt, X: h0.p[0], Y: h0.p[1], State: CornerCollision, Edge: counted}}
		wp, err := s.cornerBounce(nf, h0, h1, counted.Layer)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil

	case geom.GroundedContact:
		if s.rng.Float64() < s.p.POhmicAbsorb {
			wp := Waypoint{NF: nfInt, X: h0.p[0], Y: h0.p[1], State: CornerAbsorbed, Edge: counted}
			return []Waypoint{wp}, true, nil
		}
		steps := []Waypoint{{NF: nfInt, X: h0.p[0], Y: h0.p[1], State: CornerCollision}}
		wp, err := s.cornerBounce(nf, h0, h1, counted.Layer)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil

	case geom.FloatingContact:
		if s.rng.Float64() < s.p.POhmicAbsorb {
			steps := []Waypoint{{NF: nfInt, X: h0.p[0], Y: h0.p[1], State: CornerAbsorbed, Edge: counted}}
			wp, err := s.reinject(counted.Layer)
			if err != nil {
				return nil, false, err
			}
			return append(steps, wp), false, nil
		}
		steps := []Waypoint{{NF: nfInt, X: h0.p[0], Y: h0.p[1], State: CornerCollision}}
		wp, err := s.cornerBounce(nf, h0, h1, counted.Layer)
		if err != nil {
			return nil, false, err
		}
		return append(steps, wp), false, nil
	}
	return nil, false, fmt.Errorf("montecarlo: unclassifiable layer %d", counted.Layer)
}

// bounce draws the scatter-vs-reflect Bernoulli for a single edge and
// produces the outgoing waypoint. The waypoint carries no edge: the
// crossing was already booked by the collision record.
func (s *Simulation) bounce(nfInt FermiIndex, h hit) (Waypoint, error) {
	if s.rng.Float64() < s.p.PScatter {
		nf := s.scatter(h.edge)
		return Waypoint{NF: nf, X: h.p[0], Y: h.p[1], State: Scatter}, nil
	}
	nf, err := s.specular(nfInt, h.edge)
	if err != nil {
		return Waypoint{}, err
	}
	return Waypoint{NF: nf, X: h.p[0], Y: h.p[1], State: Reflect}, nil
}

// cornerBounce is bounce for a corner hit, combining both edges.
func (s *Simulation) cornerBounce(nf FermiIndex, h0, h1 hit, layer int) (Waypoint, error) {
	if s.rng.Float64() < s.p.PScatter {
		nfNew, err := s.cornerScatter(h0.edge, h1.edge)
		if err != nil {
			return Waypoint{}, err
		}
		return Waypoint{NF: nfNew, X: h0.p[0], Y: h0.p[1], State: CornerScatter}, nil
	}
	nfNew, err := s.cornerSpecular(nf, h0.edge, h1.edge, layer)
	if err != nil {
		return Waypoint{}, err
	}
	return Waypoint{NF: nfNew, X: h0.p[0], Y: h0.p[1], State: CornerReflect}, nil
}

// reinject places an absorbed carrier back on the given floating contact
// layer, sampling the entry point and bin from that layer's injection
// distribution.
func (s *Simulation) reinject(layer int) (Waypoint, error) {
	pos, edge, err := s.frame.InjectPosition(layer, s.rng)
	if err != nil {
		return Waypoint{}, err
	}
	nf := FermiIndex{edge.InjectionIndex(s.rng), 1}
	return Waypoint{NF: nf, X: pos[0], Y: pos[1], State: Injecting}, nil
}
