package geom

import (
	"fmt"
	"math/rand"
)

// batchCoeffs holds the per-segment constants of the parametric line-line
// intersection test, laid out so that a single step can be tested against
// every segment with four multiplies and a divide each.
type batchCoeffs struct {
	px0, py0 []float64 // first endpoint of each segment
	x23, y23 []float64 // first endpoint minus second endpoint
}

func makeCoeffs(edges []*Edge) batchCoeffs {
	c := batchCoeffs{
		px0: make([]float64, len(edges)),
		py0: make([]float64, len(edges)),
		x23: make([]float64, len(edges)),
		y23: make([]float64, len(edges)),
	}
	for i, e := range edges {
		c.px0[i] = e.X[0]
		c.py0[i] = e.Y[0]
		c.x23[i] = e.X[0] - e.X[1]
		c.y23[i] = e.Y[0] - e.Y[1]
	}
	return c
}

// params fills ts and us with the line parameters of the step from p to q
// against every segment. A segment is crossed when both parameters lie in
// [0, 1]. Parallel segments yield non-finite parameters, which never pass
// that test: collinear boundaries cannot be crossed transversally.
func (c *batchCoeffs) params(p, q Vec, ts, us []float64) {
	x01, y01 := p[0]-q[0], p[1]-q[1]
	for i := range c.px0 {
		x02, y02 := p[0]-c.px0[i], p[1]-c.py0[i]
		den := x01*c.y23[i] - y01*c.x23[i]
		ts[i] = (x02*c.y23[i] - y02*c.x23[i]) / den
		us[i] = -(x01*y02 - y01*x02) / den
	}
}

// Frame is the closed, counter-clockwise boundary of a device.
type Frame struct {
	Edges []*Edge
	c     batchCoeffs
}

// NewFrame builds a frame from an ordered, counter-clockwise sequence of
// edges and precomputes its intersection coefficients.
func NewFrame(edges []*Edge) *Frame {
	return &Frame{Edges: edges, c: makeCoeffs(edges)}
}

// Clone returns a deep copy of the frame. Simulations clone their input
// geometry so that per-run injection distributions never alias the
// caller's frame.
func (f *Frame) Clone() *Frame {
	edges := make([]*Edge, len(f.Edges))
	for i, e := range f.Edges {
		edges[i] = e.clone()
	}
	return NewFrame(edges)
}

// StepParams computes the intersection parameters of the step from p to q
// against every edge. ts and us must have length len(f.Edges).
func (f *Frame) StepParams(p, q Vec, ts, us []float64) {
	f.c.params(p, q, ts, us)
}

// MaxLayer returns the highest layer tag present in the frame.
func (f *Frame) MaxLayer() int {
	max := 0
	for _, e := range f.Edges {
		if e.Layer > max {
			max = e.Layer
		}
	}
	return max
}

// Contains reports whether the point p lies inside the closed boundary,
// by counting ray crossings against every edge.
func (f *Frame) Contains(p Vec) bool {
	inside := false
	for _, e := range f.Edges {
		x1, y1 := e.X[0], e.Y[0]
		x2, y2 := e.X[1], e.Y[1]
		if (y1 > p[1]) != (y2 > p[1]) {
			xCross := x1 + (p[1]-y1)/(y2-y1)*(x2-x1)
			if p[0] < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// InjectPosition draws a point uniformly along the combined length of the
// given layer's edges and returns it with its owning edge.
func (f *Frame) InjectPosition(layer int, rng *rand.Rand) (Vec, *Edge, error) {
	var total float64
	for _, e := range f.Edges {
		if e.Layer == layer {
			total += e.Length()
		}
	}
	if total == 0 {
		return Vec{}, nil, fmt.Errorf("geom: no edges with layer %d to inject from", layer)
	}

	s := rng.Float64() * total
	for _, e := range f.Edges {
		if e.Layer != layer {
			continue
		}
		l := e.Length()
		if s <= l {
			return e.P(0).Add(e.Delta().Scale(s / l)), e, nil
		}
		s -= l
	}
	// Rounding pushed s past the final edge; clamp to its far endpoint.
	for i := len(f.Edges) - 1; i >= 0; i-- {
		if f.Edges[i].Layer == layer {
			return f.Edges[i].P(1), f.Edges[i], nil
		}
	}
	panic("unreachable")
}

// OhmicLines is a set of auxiliary crossing-count segments. They share
// the Edge representation but never take part in the boundary
// branching logic; the simulation offsets their layers past every device
// layer so the two sets cannot collide in a counter map.
type OhmicLines struct {
	Lines []*Edge
	c     batchCoeffs
}

// NewOhmicLines builds the auxiliary line set and precomputes its
// intersection coefficients.
func NewOhmicLines(lines []*Edge) *OhmicLines {
	return &OhmicLines{Lines: lines, c: makeCoeffs(lines)}
}

// Clone returns a deep copy of the line set.
func (o *OhmicLines) Clone() *OhmicLines {
	lines := make([]*Edge, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = l.clone()
	}
	return NewOhmicLines(lines)
}

// OffsetLayers shifts every line's layer by base.
func (o *OhmicLines) OffsetLayers(base int) {
	for _, l := range o.Lines {
		l.Layer += base
	}
}

// StepParams computes the intersection parameters of the step from p to q
// against every line. ts and us must have length len(o.Lines).
func (o *OhmicLines) StepParams(p, q Vec, ts, us []float64) {
	o.c.params(p, q, ts, us)
}
