/*package geom contains the two dimensional geometry used to describe
ballistic devices: boundary edges, closed device frames, and the line
intersection routines the transport code is built on.
*/
package geom

import (
	"math"
)

// LineEps is the tolerance used when deciding whether two lines are
// parallel.
var LineEps = 1e-12

// Vec is a two dimensional vector.
type Vec [2]float64

// Add returns u + v.
func (u Vec) Add(v Vec) Vec { return Vec{u[0] + v[0], u[1] + v[1]} }

// Sub returns u - v.
func (u Vec) Sub(v Vec) Vec { return Vec{u[0] - v[0], u[1] - v[1]} }

// Scale returns a*u.
func (u Vec) Scale(a float64) Vec { return Vec{a * u[0], a * u[1]} }

// Dot returns the inner product of u and v.
func (u Vec) Dot(v Vec) float64 { return u[0]*v[0] + u[1]*v[1] }

// Norm returns the Euclidean length of u.
func (u Vec) Norm() float64 { return math.Hypot(u[0], u[1]) }

// Perp returns u rotated a quarter turn counter-clockwise.
func (u Vec) Perp() Vec { return Vec{-u[1], u[0]} }

// Dist returns the Euclidean distance between u and v.
func Dist(u, v Vec) float64 { return math.Hypot(u[0]-v[0], u[1]-v[1]) }

// IntersectLines returns the intersection of the infinite lines through
// (p1, p2) and (p3, p4). ok is false when the lines are parallel or
// collinear, in which case the intersection is undefined.
//
// Follows the determinant form from
// https://en.wikipedia.org/wiki/Line-line_intersection (zero indexed).
func IntersectLines(p1, p2, p3, p4 Vec) (intr Vec, ok bool) {
	den := (p1[0]-p2[0])*(p3[1]-p4[1]) - (p1[1]-p2[1])*(p3[0]-p4[0])
	if math.Abs(den) <= LineEps {
		return Vec{}, false
	}
	a := p1[0]*p2[1] - p1[1]*p2[0]
	b := p3[0]*p4[1] - p3[1]*p4[0]
	intr[0] = (a*(p3[0]-p4[0]) - (p1[0]-p2[0])*b) / den
	intr[1] = (a*(p3[1]-p4[1]) - (p1[1]-p2[1])*b) / den
	return intr, true
}

// SegmentParams solves the parametric line-line intersection for a step
// from p1 to p2 against the segment from p3 to p4. The step crosses the
// segment when 0 <= t <= 1 and 0 <= u <= 1. ok is false for parallel
// lines.
//
// This is the single-segment reference form of the batched coefficient
// test Frame and OhmicLines run per step; the two must agree exactly.
func SegmentParams(p1, p2, p3, p4 Vec) (t, u float64, ok bool) {
	x01, y01 := p1[0]-p2[0], p1[1]-p2[1]
	x02, y02 := p1[0]-p3[0], p1[1]-p3[1]
	x23, y23 := p3[0]-p4[0], p3[1]-p4[1]

	den := x01*y23 - y01*x23
	if math.Abs(den) <= LineEps {
		return 0, 0, false
	}
	t = (x02*y23 - y02*x23) / den
	u = -(x01*y02 - y01*x02) / den
	return t, u, true
}
