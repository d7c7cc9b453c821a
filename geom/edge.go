package geom

import (
	"math"
	"math/rand"
	"sort"
)

// Layer numbering convention for device boundaries. Layer 0 is the
// etched device boundary, layer 2 the grounded ohmic contact, and every
// other positive layer a floating ohmic contact (including the injector,
// conventionally layer 1).
const (
	DeviceLayer = 0
	GroundLayer = 2
)

// LayerKind classifies a boundary layer for the transport branching
// logic.
type LayerKind int

const (
	// DeviceBoundary scatters or reflects, never absorbs.
	DeviceBoundary LayerKind = iota
	// GroundedContact may permanently absorb a carrier.
	GroundedContact
	// FloatingContact may absorb a carrier and re-emit it elsewhere on
	// the same layer.
	FloatingContact
)

// ClassifyLayer maps a layer tag onto its boundary kind.
func ClassifyLayer(layer int) LayerKind {
	switch layer {
	case DeviceLayer:
		return DeviceBoundary
	case GroundLayer:
		return GroundedContact
	default:
		return FloatingContact
	}
}

// Edge is a directed boundary segment of a device. Its outward normal
// points away from the device interior, which requires the enclosing
// frame to list its edges counter-clockwise.
type Edge struct {
	X, Y [2]float64

	Normal      Vec
	NormalAngle float64
	Layer       int

	// Injection probability per Fermi bin and its cumulative sum. Set
	// once by the simulation at construction, read-only afterwards.
	InProb, CumProb []float64
}

// NewEdge creates the edge from (x1, y1) to (x2, y2) with the given
// layer tag. The two endpoints must be distinct.
func NewEdge(x1, y1, x2, y2 float64, layer int) *Edge {
	dx, dy := x2-x1, y2-y1
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		panic("Cannot make an edge between a point and itself.")
	}
	e := &Edge{
		X:     [2]float64{x1, x2},
		Y:     [2]float64{y1, y2},
		Layer: layer,
	}
	// Right-hand normal: outward for counter-clockwise frames.
	e.Normal = Vec{dy / norm, -dx / norm}
	e.NormalAngle = math.Atan2(e.Normal[1], e.Normal[0])
	return e
}

// P returns endpoint i as a vector.
func (e *Edge) P(i int) Vec { return Vec{e.X[i], e.Y[i]} }

// Delta returns the vector from the first endpoint to the second.
func (e *Edge) Delta() Vec { return Vec{e.X[1] - e.X[0], e.Y[1] - e.Y[0]} }

// Length returns the edge length.
func (e *Edge) Length() float64 { return e.Delta().Norm() }

// Kind returns the branching classification of the edge's layer.
func (e *Edge) Kind() LayerKind { return ClassifyLayer(e.Layer) }

// SetInjectionProb attaches the per-bin injection distribution computed
// for this edge's orientation. cum must be the cumulative sum of in.
func (e *Edge) SetInjectionProb(in, cum []float64) {
	e.InProb, e.CumProb = in, cum
}

// InjectionIndex draws a Fermi bin from the edge's cumulative injection
// distribution.
func (e *Edge) InjectionIndex(rng *rand.Rand) int {
	return SampleIndex(e.CumProb, rng.Float64())
}

// SampleIndex inverts a cumulative distribution: it returns the smallest
// bin whose cumulative probability reaches u.
func SampleIndex(cum []float64, u float64) int {
	i := sort.SearchFloat64s(cum, u)
	if i == len(cum) {
		// u fell on or beyond the final cumulative value, which is 1 up
		// to floating tolerance.
		i = len(cum) - 1
	}
	return i
}

// clone returns a deep copy of the edge, including its injection
// distributions.
func (e *Edge) clone() *Edge {
	c := &Edge{
		X: e.X, Y: e.Y,
		Normal:      e.Normal,
		NormalAngle: e.NormalAngle,
		Layer:       e.Layer,
	}
	if e.InProb != nil {
		c.InProb = append([]float64{}, e.InProb...)
		c.CumProb = append([]float64{}, e.CumProb...)
	}
	return c
}
