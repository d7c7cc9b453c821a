package geom

import (
	"math"
	"math/rand"
	"testing"
)

func almostEq(x, y, eps float64) bool {
	return x+eps > y && x-eps < y
}

// squareFrame is the unit square, counter-clockwise: injector bottom,
// device sides, grounded top.
func squareFrame() *Frame {
	return NewFrame([]*Edge{
		NewEdge(0, 0, 1, 0, 1),
		NewEdge(1, 0, 1, 1, 0),
		NewEdge(1, 1, 0, 1, 2),
		NewEdge(0, 1, 0, 0, 0),
	})
}

func TestNewEdgeNormal(t *testing.T) {
	table := []struct {
		x1, y1, x2, y2 float64
		nx, ny         float64
	}{
		{0, 0, 1, 0, 0, -1},
		{1, 0, 1, 1, 1, 0},
		{1, 1, 0, 1, 0, 1},
		{0, 1, 0, 0, -1, 0},
		{0, 0, 1, 1, math.Sqrt2 / 2, -math.Sqrt2 / 2},
	}

	for i, line := range table {
		e := NewEdge(line.x1, line.y1, line.x2, line.y2, 0)
		if !almostEq(e.Normal[0], line.nx, 1e-12) ||
			!almostEq(e.Normal[1], line.ny, 1e-12) {
			t.Errorf("%d) Edge (%g,%g)-(%g,%g) got normal (%g, %g), want (%g, %g)",
				i+1, line.x1, line.y1, line.x2, line.y2,
				e.Normal[0], e.Normal[1], line.nx, line.ny)
		}
		if !almostEq(e.NormalAngle, math.Atan2(line.ny, line.nx), 1e-12) {
			t.Errorf("%d) NormalAngle = %g", i+1, e.NormalAngle)
		}
	}
}

func TestIntersectLines(t *testing.T) {
	table := []struct {
		p1, p2, p3, p4 Vec
		intr           Vec
		ok             bool
	}{
		{Vec{0, 0}, Vec{2, 2}, Vec{0, 2}, Vec{2, 0}, Vec{1, 1}, true},
		{Vec{0, 0}, Vec{1, 0}, Vec{0, 1}, Vec{1, 2}, Vec{-1, 0}, true},
		{Vec{0, 0}, Vec{1, 1}, Vec{0, 1}, Vec{1, 2}, Vec{}, false},
		{Vec{0, 0}, Vec{0, 1}, Vec{1, 0}, Vec{1, 1}, Vec{}, false},
	}

	for i, line := range table {
		intr, ok := IntersectLines(line.p1, line.p2, line.p3, line.p4)
		if ok != line.ok {
			t.Errorf("%d) ok = %v, want %v", i+1, ok, line.ok)
			continue
		}
		if ok && Dist(intr, line.intr) > 1e-12 {
			t.Errorf("%d) intersection = %v, want %v", i+1, intr, line.intr)
		}
	}
}

func TestSegmentParams(t *testing.T) {
	table := []struct {
		p1, p2, p3, p4 Vec
		t, u           float64
		ok             bool
	}{
		// step up the middle of the square against the top edge
		{Vec{0.5, 0.5}, Vec{0.5, 1.5}, Vec{1, 1}, Vec{0, 1}, 0.5, 0.5, true},
		// step that stops short: t > 1
		{Vec{0.5, 0.5}, Vec{0.5, 0.9}, Vec{1, 1}, Vec{0, 1}, 1.25, 0.5, true},
		// parallel
		{Vec{0, 0}, Vec{1, 0}, Vec{0, 1}, Vec{1, 1}, 0, 0, false},
	}

	for i, line := range table {
		tt, u, ok := SegmentParams(line.p1, line.p2, line.p3, line.p4)
		if ok != line.ok {
			t.Errorf("%d) ok = %v, want %v", i+1, ok, line.ok)
			continue
		}
		if ok && (!almostEq(tt, line.t, 1e-12) || !almostEq(u, line.u, 1e-12)) {
			t.Errorf("%d) (t, u) = (%g, %g), want (%g, %g)", i+1, tt, u, line.t, line.u)
		}
	}
}

func TestBatchCoeffsMatchSegmentParams(t *testing.T) {
	f := squareFrame()
	p, q := Vec{0.3, 0.4}, Vec{1.7, 1.2}

	ts := make([]float64, len(f.Edges))
	us := make([]float64, len(f.Edges))
	f.StepParams(p, q, ts, us)

	for i, e := range f.Edges {
		tt, u, ok := SegmentParams(p, q, e.P(0), e.P(1))
		if !ok {
			continue
		}
		if !almostEq(ts[i], tt, 1e-12) || !almostEq(us[i], u, 1e-12) {
			t.Errorf("edge %d: batched (t, u) = (%g, %g), direct (%g, %g)",
				i, ts[i], us[i], tt, u)
		}
	}
}

func TestFrameContains(t *testing.T) {
	f := squareFrame()
	table := []struct {
		p  Vec
		in bool
	}{
		{Vec{0.5, 0.5}, true},
		{Vec{0.01, 0.99}, true},
		{Vec{1.5, 0.5}, false},
		{Vec{0.5, -0.5}, false},
		{Vec{-0.1, 1.2}, false},
	}

	for i, line := range table {
		if got := f.Contains(line.p); got != line.in {
			t.Errorf("%d) Contains(%v) = %v, want %v", i+1, line.p, got, line.in)
		}
	}
}

func TestInjectPosition(t *testing.T) {
	f := squareFrame()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		p, e, err := f.InjectPosition(1, rng)
		if err != nil {
			t.Fatalf("InjectPosition: %v", err)
		}
		if e.Layer != 1 {
			t.Fatalf("injected on layer %d edge", e.Layer)
		}
		if p[1] != 0 || p[0] < 0 || p[0] > 1 {
			t.Fatalf("injected at %v, off the bottom edge", p)
		}
	}

	if _, _, err := f.InjectPosition(9, rng); err == nil {
		t.Errorf("expected an error injecting from an absent layer")
	}
}

func TestInjectPositionSplitLayer(t *testing.T) {
	// Injector split across two edges: samples must land on both,
	// weighted by length.
	f := NewFrame([]*Edge{
		NewEdge(0, 0, 3, 0, 1),
		NewEdge(3, 0, 3, 1, 0),
		NewEdge(3, 1, 0, 1, 1),
		NewEdge(0, 1, 0, 0, 2),
	})
	rng := rand.New(rand.NewSource(3))

	bottom, top := 0, 0
	for i := 0; i < 2000; i++ {
		_, e, err := f.InjectPosition(1, rng)
		if err != nil {
			t.Fatalf("InjectPosition: %v", err)
		}
		if e.Y[0] == 0 {
			bottom++
		} else {
			top++
		}
	}
	if bottom == 0 || top == 0 {
		t.Errorf("samples never reached both injector edges: %d/%d", bottom, top)
	}
}

func TestSampleIndex(t *testing.T) {
	cum := []float64{0.2, 0.5, 1.0}
	table := []struct {
		u    float64
		want int
	}{
		{0.0, 0}, {0.1, 0}, {0.2, 0}, {0.3, 1}, {0.5, 1}, {0.9, 2}, {1.0, 2},
	}
	for i, line := range table {
		if got := SampleIndex(cum, line.u); got != line.want {
			t.Errorf("%d) SampleIndex(%g) = %d, want %d", i+1, line.u, got, line.want)
		}
	}
}

func TestClassifyLayer(t *testing.T) {
	table := []struct {
		layer int
		kind  LayerKind
	}{
		{0, DeviceBoundary},
		{2, GroundedContact},
		{1, FloatingContact},
		{3, FloatingContact},
		{17, FloatingContact},
	}
	for i, line := range table {
		if got := ClassifyLayer(line.layer); got != line.kind {
			t.Errorf("%d) ClassifyLayer(%d) = %v, want %v", i+1, line.layer, got, line.kind)
		}
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	f := squareFrame()
	f.Edges[0].SetInjectionProb([]float64{1}, []float64{1})

	c := f.Clone()
	c.Edges[0].InProb[0] = 0.5
	c.Edges[0].Layer = 9

	if f.Edges[0].InProb[0] != 1 || f.Edges[0].Layer != 1 {
		t.Errorf("clone aliases the source frame")
	}
}

func BenchmarkStepParams(b *testing.B) {
	f := squareFrame()
	ts := make([]float64, len(f.Edges))
	us := make([]float64, len(f.Edges))
	p, q := Vec{0.3, 0.4}, Vec{0.8, 1.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.StepParams(p, q, ts, us)
	}
}
