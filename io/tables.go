package io

import (
	"fmt"

	"github.com/phil-mansfield/table"

	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// ReadFermiSurface reads a two column "kx ky" table tracing the Fermi
// surface.
func ReadFermiSurface(file string) ([]geom.Vec, error) {
	cols, err := table.ReadTable(file, []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}
	kxs, kys := cols[0], cols[1]

	k := make([]geom.Vec, len(kxs))
	for i := range k {
		k[i] = geom.Vec{kxs[i], kys[i]}
	}
	return k, nil
}

// ReadDevice reads a five column "x1 y1 x2 y2 layer" table of device
// edges, ordered counter-clockwise, into a frame.
func ReadDevice(file string) (*geom.Frame, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3, 4}, nil)
	if err != nil {
		return nil, err
	}
	x1s, y1s, x2s, y2s, layers := cols[0], cols[1], cols[2], cols[3], cols[4]

	if len(x1s) < 3 {
		return nil, fmt.Errorf("io: device table %s has %d edges, need at least 3", file, len(x1s))
	}

	edges := make([]*geom.Edge, len(x1s))
	for i := range edges {
		edges[i] = geom.NewEdge(x1s[i], y1s[i], x2s[i], y2s[i], int(layers[i]))
	}
	return geom.NewFrame(edges), nil
}

// ReadOhmicLines reads a four column "x1 y1 x2 y2" table of auxiliary
// counting lines.
func ReadOhmicLines(file string) (*geom.OhmicLines, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return nil, err
	}
	x1s, y1s, x2s, y2s := cols[0], cols[1], cols[2], cols[3]

	// Each line gets its own layer tag so per-layer tallies keep the
	// lines apart; the simulation offsets them past the device layers.
	lines := make([]*geom.Edge, len(x1s))
	for i := range lines {
		lines[i] = geom.NewEdge(x1s[i], y1s[i], x2s[i], y2s[i], i)
	}
	return geom.NewOhmicLines(lines), nil
}
