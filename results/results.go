/*package results consumes simulation output: per-layer aggregation of
boundary crossing counts and a SQLite-backed cache keyed by a run
identifier, so repeated analysis runs don't redo the transport.
*/
package results

import (
	"github.com/ultraklon/ballistic-montecarlo/geom"
	"github.com/ultraklon/ballistic-montecarlo/montecarlo"
)

// Ohmstats sums a run's crossing counts per boundary layer.
func Ohmstats(counts map[*geom.Edge]int) map[int]int {
	stats := make(map[int]int)
	for e, n := range counts {
		stats[e.Layer] += n
	}
	return stats
}

// Waypoint is the index form of a trajectory waypoint: the edge pointer
// is replaced by its position in the simulation's edge order (frame
// edges first, then auxiliary lines; -1 for none), which survives
// serialization and comparison across runs.
type Waypoint struct {
	I     int
	F     float64
	X, Y  float64
	State montecarlo.TrajectoryState
	Edge  int
}

// Record is one simulation result in index form.
type Record struct {
	Identifier   string
	NInject      int
	Counts       []int
	Trajectories [][]Waypoint
}

// NewRecord converts a run's counter map and trajectories into a record,
// using the simulation's own edge order.
func NewRecord(
	sim *montecarlo.Simulation, identifier string, nInject int,
	counts map[*geom.Edge]int, trajectories []montecarlo.Trajectory,
) *Record {
	index := edgeIndex(sim)

	rec := &Record{
		Identifier: identifier,
		NInject:    nInject,
		Counts:     make([]int, len(index)),
	}
	for e, n := range counts {
		rec.Counts[index[e]] = n
	}

	rec.Trajectories = make([][]Waypoint, len(trajectories))
	for i, traj := range trajectories {
		wps := make([]Waypoint, len(traj))
		for j, wp := range traj {
			edge := -1
			if wp.Edge != nil {
				edge = index[wp.Edge]
			}
			wps[j] = Waypoint{
				I: wp.NF.I, F: wp.NF.F,
				X: wp.X, Y: wp.Y,
				State: wp.State,
				Edge:  edge,
			}
		}
		rec.Trajectories[i] = wps
	}
	return rec
}

func edgeIndex(sim *montecarlo.Simulation) map[*geom.Edge]int {
	index := make(map[*geom.Edge]int)
	for _, e := range sim.Frame().Edges {
		index[e] = len(index)
	}
	for _, l := range sim.Lines().Lines {
		index[l] = len(index)
	}
	return index
}

// LayerTotals aggregates a record's counts per layer, with edges resolved
// through the simulation that produced the record.
func (rec *Record) LayerTotals(sim *montecarlo.Simulation) map[int]int {
	edges := append([]*geom.Edge{}, sim.Frame().Edges...)
	edges = append(edges, sim.Lines().Lines...)

	stats := make(map[int]int)
	for i, n := range rec.Counts {
		stats[edges[i].Layer] += n
	}
	return stats
}
