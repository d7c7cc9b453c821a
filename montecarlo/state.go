package montecarlo

import (
	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// TrajectoryState tags what happened to a carrier at a recorded waypoint.
type TrajectoryState int

const (
	// Injecting places a new carrier on a contact edge.
	Injecting TrajectoryState = iota + 1
	// Propagate is a full free step with no boundary in the way.
	Propagate
	// Collision truncates a step at a single boundary edge.
	Collision
	// Scatter re-samples the outgoing bin from the edge's injection
	// distribution.
	Scatter
	// Reflect picks the outgoing bin by specular construction.
	Reflect
	// Absorbed removes the carrier at an ohmic contact.
	Absorbed
	// CornerCollision truncates a step at two edges meeting in a vertex.
	CornerCollision
	// CornerScatter re-samples from the combined distribution of the two
	// corner edges.
	CornerScatter
	// CornerReflect reflects off the synthetic bisector of the corner.
	CornerReflect
	// CornerAbsorbed removes the carrier at a corner ohmic contact.
	CornerAbsorbed
	// ErrorState marks a carrier found outside the device in debug runs.
	ErrorState
)

var stateNames = map[TrajectoryState]string{
	Injecting:       "injecting",
	Propagate:       "propagate",
	Collision:       "collision",
	Scatter:         "scatter",
	Reflect:         "reflect",
	Absorbed:        "absorbed",
	CornerCollision: "corner-collision",
	CornerScatter:   "corner-scatter",
	CornerReflect:   "corner-reflect",
	CornerAbsorbed:  "corner-absorbed",
	ErrorState:      "error",
}

func (s TrajectoryState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// StateSet selects which trajectory states a caller wants recorded. The
// dynamics are unaffected; only the stored waypoints change.
type StateSet uint16

// AllStates records every waypoint.
const AllStates StateSet = 1<<(ErrorState+1) - 2

// NewStateSet builds a set holding exactly the given states.
func NewStateSet(states ...TrajectoryState) StateSet {
	var set StateSet
	for _, s := range states {
		set |= 1 << s
	}
	return set
}

// Has reports whether s is in the set.
func (set StateSet) Has(s TrajectoryState) bool {
	return set&(1<<s) != 0
}

// FermiIndex identifies a point on the discretized Fermi surface: bin I
// plus the fraction F of bin I's chord still left to traverse. F = 1
// means the carrier has just arrived at bin I with the whole chord ahead
// of it; a smaller F is carried over when a step was cut short by a
// boundary.
type FermiIndex struct {
	I int
	F float64
}

// Waypoint is one recorded point of a trajectory. Edge is non-nil only
// on the first waypoint of a boundary event (the collision or absorption
// record), so that each crossing is counted exactly once.
type Waypoint struct {
	NF    FermiIndex
	X, Y  float64
	State TrajectoryState
	Edge  *geom.Edge
}

// Trajectory is the ordered waypoint sequence of one carrier, from
// injection to absorption.
type Trajectory []Waypoint
