/*package montecarlo propagates ballistic charge carriers through a 2D
device under a magnetic field.

Each carrier is injected on a contact edge and advances one Fermi-surface
chord per step along its field-curved orbit. Steps that cross the device
boundary are truncated at the crossing and branch on the boundary layer:
the device edge scatters or reflects, the grounded contact may absorb the
carrier for good, and floating contacts may absorb and re-emit it. The
simulation tallies every boundary crossing and hands back the labeled
trajectories.
*/
package montecarlo

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/ultraklon/ballistic-montecarlo/bandstructure"
	"github.com/ultraklon/ballistic-montecarlo/geom"
)

// Params collects the physical and numerical knobs of a simulation.
type Params struct {
	// Phi is the crystal axis angle relative to the device and Field the
	// magnetic field value.
	Phi, Field float64

	// PScatter is the probability that a boundary hit scatters instead
	// of reflecting; POhmicAbsorb the probability that an ohmic contact
	// absorbs an impinging carrier.
	PScatter, POhmicAbsorb float64

	// InjectLayer is the contact layer carriers start from. Zero means
	// the conventional injector layer 1.
	InjectLayer int

	// MaxSteps bounds the number of steps per trajectory. Zero means
	// unbounded; with POhmicAbsorb = 0 a carrier can cycle forever, so
	// runs with small absorb probabilities should set a bound.
	MaxSteps int

	// Seed initializes the simulation's private random stream.
	Seed int64

	// Debug validates the carrier position against the device boundary
	// before every step, terminating the trajectory with an error-tagged
	// waypoint instead of stepping from an outside point.
	Debug bool
}

// Simulation owns one device's transport run: an immutable geometry
// snapshot, the band structure, and a private random stream.
type Simulation struct {
	frame *geom.Frame
	lines *geom.OhmicLines
	bs    *bandstructure.Bandstructure
	p     Params
	rng   *rand.Rand

	// scratch for the batched intersection tests
	ts, us   []float64
	lts, lus []float64
}

// New builds a simulation for the given device frame and Fermi surface.
// The frame and auxiliary lines are deep-copied, so the caller's geometry
// can be reused across simulations; lines may be nil. Every edge gets its
// injection distribution computed here, once.
func New(frame *geom.Frame, k []geom.Vec, lines *geom.OhmicLines, p Params) (*Simulation, error) {
	bs, err := bandstructure.New(k, p.Phi, p.Field)
	if err != nil {
		return nil, err
	}
	if p.InjectLayer == 0 {
		p.InjectLayer = 1
	}

	s := &Simulation{
		frame: frame.Clone(),
		bs:    bs,
		p:     p,
		rng:   rand.New(rand.NewSource(p.Seed)),
	}

	for _, e := range s.frame.Edges {
		in, cum, err := bs.InjectionProb(e.NormalAngle)
		if err != nil {
			return nil, fmt.Errorf("montecarlo: layer %d edge: %w", e.Layer, err)
		}
		e.SetInjectionProb(in, cum)
	}

	if lines == nil {
		lines = geom.NewOhmicLines(nil)
	}
	s.lines = lines.Clone()
	s.lines.OffsetLayers(s.frame.MaxLayer() + 1)

	s.ts = make([]float64, len(s.frame.Edges))
	s.us = make([]float64, len(s.frame.Edges))
	s.lts = make([]float64, len(s.lines.Lines))
	s.lus = make([]float64, len(s.lines.Lines))
	return s, nil
}

// Frame returns the simulation's own geometry snapshot. Counter maps
// returned by Run are keyed by these edges.
func (s *Simulation) Frame() *geom.Frame { return s.frame }

// Lines returns the simulation's auxiliary line snapshot, layers already
// offset past the device layers.
func (s *Simulation) Lines() *geom.OhmicLines { return s.lines }

// Bandstructure returns the discretized Fermi surface in use.
func (s *Simulation) Bandstructure() *bandstructure.Bandstructure { return s.bs }

// Run propagates nInject carriers until each is absorbed by the grounded
// contact. It returns the crossing count of every boundary edge and
// auxiliary line, and one trajectory per carrier filtered to the stored
// states. A geometric failure aborts the whole run.
func (s *Simulation) Run(nInject int, stored StateSet) (map[*geom.Edge]int, []Trajectory, error) {
	counts := make(map[*geom.Edge]int, len(s.frame.Edges)+len(s.lines.Lines))
	for _, e := range s.frame.Edges {
		counts[e] = 0
	}
	for _, l := range s.lines.Lines {
		counts[l] = 0
	}

	trajectories := make([]Trajectory, 0, nInject)
	for i := 0; i < nInject; i++ {
		traj, err := s.propagate(stored, counts)
		if err != nil {
			return nil, nil, err
		}
		trajectories = append(trajectories, traj)
	}
	return counts, trajectories, nil
}

// propagate runs a single carrier from injection to absorption,
// incrementing counts along the way.
func (s *Simulation) propagate(stored StateSet, counts map[*geom.Edge]int) (Trajectory, error) {
	pos, edge, err := s.frame.InjectPosition(s.p.InjectLayer, s.rng)
	if err != nil {
		return nil, err
	}
	nf := FermiIndex{edge.InjectionIndex(s.rng), 1}
	steps := []Waypoint{{NF: nf, X: pos[0], Y: pos[1], State: Injecting, Edge: edge}}

	var traj Trajectory
	record := func() {
		for _, wp := range steps {
			if wp.Edge != nil {
				counts[wp.Edge]++
			}
			if stored.Has(wp.State) {
				traj = append(traj, wp)
			}
		}
	}
	record()

	for n := 0; ; n++ {
		if s.p.MaxSteps > 0 && n >= s.p.MaxSteps {
			return nil, fmt.Errorf(
				"montecarlo: trajectory exceeded %d steps without absorption", s.p.MaxSteps)
		}

		last := steps[len(steps)-1]
		var crosses []*geom.Edge
		var terminal bool
		steps, crosses, terminal, err = s.stepPosition(last.NF, geom.Vec{last.X, last.Y})
		if err != nil {
			return nil, err
		}
		record()
		for _, l := range crosses {
			counts[l]++
		}
		if terminal {
			return traj, nil
		}
	}
}

// debugCheck reports a carrier that starts a step outside the device.
// Diagnostic only: it terminates the trajectory instead of failing the
// run.
func (s *Simulation) debugCheck(nf FermiIndex, p geom.Vec) bool {
	if !s.p.Debug || s.frame.Contains(p) {
		return false
	}
	log.Printf("montecarlo: carrier out of bounds at (%g, %g), bin %d", p[0], p[1], nf.I)
	return true
}
