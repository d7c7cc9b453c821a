/*package io reads simulation configuration files and the whitespace
tables describing devices and Fermi surfaces.
*/
package io

import (
	"github.com/ultraklon/ballistic-montecarlo/montecarlo"
)

const (
	ExampleSimulationFile = `[Simulation]

#######################
# Required Parameters #
#######################

# Whitespace table of Fermi wave vectors, one "kx ky" pair per row,
# tracing the Fermi surface once. The loop is closed automatically.
FermiSurfaceFile = path/to/fermi_surface.dat

# Whitespace table of device edges, one "x1 y1 x2 y2 layer" row per edge,
# ordered counter-clockwise around the device. Layer 0 is the device
# boundary, layer 2 the grounded contact, anything else a floating
# contact (layer 1 is the conventional injector).
DeviceFile = path/to/device.dat

# Magnetic field value. The real-space orbit scales with 1/Field.
Field = 1.0

# Number of carriers to inject.
NInject = 1000

#######################
# Optional Parameters #
#######################

# Whitespace table of auxiliary counting lines, one "x1 y1 x2 y2" row
# per line. Crossings are tallied but have no physical effect.
# OhmicLinesFile = path/to/lines.dat

# Crystal axis angle relative to the device, in radians.
# Phi = 0.0

# Probability that a boundary hit scatters instead of reflecting.
# PScatter = 1.0

# Probability that an ohmic contact absorbs an impinging carrier.
# POhmicAbsorb = 1.0

# Contact layer carriers are injected from. Default 1.
# InjectLayer = 1

# Upper bound on steps per trajectory; 0 means unbounded. Set a bound
# whenever POhmicAbsorb is small: with POhmicAbsorb = 0 a carrier never
# terminates.
# MaxSteps = 0

# Seed of the simulation's random stream.
# Seed = 0

# SQLite cache for run results, keyed by Identifier. When both are set
# and the identifier is already cached, the run is skipped.
# CacheFile = runs.sqlite
# Identifier = b1.0_run1

# PNG plot of the device and the recorded trajectories.
# PlotFile = trajectories.png

# Validate carrier positions before every step (diagnostic, slow).
# Debug = false`
)

// SimulationConfig mirrors the [Simulation] section of a config file.
type SimulationConfig struct {
	// Required
	FermiSurfaceFile string
	DeviceFile       string
	Field            float64
	NInject          int

	// Optional
	OhmicLinesFile string
	Phi            float64
	PScatter       float64
	POhmicAbsorb   float64
	InjectLayer    int
	MaxSteps       int
	Seed           int64
	CacheFile      string
	Identifier     string
	PlotFile       string
	Debug          bool
}

// SimulationWrapper is the gcfg target for a simulation config file.
type SimulationWrapper struct {
	Simulation SimulationConfig
}

// DefaultSimulationWrapper returns a wrapper carrying the documented
// defaults for the optional parameters.
func DefaultSimulationWrapper() *SimulationWrapper {
	con := SimulationConfig{}
	con.PScatter = 1.0
	con.POhmicAbsorb = 1.0
	con.InjectLayer = 1
	return &SimulationWrapper{con}
}

func (con *SimulationConfig) ValidFermiSurfaceFile() bool {
	return con.FermiSurfaceFile != ""
}
func (con *SimulationConfig) ValidDeviceFile() bool {
	return con.DeviceFile != ""
}
func (con *SimulationConfig) ValidField() bool {
	return con.Field != 0
}
func (con *SimulationConfig) ValidNInject() bool {
	return con.NInject > 0
}
func (con *SimulationConfig) ValidPScatter() bool {
	return 0 <= con.PScatter && con.PScatter <= 1
}
func (con *SimulationConfig) ValidPOhmicAbsorb() bool {
	return 0 <= con.POhmicAbsorb && con.POhmicAbsorb <= 1
}
func (con *SimulationConfig) ValidCache() bool {
	return (con.CacheFile == "") == (con.Identifier == "")
}

// Params converts the config into simulation parameters.
func (con *SimulationConfig) Params() montecarlo.Params {
	return montecarlo.Params{
		Phi:          con.Phi,
		Field:        con.Field,
		PScatter:     con.PScatter,
		POhmicAbsorb: con.POhmicAbsorb,
		InjectLayer:  con.InjectLayer,
		MaxSteps:     con.MaxSteps,
		Seed:         con.Seed,
		Debug:        con.Debug,
	}
}
