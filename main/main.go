package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/gcfg.v1"

	"github.com/ultraklon/ballistic-montecarlo/geom"
	bmcio "github.com/ultraklon/ballistic-montecarlo/io"
	"github.com/ultraklon/ballistic-montecarlo/montecarlo"
	"github.com/ultraklon/ballistic-montecarlo/plot"
	"github.com/ultraklon/ballistic-montecarlo/results"
)

func main() {
	// Input sanitization first: fail with a descriptive error before any
	// geometry is touched.
	var runStr, exampleConfig string

	flag.StringVar(
		&runStr, "Run", "",
		"Configuration file with a [Simulation] section describing the "+
			"device, Fermi surface, and run parameters.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Simulation'.",
	)

	flag.Parse()

	switch {
	case exampleConfig != "":
		if exampleConfig != "Simulation" {
			log.Fatalf("Unrecognized config type '%s'.", exampleConfig)
		}
		fmt.Println(bmcio.ExampleSimulationFile)

	case runStr != "":
		wrap := bmcio.DefaultSimulationWrapper()
		if err := gcfg.ReadFileInto(wrap, runStr); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Simulation

		if !con.ValidFermiSurfaceFile() {
			log.Fatal("Invalid/non-existent 'FermiSurfaceFile' value.")
		} else if !con.ValidDeviceFile() {
			log.Fatal("Invalid/non-existent 'DeviceFile' value.")
		} else if !con.ValidField() {
			log.Fatal("'Field' must be non-zero.")
		} else if !con.ValidNInject() {
			log.Fatal("'NInject' must be positive.")
		} else if !con.ValidPScatter() {
			log.Fatal("'PScatter' must lie in [0, 1].")
		} else if !con.ValidPOhmicAbsorb() {
			log.Fatal("'POhmicAbsorb' must lie in [0, 1].")
		} else if !con.ValidCache() {
			log.Fatal("'CacheFile' and 'Identifier' must be set together.")
		}

		runMain(con)

	default:
		fmt.Fprintln(os.Stderr,
			"Specify either -Run with a config file or -ExampleConfig.")
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func runMain(con *bmcio.SimulationConfig) {
	k, err := bmcio.ReadFermiSurface(con.FermiSurfaceFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	frame, err := bmcio.ReadDevice(con.DeviceFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	var lines *geom.OhmicLines
	if con.OhmicLinesFile != "" {
		lines, err = bmcio.ReadOhmicLines(con.OhmicLinesFile)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	sim, err := montecarlo.New(frame, k, lines, con.Params())
	if err != nil {
		log.Fatal(err.Error())
	}

	log.Printf("Injecting %d carriers (field %g, phi %g).",
		con.NInject, con.Field, con.Phi)

	var rec *results.Record
	if con.CacheFile != "" {
		cache, err := results.Open(con.CacheFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer cache.Close()
		rec, err = results.RunWithCache(
			cache, sim, con.Identifier, con.NInject, montecarlo.AllStates)
		if err != nil {
			log.Fatal(err.Error())
		}
	} else {
		counts, trajectories, err := sim.Run(con.NInject, montecarlo.AllStates)
		if err != nil {
			log.Fatal(err.Error())
		}
		rec = results.NewRecord(sim, "", con.NInject, counts, trajectories)
	}

	printOhmstats(rec.LayerTotals(sim))

	if con.PlotFile != "" {
		trajectories := replaySimTrajectories(sim, rec)
		if err := plot.Trajectories(sim, trajectories, con.PlotFile); err != nil {
			log.Fatal(err.Error())
		}
		log.Printf("Wrote %s.", con.PlotFile)
	}
}

func printOhmstats(stats map[int]int) {
	layers := make([]int, 0, len(stats))
	for layer := range stats {
		layers = append(layers, layer)
	}
	sort.Ints(layers)
	for _, layer := range layers {
		log.Printf("layer %d: %d crossings", layer, stats[layer])
	}
}

// replaySimTrajectories turns index-form records back into plottable
// waypoint sequences.
func replaySimTrajectories(sim *montecarlo.Simulation, rec *results.Record) []montecarlo.Trajectory {
	trajectories := make([]montecarlo.Trajectory, len(rec.Trajectories))
	for i, wps := range rec.Trajectories {
		traj := make(montecarlo.Trajectory, len(wps))
		for j, wp := range wps {
			traj[j] = montecarlo.Waypoint{
				NF:    montecarlo.FermiIndex{I: wp.I, F: wp.F},
				X:     wp.X,
				Y:     wp.Y,
				State: wp.State,
			}
		}
		trajectories[i] = traj
	}
	return trajectories
}
