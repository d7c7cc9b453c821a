package io

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/gcfg.v1"
)

func TestExampleConfigParses(t *testing.T) {
	wrap := DefaultSimulationWrapper()
	if err := gcfg.ReadStringInto(wrap, ExampleSimulationFile); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	con := &wrap.Simulation

	checks := []struct {
		name string
		ok   bool
	}{
		{"FermiSurfaceFile", con.ValidFermiSurfaceFile()},
		{"DeviceFile", con.ValidDeviceFile()},
		{"Field", con.ValidField()},
		{"NInject", con.ValidNInject()},
		{"PScatter", con.ValidPScatter()},
		{"POhmicAbsorb", con.ValidPOhmicAbsorb()},
		{"Cache", con.ValidCache()},
	}
	for _, c := range checks {
		if !c.ok {
			t.Errorf("example config fails the %s check", c.name)
		}
	}

	// Commented-out optionals keep their documented defaults.
	if con.PScatter != 1 || con.POhmicAbsorb != 1 || con.InjectLayer != 1 {
		t.Errorf("defaults not preserved: PScatter=%g POhmicAbsorb=%g InjectLayer=%d",
			con.PScatter, con.POhmicAbsorb, con.InjectLayer)
	}
}

func TestConfigFileOverrides(t *testing.T) {
	text := `[Simulation]
FermiSurfaceFile = fs.dat
DeviceFile = dev.dat
Field = 0.5
NInject = 10
PScatter = 0.25
POhmicAbsorb = 0.75
Seed = 42
CacheFile = runs.db
Identifier = run1
Debug = true`

	file := filepath.Join(t.TempDir(), "sim.config")
	if err := os.WriteFile(file, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	wrap := DefaultSimulationWrapper()
	if err := gcfg.ReadFileInto(wrap, file); err != nil {
		t.Fatalf("ReadFileInto: %v", err)
	}
	con := &wrap.Simulation

	p := con.Params()
	if p.Field != 0.5 || p.PScatter != 0.25 || p.POhmicAbsorb != 0.75 {
		t.Errorf("Params = %+v, values not taken from the file", p)
	}
	if p.Seed != 42 || !p.Debug || p.InjectLayer != 1 {
		t.Errorf("Params = %+v, optional values wrong", p)
	}
	if !con.ValidCache() {
		t.Error("CacheFile and Identifier set together must validate")
	}
}

func TestValidCacheNeedsBothOrNeither(t *testing.T) {
	con := &SimulationConfig{CacheFile: "runs.db"}
	if con.ValidCache() {
		t.Error("CacheFile without Identifier must not validate")
	}
	con = &SimulationConfig{Identifier: "run1"}
	if con.ValidCache() {
		t.Error("Identifier without CacheFile must not validate")
	}
	con = &SimulationConfig{}
	if !con.ValidCache() {
		t.Error("neither set must validate")
	}
}

func writeTable(t *testing.T, name, text string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadFermiSurface(t *testing.T) {
	file := writeTable(t, "fs.dat", "1 0\n0 1\n-1 0\n0 -1\n")
	k, err := ReadFermiSurface(file)
	if err != nil {
		t.Fatalf("ReadFermiSurface: %v", err)
	}
	if len(k) != 4 {
		t.Fatalf("got %d points, want 4", len(k))
	}
	if k[1][0] != 0 || k[1][1] != 1 {
		t.Errorf("k[1] = %v, want (0, 1)", k[1])
	}
}

func TestReadDevice(t *testing.T) {
	file := writeTable(t, "dev.dat",
		"0 0 1 0 1\n1 0 1 1 0\n1 1 0 1 2\n0 1 0 0 0\n")
	frame, err := ReadDevice(file)
	if err != nil {
		t.Fatalf("ReadDevice: %v", err)
	}
	if len(frame.Edges) != 4 {
		t.Fatalf("got %d edges, want 4", len(frame.Edges))
	}
	if frame.Edges[2].Layer != 2 {
		t.Errorf("edge 2 has layer %d, want 2", frame.Edges[2].Layer)
	}
	if frame.MaxLayer() != 2 {
		t.Errorf("MaxLayer = %d, want 2", frame.MaxLayer())
	}
}

func TestReadDeviceRejectsOpenPolygon(t *testing.T) {
	file := writeTable(t, "dev.dat", "0 0 1 0 1\n1 0 1 1 0\n")
	if _, err := ReadDevice(file); err == nil {
		t.Error("a two edge device table must be rejected")
	}
}

func TestReadOhmicLines(t *testing.T) {
	file := writeTable(t, "lines.dat", "0 0.5 1 0.5\n0.5 0 0.5 1\n")
	lines, err := ReadOhmicLines(file)
	if err != nil {
		t.Fatalf("ReadOhmicLines: %v", err)
	}
	if len(lines.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines.Lines))
	}
	lines.OffsetLayers(3)
	if lines.Lines[0].Layer != 3 || lines.Lines[1].Layer != 4 {
		t.Errorf("offset layers = %d, %d; want 3, 4",
			lines.Lines[0].Layer, lines.Lines[1].Layer)
	}
}
