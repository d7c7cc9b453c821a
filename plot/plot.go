/*package plot renders a device and its simulated trajectories to an
image file.
*/
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ultraklon/ballistic-montecarlo/geom"
	"github.com/ultraklon/ballistic-montecarlo/montecarlo"
)

// layerColors distinguishes boundary kinds in the device outline.
var layerColors = map[geom.LayerKind]color.RGBA{
	geom.DeviceBoundary:  {A: 255},
	geom.GroundedContact: {R: 180, A: 255},
	geom.FloatingContact: {B: 180, A: 255},
}

// trajectoryColor cycles a low-saturation palette over trajectories.
func trajectoryColor(i int) color.RGBA {
	palette := []color.RGBA{
		{R: 66, G: 133, B: 244, A: 90},
		{R: 219, G: 68, B: 55, A: 90},
		{R: 244, G: 180, B: 0, A: 90},
		{R: 15, G: 157, B: 88, A: 90},
	}
	return palette[i%len(palette)]
}

// Trajectories draws the simulation's device outline, auxiliary lines,
// and the recorded trajectories, and saves the figure to file (format by
// extension, e.g. .png or .pdf).
func Trajectories(sim *montecarlo.Simulation, trajectories []montecarlo.Trajectory, file string) error {
	p := plot.New()
	p.Title.Text = "ballistic trajectories"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	for i, traj := range trajectories {
		if len(traj) < 2 {
			continue
		}
		xys := make(plotter.XYs, len(traj))
		for j, wp := range traj {
			xys[j].X, xys[j].Y = wp.X, wp.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plot: trajectory %d: %w", i, err)
		}
		line.Color = trajectoryColor(i)
		p.Add(line)
	}

	for _, e := range sim.Frame().Edges {
		line, err := edgeLine(e)
		if err != nil {
			return err
		}
		line.Color = layerColors[e.Kind()]
		line.Width = 2
		p.Add(line)
	}
	for _, l := range sim.Lines().Lines {
		line, err := edgeLine(l)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}

	return p.Save(6*vg.Inch, 6*vg.Inch, file)
}

func edgeLine(e *geom.Edge) (*plotter.Line, error) {
	xys := plotter.XYs{
		{X: e.X[0], Y: e.Y[0]},
		{X: e.X[1], Y: e.Y[1]},
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("plot: layer %d edge: %w", e.Layer, err)
	}
	return line, nil
}
