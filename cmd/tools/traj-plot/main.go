// Command traj-plot fits a trajectory to node samples and renders PNG
// diagnostics: the XY path and per-axis position time series, with the
// observed nodes overlaid on the fitted curve.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flaxengeo/lidartraj/internal/ingest"
	"github.com/flaxengeo/lidartraj/internal/traj"
)

var (
	samplesPath = flag.String("samples", "", "CSV file of node samples (node,x,y,z,vx,vy,vz,missing)")
	tblock      = flag.Float64("tblock", 1.0, "Block duration in seconds")
	tstart      = flag.Float64("tstart", 0.0, "Absolute time of node 0")
	linearFill  = flag.Bool("linear-fill", false, "Seed missing nodes from a global linear fit")
	outputDir   = flag.String("output-dir", "plots", "Directory for PNG output")
	perBlock    = flag.Int("samples-per-block", 20, "Curve samples per block")
)

var (
	curveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	nodeColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

func main() {
	flag.Parse()
	if *samplesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*samplesPath)
	if err != nil {
		log.Fatalf("failed to open samples: %v", err)
	}
	samples, err := ingest.ReadSamples(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read samples: %v", err)
	}

	tr, err := ingest.BuildTrajectory(samples, *tblock, *tstart)
	if err != nil {
		log.Fatalf("failed to build trajectory: %v", err)
	}
	if err := tr.FillMissing(*linearFill); err != nil {
		log.Fatalf("failed to fill missing nodes: %v", err)
	}
	rep, err := tr.Solve(traj.DefaultFitConfig())
	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}
	if rep.Warning != nil {
		log.Printf("warning: %v", rep.Warning)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	curve, times, err := sampleCurve(tr, *perBlock)
	if err != nil {
		log.Fatalf("failed to sample curve: %v", err)
	}
	nodes, nodeTimes := observedNodes(tr)

	if err := plotPath(filepath.Join(*outputDir, "path_xy.png"), curve, nodes); err != nil {
		log.Fatalf("failed to plot path: %v", err)
	}
	for axis, name := range [traj.Dim]string{"x", "y", "z"} {
		file := filepath.Join(*outputDir, fmt.Sprintf("position_%s.png", name))
		if err := plotAxis(file, name, times, curve, nodeTimes, nodes, axis); err != nil {
			log.Fatalf("failed to plot %s axis: %v", name, err)
		}
	}

	log.Printf("wrote %d plots to %s", traj.Dim+1, *outputDir)
}

func sampleCurve(tr *traj.Trajectory, perBlock int) ([]traj.Vec, []float64, error) {
	n := tr.NumBlocks() * perBlock
	curve := make([]traj.Vec, 0, n+1)
	times := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		t := tr.StartTime() + float64(i)*tr.BlockDuration()/float64(perBlock)
		pos, err := tr.Position(t)
		if err != nil {
			return nil, nil, err
		}
		curve = append(curve, pos)
		times = append(times, t)
	}
	return curve, times, nil
}

func observedNodes(tr *traj.Trajectory) ([]traj.Vec, []float64) {
	var nodes []traj.Vec
	var times []float64
	for i := 0; i <= tr.NumBlocks(); i++ {
		if tr.Missing(i) {
			continue
		}
		s, err := tr.ObservedSample(i)
		if err != nil {
			continue
		}
		nodes = append(nodes, s.Position)
		times = append(times, tr.NodeTime(i))
	}
	return nodes, times
}

func plotPath(file string, curve, nodes []traj.Vec) error {
	p := plot.New()
	p.Title.Text = "Trajectory Path (XY)"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	curvePts := make(plotter.XYs, len(curve))
	for i, v := range curve {
		curvePts[i] = plotter.XY{X: v[0], Y: v[1]}
	}
	line, err := plotter.NewLine(curvePts)
	if err != nil {
		return err
	}
	line.Color = curveColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("fitted", line)

	nodePts := make(plotter.XYs, len(nodes))
	for i, v := range nodes {
		nodePts[i] = plotter.XY{X: v[0], Y: v[1]}
	}
	scatter, err := plotter.NewScatter(nodePts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = nodeColor
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)
	p.Legend.Add("observed nodes", scatter)

	p.Legend.Top = true
	return p.Save(10*vg.Inch, 8*vg.Inch, file)
}

func plotAxis(file, name string, times []float64, curve []traj.Vec, nodeTimes []float64, nodes []traj.Vec, axis int) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Position %s vs Time", name)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = fmt.Sprintf("%s (m)", name)

	curvePts := make(plotter.XYs, len(curve))
	for i, v := range curve {
		curvePts[i] = plotter.XY{X: times[i], Y: v[axis]}
	}
	line, err := plotter.NewLine(curvePts)
	if err != nil {
		return err
	}
	line.Color = curveColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("fitted", line)

	nodePts := make(plotter.XYs, len(nodes))
	for i, v := range nodes {
		nodePts[i] = plotter.XY{X: nodeTimes[i], Y: v[axis]}
	}
	scatter, err := plotter.NewScatter(nodePts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = nodeColor
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)
	p.Legend.Add("observed nodes", scatter)

	p.Legend.Top = true
	return p.Save(14*vg.Inch, 6*vg.Inch, file)
}
