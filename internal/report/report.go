// Package report renders an HTML summary of a trajectory fit: the solved
// speed profile over the fitted range and the remaining acceleration-jump
// residual at each interior boundary.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

// samplesPerBlock controls how densely the fitted curve is sampled for
// the speed chart.
const samplesPerBlock = 20

// WriteHTML writes the fit report for tr to path.
func WriteHTML(path string, tr *traj.Trajectory, rep *traj.FitReport) error {
	speed, err := speedChart(tr, rep)
	if err != nil {
		return err
	}
	residuals, err := residualChart(tr)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.SetPageTitle("trajectory fit report")
	page.AddCharts(speed, residuals)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func speedChart(tr *traj.Trajectory, rep *traj.FitReport) (*charts.Line, error) {
	n := tr.NumBlocks() * samplesPerBlock
	xs := make([]string, 0, n+1)
	data := make([]opts.LineData, 0, n+1)
	for i := 0; i <= n; i++ {
		t := tr.StartTime() + float64(i)*tr.BlockDuration()/samplesPerBlock
		_, vel, err := tr.PositionVelocity(t)
		if err != nil {
			return nil, err
		}
		xs = append(xs, fmt.Sprintf("%.3f", t))
		data = append(data, opts.LineData{Value: vel.Norm()})
	}

	title := fmt.Sprintf("speed profile (status: %s, residual %.3g)", rep.Status, rep.ResidualNorm)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed"}),
	)
	line.SetXAxis(xs).AddSeries("speed", data)
	return line, nil
}

func residualChart(tr *traj.Trajectory) (*charts.Scatter, error) {
	xs := make([]string, 0, tr.NumBlocks())
	data := make([]opts.ScatterData, 0, tr.NumBlocks())
	for b := 1; b < tr.NumBlocks(); b++ {
		res, err := tr.AccelJumpAt(b)
		if err != nil {
			return nil, err
		}
		xs = append(xs, fmt.Sprintf("%.3f", tr.NodeTime(b)))
		data = append(data, opts.ScatterData{Value: res.Norm()})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "acceleration-jump residual per boundary"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "boundary time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "|residual|"}),
	)
	scatter.SetXAxis(xs).AddSeries("residual", data)
	return scatter, nil
}
