// Command trajfit fits a piecewise-cubic trajectory to node samples read
// from CSV, then exports, persists or serves the result.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/flaxengeo/lidartraj/api"
	"github.com/flaxengeo/lidartraj/internal/config"
	"github.com/flaxengeo/lidartraj/internal/ingest"
	"github.com/flaxengeo/lidartraj/internal/report"
	"github.com/flaxengeo/lidartraj/internal/traj"
	"github.com/flaxengeo/lidartraj/internal/trajdb"
)

var (
	samplesPath = flag.String("samples", "", "CSV file of node samples (node,x,y,z,vx,vy,vz,missing)")
	tblock      = flag.Float64("tblock", 1.0, "Block duration in seconds")
	tstart      = flag.Float64("tstart", 0.0, "Absolute time of node 0")
	linearFill  = flag.Bool("linear-fill", false, "Seed missing nodes from a global linear fit instead of local interpolation")
	policy      = flag.String("missing-policy", "clamp", "Constraint at missing-node boundaries: clamp or acceljump")
	outPath     = flag.String("out", "", "Write sampled poses to this CSV file")
	perBlock    = flag.Int("samples-per-block", 10, "Pose samples per block for -out")
	dbPath      = flag.String("db", "", "Persist the fit to this sqlite database")
	reportPath  = flag.String("report", "", "Write an HTML fit report to this file")
	listen      = flag.String("listen", "", "Serve the pose API on this address (e.g. :8080)")
	configPath  = flag.String("config", "", "JSON tuning config overriding fit defaults")
)

func main() {
	flag.Parse()
	if *samplesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := traj.DefaultFitConfig()
	mp, err := traj.ParseMissingPolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}
	cfg.MissingPolicy = mp

	if *configPath != "" {
		tc, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		tc.Apply(&cfg)
		if tc.BlockDuration != nil {
			*tblock = *tc.BlockDuration
		}
		if tc.StartTime != nil {
			*tstart = *tc.StartTime
		}
		if tc.LinearFill != nil {
			*linearFill = *tc.LinearFill
		}
	}

	tr, rep, err := fit(*samplesPath, cfg)
	if err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	log.Printf("fit: %d blocks over [%g, %g], status=%s, residual=%.4g, iterations=%d",
		tr.NumBlocks(), tr.StartTime(), tr.NodeTime(tr.NumBlocks()),
		rep.Status, rep.ResidualNorm, rep.Iterations)
	if rep.Warning != nil {
		log.Printf("warning: %v", rep.Warning)
	}

	if *outPath != "" {
		if err := writePoses(*outPath, tr); err != nil {
			log.Fatalf("failed to write poses: %v", err)
		}
		log.Printf("wrote sampled poses to %s", *outPath)
	}

	if *dbPath != "" {
		db, err := trajdb.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		runID, err := db.InsertFitRun(tr, cfg, rep)
		if err != nil {
			log.Fatalf("failed to persist fit: %v", err)
		}
		log.Printf("persisted fit run %s to %s", runID, *dbPath)
	}

	if *reportPath != "" {
		if err := report.WriteHTML(*reportPath, tr, rep); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		log.Printf("wrote fit report to %s", *reportPath)
	}

	if *listen != "" {
		srv := api.NewServer(tr)
		log.Printf("serving pose API on %s", *listen)
		if err := http.ListenAndServe(*listen, srv.ServeMux()); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}
}

func fit(path string, cfg traj.FitConfig) (*traj.Trajectory, *traj.FitReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	samples, err := ingest.ReadSamples(f)
	if err != nil {
		return nil, nil, err
	}
	tr, err := ingest.BuildTrajectory(samples, *tblock, *tstart)
	if err != nil {
		return nil, nil, err
	}
	if err := tr.FillMissing(*linearFill); err != nil {
		return nil, nil, err
	}
	rep, err := tr.Solve(cfg)
	if err != nil {
		return nil, nil, err
	}
	return tr, rep, nil
}

func writePoses(path string, tr *traj.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"t", "x", "y", "z", "vx", "vy", "vz", "ax", "ay", "az"}); err != nil {
		return err
	}
	n := tr.NumBlocks() * *perBlock
	for i := 0; i <= n; i++ {
		t := tr.StartTime() + float64(i)*tr.BlockDuration()/float64(*perBlock)
		pos, vel, acc, err := tr.PositionVelocityAccel(t)
		if err != nil {
			return err
		}
		row := []string{
			fmt.Sprintf("%g", t),
			fmt.Sprintf("%g", pos[0]), fmt.Sprintf("%g", pos[1]), fmt.Sprintf("%g", pos[2]),
			fmt.Sprintf("%g", vel[0]), fmt.Sprintf("%g", vel[1]), fmt.Sprintf("%g", vel[2]),
			fmt.Sprintf("%g", acc[0]), fmt.Sprintf("%g", acc[1]), fmt.Sprintf("%g", acc[2]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
