// Package trajdb persists trajectory fit runs to sqlite: the fit
// configuration and outcome, plus the observed and solved per-node
// states, so a fit can be reloaded, audited and queried without
// re-solving.
package trajdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

// DB wraps the sqlite handle.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the fit database at path and brings
// its schema up to date.
func NewDB(path string) (*DB, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sdb}
	if err := db.migrateUp(); err != nil {
		sdb.Close()
		return nil, err
	}
	return db, nil
}

// FitRun is one stored fit.
type FitRun struct {
	ID            string
	CreatedAt     time.Time
	NumBlocks     int
	BlockDuration float64
	StartTime     float64
	Config        traj.FitConfig
	Converged     bool
	Status        string
	Iterations    int
	ResidualNorm  float64
}

// InsertFitRun stores a solved trajectory with the configuration it was
// solved under and the resulting report, and returns the new run ID.
// Observed node values are snapshotted alongside the solved ones; nodes
// flagged missing store NULL observations.
func (db *DB) InsertFitRun(tr *traj.Trajectory, cfg traj.FitConfig, report *traj.FitReport) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO fit_runs (id, num_blocks, block_duration, start_time,
			position_weight, velocity_weight, constraint_weight, missing_policy,
			gradient_tolerance, max_iterations,
			converged, status, iterations, residual_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, tr.NumBlocks(), tr.BlockDuration(), tr.StartTime(),
		cfg.PositionWeight, cfg.VelocityWeight, cfg.ConstraintWeight, cfg.MissingPolicy.String(),
		cfg.GradientTolerance, cfg.MaxIterations,
		report.Converged, report.Status, report.Iterations, report.ResidualNorm)
	if err != nil {
		return "", fmt.Errorf("failed to insert fit run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fit_nodes (run_id, node, missing,
			obs_x, obs_y, obs_z, obs_vx, obs_vy, obs_vz,
			x, y, z, vx, vy, vz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < tr.NumNodes(); i++ {
		obs, err := tr.ObservedSample(i)
		if err != nil {
			return "", err
		}
		sol, err := tr.Sample(i)
		if err != nil {
			return "", err
		}
		var obsVals [2 * traj.Dim]interface{}
		if !obs.Missing {
			for axis := 0; axis < traj.Dim; axis++ {
				obsVals[axis] = obs.Position[axis]
				obsVals[traj.Dim+axis] = obs.Velocity[axis]
			}
		}
		_, err = stmt.Exec(runID, i, obs.Missing,
			obsVals[0], obsVals[1], obsVals[2], obsVals[3], obsVals[4], obsVals[5],
			sol.Position[0], sol.Position[1], sol.Position[2],
			sol.Velocity[0], sol.Velocity[1], sol.Velocity[2])
		if err != nil {
			return "", fmt.Errorf("failed to insert node %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit fit run: %w", err)
	}
	return runID, nil
}

// LoadFitRun reloads a stored fit as a queryable trajectory, observation
// snapshots included.
func (db *DB) LoadFitRun(runID string) (*traj.Trajectory, *FitRun, error) {
	run := FitRun{ID: runID}
	var policy string
	err := db.QueryRow(`
		SELECT created_at, num_blocks, block_duration, start_time,
			position_weight, velocity_weight, constraint_weight, missing_policy,
			gradient_tolerance, max_iterations,
			converged, status, iterations, residual_norm
		FROM fit_runs WHERE id = ?`, runID).Scan(
		&run.CreatedAt, &run.NumBlocks, &run.BlockDuration, &run.StartTime,
		&run.Config.PositionWeight, &run.Config.VelocityWeight, &run.Config.ConstraintWeight, &policy,
		&run.Config.GradientTolerance, &run.Config.MaxIterations,
		&run.Converged, &run.Status, &run.Iterations, &run.ResidualNorm)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fit run %s: %w", runID, err)
	}
	run.Config.MissingPolicy, err = traj.ParseMissingPolicy(policy)
	if err != nil {
		return nil, nil, fmt.Errorf("fit run %s: %w", runID, err)
	}

	rows, err := db.Query(`
		SELECT node, missing,
			obs_x, obs_y, obs_z, obs_vx, obs_vy, obs_vz,
			x, y, z, vx, vy, vz
		FROM fit_nodes WHERE run_id = ? ORDER BY node`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load nodes for %s: %w", runID, err)
	}
	defer rows.Close()

	nodes := make([]traj.RestoredNode, 0, run.NumBlocks+1)
	for rows.Next() {
		var node int
		var n traj.RestoredNode
		var obs [2 * traj.Dim]sql.NullFloat64
		if err := rows.Scan(&node, &n.Observed.Missing,
			&obs[0], &obs[1], &obs[2], &obs[3], &obs[4], &obs[5],
			&n.Solved.Position[0], &n.Solved.Position[1], &n.Solved.Position[2],
			&n.Solved.Velocity[0], &n.Solved.Velocity[1], &n.Solved.Velocity[2]); err != nil {
			return nil, nil, fmt.Errorf("failed to scan node: %w", err)
		}
		if node != len(nodes) {
			return nil, nil, fmt.Errorf("fit run %s has a gap at node %d", runID, len(nodes))
		}
		if !n.Observed.Missing {
			for axis := 0; axis < traj.Dim; axis++ {
				n.Observed.Position[axis] = obs[axis].Float64
				n.Observed.Velocity[axis] = obs[traj.Dim+axis].Float64
			}
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	tr, err := traj.Restore(run.NumBlocks, run.BlockDuration, run.StartTime, nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("stored fit run %s is invalid: %w", runID, err)
	}
	return tr, &run, nil
}

// ListFitRuns returns all stored runs, newest first.
func (db *DB) ListFitRuns() ([]FitRun, error) {
	rows, err := db.Query(`
		SELECT id, created_at, num_blocks, block_duration, start_time,
			converged, status, iterations, residual_norm
		FROM fit_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit runs: %w", err)
	}
	defer rows.Close()

	var runs []FitRun
	for rows.Next() {
		var run FitRun
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.NumBlocks, &run.BlockDuration,
			&run.StartTime, &run.Converged, &run.Status, &run.Iterations, &run.ResidualNorm); err != nil {
			return nil, fmt.Errorf("failed to scan fit run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
