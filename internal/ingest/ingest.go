// Package ingest loads node samples from CSV onto the uniform block grid
// a trajectory is fitted over. The expected layout is one row per node:
//
//	node,x,y,z,vx,vy,vz,missing
//
// Rows may arrive in any order; nodes without a row are treated as
// missing, as are rows with missing=true (whose value columns may be
// empty).
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

// NodeSample is one parsed CSV row.
type NodeSample struct {
	Node   int
	Sample traj.Sample
}

// ReadSamples parses node samples from r. A header row is detected and
// skipped.
func ReadSamples(r io.Reader) ([]NodeSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var out []NodeSample
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(record[0], "node") {
			continue
		}
		ns, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, ns)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no samples in input")
	}
	return out, nil
}

func parseRecord(record []string) (NodeSample, error) {
	if len(record) < 7 {
		return NodeSample{}, fmt.Errorf("expected at least 7 fields, got %d", len(record))
	}

	node, err := strconv.Atoi(record[0])
	if err != nil {
		return NodeSample{}, fmt.Errorf("bad node index %q: %v", record[0], err)
	}
	if node < 0 {
		return NodeSample{}, fmt.Errorf("negative node index %d", node)
	}

	ns := NodeSample{Node: node}
	if len(record) >= 8 {
		missing, err := strconv.ParseBool(strings.TrimSpace(record[7]))
		if err != nil && record[7] != "" {
			return NodeSample{}, fmt.Errorf("bad missing flag %q: %v", record[7], err)
		}
		ns.Sample.Missing = missing
	}
	if ns.Sample.Missing {
		return ns, nil
	}

	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return NodeSample{}, fmt.Errorf("bad value %q in field %d: %v", record[i+1], i+1, err)
		}
		vals[i] = v
	}
	ns.Sample.Position = traj.Vec{vals[0], vals[1], vals[2]}
	ns.Sample.Velocity = traj.Vec{vals[3], vals[4], vals[5]}
	return ns, nil
}

// BuildTrajectory places samples onto a fresh trajectory with the given
// timing. The block count is the highest node index seen; nodes without
// a sample stay flagged missing.
func BuildTrajectory(samples []NodeSample, tblock, tstart float64) (*traj.Trajectory, error) {
	maxNode := 0
	for _, s := range samples {
		if s.Node > maxNode {
			maxNode = s.Node
		}
	}

	tr, err := traj.New(maxNode, tblock, tstart)
	if err != nil {
		return nil, err
	}
	for _, s := range samples {
		if err := tr.SetSample(s.Node, s.Sample); err != nil {
			return nil, fmt.Errorf("node %d: %w", s.Node, err)
		}
	}
	return tr, nil
}
