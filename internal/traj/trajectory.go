package traj

import (
	"fmt"
	"math"
)

// Sample is one node observation: platform position and velocity at a
// block boundary. Velocity is in physical units (position units per
// second). Missing marks a node whose values were not observed and must
// be inferred; FillMissing overwrites the values of flagged nodes but
// never clears the flag, so the fit driver can still treat those nodes
// specially when wiring constraints.
type Sample struct {
	Position Vec
	Velocity Vec
	Missing  bool
}

type fitState int

const (
	stateUnbuilt fitState = iota
	stateFilled
	stateSolved
)

// Trajectory is a piecewise-cubic fit of a platform trajectory over num
// uniform blocks of duration tblock starting at tstart. There are num+1
// sample nodes; adjacent blocks share their boundary node.
//
// Lifecycle: construct, populate samples, FillMissing, Solve, then query.
// Once solved the trajectory is never mutated again, so the query methods
// are safe for concurrent readers.
//
// Node velocities are held internally in normalized per-block units
// (position units per block), which is what the endpoint cubic and the
// continuity constraints operate on; the public Sample and query
// interfaces use physical units.
type Trajectory struct {
	num    int
	tblock float64
	tstart float64

	r       []Vec
	v       []Vec
	missing []bool

	// obs snapshots each node's observation as given to SetSample. Fill
	// and solve never touch it, so the inputs to a fit stay auditable
	// after the node states have been refined.
	obs []Sample

	state fitState
}

// New constructs an empty trajectory with num blocks of duration tblock
// starting at absolute time tstart. All nodes start flagged missing.
func New(num int, tblock, tstart float64) (*Trajectory, error) {
	if num < 2 {
		return nil, ErrTooFewBlocks
	}
	if !(tblock > 0) {
		return nil, ErrBlockDuration
	}
	tr := &Trajectory{
		num:     num,
		tblock:  tblock,
		tstart:  tstart,
		r:       make([]Vec, num+1),
		v:       make([]Vec, num+1),
		missing: make([]bool, num+1),
		obs:     make([]Sample, num+1),
	}
	for i := range tr.missing {
		tr.missing[i] = true
		tr.obs[i].Missing = true
	}
	return tr, nil
}

// RestoredNode pairs the observation and solved state of one node, as
// needed to rebuild a persisted fit.
type RestoredNode struct {
	Observed Sample
	Solved   Sample
}

// Restore reconstructs a solved trajectory from persisted node states
// without re-running the solver. nodes must hold one entry per node.
func Restore(num int, tblock, tstart float64, nodes []RestoredNode) (*Trajectory, error) {
	tr, err := New(num, tblock, tstart)
	if err != nil {
		return nil, err
	}
	if len(nodes) != tr.NumNodes() {
		return nil, fmt.Errorf("traj: restore needs %d nodes, got %d", tr.NumNodes(), len(nodes))
	}
	for i, n := range nodes {
		tr.obs[i] = n.Observed
		tr.missing[i] = n.Observed.Missing
		tr.r[i] = n.Solved.Position
		tr.v[i] = n.Solved.Velocity.Scale(tblock)
	}
	tr.state = stateSolved
	return tr, nil
}

// NumBlocks returns the number of cubic blocks.
func (tr *Trajectory) NumBlocks() int { return tr.num }

// NumNodes returns the number of sample nodes (NumBlocks + 1).
func (tr *Trajectory) NumNodes() int { return tr.num + 1 }

// BlockDuration returns the uniform block duration.
func (tr *Trajectory) BlockDuration() float64 { return tr.tblock }

// StartTime returns the absolute time of node 0.
func (tr *Trajectory) StartTime() float64 { return tr.tstart }

// NodeTime returns the absolute time of node i.
func (tr *Trajectory) NodeTime(i int) float64 {
	return tr.tstart + float64(i)*tr.tblock
}

// Solved reports whether the trajectory has been refined by Solve.
func (tr *Trajectory) Solved() bool { return tr.state == stateSolved }

// SetSample records an observation at node i and clears its missing flag.
func (tr *Trajectory) SetSample(i int, s Sample) error {
	if i < 0 || i > tr.num {
		return ErrNodeRange
	}
	tr.r[i] = s.Position
	tr.v[i] = s.Velocity.Scale(tr.tblock)
	tr.missing[i] = s.Missing
	tr.obs[i] = s
	return nil
}

// ObservedSample returns the observation recorded for node i by
// SetSample, untouched by FillMissing and Solve.
func (tr *Trajectory) ObservedSample(i int) (Sample, error) {
	if i < 0 || i > tr.num {
		return Sample{}, ErrNodeRange
	}
	return tr.obs[i], nil
}

// Sample returns the current state of node i, with velocity converted
// back to physical units.
func (tr *Trajectory) Sample(i int) (Sample, error) {
	if i < 0 || i > tr.num {
		return Sample{}, ErrNodeRange
	}
	return Sample{
		Position: tr.r[i],
		Velocity: tr.v[i].Scale(1 / tr.tblock),
		Missing:  tr.missing[i],
	}, nil
}

// Missing reports whether node i is flagged missing. Out-of-range nodes
// report false.
func (tr *Trajectory) Missing(i int) bool {
	if i < 0 || i > tr.num {
		return false
	}
	return tr.missing[i]
}

// BlockIndex maps an absolute time to a (block index, normalized offset)
// pair. Indices are clamped at both ends so out-of-range times
// extrapolate along the nearest boundary block.
func (tr *Trajectory) BlockIndex(t float64) (int, float64) {
	return blockIndex(t, tr.tblock, tr.tstart, tr.num)
}

// Position returns the fitted position at time t.
func (tr *Trajectory) Position(t float64) (Vec, error) {
	if math.IsNaN(t) {
		return Vec{}, ErrTimeNaN
	}
	i, tf := tr.BlockIndex(t)
	return endPointCubicVec(tr.r[i], tr.v[i], tr.r[i+1], tr.v[i+1], tf, nil, nil), nil
}

// PositionVelocity returns the fitted position and velocity at time t.
func (tr *Trajectory) PositionVelocity(t float64) (Vec, Vec, error) {
	if math.IsNaN(t) {
		return Vec{}, Vec{}, ErrTimeNaN
	}
	i, tf := tr.BlockIndex(t)
	var vel Vec
	pos := endPointCubicVec(tr.r[i], tr.v[i], tr.r[i+1], tr.v[i+1], tf, &vel, nil)
	return pos, vel.Scale(1 / tr.tblock), nil
}

// PositionVelocityAccel returns the fitted position, velocity and
// acceleration at time t.
func (tr *Trajectory) PositionVelocityAccel(t float64) (Vec, Vec, Vec, error) {
	if math.IsNaN(t) {
		return Vec{}, Vec{}, Vec{}, ErrTimeNaN
	}
	i, tf := tr.BlockIndex(t)
	var vel, acc Vec
	pos := endPointCubicVec(tr.r[i], tr.v[i], tr.r[i+1], tr.v[i+1], tf, &vel, &acc)
	return pos, vel.Scale(1 / tr.tblock), acc.Scale(1 / (tr.tblock * tr.tblock)), nil
}
