package traj

import "errors"

var (
	// ErrTooFewBlocks is returned when a trajectory is constructed with
	// fewer than two blocks; there is no interior boundary to constrain.
	ErrTooFewBlocks = errors.New("traj: trajectory needs at least 2 blocks")

	// ErrBlockDuration is returned for a non-positive block duration.
	ErrBlockDuration = errors.New("traj: block duration must be positive")

	// ErrNodeRange is returned when a sample index is outside [0, num].
	ErrNodeRange = errors.New("traj: node index out of range")

	// ErrNoObservedNodes is returned by FillMissing when every node is
	// flagged missing and no extrapolation source exists.
	ErrNoObservedNodes = errors.New("traj: all nodes missing, nothing to fill from")

	// ErrTimeNaN is returned by the query methods for a NaN query time
	// instead of propagating NaN through the evaluator.
	ErrTimeNaN = errors.New("traj: query time is NaN")

	// ErrNotConverged is reported (wrapped, with the solver status) in a
	// FitReport when the solver stops before reaching its tolerance. The
	// fit retains the best iterate and remains usable.
	ErrNotConverged = errors.New("traj: solver did not converge")
)
