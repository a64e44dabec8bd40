package traj

import "math"

// blockIndex converts an absolute time into a block index and the
// normalized offset within that block. The index is clamped to
// [0, num-1], so times before the start or past the last block evaluate
// the nearest boundary block's cubic; out-of-range queries extrapolate
// rather than fail.
func blockIndex(t, tblock, tstart float64, num int) (int, float64) {
	i := int(math.Floor((t - tstart) / tblock))
	if i < 0 {
		i = 0
	}
	if i > num-1 {
		i = num - 1
	}
	tf := (t-tstart)/tblock - (float64(i) + 0.5)
	return i, tf
}
