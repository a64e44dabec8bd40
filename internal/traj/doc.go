// Package traj fits a continuous, twice-differentiable piecewise-cubic
// trajectory to discrete, possibly gappy position/velocity observations
// from a sensor platform.
//
// The time axis is divided into uniform blocks, each represented by one
// cubic determined by the position and velocity at its two boundary
// nodes. Gaps are seeded by linear interpolation or extrapolation, then a
// least-squares solve refines all node states against anchor residuals on
// the observed nodes and continuity residuals (acceleration jump, or jerk
// clamp at missing-node boundaries) on every interior boundary. The
// solved trajectory can be queried for position, velocity and
// acceleration at any time; queries outside the fitted range extrapolate
// along the boundary blocks.
package traj
