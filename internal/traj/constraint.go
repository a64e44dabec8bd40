package traj

// The two continuity constraints below are consumed as soft equality
// constraints (target zero) by the fit driver. Each one couples the
// position/velocity state of three consecutive nodes a, b, c, so the
// resulting normal equations stay banded no matter how long the
// trajectory is. Velocities are in normalized per-block units throughout.

// accelJump is the jump in acceleration across the node b between the
// block ending at b and the block starting at b:
//
//	8/tblock^2 * ((3*(rc-ra) - (vc+va)) / 4 - vb)
//
// With scale = 2/tblock^2 the zero-jump condition becomes
// scale * (3*(rc-ra) - (vc+va) - 4*vb) = 0.
func accelJump[T Scalar[T]](scale float64, ra, va, vb, rc, vc T) T {
	return rc.Sub(ra).Scale(3).Sub(vc.Add(va)).Sub(vb.Scale(4)).Scale(scale)
}

// jerkJump is proportional to the jump in the third derivative across b:
//
//	(4*rb - 2*(rc+ra) + (vc-va)) / tblock^3
//
// with scale = 1/tblock^3.
func jerkJump[T Scalar[T]](scale float64, ra, va, rb, rc, vc T) T {
	return rb.Scale(4).Sub(rc.Add(ra).Scale(2)).Add(vc.Sub(va)).Scale(scale)
}

// AccelJumpConstraint generates the residual that forces the fitted curve
// to be C2-continuous at an interior node. Used at ordinary boundaries
// where the centre node was observed.
type AccelJumpConstraint struct {
	scale float64
}

// NewAccelJumpConstraint returns the constraint for blocks of duration
// tblock.
func NewAccelJumpConstraint(tblock float64) AccelJumpConstraint {
	return AccelJumpConstraint{scale: 2 / (tblock * tblock)}
}

// Residual returns one residual per spatial axis given position/velocity
// at node a, velocity at the centre node b, and position/velocity at
// node c.
func (c AccelJumpConstraint) Residual(ra, va, vb, rc, vc Vec) Vec {
	var res Vec
	for i := 0; i < Dim; i++ {
		res[i] = float64(accelJump(c.scale, Real(ra[i]), Real(va[i]), Real(vb[i]), Real(rc[i]), Real(vc[i])))
	}
	return res
}

// AccelJumpAt returns the acceleration-jump residual at interior
// boundary b (1..NumBlocks-1) for the current node states. Near zero on
// a solved trajectory at boundaries carrying the acceleration constraint.
func (tr *Trajectory) AccelJumpAt(b int) (Vec, error) {
	if b < 1 || b >= tr.num {
		return Vec{}, ErrNodeRange
	}
	c := NewAccelJumpConstraint(tr.tblock)
	return c.Residual(tr.r[b-1], tr.v[b-1], tr.v[b], tr.r[b+1], tr.v[b+1]), nil
}

// ClampConstraint generates the residual that pins the jump in the third
// derivative (jerk) at a node. Wired at boundaries whose centre node has
// no real observation (and usable as a clamped end condition), where the
// acceleration constraint would anchor the fit to invented data.
type ClampConstraint struct {
	scale float64
}

// NewClampConstraint returns the constraint for blocks of duration tblock.
func NewClampConstraint(tblock float64) ClampConstraint {
	return ClampConstraint{scale: 1 / (tblock * tblock * tblock)}
}

// Residual returns one residual per spatial axis given position/velocity
// at node a, position at the centre node b, and position/velocity at
// node c.
func (c ClampConstraint) Residual(ra, va, rb, rc, vc Vec) Vec {
	var res Vec
	for i := 0; i < Dim; i++ {
		res[i] = float64(jerkJump(c.scale, Real(ra[i]), Real(va[i]), Real(rb[i]), Real(rc[i]), Real(vc[i])))
	}
	return res
}
