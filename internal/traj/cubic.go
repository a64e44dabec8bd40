package traj

// EndPointCubic evaluates the cubic uniquely determined by the positions
// rm, rp and velocities vm, vp at the two ends of a block. The parameter t
// is the normalized block offset: t=0 is the block midpoint and t=±0.5 are
// its endpoints, so the coefficients come out symmetric in the endpoint
// values. Velocities (and the optional v, a outputs) are in normalized
// units, i.e. derivatives with respect to t; callers convert to physical
// units by dividing by the block duration.
//
// If v or a is non-nil it receives the first or second derivative.
func EndPointCubic[T Scalar[T]](rm, vm, rp, vp T, t float64, v, a *T) T {
	rs := rp.Add(rm)
	rd := rp.Sub(rm)
	vs := vp.Add(vm)
	vd := vp.Sub(vm)

	a0 := rs.Scale(4).Sub(vd).Scale(1.0 / 8)
	a1 := rd.Scale(6).Sub(vs).Scale(1.0 / 4)
	a2 := vd.Scale(1.0 / 2)
	a3 := vs.Sub(rd.Scale(2))

	if v != nil {
		*v = a3.Scale(3 * t).Add(a2.Scale(2)).Scale(t).Add(a1)
	}
	if a != nil {
		*a = a3.Scale(6 * t).Add(a2.Scale(2))
	}
	return a3.Scale(t).Add(a2).Scale(t).Add(a1).Scale(t).Add(a0)
}

// endPointCubicVec evaluates EndPointCubic per axis on plain vectors.
// v and a may be nil when the derivatives are not wanted.
func endPointCubicVec(rm, vm, rp, vp Vec, t float64, v, a *Vec) Vec {
	var r Vec
	for i := 0; i < Dim; i++ {
		var dv, da Real
		var pv, pa *Real
		if v != nil {
			pv = &dv
		}
		if a != nil {
			pa = &da
		}
		r[i] = float64(EndPointCubic(Real(rm[i]), Real(vm[i]), Real(rp[i]), Real(vp[i]), t, pv, pa))
		if v != nil {
			v[i] = float64(dv)
		}
		if a != nil {
			a[i] = float64(da)
		}
	}
	return r
}
