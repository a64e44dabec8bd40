package traj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analytic cubic p(t) = c0 + c1*t + c2*t^2 + c3*t^3 on normalized time.
type cubicPoly struct {
	c0, c1, c2, c3 float64
}

func (p cubicPoly) at(t float64) float64 {
	return p.c0 + t*(p.c1+t*(p.c2+t*p.c3))
}

func (p cubicPoly) deriv(t float64) float64 {
	return p.c1 + t*(2*p.c2+t*3*p.c3)
}

func (p cubicPoly) deriv2(t float64) float64 {
	return 2*p.c2 + 6*p.c3*t
}

func TestEndPointCubicEndpointReduction(t *testing.T) {
	t.Parallel()

	rm, vm, rp, vp := Real(1.25), Real(-0.5), Real(3.75), Real(2.0)

	var v Real
	pos := EndPointCubic(rm, vm, rp, vp, -0.5, &v, nil)
	assert.InDelta(t, float64(rm), float64(pos), 1e-12, "t=-0.5 must reduce to start position")
	assert.InDelta(t, float64(vm), float64(v), 1e-12, "t=-0.5 must reduce to start velocity")

	pos = EndPointCubic(rm, vm, rp, vp, 0.5, &v, nil)
	assert.InDelta(t, float64(rp), float64(pos), 1e-12, "t=+0.5 must reduce to end position")
	assert.InDelta(t, float64(vp), float64(v), 1e-12, "t=+0.5 must reduce to end velocity")
}

func TestEndPointCubicMatchesAnalyticCubic(t *testing.T) {
	t.Parallel()

	p := cubicPoly{c0: 2, c1: -1, c2: 0.5, c3: 3}
	rm := Real(p.at(-0.5))
	vm := Real(p.deriv(-0.5))
	rp := Real(p.at(0.5))
	vp := Real(p.deriv(0.5))

	for _, tf := range []float64{-0.5, -0.3, -0.1, 0, 0.2, 0.5} {
		var v, a Real
		pos := EndPointCubic(rm, vm, rp, vp, tf, &v, &a)
		assert.InDelta(t, p.at(tf), float64(pos), 1e-12)
		assert.InDelta(t, p.deriv(tf), float64(v), 1e-12)
		assert.InDelta(t, p.deriv2(tf), float64(a), 1e-12)
	}
}

// The evaluator is linear in its endpoint arguments, so jet gradients can
// be checked against central finite differences of the Real evaluation.
func TestEndPointCubicJetGradient(t *testing.T) {
	t.Parallel()

	base := []float64{1.0, -2.0, 4.0, 0.5}
	tf := 0.17

	jets := make([]Jet, 4)
	for k, val := range base {
		jets[k] = NewJet(val, 4, k)
	}
	jpos := EndPointCubic(jets[0], jets[1], jets[2], jets[3], tf, nil, nil)

	rpos := EndPointCubic(Real(base[0]), Real(base[1]), Real(base[2]), Real(base[3]), tf, nil, nil)
	require.InDelta(t, float64(rpos), jpos.Val, 1e-12)

	const h = 1e-6
	for k := range base {
		hi := append([]float64(nil), base...)
		lo := append([]float64(nil), base...)
		hi[k] += h
		lo[k] -= h
		phi := EndPointCubic(Real(hi[0]), Real(hi[1]), Real(hi[2]), Real(hi[3]), tf, nil, nil)
		plo := EndPointCubic(Real(lo[0]), Real(lo[1]), Real(lo[2]), Real(lo[3]), tf, nil, nil)
		fd := float64(phi-plo) / (2 * h)
		assert.InDelta(t, fd, jpos.Grad[k], 1e-6, "gradient w.r.t. argument %d", k)
	}
}

func TestEndPointCubicVecDerivativeOutputs(t *testing.T) {
	t.Parallel()

	rm := Vec{0, 1, 2}
	vm := Vec{1, 0, -1}
	rp := Vec{2, 1, 0}
	vp := Vec{1, 2, 3}

	var v, a Vec
	pos := endPointCubicVec(rm, vm, rp, vp, -0.5, &v, &a)
	assert.InDeltaSlice(t, rm[:], pos[:], 1e-12)
	assert.InDeltaSlice(t, vm[:], v[:], 1e-12)
}
