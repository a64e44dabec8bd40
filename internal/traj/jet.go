package traj

// Scalar is the numeric ring the cubic evaluator and the constraint
// residuals are written over. Evaluating with Real gives plain values;
// evaluating with Jet additionally carries first derivatives through the
// same arithmetic, which is how the solver obtains exact residual
// Jacobians without a separate hand-derived gradient.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Scale(float64) T
}

// Real is a plain float64 viewed as a Scalar.
type Real float64

// Add returns a + b.
func (a Real) Add(b Real) Real { return a + b }

// Sub returns a - b.
func (a Real) Sub(b Real) Real { return a - b }

// Scale returns a * c.
func (a Real) Scale(c float64) Real { return a * Real(c) }

// Jet is a forward-mode dual number: a value plus its gradient with
// respect to a small set of local parameters. The name follows the type
// nonlinear least-squares libraries thread through templated residual
// functors for automatic differentiation.
type Jet struct {
	Val  float64
	Grad []float64
}

// NewJet returns a jet seeded as the k-th of n independent parameters,
// i.e. with gradient e_k.
func NewJet(val float64, n, k int) Jet {
	g := make([]float64, n)
	g[k] = 1
	return Jet{Val: val, Grad: g}
}

// ConstJet returns a jet with value val and zero gradient over n parameters.
func ConstJet(val float64, n int) Jet {
	return Jet{Val: val, Grad: make([]float64, n)}
}

// Add returns a + b. Both jets must be seeded over the same parameter set.
func (a Jet) Add(b Jet) Jet {
	g := make([]float64, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i] + b.Grad[i]
	}
	return Jet{Val: a.Val + b.Val, Grad: g}
}

// Sub returns a - b.
func (a Jet) Sub(b Jet) Jet {
	g := make([]float64, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i] - b.Grad[i]
	}
	return Jet{Val: a.Val - b.Val, Grad: g}
}

// Scale returns a * c.
func (a Jet) Scale(c float64) Jet {
	g := make([]float64, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i] * c
	}
	return Jet{Val: a.Val * c, Grad: g}
}
