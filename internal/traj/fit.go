package traj

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// MissingPolicy selects which continuity constraint is wired at an
// interior boundary whose centre node is flagged missing. Boundaries with
// an observed centre node always get the acceleration-jump constraint.
type MissingPolicy int

const (
	// MissingClamp wires the jerk clamp constraint at missing-node
	// boundaries: with no real observation anchoring the node, the fit is
	// steadier when the third derivative is pinned instead of the
	// acceleration.
	MissingClamp MissingPolicy = iota

	// MissingAccelJump wires the ordinary acceleration-jump constraint
	// everywhere, treating filled nodes like observed ones.
	MissingAccelJump
)

func (p MissingPolicy) String() string {
	if p == MissingAccelJump {
		return "acceljump"
	}
	return "clamp"
}

// ParseMissingPolicy parses the textual policy names used by the CLI,
// config files and the fit store.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "clamp":
		return MissingClamp, nil
	case "acceljump":
		return MissingAccelJump, nil
	}
	return MissingClamp, fmt.Errorf("traj: unknown missing policy %q", s)
}

// FitConfig holds the weights and stopping criteria for Solve.
type FitConfig struct {
	// PositionWeight and VelocityWeight scale the anchor residuals tying
	// observed nodes to their observations.
	PositionWeight float64
	VelocityWeight float64

	// ConstraintWeight scales the continuity residuals. The constraints
	// are soft equality constraints; raising this relative to the anchor
	// weights drives the derivative jumps closer to zero.
	ConstraintWeight float64

	// MissingPolicy selects the constraint used at boundaries centred on
	// missing nodes.
	MissingPolicy MissingPolicy

	// GradientTolerance is the solver's convergence threshold on the
	// objective gradient norm.
	GradientTolerance float64

	// MaxIterations caps the solver's major iterations.
	MaxIterations int
}

// DefaultFitConfig returns the weights used by the command-line tools.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		PositionWeight:    1.0,
		VelocityWeight:    1.0,
		ConstraintWeight:  100.0,
		MissingPolicy:     MissingClamp,
		GradientTolerance: 1e-8,
		MaxIterations:     1000,
	}
}

// FitReport summarises the outcome of Solve.
type FitReport struct {
	Converged    bool
	Status       string
	Iterations   int
	FuncEvals    int
	ResidualNorm float64

	// Warning wraps ErrNotConverged when the solver stopped before
	// reaching its tolerance. The fit keeps the best iterate and remains
	// queryable; callers may reject low-confidence fits.
	Warning error
}

// Residual kinds assembled by Solve. Anchors tie a single parameter to
// its observed value; the constraint kinds couple the ten parameters of
// three consecutive nodes per axis.
type resKind int

const (
	resAnchor resKind = iota
	resAccelJump
	resClamp
)

// resBlock is one scalar residual of the least-squares problem.
type resBlock struct {
	kind   resKind
	scale  float64
	idx    []int   // global parameter indices, in functor argument order
	target float64 // observed value for anchors
}

func (b *resBlock) value(x []float64) float64 {
	switch b.kind {
	case resAnchor:
		return b.scale * (x[b.idx[0]] - b.target)
	case resAccelJump:
		return float64(accelJump(b.scale,
			Real(x[b.idx[0]]), Real(x[b.idx[1]]), Real(x[b.idx[2]]),
			Real(x[b.idx[3]]), Real(x[b.idx[4]])))
	default:
		return float64(jerkJump(b.scale,
			Real(x[b.idx[0]]), Real(x[b.idx[1]]), Real(x[b.idx[2]]),
			Real(x[b.idx[3]]), Real(x[b.idx[4]])))
	}
}

// jet evaluates the residual on jets seeded over the block's local
// parameters, yielding the residual value and its local gradient.
func (b *resBlock) jet(x []float64) Jet {
	n := len(b.idx)
	local := make([]Jet, n)
	for k, id := range b.idx {
		local[k] = NewJet(x[id], n, k)
	}
	switch b.kind {
	case resAnchor:
		return local[0].Sub(ConstJet(b.target, n)).Scale(b.scale)
	case resAccelJump:
		return accelJump(b.scale, local[0], local[1], local[2], local[3], local[4])
	default:
		return jerkJump(b.scale, local[0], local[1], local[2], local[3], local[4])
	}
}

// Parameter packing: node i contributes Dim position parameters followed
// by Dim velocity parameters.
func posIdx(node, axis int) int { return node*2*Dim + axis }
func velIdx(node, axis int) int { return node*2*Dim + Dim + axis }

// Solve assembles and minimizes the least-squares problem over all node
// positions and velocities: anchor residuals for every observed node plus
// one continuity residual per interior boundary, chosen by the missing
// flag and cfg.MissingPolicy. On return the node values hold the best
// iterate and the trajectory is queryable.
//
// Non-convergence is not fatal: it is reported through the FitReport's
// Warning field. The returned error is reserved for assembly failures.
func (tr *Trajectory) Solve(cfg FitConfig) (*FitReport, error) {
	if tr.state == stateUnbuilt {
		return nil, fmt.Errorf("traj: FillMissing must run before Solve")
	}

	blocks := tr.buildResiduals(cfg)
	x := tr.packParams()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			var sum float64
			for i := range blocks {
				r := blocks[i].value(x)
				sum += 0.5 * r * r
			}
			return sum
		},
		Grad: func(grad, x []float64) {
			for i := range grad {
				grad[i] = 0
			}
			for i := range blocks {
				j := blocks[i].jet(x)
				for k, id := range blocks[i].idx {
					grad[id] += j.Val * j.Grad[k]
				}
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: cfg.GradientTolerance,
		MajorIterations:   cfg.MaxIterations,
	}

	result, err := optimize.Minimize(problem, x, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("traj: solver failed: %w", err)
	}

	tr.unpackParams(result.X)
	tr.state = stateSolved

	res := make([]float64, len(blocks))
	for i := range blocks {
		res[i] = blocks[i].value(result.X)
	}
	report := &FitReport{
		Status:       result.Status.String(),
		Iterations:   result.Stats.MajorIterations,
		FuncEvals:    result.Stats.FuncEvaluations,
		ResidualNorm: floats.Norm(res, 2),
	}
	switch result.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.StepConvergence, optimize.MethodConverge:
		report.Converged = err == nil
	}
	if !report.Converged {
		report.Warning = fmt.Errorf("%w: status %s after %d iterations",
			ErrNotConverged, result.Status, result.Stats.MajorIterations)
		log.Printf("traj: fit did not converge: status=%s iterations=%d residual=%g",
			result.Status, result.Stats.MajorIterations, report.ResidualNorm)
	}
	return report, nil
}

// buildResiduals wires the anchor and continuity residuals for the
// current node states.
func (tr *Trajectory) buildResiduals(cfg FitConfig) []resBlock {
	blocks := make([]resBlock, 0, (tr.num+1)*2*Dim)

	// Anchors for observed nodes only; filled nodes are held in place by
	// the continuity constraints alone.
	for i := 0; i <= tr.num; i++ {
		if tr.missing[i] {
			continue
		}
		for axis := 0; axis < Dim; axis++ {
			blocks = append(blocks, resBlock{
				kind:   resAnchor,
				scale:  cfg.PositionWeight,
				idx:    []int{posIdx(i, axis)},
				target: tr.r[i][axis],
			})
			blocks = append(blocks, resBlock{
				kind:   resAnchor,
				scale:  cfg.VelocityWeight,
				idx:    []int{velIdx(i, axis)},
				target: tr.v[i][axis],
			})
		}
	}

	accelScale := cfg.ConstraintWeight * 2 / (tr.tblock * tr.tblock)
	clampScale := cfg.ConstraintWeight / (tr.tblock * tr.tblock * tr.tblock)

	// One continuity residual per interior boundary b, coupling nodes
	// a=b-1, b, c=b+1.
	for b := 1; b < tr.num; b++ {
		a, c := b-1, b+1
		useClamp := tr.missing[b] && cfg.MissingPolicy == MissingClamp
		for axis := 0; axis < Dim; axis++ {
			if useClamp {
				blocks = append(blocks, resBlock{
					kind:  resClamp,
					scale: clampScale,
					idx: []int{
						posIdx(a, axis), velIdx(a, axis), posIdx(b, axis),
						posIdx(c, axis), velIdx(c, axis),
					},
				})
			} else {
				blocks = append(blocks, resBlock{
					kind:  resAccelJump,
					scale: accelScale,
					idx: []int{
						posIdx(a, axis), velIdx(a, axis), velIdx(b, axis),
						posIdx(c, axis), velIdx(c, axis),
					},
				})
			}
		}
	}
	return blocks
}

func (tr *Trajectory) packParams() []float64 {
	x := make([]float64, (tr.num+1)*2*Dim)
	for i := 0; i <= tr.num; i++ {
		for axis := 0; axis < Dim; axis++ {
			x[posIdx(i, axis)] = tr.r[i][axis]
			x[velIdx(i, axis)] = tr.v[i][axis]
		}
	}
	return x
}

func (tr *Trajectory) unpackParams(x []float64) {
	for i := 0; i <= tr.num; i++ {
		for axis := 0; axis < Dim; axis++ {
			tr.r[i][axis] = x[posIdx(i, axis)]
			tr.v[i][axis] = x[velIdx(i, axis)]
		}
	}
}
