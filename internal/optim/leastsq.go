// Package optim implements box-constrained nonlinear least squares via a
// projected Levenberg-Marquardt iteration with a forward-difference Jacobian.
package optim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBadProblem indicates inconsistent problem dimensions.
	ErrBadProblem = errors.New("optim: invalid problem definition")

	// ErrBadSettings indicates non-positive tolerances or budget.
	ErrBadSettings = errors.New("optim: invalid solver settings")

	// ErrInfeasibleStart indicates a starting point outside the box.
	ErrInfeasibleStart = errors.New("optim: starting point outside bounds")
)

// Status reports why the iteration stopped.
type Status int

const (
	// StatusFTol: relative cost change fell below FTol.
	StatusFTol Status = iota
	// StatusXTol: parameter step fell below XTol, or damping stalled.
	StatusXTol
	// StatusMaxEvals: evaluation budget exhausted without convergence.
	StatusMaxEvals
)

func (s Status) String() string {
	switch s {
	case StatusFTol:
		return "converged (ftol)"
	case StatusXTol:
		return "converged (xtol)"
	case StatusMaxEvals:
		return "evaluation budget exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Converged reports whether the run satisfied a tolerance.
func (s Status) Converged() bool {
	return s == StatusFTol || s == StatusXTol
}

// Observer receives one call after every accepted iteration.
type Observer func(iter, evals int, cost float64, x []float64)

// Problem defines a residual vector over a box-constrained domain. Func must
// fill dst (length Size) with residuals at x (length Dim).
type Problem struct {
	Dim   int
	Size  int
	Func  func(dst, x []float64)
	Lower []float64
	Upper []float64
}

// Settings control termination of the iteration.
type Settings struct {
	FTol     float64
	XTol     float64
	MaxEvals int
	Observer Observer
}

// DefaultSettings mirrors the tolerances commonly used with this class of
// solver.
func DefaultSettings() Settings {
	return Settings{FTol: 1e-8, XTol: 1e-8, MaxEvals: 2000}
}

// Solution is the result of a LeastSquares run. X minimizes half the sum of
// squared residuals; Cost is that value at X.
type Solution struct {
	X          []float64
	Cost       float64
	Evals      int
	Iterations int
	Status     Status
}

const (
	lambdaInit     = 1e-3
	lambdaIncrease = 10.0
	lambdaDecrease = 0.3
	lambdaMin      = 1e-12
	lambdaMax      = 1e12
	diagFloor      = 1e-12
)

// LeastSquares minimizes 0.5*sum(f_i(x)^2) subject to Lower <= x <= Upper.
// Trial points are projected into the box, so every evaluation of Func sees a
// feasible x. Budget exhaustion is reported through Solution.Status, not as
// an error.
func LeastSquares(p Problem, s Settings, x0 []float64) (*Solution, error) {
	if err := validate(p, s, x0); err != nil {
		return nil, err
	}

	n, m := p.Dim, p.Size
	x := make([]float64, n)
	copy(x, x0)

	evals := 0
	eval := func(dst, x []float64) {
		p.Func(dst, x)
		evals++
	}

	r := make([]float64, m)
	eval(r, x)
	cost := halfSquaredNorm(r)

	sol := &Solution{X: make([]float64, n), Cost: cost, Status: StatusMaxEvals}

	jac := mat.NewDense(m, n, nil)
	rTrial := make([]float64, m)
	xTrial := make([]float64, n)
	step := make([]float64, n)
	lambda := lambdaInit

	for iter := 0; ; iter++ {
		if evals >= s.MaxEvals {
			break
		}

		evals += numJacobian(jac, p, x, r)

		// Normal equations: (J'J + lambda*diag(J'J)) d = -J'r.
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		grad := make([]float64, n)
		for j := 0; j < n; j++ {
			for i := 0; i < m; i++ {
				grad[j] += jac.At(i, j) * r[i]
			}
		}

		accepted := false
		var costTrial float64
		for !accepted {
			if evals >= s.MaxEvals || lambda > lambdaMax {
				break
			}

			d, ok := solveDamped(&jtj, grad, lambda, n)
			if !ok {
				lambda *= lambdaIncrease
				continue
			}

			for i := 0; i < n; i++ {
				xTrial[i] = clamp(x[i]+d[i], p.Lower[i], p.Upper[i])
				step[i] = xTrial[i] - x[i]
			}

			eval(rTrial, xTrial)
			costTrial = halfSquaredNorm(rTrial)

			if !math.IsNaN(costTrial) && costTrial < cost {
				accepted = true
				lambda = math.Max(lambda*lambdaDecrease, lambdaMin)
			} else {
				lambda *= lambdaIncrease
			}
		}

		if !accepted {
			if lambda > lambdaMax {
				// No damping level produces progress: the iterate is at a
				// stationary point of the constrained problem.
				sol.Status = StatusXTol
			}
			break
		}

		costPrev := cost
		copy(x, xTrial)
		copy(r, rTrial)
		cost = costTrial
		sol.Iterations = iter + 1

		if s.Observer != nil {
			xc := make([]float64, n)
			copy(xc, x)
			s.Observer(sol.Iterations, evals, cost, xc)
		}

		if costPrev-cost <= s.FTol*math.Max(cost, 1) {
			sol.Status = StatusFTol
			break
		}
		if norm(step) <= s.XTol*(s.XTol+norm(x)) {
			sol.Status = StatusXTol
			break
		}
	}

	sol.Cost = cost
	sol.Evals = evals
	copy(sol.X, x)
	return sol, nil
}

func validate(p Problem, s Settings, x0 []float64) error {
	if p.Dim <= 0 || p.Size <= 0 || p.Func == nil {
		return fmt.Errorf("%w: dim=%d size=%d", ErrBadProblem, p.Dim, p.Size)
	}
	if len(p.Lower) != p.Dim || len(p.Upper) != p.Dim || len(x0) != p.Dim {
		return fmt.Errorf("%w: bounds/start length mismatch", ErrBadProblem)
	}
	if s.FTol <= 0 || s.XTol <= 0 {
		return fmt.Errorf("%w: tolerances must be positive", ErrBadSettings)
	}
	if s.MaxEvals <= 0 {
		return fmt.Errorf("%w: evaluation budget must be positive", ErrBadSettings)
	}
	for i := 0; i < p.Dim; i++ {
		if p.Lower[i] > p.Upper[i] {
			return fmt.Errorf("%w: component %d", ErrBadProblem, i)
		}
		if x0[i] < p.Lower[i] || x0[i] > p.Upper[i] {
			return fmt.Errorf("%w: component %d = %g outside [%g, %g]",
				ErrInfeasibleStart, i, x0[i], p.Lower[i], p.Upper[i])
		}
	}
	return nil
}

// numJacobian fills jac with forward differences of p.Func at x, stepping
// backward for components pinned near their upper bound. Returns the number
// of function evaluations used.
func numJacobian(jac *mat.Dense, p Problem, x, r []float64) int {
	n, m := p.Dim, p.Size
	xh := make([]float64, n)
	rh := make([]float64, m)
	sqrtEps := math.Sqrt(machEps)

	for j := 0; j < n; j++ {
		h := sqrtEps * math.Max(math.Abs(x[j]), 1)
		if x[j]+h > p.Upper[j] {
			h = -h
		}
		copy(xh, x)
		xh[j] += h
		p.Func(rh, xh)
		for i := 0; i < m; i++ {
			jac.Set(i, j, (rh[i]-r[i])/h)
		}
	}
	return n
}

// solveDamped solves (A + lambda*diag(A)) d = -g via Cholesky. Diagonal
// entries are floored so the damped matrix stays positive definite even when
// A is rank deficient.
func solveDamped(a *mat.Dense, g []float64, lambda float64, n int) ([]float64, bool) {
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := a.At(i, j)
			if i == j {
				v += lambda * math.Max(a.At(i, i), diagFloor)
			}
			sym.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return nil, false
	}

	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, -g[i])
	}
	var d mat.VecDense
	if err := chol.SolveVecTo(&d, rhs); err != nil {
		return nil, false
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = d.AtVec(i)
	}
	return out, true
}

var machEps = math.Nextafter(1, 2) - 1

func halfSquaredNorm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return 0.5 * sum
}

func norm(v []float64) float64 {
	return math.Sqrt(2 * halfSquaredNorm(v))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
