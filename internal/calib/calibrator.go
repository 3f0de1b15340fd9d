package calib

import (
	"fmt"
	"math"

	"github.com/san-kum/fraclocus/internal/khps2"
	"github.com/san-kum/fraclocus/internal/optim"
)

// SolverConfig controls the bounded least-squares fit. Observer, when set,
// is called after every accepted solver iteration; the calibrator itself
// never writes diagnostics anywhere.
type SolverConfig struct {
	FTol     float64
	XTol     float64
	MaxEvals int
	Epsilon  float64 // denominator floor for the closed forms
	Observer optim.Observer

	// GridSeed, when positive, sweeps a GridSeed^6 grid over the bounds
	// before the fit and starts from whichever of the grid winner and the
	// supplied initial guess has lower cost. Requires finite bounds.
	GridSeed int
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		FTol:     1e-8,
		XTol:     1e-8,
		MaxEvals: 2000,
		Epsilon:  khps2.DefaultEpsilon,
	}
}

func (c SolverConfig) validate() error {
	if c.FTol <= 0 || c.XTol <= 0 {
		return fmt.Errorf("%w: tolerances must be positive (ftol=%g xtol=%g)",
			ErrSolverConfig, c.FTol, c.XTol)
	}
	if c.MaxEvals <= 0 {
		return fmt.Errorf("%w: evaluation budget must be positive (%d)",
			ErrSolverConfig, c.MaxEvals)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: denominator epsilon must be positive (%g)",
			ErrSolverConfig, c.Epsilon)
	}
	return nil
}

// Result is the outcome of a calibration run. A non-converged run is a valid
// Result carrying the best parameters found; only configuration errors abort
// a run.
type Result struct {
	G          khps2.Params
	Status     optim.Status
	Converged  bool
	Evals      int
	Iterations int
	Cost       float64
}

// Calibrator fits the six KHPS2 parameters to a specimen dataset.
type Calibrator struct {
	cfg SolverConfig
}

func NewCalibrator(cfg SolverConfig) *Calibrator {
	return &Calibrator{cfg: cfg}
}

// Calibrate runs the bounded least-squares fit seeded at initial. All
// configuration problems (empty dataset, bad tolerances, inverted bounds,
// seed outside bounds) are rejected before the solver makes a single
// function evaluation.
func (c *Calibrator) Calibrate(ds *Dataset, initial khps2.Params, bounds khps2.Bounds) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if err := bounds.Check(initial); err != nil {
		return nil, fmt.Errorf("initial guess: %w", err)
	}

	eps := c.cfg.Epsilon
	problem := optim.Problem{
		Dim:  khps2.NumParams,
		Size: ds.Len(),
		Func: func(dst, x []float64) {
			var g khps2.Params
			copy(g[:], x)
			FillResiduals(dst, g, ds, eps)
		},
		Lower: bounds.Lower.Slice(),
		Upper: bounds.Upper.Slice(),
	}
	settings := optim.Settings{
		FTol:     c.cfg.FTol,
		XTol:     c.cfg.XTol,
		MaxEvals: c.cfg.MaxEvals,
		Observer: c.cfg.Observer,
	}

	start := initial.Slice()
	if c.cfg.GridSeed > 0 {
		seed, seedCost, err := optim.GridSeed(problem, c.cfg.GridSeed)
		if err != nil {
			return nil, err
		}
		r := make([]float64, ds.Len())
		problem.Func(r, start)
		if seedCost < halfSquaredNorm(r) {
			start = seed
		}
	}

	sol, err := optim.LeastSquares(problem, settings, start)
	if err != nil {
		return nil, err
	}

	g, err := khps2.FromSlice(sol.X)
	if err != nil {
		return nil, err
	}
	return &Result{
		G:          g,
		Status:     sol.Status,
		Converged:  sol.Status.Converged(),
		Evals:      sol.Evals,
		Iterations: sol.Iterations,
		Cost:       sol.Cost,
	}, nil
}

func halfSquaredNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return 0.5 * s
}

// RMSResidual is the root-mean-square residual implied by a Result cost.
func (r *Result) RMSResidual(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(2 * r.Cost / float64(n))
}
