// Package analysis composes calibration, error evaluation and surface
// construction into the single pipeline call external reporting and plotting
// tools consume.
package analysis

import (
	"github.com/san-kum/fraclocus/internal/calib"
	"github.com/san-kum/fraclocus/internal/khps2"
	"github.com/san-kum/fraclocus/internal/locus"
)

// Request carries everything one analysis run needs. It is passed by value
// into Run; there is no process-wide configuration.
type Request struct {
	Dataset  *calib.Dataset
	InitialG khps2.Params
	Bounds   khps2.Bounds
	Solver   calib.SolverConfig
	Surface  locus.Spec
}

// Bundle is the consolidated result of one analysis run.
type Bundle struct {
	Calibration      *calib.Result
	Errors           *ErrorReport
	Surface          *locus.Grid
	PlaneStress      locus.Curve
	PlaneStressState locus.Curve
}

// Run calibrates the parameters, then derives the error report, locus
// surface and plane-stress curves from the calibrated vector. Configuration
// problems abort before any computation; a non-converged fit still yields a
// complete bundle built from the best-found parameters.
func Run(req Request) (*Bundle, error) {
	result, err := calib.NewCalibrator(req.Solver).Calibrate(req.Dataset, req.InitialG, req.Bounds)
	if err != nil {
		return nil, err
	}
	g := result.G

	surface, err := locus.BuildSurface(g, req.Surface)
	if err != nil {
		return nil, err
	}
	planeStress, err := locus.BuildPlaneStressCurve(g, req.Surface.EtaRange, req.Surface.Epsilon)
	if err != nil {
		return nil, err
	}
	planeState, err := locus.BuildPlaneStressStateCurve(g, req.Surface.EtaRange.Samples, req.Surface.Epsilon)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Calibration:      result,
		Errors:           EvaluateErrors(g, req.Dataset, req.Solver.Epsilon),
		Surface:          surface,
		PlaneStress:      planeStress,
		PlaneStressState: planeState,
	}, nil
}
