package calib

import "errors"

// Domain errors for dataset and solver configuration.
var (
	// ErrEmptyDataset indicates a calibration attempt without specimens.
	ErrEmptyDataset = errors.New("calib: empty specimen dataset")

	// ErrDuplicateSpecimen indicates a reused specimen name.
	ErrDuplicateSpecimen = errors.New("calib: duplicate specimen name")

	// ErrSpecimenName indicates a specimen without a name.
	ErrSpecimenName = errors.New("calib: specimen name must not be empty")

	// ErrInvariantRange indicates a normalized third invariant outside [-1, 1].
	ErrInvariantRange = errors.New("calib: normalized third invariant outside [-1, 1]")

	// ErrSolverConfig indicates non-positive tolerances or evaluation budget.
	ErrSolverConfig = errors.New("calib: invalid solver configuration")
)
