package analysis

import (
	"math"

	"github.com/san-kum/fraclocus/internal/calib"
	"github.com/san-kum/fraclocus/internal/khps2"
)

// SpecimenError is the calibration error for one specimen. When the measured
// fracture strain is zero the percentage error is undefined: the entry is
// flagged Degenerate and PercentError is NaN.
type SpecimenError struct {
	Residual     float64 // predicted minus measured fracture strain
	PercentError float64
	Degenerate   bool
}

// ErrorReport aggregates per-specimen calibration errors. Order preserves
// the dataset order for reporting; AggregatePercentError is the plain sum of
// the defined percentage errors (degenerate entries contribute zero).
type ErrorReport struct {
	Order                 []string
	PerSpecimen           map[string]SpecimenError
	TotalAbsResidual      float64
	AggregatePercentError float64
}

// EvaluateErrors compares the calibrated locus against every specimen.
func EvaluateErrors(g khps2.Params, ds *calib.Dataset, eps float64) *ErrorReport {
	report := &ErrorReport{
		Order:       ds.Names(),
		PerSpecimen: make(map[string]SpecimenError, ds.Len()),
	}

	for _, s := range ds.Specimens() {
		predicted := khps2.FractureStrain(g, s.Triaxiality, s.Invariant, eps)
		e := SpecimenError{Residual: predicted - s.FractureStrain}

		if s.FractureStrain == 0 {
			e.Degenerate = true
			e.PercentError = math.NaN()
		} else {
			e.PercentError = math.Abs(e.Residual/s.FractureStrain) * 100
			report.AggregatePercentError += e.PercentError
		}

		report.TotalAbsResidual += math.Abs(e.Residual)
		report.PerSpecimen[s.Name] = e
	}
	return report
}
