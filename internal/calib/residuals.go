package calib

import "github.com/san-kum/fraclocus/internal/khps2"

// Residuals returns predicted minus measured fracture strain for every
// specimen, in dataset order. This is the vector the calibrator minimizes in
// the least-squares sense.
func Residuals(g khps2.Params, ds *Dataset, eps float64) []float64 {
	out := make([]float64, ds.Len())
	FillResiduals(out, g, ds, eps)
	return out
}

// FillResiduals writes the residual vector into dst without allocating.
// len(dst) must equal ds.Len().
func FillResiduals(dst []float64, g khps2.Params, ds *Dataset, eps float64) {
	for i, s := range ds.Specimens() {
		dst[i] = khps2.FractureStrain(g, s.Triaxiality, s.Invariant, eps) - s.FractureStrain
	}
}
