package khps2

import "math"

// DefaultEpsilon is the default denominator floor for the closed forms.
const DefaultEpsilon = 1e-6

// floorG3 keeps the cosine-argument denominator away from zero. The sign of
// G3 is preserved so the floor does not flip the locus shape.
func floorG3(g3, eps float64) float64 {
	if math.Abs(g3) >= eps {
		return g3
	}
	if g3 < 0 {
		return -eps
	}
	return eps
}

// FractureStrain evaluates the KHPS2 locus at a single stress state:
//
//	ef = G1*exp(-G2*eta)*(1/2 + 1/2*cos(pi*invar/G3)) + G4*eta + G5*invar + G6
//
// eta is the stress triaxiality, invar the normalized third invariant of the
// deviatoric stress tensor. G3 is the only denominator in the form; eps
// floors its magnitude.
func FractureStrain(g Params, eta, invar, eps float64) float64 {
	g3 := floorG3(g[2], eps)
	return g[0]*math.Exp(-g[1]*eta)*(0.5+0.5*math.Cos(math.Pi*invar/g3)) +
		g[3]*eta + g[4]*invar + g[5]
}

// CutoffTriaxiality evaluates the cut-off plane of the criterion:
//
//	eta_c = -(G3 + (G1-G3)/2 - G2)*invar^2 - ((G1-G3)/2)*invar - G2
//
// Below eta_c the criterion predicts no meaningful fracture. The form is
// polynomial; no denominator floor is needed.
func CutoffTriaxiality(g Params, invar float64) float64 {
	half := (g[0] - g[2]) / 2
	return -(g[2]+half-g[1])*invar*invar - half*invar - g[1]
}

// FractureStrains evaluates the locus elementwise over paired samples.
func FractureStrains(g Params, eta, invar []float64, eps float64) []float64 {
	out := make([]float64, len(eta))
	for i := range eta {
		out[i] = FractureStrain(g, eta[i], invar[i], eps)
	}
	return out
}

// CutoffTriaxialities evaluates the cut-off plane elementwise.
func CutoffTriaxialities(g Params, invar []float64) []float64 {
	out := make([]float64, len(invar))
	for i := range invar {
		out[i] = CutoffTriaxiality(g, invar[i])
	}
	return out
}

// FractureStrainGrid evaluates the locus over parallel 2D sample grids.
// Cells carry no cross-cell dependency; each equals the scalar form exactly.
func FractureStrainGrid(g Params, eta, invar [][]float64, eps float64) [][]float64 {
	out := make([][]float64, len(eta))
	for i := range eta {
		out[i] = make([]float64, len(eta[i]))
		for j := range eta[i] {
			out[i][j] = FractureStrain(g, eta[i][j], invar[i][j], eps)
		}
	}
	return out
}

// CutoffGrid evaluates the cut-off plane over a 2D invariant grid.
func CutoffGrid(g Params, invar [][]float64) [][]float64 {
	out := make([][]float64, len(invar))
	for i := range invar {
		out[i] = make([]float64, len(invar[i]))
		for j := range invar[i] {
			out[i][j] = CutoffTriaxiality(g, invar[i][j])
		}
	}
	return out
}
