package optim

import (
	"fmt"
	"math"
)

// GridSeed evaluates the residual cost on a uniform grid spanning the box
// and returns the lowest-cost grid point with its cost. It is a cheap way
// to pick a starting point for LeastSquares when no informed initial guess
// exists. The grid has samplesPerDim points per dimension, endpoints
// included, so the sweep costs samplesPerDim^Dim evaluations.
func GridSeed(p Problem, samplesPerDim int) ([]float64, float64, error) {
	if p.Dim <= 0 || p.Size <= 0 || p.Func == nil {
		return nil, 0, fmt.Errorf("%w: dim=%d size=%d", ErrBadProblem, p.Dim, p.Size)
	}
	if len(p.Lower) != p.Dim || len(p.Upper) != p.Dim {
		return nil, 0, fmt.Errorf("%w: bounds length mismatch", ErrBadProblem)
	}
	if samplesPerDim < 2 {
		return nil, 0, fmt.Errorf("%w: need at least 2 samples per dimension", ErrBadSettings)
	}
	for i := 0; i < p.Dim; i++ {
		if p.Lower[i] > p.Upper[i] {
			return nil, 0, fmt.Errorf("%w: component %d", ErrBadProblem, i)
		}
		if math.IsInf(p.Lower[i], 0) || math.IsInf(p.Upper[i], 0) {
			return nil, 0, fmt.Errorf("%w: component %d has an infinite bound", ErrBadProblem, i)
		}
	}

	x := make([]float64, p.Dim)
	r := make([]float64, p.Size)
	best := make([]float64, p.Dim)
	bestCost := math.Inf(1)

	idx := make([]int, p.Dim)
	for {
		for i, k := range idx {
			frac := float64(k) / float64(samplesPerDim-1)
			x[i] = p.Lower[i] + frac*(p.Upper[i]-p.Lower[i])
		}
		p.Func(r, x)
		// NaN costs fail the comparison and are skipped.
		if cost := halfSquaredNorm(r); cost < bestCost {
			bestCost = cost
			copy(best, x)
		}

		i := 0
		for ; i < p.Dim; i++ {
			idx[i]++
			if idx[i] < samplesPerDim {
				break
			}
			idx[i] = 0
		}
		if i == p.Dim {
			break
		}
	}

	if math.IsInf(bestCost, 1) {
		return nil, 0, fmt.Errorf("%w: no finite cost on the seed grid", ErrBadProblem)
	}
	return best, bestCost, nil
}
