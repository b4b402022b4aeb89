package mle

import (
	"fmt"
	"math"
)

// DefaultGridStep is the probability resolution of FitBernoulli. Estimates are
// exact only up to this step; the closed form mean is not used.
const DefaultGridStep = 0.001

// ProbabilityGrid returns the [0,1] grid with the given step.
func ProbabilityGrid(step float64) Grid {
	return Grid{Min: 0, Max: 1, Step: step}
}

// BernoulliLogLikelihood returns sum(x ln p + (1-x) ln(1-p)). Terms are added
// one branch at a time so p=0 or p=1 gives -Inf rather than NaN.
func BernoulliLogLikelihood(data []float64, p float64) float64 {
	var ll float64
	for _, x := range data {
		if x == 1 {
			ll += math.Log(p)
		} else {
			ll += math.Log(1 - p)
		}
	}
	return ll
}

// FitBernoulli estimates the success probability on the default 0.001 grid.
func FitBernoulli(data []float64) (float64, error) {
	return FitBernoulliOnGrid(data, ProbabilityGrid(DefaultGridStep))
}

// FitBernoulliOnGrid estimates the success probability on grid. The data must
// contain both 0 and 1; a constant vector has no interior maximum.
func FitBernoulliOnGrid(data []float64, grid Grid) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty data", ErrInvalidInput)
	}
	var ones, zeros int
	for i, x := range data {
		switch x {
		case 1:
			ones++
		case 0:
			zeros++
		default:
			return 0, fmt.Errorf("%w: data[%d]=%v is not 0 or 1", ErrInvalidInput, i, x)
		}
	}
	if ones == 0 || zeros == 0 {
		return 0, fmt.Errorf("%w: data must contain both 0 and 1", ErrDegenerateInput)
	}
	p, _, err := Maximize(func(p float64) float64 { return BernoulliLogLikelihood(data, p) }, grid)
	if err != nil {
		return 0, err
	}
	return p, nil
}
