// Package mle finds maximum-likelihood estimates by brute-force search over
// a discretized parameter domain.
package mle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxGridPoints bounds the number of points a Grid may describe.
const MaxGridPoints = 1 << 20

// Grid describes evenly spaced points from Min to Max inclusive.
type Grid struct {
	Min  float64
	Max  float64
	Step float64
}

// Validate reports whether the grid describes at least one point.
func (g Grid) Validate() error {
	for _, v := range []float64{g.Min, g.Max, g.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds and step must be finite", ErrInvalidGrid)
		}
	}
	if g.Step <= 0 {
		return fmt.Errorf("%w: step %v must be positive", ErrInvalidGrid, g.Step)
	}
	if g.Max < g.Min {
		return fmt.Errorf("%w: max %v below min %v", ErrInvalidGrid, g.Max, g.Min)
	}
	// Compared in float64 so huge spans never reach the int conversion in Len.
	if n := math.Round((g.Max-g.Min)/g.Step) + 1; n > MaxGridPoints {
		return fmt.Errorf("%w: step %v yields %.0f points, limit is %d", ErrInvalidGrid, g.Step, n, MaxGridPoints)
	}
	return nil
}

// Len returns the number of grid points. It is only meaningful for a grid
// that passes Validate.
func (g Grid) Len() int {
	return int(math.Round((g.Max-g.Min)/g.Step)) + 1
}

// Points returns the grid points. Points are computed from the bounds rather
// than by accumulating Step, so the last point is exactly Max.
func (g Grid) Points() ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	n := g.Len()
	if n == 1 {
		return []float64{g.Min}, nil
	}
	return floats.Span(make([]float64, n), g.Min, g.Max), nil
}

// Maximize evaluates f at every grid point and returns the point with the
// largest value. NaN evaluations are ignored; ties go to the smallest point.
// An objective that is NaN or -Inf at every point has no maximizer.
func Maximize(f func(float64) float64, g Grid) (arg, value float64, err error) {
	pts, err := g.Points()
	if err != nil {
		return 0, 0, err
	}
	vals := make([]float64, len(pts))
	for i, p := range pts {
		vals[i] = f(p)
	}
	i := floats.MaxIdx(vals)
	if math.IsNaN(vals[i]) {
		return 0, 0, fmt.Errorf("%w: objective is NaN at every point", ErrInvalidGrid)
	}
	if math.IsInf(vals[i], -1) {
		return 0, 0, fmt.Errorf("%w: objective is -Inf at every point", ErrInvalidGrid)
	}
	return pts[i], vals[i], nil
}
