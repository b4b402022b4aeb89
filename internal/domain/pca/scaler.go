package pca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler is a paired center-and-scale transform. It carries the per-column
// mean and standard deviation recorded when it was fitted, so the inverse
// never depends on state attached to the data.
type Scaler struct {
	Mu    []float64
	Sigma []float64
}

// FitScaler records column means and sample standard deviations of x.
// Columns with zero variance get sigma 1 so they map to zero and back.
func FitScaler(x mat.Matrix) (*Scaler, error) {
	r, c := x.Dims()
	if r < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, got %d", ErrInvalidInput, r)
	}
	s := &Scaler{Mu: make([]float64, c), Sigma: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: entry (%d,%d) is not finite", ErrInvalidInput, i, j)
			}
		}
		mean, sd := stat.MeanStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		s.Mu[j] = mean
		s.Sigma[j] = sd
	}
	return s, nil
}

// Transform returns (x - mu) / sigma column-wise.
func (s *Scaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	z := mat.DenseCopyOf(x)
	r, c := z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			z.Set(i, j, (z.At(i, j)-s.Mu[j])/s.Sigma[j])
		}
	}
	return z, nil
}

// Inverse returns z * sigma + mu column-wise.
func (s *Scaler) Inverse(z mat.Matrix) (*mat.Dense, error) {
	if err := s.check(z); err != nil {
		return nil, err
	}
	x := mat.DenseCopyOf(z)
	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x.Set(i, j, x.At(i, j)*s.Sigma[j]+s.Mu[j])
		}
	}
	return x, nil
}

func (s *Scaler) check(x mat.Matrix) error {
	_, c := x.Dims()
	if c != len(s.Mu) {
		return fmt.Errorf("%w: scaler fitted on %d columns, got %d", ErrDimension, len(s.Mu), c)
	}
	return nil
}
