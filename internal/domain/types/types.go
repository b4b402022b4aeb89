// Package types contains common types used across the application.
package types

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is the row-major wire shape of a numeric data matrix.
type Matrix [][]float64

// Dims returns the row and column counts. Column count is taken from the first row.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Cells returns the number of values in the matrix.
func (m Matrix) Cells() int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}

// Dense copies the matrix into a gonum dense matrix. Ragged or empty input
// is rejected with ErrDimension.
func (m Matrix) Dense() (*mat.Dense, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrDimension)
	}
	data := make([]float64, 0, r*c)
	for i, row := range m {
		if len(row) != c {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// FromDense copies a gonum matrix into row-major form.
func FromDense(d mat.Matrix) Matrix {
	r, c := d.Dims()
	out := make(Matrix, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = d.At(i, j)
		}
	}
	return out
}
