// Package pca reconstructs low-rank approximations of data matrices from
// their leading principal components.
package pca

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDecomposition is returned when the eigendecomposition fails to converge.
var ErrDecomposition = errors.New("eigendecomposition failed")

// Components holds the leading principal directions of a scaled matrix.
type Components struct {
	// Vectors has one direction per column, ordered by decreasing variance.
	Vectors *mat.Dense
	// Values are the eigenvalues paired with Vectors.
	Values []float64
	// Explained is the share of total variance captured by the kept directions.
	Explained float64
}

// Decompose scales x and returns its first k principal directions along with the scaler used.
func Decompose(x mat.Matrix, k int) (*Components, *Scaler, *mat.Dense, error) {
	_, c := x.Dims()
	if k < 1 || k > c {
		return nil, nil, nil, fmt.Errorf("%w: k=%d, columns=%d", ErrDimension, k, c)
	}
	sc, err := FitScaler(x)
	if err != nil {
		return nil, nil, nil, err
	}
	z, err := sc.Transform(x)
	if err != nil {
		return nil, nil, nil, err
	}

	r, _ := z.Dims()
	var cov mat.SymDense
	cov.SymOuterK(1/float64(r-1), z.T())

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, nil, nil, ErrDecomposition
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// EigenSym returns ascending eigenvalues.
	order := make([]int, c)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	kept := mat.NewDense(c, k, nil)
	keptValues := make([]float64, k)
	col := make([]float64, c)
	for j := 0; j < k; j++ {
		mat.Col(col, order[j], &vectors)
		kept.SetCol(j, col)
		keptValues[j] = values[order[j]]
	}

	comp := &Components{Vectors: kept, Values: keptValues}
	if total := floats.Sum(values); total > 0 {
		comp.Explained = floats.Sum(keptValues) / total
	}
	return comp, sc, z, nil
}

// Approximate returns the rank-k reconstruction of x in the original units.
// With k equal to the column count the result reproduces x up to rounding.
func Approximate(x mat.Matrix, k int) (*mat.Dense, error) {
	comp, sc, z, err := Decompose(x, k)
	if err != nil {
		return nil, err
	}

	var scores mat.Dense
	scores.Mul(z, comp.Vectors)
	var approx mat.Dense
	approx.Mul(&scores, comp.Vectors.T())

	return sc.Inverse(&approx)
}
