// Package samplesize computes the number of subjects a t-test needs to reach
// a target power.
package samplesize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidInput is returned for out-of-domain parameters.
var ErrInvalidInput = errors.New("invalid sample size parameters")

// Design selects the t-test variant.
type Design string

// Supported designs.
const (
	OneSample Design = "one-sample"
	TwoSample Design = "two-sample"
	Paired    Design = "paired"
)

const (
	maxIterations = 100
	convergence   = 1e-6
)

// Params describes the effect to detect and the error rates to tolerate.
type Params struct {
	Delta  float64 // true difference in means
	SD     float64 // standard deviation (of differences for paired designs)
	Alpha  float64 // significance level
	Power  float64 // desired power
	Design Design
	Sides  int // 1 or 2
}

// Result is the required sample size.
type Result struct {
	PerGroup   int     `json:"per_group"`
	Total      int     `json:"total"`
	Exact      float64 `json:"exact"`
	Iterations int     `json:"iterations"`
}

func (p Params) validate() error {
	switch {
	case !(p.Delta > 0) || math.IsInf(p.Delta, 0):
		return fmt.Errorf("%w: delta must be positive", ErrInvalidInput)
	case !(p.SD > 0) || math.IsInf(p.SD, 0):
		return fmt.Errorf("%w: sd must be positive", ErrInvalidInput)
	case !(p.Alpha > 0 && p.Alpha < 1):
		return fmt.Errorf("%w: alpha must be in (0,1)", ErrInvalidInput)
	case !(p.Power > 0 && p.Power < 1):
		return fmt.Errorf("%w: power must be in (0,1)", ErrInvalidInput)
	case p.Sides != 1 && p.Sides != 2:
		return fmt.Errorf("%w: sides must be 1 or 2", ErrInvalidInput)
	}
	switch p.Design {
	case OneSample, TwoSample, Paired:
	default:
		return fmt.Errorf("%w: unknown design %q", ErrInvalidInput, p.Design)
	}
	return nil
}

// groups is the variance multiplier: two independent groups double it.
func (p Params) groups() float64 {
	if p.Design == TwoSample {
		return 2
	}
	return 1
}

// df returns the t-test degrees of freedom for n subjects per group.
func (p Params) df(n float64) float64 {
	if p.Design == TwoSample {
		return 2 * (n - 1)
	}
	return n - 1
}

// TTest returns the per-group sample size for p. It starts from the normal
// approximation and refines with Student-t quantiles at the current degrees
// of freedom until the size stops changing.
func TTest(p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	a := 1 - p.Alpha/float64(p.Sides)
	ratio := p.SD / p.Delta

	za := distuv.UnitNormal.Quantile(a)
	zb := distuv.UnitNormal.Quantile(p.Power)
	n := p.groups() * math.Pow((za+zb)*ratio, 2)

	iter := 0
	for iter < maxIterations {
		iter++
		df := math.Max(p.df(n), 1)
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		next := p.groups() * math.Pow((t.Quantile(a)+t.Quantile(p.Power))*ratio, 2)
		if math.Abs(next-n) < convergence {
			n = next
			break
		}
		n = next
	}

	per := int(math.Ceil(n))
	if per < 2 {
		per = 2
	}
	total := per
	if p.Design == TwoSample {
		total = 2 * per
	}
	return Result{PerGroup: per, Total: total, Exact: n, Iterations: iter}, nil
}
