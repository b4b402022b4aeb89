// Package rescale reverses Likert-style response scales.
package rescale

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for inverted bounds or out-of-range values.
var ErrInvalidInput = errors.New("invalid scale input")

// Reverse maps every value v in [min,max] to min+max-v, so the top of the
// scale becomes the bottom. NaN marks a missing response and is kept.
func Reverse(x []float64, min, max float64) ([]float64, error) {
	if !(min < max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, fmt.Errorf("%w: bounds [%v,%v]", ErrInvalidInput, min, max)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		if v < min || v > max {
			return nil, fmt.Errorf("%w: x[%d]=%v outside [%v,%v]", ErrInvalidInput, i, v, min, max)
		}
		out[i] = min + max - v
	}
	return out, nil
}
