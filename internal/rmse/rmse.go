// Package rmse accumulates filter accuracy over a run as the component-wise
// root-mean-squared error between state estimates and ground truth.
package rmse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNoSamples is returned when RMSE is requested before any pair was added.
var ErrNoSamples = errors.New("rmse: no estimate/truth pairs accumulated")

// Accumulator collects (estimate, ground truth) pairs. The zero value is
// ready to use. Not safe for concurrent use.
type Accumulator struct {
	sumSquared [4]float64
	n          int
}

// Add records one estimate against its ground truth. Both must be 4x1
// vectors ordered [px py vx vy].
func (a *Accumulator) Add(estimate, truth *mat.VecDense) error {
	if estimate.Len() != 4 || truth.Len() != 4 {
		return fmt.Errorf("rmse: want 4-element vectors, got %d and %d", estimate.Len(), truth.Len())
	}
	for i := 0; i < 4; i++ {
		d := estimate.AtVec(i) - truth.AtVec(i)
		a.sumSquared[i] += d * d
	}
	a.n++
	return nil
}

// Count reports how many pairs have been accumulated.
func (a *Accumulator) Count() int { return a.n }

// RMSE returns the 4x1 component-wise root-mean-squared error over all
// accumulated pairs.
func (a *Accumulator) RMSE() (*mat.VecDense, error) {
	if a.n == 0 {
		return nil, ErrNoSamples
	}
	out := mat.NewVecDense(4, nil)
	for i := 0; i < 4; i++ {
		out.SetVec(i, math.Sqrt(a.sumSquared[i]/float64(a.n)))
	}
	return out, nil
}
