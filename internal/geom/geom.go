// Package geom implements the radar measurement model used by the fusion
// filter: conversion between the filter's Cartesian state [px py vx vy] and
// the radar's polar observation frame [range bearing range-rate], and the
// 3x4 Jacobian that linearises the Cartesian-to-polar map about a state.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MinRangeSquared is the smallest squared range at which the observation
// Jacobian is considered numerically stable. Below this the linearisation
// is undefined and a SingularGeometryError is returned instead of a matrix.
const MinRangeSquared = 1e-4

// SingularGeometryError reports that a polar quantity has no defined value
// at the given state because the range is zero or nearly so. It carries the
// offending state so filter divergence can be traced back to the cycle that
// hit the singularity.
type SingularGeometryError struct {
	Quantity string // which quantity was undefined ("range" or "linearisation")
	State    []float64
}

func (e *SingularGeometryError) Error() string {
	return fmt.Sprintf("singular observation geometry: %s undefined at state %v", e.Quantity, e.State)
}

// stateScalars unpacks a 4x1 state vector into its components.
func stateScalars(state *mat.VecDense) (px, py, vx, vy float64) {
	return state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3)
}

// CartesianToPolar maps a 4x1 Cartesian state [px py vx vy] to the 3x1 polar
// observation [range bearing range-rate]. Bearing comes from the two-argument
// arctangent, so it is well defined in all four quadrants and lies in
// (-pi, pi].
//
// The range-rate division is guarded by an explicit zero check on the range.
// IEEE float division by zero does not fault, it silently yields Inf/NaN, so
// the check must happen before the division rather than after.
func CartesianToPolar(state *mat.VecDense) (*mat.VecDense, error) {
	px, py, vx, vy := stateScalars(state)

	rho := math.Hypot(px, py)
	if rho == 0 {
		return nil, &SingularGeometryError{
			Quantity: "range (bearing and range-rate undefined at the origin)",
			State:    []float64{px, py, vx, vy},
		}
	}

	phi := math.Atan2(py, px)
	rhoDot := (px*vx + py*vy) / rho

	return mat.NewVecDense(3, []float64{rho, phi, rhoDot}), nil
}

// PolarToCartesian recovers the Cartesian position from a polar radar
// reading. Range-rate is accepted for symmetry with callers that hold a full
// reading but is not used: velocity cannot be recovered from a single polar
// observation, only the position is determined.
func PolarToCartesian(rho, phi, rhoDot float64) (x, y float64) {
	return rho * math.Cos(phi), rho * math.Sin(phi)
}

// Jacobian computes the 3x4 matrix of first partial derivatives of the
// Cartesian-to-polar observation map, evaluated at the given 4x1 state.
// Row 0 is d(range)/d(state), row 1 d(bearing)/d(state), row 2
// d(range-rate)/d(state). The result is freshly allocated and shares no
// storage with the input.
//
// The linearisation degenerates as the target approaches the sensor origin,
// so states with squared range below MinRangeSquared are rejected up front.
func Jacobian(state *mat.VecDense) (*mat.Dense, error) {
	px, py, vx, vy := stateScalars(state)

	c1 := px*px + py*py
	if c1 < MinRangeSquared {
		return nil, &SingularGeometryError{
			Quantity: "linearisation (squared range below threshold)",
			State:    []float64{px, py, vx, vy},
		}
	}
	c2 := math.Sqrt(c1) // range
	c3 := c1 * c2       // range cubed

	h := mat.NewDense(3, 4, nil)

	h.Set(0, 0, px/c2)
	h.Set(0, 1, py/c2)

	h.Set(1, 0, -py/c1)
	h.Set(1, 1, px/c1)

	h.Set(2, 0, py*(vx*py-vy*px)/c3)
	h.Set(2, 1, px*(px*vy-py*vx)/c3)
	h.Set(2, 2, px/c2)
	h.Set(2, 3, py/c2)

	return h, nil
}
