package rmse

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vec4(a, b, c, d float64) *mat.VecDense {
	return mat.NewVecDense(4, []float64{a, b, c, d})
}

func TestRMSEEmpty(t *testing.T) {
	var acc Accumulator
	if _, err := acc.RMSE(); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("RMSE on empty accumulator: got %v, want ErrNoSamples", err)
	}
}

func TestRMSEIdenticalSeriesIsZero(t *testing.T) {
	var acc Accumulator
	for i := 0; i < 5; i++ {
		v := vec4(float64(i), float64(2*i), 1, -1)
		if err := acc.Add(v, v); err != nil {
			t.Fatal(err)
		}
	}

	got, err := acc.RMSE()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if got.AtVec(i) != 0 {
			t.Errorf("rmse[%d] = %v, want 0", i, got.AtVec(i))
		}
	}
}

func TestRMSEKnownValues(t *testing.T) {
	var acc Accumulator
	// Constant error of (1, 2, 0, -3) across two samples gives RMSE
	// (1, 2, 0, 3) exactly.
	pairs := [][2]*mat.VecDense{
		{vec4(1, 2, 0, -3), vec4(0, 0, 0, 0)},
		{vec4(6, 7, 1, -2), vec4(5, 5, 1, 1)},
	}
	for _, p := range pairs {
		if err := acc.Add(p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}

	got, err := acc.RMSE()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 0, 3}
	for i, w := range want {
		if math.Abs(got.AtVec(i)-w) > 1e-12 {
			t.Errorf("rmse[%d] = %v, want %v", i, got.AtVec(i), w)
		}
	}
	if acc.Count() != 2 {
		t.Errorf("Count() = %d, want 2", acc.Count())
	}
}

func TestAddRejectsWrongShape(t *testing.T) {
	var acc Accumulator
	if err := acc.Add(mat.NewVecDense(3, nil), vec4(0, 0, 0, 0)); err == nil {
		t.Error("expected error for 3-element estimate")
	}
}
