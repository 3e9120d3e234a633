package math

import (
	"errors"
	"math"
	"testing"
)

func TestSolveLinearUnique(t *testing.T) {
	a := [][]float64{
		{10, 1, -1, 0, 2, 0, 0, 0},
		{-3, 12, 2, 0, 0, 0, 0, 1},
		{-2, 1, 9, 0, 0, 1, 0, 0},
		{0, 0, 0, 11, 1, 0, 3, 0},
		{1, 0, 0, 1, 8, 1, 0, 0},
		{0, 2, 0, 0, 1, 10, 2, 0},
		{0, 0, 1, 0, 0, 2, 13, 1},
		{1, 0, 0, 2, 0, 0, 1, 7},
	}
	b := []float64{8, -11, -3, 1, 2, 3, 4, 5}

	x, err := SolveLinear(a, b)
	if err != nil {
		t.Fatalf("SolveLinear: %v", err)
	}

	for i, row := range a {
		var sum float64
		for j, v := range row {
			sum += v * x[j]
		}
		if math.Abs(sum-b[i]) > 1e-6 {
			t.Errorf("equation %d: A·x = %f, want %f", i, sum, b[i])
		}
	}
}

func TestSolveLinearDoesNotMutateInput(t *testing.T) {
	a := [][]float64{{0, 2}, {3, 0}}
	b := []float64{4, 9}

	x, err := SolveLinear(a, b)
	if err != nil {
		t.Fatalf("SolveLinear: %v", err)
	}
	if x[0] != 3 || x[1] != 2 {
		t.Errorf("got %v, want [3 2]", x)
	}
	if a[0][0] != 0 || a[1][0] != 3 || b[0] != 4 {
		t.Error("input system was modified")
	}
}

func TestSolveLinearSingular(t *testing.T) {
	a := [][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{1, 0, 1},
	}
	b := []float64{1, 2, 3}

	x, err := SolveLinear(a, b)
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("expected ErrSingular, got x=%v err=%v", x, err)
	}
}

func TestSolveLinearShapeMismatch(t *testing.T) {
	if _, err := SolveLinear([][]float64{{1, 2}}, []float64{1, 2}); err == nil {
		t.Error("expected error for mismatched constants")
	}
	if _, err := SolveLinear([][]float64{{1, 2}, {1}}, []float64{1, 2}); err == nil {
		t.Error("expected error for ragged rows")
	}
}

func TestSolveLinearNonFinite(t *testing.T) {
	tests := []struct {
		name string
		a    [][]float64
		b    []float64
	}{
		{"nan coefficient", [][]float64{{math.NaN(), 1}, {0, 1}}, []float64{1, 2}},
		{"inf coefficient", [][]float64{{1, 0}, {math.Inf(-1), 1}}, []float64{1, 2}},
		{"inf constant", [][]float64{{1, 0}, {0, 1}}, []float64{math.Inf(1), 2}},
		{"overflowing result", [][]float64{{1e-11, 0}, {0, 1}}, []float64{1e300, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := SolveLinear(tt.a, tt.b)
			if !errors.Is(err, ErrSingular) {
				t.Errorf("got x=%v err=%v, want ErrSingular", x, err)
			}
		})
	}
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{
		{2, 0, 1},
		{1, 3, 0},
		{0, 1, 4},
	}
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	got := m.Mul(inv)
	id := Identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(got[i][j]-id[i][j]) > 1e-12 {
				t.Errorf("M·M⁻¹[%d][%d] = %g, want %g", i, j, got[i][j], id[i][j])
			}
		}
	}
}

func TestMat3InverseSingular(t *testing.T) {
	m := Mat3{
		{1, 2, 3},
		{2, 4, 6},
		{0, 0, 1},
	}
	if _, err := m.Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestMat3InverseNonFinite(t *testing.T) {
	for _, m := range []Mat3{
		{{math.NaN(), 0, 0}, {0, 1, 0}, {0, 0, 1}},
		{{math.Inf(1), 0, 0}, {0, 1, 0}, {0, 0, 1}},
	} {
		if inv, err := m.Inverse(); !errors.Is(err, ErrSingular) {
			t.Errorf("Inverse(%v): got %v, %v, want ErrSingular", m, inv, err)
		}
	}
}

func TestMat3MulDiag(t *testing.T) {
	m := Mat3{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	got := m.Mul(Diag3(2, 10, 1))
	want := Mat3{
		{2, 20, 3},
		{8, 50, 6},
		{14, 80, 9},
	}
	if got != want {
		t.Errorf("Mul: got %v, want %v", got, want)
	}
}
