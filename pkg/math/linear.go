package math

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when a linear system or matrix has no unique solution.
var ErrSingular = errors.New("singular matrix")

// SolveLinear solves A·x = b for x by Gauss-Jordan elimination with partial
// pivoting. A must be n×m with len(b) == n. The matrix is reduced to reduced
// row-echelon form; a column whose best pivot candidate is below
// SingularTolerance is skipped. If any unknown ends up without a pivot row
// the system is underdetermined and ErrSingular is returned. NaN or infinite
// coefficients, constants or results also yield ErrSingular.
func SolveLinear(a [][]float64, b []float64) ([]float64, error) {
	rows := len(a)
	if rows == 0 || len(b) != rows {
		return nil, fmt.Errorf("solve: %d rows with %d constants", rows, len(b))
	}
	cols := len(a[0])

	// Augmented working copy; callers keep their inputs.
	aug := make([][]float64, rows)
	for i := range a {
		if len(a[i]) != cols {
			return nil, fmt.Errorf("solve: row %d has %d columns, want %d", i, len(a[i]), cols)
		}
		aug[i] = make([]float64, cols+1)
		copy(aug[i], a[i])
		aug[i][cols] = b[i]
		if !finite(aug[i]...) {
			return nil, fmt.Errorf("solve: non-finite value in row %d: %w", i, ErrSingular)
		}
	}

	pivotRow := make([]int, cols)
	for c := range pivotRow {
		pivotRow[c] = -1
	}

	r := 0
	for c := 0; c < cols && r < rows; c++ {
		piv := r
		for i := r + 1; i < rows; i++ {
			if math.Abs(aug[i][c]) > math.Abs(aug[piv][c]) {
				piv = i
			}
		}
		if !(math.Abs(aug[piv][c]) >= SingularTolerance) {
			continue
		}
		aug[r], aug[piv] = aug[piv], aug[r]

		div := aug[r][c]
		for j := c; j <= cols; j++ {
			aug[r][j] /= div
		}

		// Eliminate above and below.
		for i := 0; i < rows; i++ {
			if i == r {
				continue
			}
			mul := aug[i][c]
			if math.Abs(mul) < SingularTolerance {
				continue
			}
			for j := c; j <= cols; j++ {
				aug[i][j] -= mul * aug[r][j]
			}
		}

		pivotRow[c] = r
		r++
	}

	x := make([]float64, cols)
	for c, pr := range pivotRow {
		if pr < 0 {
			return nil, ErrSingular
		}
		x[c] = aug[pr][cols]
	}
	if !finite(x...) {
		return nil, ErrSingular
	}

	// Rank-deficient rows must be consistent (0 = 0).
	for i := r; i < rows; i++ {
		if !(math.Abs(aug[i][cols]) <= 1e-9) {
			return nil, ErrSingular
		}
	}

	return x, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
