package math

import "math"

// Mat3 is a 3x3 projective transform in row-major order.
// A normalized homography keeps Mat3[2][2] == 1.
type Mat3 [3][3]float64

// SingularTolerance is the magnitude below which a pivot or determinant is
// treated as zero.
const SingularTolerance = 1e-12

// Identity3 returns the 3x3 identity.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Diag3 returns a diagonal matrix.
func Diag3(a, b, c float64) Mat3 {
	return Mat3{
		{a, 0, 0},
		{0, b, 0},
		{0, 0, c},
	}
}

// Mul returns m * other. It never fails.
func (m Mat3) Mul(other Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return r
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse computed from the adjugate.
// Returns ErrSingular if |det| is below SingularTolerance or not finite.
func (m Mat3) Inverse() (Mat3, error) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	// Cofactors
	ca := e*i - f*h
	cb := -(d*i - f*g)
	cc := d*h - e*g
	cd := -(b*i - c*h)
	ce := a*i - c*g
	cf := -(a*h - b*g)
	cg := b*f - c*e
	ch := -(a*f - c*d)
	ci := a*e - b*d

	det := a*ca + b*cb + c*cc
	if !(math.Abs(det) >= SingularTolerance) || math.IsInf(det, 0) {
		return Mat3{}, ErrSingular
	}
	inv := 1 / det

	// Adjugate is the transposed cofactor matrix
	return Mat3{
		{ca * inv, cd * inv, cg * inv},
		{cb * inv, ce * inv, ch * inv},
		{cc * inv, cf * inv, ci * inv},
	}, nil
}

// Apply maps (x, y, 1) through m and returns the homogeneous result.
func (m Mat3) Apply(x, y float64) (u, v, w float64) {
	u = m[0][0]*x + m[0][1]*y + m[0][2]
	v = m[1][0]*x + m[1][1]*y + m[1][2]
	w = m[2][0]*x + m[2][1]*y + m[2][2]
	return u, v, w
}
