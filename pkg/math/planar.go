package math

// PlanarShadow returns the matrix that flattens world geometry onto the
// horizontal plane y = planeY as seen from a light.
// light is a homogeneous position: w=1 for a point light, w=0 for a
// directional light whose xyz points toward the light.
func PlanarShadow(planeY float32, light Vec4) Mat4 {
	// Plane n·p + d = 0 with n = (0, 1, 0), d = -planeY.
	p := Vec4{0, 1, 0, -planeY}
	dot := p[0]*light[0] + p[1]*light[1] + p[2]*light[2] + p[3]*light[3]

	var m Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			v := -light[row] * p[col]
			if row == col {
				v += dot
			}
			m[col*4+row] = v
		}
	}
	return m
}
