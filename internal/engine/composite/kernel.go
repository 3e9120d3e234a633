package composite

import gomath "math"

// GaussianKernel returns a normalized 1D kernel with standard deviation
// sigma and 2*ceil(3*sigma)+1 taps. sigma <= 0 yields the identity [1].
func GaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	half := int(gomath.Ceil(sigma * 3))
	kernel := make([]float64, half*2+1)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = gomath.Exp(-(x * x) / twoSigmaSq)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
