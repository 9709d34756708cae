package filter

// BlurRadius is the radius of the separable blur kernel in taps.
const BlurRadius = 3

// BlurWeights is the 1D blur kernel: the binomial row [1 6 15 20 15 6 1]/64.
// Index i holds the weight of offset i-BlurRadius. Every weight is a
// multiple of 1/64, so the kernel sums to exactly 1 in float32.
var BlurWeights = BinomialKernel(BlurRadius)

// BinomialKernel generates a 1D binomial kernel for the given radius.
// The kernel is normalized so all values sum to 1.0, and approximates a
// Gaussian with variance radius/2.
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
func BinomialKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	n := 2 * radius
	kernel := make([]float32, n+1)

	// Pascal's row n, built from C(n, k) = C(n, k-1) * (n-k+1) / k.
	coeff := 1.0
	total := float64(uint64(1) << uint(n))
	for k := 0; k <= n; k++ {
		kernel[k] = float32(coeff / total)
		coeff = coeff * float64(n-k) / float64(k+1)
	}

	return kernel
}

// Tap is one sample of a 2D stencil: an offset in stencil units and a weight.
type Tap struct {
	DX, DY float64
	Weight float32
}

// Stencil is a list of taps. Offsets are multiplied by a radius (in texels)
// at sampling time.
type Stencil []Tap

// Sum returns the sum of the stencil weights.
func (s Stencil) Sum() float32 {
	var sum float32
	for _, t := range s {
		sum += t.Weight
	}
	return sum
}

// UnsharpStencil is the local blur of the unsharp stage: the 3×3 binomial
// stencil [1 2 1]ᵀ[1 2 1]/16 with taps one radius apart.
var UnsharpStencil = outerStencil(BinomialKernel(1))

// outerStencil builds the 2D stencil k ⊗ k.
func outerStencil(k []float32) Stencil {
	half := len(k) / 2
	s := make(Stencil, 0, len(k)*len(k))
	for j, wy := range k {
		for i, wx := range k {
			s = append(s, Tap{
				DX:     float64(i - half),
				DY:     float64(j - half),
				Weight: wx * wy,
			})
		}
	}
	return s
}

// KernelCenter returns the center index of a kernel of the given size.
func KernelCenter(kernelSize int) int {
	return kernelSize / 2
}
