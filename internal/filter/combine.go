package filter

import "github.com/gogpu/turing/frame"

// BlurTap returns the weighted sum of samples. samples[i] is paired with
// weights[i]; extra elements of the longer slice are ignored.
//
// With weights that sum to 1 the overall brightness is preserved.
func BlurTap(samples []frame.Color, weights []float32) frame.Color {
	n := min(len(samples), len(weights))

	var r, g, b, a float32
	for i := 0; i < n; i++ {
		w := weights[i]
		s := samples[i]
		r += s.R * w
		g += s.G * w
		b += s.B * w
		a += s.A * w
	}

	return frame.Color{R: r, G: g, B: b, A: a}
}

// Unsharp adds amount times the high-frequency residual back to center:
//
//	center + amount × (center − blurred)
//
// The result is clamped to [0, 1] per channel after the combination.
// amount is not limited; large values are a creative control.
func Unsharp(center, blurred frame.Color, amount float32) frame.Color {
	return frame.Color{
		R: center.R + amount*(center.R-blurred.R),
		G: center.G + amount*(center.G-blurred.G),
		B: center.B + amount*(center.B-blurred.B),
		A: center.A + amount*(center.A-blurred.A),
	}.Clamp()
}
