// Package filter provides the numeric kernels of the pattern pipeline.
//
// This package contains:
//   - a 7-tap binomial blur kernel (separable, applied once per axis)
//   - the 3×3 binomial stencil used as the unsharp stage's local blur
//   - BlurTap and Unsharp, the per-texel combination functions
//
// Everything here is pure: no state, no allocation on the hot path.
// NaN and Inf inputs are not guarded against and propagate to the output.
package filter
