// Package pipeline runs the per-frame blur and unsharp passes.
//
// A frame is three full-buffer passes, always in this order:
//
//  1. BlurHorizontal: 7-tap blur along x, taps BlurSpread texels apart
//  2. BlurVertical:   the same kernel along y
//  3. UnsharpMask:    center + amount × (center − local blur at UnsharpRadius)
//
// Each pass is described by a Descriptor and executed by RunPass. A pass
// reads only its source and writes only its destination; the two are never
// the same buffer.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/filter"
	"github.com/gogpu/turing/internal/parallel"
)

var (
	// ErrAliasedPass is returned when a pass would read and write the same buffer.
	ErrAliasedPass = errors.New("pipeline: pass source and destination alias")

	// ErrUnknownPass is returned for an invalid pass kind.
	ErrUnknownPass = errors.New("pipeline: unknown pass kind")
)

// Kind identifies one of the pipeline passes.
type Kind int

const (
	// BlurHorizontal blurs along the x axis.
	BlurHorizontal Kind = iota
	// BlurVertical blurs along the y axis.
	BlurVertical
	// UnsharpMask sharpens against a local blur.
	UnsharpMask
)

// String returns the pass name.
func (k Kind) String() string {
	switch k {
	case BlurHorizontal:
		return "blur-horizontal"
	case BlurVertical:
		return "blur-vertical"
	case UnsharpMask:
		return "unsharp"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Params are the tunable pipeline parameters. They are read-only while a
// frame runs. No validation is performed: values are trusted to be finite
// and non-negative.
type Params struct {
	// BlurSpread scales the blur tap spacing, in texels. Default 1.0.
	BlurSpread float64

	// UnsharpRadius is the spacing of the unsharp stage's local blur, in
	// texels. Default 3.5.
	UnsharpRadius float64

	// UnsharpAmount scales the high-frequency residual. Default 64.0.
	UnsharpAmount float64
}

// DefaultParams returns the default pipeline parameters.
func DefaultParams() Params {
	return Params{
		BlurSpread:    1.0,
		UnsharpRadius: 3.5,
		UnsharpAmount: 64.0,
	}
}

// Descriptor fully describes one pass: no state is shared between passes
// other than the buffers named here.
type Descriptor struct {
	Kind      Kind
	Src       *frame.Buffer
	Dst       *frame.Buffer
	Params    Params
	Precision frame.Precision
}

// RunPass executes one pass over every texel of d.Dst. Rows are processed
// in parallel on pool when it is non-nil; RunPass returns only when the
// whole destination has been written.
func RunPass(pool *parallel.WorkerPool, d Descriptor) error {
	if d.Src == nil || d.Dst == nil {
		return fmt.Errorf("pipeline: %s: nil buffer", d.Kind)
	}
	if d.Src == d.Dst {
		return fmt.Errorf("%w (%s)", ErrAliasedPass, d.Kind)
	}
	if d.Src.Width() != d.Dst.Width() || d.Src.Height() != d.Dst.Height() {
		return fmt.Errorf("%w: %s", frame.ErrSizeMismatch, d.Kind)
	}

	var band func(y0, y1 int)
	switch d.Kind {
	case BlurHorizontal:
		band = func(y0, y1 int) { blurRows(d, y0, y1, 1, 0) }
	case BlurVertical:
		band = func(y0, y1 int) { blurRows(d, y0, y1, 0, 1) }
	case UnsharpMask:
		band = func(y0, y1 int) { unsharpRows(d, y0, y1) }
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPass, int(d.Kind))
	}

	parallel.ForRows(pool, d.Dst.Height(), band)
	return nil
}

// blurRows applies the 1D blur along direction (dx, dy) to rows [y0, y1).
func blurRows(d Descriptor, y0, y1 int, dx, dy float64) {
	weights := filter.BlurWeights
	half := filter.KernelCenter(len(weights))
	spread := d.Params.BlurSpread
	samples := make([]frame.Color, len(weights))
	width := d.Dst.Width()

	for y := y0; y < y1; y++ {
		fy := float64(y)
		for x := 0; x < width; x++ {
			fx := float64(x)
			for i := range weights {
				off := float64(i-half) * spread
				samples[i] = d.Src.SampleTexel(fx+off*dx, fy+off*dy)
			}
			d.Dst.Set(x, y, d.Precision.Store(filter.BlurTap(samples, weights)))
		}
	}
}

// unsharpRows applies the unsharp stage to rows [y0, y1).
func unsharpRows(d Descriptor, y0, y1 int) {
	stencil := filter.UnsharpStencil
	weights := make([]float32, len(stencil))
	for i, tap := range stencil {
		weights[i] = tap.Weight
	}
	samples := make([]frame.Color, len(stencil))
	radius := d.Params.UnsharpRadius
	amount := float32(d.Params.UnsharpAmount)
	width := d.Dst.Width()

	for y := y0; y < y1; y++ {
		fy := float64(y)
		for x := 0; x < width; x++ {
			fx := float64(x)
			for i, tap := range stencil {
				samples[i] = d.Src.SampleTexel(fx+tap.DX*radius, fy+tap.DY*radius)
			}
			blurred := filter.BlurTap(samples, weights)
			out := filter.Unsharp(d.Src.At(x, y), blurred, amount)
			d.Dst.Set(x, y, d.Precision.Store(out))
		}
	}
}
