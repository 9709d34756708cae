package turing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/turing/frame"
)

// newTestSim creates a simulation closed at test cleanup.
func newTestSim(t testing.TB, opts ...Option) *Simulation {
	t.Helper()
	sim, err := New(opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { sim.Close() })
	return sim
}

// newTestSession creates a session closed at test cleanup.
func newTestSession(t testing.TB, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(opts...)
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// darkFraction returns the fraction of texels with red below 0.5.
func darkFraction(b *frame.Buffer) float64 {
	n := 0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.At(x, y).R < 0.5 {
				n++
			}
		}
	}
	return float64(n) / float64(b.Width()*b.Height())
}

// variance returns the variance of the red channel.
func variance(b *frame.Buffer) float64 {
	var sum, sum2 float64
	n := float64(b.Width() * b.Height())
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			v := float64(b.At(x, y).R)
			sum += v
			sum2 += v * v
		}
	}
	mean := sum / n
	return sum2/n - mean*mean
}

// transitions counts dark/light changes along row y from x0 to the right
// edge.
func transitions(b *frame.Buffer, x0, y int) int {
	n := 0
	prev := b.At(x0, y).R < 0.5
	for x := x0 + 1; x < b.Width(); x++ {
		dark := b.At(x, y).R < 0.5
		if dark != prev {
			n++
		}
		prev = dark
	}
	return n
}

// uniformImage returns a w×h image filled with c.
func uniformImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// encodePNG encodes img as PNG bytes.
func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() = %v", err)
	}
	return buf.Bytes()
}
