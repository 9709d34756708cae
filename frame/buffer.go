package frame

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
)

// ErrSizeMismatch is returned when two buffers that must share dimensions do not.
var ErrSizeMismatch = errors.New("frame: buffer size mismatch")

// Buffer is a rectangular grid of straight-alpha RGBA float32 samples.
// Samples are stored row-major, four channels per texel.
//
// Reads outside the grid use clamp-to-edge addressing: they return the
// nearest edge texel. Writes outside the grid are ignored.
type Buffer struct {
	width  int
	height int
	pix    []float32
}

// New creates a new transparent buffer with the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}
}

// Width returns the width of the buffer in texels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in texels.
func (b *Buffer) Height() int {
	return b.height
}

// Pix returns the raw samples (RGBA, 4 per texel).
func (b *Buffer) Pix() []float32 {
	return b.pix
}

// TexelSize returns (1/width, 1/height), the size of one texel in
// normalized coordinates.
func (b *Buffer) TexelSize() (float64, float64) {
	return 1 / float64(b.width), 1 / float64(b.height)
}

// At returns the texel at (x, y), clamping the coordinates to the buffer edge.
func (b *Buffer) At(x, y int) Color {
	x = clampIndex(x, b.width)
	y = clampIndex(y, b.height)
	i := (y*b.width + x) * 4
	return Color{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
}

// Set sets the texel at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// Clear fills the entire buffer with a color.
func (b *Buffer) Clear(c Color) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// SampleTexel samples the buffer at texel coordinates, where texel centres
// sit on integers. Fractional coordinates are bilinearly interpolated.
// Coordinates beyond the buffer are clamped to the edge texel centres, so
// the result equals the nearest edge texel (clamp-to-edge).
func (b *Buffer) SampleTexel(x, y float64) Color {
	x = clampCoord(x, b.width)
	y = clampCoord(y, b.height)

	fx0 := math.Floor(x)
	fy0 := math.Floor(y)
	x0, y0 := int(fx0), int(fy0)
	tx := float32(x - fx0)
	ty := float32(y - fy0)

	if tx == 0 && ty == 0 {
		return b.At(x0, y0)
	}

	x1 := min(x0+1, b.width-1)
	y1 := min(y0+1, b.height-1)

	top := b.At(x0, y0).Lerp(b.At(x1, y0), tx)
	bottom := b.At(x0, y1).Lerp(b.At(x1, y1), tx)
	return top.Lerp(bottom, ty)
}

// Sample samples the buffer at normalized coordinates (u, v) in [0, 1]².
// (0, 0) is the top-left corner of the first texel; texel centres are at
// ((x+0.5)/width, (y+0.5)/height).
func (b *Buffer) Sample(u, v float64) Color {
	return b.SampleTexel(u*float64(b.width)-0.5, v*float64(b.height)-0.5)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := New(b.width, b.height)
	copy(c.pix, b.pix)
	return c
}

// Equal reports whether two buffers have the same size and bit-identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i, v := range b.pix {
		if math.Float32bits(v) != math.Float32bits(o.pix[i]) {
			return false
		}
	}
	return true
}

// MeanLuminance returns the average luma over all texels.
func (b *Buffer) MeanLuminance() float64 {
	n := b.width * b.height
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(b.pix); i += 4 {
		c := Color{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
		sum += float64(c.Luminance())
	}
	return sum / float64(n)
}

// Blit copies src into dst. Both buffers must have the same dimensions.
func Blit(dst, src *Buffer) error {
	if dst.width != src.width || dst.height != src.height {
		return fmt.Errorf("%w: dst %dx%d, src %dx%d",
			ErrSizeMismatch, dst.width, dst.height, src.width, src.height)
	}
	copy(dst.pix, src.pix)
	return nil
}

// Composite blends c over the buffer, using the alpha channel of cov as
// per-texel coverage. cov is positioned with its bounds origin at (0, 0).
func (b *Buffer) Composite(cov image.Image, c Color) {
	bounds := cov.Bounds()
	w := min(bounds.Dx(), b.width)
	h := min(bounds.Dy(), b.height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := coverageAt(cov, bounds.Min.X+x, bounds.Min.Y+y)
			if a == 0 {
				continue
			}
			i := (y*b.width + x) * 4
			dst := Color{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
			b.put(i, dst.Lerp(c, a))
		}
	}
}

// DrawImage draws img over the buffer with its top-left corner at (x, y),
// using source-over blending.
func (b *Buffer) DrawImage(img image.Image, x, y int) {
	bounds := img.Bounds()
	for sy := bounds.Min.Y; sy < bounds.Max.Y; sy++ {
		dy := y + sy - bounds.Min.Y
		if dy < 0 || dy >= b.height {
			continue
		}
		for sx := bounds.Min.X; sx < bounds.Max.X; sx++ {
			dx := x + sx - bounds.Min.X
			if dx < 0 || dx >= b.width {
				continue
			}
			src := FromColor(img.At(sx, sy))
			if src.A == 0 {
				continue
			}
			i := (dy*b.width + dx) * 4
			dst := Color{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
			out := dst.Lerp(Color{src.R, src.G, src.B, 1}, src.A)
			out.A = src.A + dst.A*(1-src.A)
			b.put(i, out)
		}
	}
}

// ToNRGBA converts the buffer to an 8-bit straight-alpha image.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i, v := range b.pix {
		img.Pix[i] = ToUnorm8(v)
	}
	return img
}

// FromImage creates a buffer from an image.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.Set(x, y, FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return b
}

// WritePNG encodes the buffer as PNG.
func (b *Buffer) WritePNG(w io.Writer) error {
	return png.Encode(w, b.ToNRGBA())
}

func (b *Buffer) put(i int, c Color) {
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// coverageAt returns the alpha of img at (x, y) in [0, 1].
func coverageAt(img image.Image, x, y int) float32 {
	switch m := img.(type) {
	case *image.Alpha:
		return float32(m.AlphaAt(x, y).A) / 255
	case *image.RGBA:
		return float32(m.RGBAAt(x, y).A) / 255
	case *image.NRGBA:
		return float32(m.NRGBAAt(x, y).A) / 255
	}
	_, _, _, a := img.At(x, y).RGBA()
	return float32(a) / 0xffff
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampCoord(v float64, n int) float64 {
	if v < 0 || v != v {
		return 0
	}
	if hi := float64(n - 1); v > hi {
		return hi
	}
	return v
}
