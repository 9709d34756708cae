package frame

import "image/color"

// Color is a straight-alpha RGBA sample. Each component is nominally in the
// range [0, 1]; intermediate results of filters may leave that range until
// they are clamped.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black       = Gray(0)
	White       = Gray(1)
	Transparent = Color{}
)

// Gray returns an opaque gray level.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Add returns c + o per channel.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Sub returns c - o per channel.
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A}
}

// Scale returns c * s per channel.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Lerp interpolates between c and o by t.
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Clamp limits every channel to [0, 1].
// NaN channels are passed through unchanged.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// Luminance returns the Rec. 601 luma of the color.
func (c Color) Luminance() float32 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// NRGBA converts the color to 8-bit straight alpha.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: ToUnorm8(c.R),
		G: ToUnorm8(c.G),
		B: ToUnorm8(c.B),
		A: ToUnorm8(c.A),
	}
}

// FromColor converts a standard color.Color to a straight-alpha Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// ToUnorm8 rounds a [0, 1] value to the nearest 8-bit level.
func ToUnorm8(v float32) uint8 {
	v = clamp01(v) * 255
	if v != v {
		return 0
	}
	return uint8(v + 0.5)
}

// Quantize rounds v to the nearest multiple of 1/255 after clamping.
func Quantize(v float32) float32 {
	return float32(ToUnorm8(v)) / 255
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

