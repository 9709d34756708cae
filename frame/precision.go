package frame

// Precision selects how pass outputs are stored.
type Precision int

const (
	// PrecisionUnorm8 rounds every stored channel to the nearest 1/255,
	// matching an 8-bit RGBA render target. This is the default.
	PrecisionUnorm8 Precision = iota

	// PrecisionFloat keeps full float32 results.
	PrecisionFloat
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionUnorm8:
		return "unorm8"
	case PrecisionFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Store converts c to the storage precision.
func (p Precision) Store(c Color) Color {
	if p != PrecisionUnorm8 {
		return c
	}
	return Color{Quantize(c.R), Quantize(c.G), Quantize(c.B), Quantize(c.A)}
}
