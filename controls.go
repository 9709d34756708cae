package turing

import "github.com/gogpu/turing/frame"

// Tone is a binary Black/White drawing color.
type Tone uint8

const (
	// ToneBlack draws opaque black.
	ToneBlack Tone = iota
	// ToneWhite draws opaque white.
	ToneWhite
)

// Inverse returns the other tone.
func (t Tone) Inverse() Tone {
	if t == ToneBlack {
		return ToneWhite
	}
	return ToneBlack
}

// Color returns the opaque color of the tone.
func (t Tone) Color() frame.Color {
	if t == ToneWhite {
		return frame.White
	}
	return frame.Black
}

// String returns "Black" or "White".
func (t Tone) String() string {
	if t == ToneWhite {
		return "White"
	}
	return "Black"
}

// Controls holds the overlay and export settings exposed by the control
// surface. Pipeline parameters live separately in Params.
//
// Sizes are in buffer texels. Use DefaultControls to get values scaled for
// a given buffer side and Clamp to keep edits within the surface ranges.
type Controls struct {
	// CursorRadius is the radius of the paint disc.
	CursorRadius float64
	// CursorTone is the paint color. Default Black.
	CursorTone Tone
	// BorderTone is the color of the frame border. Default White.
	BorderTone Tone

	// Text is the text to composite. "/" separates lines.
	Text string
	// TextSize is the font size.
	TextSize float64
	// TextWeight is the stroke width of the fill layer.
	TextWeight float64
	// OutlineWeight is the stroke width of the outline layer.
	OutlineWeight float64
	// TextLeading is the line spacing as a fraction of TextSize.
	TextLeading float64
	// TextFill is the fill tone; the outline is always its inverse.
	TextFill Tone
	// Font selects one of the two text faces.
	Font FontChoice

	// PointCount is the number of random discs per seeding.
	PointCount int
	// PointSize is the diameter of each random disc.
	PointSize float64

	// TransparentBackground keys out light pixels on export.
	TransparentBackground bool
	// Threshold is the keying threshold: pixels whose R, G and B are all at
	// or above it become transparent.
	Threshold uint8

	// PendingUnsharpRadius is edited freely and copied into Params only on
	// CommitUnsharpRadius.
	PendingUnsharpRadius float64
}

// DefaultControls returns the control defaults for a side×side buffer.
// Size-like values scale with side/600.
func DefaultControls(side int) Controls {
	s := float64(side) / 600
	return Controls{
		CursorRadius:          float64(side) / 12,
		CursorTone:            ToneBlack,
		BorderTone:            ToneWhite,
		Text:                  "文字",
		TextSize:              250 * s,
		TextWeight:            0,
		OutlineWeight:         15 * s,
		TextLeading:           0.5,
		TextFill:              ToneBlack,
		Font:                  FontRegular,
		PointCount:            20,
		PointSize:             50,
		TransparentBackground: false,
		Threshold:             255,
		PendingUnsharpRadius:  DefaultParams().UnsharpRadius,
	}
}

// TextStroke returns the outline tone, the inverse of TextFill.
func (c *Controls) TextStroke() Tone {
	return c.TextFill.Inverse()
}

// ToggleCursorTone flips the cursor paint color.
func (c *Controls) ToggleCursorTone() {
	c.CursorTone = c.CursorTone.Inverse()
}

// ToggleBorderTone flips the border color.
func (c *Controls) ToggleBorderTone() {
	c.BorderTone = c.BorderTone.Inverse()
}

// ToggleTextTones flips the text fill color; the outline follows.
func (c *Controls) ToggleTextTones() {
	c.TextFill = c.TextFill.Inverse()
}

// ToggleFont switches between the two text faces.
func (c *Controls) ToggleFont() {
	c.Font = c.Font.Next()
}

// TextStyle returns the text compositing style for the current controls.
func (c *Controls) TextStyle() TextStyle {
	return TextStyle{
		Content:       c.Text,
		Font:          c.Font,
		Size:          c.TextSize,
		Weight:        c.TextWeight,
		OutlineWeight: c.OutlineWeight,
		Leading:       c.TextLeading,
		Fill:          c.TextFill.Color(),
		Stroke:        c.TextStroke().Color(),
	}
}

// ExportOptions returns the export settings for the current controls.
func (c *Controls) ExportOptions() ExportOptions {
	return ExportOptions{
		TransparentBackground: c.TransparentBackground,
		Threshold:             c.Threshold,
	}
}

// Clamp limits every numeric control to the control-surface range for a
// side×side buffer.
func (c *Controls) Clamp(side int) {
	s := float64(side) / 600
	c.CursorRadius = clampf(c.CursorRadius, 5, 75*s)
	c.TextSize = clampf(c.TextSize, 100*s, 500*s)
	c.TextWeight = clampf(c.TextWeight, 0, 30*s)
	c.OutlineWeight = clampf(c.OutlineWeight, 0, 30*s)
	c.TextLeading = clampf(c.TextLeading, 0, 4)
	c.PointCount = min(max(c.PointCount, 1), 100)
	c.PointSize = clampf(c.PointSize, 10, 100)
	c.PendingUnsharpRadius = clampf(c.PendingUnsharpRadius, 1, 20)
}

// clampf limits v to [lo, hi]. When hi < lo, lo wins.
func clampf(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo || v != v {
		v = lo
	}
	return v
}
