package main

import (
	"fmt"
	"strconv"

	"github.com/gogpu/turing"
	"github.com/gogpu/turing/frame"
)

func parsePrecision(s string) (frame.Precision, error) {
	switch s {
	case "unorm8":
		return frame.PrecisionUnorm8, nil
	case "float":
		return frame.PrecisionFloat, nil
	default:
		return 0, fmt.Errorf("unknown precision %q (unorm8, float)", s)
	}
}

func parseTone(s string) (turing.Tone, error) {
	switch s {
	case "white":
		return turing.ToneWhite, nil
	case "black":
		return turing.ToneBlack, nil
	default:
		return 0, fmt.Errorf("unknown tone %q (white, black)", s)
	}
}

// parseBackground accepts a tone name or an 8-bit gray level.
func parseBackground(s string) (frame.Color, error) {
	if t, err := parseTone(s); err == nil {
		return t.Color(), nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return frame.Color{}, fmt.Errorf("unknown background %q (white, black, 0-255)", s)
	}
	return frame.Gray(float32(v) / 255), nil
}
