package turing

import "errors"

var (
	// ErrUnsupportedImage is returned when an imported file is not a JPEG or PNG.
	ErrUnsupportedImage = errors.New("turing: unsupported image type, use JPEG or PNG")

	// ErrNoImage is returned when an image is submitted before one was loaded.
	ErrNoImage = errors.New("turing: no image loaded")

	// ErrInvalidResolution is returned for a resolution outside Resolutions.
	ErrInvalidResolution = errors.New("turing: invalid resolution")

	// ErrClosed is returned when a closed Simulation is used.
	ErrClosed = errors.New("turing: simulation closed")
)
