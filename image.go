package turing

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DecodeImage decodes a JPEG or PNG image from r, honoring EXIF
// orientation. Any other format, or undecodable data, yields an error
// wrapping ErrUnsupportedImage.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("turing: read image: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

// ScaleToFit scales img uniformly so that its longer side equals
// longSide, using Catmull-Rom resampling.
func ScaleToFit(img image.Image, longSide int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || longSide <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	scale := float64(longSide) / float64(max(w, h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// CompositeImage scales img so its longer side equals longSide and draws
// it centred over the frame.
func (c *Compositor) CompositeImage(img image.Image, longSide int) {
	scaled := ScaleToFit(img, longSide)
	dst := c.Target()
	dw, dh := scaled.Bounds().Dx(), scaled.Bounds().Dy()
	x, y := (dst.Width()-dw)/2, (dst.Height()-dh)/2
	dst.DrawImage(scaled, x, y)
	c.logger.Debug("turing: image composited",
		"width", dw, "height", dh, "x", x, "y", y)
}
