package turing

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/turing/frame"
)

// ExportOptions control still-image export.
type ExportOptions struct {
	// TransparentBackground keys out light pixels.
	TransparentBackground bool

	// Threshold is the keying threshold: a pixel whose R, G and B are all
	// at or above it gets alpha 0. Only used with TransparentBackground.
	Threshold uint8
}

// FilenamePrefix starts every timestamped export name.
const FilenamePrefix = "reaction-diffusion_"

// Filename returns the export file name for t, for example
// "reaction-diffusion_2024-5-15_9-3-7.png". Fields are not zero-padded.
func Filename(t time.Time) string {
	return fmt.Sprintf("%s%d-%d-%d_%d-%d-%d.png", FilenamePrefix,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// Snapshot converts buf to an 8-bit image with opts applied.
func Snapshot(buf *frame.Buffer, opts ExportOptions) *image.NRGBA {
	img := buf.ToNRGBA()
	if opts.TransparentBackground {
		KeyBackground(img, opts.Threshold)
	}
	return img
}

// KeyBackground sets alpha to 0 for every pixel of img whose R, G and B
// are all at least threshold. Other pixels are left unchanged.
func KeyBackground(img *image.NRGBA, threshold uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			if row[i] >= threshold && row[i+1] >= threshold && row[i+2] >= threshold {
				row[i+3] = 0
			}
		}
	}
}

// Export writes buf to w as PNG.
func Export(w io.Writer, buf *frame.Buffer, opts ExportOptions) error {
	if err := png.Encode(w, Snapshot(buf, opts)); err != nil {
		return fmt.Errorf("turing: export: %w", err)
	}
	return nil
}

// ExportFile writes buf as a PNG file at path.
func ExportFile(path string, buf *frame.Buffer, opts ExportOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("turing: export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("turing: export: %w", cerr)
		}
	}()
	return Export(f, buf, opts)
}

// SaveTimestamped writes buf into dir under Filename(now) and returns the
// full path.
func SaveTimestamped(dir string, now time.Time, buf *frame.Buffer, opts ExportOptions) (string, error) {
	path := filepath.Join(dir, Filename(now))
	if err := ExportFile(path, buf, opts); err != nil {
		return "", err
	}
	Logger().Info("turing: saved", "path", path, "transparent", opts.TransparentBackground)
	return path, nil
}
