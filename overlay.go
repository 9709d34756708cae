package turing

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/gogpu/turing/frame"
)

// Compositor draws overlay primitives directly onto the current frame.
//
// Shapes are rasterized by a gg.Context as white-on-transparent coverage
// and then blended into the frame in the requested color, so anti-aliased
// edges mix with whatever the frame already holds.
//
// Compositor methods must not be called while a Step is running.
type Compositor struct {
	store  *frame.Store
	fonts  *fontSet
	logger *slog.Logger

	dc *gg.Context // lazily created, reused across draws
}

func newCompositor(store *frame.Store, fonts *fontSet, logger *slog.Logger) *Compositor {
	return &Compositor{store: store, fonts: fonts, logger: logger}
}

// Target returns the buffer the compositor draws onto.
func (c *Compositor) Target() *frame.Buffer {
	return c.store.Current()
}

// layer returns the drawing context cleared to transparent with a white
// brush.
func (c *Compositor) layer() *gg.Context {
	if c.dc == nil {
		c.dc = gg.NewContext(c.store.Width(), c.store.Height())
	}
	c.dc.ClearWithColor(gg.Transparent)
	c.dc.SetRGBA(1, 1, 1, 1)
	return c.dc
}

// composite rasterizes draw into a fresh coverage layer and blends col
// into the target through it.
func (c *Compositor) composite(col frame.Color, draw func(dc *gg.Context) error) error {
	dc := c.layer()
	if err := draw(dc); err != nil {
		return err
	}
	c.Target().Composite(dc.Image(), col)
	return nil
}

// PaintCircle fills a disc of radius r centred at (x, y), in texels.
// Non-positive radii draw nothing.
func (c *Compositor) PaintCircle(x, y, r float64, col frame.Color) error {
	if r <= 0 {
		return nil
	}
	return c.composite(col, func(dc *gg.Context) error {
		dc.DrawCircle(x, y, r)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("turing: paint circle: %w", err)
		}
		return nil
	})
}

// PaintRandomPoints fills count black discs of diameter size at uniform
// random positions over the frame.
func (c *Compositor) PaintRandomPoints(count int, size float64, rng *rand.Rand) error {
	if count <= 0 || size <= 0 {
		return nil
	}
	w, h := float64(c.store.Width()), float64(c.store.Height())
	return c.composite(frame.Black, func(dc *gg.Context) error {
		for range count {
			x := rng.Float64() * w
			y := rng.Float64() * h
			dc.DrawCircle(x, y, size/2)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("turing: random points: %w", err)
			}
		}
		return nil
	})
}

// StrokeBorder strokes a rectangle along the full frame extent. The stroke
// is centred on the frame edge, so half of thickness is visible.
func (c *Compositor) StrokeBorder(col frame.Color, thickness float64) error {
	if thickness <= 0 {
		return nil
	}
	w, h := float64(c.store.Width()), float64(c.store.Height())
	return c.composite(col, func(dc *gg.Context) error {
		dc.DrawRectangle(0, 0, w, h)
		dc.SetLineWidth(thickness)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("turing: border: %w", err)
		}
		return nil
	})
}

// BorderThickness returns the default border stroke width for a side×side
// frame.
func BorderThickness(side int) float64 {
	return float64(side) / 24
}

func (c *Compositor) close() {
	if c.dc == nil {
		return
	}
	if err := c.dc.Close(); err != nil {
		c.logger.Warn("turing: closing overlay context", "err", err)
	}
	c.dc = nil
}
