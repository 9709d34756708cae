package turing

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	textwidth "golang.org/x/text/width"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/cache"
)

// LineDelimiter separates lines in text content.
const LineDelimiter = "/"

// FontChoice selects one of the two text faces.
type FontChoice int

const (
	// FontRegular is a proportional sans-serif face (Go Regular by default).
	FontRegular FontChoice = iota
	// FontMono is a monospaced face (Go Mono by default).
	FontMono
)

// Next returns the other font choice.
func (f FontChoice) Next() FontChoice {
	if f == FontRegular {
		return FontMono
	}
	return FontRegular
}

// String returns the font name.
func (f FontChoice) String() string {
	switch f {
	case FontRegular:
		return "Regular"
	case FontMono:
		return "Mono"
	default:
		return fmt.Sprintf("FontChoice(%d)", int(f))
	}
}

// TextStyle describes one text composite.
type TextStyle struct {
	Content       string
	Font          FontChoice
	Size          float64
	Weight        float64 // stroke width of the fill layer
	OutlineWeight float64 // stroke width of the outline layer
	Leading       float64 // line spacing as a fraction of Size
	Fill          frame.Color
	Stroke        frame.Color
}

// TextLines splits content into lines. Full-width characters are folded to
// their narrow forms first, so "／" separates lines just like "/".
func TextLines(content string) []string {
	return strings.Split(textwidth.Fold.String(content), LineDelimiter)
}

// maxFaces bounds the sized faces kept per simulation.
const maxFaces = 16

type faceKey struct {
	font FontChoice
	size float64
}

// fontSet lazily parses the two text faces and caches sized faces.
type fontSet struct {
	data    map[FontChoice][]byte
	sources map[FontChoice]*text.FontSource
	faces   *cache.Cache[faceKey, text.Face]
}

func newFontSet(custom map[FontChoice][]byte) *fontSet {
	data := map[FontChoice][]byte{
		FontRegular: goregular.TTF,
		FontMono:    gomono.TTF,
	}
	for k, v := range custom {
		if v != nil {
			data[k] = v
		}
	}
	return &fontSet{
		data:    data,
		sources: make(map[FontChoice]*text.FontSource),
		faces:   cache.New[faceKey, text.Face](maxFaces),
	}
}

func (fs *fontSet) source(f FontChoice) (*text.FontSource, error) {
	if src, ok := fs.sources[f]; ok {
		return src, nil
	}
	data, ok := fs.data[f]
	if !ok {
		return nil, fmt.Errorf("turing: unknown font %s", f)
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("turing: font %s: %w", f, err)
	}
	fs.sources[f] = src
	return src, nil
}

// face returns font f at size, creating it on first use.
func (fs *fontSet) face(f FontChoice, size float64) (text.Face, error) {
	src, err := fs.source(f)
	if err != nil {
		return nil, err
	}
	return fs.faces.GetOrCreate(faceKey{f, size}, func() text.Face {
		return src.Face(size)
	}), nil
}

func (fs *fontSet) close() error {
	Logger().Debug("turing: font faces released",
		"cached", fs.faces.Len(), "evicted", fs.faces.Evictions())
	fs.faces.Clear()
	var first error
	for f, src := range fs.sources {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
		delete(fs.sources, f)
	}
	return first
}

// CompositeText draws multi-line text centred on the frame.
//
// Two layers are composited in order: the outline layer (glyphs grown by
// OutlineWeight/2 in the Stroke color), then the fill layer (glyphs grown by
// Weight/2 in the Fill color). Baselines are Size×Leading apart.
func (c *Compositor) CompositeText(style TextStyle) error {
	if style.Content == "" || style.Size <= 0 {
		return nil
	}

	face, err := c.fonts.face(style.Font, style.Size)
	if err != nil {
		return err
	}
	lines := TextLines(style.Content)

	w, h := float64(c.store.Width()), float64(c.store.Height())
	step := style.Size * style.Leading
	top := h/2 - step*float64(len(lines)-1)/2

	draw := func(grow float64) func(dc *gg.Context) error {
		return func(dc *gg.Context) error {
			dc.SetFont(face)
			for _, off := range dilation(grow) {
				for i, line := range lines {
					y := top + float64(i)*step
					dc.DrawStringAnchored(line, w/2+off[0], y+off[1], 0.5, 0.5)
				}
			}
			return nil
		}
	}

	if err := c.composite(style.Stroke, draw(style.OutlineWeight/2)); err != nil {
		return err
	}
	if err := c.composite(style.Fill, draw(style.Weight/2)); err != nil {
		return err
	}

	c.logger.Debug("turing: text composited", "lines", len(lines), "size", style.Size)
	return nil
}

// dilation returns the offsets at which to repeat a glyph run so that the
// union approximates the run grown by r texels: the origin plus rings one
// texel apart out to r.
func dilation(r float64) [][2]float64 {
	offs := [][2]float64{{0, 0}}
	if r <= 0 {
		return offs
	}
	for rho := math.Min(1, r); ; rho = math.Min(rho+1, r) {
		n := max(8, int(math.Ceil(2*math.Pi*rho)))
		for k := range n {
			a := 2 * math.Pi * float64(k) / float64(n)
			offs = append(offs, [2]float64{rho * math.Cos(a), rho * math.Sin(a)})
		}
		if rho >= r {
			break
		}
	}
	return offs
}
