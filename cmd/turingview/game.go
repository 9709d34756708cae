package main

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/gogpu/turing"
)

// Game adapts a Session to ebiten.
type Game struct {
	session *turing.Session
	texture *ebiten.Image
	chars   []rune

	// Preserved across resolution changes, which reset the controls.
	text        string
	transparent bool
}

func newGame(s *turing.Session, text string, transparent bool) *Game {
	return &Game{session: s, text: text, transparent: transparent}
}

// Update handles input and advances the session by one tick.
func (g *Game) Update() error {
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		switch r {
		case '[', ']':
			g.stepResolution(r == ']')
		default:
			// Rejections surface through Message.
			_ = g.session.KeyPress(r, false)
		}
	}

	if dropped := ebiten.DroppedFiles(); dropped != nil {
		g.loadDropped(dropped)
	}

	side := float64(g.session.Simulation().Size())
	cx, cy := ebiten.CursorPosition()
	x := float64(cx) * side / displaySide
	y := float64(cy) * side / displaySide
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.session.PointerDown(x, y)
	} else {
		g.session.PointerUp()
	}

	return g.session.Tick()
}

// stepResolution moves to the next or previous supported resolution.
func (g *Game) stepResolution(up bool) {
	res := turing.Resolutions
	i := slices.Index(res, g.session.Simulation().Size())
	if up {
		i = min(i+1, len(res)-1)
	} else {
		i = max(i-1, 0)
	}
	if res[i] == g.session.Simulation().Size() {
		return
	}
	if err := g.session.SetResolution(res[i]); err != nil {
		turing.Logger().Error("turingview: resolution change failed", "err", err)
		return
	}
	if g.text != "" {
		g.session.Controls().Text = g.text
	}
	g.session.Controls().TransparentBackground = g.transparent
}

// loadDropped selects the first dropped file as the session image.
func (g *Game) loadDropped(files fs.FS) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := files.Open(e.Name())
		if err != nil {
			continue
		}
		_ = g.session.LoadImage(path.Base(e.Name()), f)
		f.Close()
		return
	}
}

// Draw uploads the current frame and scales it to the window.
func (g *Game) Draw(screen *ebiten.Image) {
	cur := g.session.Simulation().Current()
	if g.texture == nil || g.texture.Bounds().Dx() != cur.Width() {
		if g.texture != nil {
			g.texture.Deallocate()
		}
		g.texture = ebiten.NewImage(cur.Width(), cur.Height())
	}
	// Frames are opaque unless painted otherwise, so straight and
	// premultiplied alpha agree.
	g.texture.WritePixels(cur.ToNRGBA().Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(displaySide/float64(cur.Width()), displaySide/float64(cur.Height()))
	screen.DrawImage(g.texture, op)

	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	var b strings.Builder
	sim := g.session.Simulation()
	fmt.Fprintf(&b, "%s  %dx%d  frame %d  image: %s",
		g.session.Status(), sim.Size(), sim.Size(), sim.Frames(), g.session.ImageName())
	if msg := g.session.Message(); msg != "" {
		fmt.Fprintf(&b, "\n%s", msg)
	}
	return b.String()
}

// Layout fixes the logical screen at the display size.
func (g *Game) Layout(_, _ int) (int, int) {
	return displaySide, displaySide
}
