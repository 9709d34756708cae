package turing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/settings"
)

func TestNewSessionResolutionFromStore(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   int
	}{
		{"empty store", "", DefaultResolution},
		{"stored value", "300", 300},
		{"unsupported value", "123", DefaultResolution},
		{"garbage", "big", DefaultResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settings.NewMemoryStore()
			if tt.stored != "" {
				_ = store.Set(settings.KeyResolution, tt.stored)
			}
			s := newTestSession(t, WithStore(store))
			if got := s.Simulation().Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewSessionWarmUp(t *testing.T) {
	s := newTestSession(t, WithResolution(100))

	if s.Status() != "Running" {
		t.Errorf("Status() = %q, want Running", s.Status())
	}
	if got := s.Simulation().Frames(); got != warmUpTicks {
		t.Errorf("Frames() = %d after warm-up, want %d", got, warmUpTicks)
	}
	want := DefaultControls(100)
	if *s.Controls() != want {
		t.Errorf("Controls() = %+v, want %+v", *s.Controls(), want)
	}
}

func TestSessionBorderDrawnEveryTick(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.Controls().BorderTone = ToneBlack
	s.Pause()

	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	frames := s.Simulation().Frames()
	cur := s.Simulation().Current()
	if got := cur.At(0, 0); got != frame.Black {
		t.Errorf("corner = %+v, want black border", got)
	}
	if got := cur.At(50, 50); got != frame.White {
		t.Errorf("centre = %+v, want white", got)
	}
	if s.Simulation().Frames() != frames {
		t.Error("paused tick ran the pipeline")
	}
}

func TestSessionPointerPaintsWhilePaused(t *testing.T) {
	s := newTestSession(t, WithResolution(200))
	s.Pause()

	s.PointerDown(60, 60)
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	if got := s.Simulation().Current().At(60, 60); got != frame.Black {
		t.Errorf("(60,60) = %+v, want black cursor disc", got)
	}

	s.PointerMove(140, 140)
	s.PointerUp()
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	if got := s.Simulation().Current().At(140, 140); got != frame.White {
		t.Errorf("(140,140) = %+v, want white after release", got)
	}
}

func TestSessionStepForwardExactness(t *testing.T) {
	a := newTestSession(t, WithResolution(100), WithRand(rand.New(rand.NewPCG(1, 2))))
	b := newTestSession(t, WithResolution(100), WithRand(rand.New(rand.NewPCG(1, 2))))

	for _, s := range []*Session{a, b} {
		if err := s.RandomPoints(); err != nil {
			t.Fatal(err)
		}
	}
	if !a.Simulation().Current().Equal(b.Simulation().Current()) {
		t.Fatal("seeded random points differ")
	}

	if n, err := a.StepForward(5); err != nil || n != 5 {
		t.Fatalf("StepForward(5) = %d, %v", n, err)
	}

	// The same five ticks by hand: pipeline, then border.
	simB := b.Simulation()
	for range 5 {
		if err := simB.Step(); err != nil {
			t.Fatal(err)
		}
		if err := simB.Overlay().StrokeBorder(b.Controls().BorderTone.Color(), BorderThickness(100)); err != nil {
			t.Fatal(err)
		}
	}

	if !a.Simulation().Current().Equal(simB.Current()) {
		t.Error("StepForward(5) differs from five manual ticks")
	}
	if a.State() != Paused {
		t.Errorf("state after StepForward = %v, want Paused", a.State())
	}
}

func TestSessionKeyPress(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.SetSaveDir(t.TempDir())

	press := func(r rune) {
		t.Helper()
		if err := s.KeyPress(r, false); err != nil {
			t.Fatalf("KeyPress(%q) = %v", r, err)
		}
	}

	press(' ')
	if s.State() != Paused {
		t.Fatalf("space: state = %v, want Paused", s.State())
	}

	// Suppressed while a text field has focus.
	if err := s.KeyPress(' ', true); err != nil {
		t.Fatal(err)
	}
	if s.State() != Paused {
		t.Error("space with text focus changed the state")
	}

	toggles := []struct {
		key  rune
		get  func() string
		want string
	}{
		{'b', func() string { return s.Controls().CursorTone.String() }, "White"},
		{'v', func() string { return s.Controls().BorderTone.String() }, "Black"},
		{'k', func() string { return s.Controls().TextFill.String() + "/" + s.Controls().TextStroke().String() }, "White/Black"},
		{'f', func() string { return s.Controls().Font.String() }, "Mono"},
	}
	for _, tt := range toggles {
		press(tt.key)
		if got := tt.get(); got != tt.want {
			t.Errorf("after %q: %s, want %s", tt.key, got, tt.want)
		}
	}

	frames := s.Simulation().Frames()
	press('3')
	press('0')
	if got := s.Simulation().Frames() - frames; got != 13 {
		t.Errorf("keys 3 and 0 stepped %d frames, want 13", got)
	}

	// Unbound keys are ignored.
	press('z')

	press(' ')
	frames = s.Simulation().Frames()
	press('5')
	if s.Simulation().Frames() != frames {
		t.Error("digit key stepped while running")
	}
}

func TestSessionKeyPressPausingActions(t *testing.T) {
	for _, key := range []rune{'r', 't'} {
		s := newTestSession(t, WithResolution(100), WithRand(rand.New(rand.NewPCG(3, 4))))
		s.Controls().Text = "A"
		if err := s.KeyPress(key, false); err != nil {
			t.Fatalf("KeyPress(%q) = %v", key, err)
		}
		if s.State() != Paused {
			t.Errorf("%q: state = %v, want Paused", key, s.State())
		}
		if darkFraction(s.Simulation().Current()) == 0 {
			t.Errorf("%q drew nothing", key)
		}
	}
}

func TestSessionClearKey(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.Simulation().Current().Clear(frame.Black)
	if err := s.KeyPress('c', false); err != nil {
		t.Fatal(err)
	}
	if got := s.Simulation().Current().At(10, 10); got != frame.White {
		t.Errorf("after clear = %+v, want white", got)
	}
}

func TestSessionSubmitImageWithoutImage(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	before := s.Simulation().Current().Clone()

	err := s.KeyPress('i', false)
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("submit without image = %v, want ErrNoImage", err)
	}
	if s.Message() != MsgNoImage {
		t.Errorf("Message() = %q, want %q", s.Message(), MsgNoImage)
	}
	if s.State() != Running {
		t.Errorf("state = %v, want Running", s.State())
	}
	if !s.Simulation().Current().Equal(before) {
		t.Error("rejected submit changed the frame")
	}
}

func TestSessionLoadImage(t *testing.T) {
	s := newTestSession(t, WithResolution(100))

	var gifData bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	if err := gif.Encode(&gifData, pal, nil); err != nil {
		t.Fatal(err)
	}

	err := s.LoadImage("anim.gif", &gifData)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("LoadImage(gif) = %v, want ErrUnsupportedImage", err)
	}
	if s.Message() != MsgUnsupportedImage {
		t.Errorf("Message() = %q, want %q", s.Message(), MsgUnsupportedImage)
	}
	if s.ImageName() != "None" {
		t.Errorf("ImageName() = %q after rejection, want None", s.ImageName())
	}

	black := uniformImage(50, 25, color.Black)
	if err := s.LoadImage("black.png", bytes.NewReader(encodePNG(t, black))); err != nil {
		t.Fatalf("LoadImage(png) = %v", err)
	}
	if s.ImageName() != "black.png" || s.Message() != "" {
		t.Errorf("ImageName() = %q, Message() = %q", s.ImageName(), s.Message())
	}

	if err := s.SubmitImage(); err != nil {
		t.Fatalf("SubmitImage() = %v", err)
	}
	if s.State() != Paused {
		t.Errorf("state = %v, want Paused", s.State())
	}
	cur := s.Simulation().Current()
	// 50×25 scaled to a long side of 100 is centred on rows 25..74.
	if got := cur.At(50, 50); got != frame.Black {
		t.Errorf("(50,50) = %+v, want black", got)
	}
	for _, y := range []int{15, 85} {
		if got := cur.At(50, y); got != frame.White {
			t.Errorf("(50,%d) = %+v, want white", y, got)
		}
	}
}

func TestSessionSetResolution(t *testing.T) {
	store := settings.NewMemoryStore()
	s := newTestSession(t, WithStore(store))
	s.PointerDown(10, 10)
	s.Pause()

	if err := s.SetResolution(400); err != nil {
		t.Fatalf("SetResolution(400) = %v", err)
	}
	if got, _ := store.Get(settings.KeyResolution); got != "400" {
		t.Errorf("stored resolution = %q, want 400", got)
	}
	if s.Simulation().Size() != 400 {
		t.Errorf("Size() = %d, want 400", s.Simulation().Size())
	}
	if s.Controls().CursorRadius != 400.0/12 {
		t.Errorf("CursorRadius = %v, want %v", s.Controls().CursorRadius, 400.0/12)
	}
	if s.pointer.down {
		t.Error("pointer still engaged after reset")
	}
	if s.State() != Running {
		t.Errorf("state after SetResolution = %v, want Running", s.State())
	}
	if got := s.Simulation().Frames(); got != warmUpTicks {
		t.Errorf("Frames() = %d after SetResolution, want %d warm-up frames", got, warmUpTicks)
	}

	if err := s.SetResolution(450); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("SetResolution(450) = %v, want ErrInvalidResolution", err)
	}

	reopened := newTestSession(t, WithStore(store))
	if reopened.Simulation().Size() != 400 {
		t.Errorf("new session size = %d, want persisted 400", reopened.Simulation().Size())
	}
}

func TestSessionCommitUnsharpRadius(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.Controls().PendingUnsharpRadius = 7.5

	if s.Params().UnsharpRadius != 3.5 {
		t.Fatalf("radius changed before commit: %v", s.Params().UnsharpRadius)
	}
	s.CommitUnsharpRadius()
	if s.Params().UnsharpRadius != 7.5 {
		t.Errorf("UnsharpRadius = %v after commit, want 7.5", s.Params().UnsharpRadius)
	}
}

func TestSessionCommitUnsharpRadiusClamps(t *testing.T) {
	tests := []struct {
		pending float64
		want    float64
	}{
		{0, 1},
		{-3, 1},
		{50, 20},
		{12, 12},
	}
	for _, tt := range tests {
		s := newTestSession(t, WithResolution(100))
		s.Controls().PendingUnsharpRadius = tt.pending
		s.CommitUnsharpRadius()
		if got := s.Params().UnsharpRadius; got != tt.want {
			t.Errorf("commit %v: UnsharpRadius = %v, want %v", tt.pending, got, tt.want)
		}
	}
}

func TestSessionClampsCursorRadius(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.Pause()
	s.Controls().CursorRadius = 1000

	s.PointerDown(50, 50)
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	if got, want := s.Controls().CursorRadius, 75.0*100/600; got != want {
		t.Errorf("CursorRadius = %v, want %v", got, want)
	}
	if got := s.Simulation().Current().At(20, 50); got != frame.White {
		t.Errorf("(20,50) = %+v, want white outside the clamped disc", got)
	}
}

func TestSessionSaveFailureSetsMessage(t *testing.T) {
	s := newTestSession(t, WithResolution(100))
	s.SetSaveDir(filepath.Join(t.TempDir(), "missing"))

	if err := s.KeyPress('s', false); err == nil {
		t.Fatal("save into a missing directory succeeded")
	}
	if msg := s.Message(); !strings.HasPrefix(msg, MsgSaveFailed) {
		t.Errorf("Message() = %q, want prefix %q", msg, MsgSaveFailed)
	}
}

func TestSessionSave(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, WithResolution(100))
	s.SetSaveDir(dir)
	s.now = func() time.Time { return time.Date(2024, 5, 15, 9, 3, 7, 0, time.Local) }

	if err := s.KeyPress('s', false); err != nil {
		t.Fatalf("save key = %v", err)
	}
	path := filepath.Join(dir, "reaction-diffusion_2024-5-15_9-3-7.png")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}
