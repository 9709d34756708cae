package turing

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/gogpu/turing/settings"
)

// warmUpTicks is the number of ticks a new Session performs before it is
// returned, so the border is already diffused into the first visible frame.
const warmUpTicks = 3

// User-facing messages for rejected actions.
const (
	MsgUnsupportedImage = "Please select a JPEG or PNG image file."
	MsgNoImage          = "Load an image file first."
	MsgSaveFailed       = "Could not save the image"
)

type pointerState struct {
	down bool
	x, y float64
}

// Session is an interactive pattern session: a Simulation driven by a
// Scheduler, plus the control-surface state and the input bindings.
//
// Input arrives as plain method calls (pointer positions in texels, key
// runes), so any windowing layer can drive a Session.
//
// A Session is not safe for concurrent use.
type Session struct {
	sim      *Simulation
	sched    *Scheduler
	controls Controls
	keymap   Keymap
	store    settings.Store
	rng      *rand.Rand
	logger   *slog.Logger

	pointer   pointerState
	image     image.Image
	imageName string
	message   string

	saveDir string
	now     func() time.Time
}

// NewSession creates a session and performs the warm-up ticks.
//
// Without WithResolution the side is read from the settings store
// (settings.KeyResolution), falling back to DefaultResolution.
func NewSession(opts ...Option) (*Session, error) {
	o := buildOptions(opts)
	if o.store == nil {
		o.store = settings.NewMemoryStore()
	}
	side := o.resolution
	if side == 0 {
		side = StoredResolution(o.store)
	}

	sim, err := newSimulation(side, o)
	if err != nil {
		return nil, err
	}

	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Session{
		sim:      sim,
		controls: DefaultControls(side),
		keymap:   DefaultKeymap(),
		store:    o.store,
		rng:      rng,
		logger:   sim.logger,
		saveDir:  ".",
		now:      time.Now,
	}
	s.sched = NewScheduler(s.frame)

	if err := s.warmUp(); err != nil {
		sim.Close()
		return nil, err
	}
	return s, nil
}

// frame is the Scheduler's FrameFunc: optionally one pipeline run, then the
// cursor disc (while the pointer is down) and the border.
func (s *Session) frame(advance bool) error {
	if advance {
		if err := s.sim.Step(); err != nil {
			return err
		}
	}
	ov := s.sim.Overlay()
	if s.pointer.down {
		s.ClampControls()
		if err := ov.PaintCircle(s.pointer.x, s.pointer.y, s.controls.CursorRadius, s.controls.CursorTone.Color()); err != nil {
			return err
		}
	}
	return ov.StrokeBorder(s.controls.BorderTone.Color(), BorderThickness(s.sim.Size()))
}

// Simulation returns the underlying simulation.
func (s *Session) Simulation() *Simulation {
	return s.sim
}

// Controls returns the control-surface state for reading and editing.
func (s *Session) Controls() *Controls {
	return &s.controls
}

// Params returns the pipeline parameters.
func (s *Session) Params() Params {
	return s.sim.Params()
}

// SetParams replaces the pipeline parameters from the next tick on.
func (s *Session) SetParams(p Params) {
	s.sim.SetParams(p)
}

// ClampControls limits the controls to their ranges for the current side.
// Actions that read the controls call it first.
func (s *Session) ClampControls() {
	s.controls.Clamp(s.sim.Size())
}

// CommitUnsharpRadius clamps Controls.PendingUnsharpRadius and copies it
// into the pipeline parameters.
func (s *Session) CommitUnsharpRadius() {
	s.ClampControls()
	p := s.sim.Params()
	p.UnsharpRadius = s.controls.PendingUnsharpRadius
	s.sim.SetParams(p)
}

// State returns the scheduler state.
func (s *Session) State() State {
	return s.sched.State()
}

// Status returns "Running" or "Paused".
func (s *Session) Status() string {
	return s.sched.State().String()
}

// Tick performs one scheduling tick.
func (s *Session) Tick() error {
	return s.sched.Tick()
}

// Toggle switches between Running and Paused.
func (s *Session) Toggle() {
	s.sched.Toggle()
	s.logger.Debug("turing: status", "state", s.sched.State().String())
}

// Pause moves to Paused.
func (s *Session) Pause() {
	s.sched.Pause()
}

// StepForward runs n forced ticks while Paused; see Scheduler.StepForward.
func (s *Session) StepForward(n int) (int, error) {
	return s.sched.StepForward(n)
}

// PointerDown engages the cursor at (x, y), in texels.
func (s *Session) PointerDown(x, y float64) {
	s.pointer = pointerState{down: true, x: x, y: y}
}

// PointerMove updates the cursor position.
func (s *Session) PointerMove(x, y float64) {
	s.pointer.x, s.pointer.y = x, y
}

// PointerUp releases the cursor.
func (s *Session) PointerUp() {
	s.pointer.down = false
}

// Clear fills the frame with the background color.
func (s *Session) Clear() {
	s.sim.Clear()
}

// RandomPoints pauses and paints Controls.PointCount black discs.
func (s *Session) RandomPoints() error {
	s.sched.Pause()
	s.ClampControls()
	return s.sim.Overlay().PaintRandomPoints(s.controls.PointCount, s.controls.PointSize, s.rng)
}

// SubmitText pauses and composites the text described by the controls.
func (s *Session) SubmitText() error {
	s.sched.Pause()
	s.ClampControls()
	return s.sim.Overlay().CompositeText(s.controls.TextStyle())
}

// LoadImage decodes a JPEG or PNG image and selects it for SubmitImage.
// On failure the previous selection is kept and Message explains why.
func (s *Session) LoadImage(name string, r io.Reader) error {
	img, err := DecodeImage(r)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			s.message = MsgUnsupportedImage
		} else {
			s.message = err.Error()
		}
		s.logger.Warn("turing: image rejected", "name", name, "err", err)
		return err
	}
	s.image = img
	s.imageName = name
	s.message = ""
	s.logger.Info("turing: image loaded", "name", name,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// ImageName returns the name of the selected image, or "None".
func (s *Session) ImageName() string {
	if s.image == nil {
		return "None"
	}
	return s.imageName
}

// SubmitImage pauses and composites the selected image scaled to the frame
// side. Without a selected image it returns ErrNoImage and changes nothing
// but Message.
func (s *Session) SubmitImage() error {
	if s.image == nil {
		s.message = MsgNoImage
		s.logger.Warn("turing: submit without image")
		return ErrNoImage
	}
	s.sched.Pause()
	s.sim.Overlay().CompositeImage(s.image, s.sim.Size())
	return nil
}

// Message returns the last user-facing rejection message, or "".
func (s *Session) Message() string {
	return s.message
}

// Export writes the current frame to w as PNG using the export controls.
func (s *Session) Export(w io.Writer) error {
	return Export(w, s.sim.Current(), s.controls.ExportOptions())
}

// SetSaveDir sets the directory Save writes into. Default ".".
func (s *Session) SetSaveDir(dir string) {
	s.saveDir = dir
}

// Save writes a timestamped PNG into the save directory and returns its
// path.
// On failure Message carries the error.
func (s *Session) Save() (string, error) {
	path, err := SaveTimestamped(s.saveDir, s.now(), s.sim.Current(), s.controls.ExportOptions())
	if err != nil {
		s.message = MsgSaveFailed + ": " + err.Error()
		s.logger.Warn("turing: save failed", "dir", s.saveDir, "err", err)
		return "", err
	}
	s.message = ""
	s.logger.Info("turing: saved", "path", path)
	return path, nil
}

// SetResolution persists side and performs a full reset at that side, as
// if the program had restarted: Controls return to their defaults for the
// new side, the selected image and pointer are discarded, and the session
// resumes Running with a fresh warm-up. Pipeline parameters are kept.
func (s *Session) SetResolution(side int) error {
	if !ValidResolution(side) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, side)
	}
	if err := s.store.Set(settings.KeyResolution, strconv.Itoa(side)); err != nil {
		s.logger.Warn("turing: resolution not persisted", "err", err)
	}
	if err := s.sim.Reset(side); err != nil {
		return err
	}

	s.controls = DefaultControls(side)
	s.pointer = pointerState{}
	s.image = nil
	s.imageName = ""
	s.message = ""

	s.sched.Resume()
	return s.warmUp()
}

// warmUp runs warmUpTicks ticks so the border is diffused into the first
// visible frame.
func (s *Session) warmUp() error {
	for range warmUpTicks {
		if err := s.sched.Tick(); err != nil {
			return fmt.Errorf("turing: warm-up: %w", err)
		}
	}
	return nil
}

// SetKeymap replaces the key bindings.
func (s *Session) SetKeymap(km Keymap) {
	s.keymap = km
}

// KeyPress dispatches r through the keymap. Keys are ignored while a text
// field has focus and when unbound.
func (s *Session) KeyPress(r rune, textFocused bool) error {
	if textFocused {
		return nil
	}
	action, ok := s.keymap[r]
	if !ok {
		return nil
	}
	return action(s)
}

// Close releases the simulation.
func (s *Session) Close() error {
	return s.sim.Close()
}
