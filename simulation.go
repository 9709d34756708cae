package turing

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/parallel"
	"github.com/gogpu/turing/internal/pipeline"
)

// Simulation owns the frame buffers of one pattern and runs the pipeline
// over them.
//
// The current frame is always fully resolved: Step replaces it atomically
// with the result of a complete horizontal-blur, vertical-blur, unsharp
// run, and overlay drawing happens only between steps.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	side       int
	params     Params
	precision  frame.Precision
	background frame.Color

	store   *frame.Store
	exec    *pipeline.Executor
	pool    *parallel.WorkerPool
	overlay *Compositor
	fonts   *fontSet

	logger *slog.Logger
	closed bool
}

// New creates a simulation cleared to the background color.
//
// Without WithResolution the buffer side is DefaultResolution.
func New(opts ...Option) (*Simulation, error) {
	o := buildOptions(opts)
	side := o.resolution
	if side == 0 {
		side = DefaultResolution
	}
	return newSimulation(side, o)
}

func newSimulation(side int, o options) (*Simulation, error) {
	if !ValidResolution(side) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, side)
	}

	workers := o.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &Simulation{
		params:     o.params,
		precision:  o.precision,
		background: o.background,
		fonts:      newFontSet(o.fonts),
		logger:     Logger(),
	}
	if workers > 1 {
		s.pool = parallel.NewWorkerPool(workers)
	}

	s.allocate(side)
	return s, nil
}

// allocate replaces every buffer with fresh side×side ones cleared to the
// background color.
func (s *Simulation) allocate(side int) {
	if s.overlay != nil {
		s.overlay.close()
	}

	s.side = side
	s.store = frame.NewStore(side, side)
	s.store.Current().Clear(s.background)
	s.exec = pipeline.NewExecutor(side, side, s.precision, s.pool, s.logger)
	s.overlay = newCompositor(s.store, s.fonts, s.logger)

	s.logger.Info("turing: reset", "side", side, "precision", s.precision.String())
}

// Reset reallocates the buffers at the given side and clears them to the
// background color. All in-flight overlay state is discarded.
// Reset must not be called while a step or overlay draw is in progress.
func (s *Simulation) Reset(side int) error {
	if s.closed {
		return ErrClosed
	}
	if !ValidResolution(side) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, side)
	}
	s.allocate(side)
	return nil
}

// Clear fills the current frame with the background color.
func (s *Simulation) Clear() {
	s.store.Current().Clear(s.background)
}

// Step runs the pipeline once. On error the current frame is unchanged.
func (s *Simulation) Step() error {
	if s.closed {
		return ErrClosed
	}
	return s.exec.Run(s.store, s.params)
}

// Run calls Step n times, stopping at the first error.
func (s *Simulation) Run(n int) error {
	for range n {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the current frame. The buffer is only valid until the
// next Step or Reset; use Clone to keep it.
func (s *Simulation) Current() *frame.Buffer {
	return s.store.Current()
}

// Load replaces the current frame with a copy of b.
func (s *Simulation) Load(b *frame.Buffer) error {
	return frame.Blit(s.store.Current(), b)
}

// Size returns the buffer side in texels.
func (s *Simulation) Size() int {
	return s.side
}

// TexelSize returns (1/side, 1/side).
func (s *Simulation) TexelSize() (float64, float64) {
	return s.store.Current().TexelSize()
}

// Params returns the pipeline parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// SetParams replaces the pipeline parameters used by the next Step.
func (s *Simulation) SetParams(p Params) {
	s.params = p
}

// Precision returns the storage precision of pass outputs.
func (s *Simulation) Precision() frame.Precision {
	return s.precision
}

// Frames returns the number of pipeline runs since the last reset.
func (s *Simulation) Frames() uint64 {
	return s.exec.Frames()
}

// Overlay returns the compositor that draws onto the current frame.
func (s *Simulation) Overlay() *Compositor {
	return s.overlay
}

// Close releases the worker pool and drawing resources.
// Close is idempotent.
func (s *Simulation) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.overlay.close()
	if s.pool != nil {
		s.pool.Close()
	}
	if err := s.fonts.close(); err != nil {
		return fmt.Errorf("turing: close: %w", err)
	}
	return nil
}
