package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/parallel"
)

// Executor runs complete frames against a frame.Store.
//
// It owns one pass-local scratch buffer; together with the store's back
// buffer this gives the two intermediates of a frame:
//
//	current --H--> back --V--> scratch --U--> back, then swap
//
// An Executor is not safe for concurrent use.
type Executor struct {
	pool      *parallel.WorkerPool
	scratch   *frame.Buffer
	precision frame.Precision
	logger    *slog.Logger
	frames    uint64
}

// NewExecutor creates an executor for width×height frames. pool may be nil
// for single-threaded execution; logger may be nil.
func NewExecutor(width, height int, precision frame.Precision, pool *parallel.WorkerPool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := 1
	if pool != nil {
		workers = pool.Workers()
	}
	logger.Debug("pipeline: executor created",
		"width", width, "height", height,
		"precision", precision.String(), "workers", workers)

	return &Executor{
		pool:      pool,
		scratch:   frame.New(width, height),
		precision: precision,
		logger:    logger,
	}
}

// Passes returns the descriptors of one frame over store, in execution order.
func (e *Executor) Passes(store *frame.Store, p Params) []Descriptor {
	return []Descriptor{
		{Kind: BlurHorizontal, Src: store.Current(), Dst: store.Back(), Params: p, Precision: e.precision},
		{Kind: BlurVertical, Src: store.Back(), Dst: e.scratch, Params: p, Precision: e.precision},
		{Kind: UnsharpMask, Src: e.scratch, Dst: store.Back(), Params: p, Precision: e.precision},
	}
}

// Run executes one frame: horizontal blur, vertical blur, unsharp. On
// success the result becomes store.Current(). On error the store is left
// unswapped, so Current still holds the previous complete frame.
func (e *Executor) Run(store *frame.Store, p Params) error {
	if store.Width() != e.scratch.Width() || store.Height() != e.scratch.Height() {
		return fmt.Errorf("%w: store %dx%d, executor %dx%d", frame.ErrSizeMismatch,
			store.Width(), store.Height(), e.scratch.Width(), e.scratch.Height())
	}

	start := time.Now()
	for _, d := range e.Passes(store, p) {
		if err := RunPass(e.pool, d); err != nil {
			return err
		}
	}
	store.Swap()
	e.frames++

	e.logger.Debug("pipeline: frame", "frame", e.frames, "elapsed", time.Since(start))
	return nil
}

// Frames returns the number of frames completed.
func (e *Executor) Frames() uint64 {
	return e.frames
}

// Precision returns the storage precision of pass outputs.
func (e *Executor) Precision() frame.Precision {
	return e.precision
}
