package turing

import (
	"math/rand/v2"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/settings"
)

// Option configures a Simulation or Session during creation.
// Use functional options to customize behavior.
//
// Example:
//
//	// Default 200×200 simulation
//	sim, err := turing.New()
//
//	// 400×400 at full float precision on 4 workers
//	sim, err := turing.New(
//	    turing.WithResolution(400),
//	    turing.WithPrecision(frame.PrecisionFloat),
//	    turing.WithWorkers(4),
//	)
type Option func(*options)

// options holds optional configuration for Simulation and Session creation.
type options struct {
	resolution int // 0 means "stored or default"
	params     Params
	precision  frame.Precision
	workers    int
	background frame.Color
	fonts      map[FontChoice][]byte
	store      settings.Store
	rng        *rand.Rand
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		params:     DefaultParams(),
		precision:  frame.PrecisionUnorm8,
		workers:    0, // runtime.GOMAXPROCS(0)
		background: frame.White,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithResolution sets the square buffer side. It must be one of
// Resolutions; New reports ErrInvalidResolution otherwise.
//
// A Session created without WithResolution uses the resolution persisted
// in its settings store, falling back to DefaultResolution.
func WithResolution(side int) Option {
	return func(o *options) {
		o.resolution = side
	}
}

// WithParams sets the initial pipeline parameters.
func WithParams(p Params) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithPrecision sets the storage precision of pass outputs.
// The default, frame.PrecisionUnorm8, rounds like an 8-bit render target.
func WithPrecision(p frame.Precision) Option {
	return func(o *options) {
		o.precision = p
	}
}

// WithWorkers sets the number of goroutines used within one pass.
// 0 uses runtime.GOMAXPROCS(0); 1 runs every pass on the calling goroutine.
// Results are bit-identical for any worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 0)
	}
}

// WithBackground sets the color a reset clears to. Default white.
func WithBackground(c frame.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithFonts replaces the TTF/OTF data of the text faces. A nil entry keeps
// the built-in face for that choice.
//
// The built-in faces are the Go fonts, which have no CJK glyphs; supply a
// CJK-capable font to render such text.
//
// Example:
//
//	data, _ := os.ReadFile("NotoSansJP-Regular.ttf")
//	s, err := turing.NewSession(turing.WithFonts(map[turing.FontChoice][]byte{
//	    turing.FontRegular: data,
//	}))
func WithFonts(fonts map[FontChoice][]byte) Option {
	return func(o *options) {
		o.fonts = fonts
	}
}

// WithStore sets the settings store used to persist the resolution.
// The default is a settings.MemoryStore.
func WithStore(s settings.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithRand sets the random source for random-point seeding. Use a seeded
// source for reproducible patterns.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}
