package turing

import (
	"slices"
	"strconv"

	"github.com/gogpu/turing/internal/pipeline"
	"github.com/gogpu/turing/settings"
)

// Params are the pipeline parameters: blur spread, unsharp radius and
// unsharp amount, all in texel units where applicable.
//
// The pipeline trusts Params: values are expected to be finite and
// non-negative. Range limits are applied by Controls at the control surface.
type Params = pipeline.Params

// DefaultParams returns blur spread 1.0, unsharp radius 3.5 and unsharp
// amount 64.0.
func DefaultParams() Params {
	return pipeline.DefaultParams()
}

// DefaultResolution is the buffer side used when nothing else is configured.
const DefaultResolution = 200

// Resolutions lists the supported square buffer sides.
var Resolutions = []int{100, 200, 300, 400, 500, 600}

// ValidResolution reports whether side is one of Resolutions.
func ValidResolution(side int) bool {
	return slices.Contains(Resolutions, side)
}

// StoredResolution returns the resolution persisted in s, or
// DefaultResolution when s is nil or holds no valid value.
func StoredResolution(s settings.Store) int {
	if s == nil {
		return DefaultResolution
	}
	v, ok := s.Get(settings.KeyResolution)
	if !ok {
		return DefaultResolution
	}
	side, err := strconv.Atoi(v)
	if err != nil || !ValidResolution(side) {
		return DefaultResolution
	}
	return side
}
