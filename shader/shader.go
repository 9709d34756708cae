// Package shader holds WGSL compute renditions of the pipeline passes.
//
// The shaders mirror the CPU passes: the same taps and weights, bilinear
// sampling with texel centres on integers, clamp-to-edge addressing, and
// optional 8-bit rounding of every output. Each shader binds a uniform
// block at binding 0, the source samples at binding 1 and the destination
// at binding 2, all in group 0. Samples are vec4<f32>, row-major.
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/pipeline"
)

//go:embed blur.wgsl
var blurSource string

//go:embed unsharp.wgsl
var unsharpSource string

// WorkgroupSize is the edge of the square compute workgroup.
const WorkgroupSize = 8

// ErrUnknownProgram is returned for an invalid Program.
var ErrUnknownProgram = errors.New("shader: unknown program")

// Program identifies one compute shader.
type Program int

const (
	// Blur is the one-axis blur used by both blur passes.
	Blur Program = iota
	// Unsharp is the unsharp-mask pass.
	Unsharp
)

// Programs lists every shader.
func Programs() []Program {
	return []Program{Blur, Unsharp}
}

// String returns the program name.
func (p Program) String() string {
	switch p {
	case Blur:
		return "blur"
	case Unsharp:
		return "unsharp"
	default:
		return fmt.Sprintf("Program(%d)", int(p))
	}
}

// Filename returns the SPIR-V file name for p.
func (p Program) Filename() string {
	return p.String() + ".spv"
}

// ForPass returns the program that runs a pipeline pass.
func ForPass(k pipeline.Kind) (Program, error) {
	switch k {
	case pipeline.BlurHorizontal, pipeline.BlurVertical:
		return Blur, nil
	case pipeline.UnsharpMask:
		return Unsharp, nil
	default:
		return 0, fmt.Errorf("%w: %s", pipeline.ErrUnknownPass, k)
	}
}

// Source returns the WGSL source of p.
func Source(p Program) (string, error) {
	switch p {
	case Blur:
		return blurSource, nil
	case Unsharp:
		return unsharpSource, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownProgram, int(p))
	}
}

// Compile compiles p to a SPIR-V module.
func Compile(p Program) ([]byte, error) {
	src, err := Source(p)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", p, err)
	}
	return spirv, nil
}

// CompileSPIRV compiles p and returns the module as 32-bit words.
func CompileSPIRV(p Program) ([]uint32, error) {
	spirv, err := Compile(p)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// WriteAll compiles every program into dir and returns the written paths.
func WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("shader: %w", err)
	}
	var paths []string
	for _, p := range Programs() {
		spirv, err := Compile(p)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, p.Filename())
		if err := os.WriteFile(path, spirv, 0o644); err != nil {
			return paths, fmt.Errorf("shader: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteSources writes the WGSL source of every program into dir and
// returns the written paths.
func WriteSources(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("shader: %w", err)
	}
	var paths []string
	for _, p := range Programs() {
		src, err := Source(p)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, p.String()+".wgsl")
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return paths, fmt.Errorf("shader: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Uniforms returns the program and the uniform block that run the pass
// described by d on a GPU. The block is laid out for WGSL uniform address
// space rules.
func Uniforms(d pipeline.Descriptor) (Program, []byte, error) {
	p, err := ForPass(d.Kind)
	if err != nil {
		return 0, nil, err
	}
	if d.Dst == nil {
		return 0, nil, fmt.Errorf("shader: %s: nil destination", d.Kind)
	}

	var quantize uint32
	if d.Precision == frame.PrecisionUnorm8 {
		quantize = 1
	}
	w, h := uint32(d.Dst.Width()), uint32(d.Dst.Height())

	le := binary.LittleEndian
	switch p {
	case Blur:
		dx, dy := float32(1), float32(0)
		if d.Kind == pipeline.BlurVertical {
			dx, dy = 0, 1
		}
		b := make([]byte, 0, 24)
		b = le.AppendUint32(b, w)
		b = le.AppendUint32(b, h)
		b = le.AppendUint32(b, math.Float32bits(dx))
		b = le.AppendUint32(b, math.Float32bits(dy))
		b = le.AppendUint32(b, math.Float32bits(float32(d.Params.BlurSpread)))
		b = le.AppendUint32(b, quantize)
		return p, b, nil
	default:
		// 20 bytes of fields, padded to the struct alignment of 4.
		b := make([]byte, 0, 20)
		b = le.AppendUint32(b, w)
		b = le.AppendUint32(b, h)
		b = le.AppendUint32(b, math.Float32bits(float32(d.Params.UnsharpRadius)))
		b = le.AppendUint32(b, math.Float32bits(float32(d.Params.UnsharpAmount)))
		b = le.AppendUint32(b, quantize)
		return p, b, nil
	}
}

// Workgroups returns the dispatch size covering a width×height frame.
func Workgroups(width, height int) (x, y uint32) {
	return uint32((width + WorkgroupSize - 1) / WorkgroupSize),
		uint32((height + WorkgroupSize - 1) / WorkgroupSize)
}
