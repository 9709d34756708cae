// Package snapshot saves and restores simulation state.
//
// A snapshot is a zstd stream holding a fixed header followed by the frame
// samples:
//
//	magic     [4]byte  "TRDS"
//	version   uint16
//	precision uint8
//	_         uint8
//	width     uint32
//	height    uint32
//	params    3×float64 (BlurSpread, UnsharpRadius, UnsharpAmount)
//	samples   width×height×4 float32, row-major RGBA
//
// All fields are little-endian.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/pipeline"
)

// Version is the snapshot format version written by Write.
const Version = 1

// MaxTexels bounds the frame size accepted by Read.
const MaxTexels = 4096 * 4096

var magic = [4]byte{'T', 'R', 'D', 'S'}

var (
	// ErrBadMagic is returned when the stream is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrVersion is returned for a snapshot written by a newer format.
	ErrVersion = errors.New("snapshot: unsupported version")

	// ErrCorrupt is returned when the header describes an impossible frame.
	ErrCorrupt = errors.New("snapshot: corrupt header")
)

// State is the content of one snapshot.
type State struct {
	Buffer    *frame.Buffer
	Params    pipeline.Params
	Precision frame.Precision
}

type header struct {
	Magic     [4]byte
	Version   uint16
	Precision uint8
	_         uint8
	Width     uint32
	Height    uint32
	Params    [3]float64
}

// Write encodes s to w.
func Write(w io.Writer, s State) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	bw := bufio.NewWriter(enc)

	h := header{
		Magic:     magic,
		Version:   Version,
		Precision: uint8(s.Precision),
		Width:     uint32(s.Buffer.Width()),
		Height:    uint32(s.Buffer.Height()),
		Params:    [3]float64{s.Params.BlurSpread, s.Params.UnsharpRadius, s.Params.UnsharpAmount},
	}
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, s.Buffer.Pix()); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: write samples: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (State, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return State{}, fmt.Errorf("snapshot: %w", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return State{}, ErrBadMagic
		}
		return State{}, fmt.Errorf("snapshot: read header: %w", err)
	}
	if h.Magic != magic {
		return State{}, ErrBadMagic
	}
	if h.Version == 0 || h.Version > Version {
		return State{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	if h.Width == 0 || h.Height == 0 || uint64(h.Width)*uint64(h.Height) > MaxTexels {
		return State{}, fmt.Errorf("%w: %dx%d", ErrCorrupt, h.Width, h.Height)
	}

	buf := frame.New(int(h.Width), int(h.Height))
	if err := binary.Read(br, binary.LittleEndian, buf.Pix()); err != nil {
		return State{}, fmt.Errorf("snapshot: read samples: %w", err)
	}

	return State{
		Buffer: buf,
		Params: pipeline.Params{
			BlurSpread:    h.Params[0],
			UnsharpRadius: h.Params[1],
			UnsharpAmount: h.Params[2],
		},
		Precision: frame.Precision(h.Precision),
	}, nil
}

// Save writes s to the file at path.
func Save(path string, s State) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("snapshot: %w", cerr)
		}
	}()
	return Write(f, s)
}

// Load reads a snapshot from the file at path.
func Load(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	return Read(f)
}
