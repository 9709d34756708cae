package pipeline

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/turing/frame"
	"github.com/gogpu/turing/internal/parallel"
)

// seededFrame returns a w×h frame with a constant margin and a random
// gray interior. The margin keeps clamp-to-edge reads equal to the border
// value so blur passes redistribute but never create or destroy energy.
func seededFrame(w, h, margin int, seed uint64, precision frame.Precision) *frame.Buffer {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := frame.New(w, h)
	b.Clear(frame.Gray(0.5))
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			b.Set(x, y, precision.Store(frame.Gray(rng.Float32())))
		}
	}
	return b
}

func storeFrom(b *frame.Buffer) *frame.Store {
	s := frame.NewStore(b.Width(), b.Height())
	_ = frame.Blit(s.Current(), b)
	return s
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.BlurSpread != 1.0 || p.UnsharpRadius != 3.5 || p.UnsharpAmount != 64.0 {
		t.Errorf("DefaultParams() = %+v, want {1 3.5 64}", p)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{BlurHorizontal, "blur-horizontal"},
		{BlurVertical, "blur-vertical"},
		{UnsharpMask, "unsharp"},
		{Kind(9), "Kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.k), got, tt.want)
		}
	}
}

func TestRunPassRejectsAliasing(t *testing.T) {
	b := frame.New(8, 8)
	err := RunPass(nil, Descriptor{Kind: BlurHorizontal, Src: b, Dst: b, Params: DefaultParams()})
	if !errors.Is(err, ErrAliasedPass) {
		t.Errorf("RunPass(aliased) error = %v, want ErrAliasedPass", err)
	}
}

func TestRunPassErrors(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want error
	}{
		{"size mismatch", Descriptor{Kind: BlurVertical, Src: frame.New(4, 4), Dst: frame.New(5, 4)}, frame.ErrSizeMismatch},
		{"unknown kind", Descriptor{Kind: Kind(7), Src: frame.New(4, 4), Dst: frame.New(4, 4)}, ErrUnknownPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RunPass(nil, tt.d); !errors.Is(err, tt.want) {
				t.Errorf("RunPass error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := RunPass(nil, Descriptor{Kind: UnsharpMask}); err == nil {
		t.Error("RunPass(nil buffers) = nil, want error")
	}
}

func TestBrightnessPreservedWithoutSharpening(t *testing.T) {
	params := Params{BlurSpread: 1, UnsharpRadius: 3.5, UnsharpAmount: 0}

	tests := []struct {
		name      string
		precision frame.Precision
		tolerance float64
	}{
		{"float", frame.PrecisionFloat, 1e-5},
		{"unorm8", frame.PrecisionUnorm8, 2.0 / 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 5; seed++ {
				src := seededFrame(48, 48, 8, seed, tt.precision)
				store := storeFrom(src)
				exec := NewExecutor(48, 48, tt.precision, nil, nil)

				before := store.Current().MeanLuminance()
				if err := exec.Run(store, params); err != nil {
					t.Fatalf("Run: %v", err)
				}
				after := store.Current().MeanLuminance()

				if math.Abs(after-before) > tt.tolerance {
					t.Errorf("seed %d: mean luminance %v -> %v, want unchanged (tol %v)", seed, before, after, tt.tolerance)
				}
			}
		})
	}
}

func TestBlurSpreadZeroIsIdentity(t *testing.T) {
	src := seededFrame(16, 16, 0, 3, frame.PrecisionUnorm8)
	dst := frame.New(16, 16)

	for _, k := range []Kind{BlurHorizontal, BlurVertical} {
		d := Descriptor{Kind: k, Src: src, Dst: dst, Params: Params{BlurSpread: 0}, Precision: frame.PrecisionUnorm8}
		if err := RunPass(nil, d); err != nil {
			t.Fatalf("RunPass(%s): %v", k, err)
		}
		if !dst.Equal(src) {
			t.Errorf("%s with zero spread changed the frame", k)
		}
	}
}

// blurBoth runs the two blur passes over src in the given order.
func blurBoth(t *testing.T, src *frame.Buffer, order [2]Kind, precision frame.Precision) *frame.Buffer {
	t.Helper()
	mid := frame.New(src.Width(), src.Height())
	out := frame.New(src.Width(), src.Height())
	p := DefaultParams()
	if err := RunPass(nil, Descriptor{Kind: order[0], Src: src, Dst: mid, Params: p, Precision: precision}); err != nil {
		t.Fatal(err)
	}
	if err := RunPass(nil, Descriptor{Kind: order[1], Src: mid, Dst: out, Params: p, Precision: precision}); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBlurOrderCommutesAtFullPrecision(t *testing.T) {
	src := frame.New(16, 16)
	src.Clear(frame.Black)
	src.Set(0, 0, frame.White)
	src.Set(9, 7, frame.White)

	hv := blurBoth(t, src, [2]Kind{BlurHorizontal, BlurVertical}, frame.PrecisionFloat)
	vh := blurBoth(t, src, [2]Kind{BlurVertical, BlurHorizontal}, frame.PrecisionFloat)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			a, b := hv.At(x, y), vh.At(x, y)
			if math.Abs(float64(a.R-b.R)) > 1e-6 {
				t.Fatalf("(%d,%d): H→V %v, V→H %v; want equal at full precision", x, y, a.R, b.R)
			}
		}
	}
}

func TestBlurOrderDivergesAtClampedCorner(t *testing.T) {
	// A single bright texel in the corner. With 8-bit intermediates the
	// clamped edge folds different amounts of the impulse into the first
	// pass, and the rounding of that intermediate shows up in the result.
	src := frame.New(16, 16)
	src.Clear(frame.Black)
	src.Set(0, 0, frame.White)

	hv := blurBoth(t, src, [2]Kind{BlurHorizontal, BlurVertical}, frame.PrecisionUnorm8)
	vh := blurBoth(t, src, [2]Kind{BlurVertical, BlurHorizontal}, frame.PrecisionUnorm8)

	// H→V: row 0 after H is 167,88,28,4; then column 1 gets 88·42/64 = 57.75.
	// V→H: column 0 after V is 167,88,...; then (1,0) gets 167·22/64 = 57.41.
	if got := frame.ToUnorm8(hv.At(1, 0).R); got != 58 {
		t.Errorf("H→V (1,0) = %d, want 58", got)
	}
	if got := frame.ToUnorm8(vh.At(1, 0).R); got != 57 {
		t.Errorf("V→H (1,0) = %d, want 57", got)
	}
	if hv.Equal(vh) {
		t.Error("H→V and V→H agree near the clamped corner, want divergence")
	}
}

func TestFlatFieldStaysFlat(t *testing.T) {
	store := frame.NewStore(40, 40)
	store.Current().Clear(frame.White)
	exec := NewExecutor(40, 40, frame.PrecisionUnorm8, nil, nil)

	for i := 0; i < 20; i++ {
		if err := exec.Run(store, DefaultParams()); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	want := frame.White
	cur := store.Current()
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if got := cur.At(x, y); got != want {
				t.Fatalf("(%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
	if exec.Frames() != 20 {
		t.Errorf("Frames() = %d, want 20", exec.Frames())
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	src := seededFrame(64, 64, 0, 11, frame.PrecisionUnorm8)
	serial := storeFrom(src)
	par := storeFrom(src)

	es := NewExecutor(64, 64, frame.PrecisionUnorm8, nil, nil)
	ep := NewExecutor(64, 64, frame.PrecisionUnorm8, pool, nil)

	for i := 0; i < 5; i++ {
		if err := es.Run(serial, DefaultParams()); err != nil {
			t.Fatal(err)
		}
		if err := ep.Run(par, DefaultParams()); err != nil {
			t.Fatal(err)
		}
	}
	if !serial.Current().Equal(par.Current()) {
		t.Error("parallel execution differs from serial execution")
	}
}

func TestRunSwapsOnlyOnSuccess(t *testing.T) {
	store := frame.NewStore(8, 8)
	exec := NewExecutor(9, 9, frame.PrecisionUnorm8, nil, nil)

	idx := store.Index()
	if err := exec.Run(store, DefaultParams()); !errors.Is(err, frame.ErrSizeMismatch) {
		t.Fatalf("Run error = %v, want ErrSizeMismatch", err)
	}
	if store.Index() != idx {
		t.Error("failed Run swapped the store")
	}
}

func TestPassesNeverAlias(t *testing.T) {
	store := frame.NewStore(8, 8)
	exec := NewExecutor(8, 8, frame.PrecisionUnorm8, nil, nil)

	passes := exec.Passes(store, DefaultParams())
	wantKinds := []Kind{BlurHorizontal, BlurVertical, UnsharpMask}
	if len(passes) != len(wantKinds) {
		t.Fatalf("len(Passes) = %d, want %d", len(passes), len(wantKinds))
	}
	for i, d := range passes {
		if d.Kind != wantKinds[i] {
			t.Errorf("pass %d kind = %s, want %s", i, d.Kind, wantKinds[i])
		}
		if d.Src == d.Dst {
			t.Errorf("pass %d (%s) aliases source and destination", i, d.Kind)
		}
	}
	if passes[2].Dst != store.Back() {
		t.Error("unsharp pass must write the back buffer that becomes current")
	}
}

func BenchmarkRun200(b *testing.B) {
	store := storeFrom(seededFrame(200, 200, 0, 1, frame.PrecisionUnorm8))
	exec := NewExecutor(200, 200, frame.PrecisionUnorm8, nil, nil)
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exec.Run(store, p)
	}
}
