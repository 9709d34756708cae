package turing

import (
	"errors"
	"testing"

	"github.com/gogpu/turing/frame"
)

// recorder is a FrameFunc that records the advance flag of every tick.
type recorder struct {
	calls  []bool
	err    error
	failAt int
}

func (r *recorder) frame(advance bool) error {
	r.calls = append(r.calls, advance)
	if r.err != nil && len(r.calls) == r.failAt {
		return r.err
	}
	return nil
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Running, "Running"},
		{Paused, "Paused"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestSchedulerTick(t *testing.T) {
	r := &recorder{}
	s := NewScheduler(r.frame)

	if s.State() != Running {
		t.Fatalf("initial state = %v, want Running", s.State())
	}
	_ = s.Tick()
	s.Toggle()
	_ = s.Tick()
	s.Toggle()
	_ = s.Tick()

	want := []bool{true, false, true}
	if len(r.calls) != len(want) {
		t.Fatalf("frame called %d times, want %d", len(r.calls), len(want))
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Errorf("tick %d advance = %v, want %v", i, r.calls[i], want[i])
		}
	}
	if s.Ticks() != 3 {
		t.Errorf("Ticks() = %d, want 3", s.Ticks())
	}
}

func TestSchedulerPause(t *testing.T) {
	s := NewScheduler((&recorder{}).frame)
	if !s.Pause() {
		t.Error("Pause() from Running = false, want true")
	}
	if s.Pause() {
		t.Error("Pause() from Paused = true, want false")
	}
	s.Resume()
	if s.State() != Running {
		t.Errorf("state after Resume() = %v, want Running", s.State())
	}
}

func TestSchedulerStepForward(t *testing.T) {
	tests := []struct {
		name   string
		paused bool
		n      int
		want   int
	}{
		{"running is a no-op", false, 5, 0},
		{"zero steps", true, 0, 0},
		{"negative steps", true, -3, 0},
		{"one step", true, 1, 1},
		{"ten steps", true, 10, 10},
		{"beyond the digit keys", true, 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			s := NewScheduler(r.frame)
			if tt.paused {
				s.Pause()
			}

			got, err := s.StepForward(tt.n)
			if err != nil {
				t.Fatalf("StepForward(%d) error = %v", tt.n, err)
			}
			if got != tt.want || len(r.calls) != tt.want {
				t.Errorf("StepForward(%d) = %d (%d frames), want %d", tt.n, got, len(r.calls), tt.want)
			}
			for i, adv := range r.calls {
				if !adv {
					t.Errorf("forced tick %d did not advance", i)
				}
			}
			if tt.paused && s.State() != Paused {
				t.Errorf("state after StepForward = %v, want Paused", s.State())
			}
		})
	}
}

func TestSchedulerStepForwardStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	r := &recorder{err: boom, failAt: 3}
	s := NewScheduler(r.frame)
	s.Pause()

	got, err := s.StepForward(5)
	if !errors.Is(err, boom) {
		t.Fatalf("StepForward error = %v, want boom", err)
	}
	if got != 2 || len(r.calls) != 3 {
		t.Errorf("StepForward completed %d steps after %d calls, want 2 after 3", got, len(r.calls))
	}
}

func TestStepForwardMatchesManualSteps(t *testing.T) {
	seed := func(sim *Simulation) {
		if err := sim.Overlay().PaintCircle(30, 40, 8, frame.Black); err != nil {
			t.Fatal(err)
		}
		if err := sim.Overlay().PaintCircle(70, 55, 5, frame.Black); err != nil {
			t.Fatal(err)
		}
	}

	stepped := newTestSim(t, WithResolution(100))
	manual := newTestSim(t, WithResolution(100))
	seed(stepped)
	seed(manual)

	s := NewScheduler(func(advance bool) error {
		if advance {
			return stepped.Step()
		}
		return nil
	})
	s.Pause()
	if n, err := s.StepForward(5); err != nil || n != 5 {
		t.Fatalf("StepForward(5) = %d, %v", n, err)
	}

	for range 5 {
		if err := manual.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if !stepped.Current().Equal(manual.Current()) {
		t.Error("StepForward(5) differs from five manual pipeline runs")
	}
}
