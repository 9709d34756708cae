package turing

// State is the run state of a Scheduler.
type State int

const (
	// Running advances the pipeline on every tick.
	Running State = iota
	// Paused only draws overlays on ticks; StepForward advances manually.
	Paused
)

// String returns "Running" or "Paused".
func (s State) String() string {
	if s == Paused {
		return "Paused"
	}
	return "Running"
}

// FrameFunc performs one tick. advance reports whether the pipeline should
// run before the per-tick overlays are drawn.
type FrameFunc func(advance bool) error

// Scheduler drives ticks through a FrameFunc. Pausing takes effect at the
// next tick boundary; a tick in progress always completes.
type Scheduler struct {
	state State
	frame FrameFunc
	ticks uint64
}

// NewScheduler returns a running scheduler.
func NewScheduler(frame FrameFunc) *Scheduler {
	return &Scheduler{state: Running, frame: frame}
}

// State returns the current run state.
func (s *Scheduler) State() State {
	return s.state
}

// Ticks returns the number of ticks performed, forced ticks included.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Toggle switches between Running and Paused.
func (s *Scheduler) Toggle() {
	if s.state == Running {
		s.state = Paused
	} else {
		s.state = Running
	}
}

// Pause moves to Paused. It reports whether the state changed.
func (s *Scheduler) Pause() bool {
	if s.state == Paused {
		return false
	}
	s.state = Paused
	return true
}

// Resume moves to Running.
func (s *Scheduler) Resume() {
	s.state = Running
}

// Tick performs one scheduling tick: the pipeline runs only when Running,
// the overlays are drawn in either state.
func (s *Scheduler) Tick() error {
	s.ticks++
	return s.frame(s.state == Running)
}

// StepForward performs n forced ticks, each running the pipeline, while
// Paused. It does nothing while Running or for n < 1 and reports how many
// steps ran. The scheduler stays Paused.
func (s *Scheduler) StepForward(n int) (int, error) {
	if s.state != Paused || n < 1 {
		return 0, nil
	}
	for i := range n {
		s.ticks++
		if err := s.frame(true); err != nil {
			return i, err
		}
	}
	return n, nil
}
