package frame

// Store is an indexed pair of equally sized buffers used for ping-pong
// rendering. One buffer is current (the authoritative frame), the other is
// the back buffer a pass may write into. Swap exchanges the roles.
type Store struct {
	bufs    [2]*Buffer
	current int
}

// NewStore allocates a pair of width×height buffers.
func NewStore(width, height int) *Store {
	return &Store{
		bufs: [2]*Buffer{New(width, height), New(width, height)},
	}
}

// Current returns the authoritative buffer.
func (s *Store) Current() *Buffer {
	return s.bufs[s.current]
}

// Back returns the buffer that is not current.
func (s *Store) Back() *Buffer {
	return s.bufs[1-s.current]
}

// Swap makes the back buffer current.
func (s *Store) Swap() {
	s.current = 1 - s.current
}

// Index returns the index of the current buffer (0 or 1).
func (s *Store) Index() int {
	return s.current
}

// Width returns the width shared by both buffers.
func (s *Store) Width() int {
	return s.bufs[0].width
}

// Height returns the height shared by both buffers.
func (s *Store) Height() int {
	return s.bufs[0].height
}
