package turing

// Action is a state transition triggered by an input event.
type Action func(*Session) error

// Keymap maps key runes to actions.
type Keymap map[rune]Action

// DefaultKeymap returns the standard bindings:
//
//	space  toggle Running/Paused
//	b      toggle cursor color
//	c      clear
//	r      random points (pauses)
//	t      submit text (pauses)
//	i      submit image (pauses)
//	s      save
//	v      toggle border color
//	k      toggle text colors
//	f      toggle font
//	1-9    step forward 1-9 frames while paused
//	0      step forward 10 frames while paused
func DefaultKeymap() Keymap {
	km := Keymap{
		' ': func(s *Session) error { s.Toggle(); return nil },
		'b': func(s *Session) error { s.controls.ToggleCursorTone(); return nil },
		'c': func(s *Session) error { s.Clear(); return nil },
		'r': (*Session).RandomPoints,
		't': (*Session).SubmitText,
		'i': (*Session).SubmitImage,
		's': func(s *Session) error { _, err := s.Save(); return err },
		'v': func(s *Session) error { s.controls.ToggleBorderTone(); return nil },
		'k': func(s *Session) error { s.controls.ToggleTextTones(); return nil },
		'f': func(s *Session) error { s.controls.ToggleFont(); return nil },
	}
	for d := '0'; d <= '9'; d++ {
		n := int(d - '0')
		if n == 0 {
			n = 10
		}
		km[d] = StepAction(n)
	}
	return km
}

// StepAction returns an action that steps n frames forward while paused.
func StepAction(n int) Action {
	return func(s *Session) error {
		_, err := s.StepForward(n)
		return err
	}
}
