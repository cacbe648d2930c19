package wm

import "fmt"

// Status is the lifecycle state of a window.
type Status int

const (
	// StatusClosed means the window is provisioned but not open.
	StatusClosed Status = iota
	// StatusMinimized means the window is open but hidden.
	StatusMinimized
	// StatusVisible means the window is shown but does not hold focus.
	StatusVisible
	// StatusFocused means the window is shown and holds focus.
	StatusFocused
)

var statusNames = map[Status]string{
	StatusClosed:    "closed",
	StatusMinimized: "minimized",
	StatusVisible:   "visible",
	StatusFocused:   "focused",
}

// String returns the string representation of the status
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Visible reports whether the window is shown on the desktop.
func (s Status) Visible() bool {
	return s == StatusVisible || s == StatusFocused
}

// Open reports whether the window is open (shown or minimized).
func (s Status) Open() bool {
	return s != StatusClosed
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown window status %q", string(text))
}

// Action is an input to the per-window state machine.
type Action int

const (
	ActionOpen Action = iota
	ActionFocus
	ActionBlur
	ActionMinimize
	ActionClose
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionFocus:
		return "focus"
	case ActionBlur:
		return "blur"
	case ActionMinimize:
		return "minimize"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Transition returns the status a window moves to when action is applied.
//
//	Closed    --open-->     Visible
//	Minimized --open-->     Visible
//	Visible   --focus-->    Focused
//	Focused   --blur-->     Visible
//	Visible   --minimize--> Minimized
//	Focused   --minimize--> Minimized
//	any       --close-->    Closed
//
// Every other pair leaves the status unchanged. Only shown windows can take
// focus; a minimized window has to be opened first.
func Transition(s Status, a Action) Status {
	switch a {
	case ActionOpen:
		if s == StatusClosed || s == StatusMinimized {
			return StatusVisible
		}
	case ActionFocus:
		if s == StatusVisible {
			return StatusFocused
		}
	case ActionBlur:
		if s == StatusFocused {
			return StatusVisible
		}
	case ActionMinimize:
		if s.Visible() {
			return StatusMinimized
		}
	case ActionClose:
		return StatusClosed
	}
	return s
}
