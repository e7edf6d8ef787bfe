package core

// Key is a platform-independent key code delivered to the player's key
// handler. Front-ends translate their native key events into these.
type Key int

const (
	KeyNone    Key = iota
	KeyUp          // W, Up arrow
	KeyDown        // S, Down arrow
	KeyLeft        // A, Left arrow
	KeyRight       // D, Right arrow
	KeyAction      // Space - attack / interact
	KeyConfirm     // Enter - dismiss dialogs
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyAction:
		return "Action"
	case KeyConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}

// Direction returns the movement direction bound to an arrow key,
// or DirNone for keys that do not move.
func (k Key) Direction() Direction {
	switch k {
	case KeyUp:
		return DirUp
	case KeyDown:
		return DirDown
	case KeyLeft:
		return DirLeft
	case KeyRight:
		return DirRight
	default:
		return DirNone
	}
}
