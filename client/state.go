package client

// DefaultWidth is the bar width used until the host reports one.
const DefaultWidth = 1920

// State is the driver state threaded through event handling and rendering.
type State struct {
	// Running is cleared when the host closes the session. The run loop only
	// looks at it before blocking for the next event.
	Running bool

	// Configured is set by the first Configured event. Nothing is rendered
	// before that.
	Configured bool

	// Width is the latest width reported by the host, 0 if none was.
	Width int
}

// width returns the width new bars bind with.
func (s State) width(fallback int) int {
	if s.Width > 0 {
		return s.Width
	}
	return fallback
}
