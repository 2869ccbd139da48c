package render

// CompositorStatus represents the detected compositor state.
type CompositorStatus int

const (
	// CompositorUnknown means the status could not be determined.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means transparent windows will blend.
	CompositorActive
	// CompositorInactive means transparent windows will likely show black.
	CompositorInactive
)

// String returns a human-readable compositor status.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// TransparencyWarning returns a message when a transparent window is
// requested but the compositor status says it will not blend, or "".
func TransparencyWarning(transparent bool, status CompositorStatus) string {
	if !transparent {
		return ""
	}
	switch status {
	case CompositorActive:
		return ""
	case CompositorInactive:
		return "no compositor detected; the transparent dial window may appear opaque"
	default:
		return "could not detect a compositor; the transparent dial window may appear opaque"
	}
}
