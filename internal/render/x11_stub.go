//go:build !linux

package render

// DetectCompositor returns CompositorActive: Windows and macOS always
// composite.
func DetectCompositor() CompositorStatus {
	return CompositorActive
}

// ApplyWindowHints is a no-op outside X11.
func ApplyWindowHints(skipTaskbar, skipPager bool) error {
	return nil
}

// CloseWindowHints is a no-op outside X11.
func CloseWindowHints() {}
