package render

import (
	"fmt"
	"image/color"
	"time"

	"seehuhn.de/go/geom/vec"
)

// Config holds the window options for an interactive dial.
type Config struct {
	// Width is the window width in pixels.
	Width int
	// Height is the window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// DialSize is the diameter of the dial in pixels. Zero fits the
	// smaller window side.
	DialSize int
	// UpdateInterval is the time between DataProvider updates.
	UpdateInterval time.Duration
	// BackgroundColor fills the window behind the dial.
	BackgroundColor color.NRGBA
	// FaceColor fills the dial face.
	FaceColor color.NRGBA
	// TextColor is used for the value text and the bar track.
	TextColor color.NRGBA
	// Transparent enables a transparent window background if the platform
	// supports it.
	Transparent bool
	// SkipTaskbar keeps the window out of the taskbar on X11.
	SkipTaskbar bool
	// SkipPager keeps the window out of the pager on X11.
	SkipPager bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           250,
		Height:          250,
		Title:           "go-regulator",
		UpdateInterval:  50 * time.Millisecond,
		BackgroundColor: color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		FaceColor:       DefaultIndicatorColor,
		TextColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.DialSize < 0 {
		return fmt.Errorf("dial size must not be negative, got %d", c.DialSize)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval must be positive, got %v", c.UpdateInterval)
	}
	return nil
}

// dialSize resolves DialSize against the window.
func (c Config) dialSize() int {
	if c.DialSize > 0 {
		return c.DialSize
	}
	return min(c.Width, c.Height)
}

// Dial is the model a Game draws and lets the user turn.
type Dial interface {
	// Frame describes the dial at the given pixel size.
	Frame(size int) DialFrame
	// SetTargetFromPoint turns the dial towards p, a point in the dial's
	// own coordinates around center.
	SetTargetFromPoint(p, center vec.Vec2)
	// Target returns the value the dial is set to.
	Target() float64
	// SetTarget sets the target value directly.
	SetTarget(v float64)
	// Step returns the value change per wheel notch.
	Step() float64
}

// DataProvider is advanced by the game loop once per UpdateInterval.
type DataProvider interface {
	// Update refreshes the data behind the dial.
	Update() error
}
