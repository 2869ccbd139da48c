package config

import (
	"image/color"
	"time"

	"github.com/opd-ai/go-regulator/internal/dial"
	"github.com/opd-ai/go-regulator/internal/render"
)

// Default values for configuration options.
const (
	// DefaultUpdateInterval is the default time between simulation steps.
	DefaultUpdateInterval = 50 * time.Millisecond
	// DefaultSize is the default dial diameter in pixels.
	DefaultSize = 250
	// DefaultTitle is the default window title.
	DefaultTitle = "go-regulator"
	// DefaultAdjustRate is the default simulated approach speed in units
	// per second.
	DefaultAdjustRate = 2.0
)

// Default colors.
var (
	// DefaultTextColour is the default text color (white).
	DefaultTextColour = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	// DefaultBackgroundColour fills the window behind the dial.
	DefaultBackgroundColour = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	// DefaultFaceColour fills the dial face.
	DefaultFaceColour = render.DefaultIndicatorColor
)

// DefaultConfig returns a Config with sensible default values.
// These mirror a 0-40 degree thermostat with a 280 degree sweep.
func DefaultConfig() Config {
	return Config{
		Dial: DialConfig{
			Min:        dial.DefaultMin,
			Max:        dial.DefaultMax,
			Target:     dial.DefaultMin,
			Current:    dial.DefaultMin,
			Decimals:   0,
			Unit:       dial.DefaultUnit,
			SweepStart: dial.DefaultSweepStart,
			SweepRange: dial.DefaultSweepRange,
			AdjustRate: DefaultAdjustRate,
		},
		Window: WindowConfig{
			Title:            DefaultTitle,
			Size:             DefaultSize,
			UpdateInterval:   DefaultUpdateInterval,
			BackgroundColour: DefaultBackgroundColour,
			FaceColour:       DefaultFaceColour,
			TextColour:       DefaultTextColour,
			Font:             render.DefaultFontName,
		},
		Gradient: GradientConfig{
			Stops:     dial.DefaultGradientStops(),
			Direction: render.Clockwise,
		},
	}
}

// DefaultDialConfig returns a DialConfig with default values.
func DefaultDialConfig() DialConfig {
	return DefaultConfig().Dial
}

// DefaultWindowConfig returns a WindowConfig with default values.
func DefaultWindowConfig() WindowConfig {
	return DefaultConfig().Window
}
