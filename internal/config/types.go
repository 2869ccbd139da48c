// Package config provides configuration data structures for go-regulator.
// Configurations are Lua scripts that fill the regulator.config and
// regulator.stops tables.
package config

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/opd-ai/go-regulator/internal/render"
)

// Config represents the complete go-regulator configuration.
type Config struct {
	// Dial holds the value domain, sweep geometry and formatting.
	Dial DialConfig
	// Window holds the window and drawing options.
	Window WindowConfig
	// Gradient holds the bar gradient.
	Gradient GradientConfig
}

// DialConfig holds the regulator's value settings.
type DialConfig struct {
	// Min and Max bound every value.
	Min, Max float64
	// Target is the initial set point.
	Target float64
	// Current is the initial measured value.
	Current float64
	// Decimals is the number of fractional digits shown (0-2).
	Decimals int
	// Unit is appended to formatted values.
	Unit string
	// SweepStart is the pointer angle of the minimum, in degrees
	// counter-clockwise from 3 o'clock.
	SweepStart float64
	// SweepRange is the arc covered by the value domain, in degrees.
	SweepRange float64
	// DeadZoneClamp and DeadZoneSnap tune pointer handling past the sweep
	// end. Zero values derive the defaults from SweepRange.
	DeadZoneClamp float64
	DeadZoneSnap  float64
	// AdjustRate is how many units per second the simulated current value
	// moves toward the target. Zero leaves current untouched.
	AdjustRate float64
}

// WindowConfig holds window-related configuration options.
type WindowConfig struct {
	// Title is the window title.
	Title string
	// Width and Height size the window; zero uses Size.
	Width, Height int
	// Size is the dial diameter in pixels.
	Size int
	// UpdateInterval is the time between simulation steps.
	UpdateInterval time.Duration
	// Transparent enables window transparency.
	Transparent bool
	// Hints contains window manager hints.
	Hints []WindowHint
	// BackgroundColour fills the window behind the dial.
	BackgroundColour color.NRGBA
	// FaceColour fills the dial face.
	FaceColour color.NRGBA
	// TextColour is used for the value text and track.
	TextColour color.NRGBA
	// Font is an embedded font name or a path to a font file.
	Font string
}

// GradientConfig holds the bar gradient.
type GradientConfig struct {
	// Stops are spread over the sweep: 0 at the minimum, 1 at the maximum.
	Stops []render.ColorStop
	// Rotation turns the conical gradient, in degrees.
	Rotation float64
	// Direction is the conical winding.
	Direction render.Direction
}

// WindowHint represents a window manager hint.
type WindowHint int

const (
	// WindowHintSkipTaskbar hides the window from the taskbar.
	WindowHintSkipTaskbar WindowHint = iota
	// WindowHintSkipPager hides the window from the pager.
	WindowHintSkipPager
)

// String returns the string representation of a WindowHint.
func (wh WindowHint) String() string {
	switch wh {
	case WindowHintSkipTaskbar:
		return "skip_taskbar"
	case WindowHintSkipPager:
		return "skip_pager"
	default:
		return "unknown"
	}
}

// ParseWindowHint parses a string into a WindowHint.
func ParseWindowHint(s string) (WindowHint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip_taskbar":
		return WindowHintSkipTaskbar, nil
	case "skip_pager":
		return WindowHintSkipPager, nil
	default:
		return WindowHintSkipTaskbar, fmt.Errorf("unknown window hint: %s", s)
	}
}

// HasHint reports whether the window carries hint.
func (wc WindowConfig) HasHint(hint WindowHint) bool {
	for _, h := range wc.Hints {
		if h == hint {
			return true
		}
	}
	return false
}

// ParseDirection parses a gradient winding name.
func ParseDirection(s string) (render.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clockwise", "cw", "":
		return render.Clockwise, nil
	case "counter_clockwise", "counterclockwise", "ccw":
		return render.CounterClockwise, nil
	default:
		return render.Clockwise, fmt.Errorf("unknown gradient direction: %s", s)
	}
}

// Validate checks if the Config has valid values using the comprehensive validator.
// It returns the first validation error found, or nil if the config is valid.
// For detailed validation results including warnings, use NewValidator().Validate().
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// RenderConfig converts the window options for the render package.
func (c *Config) RenderConfig() render.Config {
	w, h := c.Window.Width, c.Window.Height
	if w <= 0 {
		w = c.Window.Size
	}
	if h <= 0 {
		h = c.Window.Size
	}
	return render.Config{
		Width:           w,
		Height:          h,
		Title:           c.Window.Title,
		DialSize:        c.Window.Size,
		UpdateInterval:  c.Window.UpdateInterval,
		BackgroundColor: c.Window.BackgroundColour,
		FaceColor:       c.Window.FaceColour,
		TextColor:       c.Window.TextColour,
		Transparent:     c.Window.Transparent,
		SkipTaskbar:     c.Window.HasHint(WindowHintSkipTaskbar),
		SkipPager:       c.Window.HasHint(WindowHintSkipPager),
	}
}
