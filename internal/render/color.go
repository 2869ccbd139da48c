// Package render implements the conical gradient engine for go-regulator.
// This file implements color parsing and the straight-alpha color math the
// gradient interpolation and edge fading rely on.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Transparent is fully transparent black, the color of an empty stop table.
var Transparent = color.NRGBA{}

// NamedColors maps CSS color names to their straight-alpha values.
var NamedColors = map[string]color.NRGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"lime":        {R: 0, G: 255, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"darkgray":    {R: 169, G: 169, B: 169, A: 255},
	"lightgray":   {R: 211, G: 211, B: 211, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"teal":        {R: 0, G: 128, B: 128, A: 255},
	"coral":       {R: 255, G: 127, B: 80, A: 255},
	"gold":        {R: 255, G: 215, B: 0, A: 255},
	"crimson":     {R: 220, G: 20, B: 60, A: 255},
	"turquoise":   {R: 64, G: 224, B: 208, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color string into a straight-alpha color.
// Supported formats:
//   - Named colors: "red", "gold", "transparent", ...
//   - Hex: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the # is optional)
//   - Functions: "rgb(255, 0, 0)", "rgba(255, 0, 0, 0.5)", "rgba(255, 0, 0, 128)"
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}

	if c, ok := NamedColors[strings.ToLower(s)]; ok {
		return c, nil
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "#") || isHexString(s):
		return parseHexColor(strings.TrimPrefix(s, "#"))
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(s, ")"):
		return parseColorFunc(s[5:len(s)-1], 4)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(s, ")"):
		return parseColorFunc(s[4:len(s)-1], 3)
	}

	return color.NRGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParseColor parses a color string and panics if parsing fails.
// Use this only for known-good literals.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHexString(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// parseHexColor parses hex digits without the leading #. Short forms
// double each digit, so "f80" is "ff8800".
func parseHexColor(s string) (color.NRGBA, error) {
	var channels []string
	switch len(s) {
	case 3, 4:
		for i := range s {
			channels = append(channels, s[i:i+1]+s[i:i+1])
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			channels = append(channels, s[i:i+2])
		}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	vals := [4]uint8{0, 0, 0, 255}
	names := [4]string{"red", "green", "blue", "alpha"}
	for i, ch := range channels {
		v, err := strconv.ParseUint(ch, 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid %s component: %w", names[i], err)
		}
		vals[i] = uint8(v)
	}
	return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

// parseColorFunc parses the argument list of rgb() (n=3) or rgba() (n=4).
func parseColorFunc(args string, n int) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, fmt.Errorf("expected %d color values, got %d", n, len(parts))
	}

	vals := [4]uint8{0, 0, 0, 255}
	names := [4]string{"red", "green", "blue", "alpha"}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var (
			v   uint8
			err error
		)
		if i == 3 {
			v, err = parseAlphaComponent(p)
		} else {
			var u uint64
			u, err = strconv.ParseUint(p, 10, 8)
			v = uint8(u)
		}
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid %s value: %w", names[i], err)
		}
		vals[i] = v
	}
	return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

// parseAlphaComponent accepts 0-255 integers and 0.0-1.0 fractions.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return unitToByte(val), nil
	}
	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// ToHex formats a color as #RRGGBB, or #RRGGBBAA when it is not opaque.
func ToHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Blend linearly interpolates every channel, alpha included, between c1
// (ratio 0) and c2 (ratio 1). Channels are rounded, so blending a color
// with itself returns it unchanged at any ratio.
func Blend(c1, c2 color.NRGBA, ratio float64) color.NRGBA {
	ratio = clamp01(ratio)
	return color.NRGBA{
		R: blendChannel(c1.R, c2.R, ratio),
		G: blendChannel(c1.G, c2.G, ratio),
		B: blendChannel(c1.B, c2.B, ratio),
		A: blendChannel(c1.A, c2.A, ratio),
	}
}

func blendChannel(a, b uint8, ratio float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*ratio))
}

// ScaleAlpha multiplies the alpha channel by factor (clamped to [0,1]),
// leaving the color channels untouched.
func ScaleAlpha(c color.NRGBA, factor float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp01(factor)))
	return c
}

// WithOpacity returns c with the given opacity in [0,1].
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = unitToByte(opacity)
	return c
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
