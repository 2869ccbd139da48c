//go:build !noebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// BackgroundMode specifies how the window behind the dial is filled.
type BackgroundMode int

const (
	// BackgroundModeSolid fills the window with a color.
	BackgroundModeSolid BackgroundMode = iota
	// BackgroundModeNone clears the window so the desktop shows through.
	BackgroundModeNone
)

// BackgroundRenderer fills the window before the dial is drawn.
type BackgroundRenderer interface {
	Draw(screen *ebiten.Image)
	Mode() BackgroundMode
}

// SolidBackground fills the window with one color.
type SolidBackground struct {
	color color.NRGBA
}

// NewSolidBackground creates a solid background renderer.
func NewSolidBackground(c color.NRGBA) *SolidBackground {
	return &SolidBackground{color: c}
}

// Draw fills screen.
func (sb *SolidBackground) Draw(screen *ebiten.Image) {
	screen.Fill(sb.color)
}

// Mode returns BackgroundModeSolid.
func (sb *SolidBackground) Mode() BackgroundMode {
	return BackgroundModeSolid
}

// Color returns the background color.
func (sb *SolidBackground) Color() color.NRGBA {
	return sb.color
}

// NoneBackground leaves the window transparent.
type NoneBackground struct{}

// Draw clears screen.
func (NoneBackground) Draw(screen *ebiten.Image) {
	screen.Clear()
}

// Mode returns BackgroundModeNone.
func (NoneBackground) Mode() BackgroundMode {
	return BackgroundModeNone
}

// newBackground picks the renderer for a window configuration.
func newBackground(c Config) BackgroundRenderer {
	if c.Transparent {
		return NoneBackground{}
	}
	return NewSolidBackground(c.BackgroundColor)
}
