//go:build !noebiten

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFontSize is the default font size in points.
const defaultFontSize = 14.0

// TextRenderer handles text rendering using Ebiten's text package.
type TextRenderer struct {
	fontSource *text.GoTextFaceSource
	fontSize   float64
	mu         sync.RWMutex
}

// NewTextRenderer creates a new TextRenderer with the Go regular font.
func NewTextRenderer() *TextRenderer {
	tr, err := NewTextRendererWithFont(goregular.TTF)
	if err != nil {
		// This should never fail with the embedded font
		panic("failed to load embedded font: " + err.Error())
	}
	return tr
}

// NewTextRendererWithFont creates a TextRenderer from TrueType or OpenType
// data, as returned by LoadFont.
func NewTextRendererWithFont(data []byte) (*TextRenderer, error) {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &TextRenderer{
		fontSource: fontSource,
		fontSize:   defaultFontSize,
	}, nil
}

// SetFontSize sets the font size for text rendering. Non-positive sizes
// restore the default.
func (tr *TextRenderer) SetFontSize(size float64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if size <= 0 {
		size = defaultFontSize
	}
	tr.fontSize = size
}

// FontSize returns the current font size.
func (tr *TextRenderer) FontSize() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize
}

// DrawText renders text with its top-left corner at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.Color) {
	tr.DrawTextSized(screen, textStr, x, y, tr.FontSize(), false, clr)
}

// DrawTextSized renders text at an explicit size. With centered set, x is
// the horizontal center of the text instead of its left edge.
func (tr *TextRenderer) DrawTextSized(screen *ebiten.Image, textStr string, x, y, size float64, centered bool, clr color.Color) {
	if textStr == "" || size <= 0 {
		return
	}
	face := &text.GoTextFace{
		Source: tr.fontSource,
		Size:   size,
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	if centered {
		op.PrimaryAlign = text.AlignCenter
	}

	text.Draw(screen, textStr, face, op)
}

// MeasureText returns the width and height of the given text string.
func (tr *TextRenderer) MeasureText(textStr string) (width, height float64) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	face := &text.GoTextFace{
		Source: tr.fontSource,
		Size:   tr.fontSize,
	}

	lineSpacing := tr.fontSize * 1.2
	return text.Measure(textStr, face, lineSpacing)
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.fontSize * 1.2
}
