//go:build !noebiten

// This file implements the on-screen dial widget: a gradient bar arc around
// a face with a grip ring, a target indicator dot and the value text.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"seehuhn.de/go/geom/vec"
)

// GlyphDrawer draws text for widgets. *TextRenderer implements it.
type GlyphDrawer interface {
	DrawTextSized(screen *ebiten.Image, textStr string, x, y, size float64, centered bool, clr color.Color)
}

// DialWidget draws DialFrames at a fixed position on screen.
type DialWidget struct {
	x, y    float64 // Top-left corner
	size    int
	glyphs  GlyphDrawer
	texture *ebiten.Image
	source  *image.NRGBA // raster the texture was built from
	mu      sync.Mutex
}

// NewDialWidget creates a dial widget with its top-left corner at (x, y).
func NewDialWidget(x, y float64, size int, glyphs GlyphDrawer) *DialWidget {
	if size <= 0 {
		size = DefaultRasterSize
	}
	return &DialWidget{x: x, y: y, size: size, glyphs: glyphs}
}

// SetGlyphs replaces the text drawer. Nil draws no text.
func (w *DialWidget) SetGlyphs(glyphs GlyphDrawer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.glyphs = glyphs
}

// SetPosition sets the top-left position of the widget.
func (w *DialWidget) SetPosition(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.x, w.y = x, y
}

// SetSize sets the dial diameter in pixels.
func (w *DialWidget) SetSize(size int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if size > 0 {
		w.size = size
	}
}

// Size returns the dial diameter in pixels.
func (w *DialWidget) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Center returns the dial center in screen coordinates.
func (w *DialWidget) Center() vec.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.centerLocked()
}

func (w *DialWidget) centerLocked() vec.Vec2 {
	half := float64(w.size) / 2
	return vec.Vec2{X: w.x + half, Y: w.y + half}
}

// Contains reports whether the screen point p lies on the dial.
func (w *DialWidget) Contains(p vec.Vec2) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return p.Sub(w.centerLocked()).Length() <= float64(w.size)*(barRadiusRatio+barWidthRatio)
}

// ToLocal converts a screen point into dial coordinates, where the dial
// occupies [0, size) on both axes.
func (w *DialWidget) ToLocal(p vec.Vec2) (local, center vec.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	half := float64(w.size) / 2
	return vec.Vec2{X: p.X - w.x, Y: p.Y - w.y}, vec.Vec2{X: half, Y: half}
}

// Draw renders f onto screen. The frame size is overridden by the widget's.
func (w *DialWidget) Draw(screen *ebiten.Image, f DialFrame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f.Size = w.size
	f = f.withDefaults()
	size := float64(w.size)
	c := w.centerLocked()
	cx, cy := float32(c.X), float32(c.Y)

	// face and grip ring
	vector.DrawFilledCircle(screen, cx, cy, float32(size*ringInnerRatio), f.Background, true)
	ringMid := size * (ringOuterRatio + ringInnerRatio) / 2
	ringWidth := size * (ringOuterRatio - ringInnerRatio)
	vector.StrokeCircle(screen, cx, cy, float32(ringMid), float32(ringWidth), f.RingColor, true)

	start := f.sweepStart()
	barR, barW := size*barRadiusRatio, size*barWidthRatio
	w.drawBand(screen, c, barR, barW, start, f.SweepRange, WithOpacity(f.TextColor, 0.15))

	if f.BarExtent > 0 && f.Gradient != nil {
		w.drawGradientBand(screen, f.Gradient, c, barR, barW, start, f.BarExtent)
		if f.Adjusting {
			w.drawBand(screen, c, barR, size*overlayWidthRatio, start, f.BarExtent, overlayColor)
		}
	}

	dot := polarPoint(c, size*indicatorDistanceRatio, f.indicatorAngle())
	vector.DrawFilledCircle(screen, float32(dot.X), float32(dot.Y), float32(size*indicatorRadiusRatio), f.IndicatorColor, true)

	if w.glyphs != nil {
		w.glyphs.DrawTextSized(screen, f.Text, c.X, w.y+size*textTopRatio, size*textSizeRatio, true, f.TextColor)
		if f.Adjusting {
			w.glyphs.DrawTextSized(screen, f.TargetText, c.X, w.y+size*targetTextTopRatio, size*targetTextSizeRatio, true, f.TextColor)
		}
	}
}

// drawBand fills an arc band with a solid color and round caps.
func (w *DialWidget) drawBand(screen *ebiten.Image, c vec.Vec2, radius, width, from, sweep float64, clr color.NRGBA) {
	vertices, indices := bandTriangles(c, radius, width, from, sweep)
	r, g, b, a := colorComponents(clr)
	for i := range vertices {
		vertices[i].SrcX, vertices[i].SrcY = 0.5, 0.5
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
	screen.DrawTriangles(vertices, indices, emptySubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})

	for _, end := range []float64{from, from + sweep} {
		p := polarPoint(c, radius, end)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(width/2), clr, true)
	}
}

// drawGradientBand fills an arc band with the conical gradient, sampling
// the raster at each vertex's position within the dial.
func (w *DialWidget) drawGradientBand(screen *ebiten.Image, g *ConicalGradient, c vec.Vec2, radius, width, from, sweep float64) {
	tex := w.gradientTexture(g)
	vertices, indices := bandTriangles(c, radius, width, from, sweep)
	for i := range vertices {
		vertices[i].SrcX = vertices[i].DstX - float32(w.x)
		vertices[i].SrcY = vertices[i].DstY - float32(w.y)
		vertices[i].ColorR, vertices[i].ColorG, vertices[i].ColorB, vertices[i].ColorA = 1, 1, 1, 1
	}
	screen.DrawTriangles(vertices, indices, tex, &ebiten.DrawTrianglesOptions{AntiAlias: true})

	for _, end := range []float64{from, from + sweep} {
		p := polarPoint(c, radius, end)
		w.drawTexturedDisc(screen, tex, p, width/2)
	}
}

// drawTexturedDisc fills a disc as a triangle fan sampled from tex.
func (w *DialWidget) drawTexturedDisc(screen, tex *ebiten.Image, p vec.Vec2, radius float64) {
	rim := arcPoints(p, radius, 0, 360)
	vertices := make([]ebiten.Vertex, 0, len(rim)+1)
	indices := make([]uint16, 0, 3*len(rim))
	for _, q := range append([]vec.Vec2{p}, rim...) {
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(q.X), DstY: float32(q.Y),
			SrcX: float32(q.X - w.x), SrcY: float32(q.Y - w.y),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	for i := 1; i < len(rim); i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	screen.DrawTriangles(vertices, indices, tex, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// gradientTexture uploads the gradient raster when it changed. The
// gradient caches its raster, so an unchanged pointer means an unchanged
// image.
func (w *DialWidget) gradientTexture(g *ConicalGradient) *ebiten.Image {
	src := g.RenderRect(w.size, w.size)
	if w.texture == nil || src != w.source {
		if w.texture != nil {
			w.texture.Deallocate()
		}
		w.texture = ebiten.NewImageFromImage(src)
		w.source = src
	}
	return w.texture
}

// bandTriangles splits an arc band into quads between the outer and inner
// arcs, two triangles per segment.
func bandTriangles(c vec.Vec2, radius, width, from, sweep float64) ([]ebiten.Vertex, []uint16) {
	outer := arcPoints(c, radius+width/2, from, sweep)
	inner := arcPoints(c, math.Max(0, radius-width/2), from, sweep)

	vertices := make([]ebiten.Vertex, 0, 2*len(outer))
	for i := range outer {
		vertices = append(vertices,
			ebiten.Vertex{DstX: float32(outer[i].X), DstY: float32(outer[i].Y)},
			ebiten.Vertex{DstX: float32(inner[i].X), DstY: float32(inner[i].Y)},
		)
	}
	indices := make([]uint16, 0, 6*(len(outer)-1))
	for i := 0; i < len(outer)-1; i++ {
		o1, i1 := uint16(2*i), uint16(2*i+1)
		o2, i2 := o1+2, i1+2
		indices = append(indices, o1, o2, i1, i1, o2, i2)
	}
	return vertices, indices
}

// colorComponents returns straight-alpha vertex color scales.
func colorComponents(clr color.NRGBA) (r, g, b, a float32) {
	return float32(clr.R) / 255, float32(clr.G) / 255, float32(clr.B) / 255, float32(clr.A) / 255
}

// emptySubImage is a 1x1 white image used for filling shapes.
var emptySubImage = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()
