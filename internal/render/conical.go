// This file implements the conical gradient rasterizer: every pixel is
// colored by its angle around a center point.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"seehuhn.de/go/geom/vec"
)

// DefaultRasterSize replaces non-positive raster dimensions.
const DefaultRasterSize = 100

// edgeBands fade the outer rim of a round raster. Each band applies when a
// pixel lies further than radius-inset from the center; the first matching
// band wins.
var edgeBands = []struct {
	inset float64
	alpha float64
}{
	{0.25, 0.25},
	{0.5, 0.45},
	{1.0, 0.65},
	{1.5, 0.85},
}

// RenderInfo describes one raster request.
type RenderInfo struct {
	Round    bool
	Width    int
	Height   int
	Cached   bool
	Duration time.Duration
}

// rasterKey identifies the inputs a cached raster was computed from.
type rasterKey struct {
	width, height int
	center        vec.Vec2
	version       uint64
}

type rasterSlot struct {
	key rasterKey
	img *image.NRGBA
}

// ConicalGradient rasterizes a StopTable around a center point. The zero
// coordinate of the center means the middle of the image on that axis.
//
// Rendered images are cached and shared between callers; treat them as
// read-only.
type ConicalGradient struct {
	table  *StopTable
	center vec.Vec2
	rect   rasterSlot
	round  rasterSlot
	hook   func(RenderInfo)
	mu     sync.Mutex
}

// NewConicalGradient creates a gradient over table centered on the image.
func NewConicalGradient(table *StopTable) *ConicalGradient {
	if table == nil {
		table = NewStopTable(Clockwise)
	}
	return &ConicalGradient{table: table}
}

// Stops returns the underlying stop table.
func (g *ConicalGradient) Stops() *StopTable {
	return g.table
}

// SetCenter sets the sweep center in pixel coordinates.
func (g *ConicalGradient) SetCenter(c vec.Vec2) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.center = c
}

// Center returns the configured center; zero axes are not resolved.
func (g *ConicalGradient) Center() vec.Vec2 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.center
}

// SetRenderHook installs a callback invoked after every render request.
func (g *ConicalGradient) SetRenderHook(hook func(RenderInfo)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hook = hook
}

// Invalidate drops both cached rasters.
func (g *ConicalGradient) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rect = rasterSlot{}
	g.round = rasterSlot{}
}

// RenderRect returns a width x height raster of the gradient.
func (g *ConicalGradient) RenderRect(width, height int) *image.NRGBA {
	return g.render(false, width, height)
}

// RenderRound returns a size x size raster clipped to the inscribed circle,
// with a faded rim.
func (g *ConicalGradient) RenderRound(size int) *image.NRGBA {
	return g.render(true, size, size)
}

// Pattern returns the rect raster as a fill pattern for drawing surfaces.
func (g *ConicalGradient) Pattern(width, height int) image.Image {
	return g.RenderRect(width, height)
}

func (g *ConicalGradient) render(round bool, width, height int) *image.NRGBA {
	if width <= 0 {
		width = DefaultRasterSize
	}
	if height <= 0 {
		height = DefaultRasterSize
	}
	start := time.Now()
	stops, version := g.table.snapshot()

	g.mu.Lock()
	key := rasterKey{
		width:   width,
		height:  height,
		center:  resolveCenter(g.center, width, height),
		version: version,
	}
	slot := &g.rect
	if round {
		slot = &g.round
	}

	cached := slot.img != nil && slot.key == key
	if !cached {
		if round {
			slot.img = rasterizeRound(stops, width, key.center)
		} else {
			slot.img = rasterizeRect(stops, width, height, key.center)
		}
		slot.key = key
	}
	img := slot.img
	hook := g.hook
	g.mu.Unlock()

	if hook != nil {
		hook(RenderInfo{
			Round:    round,
			Width:    width,
			Height:   height,
			Cached:   cached,
			Duration: time.Since(start),
		})
	}
	return img
}

// resolveCenter substitutes the image middle for zero center coordinates.
func resolveCenter(c vec.Vec2, width, height int) vec.Vec2 {
	if c.X == 0 {
		c.X = float64(width) * 0.5
	}
	if c.Y == 0 {
		c.Y = float64(height) * 0.5
	}
	return c
}

func rasterizeRect(stops []ColorStop, width, height int, center vec.Vec2) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			angle, _ := pixelPolar(x, y, center)
			img.SetNRGBA(x, y, colorAtAngle(stops, angle))
		}
	}
	return img
}

func rasterizeRound(stops []ColorStop, size int, center vec.Vec2) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	radius := float64(size) * 0.5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			angle, distance := pixelPolar(x, y, center)
			if distance > radius {
				continue // NewNRGBA is already transparent
			}
			img.SetNRGBA(x, y, fadeEdge(colorAtAngle(stops, angle), distance, radius))
		}
	}
	return img
}

func fadeEdge(c color.NRGBA, distance, radius float64) color.NRGBA {
	for _, band := range edgeBands {
		if distance > radius-band.inset {
			return ScaleAlpha(c, band.alpha)
		}
	}
	return c
}

// pixelPolar returns the clockwise angle from 12 o'clock in [0,360) and the
// distance of pixel (x,y) from center. The center pixel itself reports
// distance 1 and angle 0.
func pixelPolar(x, y int, center vec.Vec2) (angle, distance float64) {
	d := vec.Vec2{X: float64(x), Y: float64(y)}.Sub(center)
	distance = d.Length()
	if distance == 0 {
		distance = 1
	}
	ratio := math.Max(-1, math.Min(1, d.X/distance))
	raw := math.Acos(ratio) * 180 / math.Pi
	return adjustAngle(d.X, d.Y, raw), distance
}

// adjustAngle turns the unsigned angle between the pixel direction and the
// positive x axis into a clockwise sweep angle starting at 12 o'clock.
// Screen y grows downwards. Pixels on an axis match two quadrants; both
// give the same angle once reduced mod 360.
func adjustAngle(dx, dy, raw float64) float64 {
	var angle float64
	switch {
	case dx >= 0 && dy <= 0: // upper right
		angle = math.Max(0, 90-raw)
	case dx >= 0 && dy >= 0: // lower right
		angle = raw + 90
	case dx <= 0 && dy >= 0: // lower left
		angle = raw + 90
	default: // upper left
		angle = 450 - raw
	}
	return math.Mod(angle, 360)
}
