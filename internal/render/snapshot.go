// This file paints a complete dial without a window, for the -snapshot
// command line mode and for tests.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// DefaultSupersample is the oversampling factor used by RenderDial.
const DefaultSupersample = 2

var (
	snapshotFontOnce sync.Once
	snapshotFont     *opentype.Font
	snapshotFontErr  error
)

// loadSnapshotFont parses data, or returns the shared default font when
// data is nil.
func loadSnapshotFont(data []byte) (*opentype.Font, error) {
	if data != nil {
		return opentype.Parse(data)
	}
	snapshotFontOnce.Do(func() {
		snapshotFont, snapshotFontErr = opentype.Parse(goregular.TTF)
	})
	return snapshotFont, snapshotFontErr
}

// RenderDial paints f into a Size x Size image. The frame is drawn at
// supersample times the size and scaled down, which smooths the per-pixel
// gradient; supersample values below 1 use DefaultSupersample.
func RenderDial(f DialFrame, supersample int) (*image.NRGBA, error) {
	f = f.withDefaults()
	if supersample < 1 {
		supersample = DefaultSupersample
	}
	if f.Gradient == nil {
		return nil, fmt.Errorf("dial frame has no gradient")
	}

	s := f.Size * supersample
	big := image.NewNRGBA(image.Rect(0, 0, s, s))
	p := &painter{dst: big, z: vector.NewRasterizer(s, s)}
	size := float64(s)
	center := vec.Vec2{X: size / 2, Y: size / 2}

	// face and grip ring
	p.fill(image.NewUniform(f.Background), func(z *vector.Rasterizer) {
		addCircle(z, center, size*ringInnerRatio, false)
	})
	p.fill(image.NewUniform(f.RingColor), func(z *vector.Rasterizer) {
		addCircle(z, center, size*ringOuterRatio, false)
		addCircle(z, center, size*ringInnerRatio, true)
	})

	// track, bar and adjusting overlay
	start := f.sweepStart()
	barR, barW := size*barRadiusRatio, size*barWidthRatio
	p.fill(image.NewUniform(WithOpacity(f.TextColor, 0.15)), func(z *vector.Rasterizer) {
		addBand(z, center, barR, barW, start, f.SweepRange)
	})
	if f.BarExtent > 0 {
		// rasterized here so the gradient's cached window raster survives
		stops, _ := f.Gradient.Stops().snapshot()
		p.fill(rasterizeRect(stops, s, s, center), func(z *vector.Rasterizer) {
			addBand(z, center, barR, barW, start, f.BarExtent)
		})
		if f.Adjusting {
			p.fill(image.NewUniform(overlayColor), func(z *vector.Rasterizer) {
				addBand(z, center, barR, size*overlayWidthRatio, start, f.BarExtent)
			})
		}
	}

	dot := polarPoint(center, size*indicatorDistanceRatio, f.indicatorAngle())
	p.fill(image.NewUniform(f.IndicatorColor), func(z *vector.Rasterizer) {
		addCircle(z, dot, size*indicatorRadiusRatio, false)
	})

	if f.Text != "" || f.Adjusting {
		ttf, err := loadSnapshotFont(f.Font)
		if err != nil {
			return nil, fmt.Errorf("failed to load dial font: %w", err)
		}
		if err := drawCentered(big, ttf, f.Text, size*textSizeRatio, size*textTopRatio, f.TextColor); err != nil {
			return nil, err
		}
		if f.Adjusting {
			if err := drawCentered(big, ttf, f.TargetText, size*targetTextSizeRatio, size*targetTextTopRatio, f.TextColor); err != nil {
				return nil, err
			}
		}
	}

	if supersample == 1 {
		return big, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, f.Size, f.Size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), xdraw.Over, nil)
	return out, nil
}

// painter fills vector shapes onto an image.
type painter struct {
	dst *image.NRGBA
	z   *vector.Rasterizer
}

func (p *painter) fill(src image.Image, build func(z *vector.Rasterizer)) {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	build(p.z)
	p.z.Draw(p.dst, b, src, image.Point{})
}

// addCircle appends a circle made of four cubic Béziers. Opposite
// orientations cut holes.
func addCircle(z *vector.Rasterizer, c vec.Vec2, radius float64, clockwise bool) {
	const k = 0.5522847498
	cx, cy, r := float32(c.X), float32(c.Y), float32(radius)
	kr := float32(k) * r

	z.MoveTo(cx, cy-r)
	if clockwise {
		z.CubeTo(cx-kr, cy-r, cx-r, cy-kr, cx-r, cy)
		z.CubeTo(cx-r, cy+kr, cx-kr, cy+r, cx, cy+r)
		z.CubeTo(cx+kr, cy+r, cx+r, cy+kr, cx+r, cy)
		z.CubeTo(cx+r, cy-kr, cx+kr, cy-r, cx, cy-r)
	} else {
		z.CubeTo(cx+kr, cy-r, cx+r, cy-kr, cx+r, cy)
		z.CubeTo(cx+r, cy+kr, cx+kr, cy+r, cx, cy+r)
		z.CubeTo(cx-kr, cy+r, cx-r, cy+kr, cx-r, cy)
		z.CubeTo(cx-r, cy-kr, cx-kr, cy-r, cx, cy-r)
	}
	z.ClosePath()
}

// addBand appends an arc band with round caps.
func addBand(z *vector.Rasterizer, c vec.Vec2, radius, width, from, sweep float64) {
	pts := bandOutline(c, radius, width, from, sweep)
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, pt := range pts[1:] {
		z.LineTo(float32(pt.X), float32(pt.Y))
	}
	z.ClosePath()

	addCircle(z, polarPoint(c, radius, from), width/2, false)
	addCircle(z, polarPoint(c, radius, from+sweep), width/2, false)
}

// drawCentered draws s horizontally centered with its top at top.
func drawCentered(dst *image.NRGBA, f *opentype.Font, s string, size, top float64, clr color.NRGBA) error {
	if s == "" || size <= 0 {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create dial font face: %w", err)
	}
	defer face.Close()

	width := font.MeasureString(face, s)
	x := (fixed.I(dst.Bounds().Dx()) - width) / 2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: fixed.Int26_6(top*64) + face.Metrics().Ascent},
	}
	d.DrawString(s)
	return nil
}
