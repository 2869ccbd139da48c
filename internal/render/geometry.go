package render

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Dial layout, as fractions of the dial size.
const (
	barRadiusRatio         = 0.46
	barWidthRatio          = 0.04
	overlayWidthRatio      = 0.03
	ringOuterRatio         = 0.42
	ringInnerRatio         = 0.30
	indicatorRadiusRatio   = 0.032
	indicatorDistanceRatio = 0.352
	textSizeRatio          = 0.216
	textTopRatio           = 0.33
	targetTextSizeRatio    = 0.082
	targetTextTopRatio     = 0.23
)

var (
	// DefaultRingColor fills the grip ring around the dial face.
	DefaultRingColor = color.NRGBA{R: 66, G: 71, B: 79, A: 255}
	// DefaultIndicatorColor fills the target indicator dot.
	DefaultIndicatorColor = color.NRGBA{R: 36, G: 44, B: 53, A: 255}
	// overlayColor darkens the bar while the regulator is adjusting.
	overlayColor = color.NRGBA{A: 77}
)

// DialFrame is everything needed to paint one frame of a regulator dial.
// Angles are degrees clockwise from 12 o'clock.
type DialFrame struct {
	Size       int
	Gradient   *ConicalGradient
	SweepRange float64
	// Rotation turns the sweep and the indicator clockwise by this many
	// degrees; zero centers the sweep on 12 o'clock.
	Rotation       float64
	BarExtent      float64
	IndicatorAngle float64
	Adjusting      bool
	Text           string
	TargetText     string
	TextColor      color.NRGBA
	Background     color.NRGBA
	RingColor      color.NRGBA
	IndicatorColor color.NRGBA
	// Font is TrueType or OpenType data for the headless renderer; nil
	// selects the Go regular font.
	Font []byte
}

// withDefaults fills zero fields.
func (f DialFrame) withDefaults() DialFrame {
	if f.Size <= 0 {
		f.Size = DefaultRasterSize
	}
	if f.SweepRange <= 0 || f.SweepRange > 360 {
		f.SweepRange = 280
	}
	if f.RingColor == (color.NRGBA{}) {
		f.RingColor = DefaultRingColor
	}
	if f.IndicatorColor == (color.NRGBA{}) {
		f.IndicatorColor = DefaultIndicatorColor
	}
	if f.TextColor == (color.NRGBA{}) {
		f.TextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return f
}

// sweepStart is the angle of the minimum.
func (f DialFrame) sweepStart() float64 {
	return f.Rotation - f.SweepRange/2
}

// indicatorAngle is the screen angle of the target indicator.
func (f DialFrame) indicatorAngle() float64 {
	return f.Rotation + f.IndicatorAngle
}

// polarPoint returns the point at radius and angle (clockwise from 12
// o'clock) around center, in screen coordinates.
func polarPoint(center vec.Vec2, radius, angle float64) vec.Vec2 {
	rad := angle * math.Pi / 180
	return vec.Vec2{
		X: center.X + radius*math.Sin(rad),
		Y: center.Y - radius*math.Cos(rad),
	}
}

// arcSegments picks a segment count that keeps chords around 2 pixels.
func arcSegments(radius, sweep float64) int {
	arcLength := math.Abs(sweep) * math.Pi / 180 * radius
	segments := int(arcLength / 2)
	if segments < 8 {
		segments = 8
	}
	if segments > 360 {
		segments = 360
	}
	return segments
}

// arcPoints returns segments+1 points along an arc starting at from and
// extending sweep degrees clockwise.
func arcPoints(center vec.Vec2, radius, from, sweep float64) []vec.Vec2 {
	n := arcSegments(radius, sweep)
	pts := make([]vec.Vec2, n+1)
	step := sweep / float64(n)
	for i := range pts {
		pts[i] = polarPoint(center, radius, from+float64(i)*step)
	}
	return pts
}

// bandOutline returns the closed outline of an annular sector: the outer
// arc forwards, then the inner arc backwards.
func bandOutline(center vec.Vec2, radius, width, from, sweep float64) []vec.Vec2 {
	outer := arcPoints(center, radius+width/2, from, sweep)
	inner := arcPoints(center, math.Max(0, radius-width/2), from, sweep)
	out := make([]vec.Vec2, 0, len(outer)+len(inner))
	out = append(out, outer...)
	for i := len(inner) - 1; i >= 0; i-- {
		out = append(out, inner[i])
	}
	return out
}
