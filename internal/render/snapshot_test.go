package render

import (
	"image/color"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func testFrame() DialFrame {
	return DialFrame{
		Size:           120,
		Gradient:       newRGBGradient(),
		SweepRange:     280,
		BarExtent:      140,
		IndicatorAngle: 0,
		Text:           "20°",
		TargetText:     "25°",
		Background:     color.NRGBA{R: 36, G: 44, B: 53, A: 255},
	}
}

func TestRenderDialBounds(t *testing.T) {
	for _, ss := range []int{0, 1, 3} {
		img, err := RenderDial(testFrame(), ss)
		if err != nil {
			t.Fatalf("RenderDial(ss=%d) error: %v", ss, err)
		}
		if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
			t.Errorf("ss=%d bounds = %v, want 120x120", ss, b)
		}
	}
}

func TestRenderDialRequiresGradient(t *testing.T) {
	f := testFrame()
	f.Gradient = nil
	if _, err := RenderDial(f, 1); err == nil {
		t.Error("RenderDial without gradient should fail")
	}
}

func TestRenderDialDefaultsSize(t *testing.T) {
	f := testFrame()
	f.Size = 0
	img, err := RenderDial(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != DefaultRasterSize {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), DefaultRasterSize)
	}
}

func TestRenderDialLayout(t *testing.T) {
	f := testFrame()
	img, err := RenderDial(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	size := float64(f.Size)
	center := vec.Vec2{X: size / 2, Y: size / 2}

	// corners lie outside every shape
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}

	// the grip ring between face and bar
	ring := polarPoint(center, size*0.36, 90)
	if got := img.NRGBAAt(int(ring.X), int(ring.Y)); !nearColor(got, DefaultRingColor, 2) {
		t.Errorf("ring pixel = %v, want %v", got, DefaultRingColor)
	}

	// the bar at the sweep start takes the gradient color there
	bar := polarPoint(center, size*barRadiusRatio, -100)
	got := img.NRGBAAt(int(math.Round(bar.X)), int(math.Round(bar.Y)))
	if got.A < 200 {
		t.Errorf("bar pixel alpha = %d, want opaque", got.A)
	}

	// past the bar extent only the faint track remains
	track := polarPoint(center, size*barRadiusRatio, 100)
	if a := img.NRGBAAt(int(math.Round(track.X)), int(math.Round(track.Y))).A; a > 80 {
		t.Errorf("track alpha = %d, want faint", a)
	}
}

func TestRenderDialIndicatorFollowsAngle(t *testing.T) {
	f := testFrame()
	f.Text = ""
	size := float64(f.Size)
	center := vec.Vec2{X: size / 2, Y: size / 2}

	for _, angle := range []float64{-140, -45, 0, 90, 140} {
		f.IndicatorAngle = angle
		img, err := RenderDial(f, 1)
		if err != nil {
			t.Fatal(err)
		}
		dot := polarPoint(center, size*indicatorDistanceRatio, angle)
		got := img.NRGBAAt(int(math.Round(dot.X)), int(math.Round(dot.Y)))
		if !nearColor(got, DefaultIndicatorColor, 8) {
			t.Errorf("indicator at %v = %v, want %v", angle, got, DefaultIndicatorColor)
		}
	}
}

func TestRenderDialIndicatorFollowsRotation(t *testing.T) {
	f := testFrame()
	f.Text = ""
	f.Rotation = 230
	size := float64(f.Size)
	center := vec.Vec2{X: size / 2, Y: size / 2}

	img, err := RenderDial(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	dot := polarPoint(center, size*indicatorDistanceRatio, 230)
	if got := img.NRGBAAt(int(math.Round(dot.X)), int(math.Round(dot.Y))); !nearColor(got, DefaultIndicatorColor, 8) {
		t.Errorf("rotated indicator = %v, want %v", got, DefaultIndicatorColor)
	}
	unrotated := polarPoint(center, size*indicatorDistanceRatio, 0)
	if got := img.NRGBAAt(int(math.Round(unrotated.X)), int(math.Round(unrotated.Y))); nearColor(got, DefaultIndicatorColor, 8) {
		t.Error("indicator still drawn at the unrotated angle")
	}
}

func TestRenderDialKeepsWindowRaster(t *testing.T) {
	f := testFrame()
	var infos []RenderInfo
	f.Gradient.SetRenderHook(func(info RenderInfo) { infos = append(infos, info) })

	window := f.Gradient.RenderRect(f.Size, f.Size)
	for _, ss := range []int{1, 2, 3} {
		if _, err := RenderDial(f, ss); err != nil {
			t.Fatal(err)
		}
	}
	if again := f.Gradient.RenderRect(f.Size, f.Size); again != window {
		t.Error("snapshot replaced the cached window raster")
	}

	want := []bool{false, true}
	if len(infos) != len(want) {
		t.Fatalf("gradient rendered %d times, want %d", len(infos), len(want))
	}
	for i, cached := range want {
		if infos[i].Cached != cached {
			t.Errorf("render %d cached = %v, want %v", i, infos[i].Cached, cached)
		}
	}
}

func TestRenderDialDrawsText(t *testing.T) {
	f := testFrame()
	f.Text = ""
	blank, err := RenderDial(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	f.Text = "88°"
	withText, err := RenderDial(f, 1)
	if err != nil {
		t.Fatal(err)
	}

	diff := 0
	for i := range blank.Pix {
		if blank.Pix[i] != withText.Pix[i] {
			diff++
		}
	}
	if diff == 0 {
		t.Error("text did not change any pixel")
	}
}

func TestArcPointsEnds(t *testing.T) {
	c := vec.Vec2{X: 50, Y: 50}
	pts := arcPoints(c, 40, -140, 280)
	first, last := pts[0], pts[len(pts)-1]

	wantFirst := polarPoint(c, 40, -140)
	wantLast := polarPoint(c, 40, 140)
	if first.Sub(wantFirst).Length() > 1e-9 || last.Sub(wantLast).Length() > 1e-9 {
		t.Errorf("arc ends = %v, %v, want %v, %v", first, last, wantFirst, wantLast)
	}
	for _, p := range pts {
		if math.Abs(p.Sub(c).Length()-40) > 1e-9 {
			t.Fatalf("point %v is off the arc", p)
		}
	}
}

func TestPolarPointDirections(t *testing.T) {
	c := vec.Vec2{X: 0, Y: 0}
	tests := []struct {
		angle float64
		want  vec.Vec2
	}{
		{0, vec.Vec2{X: 0, Y: -1}},
		{90, vec.Vec2{X: 1, Y: 0}},
		{180, vec.Vec2{X: 0, Y: 1}},
		{-90, vec.Vec2{X: -1, Y: 0}},
	}
	for _, tt := range tests {
		if got := polarPoint(c, 1, tt.angle); got.Sub(tt.want).Length() > 1e-9 {
			t.Errorf("polarPoint(%v) = %v, want %v", tt.angle, got, tt.want)
		}
	}
}

func TestArcSegmentsBounds(t *testing.T) {
	if n := arcSegments(1, 10); n != 8 {
		t.Errorf("tiny arc segments = %d, want 8", n)
	}
	if n := arcSegments(10000, 360); n != 360 {
		t.Errorf("huge arc segments = %d, want 360", n)
	}
}

func TestRenderDialCustomFont(t *testing.T) {
	f := testFrame()
	data, err := LoadFont("mono-bold")
	if err != nil {
		t.Fatal(err)
	}
	f.Font = data
	if _, err := RenderDial(f, 1); err != nil {
		t.Errorf("RenderDial with mono-bold error: %v", err)
	}

	f.Font = []byte("garbage")
	if _, err := RenderDial(f, 1); err == nil {
		t.Error("RenderDial with an invalid font should fail")
	}
}
