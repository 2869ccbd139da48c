package dial

import (
	"math"
	"sync"
	"testing"

	"seehuhn.de/go/geom/vec"
)

const angleTolerance = 1e-9

// pointerFromIndicator converts an indicator angle (clockwise from 12
// o'clock) into the screen angle a pointer at that position reports.
func pointerFromIndicator(a float64) float64 {
	return math.Mod(a-90+720, 360)
}

func TestNewMapperDefaults(t *testing.T) {
	m := NewMapper(DefaultMin, DefaultMax)

	if m.min != 0 || m.max != 40 {
		t.Errorf("range = (%v, %v), want (0, 40)", m.min, m.max)
	}
	if m.sweepStart != DefaultSweepStart || m.sweepRange != DefaultSweepRange {
		t.Errorf("geometry = (%v, %v), want (%v, %v)",
			m.sweepStart, m.sweepRange, DefaultSweepStart, DefaultSweepRange)
	}
	if m.angleStep != 7 {
		t.Errorf("angleStep = %v, want 7", m.angleStep)
	}
	if dz := m.DeadZone(); dz.ClampFrom != 280 || dz.SnapFrom != 320 {
		t.Errorf("dead zone = %+v, want {280 320}", dz)
	}
}

func TestNewMapperWithGeometry(t *testing.T) {
	tests := []struct {
		name       string
		min, max   float64
		sweepRange float64
		wantMin    float64
		wantMax    float64
		wantRange  float64
	}{
		{"custom range", 0, 100, 180, 0, 100, 180},
		{"swapped bounds", 10, -10, 280, -10, 10, 280},
		{"zero range falls back", 0, 10, 0, 0, 10, DefaultSweepRange},
		{"over full turn falls back", 0, 10, 400, 0, 10, DefaultSweepRange},
		{"full turn allowed", 0, 10, 360, 0, 10, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapperWithGeometry(tt.min, tt.max, DefaultSweepStart, tt.sweepRange)
			if m.Min() != tt.wantMin || m.Max() != tt.wantMax {
				t.Errorf("bounds = (%v, %v), want (%v, %v)", m.Min(), m.Max(), tt.wantMin, tt.wantMax)
			}
			if m.SweepRange() != tt.wantRange {
				t.Errorf("SweepRange() = %v, want %v", m.SweepRange(), tt.wantRange)
			}
		})
	}
}

func TestDefaultDeadZone(t *testing.T) {
	tests := []struct {
		sweep     float64
		clampFrom float64
		snapFrom  float64
	}{
		{280, 280, 320},
		{180, 180, 270},
		{360, 360, 360},
	}
	for _, tt := range tests {
		dz := DefaultDeadZone(tt.sweep)
		if dz.ClampFrom != tt.clampFrom || dz.SnapFrom != tt.snapFrom {
			t.Errorf("DefaultDeadZone(%v) = %+v, want {%v %v}", tt.sweep, dz, tt.clampFrom, tt.snapFrom)
		}
	}
}

func TestValueToAngle(t *testing.T) {
	m := NewMapper(0, 40)

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"min", 0, -140},
		{"middle", 20, 0},
		{"max", 40, 140},
		{"quarter", 10, -70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ValueToAngle(tt.value); got != tt.expected {
				t.Errorf("ValueToAngle(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestValueToAngleEndsExact(t *testing.T) {
	ranges := [][2]float64{{0, 40}, {-17.3, 99.1}, {0.1, 0.3}, {-1e6, 1e6}, {3, 7}}
	for _, r := range ranges {
		m := NewMapper(r[0], r[1])
		half := m.SweepRange() / 2
		if got := m.ValueToAngle(r[0]); got != -half {
			t.Errorf("range %v: ValueToAngle(min) = %v, want %v", r, got, -half)
		}
		if got := m.ValueToAngle(r[1]); got != half {
			t.Errorf("range %v: ValueToAngle(max) = %v, want %v", r, got, half)
		}
	}
}

func TestValueToAngleEmptyDomain(t *testing.T) {
	m := NewMapper(5, 5)
	if got := m.ValueToAngle(5); got != -140 {
		t.Errorf("ValueToAngle on empty domain = %v, want -140", got)
	}
	if got := m.AngleFromPointer(270); got != 5 {
		t.Errorf("AngleFromPointer on empty domain = %v, want 5", got)
	}
	if got := m.BarExtent(5); got != 0 {
		t.Errorf("BarExtent on empty domain = %v, want 0", got)
	}
}

func TestAngleFromPointer(t *testing.T) {
	m := NewMapper(0, 40)

	tests := []struct {
		name     string
		theta    float64
		expected float64
	}{
		{"sweep start", 130, 0},
		{"twelve o'clock", 270, 20},
		{"sweep end", 50, 40},
		{"three o'clock", 0, 230.0 / 7},
		{"just past end clamps", 51, 40},
		{"clamp boundary", 90, 40},
		{"just past clamp boundary snaps", 90.5, 0},
		{"deep in gap snaps", 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.AngleFromPointer(tt.theta)
			if math.Abs(got-tt.expected) > angleTolerance {
				t.Errorf("AngleFromPointer(%v) = %v, want %v", tt.theta, got, tt.expected)
			}
		})
	}
}

func TestAngleFromPointerAlwaysInRange(t *testing.T) {
	m := NewMapper(-5, 15)
	for theta := 0.0; theta < 360; theta += 0.25 {
		v := m.AngleFromPointer(theta)
		if v < -5 || v > 15 {
			t.Fatalf("AngleFromPointer(%v) = %v, outside [-5, 15]", theta, v)
		}
	}
}

func TestAngleFromPointerRoundTrip(t *testing.T) {
	m := NewMapper(0, 40)
	for v := 0.25; v < 40; v += 0.25 {
		theta := pointerFromIndicator(m.ValueToAngle(v))
		got := m.AngleFromPointer(theta)
		if math.Abs(got-v) > 1e-6 {
			t.Errorf("round trip %v -> %v degrees -> %v", v, theta, got)
		}
	}
}

func TestCustomDeadZone(t *testing.T) {
	m := NewMapper(0, 40)
	m.SetDeadZone(DeadZone{ClampFrom: 280, SnapFrom: 290})

	// shifted 300 is past the custom snap point
	if got := m.AngleFromPointer(70); got != 0 {
		t.Errorf("AngleFromPointer(70) = %v, want 0 with early snap", got)
	}
	// shifted 285 still clamps
	if got := m.AngleFromPointer(55); got != 40 {
		t.Errorf("AngleFromPointer(55) = %v, want 40", got)
	}
}

func TestSweepRotation(t *testing.T) {
	tests := []struct {
		sweepStart, sweep float64
		want              float64
	}{
		{DefaultSweepStart, DefaultSweepRange, 0},
		{-120, 300, 0},
		{-90, 360, 0},
		{0, 280, 230},
		{-40, 280, 270},
		{-40, 200, 230},
	}

	for _, tt := range tests {
		m := NewMapperWithGeometry(0, 40, tt.sweepStart, tt.sweep)
		if got := m.SweepRotation(); math.Abs(got-tt.want) > angleTolerance {
			t.Errorf("SweepRotation(%v, %v) = %v, want %v", tt.sweepStart, tt.sweep, got, tt.want)
		}
	}
}

func TestDeadZoneNarrowSweep(t *testing.T) {
	// shifted angle 250 lies in the unreachable arc of a 200 degree sweep
	const theta = 60
	m := NewMapperWithGeometry(0, 40, -170, 200)

	if got := m.AngleFromPointer(theta); got != 40 {
		t.Errorf("midpoint split: AngleFromPointer(%v) = %v, want 40", theta, got)
	}

	m.SetDeadZone(DeadZone{ClampFrom: 200, SnapFrom: 240})
	if got := m.AngleFromPointer(theta); got != 0 {
		t.Errorf("fixed +40 split: AngleFromPointer(%v) = %v, want 0", theta, got)
	}
}

func TestPointerAngle(t *testing.T) {
	center := vec.Vec2{X: 100, Y: 100}

	tests := []struct {
		name     string
		p        vec.Vec2
		expected float64
	}{
		{"right", vec.Vec2{X: 150, Y: 100}, 0},
		{"down", vec.Vec2{X: 100, Y: 150}, 90},
		{"left", vec.Vec2{X: 50, Y: 100}, 180},
		{"up", vec.Vec2{X: 100, Y: 50}, 270},
		{"center", center, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointerAngle(tt.p, center)
			if math.Abs(got-tt.expected) > angleTolerance {
				t.Errorf("PointerAngle(%v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestValueFromPoint(t *testing.T) {
	m := NewMapper(0, 40)
	center := vec.Vec2{X: 125, Y: 125}

	// straight above the center is the middle of the sweep
	if got := m.ValueFromPoint(vec.Vec2{X: 125, Y: 10}, center); math.Abs(got-20) > angleTolerance {
		t.Errorf("ValueFromPoint(top) = %v, want 20", got)
	}
	// just left of straight below lies in the snap arc
	if got := m.ValueFromPoint(vec.Vec2{X: 120, Y: 240}, center); got != 0 {
		t.Errorf("ValueFromPoint(bottom left) = %v, want 0", got)
	}
	// just right of straight below lies in the clamp arc
	if got := m.ValueFromPoint(vec.Vec2{X: 130, Y: 240}, center); got != 40 {
		t.Errorf("ValueFromPoint(bottom right) = %v, want 40", got)
	}
}

func TestBarExtent(t *testing.T) {
	m := NewMapper(0, 40)
	tests := []struct {
		value    float64
		expected float64
	}{
		{0, 0},
		{20, 140},
		{40, 280},
		{-10, 0},
		{50, 280},
	}
	for _, tt := range tests {
		if got := m.BarExtent(tt.value); got != tt.expected {
			t.Errorf("BarExtent(%v) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestSetMinMaxClamp(t *testing.T) {
	m := NewMapper(0, 40)

	m.SetMin(50)
	if m.Min() != 40 {
		t.Errorf("SetMin above max: Min() = %v, want 40", m.Min())
	}
	if m.AngleStep() != 0 {
		t.Errorf("AngleStep() = %v, want 0 for empty domain", m.AngleStep())
	}

	m.SetMax(10)
	if m.Max() != 40 {
		t.Errorf("SetMax below min: Max() = %v, want 40", m.Max())
	}

	m.SetMin(-40)
	if m.Min() != -40 {
		t.Errorf("Min() = %v, want -40", m.Min())
	}
	if m.AngleStep() != 3.5 {
		t.Errorf("AngleStep() = %v, want 3.5", m.AngleStep())
	}

	m.SetMin(math.NaN())
	if m.Min() != -40 {
		t.Errorf("NaN changed Min() to %v", m.Min())
	}

	m.SetMax(math.Inf(1))
	if m.Max() != math.MaxFloat64 {
		t.Errorf("SetMax(+Inf): Max() = %v, want MaxFloat64", m.Max())
	}
}

func TestMapperConcurrentAccess(t *testing.T) {
	m := NewMapper(0, 40)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.SetMax(float64(40 + i))
		}(i)
		go func() {
			defer wg.Done()
			_ = m.AngleFromPointer(270)
			_ = m.ValueToAngle(20)
		}()
	}
	wg.Wait()

	if m.Max() < 40 || m.Max() > 49 {
		t.Errorf("Max() = %v after concurrent updates", m.Max())
	}
}
