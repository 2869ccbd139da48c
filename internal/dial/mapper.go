// Package dial maps between a bounded value domain and the angular sweep of a
// rotary control, and holds the render state of a feedback regulator.
//
// Angles handed to and returned from the indicator side (ValueToAngle) are
// measured clockwise from 12 o'clock with the sweep centered on it. Pointer
// angles (AngleFromPointer) are screen atan2 angles: 0 points right and the
// angle grows clockwise because screen y grows downwards.
package dial

import (
	"math"
	"sync"

	"seehuhn.de/go/geom/vec"
)

const (
	// DefaultSweepStart is the sweep start in counter-clockwise degrees from
	// 3 o'clock, which puts the minimum at the lower left.
	DefaultSweepStart = -130.0
	// DefaultSweepRange is the visible sweep in degrees.
	DefaultSweepRange = 280.0
	// DefaultMin and DefaultMax bound a new mapper.
	DefaultMin = 0.0
	DefaultMax = 40.0
)

// DeadZone decides where pointer input in the unreachable arc goes.
//
// Shifted pointer angles in (ClampFrom, SnapFrom] clamp to ClampFrom, so a
// pointer nudged just past the sweep end stays at the maximum. Angles in
// (SnapFrom, 360) snap to 0, so a pointer that is closer to the sweep start
// jumps to the minimum.
type DeadZone struct {
	ClampFrom float64
	SnapFrom  float64
}

// DefaultDeadZone splits the unreachable arc of a sweep at its midpoint.
// For the default 280 degree sweep that is ClampFrom 280 and SnapFrom 320.
//
// This is not the fixed SnapFrom of sweepRange+40 a 280 degree dial also
// gets: for other sweeps the two differ (a 200 degree sweep snaps from 280
// here, from 240 with the fixed split). Callers that want the fixed split
// set DeadZone{ClampFrom: r, SnapFrom: r + 40} with SetDeadZone or the
// dead_zone_snap config key.
func DefaultDeadZone(sweepRange float64) DeadZone {
	return DeadZone{
		ClampFrom: sweepRange,
		SnapFrom:  sweepRange + (360-sweepRange)/2,
	}
}

// Mapper converts between domain values and sweep angles.
// It is safe for concurrent use.
type Mapper struct {
	min, max   float64
	sweepStart float64
	sweepRange float64
	deadZone   DeadZone
	angleStep  float64
	mu         sync.RWMutex
}

// NewMapper creates a mapper with the default sweep geometry.
func NewMapper(minVal, maxVal float64) *Mapper {
	return NewMapperWithGeometry(minVal, maxVal, DefaultSweepStart, DefaultSweepRange)
}

// NewMapperWithGeometry creates a mapper with a custom sweep. A sweepRange
// outside (0, 360] falls back to DefaultSweepRange. If maxVal < minVal the
// bounds are swapped.
func NewMapperWithGeometry(minVal, maxVal, sweepStart, sweepRange float64) *Mapper {
	if !(sweepRange > 0 && sweepRange <= 360) {
		sweepRange = DefaultSweepRange
	}
	if maxVal < minVal {
		minVal, maxVal = maxVal, minVal
	}
	m := &Mapper{
		min:        minVal,
		max:        maxVal,
		sweepStart: sweepStart,
		sweepRange: sweepRange,
		deadZone:   DefaultDeadZone(sweepRange),
	}
	m.recalculate()
	return m
}

// recalculate must be called with the write lock held.
func (m *Mapper) recalculate() {
	if m.max == m.min {
		m.angleStep = 0
		return
	}
	m.angleStep = m.sweepRange / (m.max - m.min)
}

// SetMin sets the lower bound, clamped to (-MaxFloat64, max]. NaN is ignored.
func (m *Mapper) SetMin(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.min = clamp(v, -math.MaxFloat64, m.max)
	m.recalculate()
}

// SetMax sets the upper bound, clamped to [min, MaxFloat64). NaN is ignored.
func (m *Mapper) SetMax(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.max = clamp(v, m.min, math.MaxFloat64)
	m.recalculate()
}

// SetDeadZone replaces the dead-zone policy.
func (m *Mapper) SetDeadZone(dz DeadZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadZone = dz
}

// Min returns the lower bound.
func (m *Mapper) Min() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.min
}

// Max returns the upper bound.
func (m *Mapper) Max() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.max
}

// Bounds returns min and max under one lock.
func (m *Mapper) Bounds() (minVal, maxVal float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.min, m.max
}

// AngleStep returns the degrees of sweep per domain unit, or 0 when the
// domain is empty.
func (m *Mapper) AngleStep() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.angleStep
}

// SweepStart returns the configured sweep start.
func (m *Mapper) SweepStart() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sweepStart
}

// SweepRotation returns how far the middle of the sweep is turned
// clockwise from 12 o'clock, in [0, 360). A sweepStart of
// sweepRange/2 - 270, which includes the default geometry, gives 0.
func (m *Mapper) SweepRotation() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rot := math.Mod(90-m.sweepStart+m.sweepRange/2, 360)
	if rot < 0 {
		rot += 360
	}
	return rot
}

// SweepRange returns the configured sweep range.
func (m *Mapper) SweepRange() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sweepRange
}

// DeadZone returns the current dead-zone policy.
func (m *Mapper) DeadZone() DeadZone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deadZone
}

// Clamp forces v into [min, max].
func (m *Mapper) Clamp(v float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clamp(v, m.min, m.max)
}

// ValueToAngle returns the indicator rotation for v in degrees clockwise
// from 12 o'clock. min maps to exactly -sweepRange/2 and max to exactly
// +sweepRange/2.
func (m *Mapper) ValueToAngle(v float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	half := m.sweepRange / 2
	if m.max == m.min {
		return -half
	}
	return (v-m.min)/(m.max-m.min)*m.sweepRange - half
}

// BarExtent returns how many degrees of the sweep v fills, measured from the
// sweep start.
func (m *Mapper) BarExtent(v float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.max == m.min {
		return 0
	}
	return (clamp(v, m.min, m.max) - m.min) / (m.max - m.min) * m.sweepRange
}

// AngleFromPointer converts a pointer angle in [0,360) into a domain value.
// The result is always within [min, max].
func (m *Mapper) AngleFromPointer(theta float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.angleStep == 0 {
		return m.min
	}
	shifted := math.Mod(theta+360+m.sweepStart, 360)
	if shifted < 0 {
		shifted += 360
	}
	switch {
	case shifted > m.deadZone.SnapFrom && shifted < 360:
		shifted = 0
	case shifted <= m.deadZone.SnapFrom && shifted > m.deadZone.ClampFrom:
		shifted = m.deadZone.ClampFrom
	}
	return clamp(shifted/m.angleStep+m.min, m.min, m.max)
}

// ValueFromPoint converts a pointer position into a domain value for a dial
// centered on center.
func (m *Mapper) ValueFromPoint(p, center vec.Vec2) float64 {
	return m.AngleFromPointer(PointerAngle(p, center))
}

// PointerAngle returns the screen angle of p around center in [0,360):
// 0 points right, 90 points down. A pointer on the center reports 0.
func PointerAngle(p, center vec.Vec2) float64 {
	d := p.Sub(center)
	if d.Length() == 0 {
		return 0
	}
	theta := math.Atan2(d.Y, d.X) * 180 / math.Pi
	if theta < 0 {
		theta += 360
	}
	return theta
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
