package render

import (
	"image/color"
	"math"
	"slices"
	"sort"
	"sync"
)

// wrapEpsilon is how far below its unwrapped neighbour a stop that wrapped
// past 1.0 is placed, so a rotation never merges two stops into one offset.
const wrapEpsilon = 1e-9

// Direction is the sense in which stop offsets increase around the center.
type Direction int

const (
	// Clockwise increases offsets with the on-screen angle (0 = 12 o'clock).
	Clockwise Direction = iota
	// CounterClockwise mirrors the table so offsets increase the other way.
	CounterClockwise
)

// String returns the configuration name of the direction.
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter_clockwise"
	default:
		return "unknown"
	}
}

// ColorStop is a gradient waypoint. Offset is a fraction of the full turn.
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// NormalizeStops turns an arbitrary stop list into a conical stop table:
// sorted ascending, unique offsets, first offset 0 and last offset 1.
//
// Input offsets outside [0,1] are clamped. rotation is clamped to [0,1] and
// shifts every offset around the circle. An empty list yields a transparent
// table and a single stop yields a uniform one. For CounterClockwise the
// finished table is mirrored.
func NormalizeStops(rotation float64, dir Direction, stops []ColorStop) []ColorStop {
	if len(stops) == 0 {
		stops = []ColorStop{{0, Transparent}, {1, Transparent}}
	}
	if len(stops) == 1 {
		c := stops[0].Color
		return []ColorStop{{0, c}, {1, c}}
	}

	out := clampStops(stops)
	out = rotateStops(out, clamp01(rotation))
	out = dedupeStops(out)
	out = sortStops(out)
	out = fillBoundaries(out)
	if dir == CounterClockwise {
		out = reverseStops(out)
	}
	return out
}

// clampStops copies stops with every offset forced into [0,1].
func clampStops(stops []ColorStop) []ColorStop {
	out := make([]ColorStop, len(stops))
	for i, s := range stops {
		out[i] = ColorStop{Offset: clamp01(s.Offset), Color: s.Color}
	}
	return out
}

// rotateStops shifts offsets by r (mod 1). A stop pushed past 1 wraps to
// just below the position it lands on; a stop landing exactly on the seam is
// kept at both ends so the start-of-sweep color survives.
func rotateStops(stops []ColorStop, r float64) []ColorStop {
	r = math.Mod(r, 1)
	if r == 0 {
		return stops
	}

	out := make([]ColorStop, 0, len(stops)+1)
	for _, s := range stops {
		o := s.Offset + r
		if o < 1 {
			out = append(out, ColorStop{o, s.Color})
			continue
		}
		wrapped := o - 1
		if wrapped <= wrapEpsilon {
			out = append(out, ColorStop{0, s.Color}, ColorStop{1, s.Color})
			continue
		}
		out = append(out, ColorStop{wrapped - wrapEpsilon, s.Color})
	}
	return out
}

// dedupeStops keeps one stop per offset; the last one given wins.
func dedupeStops(stops []ColorStop) []ColorStop {
	index := make(map[float64]int, len(stops))
	out := make([]ColorStop, 0, len(stops))
	for _, s := range stops {
		if i, ok := index[s.Offset]; ok {
			out[i].Color = s.Color
			continue
		}
		index[s.Offset] = len(out)
		out = append(out, s)
	}
	return out
}

// sortStops orders stops by ascending offset without touching the input.
func sortStops(stops []ColorStop) []ColorStop {
	out := slices.Clone(stops)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}

// fillBoundaries adds the 0.0 and 1.0 entries when missing, copying the
// color of the nearest existing stop. stops must be sorted and non-empty.
func fillBoundaries(stops []ColorStop) []ColorStop {
	out := stops
	if out[0].Offset > 0 {
		out = append([]ColorStop{{0, out[0].Color}}, out...)
	}
	if last := out[len(out)-1]; last.Offset < 1 {
		out = append(out, ColorStop{1, last.Color})
	}
	return out
}

// reverseStops mirrors a table: order is reversed and o becomes 1-o.
func reverseStops(stops []ColorStop) []ColorStop {
	out := make([]ColorStop, len(stops))
	for i, s := range stops {
		out[len(stops)-1-i] = ColorStop{Offset: 1 - s.Offset, Color: s.Color}
	}
	return out
}

// InterpolateStops returns the color of a normalized table at offset,
// a fraction of the full turn.
func InterpolateStops(stops []ColorStop, offset float64) color.NRGBA {
	if len(stops) == 0 {
		return Transparent
	}
	return colorAtAngle(stops, offset*360)
}

// colorAtAngle interpolates a normalized table at an angle in degrees
// measured clockwise from 12 o'clock. Angles at or past the last offset
// take the last stop's color.
func colorAtAngle(stops []ColorStop, angle float64) color.NRGBA {
	// first stop strictly past the angle
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset*360 > angle
	})
	switch {
	case idx == 0:
		return stops[0].Color
	case idx >= len(stops):
		return stops[len(stops)-1].Color
	}

	lo, hi := stops[idx-1], stops[idx]
	from := lo.Offset * 360
	fraction := (angle - from) / ((hi.Offset - lo.Offset) * 360)
	return Blend(lo.Color, hi.Color, fraction)
}

// StopTable is the mutable, normalized stop list of a conical gradient.
// Every mutation bumps Version so renderers can tell their cache is stale.
//
// A StopTable is safe for concurrent use.
type StopTable struct {
	source    []ColorStop
	stops     []ColorStop
	rotation  float64
	direction Direction
	version   uint64
	mu        sync.RWMutex
}

// NewStopTable creates a table from the given stops with no rotation.
func NewStopTable(dir Direction, stops ...ColorStop) *StopTable {
	t := &StopTable{direction: dir}
	t.SetStops(0, stops)
	return t
}

// SetStops replaces the stops and the rotation offset (a fraction of a
// turn, clamped to [0,1]).
func (t *StopTable) SetStops(rotation float64, stops []ColorStop) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = slices.Clone(stops)
	t.rotation = clamp01(rotation)
	t.rebuild()
}

// RecalculateWithAngle rotates the table by angle degrees. The rotation is
// applied to the stops last passed to SetStops, so calls do not accumulate;
// negative angles wrap into [0, 360).
func (t *StopTable) RecalculateWithAngle(angle float64) {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = a / 360
	t.rebuild()
}

// SetDirection changes the sweep direction and renormalizes.
func (t *StopTable) SetDirection(dir Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.direction = dir
	t.rebuild()
}

// rebuild must be called with the write lock held.
func (t *StopTable) rebuild() {
	t.stops = NormalizeStops(t.rotation, t.direction, t.source)
	t.version++
}

// Stops returns a copy of the normalized table.
func (t *StopTable) Stops() []ColorStop {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.stops)
}

// Direction returns the sweep direction.
func (t *StopTable) Direction() Direction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.direction
}

// Rotation returns the current rotation offset as a fraction of a turn.
func (t *StopTable) Rotation() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rotation
}

// Version returns a counter that changes on every mutation.
func (t *StopTable) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// ColorAt returns the gradient color at angle degrees clockwise from 12
// o'clock.
func (t *StopTable) ColorAt(angle float64) color.NRGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return colorAtAngle(t.stops, angle)
}

// snapshot returns the stops and version under a single read lock.
func (t *StopTable) snapshot() ([]ColorStop, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stops, t.version
}
