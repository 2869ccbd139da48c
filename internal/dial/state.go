package dial

import (
	"image/color"
	"math"
	"sync"

	"github.com/opd-ai/go-regulator/internal/render"
	"seehuhn.de/go/geom/vec"
)

// EventType identifies a regulator notification.
type EventType int

const (
	// EventAdjusting fires when target and current differ in their integer part.
	EventAdjusting EventType = iota
	// EventAdjusted fires when target and current agree in their integer part.
	EventAdjusted
)

// String returns a human-readable name for the event type.
func (e EventType) String() string {
	switch e {
	case EventAdjusting:
		return "Adjusting"
	case EventAdjusted:
		return "Adjusted"
	default:
		return "Unknown"
	}
}

// Event is passed to notification handlers.
type Event struct {
	Type    EventType
	Target  float64
	Current float64
}

// Handler receives regulator notifications.
type Handler func(Event)

// DefaultGradientStops returns the stock bar gradient, from cool green at
// the minimum through orange and red back to blue and green at the maximum.
func DefaultGradientStops() []render.ColorStop {
	return []render.ColorStop{
		{Offset: 0.0, Color: color.NRGBA{R: 135, G: 255, B: 190, A: 255}},
		{Offset: 0.125, Color: color.NRGBA{R: 254, G: 190, B: 106, A: 255}},
		{Offset: 0.389, Color: color.NRGBA{R: 252, G: 84, B: 68, A: 255}},
		{Offset: 0.611, Color: color.NRGBA{R: 99, G: 195, B: 255, A: 255}},
		{Offset: 1.0, Color: color.NRGBA{R: 125, G: 255, B: 190, A: 255}},
	}
}

// State is the render state of a feedback regulator: the domain, the target
// the user dialed in, the current value reported back, how values are
// printed and the gradient painted along the bar.
//
// Every numeric setter clamps instead of failing. Handlers run synchronously
// on the caller's goroutine after the state lock is released, so they may
// call back into the State.
type State struct {
	mapper      *Mapper
	target      float64
	current     float64
	valueFmt    formatter
	gradient    *render.ConicalGradient
	onAdjusting Handler
	onAdjusted  Handler
	mu          sync.RWMutex
}

// NewState creates a state over mapper. A nil mapper gets the default
// domain. Target and current start at the minimum, with no decimals, the
// degree unit and the default bar gradient.
func NewState(mapper *Mapper) *State {
	if mapper == nil {
		mapper = NewMapper(DefaultMin, DefaultMax)
	}
	s := &State{
		mapper:   mapper,
		target:   mapper.Min(),
		current:  mapper.Min(),
		valueFmt: newFormatter(0, DefaultUnit),
		gradient: render.NewConicalGradient(render.NewStopTable(render.Clockwise)),
	}
	s.SetGradientStops(DefaultGradientStops())
	return s
}

// Mapper returns the value mapper.
func (s *State) Mapper() *Mapper {
	return s.mapper
}

// SetOnAdjusting installs the handler for EventAdjusting.
func (s *State) SetOnAdjusting(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdjusting = h
}

// SetOnAdjusted installs the handler for EventAdjusted.
func (s *State) SetOnAdjusted(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdjusted = h
}

// SetMin changes the lower bound and re-clamps target and current.
func (s *State) SetMin(v float64) {
	s.mapper.SetMin(v)
	s.reclamp()
}

// SetMax changes the upper bound and re-clamps target and current.
func (s *State) SetMax(v float64) {
	s.mapper.SetMax(v)
	s.reclamp()
}

// reclamp notifies only when a bound change moved target or current.
func (s *State) reclamp() {
	s.mu.Lock()
	t, c := s.mapper.Clamp(s.target), s.mapper.Clamp(s.current)
	changed := t != s.target || c != s.current
	s.target, s.current = t, c
	ev, h := s.pendingLocked()
	s.mu.Unlock()

	if changed && h != nil {
		h(ev)
	}
}

// SetTarget sets the value the user asks for.
func (s *State) SetTarget(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.mu.Lock()
	s.target = s.mapper.Clamp(v)
	ev, h := s.pendingLocked()
	s.mu.Unlock()

	if h != nil {
		h(ev)
	}
}

// SetCurrent sets the value the regulated system reports.
func (s *State) SetCurrent(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.mu.Lock()
	s.current = s.mapper.Clamp(v)
	ev, h := s.pendingLocked()
	s.mu.Unlock()

	if h != nil {
		h(ev)
	}
}

// SetTargetFromPointer sets the target from a screen pointer angle.
func (s *State) SetTargetFromPointer(theta float64) {
	s.SetTarget(s.mapper.AngleFromPointer(theta))
}

// SetTargetFromPoint sets the target from a pointer position on a dial
// centered on center.
func (s *State) SetTargetFromPoint(p, center vec.Vec2) {
	s.SetTarget(s.mapper.ValueFromPoint(p, center))
}

// pendingLocked builds the notification for the current values and picks
// the matching handler. Must be called with the lock held.
func (s *State) pendingLocked() (Event, Handler) {
	ev := Event{Type: EventAdjusting, Target: s.target, Current: s.current}
	h := s.onAdjusting
	if sameUnit(s.target, s.current) {
		ev.Type = EventAdjusted
		h = s.onAdjusted
	}
	return ev, h
}

// sameUnit compares the integer parts, truncating toward zero.
func sameUnit(a, b float64) bool {
	return math.Trunc(a) == math.Trunc(b)
}

// Target returns the requested value.
func (s *State) Target() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// Current returns the reported value.
func (s *State) Current() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Min returns the lower bound.
func (s *State) Min() float64 { return s.mapper.Min() }

// Max returns the upper bound.
func (s *State) Max() float64 { return s.mapper.Max() }

// TargetVisible reports whether the target indicator and text should be
// shown, which is while the regulator is still adjusting.
func (s *State) TargetVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !sameUnit(s.target, s.current)
}

// IndicatorAngle returns the indicator rotation for the target.
func (s *State) IndicatorAngle() float64 {
	return s.mapper.ValueToAngle(s.Target())
}

// BarExtent returns the sweep degrees filled by the current value.
func (s *State) BarExtent() float64 {
	return s.mapper.BarExtent(s.Current())
}

// SetDecimals sets the fractional digits, clamped to [0, MaxDecimals].
func (s *State) SetDecimals(d int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valueFmt.set(d, s.valueFmt.unit)
}

// Decimals returns the fractional digits.
func (s *State) Decimals() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueFmt.decimals
}

// SetUnit sets the unit appended to every formatted value.
func (s *State) SetUnit(unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valueFmt.set(s.valueFmt.decimals, unit)
}

// Unit returns the unit as given, without escaping.
func (s *State) Unit() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueFmt.unit
}

// Format renders v with the configured decimals and unit.
func (s *State) Format(v float64) string {
	s.mu.RLock()
	f := s.valueFmt
	s.mu.RUnlock()
	return f.format(v)
}

// Text renders the current value.
func (s *State) Text() string {
	return s.Format(s.Current())
}

// TargetText renders the target value.
func (s *State) TargetText() string {
	return s.Format(s.Target())
}

// Gradient returns the conical gradient painted along the bar.
func (s *State) Gradient() *render.ConicalGradient {
	return s.gradient
}

// SetGradientStops spreads stops over the visible sweep of the bar. Offset
// 0 lands on the sweep start, 0.5 on the sweep middle and 1 on the sweep
// end; the table is turned with the sweep's rotation. A
// single stop paints the whole ring in its color; no stops leave it
// transparent.
func (s *State) SetGradientStops(stops []render.ColorStop) {
	table := s.gradient.Stops()
	rotation := s.mapper.SweepRotation() / 360
	if len(stops) <= 1 {
		table.SetStops(rotation, stops)
		return
	}
	table.SetStops(rotation, sweepStops(stops, s.mapper.SweepRange()/360))
}

// sweepStops maps a [0,1] stop list onto the conical offsets covered by a
// sweep of span turns centered on 12 o'clock. The sweep middle falls on the
// conical seam, so its color is pinned at both 0 and 1.
func sweepStops(stops []render.ColorStop, span float64) []render.ColorStop {
	filled := render.NormalizeStops(0, render.Clockwise, stops)
	half := span / 2

	out := make([]render.ColorStop, 0, len(filled)+2)
	for _, st := range filled {
		if st.Offset == 0.5 {
			continue
		}
		o := st.Offset*span - half
		if o < 0 {
			o += 1
		}
		out = append(out, render.ColorStop{Offset: o, Color: st.Color})
	}
	seam := render.InterpolateStops(filled, 0.5)
	return append(out,
		render.ColorStop{Offset: 0, Color: seam},
		render.ColorStop{Offset: 1, Color: seam})
}

// Step returns the smallest displayed change of the value: one unit of the
// last shown decimal.
func (s *State) Step() float64 {
	return math.Pow10(-s.Decimals())
}

// Frame describes the dial for drawing at size pixels. Colors are left to
// the caller.
func (s *State) Frame(size int) render.DialFrame {
	return render.DialFrame{
		Size:           size,
		Gradient:       s.gradient,
		SweepRange:     s.mapper.SweepRange(),
		Rotation:       s.mapper.SweepRotation(),
		BarExtent:      s.BarExtent(),
		IndicatorAngle: s.IndicatorAngle(),
		Adjusting:      s.TargetVisible(),
		Text:           s.Text(),
		TargetText:     s.TargetText(),
	}
}
