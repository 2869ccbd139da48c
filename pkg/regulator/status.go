package regulator

import "time"

// Status represents the current state of a Regulator instance.
type Status struct {
	// Running indicates if the instance is currently active.
	Running bool
	// StartTime is when the instance was last started (zero if never started).
	StartTime time.Time
	// UpdateCount is the number of update cycles completed since creation.
	UpdateCount uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// ConfigSource describes the configuration source (file path, "reader",
	// "default" or "embedded:<path>").
	ConfigSource string
	// Target is the value the dial is set to.
	Target float64
	// Current is the reported value.
	Current float64
	// Adjusting is true while target and current differ in their integer part.
	Adjusting bool
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously when errors occur during operation.
// Do not block in the handler; perform only quick, non-blocking operations.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle and dial events.
// Lifecycle events are delivered asynchronously. EventAdjusting and
// EventAdjusted are delivered synchronously, in order, on the goroutine
// that changed the value; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle or dial event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
	// Target and Current are set for EventAdjusting and EventAdjusted.
	Target  float64
	Current float64
}

// EventType enumerates event types.
// The underlying integer values are implementation details and should not
// be relied upon for serialization. Use the constant names for comparison.
type EventType int

const (
	// EventStarted is emitted when the instance starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the instance stops.
	EventStopped
	// EventRestarted is emitted after a successful restart.
	EventRestarted
	// EventConfigReloaded is emitted when configuration is reloaded.
	EventConfigReloaded
	// EventError is emitted when a recoverable error occurs.
	EventError
	// EventAdjusting is emitted when target and current start to differ.
	EventAdjusting
	// EventAdjusted is emitted when current catches up with the target.
	EventAdjusted
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRestarted:
		return "restarted"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventError:
		return "error"
	case EventAdjusting:
		return "adjusting"
	case EventAdjusted:
		return "adjusted"
	default:
		return "unknown"
	}
}
