// Package regulator provides the public API for embedding go-regulator, a
// rotary set-point dial with a conical gradient bar. It allows applications
// to run the dial as a library component with full lifecycle management
// and hot-reloadable Lua configuration.
//
// # Basic Usage
//
// The simplest way to use regulator is to create an instance from a
// configuration file:
//
//	r, err := regulator.New("/path/to/thermostat.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Stop()
//
//	if err := r.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
// Regulator supports four configuration sources:
//
//   - Disk file: Use [New] to load from a filesystem path
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for dynamic configurations
//   - Defaults: Use [NewDefault] for the stock 0-40 degree dial
//
// # Values and Notifications
//
// The dial's target is set by the user (pointer drag, wheel) or through
// [Regulator.SetTarget]; the current value is reported back with
// [Regulator.SetCurrent]. When Dial.AdjustRate is positive the current value
// also drifts toward the target on every update, simulating the controlled
// system. Every change to either value emits [EventAdjusting] while their
// integer parts differ and [EventAdjusted] once they agree. Dial events are
// delivered synchronously, so the last one a handler saw describes the dial.
//
// # Error Handling
//
// Runtime errors are reported through [ErrorHandler] as [*CategorizedError]
// values and recorded by the instance's [ErrorTracker]:
//
//	r.SetErrorHandler(func(err error) {
//		log.Printf("regulator error: %v", err)
//	})
//
// The handler is called asynchronously; do not block in the handler.
//
// # Headless Mode
//
// Headless instances run the update loop without a window. Use
// [Regulator.Snapshot] to render the dial to an image:
//
//	r, _ := regulator.NewDefault(&regulator.Options{Headless: true})
//	r.SetTarget(21)
//	img, err := r.Snapshot(256)
package regulator
