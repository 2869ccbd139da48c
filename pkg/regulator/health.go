package regulator

import (
	"fmt"
	"time"

	"github.com/opd-ai/go-regulator/internal/dial"
)

// HealthStatus represents the overall health state of a component.
type HealthStatus string

const (
	// HealthOK indicates the component is functioning normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates partial functionality or non-critical issues.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates the component is not functioning.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// degradedErrorRate is the errors per minute above which the error
// component reports degraded even without a stored last error.
const degradedErrorRate = 1.0

// HealthCheck contains the health status of the Regulator instance and its
// components: "instance", "dial", "render" and "errors".
type HealthCheck struct {
	// Status is the overall health status.
	Status HealthStatus

	// Timestamp is when the health check was performed.
	Timestamp time.Time

	// Uptime is the duration since the instance started (zero if not running).
	Uptime time.Duration

	// Components contains health status for individual components.
	Components map[string]ComponentHealth

	// Message provides additional context about the health status.
	Message string
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	// Status is the health status of this component.
	Status HealthStatus

	// Message provides details about the component's state.
	Message string

	// LastUpdated is when this component was last successfully updated.
	LastUpdated time.Time
}

// IsHealthy returns true if the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool {
	return h.Status == HealthOK
}

// IsDegraded returns true if the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool {
	return h.Status == HealthDegraded
}

// IsUnhealthy returns true if the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool {
	return h.Status == HealthUnhealthy
}

func instanceHealth(running bool, now time.Time) ComponentHealth {
	if running {
		return ComponentHealth{Status: HealthOK, Message: "Instance is running", LastUpdated: now}
	}
	return ComponentHealth{Status: HealthUnhealthy, Message: "Instance is not running", LastUpdated: now}
}

func dialHealth(state *dial.State, updates uint64, now time.Time) ComponentHealth {
	if state == nil {
		return ComponentHealth{Status: HealthUnhealthy, Message: "Dial not initialized", LastUpdated: now}
	}
	return ComponentHealth{
		Status:      HealthOK,
		Message:     fmt.Sprintf("Showing %s, %d updates completed", state.Text(), updates),
		LastUpdated: now,
	}
}

func renderHealth(running, headless bool, game window, now time.Time) ComponentHealth {
	switch {
	case headless:
		return ComponentHealth{Status: HealthOK, Message: "Headless, no window", LastUpdated: now}
	case game != nil && game.IsRunning():
		return ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Window open at %.1f fps", game.FrameStats().FPS()),
			LastUpdated: now,
		}
	case running:
		return ComponentHealth{Status: HealthDegraded, Message: "Window not open yet", LastUpdated: now}
	default:
		return ComponentHealth{Status: HealthDegraded, Message: "Window closed", LastUpdated: now}
	}
}

func errorHealth(lastErr error, perMinute float64, now time.Time) ComponentHealth {
	switch {
	case lastErr != nil:
		return ComponentHealth{Status: HealthDegraded, Message: lastErr.Error(), LastUpdated: now}
	case perMinute > degradedErrorRate:
		return ComponentHealth{
			Status:      HealthDegraded,
			Message:     fmt.Sprintf("%.1f errors per minute", perMinute),
			LastUpdated: now,
		}
	default:
		return ComponentHealth{Status: HealthOK, Message: "No recent errors", LastUpdated: now}
	}
}

// summarize derives the overall status from the components.
func summarize(running bool, uptime time.Duration, now time.Time, components map[string]ComponentHealth) HealthCheck {
	overall := HealthOK
	message := "All components healthy"

	switch {
	case !running:
		overall = HealthUnhealthy
		message = "Instance is not running"
	case components["errors"].Status != HealthOK:
		overall = HealthDegraded
		message = "Running with recent errors"
	case components["render"].Status != HealthOK:
		overall = HealthDegraded
		message = "Running without a window"
	}

	return HealthCheck{
		Status:     overall,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}
