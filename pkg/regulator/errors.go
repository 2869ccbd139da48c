package regulator

import (
	"fmt"
	"sync"
	"time"
)

// ErrorCategory represents the type of error for categorization purposes.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is the default category for uncategorized errors.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConfig is for configuration validation errors.
	ErrorCategoryConfig
	// ErrorCategoryLua is for Lua parse and execution errors.
	ErrorCategoryLua
	// ErrorCategoryRender is for window, texture and snapshot errors.
	ErrorCategoryRender
	// ErrorCategoryIO is for file and font loading errors.
	ErrorCategoryIO
	// ErrorCategoryWatch is for configuration file watcher errors.
	ErrorCategoryWatch
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryConfig:
		return "config"
	case ErrorCategoryLua:
		return "lua"
	case ErrorCategoryRender:
		return "render"
	case ErrorCategoryIO:
		return "io"
	case ErrorCategoryWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// ErrorSeverity indicates the severity level of an error.
type ErrorSeverity int

const (
	// SeverityInfo is for informational messages that don't require action.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning is for non-critical issues that should be investigated.
	SeverityWarning
	// SeverityError is for errors that affect functionality but allow continued operation.
	SeverityError
	// SeverityCritical is for errors that stop the instance.
	SeverityCritical
)

// String returns a human-readable name for the severity level.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with additional metadata for tracking and alerting.
type CategorizedError struct {
	// Err is the underlying error.
	Err error
	// Category classifies the type of error.
	Category ErrorCategory
	// Severity indicates the urgency level.
	Severity ErrorSeverity
	// Timestamp is when the error occurred.
	Timestamp time.Time
	// Context provides additional key-value metadata.
	Context map[string]string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s/%s] (no error)", e.Severity, e.Category)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Severity, e.Category, e.Err.Error())
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorizedError creates a new CategorizedError with the given parameters.
func NewCategorizedError(err error, category ErrorCategory, severity ErrorSeverity) *CategorizedError {
	return &CategorizedError{
		Err:       err,
		Category:  category,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// WithContext adds a key-value pair to the error context and returns the error.
func (e *CategorizedError) WithContext(key, value string) *CategorizedError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// AlertHandler is called when more than the configured number of errors
// of at least the configured severity occur within the alert window.
// It runs on its own goroutine; panics are recovered.
type AlertHandler func(count int, recent []CategorizedError)

// ErrorTrackerConfig configures an ErrorTracker.
type ErrorTrackerConfig struct {
	// MaxErrors is the number of errors retained (default 100).
	MaxErrors int
	// AlertThreshold is the error count within AlertWindow that triggers
	// the alert handler (default 5).
	AlertThreshold int
	// AlertWindow is the sliding window for AlertThreshold (default 1 minute).
	AlertWindow time.Duration
	// AlertMinSeverity filters the errors counted toward an alert.
	AlertMinSeverity ErrorSeverity
	// AlertCooldown is the minimum time between alerts (default 5 minutes).
	AlertCooldown time.Duration
}

// DefaultErrorTrackerConfig returns a configuration with sensible defaults.
func DefaultErrorTrackerConfig() ErrorTrackerConfig {
	return ErrorTrackerConfig{
		MaxErrors:        100,
		AlertThreshold:   5,
		AlertWindow:      time.Minute,
		AlertMinSeverity: SeverityError,
		AlertCooldown:    5 * time.Minute,
	}
}

// ErrorTracker keeps the most recent errors of an instance and raises an
// alert when they arrive too quickly, such as a config file that fails to
// reload on every save.
// Thread-safe for concurrent use.
type ErrorTracker struct {
	mu        sync.RWMutex
	config    ErrorTrackerConfig
	errors    []CategorizedError
	totals    map[ErrorCategory]int64
	handler   AlertHandler
	lastAlert time.Time
	now       func() time.Time
}

// NewErrorTracker creates a new ErrorTracker. Non-positive fields of cfg
// take their DefaultErrorTrackerConfig values.
func NewErrorTracker(cfg ErrorTrackerConfig) *ErrorTracker {
	def := DefaultErrorTrackerConfig()
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = def.MaxErrors
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = def.AlertThreshold
	}
	if cfg.AlertWindow <= 0 {
		cfg.AlertWindow = def.AlertWindow
	}
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = def.AlertCooldown
	}
	return &ErrorTracker{
		config: cfg,
		totals: make(map[ErrorCategory]int64),
		now:    time.Now,
	}
}

// SetAlertHandler installs the alert callback. Nil disables alerts.
func (t *ErrorTracker) SetAlertHandler(handler AlertHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// Record adds an error to the tracker and checks the alert condition.
func (t *ErrorTracker) Record(err *CategorizedError) {
	if err == nil {
		return
	}

	t.mu.Lock()
	t.errors = append(t.errors, *err)
	if len(t.errors) > t.config.MaxErrors {
		t.errors = t.errors[len(t.errors)-t.config.MaxErrors:]
	}
	t.totals[err.Category]++

	now := t.now()
	var recent []CategorizedError
	if t.handler != nil && now.Sub(t.lastAlert) >= t.config.AlertCooldown {
		recent = t.matchingLocked(now)
	}
	handler := t.handler
	fire := handler != nil && len(recent) >= t.config.AlertThreshold
	if fire {
		t.lastAlert = now
	}
	t.mu.Unlock()

	if fire {
		go func() {
			defer func() {
				_ = recover()
			}()
			handler(len(recent), recent)
		}()
	}
}

// matchingLocked returns the errors inside the alert window that meet the
// minimum severity. Must be called with mu held.
func (t *ErrorTracker) matchingLocked(now time.Time) []CategorizedError {
	cutoff := now.Add(-t.config.AlertWindow)
	var out []CategorizedError
	for _, e := range t.errors {
		if e.Timestamp.Before(cutoff) || e.Severity < t.config.AlertMinSeverity {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ErrorRate returns errors per second within the given window.
func (t *ErrorTracker) ErrorRate(window time.Duration) float64 {
	if window <= 0 {
		return 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := t.now().Add(-window)
	count := 0
	for _, e := range t.errors {
		if e.Timestamp.After(cutoff) {
			count++
		}
	}
	return float64(count) / window.Seconds()
}

// Total returns the lifetime number of errors recorded in category.
func (t *ErrorTracker) Total(category ErrorCategory) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals[category]
}

// RecentErrors returns the most recent errors, oldest first, up to limit.
func (t *ErrorTracker) RecentErrors(limit int) []CategorizedError {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if limit <= 0 || len(t.errors) == 0 {
		return nil
	}
	start := max(len(t.errors)-limit, 0)
	return append([]CategorizedError(nil), t.errors[start:]...)
}

// Clear removes all retained errors. Lifetime totals are kept.
func (t *ErrorTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = nil
	t.lastAlert = time.Time{}
}
