// This file implements validation of configuration values.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/opd-ai/go-regulator/internal/dial"
	"github.com/opd-ai/go-regulator/internal/render"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator checks a Config for values the regulator cannot use.
type Validator struct {
	// strictMode turns warnings into errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode makes every warning an error.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs comprehensive validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateDial(&cfg.Dial, result)
	v.validateWindow(&cfg.Window, result)
	v.validateGradient(&cfg.Gradient, result)

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

// validateDial validates DialConfig settings.
func (v *Validator) validateDial(dc *DialConfig, result *ValidationResult) {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"dial.min_value", dc.Min},
		{"dial.max_value", dc.Max},
		{"dial.target_value", dc.Target},
		{"dial.current_value", dc.Current},
		{"dial.sweep_start", dc.SweepStart},
		{"dial.sweep_range", dc.SweepRange},
		{"dial.adjust_rate", dc.AdjustRate},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			result.AddError(f.name, "must be a finite number")
		}
	}

	if dc.Max <= dc.Min {
		result.AddError("dial.max_value",
			fmt.Sprintf("must be greater than min_value %v, got %v", dc.Min, dc.Max))
	}
	if dc.Target < dc.Min || dc.Target > dc.Max {
		result.AddWarning("dial.target_value",
			fmt.Sprintf("%v is outside [%v, %v] and will be clamped", dc.Target, dc.Min, dc.Max))
	}
	if dc.Current < dc.Min || dc.Current > dc.Max {
		result.AddWarning("dial.current_value",
			fmt.Sprintf("%v is outside [%v, %v] and will be clamped", dc.Current, dc.Min, dc.Max))
	}

	if dc.Decimals < 0 || dc.Decimals > dial.MaxDecimals {
		result.AddWarning("dial.decimals",
			fmt.Sprintf("%d is outside [0, %d] and will be clamped", dc.Decimals, dial.MaxDecimals))
	}

	if !(dc.SweepRange > 0 && dc.SweepRange <= 360) {
		result.AddError("dial.sweep_range",
			fmt.Sprintf("must be in (0, 360], got %v", dc.SweepRange))
		return
	}
	dz := dial.DefaultDeadZone(dc.SweepRange)
	clampFrom, snapFrom := dz.ClampFrom, dz.SnapFrom
	if dc.DeadZoneClamp != 0 {
		clampFrom = dc.DeadZoneClamp
	}
	if dc.DeadZoneSnap != 0 {
		snapFrom = dc.DeadZoneSnap
	}
	if snapFrom < clampFrom {
		result.AddError("dial.dead_zone_snap",
			fmt.Sprintf("%v must not be below dead_zone_clamp %v", snapFrom, clampFrom))
	}
	if clampFrom < 0 || snapFrom > 360 {
		result.AddError("dial.dead_zone_clamp",
			fmt.Sprintf("dead zone [%v, %v] must lie within [0, 360]", clampFrom, snapFrom))
	}

	if dc.AdjustRate < 0 {
		result.AddError("dial.adjust_rate",
			fmt.Sprintf("must be non-negative, got %v", dc.AdjustRate))
	}
}

// validateWindow validates WindowConfig settings.
func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Size <= 0 {
		result.AddError("window.size", fmt.Sprintf("must be positive, got %d", wc.Size))
	}
	if wc.Width < 0 {
		result.AddError("window.width", fmt.Sprintf("must be non-negative, got %d", wc.Width))
	}
	if wc.Height < 0 {
		result.AddError("window.height", fmt.Sprintf("must be non-negative, got %d", wc.Height))
	}

	// Validate window dimensions are reasonable
	const maxDimension = 10000
	if wc.Size > maxDimension {
		result.AddWarning("window.size", fmt.Sprintf("unusually large value %d", wc.Size))
	}
	if wc.Width > 0 && wc.Width < wc.Size || wc.Height > 0 && wc.Height < wc.Size {
		result.AddWarning("window.size",
			fmt.Sprintf("dial of %d pixels does not fit a %dx%d window", wc.Size, wc.Width, wc.Height))
	}

	if wc.UpdateInterval <= 0 {
		result.AddError("window.update_interval",
			fmt.Sprintf("must be positive, got %v", wc.UpdateInterval))
	}
	if wc.UpdateInterval > 0 && wc.UpdateInterval < 10*time.Millisecond {
		result.AddWarning("window.update_interval",
			fmt.Sprintf("very fast interval %v may cause high CPU usage", wc.UpdateInterval))
	}

	for i, hint := range wc.Hints {
		if hint > WindowHintSkipPager {
			result.AddError("window.hints",
				fmt.Sprintf("unknown hint at index %d: %d", i, hint))
		}
	}

	if wc.Font != "" {
		v.validateFont(wc.Font, result)
	}
}

// validateFont validates a font name or path.
func (v *Validator) validateFont(font string, result *ValidationResult) {
	if render.IsEmbeddedFont(font) {
		return
	}
	if len(font) > 4096 {
		result.AddError("window.font", "font path too long")
		return
	}
	if !strings.HasSuffix(strings.ToLower(font), ".ttf") && !strings.HasSuffix(strings.ToLower(font), ".otf") {
		result.AddWarning("window.font",
			fmt.Sprintf("%q is not an embedded font (%s) and not a .ttf or .otf path", font, strings.Join(render.FontNames(), ", ")))
	}
}

// validateGradient validates GradientConfig settings.
func (v *Validator) validateGradient(gc *GradientConfig, result *ValidationResult) {
	if len(gc.Stops) == 0 {
		result.AddWarning("gradient.stops", "no stops; the bar will be transparent")
	}
	for i, s := range gc.Stops {
		if math.IsNaN(s.Offset) {
			result.AddError("gradient.stops", fmt.Sprintf("stop %d has no offset", i+1))
			continue
		}
		if s.Offset < 0 || s.Offset > 1 {
			result.AddWarning("gradient.stops",
				fmt.Sprintf("stop %d offset %v is outside [0, 1] and will be clamped", i+1, s.Offset))
		}
	}
	if gc.Direction != render.Clockwise && gc.Direction != render.CounterClockwise {
		result.AddError("gradient.direction", fmt.Sprintf("unknown direction: %d", gc.Direction))
	}
	if math.IsNaN(gc.Rotation) || math.IsInf(gc.Rotation, 0) {
		result.AddError("gradient.rotation", "must be a finite number")
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
// Warnings are treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
