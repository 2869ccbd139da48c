// This file implements the Lua configuration parser.

package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-regulator/internal/render"
)

// ErrLuaScript marks errors raised while compiling or running the Lua
// script itself, as opposed to errors in the values it produced.
var ErrLuaScript = errors.New("lua script error")

// LuaConfigParser parses Lua configuration files. It uses the Golua runtime
// to execute the script and reads the regulator.config and regulator.stops
// tables it leaves behind.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print
// output goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse executes content and extracts the configuration.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initRegulatorGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w: %w", ErrLuaScript, err)
	}

	// Execute with resource limits
	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024, // 50 MB
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err := rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w: %w", ErrLuaScript, err)
	}

	return p.extractConfig()
}

// initRegulatorGlobal installs an empty regulator table.
func (p *LuaConfigParser) initRegulatorGlobal() {
	regulator := rt.NewTable()
	regulator.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("regulator"), rt.TableValue(regulator))
}

// extractConfig reads the regulator global over the defaults.
func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	regVal := p.runtime.GlobalEnv().Get(rt.StringValue("regulator"))
	if regVal == rt.NilValue {
		return &cfg, nil
	}
	regulator, ok := regVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("regulator is not a table")
	}

	if configTable, ok := regulator.Get(rt.StringValue("config")).TryTable(); ok {
		if err := p.extractConfigTable(&cfg, configTable); err != nil {
			return nil, err
		}
	}

	stopsVal := regulator.Get(rt.StringValue("stops"))
	if stopsVal != rt.NilValue {
		stopsTable, ok := stopsVal.TryTable()
		if !ok {
			return nil, fmt.Errorf("regulator.stops is not a table")
		}
		stops, err := extractStops(stopsTable)
		if err != nil {
			return nil, err
		}
		cfg.Gradient.Stops = stops
	}

	return &cfg, nil
}

// extractConfigTable extracts values from the regulator.config table.
func (p *LuaConfigParser) extractConfigTable(cfg *Config, table *rt.Table) error {
	floats := []struct {
		key    string
		target *float64
	}{
		{"min_value", &cfg.Dial.Min},
		{"max_value", &cfg.Dial.Max},
		{"target_value", &cfg.Dial.Target},
		{"current_value", &cfg.Dial.Current},
		{"sweep_start", &cfg.Dial.SweepStart},
		{"sweep_range", &cfg.Dial.SweepRange},
		{"dead_zone_clamp", &cfg.Dial.DeadZoneClamp},
		{"dead_zone_snap", &cfg.Dial.DeadZoneSnap},
		{"adjust_rate", &cfg.Dial.AdjustRate},
		{"gradient_rotation", &cfg.Gradient.Rotation},
	}
	for _, f := range floats {
		if val := getTableFloat(table, f.key); val != nil {
			*f.target = *val
		}
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"decimals", &cfg.Dial.Decimals},
		{"size", &cfg.Window.Size},
		{"width", &cfg.Window.Width},
		{"height", &cfg.Window.Height},
	}
	for _, f := range ints {
		if val := getTableInt(table, f.key); val != nil {
			*f.target = *val
		}
	}

	if val := getTableFloat(table, "update_interval"); val != nil {
		cfg.Window.UpdateInterval = time.Duration(*val * float64(time.Second))
	}
	if val := getTableBool(table, "transparent"); val != nil {
		cfg.Window.Transparent = *val
	}
	if val := getTableString(table, "unit"); val != nil {
		cfg.Dial.Unit = *val
	}
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableString(table, "font"); val != nil {
		cfg.Window.Font = *val
	}

	if val := getTableString(table, "gradient_direction"); val != nil {
		d, err := ParseDirection(*val)
		if err != nil {
			return fmt.Errorf("invalid gradient_direction: %w", err)
		}
		cfg.Gradient.Direction = d
	}

	// Window hints (comma-separated string)
	if val := getTableString(table, "window_hints"); val != nil {
		hints, err := parseWindowHints(*val)
		if err != nil {
			return fmt.Errorf("invalid window_hints: %w", err)
		}
		cfg.Window.Hints = hints
	}

	return p.extractColors(cfg, table)
}

// extractColors extracts color configuration from the table.
func (p *LuaConfigParser) extractColors(cfg *Config, table *rt.Table) error {
	colorFields := []struct {
		key    string
		target *color.NRGBA
	}{
		{"background_color", &cfg.Window.BackgroundColour},
		{"face_color", &cfg.Window.FaceColour},
		{"text_color", &cfg.Window.TextColour},
	}

	for _, cf := range colorFields {
		if val := getTableString(table, cf.key); val != nil {
			c, err := render.ParseColor(*val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", cf.key, err)
			}
			*cf.target = c
		}
	}

	return nil
}

// extractStops reads a list of stops. Each entry is either positional,
// {0.5, "red"}, or named, {offset = 0.5, color = "red"}.
func extractStops(table *rt.Table) ([]render.ColorStop, error) {
	var stops []render.ColorStop
	for i := int64(1); ; i++ {
		entry := table.Get(rt.IntValue(i))
		if entry == rt.NilValue {
			break
		}
		t, ok := entry.TryTable()
		if !ok {
			return nil, fmt.Errorf("regulator.stops[%d] is not a table", i)
		}

		offset := getTableFloat(t, "offset")
		if offset == nil {
			offset = getIndexFloat(t, 1)
		}
		colorName := getTableString(t, "color")
		if colorName == nil {
			if s, ok := t.Get(rt.IntValue(2)).TryString(); ok {
				colorName = &s
			}
		}
		if offset == nil || colorName == nil {
			return nil, fmt.Errorf("regulator.stops[%d] needs an offset and a color", i)
		}

		c, err := render.ParseColor(*colorName)
		if err != nil {
			return nil, fmt.Errorf("regulator.stops[%d]: %w", i, err)
		}
		stops = append(stops, render.ColorStop{Offset: *offset, Color: c})
	}
	return stops, nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	// Handle string "true"/"false" for compatibility
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	return valueFloat(table.Get(rt.StringValue(key)))
}

// getIndexFloat retrieves a float64 from an array slot of a Lua table.
func getIndexFloat(table *rt.Table, i int64) *float64 {
	return valueFloat(table.Get(rt.IntValue(i)))
}

func valueFloat(val rt.Value) *float64 {
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}

	// Try int conversion
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	// Try float conversion (truncate)
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}

// parseBool parses a boolean value from common string representations.
// Accepts: yes, no, true, false, 1, 0
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// parseWindowHints parses a comma-separated list of window hints.
func parseWindowHints(s string) ([]WindowHint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	hints := make([]WindowHint, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		hint, err := ParseWindowHint(part)
		if err != nil {
			return nil, err
		}
		hints = append(hints, hint)
	}

	return hints, nil
}
