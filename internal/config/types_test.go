package config

import (
	"image/color"
	"testing"
	"time"

	"github.com/opd-ai/go-regulator/internal/dial"
	"github.com/opd-ai/go-regulator/internal/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dial.Min != 0 || cfg.Dial.Max != 40 {
		t.Errorf("bounds = [%v, %v], want [0, 40]", cfg.Dial.Min, cfg.Dial.Max)
	}
	if cfg.Dial.SweepStart != -130 || cfg.Dial.SweepRange != 280 {
		t.Errorf("sweep = %v/%v, want -130/280", cfg.Dial.SweepStart, cfg.Dial.SweepRange)
	}
	if cfg.Dial.Unit != dial.DefaultUnit {
		t.Errorf("Unit = %q, want %q", cfg.Dial.Unit, dial.DefaultUnit)
	}
	if cfg.Window.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", cfg.Window.Size, DefaultSize)
	}
	if cfg.Window.UpdateInterval != DefaultUpdateInterval {
		t.Errorf("UpdateInterval = %v, want %v", cfg.Window.UpdateInterval, DefaultUpdateInterval)
	}
	if len(cfg.Gradient.Stops) != 5 {
		t.Errorf("expected 5 default stops, got %d", len(cfg.Gradient.Stops))
	}
	if cfg.Gradient.Direction != render.Clockwise {
		t.Errorf("Direction = %v, want clockwise", cfg.Gradient.Direction)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultConfigStopsAreCopies(t *testing.T) {
	a := DefaultConfig()
	a.Gradient.Stops[0].Offset = 0.9

	b := DefaultConfig()
	if b.Gradient.Stops[0].Offset != 0 {
		t.Error("DefaultConfig shares its stop slice between calls")
	}
}

func TestDefaultSubConfigs(t *testing.T) {
	if DefaultDialConfig() != DefaultConfig().Dial {
		t.Error("DefaultDialConfig differs from DefaultConfig().Dial")
	}
	w := DefaultWindowConfig()
	if w.Title != DefaultTitle || w.Font != render.DefaultFontName {
		t.Errorf("unexpected window defaults: %+v", w)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"max below min", func(c *Config) { c.Dial.Max = -1 }, true},
		{"zero sweep", func(c *Config) { c.Dial.SweepRange = 0 }, true},
		{"zero size", func(c *Config) { c.Window.Size = 0 }, true},
		{"zero interval", func(c *Config) { c.Window.UpdateInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWindowHintString(t *testing.T) {
	tests := []struct {
		hint     WindowHint
		expected string
	}{
		{WindowHintSkipTaskbar, "skip_taskbar"},
		{WindowHintSkipPager, "skip_pager"},
		{WindowHint(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.hint.String(); got != tt.expected {
			t.Errorf("WindowHint(%d).String() = %q, want %q", tt.hint, got, tt.expected)
		}
	}
}

func TestParseWindowHint(t *testing.T) {
	tests := []struct {
		input    string
		expected WindowHint
		wantErr  bool
	}{
		{"skip_taskbar", WindowHintSkipTaskbar, false},
		{" SKIP_PAGER ", WindowHintSkipPager, false},
		{"sticky", WindowHintSkipTaskbar, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWindowHint(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindowHint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseWindowHint(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWindowConfigHasHint(t *testing.T) {
	wc := WindowConfig{Hints: []WindowHint{WindowHintSkipPager}}
	if !wc.HasHint(WindowHintSkipPager) {
		t.Error("expected skip_pager hint")
	}
	if wc.HasHint(WindowHintSkipTaskbar) {
		t.Error("unexpected skip_taskbar hint")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected render.Direction
		wantErr  bool
	}{
		{"clockwise", render.Clockwise, false},
		{"CW", render.Clockwise, false},
		{"", render.Clockwise, false},
		{"counter_clockwise", render.CounterClockwise, false},
		{"counterclockwise", render.CounterClockwise, false},
		{"ccw", render.CounterClockwise, false},
		{"sideways", render.Clockwise, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Title = "Thermostat"
	cfg.Window.Size = 200
	cfg.Window.Height = 300
	cfg.Window.UpdateInterval = 100 * time.Millisecond
	cfg.Window.Transparent = true
	cfg.Window.Hints = []WindowHint{WindowHintSkipTaskbar}
	cfg.Window.FaceColour = color.NRGBA{R: 1, G: 2, B: 3, A: 255}

	rc := cfg.RenderConfig()

	if rc.Width != 200 || rc.Height != 300 {
		t.Errorf("window = %dx%d, want 200x300", rc.Width, rc.Height)
	}
	if rc.DialSize != 200 {
		t.Errorf("DialSize = %d, want 200", rc.DialSize)
	}
	if rc.Title != "Thermostat" || rc.UpdateInterval != 100*time.Millisecond {
		t.Errorf("unexpected render config: %+v", rc)
	}
	if !rc.Transparent || !rc.SkipTaskbar || rc.SkipPager {
		t.Errorf("flags = transparent %v taskbar %v pager %v", rc.Transparent, rc.SkipTaskbar, rc.SkipPager)
	}
	if rc.FaceColor != cfg.Window.FaceColour {
		t.Errorf("FaceColor = %v, want %v", rc.FaceColor, cfg.Window.FaceColour)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("render config should validate: %v", err)
	}
}
