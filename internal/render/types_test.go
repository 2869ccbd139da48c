package render

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Width != 250 || config.Height != 250 {
		t.Errorf("size = %dx%d, want 250x250", config.Width, config.Height)
	}
	if config.Title != "go-regulator" {
		t.Errorf("Title = %q, want %q", config.Title, "go-regulator")
	}
	if config.UpdateInterval != 50*time.Millisecond {
		t.Errorf("UpdateInterval = %v, want 50ms", config.UpdateInterval)
	}
	if config.FaceColor != DefaultIndicatorColor {
		t.Errorf("FaceColor = %v, want %v", config.FaceColor, DefaultIndicatorColor)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -1 }, true},
		{"negative dial size", func(c *Config) { c.DialSize = -5 }, true},
		{"explicit dial size", func(c *Config) { c.DialSize = 100 }, false},
		{"zero interval", func(c *Config) { c.UpdateInterval = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDialSize(t *testing.T) {
	tests := []struct {
		width, height, dial, want int
	}{
		{250, 250, 0, 250},
		{400, 300, 0, 300},
		{200, 500, 0, 200},
		{400, 300, 120, 120},
	}
	for _, tt := range tests {
		c := Config{Width: tt.width, Height: tt.height, DialSize: tt.dial}
		if got := c.dialSize(); got != tt.want {
			t.Errorf("dialSize(%dx%d, %d) = %d, want %d", tt.width, tt.height, tt.dial, got, tt.want)
		}
	}
}
