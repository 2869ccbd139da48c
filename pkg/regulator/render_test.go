//go:build !noebiten

package regulator

import (
	"testing"

	"github.com/opd-ai/go-regulator/internal/config"
	"github.com/opd-ai/go-regulator/internal/render"
)

func TestGlyphsForFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		font       string
		wantErrors int64
	}{
		{"embedded default", "", 0},
		{"embedded by name", render.DefaultFontName, 0},
		{"missing file", "/nonexistent/dial.ttf", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegulator(t, thermostatLua, nil)
			if r.glyphsFor(tt.font) == nil {
				t.Fatal("glyphsFor() returned nil")
			}
			if got := r.Errors().Total(ErrorCategoryIO); got != tt.wantErrors {
				t.Errorf("io errors = %d, want %d", got, tt.wantErrors)
			}
		})
	}
}

func TestApplyConfigToGame(t *testing.T) {
	r := newTestRegulator(t, thermostatLua, nil)
	oldCfg := r.Config()
	game := render.NewGameWithRenderer(oldCfg.RenderConfig(), r.State(), render.NewTextRenderer())

	newCfg := oldCfg
	newCfg.Window.Size = 320
	newCfg.Window.Transparent = true
	newCfg.Window.Hints = []config.WindowHint{config.WindowHintSkipPager}
	newCfg.Dial.Max = 25
	state := buildState(&newCfg)

	r.applyConfigToGame(game, state, &newCfg, &oldCfg)

	got := game.Config()
	if got.Width != 320 || got.DialSize != 320 || !got.Transparent || !got.SkipPager {
		t.Errorf("game config = %+v, reload not applied", got)
	}
	if game.Dragging() {
		t.Error("swapping the dial should end a drag")
	}
	if r.Errors().Total(ErrorCategoryIO) != 0 {
		t.Error("unchanged font should not be reloaded")
	}
}

func TestApplyConfigToGameFontChange(t *testing.T) {
	r := newTestRegulator(t, thermostatLua, nil)
	oldCfg := r.Config()
	game := render.NewGameWithRenderer(oldCfg.RenderConfig(), r.State(), render.NewTextRenderer())

	newCfg := oldCfg
	newCfg.Window.Font = "/nonexistent/other.ttf"
	r.applyConfigToGame(game, r.State(), &newCfg, &oldCfg)

	if got := r.Errors().Total(ErrorCategoryIO); got != 1 {
		t.Errorf("io errors = %d, want 1 for the missing font", got)
	}
}
