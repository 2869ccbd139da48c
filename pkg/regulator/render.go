//go:build !noebiten

package regulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/opd-ai/go-regulator/internal/config"
	"github.com/opd-ai/go-regulator/internal/dial"
	"github.com/opd-ai/go-regulator/internal/render"
)

// windowSupported reports whether this build can open a dial window.
const windowSupported = true

// runRenderLoop opens the dial window and blocks until it is closed or ctx
// is cancelled.
func (r *regulatorImpl) runRenderLoop(ctx context.Context) {
	r.mu.RLock()
	cfg := r.cfg
	state := r.state
	r.mu.RUnlock()

	rc := cfg.RenderConfig()
	if msg := render.TransparencyWarning(rc.Transparent, render.DetectCompositor()); msg != "" {
		r.logWarn(msg)
	}

	game := render.NewGameWithRenderer(rc, state, r.glyphsFor(cfg.Window.Font))
	game.SetDataProvider(r)
	game.SetContext(ctx)
	game.SetErrorHandler(func(err error) {
		r.notifyError(ErrorCategoryRender, SeverityWarning, err)
	})

	r.mu.Lock()
	r.game = game
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.game = nil
		r.mu.Unlock()
	}()

	// Run the Ebiten game loop (blocks until window close or context cancel)
	if err := game.Run(); err != nil && !errors.Is(err, render.ErrGameTerminated) {
		r.notifyError(ErrorCategoryRender, SeverityCritical, fmt.Errorf("render loop error: %w", err))
	}
}

// glyphsFor loads the configured font for the window, falling back to the
// embedded regular face.
func (r *regulatorImpl) glyphsFor(font string) render.GlyphDrawer {
	data, err := render.LoadFont(font)
	if err == nil {
		var tr *render.TextRenderer
		if tr, err = render.NewTextRendererWithFont(data); err == nil {
			return tr
		}
	}
	r.notifyError(ErrorCategoryIO, SeverityWarning, fmt.Errorf("font %q: %w", font, err))
	return render.NewTextRenderer()
}

// applyConfigToWindow forwards a reload to the window when it is an
// Ebiten game.
func (r *regulatorImpl) applyConfigToWindow(w window, state *dial.State, newCfg, oldCfg *config.Config) {
	if game, ok := w.(*render.Game); ok {
		r.applyConfigToGame(game, state, newCfg, oldCfg)
	}
}

// applyConfigToGame points a running window at a reloaded dial.
func (r *regulatorImpl) applyConfigToGame(game *render.Game, state *dial.State, newCfg, oldCfg *config.Config) {
	game.SetDial(state)
	game.SetConfig(newCfg.RenderConfig())
	if newCfg.Window.Font != oldCfg.Window.Font {
		game.SetGlyphDrawer(r.glyphsFor(newCfg.Window.Font))
	}
}
