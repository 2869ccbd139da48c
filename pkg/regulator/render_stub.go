//go:build noebiten

package regulator

import (
	"context"

	"github.com/opd-ai/go-regulator/internal/config"
	"github.com/opd-ai/go-regulator/internal/dial"
)

// windowSupported reports whether this build can open a dial window.
const windowSupported = false

// runRenderLoop drives the dial from a ticker in noebiten builds, which
// have no window.
func (r *regulatorImpl) runRenderLoop(ctx context.Context) {
	r.logWarn("built without a window backend; running headless")
	r.runHeadless(ctx)
}

// applyConfigToWindow is never reached in noebiten builds.
func (r *regulatorImpl) applyConfigToWindow(window, *dial.State, *config.Config, *config.Config) {
}
