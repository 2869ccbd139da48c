//go:build !noebiten

package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"seehuhn.de/go/geom/vec"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// PointerInput is the pointer state sampled once per tick.
type PointerInput struct {
	Pressed bool
	X, Y    int
	WheelY  float64
}

// ebitenInput reads the mouse, falling back to the first touch.
func ebitenInput() PointerInput {
	var in PointerInput
	in.X, in.Y = ebiten.CursorPosition()
	in.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if !in.Pressed {
		if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
			in.X, in.Y = ebiten.TouchPosition(ids[0])
			in.Pressed = true
		}
	}
	_, in.WheelY = ebiten.Wheel()
	return in
}

// Game implements ebiten.Game and turns a Dial by pointer drag and wheel.
type Game struct {
	config       Config
	dial         Dial
	widget       *DialWidget
	background   BackgroundRenderer
	stats        *FrameStats
	dataProvider DataProvider
	errorHandler ErrorHandler
	input        func() PointerInput
	lastUpdate   time.Time
	dragging     bool
	hintsApplied bool
	mu           sync.RWMutex
	running      bool
	ctx          context.Context
}

// NewGame creates a new Game drawing dial with the provided configuration.
func NewGame(config Config, dial Dial) *Game {
	return NewGameWithRenderer(config, dial, NewTextRenderer())
}

// NewGameWithRenderer creates a new Game with a custom text drawer.
// This is useful for testing.
func NewGameWithRenderer(config Config, dial Dial, glyphs GlyphDrawer) *Game {
	g := &Game{
		config:       config,
		dial:         dial,
		widget:       NewDialWidget(0, 0, config.dialSize(), glyphs),
		background:   newBackground(config),
		stats:        NewFrameStats(time.Second),
		errorHandler: DefaultErrorHandler,
		input:        ebitenInput,
		lastUpdate:   time.Now(),
	}
	g.placeWidget()
	return g
}

// placeWidget centers the dial in the window.
func (g *Game) placeWidget() {
	size := g.config.dialSize()
	g.widget.SetSize(size)
	g.widget.SetPosition(float64(g.config.Width-size)/2, float64(g.config.Height-size)/2)
}

// SetDial replaces the dial being drawn and ends any drag in progress.
func (g *Game) SetDial(dial Dial) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dial = dial
	g.dragging = false
}

// SetGlyphDrawer replaces the text drawer, for example after a font change.
func (g *Game) SetGlyphDrawer(glyphs GlyphDrawer) {
	g.widget.SetGlyphs(glyphs)
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetDataProvider sets the provider advanced every UpdateInterval.
func (g *Game) SetDataProvider(dp DataProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dataProvider = dp
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// setInput replaces the pointer source.
func (g *Game) setInput(input func() PointerInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = input
}

// Dragging reports whether a pointer drag is turning the dial.
func (g *Game) Dragging() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dragging
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Check for context cancellation (used for programmatic shutdown)
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	if g.running && !g.hintsApplied {
		g.hintsApplied = true
		if err := ApplyWindowHints(g.config.SkipTaskbar, g.config.SkipPager); err != nil && g.errorHandler != nil {
			g.errorHandler(fmt.Errorf("failed to apply window hints: %w", err))
		}
	}

	if g.dial != nil && g.input != nil {
		g.handlePointer(g.input())
	}

	if g.dataProvider != nil && time.Since(g.lastUpdate) >= g.config.UpdateInterval {
		if err := g.dataProvider.Update(); err != nil {
			if g.errorHandler != nil {
				g.errorHandler(err)
			}
		}
		g.lastUpdate = time.Now()
	}

	return nil
}

// handlePointer starts a drag on a press over the dial, follows it while
// held and steps the target one Step per wheel notch.
func (g *Game) handlePointer(in PointerInput) {
	p := vec.Vec2{X: float64(in.X), Y: float64(in.Y)}
	switch {
	case !in.Pressed:
		g.dragging = false
	case !g.dragging && g.widget.Contains(p):
		g.dragging = true
	}
	if g.dragging {
		local, center := g.widget.ToLocal(p)
		g.dial.SetTargetFromPoint(local, center)
	}

	if in.WheelY != 0 && g.widget.Contains(p) {
		g.dial.SetTarget(g.dial.Target() + in.WheelY*g.dial.Step())
	}
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.background.Draw(screen)
	if g.dial == nil {
		return
	}

	start := time.Now()
	f := g.dial.Frame(g.widget.Size())
	f.Background = g.config.FaceColor
	f.TextColor = g.config.TextColor
	g.widget.Draw(screen, f)
	g.stats.Record(time.Since(start))
}

// FrameStats returns the draw timing statistics.
func (g *Game) FrameStats() *FrameStats {
	return g.stats
}

// Layout implements ebiten.Game.Layout.
// It returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration in-place.
// This allows hot-reloading of configuration without stopping the game loop.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.background = newBackground(config)
	g.placeWidget()
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (g *Game) Run() error {
	cfg := g.Config()
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: cfg.Transparent})

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
	CloseWindowHints()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
