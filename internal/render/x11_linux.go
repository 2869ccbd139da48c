//go:build linux

// This file talks to the X server for the two things a desktop dial needs:
// knowing whether a compositor will honor a transparent window, and keeping
// the dial window out of the taskbar and pager.
package render

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// DetectCompositor reports whether an EWMH compositor owns the
// _NET_WM_CM_S0 selection. Wayland sessions always composite.
func DetectCompositor() CompositorStatus {
	if isWayland() {
		return CompositorActive
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return CompositorUnknown
	}
	defer conn.Close()

	const name = "_NET_WM_CM_S0"
	atom, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return CompositorUnknown
	}
	owner, err := xproto.GetSelectionOwner(conn, atom.Atom).Reply()
	if err != nil {
		return CompositorUnknown
	}
	if owner.Owner == xproto.WindowNone {
		return CompositorInactive
	}
	return CompositorActive
}

func isWayland() bool {
	return os.Getenv("XDG_SESSION_TYPE") == "wayland" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// x11Hints holds one X connection and its interned atoms.
type x11Hints struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	atoms map[string]xproto.Atom
}

var windowHints = &x11Hints{atoms: make(map[string]xproto.Atom)}

// ApplyWindowHints adds _NET_WM_STATE_SKIP_TASKBAR and
// _NET_WM_STATE_SKIP_PAGER to the active window. It must run after the
// window is mapped. Without an X server it does nothing.
func ApplyWindowHints(skipTaskbar, skipPager bool) error {
	if !skipTaskbar && !skipPager {
		return nil
	}
	return windowHints.apply(skipTaskbar, skipPager)
}

// CloseWindowHints releases the X connection used for window hints.
func CloseWindowHints() {
	windowHints.mu.Lock()
	defer windowHints.mu.Unlock()
	if windowHints.conn != nil {
		windowHints.conn.Close()
		windowHints.conn = nil
	}
	windowHints.atoms = make(map[string]xproto.Atom)
}

func (h *x11Hints) apply(skipTaskbar, skipPager bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conn == nil {
		conn, err := xgb.NewConn()
		if err != nil {
			return nil
		}
		h.conn = conn
	}

	window, err := h.activeWindow()
	if err != nil || window == xproto.WindowNone {
		return nil
	}

	var want []string
	if skipTaskbar {
		want = append(want, "_NET_WM_STATE_SKIP_TASKBAR")
	}
	if skipPager {
		want = append(want, "_NET_WM_STATE_SKIP_PAGER")
	}

	stateAtom, err := h.atom("_NET_WM_STATE")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_STATE: %w", err)
	}
	state := h.windowState(window, stateAtom)
	for _, name := range want {
		a, err := h.atom(name)
		if err != nil {
			return fmt.Errorf("failed to intern %s: %w", name, err)
		}
		if !slices.Contains(state, a) {
			state = append(state, a)
		}
	}

	data := make([]byte, 4*len(state))
	for i, a := range state {
		xgb.Put32(data[4*i:], uint32(a))
	}
	return xproto.ChangePropertyChecked(h.conn, xproto.PropModeReplace, window,
		stateAtom, xproto.AtomAtom, 32, uint32(len(state)), data).Check()
}

func (h *x11Hints) atom(name string) (xproto.Atom, error) {
	if a, ok := h.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(h.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	h.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// activeWindow prefers _NET_ACTIVE_WINDOW and falls back to input focus.
func (h *x11Hints) activeWindow() (xproto.Window, error) {
	setup := xproto.Setup(h.conn)
	if len(setup.Roots) == 0 {
		return xproto.WindowNone, nil
	}
	root := setup.Roots[0].Root

	if active, err := h.atom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(h.conn, false, root, active, xproto.AtomWindow, 0, 1).Reply()
		if err == nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}

	focus, err := xproto.GetInputFocus(h.conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	return focus.Focus, nil
}

// windowState returns the window's current _NET_WM_STATE atoms.
func (h *x11Hints) windowState(window xproto.Window, stateAtom xproto.Atom) []xproto.Atom {
	reply, err := xproto.GetProperty(h.conn, false, window, stateAtom, xproto.AtomAtom, 0, 256).Reply()
	if err != nil {
		return nil
	}
	atoms := make([]xproto.Atom, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(reply.Value[i:])))
	}
	return atoms
}
