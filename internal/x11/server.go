// Package x11 is the X server client surface the rest of this repository
// is built against: a Server interface narrow enough for Operations and
// the event reducer to run under go test without a display, and a
// concrete implementation (XGBServer) backed by
// github.com/BurntSushi/xgb and github.com/BurntSushi/xgbutil — the same
// stack this codebase's reference X11 client already uses for connection
// setup, RandR monitor discovery and EWMH property access.
package x11

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/wintype"
)

// Window is the handle every Server method operates on.
type Window = wintype.Window

// SizeHints mirrors the fields of WM_NORMAL_HINTS that applySizeHints and
// the float-on-manage decision need. Zero fields mean "unset".
type SizeHints struct {
	MinWidth, MinHeight     int
	MaxWidth, MaxHeight     int
	WidthInc, HeightInc     int
	BaseWidth, BaseHeight   int
	MinAspectN, MinAspectD  int
	MaxAspectN, MaxAspectD  int
	HasMin, HasMax, HasInc  bool
	HasBase, HasAspect      bool
}

// FixedSize reports whether hints pin a window to a single size, the
// manage-time signal that a window should float rather than tile.
func (h SizeHints) FixedSize() bool {
	return h.HasMin && h.HasMax &&
		h.MinWidth == h.MaxWidth && h.MinHeight == h.MaxHeight &&
		h.MinWidth > 0
}

// Server abstracts every server round-trip Operations, the resource
// harness and the event reducer need to make. Production code talks to
// XGBServer; tests talk to Fake.
type Server interface {
	// Displays returns the current physical outputs, as reported by
	// RandR, in a stable order.
	Displays() ([]geom.Rectangle, error)

	// Window geometry and visibility.
	MoveResizeWindow(w Window, r geom.Rectangle) error
	MapWindow(w Window) error
	UnmapWindow(w Window) error
	RestackWindows(order []Window) error
	SetInputFocus(w Window) error
	FocusRoot() error
	SetBorderWidth(w Window, px int) error
	SetBorderColor(w Window, rgb uint32) error
	SelectInput(w Window, mask uint32) error

	// Client properties.
	GetGeometry(w Window) (geom.Rectangle, bool)
	GetNormalHints(w Window) (SizeHints, bool)
	GetTransientFor(w Window) (Window, bool)
	SupportsDeleteWindow(w Window) bool
	SetWMState(w Window, state int) error
	SendDeleteWindow(w Window) error
	KillClient(w Window) error
	SendSyntheticConfigure(w Window, r geom.Rectangle, borderWidth int) error

	// Root-window bookkeeping.
	SelectRootInput(mask uint32) error
	GrabKey(mods uint16, keycode uint8) error
	UngrabAllKeys() error
	GrabButton(mods uint16, button uint8) error
	ReplayPointer() error
	QueryPointer() (x, y int, err error)

	// EWMH publishing for panel/pager compatibility; the reducer and
	// Operations never read these back, they only write them.
	PublishEWMHState(tags []string, currentIndex int, clients []Window) error

	// ICCCM window-manager handover.
	AcquireWMSelection(screen int) error
	ReleaseWMSelection(screen int) error
	SelectionOwnerExists(screen int) (Window, bool, error)

	// KeysymToKeycodes resolves a textual keysym (e.g. "Num_Lock") to the
	// keycodes currently bound to it, used to build the "clean modifiers"
	// ignore set.
	KeysymToKeycodes(keysym string) []uint8
	ModifierForKeycode(keycode uint8) uint16
}
