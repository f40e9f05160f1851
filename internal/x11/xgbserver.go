package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/loomwm/loom/internal/geom"
)

// XGBServer is the production Server, backed by a single xgbutil
// connection. Connection setup (xgbutil.NewConn + keybind.Initialize) and
// the RandR-based Displays implementation follow this codebase's original
// X11 client; property access uses ewmh/icccm instead of hand-rolled
// InternAtom calls wherever those packages expose the property directly.
type XGBServer struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu        sync.Mutex
	grabbedKeys []grabbedKey
	ignoreMods  []uint16
}

type grabbedKey struct {
	mods    uint16
	keycode uint8
}

// Connect establishes the connection and initializes the extensions
// GrabKeys, EWMH publishing and RandR discovery all depend on.
func Connect() (*XGBServer, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	keybind.Initialize(xu)
	if err := randr.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("x11: randr init: %w", err)
	}
	return &XGBServer{xu: xu, root: xu.RootWin()}, nil
}

// Close releases the underlying connection.
func (s *XGBServer) Close() { s.xu.Conn().Close() }

// EventLoop runs xevent's dispatch loop, blocking until Quit is called.
func (s *XGBServer) EventLoop() { xevent.Main(s.xu) }

// Quit stops a running EventLoop.
func (s *XGBServer) Quit() { xevent.Quit(s.xu) }

// XUtil exposes the underlying connection; cmd/wm reads raw events from
// its Conn() and interns its own atoms through it.
func (s *XGBServer) XUtil() *xgbutil.XUtil { return s.xu }

// RootWindow returns the root window this server is managing.
func (s *XGBServer) RootWindow() xproto.Window { return s.root }

func (s *XGBServer) Displays() ([]geom.Rectangle, error) {
	resources, err := randr.GetScreenResources(s.xu.Conn(), s.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get screen resources: %w", err)
	}

	var rects []geom.Rectangle
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(s.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		rects = append(rects, geom.Rectangle{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	if len(rects) == 0 {
		return nil, fmt.Errorf("x11: no active outputs")
	}
	return rects, nil
}

func (s *XGBServer) MoveResizeWindow(w Window, r geom.Rectangle) error {
	win := xwindow.New(s.xu, xproto.Window(w))
	win.MoveResize(r.X, r.Y, r.Width, r.Height)
	return nil
}

func (s *XGBServer) MapWindow(w Window) error {
	return xproto.MapWindowChecked(s.xu.Conn(), xproto.Window(w)).Check()
}

func (s *XGBServer) UnmapWindow(w Window) error {
	return xproto.UnmapWindowChecked(s.xu.Conn(), xproto.Window(w)).Check()
}

// RestackWindows raises each window in order, so order[len-1] ends up on
// top. Operations passes tiled windows in layout order, then floating
// windows.
func (s *XGBServer) RestackWindows(order []Window) error {
	for _, w := range order {
		xproto.ConfigureWindow(s.xu.Conn(), xproto.Window(w),
			xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	}
	return nil
}

func (s *XGBServer) SetInputFocus(w Window) error {
	return xproto.SetInputFocusChecked(s.xu.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(w), xproto.TimeCurrentTime).Check()
}

func (s *XGBServer) FocusRoot() error {
	return xproto.SetInputFocusChecked(s.xu.Conn(), xproto.InputFocusPointerRoot,
		s.root, xproto.TimeCurrentTime).Check()
}

func (s *XGBServer) SetBorderWidth(w Window, px int) error {
	return xproto.ConfigureWindowChecked(s.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowBorderWidth, []uint32{uint32(px)}).Check()
}

func (s *XGBServer) SetBorderColor(w Window, rgb uint32) error {
	return xproto.ChangeWindowAttributesChecked(s.xu.Conn(), xproto.Window(w),
		xproto.CwBorderPixel, []uint32{rgb}).Check()
}

func (s *XGBServer) SelectInput(w Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(s.xu.Conn(), xproto.Window(w),
		xproto.CwEventMask, []uint32{mask}).Check()
}

// GetGeometry returns a window's current on-screen rectangle as the
// server itself reports it, the real placement a synthetic
// ConfigureNotify must echo rather than whatever a client most recently
// requested.
func (s *XGBServer) GetGeometry(w Window) (geom.Rectangle, bool) {
	reply, err := xproto.GetGeometry(s.xu.Conn(), xproto.Drawable(w)).Reply()
	if err != nil {
		return geom.Rectangle{}, false
	}
	return geom.Rectangle{
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
	}, true
}

func (s *XGBServer) GetNormalHints(w Window) (SizeHints, bool) {
	hints, err := icccm.WmNormalHintsGet(s.xu, xproto.Window(w))
	if err != nil {
		return SizeHints{}, false
	}
	out := SizeHints{}
	if hints.Flags&icccm.SizeHintPMinSize != 0 {
		out.HasMin = true
		out.MinWidth, out.MinHeight = int(hints.MinWidth), int(hints.MinHeight)
	}
	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		out.HasMax = true
		out.MaxWidth, out.MaxHeight = int(hints.MaxWidth), int(hints.MaxHeight)
	}
	if hints.Flags&icccm.SizeHintPResizeInc != 0 {
		out.HasInc = true
		out.WidthInc, out.HeightInc = int(hints.WidthInc), int(hints.HeightInc)
	}
	if hints.Flags&icccm.SizeHintPBaseSize != 0 {
		out.HasBase = true
		out.BaseWidth, out.BaseHeight = int(hints.BaseWidth), int(hints.BaseHeight)
	}
	if hints.Flags&icccm.SizeHintPAspect != 0 {
		out.HasAspect = true
		out.MinAspectN, out.MinAspectD = int(hints.MinAspectNum), int(hints.MinAspectDen)
		out.MaxAspectN, out.MaxAspectD = int(hints.MaxAspectNum), int(hints.MaxAspectDen)
	}
	return out, true
}

func (s *XGBServer) GetTransientFor(w Window) (Window, bool) {
	t, err := icccm.WmTransientForGet(s.xu, xproto.Window(w))
	if err != nil || t == 0 {
		return 0, false
	}
	return Window(t), true
}

func (s *XGBServer) SupportsDeleteWindow(w Window) bool {
	protocols, err := icccm.WmProtocolsGet(s.xu, xproto.Window(w))
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

func (s *XGBServer) SetWMState(w Window, state int) error {
	return icccm.WmStateSet(s.xu, xproto.Window(w), &icccm.WmState{State: uint(state)})
}

func (s *XGBServer) SendDeleteWindow(w Window) error {
	protoAtom, err := xprop.Atom(s.xu, "WM_PROTOCOLS", false)
	if err != nil {
		return err
	}
	deleteAtom, err := xprop.Atom(s.xu, "WM_DELETE_WINDOW", false)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(w),
		Type:   protoAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(s.xu.Conn(), false, xproto.Window(w), xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (s *XGBServer) KillClient(w Window) error {
	return xproto.KillClientChecked(s.xu.Conn(), uint32(w)).Check()
}

func (s *XGBServer) SendSyntheticConfigure(w Window, r geom.Rectangle, borderWidth int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            xproto.Window(w),
		Window:           xproto.Window(w),
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      uint16(borderWidth),
		AboveSibling:     0,
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(s.xu.Conn(), false, xproto.Window(w),
		xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (s *XGBServer) SelectRootInput(mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(s.xu.Conn(), s.root,
		xproto.CwEventMask, []uint32{mask}).Check()
}

func (s *XGBServer) GrabKey(mods uint16, keycode uint8) error {
	err := xproto.GrabKeyChecked(s.xu.Conn(), true, s.root, mods, xproto.Keycode(keycode),
		xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.grabbedKeys = append(s.grabbedKeys, grabbedKey{mods: mods, keycode: keycode})
	s.mu.Unlock()
	return nil
}

func (s *XGBServer) UngrabAllKeys() error {
	s.mu.Lock()
	keys := append([]grabbedKey{}, s.grabbedKeys...)
	s.grabbedKeys = nil
	s.mu.Unlock()
	for _, k := range keys {
		if err := xproto.UngrabKeyChecked(s.xu.Conn(), xproto.Keycode(k.keycode), s.root, k.mods).Check(); err != nil {
			return err
		}
	}
	return nil
}

func (s *XGBServer) GrabButton(mods uint16, button uint8) error {
	return xproto.GrabButtonChecked(s.xu.Conn(), false, s.root,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskButtonMotion,
		xproto.GrabModeAsync, xproto.GrabModeAsync, s.root, 0,
		button, mods).Check()
}

func (s *XGBServer) ReplayPointer() error {
	return xproto.AllowEventsChecked(s.xu.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime).Check()
}

func (s *XGBServer) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(s.xu.Conn(), s.root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// PublishEWMHState updates the panel-facing EWMH properties (desktop
// names/count/current-index and the managed client list) so external
// pagers and bars reflect this state without ever needing to read it
// back through Server.
func (s *XGBServer) PublishEWMHState(tags []string, currentIndex int, clients []Window) error {
	if err := ewmh.DesktopNamesSet(s.xu, tags); err != nil {
		return err
	}
	if err := ewmh.NumberOfDesktopsSet(s.xu, uint(len(tags))); err != nil {
		return err
	}
	if err := ewmh.CurrentDesktopSet(s.xu, uint(currentIndex)); err != nil {
		return err
	}
	xclients := make([]xproto.Window, len(clients))
	for i, c := range clients {
		xclients[i] = xproto.Window(c)
	}
	return ewmh.ClientListSet(s.xu, xclients)
}

// AcquireWMSelection implements the ICCCM window-manager handover: it
// takes ownership of WM_Sn for the given screen and, if a previous owner
// exists, waits for it to relinquish the selection before returning.
func (s *XGBServer) AcquireWMSelection(screen int) error {
	name := fmt.Sprintf("WM_S%d", screen)
	atom, err := xprop.Atom(s.xu, name, false)
	if err != nil {
		return err
	}

	prevOwner, err := xproto.GetSelectionOwner(s.xu.Conn(), atom).Reply()
	if err != nil {
		return err
	}

	if err := xproto.SetSelectionOwnerChecked(s.xu.Conn(), s.root, atom, xproto.TimeCurrentTime).Check(); err != nil {
		return err
	}

	if prevOwner.Owner != 0 {
		if err := waitForDestroy(s.xu, prevOwner.Owner); err != nil {
			return fmt.Errorf("x11: previous window manager did not release %s: %w", name, err)
		}
	}

	managerAtom, err := xprop.Atom(s.xu, "MANAGER", false)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: s.root,
		Type:   managerAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(xproto.TimeCurrentTime), uint32(atom), uint32(s.root), 0, 0}),
	}
	return xproto.SendEventChecked(s.xu.Conn(), false, s.root, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (s *XGBServer) ReleaseWMSelection(screen int) error {
	name := fmt.Sprintf("WM_S%d", screen)
	atom, err := xprop.Atom(s.xu, name, false)
	if err != nil {
		return err
	}
	return xproto.SetSelectionOwnerChecked(s.xu.Conn(), 0, atom, xproto.TimeCurrentTime).Check()
}

func (s *XGBServer) SelectionOwnerExists(screen int) (Window, bool, error) {
	name := fmt.Sprintf("WM_S%d", screen)
	atom, err := xprop.Atom(s.xu, name, false)
	if err != nil {
		return 0, false, err
	}
	reply, err := xproto.GetSelectionOwner(s.xu.Conn(), atom).Reply()
	if err != nil {
		return 0, false, err
	}
	return Window(reply.Owner), reply.Owner != 0, nil
}

func (s *XGBServer) KeysymToKeycodes(keysym string) []uint8 {
	codes := keybind.StrToKeycodes(s.xu, keysym)
	out := make([]uint8, len(codes))
	for i, c := range codes {
		out[i] = uint8(c)
	}
	return out
}

func (s *XGBServer) ModifierForKeycode(keycode uint8) uint16 {
	return keybind.ModGet(s.xu, xproto.Keycode(keycode))
}

// waitForDestroy blocks until owner is destroyed, the mechanism ICCCM
// window-manager replacement relies on to know the outgoing manager has
// finished tearing down before the new one starts managing windows.
func waitForDestroy(xu *xgbutil.XUtil, owner xproto.Window) error {
	if err := xproto.ChangeWindowAttributesChecked(xu.Conn(), owner,
		xproto.CwEventMask, []uint32{xproto.EventMaskStructureNotify}).Check(); err != nil {
		return nil
	}
	for {
		ev, err := xu.Conn().WaitForEvent()
		if ev == nil && err == nil {
			return fmt.Errorf("connection closed")
		}
		if d, ok := ev.(xproto.DestroyNotifyEvent); ok && d.Window == owner {
			return nil
		}
	}
}
