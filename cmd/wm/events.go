package main

import (
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/reducer"
	"github.com/loomwm/loom/internal/x11"
)

// runEventLoop reads raw events straight off the connection and
// translates each into a reducer.Input before handing it to HandleEvent,
// the same WaitForEvent-plus-type-switch shape a minimal X11 window
// manager's main loop takes, kept here so internal/reducer never needs a
// live connection to be tested.
func runEventLoop(server *x11.XGBServer, r *reducer.Reducer, restartAtom xproto.Atom, logger *slog.Logger, restart func()) {
	conn := server.XUtil().Conn()
	root := server.RootWindow()

	for {
		raw, err := conn.WaitForEvent()
		if raw == nil && err == nil {
			logger.Error("X connection closed")
			return
		}
		if err != nil {
			logger.Warn("wait for event", "error", err)
			continue
		}

		input, ok := translateEvent(conn, root, restartAtom, raw)
		if !ok {
			continue
		}

		if err := r.HandleEvent(input); err != nil {
			if _, isRestart := err.(reducer.ErrRestart); isRestart {
				restart()
				continue
			}
			logger.Warn("handle event failed", "error", err)
		}
	}
}

// translateEvent maps one concrete xgb event type to a reducer.Input.
// Event kinds the reducer has no use for (CreateNotify, ReparentNotify,
// MapNotify, LeaveNotify, non-root ConfigureNotify) are dropped here.
func translateEvent(conn *xgb.Conn, root xproto.Window, restartAtom xproto.Atom, raw xgb.Event) (reducer.Input, bool) {
	switch e := raw.(type) {
	case xproto.KeyPressEvent:
		return reducer.Input{
			Kind:    reducer.KeyPress,
			Mods:    e.State,
			Keycode: uint8(e.Detail),
		}, true

	case xproto.MapRequestEvent:
		input := reducer.Input{Kind: reducer.MapRequest, Window: reducer.Window(e.Window)}
		if attrs, err := xproto.GetWindowAttributes(conn, e.Window).Reply(); err == nil {
			input.OverrideRedirect = attrs.OverrideRedirect
		}
		return input, true

	case xproto.DestroyNotifyEvent:
		return reducer.Input{Kind: reducer.DestroyNotify, Window: reducer.Window(e.Window)}, true

	case xproto.UnmapNotifyEvent:
		// The wire send-event bit isn't exposed on this typed event, so
		// Synthetic is left false; ops.WaitingUnmap covers the ordinary
		// manage/unmanage race on its own.
		return reducer.Input{Kind: reducer.UnmapNotify, Window: reducer.Window(e.Window)}, true

	case xproto.ConfigureRequestEvent:
		return reducer.Input{
			Kind:   reducer.ConfigureRequest,
			Window: reducer.Window(e.Window),
			Rect: geom.Rectangle{
				X:      int(e.X),
				Y:      int(e.Y),
				Width:  int(e.Width),
				Height: int(e.Height),
			},
		}, true

	case xproto.ConfigureNotifyEvent:
		if e.Window != root {
			return reducer.Input{}, false
		}
		return reducer.Input{Kind: reducer.ConfigureNotifyRoot}, true

	case xproto.MappingNotifyEvent:
		return reducer.Input{Kind: reducer.MappingNotify}, true

	case xproto.ButtonPressEvent:
		return reducer.Input{
			Kind:   reducer.ButtonPressRoot,
			Window: reducer.Window(e.Child),
			Mods:   e.State,
			Button: uint8(e.Detail),
			X:      int(e.RootX),
			Y:      int(e.RootY),
		}, true

	case xproto.ButtonReleaseEvent:
		return reducer.Input{Kind: reducer.ButtonRelease}, true

	case xproto.MotionNotifyEvent:
		return reducer.Input{Kind: reducer.MotionNotify, X: int(e.RootX), Y: int(e.RootY)}, true

	case xproto.EnterNotifyEvent:
		return reducer.Input{Kind: reducer.EnterNotify, Window: reducer.Window(e.Event)}, true

	case xproto.ClientMessageEvent:
		return reducer.Input{Kind: reducer.ClientMessage, Restart: e.Type == restartAtom}, true

	default:
		return reducer.Input{}, false
	}
}
