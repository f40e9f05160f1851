// Package reducer is the event-driven state machine at the heart of the
// event loop: one event in, zero or more server calls out, per the
// table this codebase's own daemon reconciler loop inspired — a single
// goroutine advancing state and reacting, with panics contained per
// event rather than per process.
package reducer

import (
	"log/slog"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/ops"
	"github.com/loomwm/loom/internal/resources"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/x11"
)

type Window = x11.Window

// Kind enumerates the event classes the reducer table dispatches on.
// cmd/wm is responsible for translating raw xgb events into
// these before calling HandleEvent, which keeps this package (and its
// tests) free of any dependency on a live X connection.
type Kind int

const (
	KeyPress Kind = iota
	MapRequest
	DestroyNotify
	UnmapNotify
	ConfigureRequest
	ConfigureNotifyRoot
	MappingNotify
	ButtonPressRoot
	ButtonPressChild
	ButtonRelease
	MotionNotify
	EnterNotify
	ClientMessage
	Other
)

// Input is the reducer's sole entry point argument. Only the fields
// relevant to Kind are read; the rest are ignored. Restart, when true on
// a ClientMessage event, signals the process should restart in place;
// HandleEvent returns ErrRestart so cmd/wm can serialize state and
// re-exec.
type Input struct {
	Kind             Kind
	Window           Window
	Mods             uint16
	Keycode          uint8
	Button           uint8
	X, Y             int
	Rect             geom.Rectangle
	Synthetic        bool
	OverrideRedirect bool
	Restart          bool

	Message message.Message
}

// ErrRestart is returned from HandleEvent when a ClientMessage carried
// the restart request; the caller handles serialization and re-exec.
type ErrRestart struct{}

func (ErrRestart) Error() string { return "restart requested" }

type drag struct {
	motion  func(x, y int)
	cleanup func()
}

// Reducer owns the single piece of state the event loop threads through
// every call: the Operations reconciler (which in turn owns the
// StackSet), the key/button binding tables, and the current interactive
// drag, if any.
type Reducer struct {
	ops    *ops.Ops
	server x11.Server
	logger *slog.Logger

	keyBindings    map[uint16][]resources.Binding
	buttonBindings map[uint16][]resources.ButtonBinding
	rebuildKeys    func() (map[uint16][]resources.Binding, error)

	focusFollowsMouse bool
	dragging          *drag
}

// SetRebuildKeys installs the callback MappingNotify uses to rebuild the
// keyboard mapping: ungrab every key, re-resolve keysyms to keycodes,
// and grab again. Building this requires cmd/wm's own config and server
// wiring, so the reducer only holds a callback into it rather than the
// raw, unexpanded bindings themselves.
func (r *Reducer) SetRebuildKeys(f func() (map[uint16][]resources.Binding, error)) {
	r.rebuildKeys = f
}

// New builds a Reducer around an already-constructed Ops. Bindings are
// supplied pre-expanded (resources.GrabKeys/GrabButtons) because
// grabbing is a server side effect the reducer itself never performs.
func New(o *ops.Ops, server x11.Server, logger *slog.Logger, keyBindings map[uint16][]resources.Binding, buttonBindings map[uint16][]resources.ButtonBinding, focusFollowsMouse bool) *Reducer {
	return &Reducer{
		ops:               o,
		server:            server,
		logger:            logger,
		keyBindings:       keyBindings,
		buttonBindings:    buttonBindings,
		focusFollowsMouse: focusFollowsMouse,
	}
}

// HandleEvent advances the state machine by exactly one event. Handling
// is total: every Kind either does something or falls through to
// broadcasting the event's Message to every layout. A panic inside a
// single handler is recovered and logged so one bad event never
// terminates the loop, matching the reconciler's own per-cycle recover.
func (r *Reducer) HandleEvent(ev Input) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("reducer panic recovered", "kind", ev.Kind, "panic", p)
			err = nil
		}
	}()

	switch ev.Kind {
	case KeyPress:
		resources.Dispatch(r.keyBindings, ev.Mods, ev.Keycode)
		return nil

	case MapRequest:
		if ev.OverrideRedirect || stackset.Member(r.ops.WindowSet(), ev.Window) {
			return nil
		}
		return r.ops.Manage(ev.Window)

	case DestroyNotify:
		if stackset.Member(r.ops.WindowSet(), ev.Window) {
			return r.ops.Unmanage(ev.Window)
		}
		return nil

	case UnmapNotify:
		if ev.Synthetic || r.ops.WaitingUnmap(ev.Window) == 0 {
			return r.ops.Unmanage(ev.Window)
		}
		r.ops.DecrementWaitingUnmap(ev.Window)
		return nil

	case ConfigureRequest:
		return r.handleConfigureRequest(ev)

	case ConfigureNotifyRoot:
		return r.ops.Rescreen()

	case MappingNotify:
		return r.handleMappingNotify()

	case ButtonPressRoot:
		return r.handleButtonPressRoot(ev)

	case ButtonPressChild:
		if err := r.ops.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
			return stackset.FocusWindow(ss, ev.Window)
		}); err != nil {
			return err
		}
		return r.server.ReplayPointer()

	case ButtonRelease:
		if r.dragging != nil {
			r.dragging.cleanup()
			r.dragging = nil
			return nil
		}
		return r.ops.BroadcastMessage(ev.Message)

	case MotionNotify:
		if r.dragging != nil {
			r.dragging.motion(ev.X, ev.Y)
			return nil
		}
		return r.ops.BroadcastMessage(ev.Message)

	case EnterNotify:
		if r.focusFollowsMouse {
			return r.ops.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
				return stackset.FocusWindow(ss, ev.Window)
			})
		}
		return nil

	case ClientMessage:
		if ev.Restart {
			return ErrRestart{}
		}
		return r.ops.BroadcastMessage(ev.Message)

	default:
		return r.ops.BroadcastMessage(ev.Message)
	}
}

// BeginMove starts an interactive move drag for w, to be driven by
// subsequent MotionNotify/ButtonRelease events.
func (r *Reducer) BeginMove(w Window, startX, startY int) {
	motion, cleanup := r.ops.MouseMoveWindow(w, startX, startY)
	r.dragging = &drag{motion: motion, cleanup: cleanup}
}

// BeginResize starts an interactive resize drag for w.
func (r *Reducer) BeginResize(w Window, startX, startY int) {
	motion, cleanup := r.ops.MouseResizeWindow(w, startX, startY)
	r.dragging = &drag{motion: motion, cleanup: cleanup}
}

// Dragging reports whether an interactive move/resize is in progress.
func (r *Reducer) Dragging() bool { return r.dragging != nil }

// handleButtonPressRoot dispatches a button press caught by one of the
// grabbed root-window combos. A Role-carrying binding (move, resize,
// focus) is handled here directly, since starting a drag or focusing
// the clicked window needs ev.Window/X/Y — data a bare Action func()
// cannot carry. Anything else falls through to the generic Action
// dispatch table.
func (r *Reducer) handleButtonPressRoot(ev Input) error {
	b, ok := resources.LookupButton(r.buttonBindings, ev.Mods, ev.Button)
	if !ok {
		return nil
	}

	switch b.Role {
	case "move":
		if ev.Window != 0 {
			r.BeginMove(ev.Window, ev.X, ev.Y)
		}
		return nil
	case "resize":
		if ev.Window != 0 {
			r.BeginResize(ev.Window, ev.X, ev.Y)
		}
		return nil
	case "focus":
		if ev.Window == 0 {
			return nil
		}
		return r.ops.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
			return stackset.FocusWindow(ss, ev.Window)
		})
	}

	resources.DispatchButton(r.buttonBindings, ev.Mods, ev.Button)
	return nil
}

func (r *Reducer) handleConfigureRequest(ev Input) error {
	_, floating := r.ops.WindowSet().Floating[ev.Window]
	managed := stackset.Member(r.ops.WindowSet(), ev.Window)
	if floating || !managed {
		return r.server.MoveResizeWindow(ev.Window, ev.Rect)
	}

	// A tiled client's ConfigureRequest is answered with its real,
	// server-placed geometry, not the geometry it asked for; the
	// layout owns placement, so the request itself never takes effect.
	rect, ok := r.ops.PlacedRect(ev.Window)
	if !ok {
		rect, ok = r.server.GetGeometry(ev.Window)
	}
	if !ok {
		rect = ev.Rect
	}
	return r.server.SendSyntheticConfigure(ev.Window, rect, 0)
}

// handleMappingNotify rebuilds the keyboard mapping and re-grabs keys
// when the server reports one changed. Without a rebuild callback
// installed (e.g. in tests) this is a no-op.
func (r *Reducer) handleMappingNotify() error {
	if r.rebuildKeys == nil {
		return nil
	}
	bindings, err := r.rebuildKeys()
	if err != nil {
		r.logger.Warn("rebuild key bindings failed", "error", err)
		return err
	}
	r.keyBindings = bindings
	r.logger.Info("keyboard mapping changed, bindings rebuilt")
	return nil
}
