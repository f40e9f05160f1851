package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/ops"
	"github.com/loomwm/loom/internal/resources"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/x11"
)

// keyAction resolves a config action name to the closure a key binding
// runs. view-<tag> and move-to-<tag> are open-ended prefixes; everything
// else comes from the fixed builtin set config.Validate already checked
// against.
func keyAction(name string, o *ops.Ops, restart func(), logger *slog.Logger) (func(), error) {
	if fn, ok := fixedKeyActions(name, o); ok {
		return logged(logger, name, fn), nil
	}

	switch {
	case name == "restart":
		return func() { restart() }, nil

	case strings.HasPrefix(name, "view-"):
		tag := strings.TrimPrefix(name, "view-")
		return logged(logger, name, func() error {
			return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
				return stackset.GreedyView(ss, tag)
			})
		}), nil

	case strings.HasPrefix(name, "move-to-"):
		tag := strings.TrimPrefix(name, "move-to-")
		return logged(logger, name, func() error {
			return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
				return stackset.Shift(ss, tag)
			})
		}), nil

	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}

func fixedKeyActions(name string, o *ops.Ops) (func() error, bool) {
	switch name {
	case "focus-down":
		return func() error { return o.Windows(stackset.FocusDown) }, true
	case "focus-up":
		return func() error { return o.Windows(stackset.FocusUp) }, true
	case "swap-master":
		return func() error { return o.Windows(stackset.SwapMaster) }, true
	case "next-layout":
		return func() error { return o.BroadcastMessage(message.New(message.NextLayout{})) }, true
	case "prev-layout":
		return func() error { return o.BroadcastMessage(message.New(message.PrevLayout{})) }, true
	case "shrink-master":
		return func() error {
			return o.BroadcastMessage(message.New(message.Resize{Direction: message.Shrink}))
		}, true
	case "expand-master":
		return func() error {
			return o.BroadcastMessage(message.New(message.Resize{Direction: message.Expand}))
		}, true
	case "inc-master-n":
		return func() error { return o.BroadcastMessage(message.New(message.IncMasterN{Delta: 1})) }, true
	case "dec-master-n":
		return func() error { return o.BroadcastMessage(message.New(message.IncMasterN{Delta: -1})) }, true
	case "kill", "close":
		return o.Kill, true
	case "sink":
		return func() error { return withFocused(o, o.Sink) }, true
	case "float":
		return func() error {
			return withFocused(o, func(w x11.Window) error {
				return o.Float(w, geom.RationalRect{X: 0.1, Y: 0.1, W: 0.8, H: 0.8})
			})
		}, true
	default:
		return nil, false
	}
}

// withFocused runs f against the currently focused window, a no-op if
// nothing is focused.
func withFocused(o *ops.Ops, f func(x11.Window) error) error {
	w, ok := stackset.Peek(o.WindowSet())
	if !ok {
		return nil
	}
	return f(w)
}

// logged wraps an action that can fail so a binding firing never crashes
// the event loop; failures are logged and swallowed, matching how the
// reducer itself treats a single bad event.
func logged(logger *slog.Logger, name string, f func() error) func() {
	return func() {
		if err := f(); err != nil {
			logger.Warn("action failed", "action", name, "error", err)
		}
	}
}

// buildKeyBindings resolves every configured key sequence and action name
// into a resources.Binding, failing fast on the first unresolvable entry
// (config.Validate has already rejected unknown action names, so a
// failure here means a malformed key sequence, an unknown modifier or an
// unresolvable keysym).
func buildKeyBindings(keys map[string]string, server x11.Server, o *ops.Ops, restart func(), logger *slog.Logger) ([]resources.Binding, error) {
	bindings := make([]resources.Binding, 0, len(keys))
	for seq, name := range keys {
		mods, keycode, err := parseKeyBinding(seq, server)
		if err != nil {
			return nil, err
		}
		action, err := keyAction(name, o, restart, logger)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, resources.Binding{Mods: mods, Keycode: keycode, Action: action})
	}
	return bindings, nil
}

// buildButtonBindings resolves every configured button sequence into a
// resources.ButtonBinding carrying the role the reducer dispatches on
// directly (move, resize, focus).
func buildButtonBindings(buttons map[string]string) ([]resources.ButtonBinding, error) {
	bindings := make([]resources.ButtonBinding, 0, len(buttons))
	for seq, role := range buttons {
		mods, button, err := parseButtonBinding(seq)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, resources.ButtonBinding{Mods: mods, Button: button, Role: role})
	}
	return bindings, nil
}
