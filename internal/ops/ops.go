// Package ops is the reconciler: the single choke point through which
// every pure StackSet transform is turned into server calls. Every
// mutation to the running window set goes through Windows, mirroring
// this codebase's reconciler/tiler split — a pure planning step
// followed by an imperative apply step — generalized from a single
// grid layout to arbitrary per-workspace Layouts.
package ops

import (
	"log/slog"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/resources"
	"github.com/loomwm/loom/internal/stack"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/wmerr"
	"github.com/loomwm/loom/internal/x11"
)

type Window = x11.Window

// Config holds the knobs Operations needs that come from host
// configuration rather than from the StackSet itself.
type Config struct {
	StatusGap     int
	BorderWidth   int
	FocusedColor  uint32
	NormalColor   uint32
}

// Ops is the reconciler. It owns the authoritative StackSet and the
// bookkeeping (what is currently mapped, how many manager-initiated
// unmaps are still pending per window) needed to tell apart the
// manager's own unmaps from client-initiated ones.
type Ops struct {
	server x11.Server
	logger *slog.Logger
	cfg    Config

	windowset *stackset.StackSet

	mapped       map[Window]bool
	placed       map[Window]geom.Rectangle
	waitingUnmap map[Window]int
}

// New builds an Ops around an already-constructed StackSet and a live
// Server. Logging follows the reconciler's own convention: structured
// slog fields, no printf-style messages.
func New(server x11.Server, logger *slog.Logger, ss *stackset.StackSet, cfg Config) *Ops {
	return &Ops{
		server:       server,
		logger:       logger,
		cfg:          cfg,
		windowset:    ss,
		mapped:       map[Window]bool{},
		placed:       map[Window]geom.Rectangle{},
		waitingUnmap: map[Window]int{},
	}
}

// WindowSet returns the current StackSet. Callers must treat it as
// read-only; all mutation goes through Windows.
func (o *Ops) WindowSet() *stackset.StackSet { return o.windowset }

// WaitingUnmap reports how many manager-initiated unmaps are still
// expected for w, letting the reducer tell an unmanage-triggering
// UnmapNotify apart from one hide() itself caused.
func (o *Ops) WaitingUnmap(w Window) int { return o.waitingUnmap[w] }

// DecrementWaitingUnmap consumes one expected unmap for w.
func (o *Ops) DecrementWaitingUnmap(w Window) {
	if o.waitingUnmap[w] > 0 {
		o.waitingUnmap[w]--
	}
}

// PlacedRect returns the rectangle the last reconciliation cycle placed
// w at, the window's actual on-screen geometry rather than whatever a
// client most recently asked for.
func (o *Ops) PlacedRect(w Window) (geom.Rectangle, bool) {
	r, ok := o.placed[w]
	return r, ok
}

// Windows is the reconciler's single entry point: apply a pure
// transform to the StackSet, then reconcile the server's view of the
// world to match. A panicking layout falls back to Full for
// that screen only; the stored layout is left untouched so the next
// cycle gets another chance.
func (o *Ops) Windows(f func(*stackset.StackSet) *stackset.StackSet) error {
	before := o.windowset
	after := f(before)
	if err := stackset.CheckInvariants(after); err != nil {
		o.logger.Error("stackset invariant violated, reconciliation aborted", "error", err)
		return err
	}
	o.windowset = after

	o.hideNewlyHidden(before, after)

	order, err := o.placeScreens(after)
	if err != nil {
		return err
	}

	resources.TrapErrors(o.logger, "restack windows", func() error { return o.server.RestackWindows(order) })

	o.focusCurrent(after)
	o.unmapLeftovers(order)

	return nil
}

// BroadcastMessage sends msg to every workspace's layout, the catch-all
// the reducer falls back to for any event it doesn't handle itself.
// Layouts that don't care about msg return nil from HandleMessage and
// are left unchanged.
func (o *Ops) BroadcastMessage(msg message.Message) error {
	return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		return stackset.MapLayout(ss, func(l layout.Layout) layout.Layout {
			if l == nil {
				return l
			}
			if updated := l.HandleMessage(msg); updated != nil {
				return updated
			}
			return l
		})
	})
}

// hideNewlyHidden sends Hide to every workspace that was visible before
// and is hidden after, so a layout can release per-workspace transient
// state (e.g. Selector's outgoing head) before it stops being rendered.
func (o *Ops) hideNewlyHidden(before, after *stackset.StackSet) {
	wasVisible := map[string]bool{before.Current.Workspace.Tag: true}
	for _, s := range before.Visible {
		wasVisible[s.Workspace.Tag] = true
	}
	isVisible := map[string]bool{after.Current.Workspace.Tag: true}
	for _, s := range after.Visible {
		isVisible[s.Workspace.Tag] = true
	}

	for tag := range wasVisible {
		if isVisible[tag] {
			continue
		}
		ws, ok := stackset.WorkspaceByTag(after, tag)
		if !ok || ws.Layout == nil {
			continue
		}
		if updated := ws.Layout.HandleMessage(message.New(message.Hide{})); updated != nil {
			o.setLayout(after, tag, updated)
		}
	}
}

// placeScreens runs each screen's layout, places tiled and floating
// windows, and returns the full stacking order (floating above tiled,
// tiled windows in the order the layout returned them).
func (o *Ops) placeScreens(ss *stackset.StackSet) ([]Window, error) {
	var order []Window
	newlyPlaced := map[Window]geom.Rectangle{}

	for _, screen := range stackset.Screens(ss) {
		viewport := screen.Detail.Rect.Shrink(o.cfg.StatusGap, 0, 0, 0)
		viewport = viewport.Shrink(screen.Detail.Gap.Top, screen.Detail.Gap.Bottom, screen.Detail.Gap.Left, screen.Detail.Gap.Right)

		placements, updated := o.doLayout(screen.Workspace, viewport)
		if updated != nil {
			o.setLayout(ss, screen.Workspace.Tag, updated)
		}

		tiled := make([]Window, 0, len(placements))
		for _, p := range placements {
			if _, floating := ss.Floating[p.Window]; floating {
				continue
			}
			o.place(p.Window, p.Rect)
			newlyPlaced[p.Window] = p.Rect
			tiled = append(tiled, p.Window)
		}
		order = append(order, tiled...)

		for _, w := range stack.Integrate(screen.Workspace.Stack) {
			rr, ok := ss.Floating[w]
			if !ok {
				continue
			}
			rect := rr.Scale(screen.Detail.Rect)
			o.place(w, rect)
			newlyPlaced[w] = rect
			order = append(order, w)
		}
	}

	o.placed = newlyPlaced
	return order, nil
}

// doLayout runs a workspace's layout, logging and falling back to Full
// for this cycle alone on any LayoutException. If the layout returned
// an updated self, the caller persists it as the workspace's new stored
// layout via setLayout.
func (o *Ops) doLayout(ws stackset.Workspace, viewport geom.Rectangle) ([]layout.Placement, layout.Layout) {
	l := ws.Layout
	if l == nil {
		l = layout.Full{}
	}
	return o.safeDoLayout(l, viewport, ws)
}

// setLayout writes an updated layout back into whichever of
// Current/Visible/Hidden currently holds tag, bypassing the pure
// clone-then-mutate transforms since this runs after Windows has
// already committed the new StackSet for this cycle.
func (o *Ops) setLayout(ss *stackset.StackSet, tag string, l layout.Layout) {
	if ss.Current.Workspace.Tag == tag {
		ss.Current.Workspace.Layout = l
		return
	}
	for i := range ss.Visible {
		if ss.Visible[i].Workspace.Tag == tag {
			ss.Visible[i].Workspace.Layout = l
			return
		}
	}
	for i := range ss.Hidden {
		if ss.Hidden[i].Tag == tag {
			ss.Hidden[i].Layout = l
			return
		}
	}
}

func (o *Ops) safeDoLayout(l layout.Layout, viewport geom.Rectangle, ws stackset.Workspace) (placements []layout.Placement, updated layout.Layout) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("layout panicked, falling back to Full for this cycle",
				"error", (&wmerr.LayoutException{Layout: l.Description(), Err: panicErr(r)}))
			placements, _ = layout.Full{}.DoLayout(viewport, ws.Stack)
			updated = nil
		}
	}()
	return l.DoLayout(viewport, ws.Stack)
}

func (o *Ops) place(w Window, r geom.Rectangle) {
	var failed bool
	resources.TrapErrors(o.logger, "move/resize window", func() error {
		err := o.server.MoveResizeWindow(w, r)
		failed = err != nil
		return err
	})
	if failed {
		return
	}
	resources.TrapErrors(o.logger, "map window", func() error {
		err := o.server.MapWindow(w)
		failed = err != nil
		return err
	})
	if failed {
		return
	}
	o.mapped[w] = true
}

func (o *Ops) focusCurrent(ss *stackset.StackSet) {
	focused, ok := stackset.Peek(ss)
	if !ok {
		resources.TrapErrors(o.logger, "focus root", func() error { return o.server.FocusRoot() })
		return
	}
	resources.TrapErrors(o.logger, "set input focus", func() error { return o.server.SetInputFocus(focused) })
	resources.TrapErrors(o.logger, "set focused border color", func() error {
		return o.server.SetBorderColor(focused, o.cfg.FocusedColor)
	})
	for _, w := range stackset.AllWindows(ss) {
		if w == focused {
			continue
		}
		resources.TrapErrors(o.logger, "set normal border color", func() error {
			return o.server.SetBorderColor(w, o.cfg.NormalColor)
		})
	}
}

// unmapLeftovers unmaps any window that was mapped by a previous
// reconciliation but did not appear in this one's placement order.
func (o *Ops) unmapLeftovers(order []Window) {
	stillPlaced := map[Window]bool{}
	for _, w := range order {
		stillPlaced[w] = true
	}
	for w, isMapped := range o.mapped {
		if !isMapped || stillPlaced[w] {
			continue
		}
		var failed bool
		resources.TrapErrors(o.logger, "unmap leftover window", func() error {
			err := o.Hide(w)
			failed = err != nil
			return err
		})
		if failed {
			continue
		}
		o.mapped[w] = false
	}
}

type panicError struct{ v any }

func (p panicError) Error() string { return "layout panic" }

func panicErr(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return panicError{v: v}
}
