package ops

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/x11"
)

// Manage brings a newly mapped window under management. Fixed-size and
// transient windows are floated at their suggested geometry instead of
// tiled, mirroring how a dialog box should never be forced into a tile.
func (o *Ops) Manage(w Window) error {
	if stackset.Member(o.windowset, w) {
		return nil
	}

	if err := o.server.SelectInput(w, clientEventMask); err != nil {
		return err
	}
	if err := o.server.SetBorderWidth(w, o.cfg.BorderWidth); err != nil {
		return err
	}

	hints, hasHints := o.server.GetNormalHints(w)
	_, isTransient := o.server.GetTransientFor(w)

	if err := o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		return stackset.InsertUp(ss, w)
	}); err != nil {
		return err
	}

	if (hasHints && hints.FixedSize()) || isTransient {
		rect := suggestedFloatRect(o.windowset, hints, hasHints)
		return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
			return stackset.Float(ss, w, rect)
		})
	}
	return nil
}

// suggestedFloatRect derives a RationalRect for a newly floated window
// from its WM_NORMAL_HINTS base size, centered on the current screen, or
// a sane default if hints are absent.
func suggestedFloatRect(ss *stackset.StackSet, hints x11.SizeHints, hasHints bool) geom.RationalRect {
	screen := ss.Current.Detail.Rect
	w, h := 0.5, 0.5
	if hasHints && hints.HasBase && screen.Width > 0 && screen.Height > 0 {
		w = clampUnit(float64(hints.BaseWidth) / float64(screen.Width))
		h = clampUnit(float64(hints.BaseHeight) / float64(screen.Height))
	}
	return geom.RationalRect{X: (1 - w) / 2, Y: (1 - h) / 2, W: w, H: h}
}

func clampUnit(v float64) float64 {
	if v <= 0 || v > 1 {
		return 0.5
	}
	return v
}

// Unmanage stops managing w: removes it from the StackSet and tells the
// server it is withdrawn.
func (o *Ops) Unmanage(w Window) error {
	if err := o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		return stackset.Delete(ss, w)
	}); err != nil {
		return err
	}
	delete(o.waitingUnmap, w)
	delete(o.mapped, w)
	return o.server.SetWMState(w, wmStateWithdrawn)
}

// Kill closes the focused window: politely, via WM_DELETE_WINDOW, if the
// client advertises support for it; otherwise the connection is killed
// outright.
func (o *Ops) Kill() error {
	focused, ok := stackset.Peek(o.windowset)
	if !ok {
		return nil
	}
	if o.server.SupportsDeleteWindow(focused) {
		return o.server.SendDeleteWindow(focused)
	}
	return o.server.KillClient(focused)
}

// Hide temporarily removes w from view without unmanaging it: the next
// UnmapNotify for w is expected and must not trigger an unmanage.
func (o *Ops) Hide(w Window) error {
	o.waitingUnmap[w]++
	if err := o.server.SetWMState(w, wmStateIconic); err != nil {
		return err
	}
	return o.server.UnmapWindow(w)
}

// Reveal makes a hidden window visible again.
func (o *Ops) Reveal(w Window) error {
	if err := o.server.SetWMState(w, wmStateNormal); err != nil {
		return err
	}
	return o.server.MapWindow(w)
}

// Rescreen re-reads the server's screen geometry and folds it into the
// StackSet, preserving gap settings positionally and padding new
// screens with a zero gap.
func (o *Ops) Rescreen() error {
	rects, err := o.server.Displays()
	if err != nil {
		return err
	}
	return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		out, err := stackset.Rescreen(ss, rects)
		if err != nil {
			o.logger.Warn("rescreen failed, keeping existing screen layout", "error", err)
			return ss
		}
		return out
	})
}

// Float moves w into the floating layer at the given proportional
// rectangle, e.g. in response to a drag or a user toggle.
func (o *Ops) Float(w Window, rect geom.RationalRect) error {
	return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		return stackset.Float(ss, w, rect)
	})
}

// Sink returns w from the floating layer to tiling.
func (o *Ops) Sink(w Window) error {
	return o.Windows(func(ss *stackset.StackSet) *stackset.StackSet {
		return stackset.Sink(ss, w)
	})
}

// MouseMoveWindow returns a motion function that drags w by the pointer
// delta and a cleanup function that commits the final position to the
// floating layer, for the reducer's dragging state.
func (o *Ops) MouseMoveWindow(w Window, startX, startY int) (motion func(x, y int), cleanup func()) {
	origin := o.placed[w]
	screen := o.windowset.Current.Detail.Rect
	current := origin

	motion = func(x, y int) {
		current = origin
		current.X += x - startX
		current.Y += y - startY
		_ = o.server.MoveResizeWindow(w, current)
	}
	cleanup = func() {
		_ = o.Float(w, geom.FromPixels(current, screen))
	}
	return motion, cleanup
}

// MouseResizeWindow returns a motion function that resizes w by the
// pointer delta (clamped to 1x1) and a cleanup function that commits the
// final size, applying WM_NORMAL_HINTS increments along the way.
func (o *Ops) MouseResizeWindow(w Window, startX, startY int) (motion func(x, y int), cleanup func()) {
	origin := o.placed[w]
	screen := o.windowset.Current.Detail.Rect
	current := origin

	motion = func(x, y int) {
		width := origin.Width + (x - startX)
		height := origin.Height + (y - startY)
		if hints, ok := o.server.GetNormalHints(w); ok {
			width, height = ApplySizeHints(hints, width, height)
		} else {
			width, height = max1(width), max1(height)
		}
		current = geom.Rectangle{X: origin.X, Y: origin.Y, Width: width, Height: height}
		_ = o.server.MoveResizeWindow(w, current)
	}
	cleanup = func() {
		_ = o.Float(w, geom.FromPixels(current, screen))
	}
	return motion, cleanup
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

const (
	wmStateWithdrawn = 0
	wmStateNormal    = 1
	wmStateIconic    = 3
)

const clientEventMask = 0x00020000 | 0x00000010 | 0x00400000 // StructureNotify | EnterWindow | PropertyChange
