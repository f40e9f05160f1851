package stackset

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/stack"
)

// View makes the workspace tagged tag current. If it is already visible on
// another screen, the two screens swap workspaces so every screen keeps a
// workspace mounted. Unknown tags and the already-current tag are no-ops.
func View(ss *StackSet, tag string) *StackSet {
	if ss.Current.Workspace.Tag == tag {
		return clone(ss)
	}
	out := clone(ss)
	for i, s := range out.Visible {
		if s.Workspace.Tag == tag {
			out.Visible[i].Workspace = out.Current.Workspace
			out.Current.Workspace = s.Workspace
			return out
		}
	}
	for i, w := range out.Hidden {
		if w.Tag == tag {
			displaced := out.Current.Workspace
			out.Current.Workspace = w
			out.Hidden[i] = displaced
			return out
		}
	}
	return out
}

// GreedyView is like View, but when tag is visible on another screen it
// pulls that workspace onto the current screen and pushes the displaced
// workspace into hidden, rather than swapping.
func GreedyView(ss *StackSet, tag string) *StackSet {
	if ss.Current.Workspace.Tag == tag {
		return clone(ss)
	}
	out := clone(ss)
	for i, s := range out.Visible {
		if s.Workspace.Tag == tag {
			displaced := out.Current.Workspace
			out.Current.Workspace = s.Workspace
			out.Visible = append(out.Visible[:i], out.Visible[i+1:]...)
			out.Hidden = append(out.Hidden, displaced)
			return out
		}
	}
	for i, w := range out.Hidden {
		if w.Tag == tag {
			displaced := out.Current.Workspace
			out.Current.Workspace = w
			out.Hidden[i] = displaced
			return out
		}
	}
	return out
}

// FocusUp rotates focus to the window above the current one in the
// current workspace's stack, wrapping around.
func FocusUp(ss *StackSet) *StackSet {
	out := clone(ss)
	out.Current.Workspace.Stack = stack.FocusUp(out.Current.Workspace.Stack)
	return out
}

// FocusDown is the mirror image of FocusUp.
func FocusDown(ss *StackSet) *StackSet {
	out := clone(ss)
	out.Current.Workspace.Stack = stack.FocusDown(out.Current.Workspace.Stack)
	return out
}

// SwapMaster exchanges the focused window with the master window — the
// head of the current workspace's stack — keeping focus on the same
// window, which becomes the new master. A no-op on an empty stack or
// when the focused window is already master.
func SwapMaster(ss *StackSet) *StackSet {
	out := clone(ss)
	st := out.Current.Workspace.Stack
	if st == nil || len(st.Up) == 0 {
		return out
	}
	all := stack.Integrate(st)
	focusIdx := len(st.Up)
	all[0], all[focusIdx] = all[focusIdx], all[0]
	out.Current.Workspace.Stack = &stack.Stack[Window]{
		Focus: all[0],
		Down:  append([]Window{}, all[1:]...),
	}
	return out
}

// FocusWindow shifts focus, and the current workspace if necessary, so
// that w is focused. A no-op if w is not known anywhere.
func FocusWindow(ss *StackSet, w Window) *StackSet {
	tag, ok := FindIndex(ss, w)
	if !ok {
		return clone(ss)
	}
	out := View(ss, tag)
	st := out.Current.Workspace.Stack
	for Len(st) > 0 && st.Focus != w {
		st = stack.FocusDown(st)
	}
	out.Current.Workspace.Stack = st
	return out
}

// Len reports the number of windows in a stack, nil-safe.
func Len(s *stack.Stack[Window]) int { return stack.Len(s) }

// InsertUp inserts w above the focused element of the current workspace
// and focuses it. A no-op if w already exists anywhere in the StackSet.
func InsertUp(ss *StackSet, w Window) *StackSet {
	if Member(ss, w) {
		return clone(ss)
	}
	out := clone(ss)
	out.Current.Workspace.Stack = stack.InsertUp(out.Current.Workspace.Stack, w)
	return out
}

// Delete removes w from wherever it is — its workspace stack and any
// floating entry. Focus falls to the element below, then above, then the
// stack becomes empty.
func Delete(ss *StackSet, w Window) *StackSet {
	out := clone(ss)
	delete(out.Floating, w)

	apply := func(ws *Workspace) {
		ws.Stack = stack.Filter(ws.Stack, func(x Window) bool { return x != w })
	}
	apply(&out.Current.Workspace)
	for i := range out.Visible {
		apply(&out.Visible[i].Workspace)
	}
	for i := range out.Hidden {
		apply(&out.Hidden[i])
	}
	return out
}

// Shift moves the current focus to workspace tag. Focus in the source
// workspace moves to the next sibling. A no-op if the current workspace
// has no focus or tag is unknown.
func Shift(ss *StackSet, tag string) *StackSet {
	w, ok := Peek(ss)
	if !ok {
		return clone(ss)
	}
	return ShiftWin(ss, tag, w)
}

// ShiftWin moves w to workspace tag, preserving the focus of the
// workspace w is removed from. A no-op if w or tag is unknown, or if w is
// already on tag.
func ShiftWin(ss *StackSet, tag string, w Window) *StackSet {
	srcTag, ok := FindIndex(ss, w)
	if !ok || srcTag == tag {
		return clone(ss)
	}
	if !tagExists(ss, tag) {
		return clone(ss)
	}

	out := clone(ss)
	removeFromWorkspace := func(ws *Workspace) {
		ws.Stack = stack.Filter(ws.Stack, func(x Window) bool { return x != w })
	}
	removeFromWorkspace(&out.Current.Workspace)
	for i := range out.Visible {
		removeFromWorkspace(&out.Visible[i].Workspace)
	}
	for i := range out.Hidden {
		removeFromWorkspace(&out.Hidden[i])
	}

	insertInto := func(ws *Workspace) {
		ws.Stack = stack.InsertUp(ws.Stack, w)
	}
	if out.Current.Workspace.Tag == tag {
		insertInto(&out.Current.Workspace)
		return out
	}
	for i := range out.Visible {
		if out.Visible[i].Workspace.Tag == tag {
			insertInto(&out.Visible[i].Workspace)
			return out
		}
	}
	for i := range out.Hidden {
		if out.Hidden[i].Tag == tag {
			insertInto(&out.Hidden[i])
			return out
		}
	}
	return out
}

// Float adds or replaces w's floating geometry. If w is not yet in any
// workspace stack, it is first inserted on the current workspace.
func Float(ss *StackSet, w Window, rect geom.RationalRect) *StackSet {
	out := ss
	if !Member(ss, w) {
		out = InsertUp(ss, w)
	} else {
		out = clone(ss)
	}
	out.Floating[w] = rect
	return out
}

// Sink removes w from the floating map; its geometry reverts to whatever
// the workspace layout places it at.
func Sink(ss *StackSet, w Window) *StackSet {
	out := clone(ss)
	delete(out.Floating, w)
	return out
}

// EnsureTags augments Hidden with a workspace, using defaultLayout, for
// every tag not already present anywhere. Used on resume, when the
// configured tag list may have grown since the state was saved.
func EnsureTags(ss *StackSet, defaultLayout layout.Layout, tags []string) *StackSet {
	out := clone(ss)
	for _, tag := range tags {
		if tagExists(out, tag) {
			continue
		}
		out.Hidden = append(out.Hidden, Workspace{Tag: tag, Layout: defaultLayout})
	}
	return out
}

// MapLayout applies f to every workspace's layout. Used on resume to
// re-parse layouts from their serialized text form.
func MapLayout(ss *StackSet, f func(layout.Layout) layout.Layout) *StackSet {
	out := clone(ss)
	out.Current.Workspace.Layout = f(out.Current.Workspace.Layout)
	for i := range out.Visible {
		out.Visible[i].Workspace.Layout = f(out.Visible[i].Workspace.Layout)
	}
	for i := range out.Hidden {
		out.Hidden[i].Layout = f(out.Hidden[i].Layout)
	}
	return out
}

func tagExists(ss *StackSet, tag string) bool {
	for _, w := range allWorkspaces(ss) {
		if w.Tag == tag {
			return true
		}
	}
	return false
}
