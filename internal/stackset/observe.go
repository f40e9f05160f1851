package stackset

import "github.com/loomwm/loom/internal/stack"

// FindIndex returns the tag of the workspace holding w, if any.
func FindIndex(ss *StackSet, w Window) (string, bool) {
	for _, ws := range allWorkspaces(ss) {
		if containsWindow(ws.Stack, w) {
			return ws.Tag, true
		}
	}
	return "", false
}

// Member reports whether w is managed anywhere in the StackSet.
func Member(ss *StackSet, w Window) bool {
	_, ok := FindIndex(ss, w)
	return ok
}

// Peek returns the focused window of the current workspace, if any.
func Peek(ss *StackSet) (Window, bool) {
	if ss.Current.Workspace.Stack == nil {
		return 0, false
	}
	return ss.Current.Workspace.Stack.Focus, true
}

// Index returns the current workspace's windows in display order
// (reverse(up) ++ focus ++ down).
func Index(ss *StackSet) []Window {
	return stack.Integrate(ss.Current.Workspace.Stack)
}

// AllWindows returns every managed window across every workspace, in an
// unspecified but deterministic order (current, then visible, then
// hidden, each integrated top to bottom).
func AllWindows(ss *StackSet) []Window {
	var out []Window
	for _, ws := range allWorkspaces(ss) {
		out = append(out, stack.Integrate(ws.Stack)...)
	}
	return out
}

// Screens returns every mounted screen: current followed by visible.
func Screens(ss *StackSet) []Screen {
	return screens(ss)
}

// LookupWorkspace returns the tag of the workspace mounted on scr.
func LookupWorkspace(ss *StackSet, scr ScreenID) (string, bool) {
	for _, s := range screens(ss) {
		if s.ID == scr {
			return s.Workspace.Tag, true
		}
	}
	return "", false
}

// WorkspaceByTag returns the workspace with the given tag, wherever it
// currently lives (current, visible, or hidden).
func WorkspaceByTag(ss *StackSet, tag string) (Workspace, bool) {
	for _, ws := range allWorkspaces(ss) {
		if ws.Tag == tag {
			return ws, true
		}
	}
	return Workspace{}, false
}

func containsWindow(s *stack.Stack[Window], w Window) bool {
	if s == nil {
		return false
	}
	if s.Focus == w {
		return true
	}
	for _, x := range s.Up {
		if x == w {
			return true
		}
	}
	for _, x := range s.Down {
		if x == w {
			return true
		}
	}
	return false
}
