package stackset

import "fmt"

// CheckInvariants verifies every invariant of §3.2 against ss. Tests
// assert it after transforms, and ops.Windows runs it on every transform's
// result before reconciling.
func CheckInvariants(ss *StackSet) error {
	tagCount := map[string]int{}
	for _, w := range allWorkspaces(ss) {
		tagCount[w.Tag]++
	}
	for tag, n := range tagCount {
		if n != 1 {
			return fmt.Errorf("workspace tag %q appears %d times, want exactly 1", tag, n)
		}
	}

	screenIDs := map[ScreenID]int{}
	for _, s := range screens(ss) {
		screenIDs[s.ID]++
	}
	for id, n := range screenIDs {
		if n != 1 {
			return fmt.Errorf("screen id %d appears %d times, want exactly 1", id, n)
		}
	}

	seen := map[Window]string{}
	for _, w := range allWorkspaces(ss) {
		for _, win := range integrateOf(w) {
			if prior, ok := seen[win]; ok {
				return fmt.Errorf("window %d appears on both %q and %q", win, prior, w.Tag)
			}
			seen[win] = w.Tag
		}
	}

	for win := range ss.Floating {
		if _, ok := seen[win]; !ok {
			return fmt.Errorf("floating window %d is not in any workspace stack", win)
		}
	}

	for _, s := range screens(ss) {
		st := s.Workspace.Stack
		if st == nil {
			continue
		}
		if _, ok := seen[st.Focus]; !ok {
			return fmt.Errorf("screen %d focus %d is not recorded in its own workspace", s.ID, st.Focus)
		}
	}

	return nil
}

func integrateOf(w Workspace) []Window {
	if w.Stack == nil {
		return nil
	}
	out := make([]Window, 0, len(w.Stack.Up)+1+len(w.Stack.Down))
	for i := len(w.Stack.Up) - 1; i >= 0; i-- {
		out = append(out, w.Stack.Up[i])
	}
	out = append(out, w.Stack.Focus)
	out = append(out, w.Stack.Down...)
	return out
}
