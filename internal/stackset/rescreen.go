package stackset

import "github.com/loomwm/loom/internal/geom"

// Rescreen rebuilds Current/Visible/Hidden after the server reports a new
// set of screen geometries. The mapping of workspaces to screens is
// preserved by position: the workspaces already mounted (current, then
// visible, in that order) keep their screens for as long as screens
// remain; workspaces displaced by a shrinking screen count fall back into
// Hidden, and newly appearing screens are filled from the front of
// Hidden, in its current order. Gap settings are preserved for screens that already existed;
// newly appearing screens get a zero gap.
func Rescreen(ss *StackSet, details []geom.Rectangle) (*StackSet, error) {
	rects := make([]ScreenDetail, len(details))
	for i, r := range details {
		rects[i] = ScreenDetail{Rect: r}
	}
	return rescreenDetails(ss, rects)
}

// RescreenDetails is like Rescreen but lets the caller pass full
// ScreenDetail values (e.g. to propose gaps for brand-new screens).
func RescreenDetails(ss *StackSet, details []ScreenDetail) (*StackSet, error) {
	return rescreenDetails(ss, details)
}

func rescreenDetails(ss *StackSet, details []ScreenDetail) (*StackSet, error) {
	if len(details) == 0 {
		return nil, errNoScreens
	}

	oldMounted := screens(ss)
	mountedTags := make(map[string]bool, len(oldMounted))
	for _, s := range oldMounted {
		mountedTags[s.Workspace.Tag] = true
	}

	n := len(details)
	var toMount []Workspace
	for i := 0; i < n && i < len(oldMounted); i++ {
		toMount = append(toMount, oldMounted[i].Workspace)
	}
	for i := len(toMount); i < n; i++ {
		var pulled *Workspace
		for j := range ss.Hidden {
			if !alreadyChosen(toMount, ss.Hidden[j].Tag) {
				pulled = &ss.Hidden[j]
				break
			}
		}
		if pulled == nil {
			break
		}
		toMount = append(toMount, *pulled)
	}
	if len(toMount) == 0 {
		return nil, errNoScreens
	}

	newScreens := make([]Screen, len(toMount))
	for i, ws := range toMount {
		gap := geom.Gap{}
		if i < len(oldMounted) {
			gap = oldMounted[i].Detail.Gap
		}
		detail := details[i]
		if detail.Gap == (geom.Gap{}) {
			detail.Gap = gap
		}
		newScreens[i] = Screen{Workspace: cloneWorkspace(ws), ID: ScreenID(i), Detail: detail}
	}

	mountedNow := make(map[string]bool, len(newScreens))
	for _, s := range newScreens {
		mountedNow[s.Workspace.Tag] = true
	}

	hidden := make([]Workspace, 0, len(ss.Hidden))
	for _, s := range oldMounted {
		if !mountedNow[s.Workspace.Tag] {
			hidden = append(hidden, cloneWorkspace(s.Workspace))
		}
	}
	for _, w := range ss.Hidden {
		if !mountedNow[w.Tag] {
			hidden = append(hidden, cloneWorkspace(w))
		}
	}

	floating := make(map[Window]geom.RationalRect, len(ss.Floating))
	for w, r := range ss.Floating {
		floating[w] = r
	}

	out := &StackSet{
		Current:  newScreens[0],
		Visible:  append([]Screen{}, newScreens[1:]...),
		Hidden:   hidden,
		Floating: floating,
	}
	return out, nil
}

func alreadyChosen(chosen []Workspace, tag string) bool {
	for _, w := range chosen {
		if w.Tag == tag {
			return true
		}
	}
	return false
}

type rescreenError string

func (e rescreenError) Error() string { return string(e) }

const errNoScreens = rescreenError("stackset: rescreen requires at least one screen")
