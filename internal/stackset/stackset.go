// Package stackset implements the pure, side-effect-free model of every
// managed window's placement: which workspace it lives on, which screen
// that workspace is mounted on, and whether it floats. Every exported
// function here is total: it takes a StackSet (and sometimes other
// arguments) and returns a new StackSet, never mutating its receiver and
// never touching the display server. Operations in internal/ops is the
// only caller permitted to turn the result into server calls.
package stackset

import (
	"fmt"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/stack"
	"github.com/loomwm/loom/internal/wintype"
)

// Window is the opaque, server-assigned handle to a top-level client
// window. The core never constructs one; it only ever receives them from
// the X server client and compares them for identity.
type Window = wintype.Window

// ScreenID identifies one physical output, stable for the process
// lifetime of that output.
type ScreenID int

// ScreenDetail carries everything about a screen's geometry a layout or
// the reconciler needs beyond its identity.
type ScreenDetail struct {
	Rect geom.Rectangle
	Gap  geom.Gap
}

// Workspace is a named tag carrying an ordered stack of windows and the
// layout algorithm arranging them. An empty workspace has a nil Stack.
type Workspace struct {
	Tag    string
	Layout layout.Layout
	Stack  *stack.Stack[Window]
}

// Screen binds exactly one Workspace to one physical output.
type Screen struct {
	Workspace Workspace
	ID        ScreenID
	Detail    ScreenDetail
}

// StackSet is the whole-world model: every workspace, which of them are
// mounted on screens, and the floating-window override map.
type StackSet struct {
	Current  Screen
	Visible  []Screen
	Hidden   []Workspace
	Floating map[Window]geom.RationalRect
}

// New builds a StackSet with one workspace per tag. The first
// len(screenDetails) tags (in order) become screens; the remainder start
// hidden. It fails if tags is empty or there are more screens than tags.
func New(defaultLayout layout.Layout, tags []string, screenDetails []ScreenDetail) (*StackSet, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("stackset: at least one workspace tag is required")
	}
	if len(screenDetails) > len(tags) {
		return nil, fmt.Errorf("stackset: %d screens but only %d workspace tags", len(screenDetails), len(tags))
	}
	if len(screenDetails) == 0 {
		return nil, fmt.Errorf("stackset: at least one screen is required")
	}

	workspaces := make([]Workspace, len(tags))
	for i, tag := range tags {
		workspaces[i] = Workspace{Tag: tag, Layout: defaultLayout}
	}

	screens := make([]Screen, len(screenDetails))
	for i, detail := range screenDetails {
		screens[i] = Screen{
			Workspace: workspaces[i],
			ID:        ScreenID(i),
			Detail:    detail,
		}
	}

	ss := &StackSet{
		Current:  screens[0],
		Visible:  append([]Screen{}, screens[1:]...),
		Hidden:   append([]Workspace{}, workspaces[len(screenDetails):]...),
		Floating: make(map[Window]geom.RationalRect),
	}
	return ss, nil
}

// clone returns a deep-enough copy of ss for a transform to mutate freely:
// every slice and map is copied, but Layout values (immutable once
// constructed, replaced wholesale rather than mutated) are shared.
func clone(ss *StackSet) *StackSet {
	visible := make([]Screen, len(ss.Visible))
	for i, s := range ss.Visible {
		visible[i] = cloneScreen(s)
	}
	hidden := make([]Workspace, len(ss.Hidden))
	for i, w := range ss.Hidden {
		hidden[i] = cloneWorkspace(w)
	}
	floating := make(map[Window]geom.RationalRect, len(ss.Floating))
	for w, r := range ss.Floating {
		floating[w] = r
	}
	return &StackSet{
		Current:  cloneScreen(ss.Current),
		Visible:  visible,
		Hidden:   hidden,
		Floating: floating,
	}
}

func cloneScreen(s Screen) Screen {
	return Screen{Workspace: cloneWorkspace(s.Workspace), ID: s.ID, Detail: s.Detail}
}

func cloneWorkspace(w Workspace) Workspace {
	return Workspace{Tag: w.Tag, Layout: w.Layout, Stack: stack.Clone(w.Stack)}
}

// allWorkspaces returns every workspace across current, visible and
// hidden, in that order.
func allWorkspaces(ss *StackSet) []Workspace {
	out := make([]Workspace, 0, 1+len(ss.Visible)+len(ss.Hidden))
	out = append(out, ss.Current.Workspace)
	for _, s := range ss.Visible {
		out = append(out, s.Workspace)
	}
	out = append(out, ss.Hidden...)
	return out
}

// screens returns every mounted screen: current followed by visible.
func screens(ss *StackSet) []Screen {
	out := make([]Screen, 0, 1+len(ss.Visible))
	out = append(out, ss.Current)
	out = append(out, ss.Visible...)
	return out
}
