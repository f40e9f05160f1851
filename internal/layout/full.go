package layout

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
)

// Full gives every window the entire viewport; only the focused window is
// visible above the rest, but all are placed identically so switching
// focus never triggers a resize.
type Full struct{}

func (Full) DoLayout(viewport geom.Rectangle, s *stack.Stack[Window]) ([]Placement, Layout) {
	if s == nil {
		return nil, nil
	}
	all := stack.Integrate(s)
	placements := make([]Placement, 0, len(all))
	// Focused window last so it stacks above its siblings.
	for _, w := range all {
		if w == s.Focus {
			continue
		}
		placements = append(placements, Placement{Window: w, Rect: viewport})
	}
	placements = append(placements, Placement{Window: s.Focus, Rect: viewport})
	return placements, nil
}

func (Full) HandleMessage(message.Message) Layout { return nil }

func (Full) Description() string { return "Full" }

func (Full) Encode() string { return "full" }
