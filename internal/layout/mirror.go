package layout

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
)

// Mirror wraps any layout, transposing its input viewport and output
// rectangles (x↔y, w↔h) so a horizontal arrangement becomes vertical and
// vice versa. Mirror(Mirror(L)) places windows identically to L, since
// transposing twice is the identity.
type Mirror struct {
	Wrapped Layout
}

func (m Mirror) DoLayout(viewport geom.Rectangle, s *stack.Stack[Window]) ([]Placement, Layout) {
	placements, updated := m.Wrapped.DoLayout(viewport.Transpose(), s)
	out := make([]Placement, len(placements))
	for i, p := range placements {
		out[i] = Placement{Window: p.Window, Rect: p.Rect.Transpose()}
	}
	if updated == nil {
		return out, nil
	}
	return out, Mirror{Wrapped: updated}
}

func (m Mirror) HandleMessage(msg message.Message) Layout {
	updated := m.Wrapped.HandleMessage(msg)
	if updated == nil {
		return nil
	}
	return Mirror{Wrapped: updated}
}

func (m Mirror) Description() string { return "Mirror " + m.Wrapped.Description() }

func (m Mirror) Encode() string {
	if enc, ok := m.Wrapped.(Encoder); ok {
		return "mirror " + enc.Encode()
	}
	return "mirror"
}
