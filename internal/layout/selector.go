package layout

import (
	"strings"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
)

// Selector holds a non-empty ordered list of layouts and forwards
// DoLayout to the head. NextLayout/PrevLayout rotate the list;
// JumpToLayout moves the first layout whose Description matches to the
// head. Before any switch, the outgoing head receives a Hide message so
// it can release transient visibility state. Any other message is
// forwarded to the head alone.
type Selector struct {
	Layouts []Layout
}

// NewSelector builds a Selector over layouts, which must be non-empty.
func NewSelector(layouts ...Layout) Selector {
	return Selector{Layouts: layouts}
}

func (s Selector) DoLayout(viewport geom.Rectangle, st *stack.Stack[Window]) ([]Placement, Layout) {
	if len(s.Layouts) == 0 {
		return nil, nil
	}
	placements, updated := s.Layouts[0].DoLayout(viewport, st)
	if updated == nil {
		return placements, nil
	}
	next := append([]Layout{}, s.Layouts...)
	next[0] = updated
	return placements, Selector{Layouts: next}
}

func (s Selector) HandleMessage(m message.Message) Layout {
	if len(s.Layouts) == 0 {
		return nil
	}

	if _, ok := message.Is[message.NextLayout](m); ok {
		return s.rotate(1)
	}
	if _, ok := message.Is[message.PrevLayout](m); ok {
		return s.rotate(-1)
	}
	if jump, ok := message.Is[message.JumpToLayout](m); ok {
		for i, l := range s.Layouts {
			if l.Description() == jump.Name {
				return s.moveToHead(i)
			}
		}
		return nil
	}

	updated := s.Layouts[0].HandleMessage(m)
	if updated == nil {
		return nil
	}
	next := append([]Layout{}, s.Layouts...)
	next[0] = updated
	return Selector{Layouts: next}
}

func (s Selector) rotate(dir int) Layout {
	if len(s.Layouts) <= 1 {
		return nil
	}
	outgoing := hide(s.Layouts[0])
	rest := append([]Layout{}, s.Layouts[1:]...)
	var next []Layout
	if dir > 0 {
		next = append(rest, outgoing)
	} else {
		next = append([]Layout{rest[len(rest)-1]}, outgoing)
		next = append(next, rest[:len(rest)-1]...)
	}
	return Selector{Layouts: next}
}

func (s Selector) moveToHead(i int) Layout {
	if i == 0 {
		return nil
	}
	outgoing := hide(s.Layouts[0])
	next := make([]Layout, 0, len(s.Layouts))
	next = append(next, s.Layouts[i])
	for j, l := range s.Layouts {
		if j == i {
			continue
		}
		if j == 0 {
			next = append(next, outgoing)
			continue
		}
		next = append(next, l)
	}
	return Selector{Layouts: next}
}

func hide(l Layout) Layout {
	if updated := l.HandleMessage(message.New(message.Hide{})); updated != nil {
		return updated
	}
	return l
}

func (s Selector) Description() string {
	if len(s.Layouts) == 0 {
		return "Selector"
	}
	return s.Layouts[0].Description()
}

func (s Selector) Encode() string {
	names := make([]string, 0, len(s.Layouts))
	for _, l := range s.Layouts {
		if enc, ok := l.(Encoder); ok {
			names = append(names, enc.Encode())
		} else {
			names = append(names, l.Description())
		}
	}
	return "selector " + strings.Join(names, ",")
}
