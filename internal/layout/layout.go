// Package layout implements the polymorphic placement interface every
// workspace's arrangement algorithm satisfies, plus the minimum built-in
// library: Full, Tall, Mirror and Selector. A window a layout omits from
// its placements is hidden; the order placements are returned in is the
// stacking order Operations restacks windows into.
package layout

import (
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
	"github.com/loomwm/loom/internal/wintype"
)

// Window is the handle a layout positions. Layouts never construct one.
type Window = wintype.Window

// Placement pairs a window with the rectangle DoLayout wants it drawn at.
type Placement struct {
	Window Window
	Rect   geom.Rectangle
}

// Layout is anything that can arrange a non-empty stack of windows inside
// a viewport, and that can react to a message by producing a replacement
// of itself. A nil second DoLayout/HandleMessage result means "no
// change" — the caller keeps using the receiver.
type Layout interface {
	DoLayout(viewport geom.Rectangle, s *stack.Stack[Window]) ([]Placement, Layout)
	HandleMessage(m message.Message) Layout
	Description() string
}

// Encode and Decode round-trip a Layout through text for the resume path.
// Every built-in in this package implements Encoder; Decode is supplied
// by the registry in registry.go so resume can reconstruct the right
// concrete type from its encoded kind tag.
type Encoder interface {
	Encode() string
}
