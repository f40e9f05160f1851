package layout

import (
	"fmt"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
)

// Tall places NMaster windows in a left column sized Frac of the
// viewport's width and the remainder in a right column, each column split
// evenly among its members. Resize messages adjust Frac by ±Delta;
// IncMasterN adjusts NMaster. If there are no more windows than NMaster,
// or NMaster is zero, one column spans the full viewport.
type Tall struct {
	NMaster int
	Delta   float64
	Frac    float64
}

// NewTall returns the master/stack tiling layout with the given starting
// parameters, clamping Frac into [0,1] and NMaster to be non-negative.
func NewTall(nmaster int, delta, frac float64) Tall {
	if nmaster < 0 {
		nmaster = 0
	}
	return Tall{NMaster: nmaster, Delta: delta, Frac: clamp01(frac)}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (t Tall) DoLayout(viewport geom.Rectangle, s *stack.Stack[Window]) ([]Placement, Layout) {
	if s == nil {
		return nil, nil
	}
	all := stack.Integrate(s)
	n := len(all)

	if n <= t.NMaster || t.NMaster == 0 {
		return tileColumn(all, viewport), nil
	}

	masterWidth := int(float64(viewport.Width) * t.Frac)
	masters := all[:t.NMaster]
	stackWins := all[t.NMaster:]

	placements := make([]Placement, 0, n)
	placements = append(placements, tileColumn(masters, geom.Rectangle{
		X: viewport.X, Y: viewport.Y, Width: masterWidth, Height: viewport.Height,
	})...)
	placements = append(placements, tileColumn(stackWins, geom.Rectangle{
		X: viewport.X + masterWidth, Y: viewport.Y,
		Width: viewport.Width - masterWidth, Height: viewport.Height,
	})...)
	return placements, nil
}

// tileColumn splits rect evenly among wins, top to bottom. Any rounding
// slack is absorbed by the last window so the union still covers rect.
func tileColumn(wins []Window, rect geom.Rectangle) []Placement {
	if len(wins) == 0 {
		return nil
	}
	h := rect.Height / len(wins)
	out := make([]Placement, len(wins))
	y := rect.Y
	for i, w := range wins {
		thisH := h
		if i == len(wins)-1 {
			thisH = rect.Height - (h * (len(wins) - 1))
		}
		out[i] = Placement{Window: w, Rect: geom.Rectangle{X: rect.X, Y: y, Width: rect.Width, Height: thisH}}
		y += thisH
	}
	return out
}

func (t Tall) HandleMessage(m message.Message) Layout {
	if r, ok := message.Is[message.Resize](m); ok {
		switch r.Direction {
		case message.Shrink:
			return Tall{NMaster: t.NMaster, Delta: t.Delta, Frac: clamp01(t.Frac - t.Delta)}
		case message.Expand:
			return Tall{NMaster: t.NMaster, Delta: t.Delta, Frac: clamp01(t.Frac + t.Delta)}
		}
	}
	if inc, ok := message.Is[message.IncMasterN](m); ok {
		n := t.NMaster + inc.Delta
		if n < 0 {
			n = 0
		}
		return Tall{NMaster: n, Delta: t.Delta, Frac: t.Frac}
	}
	return nil
}

func (t Tall) Description() string { return "Tall" }

func (t Tall) Encode() string {
	return fmt.Sprintf("tall %d %g %g", t.NMaster, t.Delta, t.Frac)
}
