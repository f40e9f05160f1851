package layout

import (
	"testing"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
)

// stackOf builds a Stack with ws[0] focused and the rest following it in
// order, so Integrate(stackOf(ws...)) == ws.
func stackOf(ws ...Window) *stack.Stack[Window] {
	if len(ws) == 0 {
		return nil
	}
	return &stack.Stack[Window]{Focus: ws[0], Down: ws[1:]}
}

func TestFullPlacesEveryWindowAtViewport(t *testing.T) {
	viewport := geom.Rectangle{X: 0, Y: 0, Width: 1024, Height: 768}
	s := stackOf(1, 2, 3)
	placements, updated := Full{}.DoLayout(viewport, s)
	if updated != nil {
		t.Fatalf("Full.DoLayout returned a layout update, want nil")
	}
	if len(placements) != 3 {
		t.Fatalf("got %d placements, want 3", len(placements))
	}
	for _, p := range placements {
		if p.Rect != viewport {
			t.Fatalf("placement %v != viewport %v", p.Rect, viewport)
		}
	}
	if placements[len(placements)-1].Window != s.Focus {
		t.Fatalf("focused window must be placed last (on top)")
	}
}

func TestTallRectsCoverViewportWithoutOverlap(t *testing.T) {
	viewport := geom.Rectangle{X: 0, Y: 0, Width: 1000, Height: 100}
	s := stackOf(1, 2, 3, 4, 5)
	tall := NewTall(1, 0.05, 0.6)
	placements, updated := tall.DoLayout(viewport, s)
	if updated != nil {
		t.Fatalf("DoLayout returned an update with no message sent")
	}
	if len(placements) != 5 {
		t.Fatalf("got %d placements, want 5", len(placements))
	}

	area := 0
	for _, p := range placements {
		r := p.Rect
		if r.X < viewport.X || r.Y < viewport.Y ||
			r.X+r.Width > viewport.X+viewport.Width ||
			r.Y+r.Height > viewport.Y+viewport.Height {
			t.Fatalf("placement %+v escapes viewport %+v", r, viewport)
		}
		area += r.Width * r.Height
	}
	viewportArea := viewport.Width * viewport.Height
	slack := len(placements) - 1
	if diff := viewportArea - area; diff < 0 || diff > slack*viewport.Height {
		t.Fatalf("placements cover %d px, viewport is %d px, slack budget exceeded", area, viewportArea)
	}
}

func TestTallSingleColumnWhenWindowCountAtOrBelowMaster(t *testing.T) {
	viewport := geom.Rectangle{X: 0, Y: 0, Width: 800, Height: 600}
	s := stackOf(1, 2)
	tall := NewTall(2, 0.05, 0.5)
	placements, _ := tall.DoLayout(viewport, s)
	for _, p := range placements {
		if p.Rect.Width != viewport.Width {
			t.Fatalf("expected full-width column when windows <= nmaster, got %+v", p.Rect)
		}
	}
}

func TestTallResizeMessagesClampFrac(t *testing.T) {
	tall := NewTall(1, 0.9, 0.5)
	shrunk := tall.HandleMessage(message.New(message.Resize{Direction: message.Shrink})).(Tall)
	if shrunk.Frac != 0 {
		t.Fatalf("Frac = %v, want clamped to 0", shrunk.Frac)
	}
	expanded := tall.HandleMessage(message.New(message.Resize{Direction: message.Expand})).(Tall)
	if expanded.Frac != 1 {
		t.Fatalf("Frac = %v, want clamped to 1", expanded.Frac)
	}
}

func TestTallIncMasterNClampsAtZero(t *testing.T) {
	tall := NewTall(0, 0.05, 0.5)
	got := tall.HandleMessage(message.New(message.IncMasterN{Delta: -5})).(Tall)
	if got.NMaster != 0 {
		t.Fatalf("NMaster = %d, want clamped to 0", got.NMaster)
	}
}

func TestMirrorOfMirrorMatchesOriginal(t *testing.T) {
	viewport := geom.Rectangle{X: 0, Y: 0, Width: 1000, Height: 500}
	s := stackOf(1, 2, 3)
	tall := NewTall(1, 0.05, 0.6)

	direct, _ := tall.DoLayout(viewport, s)
	doubled, _ := Mirror{Wrapped: Mirror{Wrapped: tall}}.DoLayout(viewport, s)

	if len(direct) != len(doubled) {
		t.Fatalf("placement count differs: %d vs %d", len(direct), len(doubled))
	}
	for i := range direct {
		if direct[i] != doubled[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, direct[i], doubled[i])
		}
	}
}

func TestMirrorTransposesViewport(t *testing.T) {
	viewport := geom.Rectangle{X: 0, Y: 0, Width: 200, Height: 100}
	s := stackOf(1, 2)
	placements, _ := Mirror{Wrapped: NewTall(1, 0.05, 0.5)}.DoLayout(viewport, s)
	// Tall stacks windows side by side in its own (transposed) frame, so
	// mirrored output stacks them top to bottom in the caller's frame.
	if placements[0].Rect.Width != viewport.Width {
		t.Fatalf("mirrored Tall should produce full-width rows, got %+v", placements[0].Rect)
	}
}

func TestSelectorNextLayoutRotates(t *testing.T) {
	a, b, c := Full{}, NewTall(1, 0.05, 0.5), Full{}
	sel := NewSelector(a, b, c)
	updated := sel.HandleMessage(message.New(message.NextLayout{}))
	rotated, ok := updated.(Selector)
	if !ok {
		t.Fatalf("NextLayout returned %T, want Selector", updated)
	}
	if len(rotated.Layouts) != 3 {
		t.Fatalf("rotated selector has %d layouts, want 3", len(rotated.Layouts))
	}
	if rotated.Layouts[0] != b {
		t.Fatalf("head after NextLayout = %v, want %v", rotated.Layouts[0], b)
	}
	if rotated.Layouts[2] != a {
		t.Fatalf("tail after NextLayout = %v, want original head %v", rotated.Layouts[2], a)
	}
}

func TestSelectorPrevLayoutRotatesTheOtherWay(t *testing.T) {
	a, b, c := Full{}, NewTall(1, 0.05, 0.5), NewTall(2, 0.05, 0.4)
	sel := NewSelector(a, b, c)
	updated := sel.HandleMessage(message.New(message.PrevLayout{})).(Selector)
	if updated.Layouts[0] != c {
		t.Fatalf("head after PrevLayout = %v, want %v", updated.Layouts[0], c)
	}
}

func TestSelectorJumpToLayoutByName(t *testing.T) {
	a, b := Full{}, NewTall(1, 0.05, 0.5)
	sel := NewSelector(a, b)
	updated := sel.HandleMessage(message.New(message.JumpToLayout{Name: "Tall"})).(Selector)
	if updated.Layouts[0] != b {
		t.Fatalf("head after JumpToLayout = %v, want Tall", updated.Layouts[0])
	}
}

func TestSelectorSingleLayoutRotationIsNoOp(t *testing.T) {
	sel := NewSelector(Full{})
	if updated := sel.HandleMessage(message.New(message.NextLayout{})); updated != nil {
		t.Fatalf("rotating a single-element selector should be a no-op, got %v", updated)
	}
}

func TestSelectorForwardsUnknownMessageToHead(t *testing.T) {
	sel := NewSelector(NewTall(1, 0.05, 0.5), Full{})
	updated := sel.HandleMessage(message.New(message.Resize{Direction: message.Expand})).(Selector)
	head := updated.Layouts[0].(Tall)
	if head.Frac <= 0.5 {
		t.Fatalf("Resize(Expand) forwarded to head should have grown Frac, got %v", head.Frac)
	}
}
