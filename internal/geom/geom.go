// Package geom holds the geometry primitives shared by the stack set, the
// layout engine, and the operations reconciler: pixel rectangles and the
// unit-square rectangles used to keep floating windows anchored across
// screen resizes.
package geom

// Rectangle is a pixel region. Width and Height are always at least 1;
// callers that compute a non-positive dimension must clamp before
// constructing one.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// RationalRect stores a floating window's geometry as fractions of its
// screen, so the window keeps its relative position and size when the
// screen is resized or the window migrates to a different screen.
type RationalRect struct {
	X, Y, W, H float64
}

// Scale converts a RationalRect into pixel coordinates against screen.
func (r RationalRect) Scale(screen Rectangle) Rectangle {
	x := screen.X + int(r.X*float64(screen.Width))
	y := screen.Y + int(r.Y*float64(screen.Height))
	w := int(r.W * float64(screen.Width))
	h := int(r.H * float64(screen.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// FromPixels expresses rect as fractions of screen. Used when a window
// becomes floating and its current on-screen geometry must be captured.
func FromPixels(rect, screen Rectangle) RationalRect {
	if screen.Width == 0 || screen.Height == 0 {
		return RationalRect{W: 1, H: 1}
	}
	return RationalRect{
		X: float64(rect.X-screen.X) / float64(screen.Width),
		Y: float64(rect.Y-screen.Y) / float64(screen.Height),
		W: float64(rect.Width) / float64(screen.Width),
		H: float64(rect.Height) / float64(screen.Height),
	}
}

// Shrink returns rect inset by the given margins on each side, clamped so
// width and height never drop below 1.
func (r Rectangle) Shrink(top, bottom, left, right int) Rectangle {
	out := Rectangle{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// Transpose swaps X with Y and Width with Height, the operation Mirror
// layouts use to reuse a horizontal layout for a vertical arrangement.
func (r Rectangle) Transpose() Rectangle {
	return Rectangle{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}

// Gap describes per-edge screen padding reserved before a layout ever sees
// the viewport.
type Gap struct {
	Top, Bottom, Left, Right int
}
