// Package stack implements a non-empty zipper over an ordered sequence: a
// focused element plus two lists recording what came before and after it.
package stack

// Stack is a focused element plus the elements above it (up, nearest first)
// and below it (down, nearest first). Integrating a Stack yields
// reverse(up) ++ [Focus] ++ down. The focused element never appears in Up
// or Down.
type Stack[T any] struct {
	Focus T
	Up    []T
	Down  []T
}

// New builds a Stack with the given focus and no neighbours.
func New[T any](focus T) *Stack[T] {
	return &Stack[T]{Focus: focus}
}

// Integrate flattens the zipper back into a single ordered slice, with the
// focused element restored to its position between Up (reversed) and Down.
func Integrate[T any](s *Stack[T]) []T {
	if s == nil {
		return nil
	}
	out := make([]T, 0, len(s.Up)+1+len(s.Down))
	for i := len(s.Up) - 1; i >= 0; i-- {
		out = append(out, s.Up[i])
	}
	out = append(out, s.Focus)
	out = append(out, s.Down...)
	return out
}

// Clone returns a deep copy of the zipper so callers may hold onto a
// snapshot across a mutation of the original.
func Clone[T any](s *Stack[T]) *Stack[T] {
	if s == nil {
		return nil
	}
	up := make([]T, len(s.Up))
	copy(up, s.Up)
	down := make([]T, len(s.Down))
	copy(down, s.Down)
	return &Stack[T]{Focus: s.Focus, Up: up, Down: down}
}

// FocusUp rotates the focus to the element above it, wrapping around to the
// end of Down when Up is empty.
func FocusUp[T any](s *Stack[T]) *Stack[T] {
	if s == nil {
		return nil
	}
	if len(s.Up) > 0 {
		newFocus := s.Up[0]
		up := append([]T{}, s.Up[1:]...)
		down := append([]T{s.Focus}, s.Down...)
		return &Stack[T]{Focus: newFocus, Up: up, Down: down}
	}
	// Up is empty: wrap. The new focus is the last element of the
	// integrated list, i.e. the last element of Down if any, else the
	// current focus stays put.
	if len(s.Down) == 0 {
		return Clone(s)
	}
	all := Integrate(s)
	newFocus := all[len(all)-1]
	rest := all[:len(all)-1]
	up := make([]T, len(rest))
	for i, v := range rest {
		up[len(rest)-1-i] = v
	}
	return &Stack[T]{Focus: newFocus, Up: up, Down: nil}
}

// FocusDown is the mirror image of FocusUp.
func FocusDown[T any](s *Stack[T]) *Stack[T] {
	if s == nil {
		return nil
	}
	if len(s.Down) > 0 {
		newFocus := s.Down[0]
		down := append([]T{}, s.Down[1:]...)
		up := append([]T{s.Focus}, s.Up...)
		return &Stack[T]{Focus: newFocus, Up: up, Down: down}
	}
	if len(s.Up) == 0 {
		return Clone(s)
	}
	all := Integrate(s)
	newFocus := all[0]
	rest := all[1:]
	down := append([]T{}, rest...)
	return &Stack[T]{Focus: newFocus, Up: nil, Down: down}
}

// InsertUp inserts x directly above the current focus and makes it the new
// focus. The old focus becomes the head of Down.
func InsertUp[T any](s *Stack[T], x T) *Stack[T] {
	if s == nil {
		return New(x)
	}
	up := make([]T, len(s.Up))
	copy(up, s.Up)
	down := append([]T{s.Focus}, s.Down...)
	return &Stack[T]{Focus: x, Up: up, Down: down}
}

// Filter keeps only the elements satisfying keep, preserving relative
// order and, when possible, the focused element. Returns nil if no element
// satisfies keep. If the old focus is filtered out, the new focus falls to
// the nearest surviving element below, then above.
func Filter[T any](s *Stack[T], keep func(T) bool) *Stack[T] {
	if s == nil {
		return nil
	}
	up := filterSlice(s.Up, keep)
	down := filterSlice(s.Down, keep)
	if keep(s.Focus) {
		return &Stack[T]{Focus: s.Focus, Up: up, Down: down}
	}
	if len(down) > 0 {
		return &Stack[T]{Focus: down[0], Up: up, Down: down[1:]}
	}
	if len(up) > 0 {
		return &Stack[T]{Focus: up[0], Up: up[1:], Down: nil}
	}
	return nil
}

func filterSlice[T any](xs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// Len returns the number of elements in the zipper.
func Len[T any](s *Stack[T]) int {
	if s == nil {
		return 0
	}
	return len(s.Up) + 1 + len(s.Down)
}

// Map applies f to every element, preserving structure.
func Map[T any](s *Stack[T], f func(T) T) *Stack[T] {
	if s == nil {
		return nil
	}
	up := make([]T, len(s.Up))
	for i, v := range s.Up {
		up[i] = f(v)
	}
	down := make([]T, len(s.Down))
	for i, v := range s.Down {
		down[i] = f(v)
	}
	return &Stack[T]{Focus: f(s.Focus), Up: up, Down: down}
}
