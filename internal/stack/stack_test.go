package stack

import (
	"reflect"
	"testing"
)

func TestIntegrate(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: []int{4, 5}}
	got := Integrate(s)
	want := []int{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Integrate() = %v, want %v", got, want)
	}
}

func TestFocusUpDownRoundTrip(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: []int{4, 5}}
	up := FocusUp(s)
	back := FocusDown(up)
	if !reflect.DeepEqual(back, s) {
		t.Fatalf("FocusDown(FocusUp(s)) = %+v, want %+v", back, s)
	}
	down := FocusDown(s)
	back2 := FocusUp(down)
	if !reflect.DeepEqual(back2, s) {
		t.Fatalf("FocusUp(FocusDown(s)) = %+v, want %+v", back2, s)
	}
}

func TestFocusUpWrapsAround(t *testing.T) {
	s := &Stack[int]{Focus: 1, Up: nil, Down: []int{2, 3}}
	got := FocusUp(s)
	if got.Focus != 3 {
		t.Fatalf("FocusUp wrap: focus = %d, want 3", got.Focus)
	}
	if !reflect.DeepEqual(Integrate(got), []int{1, 2, 3}) {
		t.Fatalf("FocusUp wrap changed order: %v", Integrate(got))
	}
}

func TestFocusDownWrapsAround(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: nil}
	got := FocusDown(s)
	if got.Focus != 1 {
		t.Fatalf("FocusDown wrap: focus = %d, want 1", got.Focus)
	}
	if !reflect.DeepEqual(Integrate(got), []int{1, 2, 3}) {
		t.Fatalf("FocusDown wrap changed order: %v", Integrate(got))
	}
}

func TestFocusUpDownSingleton(t *testing.T) {
	s := New(1)
	if FocusUp(s).Focus != 1 || FocusDown(s).Focus != 1 {
		t.Fatalf("focus rotation on singleton must be identity")
	}
}

func TestInsertUp(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: []int{4}}
	got := InsertUp(s, 99)
	if got.Focus != 99 {
		t.Fatalf("InsertUp focus = %d, want 99", got.Focus)
	}
	want := []int{1, 2, 99, 3, 4}
	if !reflect.DeepEqual(Integrate(got), want) {
		t.Fatalf("Integrate(InsertUp) = %v, want %v", Integrate(got), want)
	}
}

func TestFilterDropsFocusFallsToDown(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: []int{4, 5}}
	got := Filter(s, func(x int) bool { return x != 3 })
	if got.Focus != 4 {
		t.Fatalf("Filter focus = %d, want 4 (next in down)", got.Focus)
	}
	if !reflect.DeepEqual(Integrate(got), []int{1, 2, 4, 5}) {
		t.Fatalf("Integrate(Filter) = %v", Integrate(got))
	}
}

func TestFilterDropsFocusFallsToUpWhenDownEmpty(t *testing.T) {
	s := &Stack[int]{Focus: 3, Up: []int{2, 1}, Down: nil}
	got := Filter(s, func(x int) bool { return x != 3 })
	if got.Focus != 2 {
		t.Fatalf("Filter focus = %d, want 2 (next in up)", got.Focus)
	}
}

func TestFilterEverythingRemovedIsNil(t *testing.T) {
	s := New(1)
	got := Filter(s, func(int) bool { return false })
	if got != nil {
		t.Fatalf("Filter() = %+v, want nil", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := &Stack[int]{Focus: 1, Up: []int{2}, Down: []int{3}}
	c := Clone(s)
	c.Up[0] = 99
	if s.Up[0] == 99 {
		t.Fatalf("Clone shares backing array with original")
	}
}
