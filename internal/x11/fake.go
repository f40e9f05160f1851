package x11

import (
	"fmt"

	"github.com/loomwm/loom/internal/geom"
)

// Fake is an in-memory Server used by internal/ops and internal/reducer
// tests, exactly the way this codebase's platform.Backend abstraction let
// the reference tiler run under go test without a real display. It
// records every call it receives so tests can assert on them.
type Fake struct {
	DisplayRects []geom.Rectangle

	Mapped    map[Window]bool
	Geometry  map[Window]geom.Rectangle
	Stacking  []Window
	Focused   Window
	FocusedOK bool
	Borders   map[Window]uint32
	Hints     map[Window]SizeHints
	Transient map[Window]Window
	Deletable map[Window]bool
	WMState   map[Window]int
	Killed    map[Window]bool
	Deleted   map[Window]bool

	Calls []string

	// Locks and LockMasks let tests stand up a keyboard mapping for
	// KeysymToKeycodes/ModifierForKeycode without a real display.
	Locks     map[string][]uint8
	LockMasks map[uint8]uint16

	owners map[int]Window
}

// NewFake returns a Fake seeded with a single 1024x768 display.
func NewFake() *Fake {
	return &Fake{
		DisplayRects: []geom.Rectangle{{Width: 1024, Height: 768}},
		Mapped:       map[Window]bool{},
		Geometry:     map[Window]geom.Rectangle{},
		Borders:      map[Window]uint32{},
		Hints:        map[Window]SizeHints{},
		Transient:    map[Window]Window{},
		Deletable:    map[Window]bool{},
		WMState:      map[Window]int{},
		Killed:       map[Window]bool{},
		Deleted:      map[Window]bool{},
		owners:       map[int]Window{},
	}
}

func (f *Fake) log(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) Displays() ([]geom.Rectangle, error) { return f.DisplayRects, nil }

func (f *Fake) MoveResizeWindow(w Window, r geom.Rectangle) error {
	f.Geometry[w] = r
	f.log("moveresize %d %+v", w, r)
	return nil
}

func (f *Fake) MapWindow(w Window) error {
	f.Mapped[w] = true
	f.log("map %d", w)
	return nil
}

func (f *Fake) UnmapWindow(w Window) error {
	f.Mapped[w] = false
	f.log("unmap %d", w)
	return nil
}

func (f *Fake) RestackWindows(order []Window) error {
	f.Stacking = append([]Window{}, order...)
	f.log("restack %v", order)
	return nil
}

func (f *Fake) SetInputFocus(w Window) error {
	f.Focused, f.FocusedOK = w, true
	f.log("focus %d", w)
	return nil
}

func (f *Fake) FocusRoot() error {
	f.Focused, f.FocusedOK = 0, false
	f.log("focus root")
	return nil
}

func (f *Fake) SetBorderWidth(Window, int) error { return nil }

func (f *Fake) SetBorderColor(w Window, rgb uint32) error {
	f.Borders[w] = rgb
	return nil
}

func (f *Fake) SelectInput(Window, uint32) error { return nil }

func (f *Fake) GetGeometry(w Window) (geom.Rectangle, bool) {
	r, ok := f.Geometry[w]
	return r, ok
}

func (f *Fake) GetNormalHints(w Window) (SizeHints, bool) {
	h, ok := f.Hints[w]
	return h, ok
}

func (f *Fake) GetTransientFor(w Window) (Window, bool) {
	t, ok := f.Transient[w]
	return t, ok
}

func (f *Fake) SupportsDeleteWindow(w Window) bool { return f.Deletable[w] }

func (f *Fake) SetWMState(w Window, state int) error {
	f.WMState[w] = state
	return nil
}

func (f *Fake) SendDeleteWindow(w Window) error {
	f.log("delete %d", w)
	return nil
}

func (f *Fake) KillClient(w Window) error {
	f.Killed[w] = true
	return nil
}

func (f *Fake) SendSyntheticConfigure(w Window, r geom.Rectangle, borderWidth int) error {
	f.log("synthetic-configure %d %+v border=%d", w, r, borderWidth)
	return nil
}

func (f *Fake) SelectRootInput(uint32) error { return nil }
func (f *Fake) GrabKey(uint16, uint8) error  { return nil }
func (f *Fake) UngrabAllKeys() error         { return nil }
func (f *Fake) GrabButton(uint16, uint8) error { return nil }
func (f *Fake) ReplayPointer() error {
	f.log("replay pointer")
	return nil
}

func (f *Fake) QueryPointer() (int, int, error) { return 0, 0, nil }

func (f *Fake) PublishEWMHState([]string, int, []Window) error { return nil }

func (f *Fake) AcquireWMSelection(screen int) error {
	f.owners[screen] = 1
	return nil
}

func (f *Fake) ReleaseWMSelection(screen int) error {
	delete(f.owners, screen)
	return nil
}

func (f *Fake) SelectionOwnerExists(screen int) (Window, bool, error) {
	w, ok := f.owners[screen]
	return w, ok, nil
}

func (f *Fake) KeysymToKeycodes(keysym string) []uint8 { return f.Locks[keysym] }

func (f *Fake) ModifierForKeycode(keycode uint8) uint16 { return f.LockMasks[keycode] }
