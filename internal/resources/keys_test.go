package resources

import (
	"testing"

	"github.com/loomwm/loom/internal/x11"
)

func TestGrabKeysExpandsAcrossLockModifiers(t *testing.T) {
	server := x11.NewFake()
	server.Locks = map[string][]uint8{
		"Caps_Lock": {66},
		"Num_Lock":  {77},
	}
	server.LockMasks = map[uint8]uint16{66: 2, 77: 16}

	fired := 0
	bindings := []Binding{{Mods: 8, Keycode: 40, Action: func() { fired++ }}}

	byMods, err := GrabKeys(server, bindings)
	if err != nil {
		t.Fatalf("GrabKeys: %v", err)
	}
	// combos of {2,16}: 0, 2, 16, 18 -> 4 distinct base masks * mods 8
	if len(byMods) != 4 {
		t.Fatalf("got %d distinct mod masks, want 4", len(byMods))
	}

	Dispatch(byMods, 8, 40)
	Dispatch(byMods, 8|2, 40)
	Dispatch(byMods, 8|16, 40)
	Dispatch(byMods, 8|2|16, 40)
	if fired != 4 {
		t.Fatalf("fired = %d, want 4", fired)
	}
}

func TestGrabKeysWithNoLockModifiersGrabsOnce(t *testing.T) {
	server := x11.NewFake()
	fired := 0
	bindings := []Binding{{Mods: 8, Keycode: 40, Action: func() { fired++ }}}

	byMods, err := GrabKeys(server, bindings)
	if err != nil {
		t.Fatalf("GrabKeys: %v", err)
	}
	if len(byMods) != 1 {
		t.Fatalf("got %d distinct mod masks, want 1", len(byMods))
	}
	Dispatch(byMods, 8, 40)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}
