// Package resources implements the server-facing bookkeeping that sits
// outside the pure core: expanding key bindings across lock-modifier
// combinations, trapping server errors so stale-window races don't kill
// the process, and the ICCCM window-manager handover.
package resources

import "github.com/loomwm/loom/internal/x11"

// Binding pairs the modifier/keycode combination a user configured with
// the action to run when it fires.
type Binding struct {
	Mods    uint16
	Keycode uint8
	Action  func()
}

// GrabKeys grabs every binding crossed with every subset of the lock
// modifiers (CapsLock, NumLock, ScrollLock), so a hotkey fires whether or
// not the user has any of those lock keys engaged. The three keysyms are
// fixed; the server is asked which modifier mask each one currently
// carries, and keysyms with no keycode or no modifier are skipped.
func GrabKeys(server x11.Server, bindings []Binding) (map[uint16][]Binding, error) {
	lockMasks := lockModifierMasks(server)

	byMods := make(map[uint16][]Binding)
	for _, b := range bindings {
		for _, extra := range lockMasks {
			mods := b.Mods | extra
			if err := server.GrabKey(mods, b.Keycode); err != nil {
				return nil, err
			}
			byMods[mods] = append(byMods[mods], b)
		}
	}
	return byMods, nil
}

// UngrabKeys releases every grab GrabKeys installed.
func UngrabKeys(server x11.Server) error {
	return server.UngrabAllKeys()
}

// lockModifierMasks returns every combination (including the empty one)
// of the modifier masks bound to Caps_Lock, Num_Lock and Scroll_Lock,
// deduplicated. With no lock modifiers mapped it returns just {0}.
func lockModifierMasks(server x11.Server) []uint16 {
	var base []uint16
	seen := map[uint16]bool{}
	for _, keysym := range []string{"Caps_Lock", "Num_Lock", "Scroll_Lock"} {
		mask := modifierForKeysym(server, keysym)
		if mask == 0 || seen[mask] {
			continue
		}
		seen[mask] = true
		base = append(base, mask)
	}

	combos := map[uint16]bool{0: true}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		combos[mask] = true
	}

	out := make([]uint16, 0, len(combos))
	for mask := range combos {
		out = append(out, mask)
	}
	return out
}

func modifierForKeysym(server x11.Server, keysym string) uint16 {
	for _, keycode := range server.KeysymToKeycodes(keysym) {
		if mask := server.ModifierForKeycode(keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

// Dispatch looks up the bindings grabbed for a (mods, keycode) pair and
// runs their actions. Grabs are keyed by the expanded modifier mask that
// was actually pressed, matching what the server reports in KeyPress.
func Dispatch(byMods map[uint16][]Binding, mods uint16, keycode uint8) {
	for _, b := range byMods[mods] {
		if b.Keycode == keycode {
			b.Action()
		}
	}
}
