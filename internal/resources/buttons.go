package resources

import "github.com/loomwm/loom/internal/x11"

// ButtonBinding pairs a modifier/button combination with either a role
// the reducer interprets directly ("move", "resize", "focus" — these
// need the pressed window and pointer position, which a bare func()
// cannot carry) or a freestanding Action for anything else a host binds.
type ButtonBinding struct {
	Mods   uint16
	Button uint8
	Role   string
	Action func()
}

// GrabButtons grabs every binding crossed with every lock-modifier
// combination, the same expansion GrabKeys performs for the keyboard.
func GrabButtons(server x11.Server, bindings []ButtonBinding) (map[uint16][]ButtonBinding, error) {
	lockMasks := lockModifierMasks(server)

	byMods := make(map[uint16][]ButtonBinding)
	for _, b := range bindings {
		for _, extra := range lockMasks {
			mods := b.Mods | extra
			if err := server.GrabButton(mods, b.Button); err != nil {
				return nil, err
			}
			byMods[mods] = append(byMods[mods], b)
		}
	}
	return byMods, nil
}

// DispatchButton runs the freestanding actions bound to (mods, button).
// Bindings carrying a Role are the reducer's own concern (LookupButton)
// and are skipped here.
func DispatchButton(byMods map[uint16][]ButtonBinding, mods uint16, button uint8) {
	for _, b := range byMods[mods] {
		if b.Button == button && b.Role == "" && b.Action != nil {
			b.Action()
		}
	}
}

// LookupButton returns the first binding matching (mods, button), if
// any, so the reducer can special-case Role-carrying bindings (move,
// resize, focus) that need the pressed window and pointer position.
func LookupButton(byMods map[uint16][]ButtonBinding, mods uint16, button uint8) (ButtonBinding, bool) {
	for _, b := range byMods[mods] {
		if b.Button == button {
			return b, true
		}
	}
	return ButtonBinding{}, false
}
