package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/loomwm/loom/internal/x11"
)

var modifierNames = map[string]uint16{
	"Shift":   xproto.ModMaskShift,
	"Lock":    xproto.ModMaskLock,
	"Control": xproto.ModMaskControl,
	"Ctrl":    xproto.ModMaskControl,
	"Mod1":    xproto.ModMask1,
	"Alt":     xproto.ModMask1,
	"Mod2":    xproto.ModMask2,
	"Mod3":    xproto.ModMask3,
	"Mod4":    xproto.ModMask4,
	"Super":   xproto.ModMask4,
	"Mod5":    xproto.ModMask5,
}

// parseModifiers ORs together the modifier masks named by tokens, e.g.
// ["Mod4", "Shift"].
func parseModifiers(tokens []string) (uint16, error) {
	var mods uint16
	for _, t := range tokens {
		mask, ok := modifierNames[t]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", t)
		}
		mods |= mask
	}
	return mods, nil
}

// splitSequence splits a binding sequence like "Mod4-Shift-j" into its
// modifier tokens and trailing keysym/button token.
func splitSequence(seq string) ([]string, string, error) {
	parts := strings.Split(seq, "-")
	if len(parts) < 2 {
		return nil, "", fmt.Errorf("malformed binding %q, want Mod-key", seq)
	}
	return parts[:len(parts)-1], parts[len(parts)-1], nil
}

// parseKeyBinding resolves a config key sequence to a modifier mask and
// keycode, via the server's keysym table.
func parseKeyBinding(seq string, server x11.Server) (mods uint16, keycode uint8, err error) {
	modTokens, keysym, err := splitSequence(seq)
	if err != nil {
		return 0, 0, err
	}
	mods, err = parseModifiers(modTokens)
	if err != nil {
		return 0, 0, fmt.Errorf("key binding %q: %w", seq, err)
	}
	codes := server.KeysymToKeycodes(keysym)
	if len(codes) == 0 {
		return 0, 0, fmt.Errorf("key binding %q: no keycode for keysym %q", seq, keysym)
	}
	return mods, codes[0], nil
}

// parseButtonBinding resolves a config button sequence to a modifier mask
// and a numeric button.
func parseButtonBinding(seq string) (mods uint16, button uint8, err error) {
	modTokens, numTok, err := splitSequence(seq)
	if err != nil {
		return 0, 0, err
	}
	mods, err = parseModifiers(modTokens)
	if err != nil {
		return 0, 0, fmt.Errorf("button binding %q: %w", seq, err)
	}
	n, err := strconv.Atoi(numTok)
	if err != nil || n < 1 || n > 255 {
		return 0, 0, fmt.Errorf("button binding %q: invalid button number %q", seq, numTok)
	}
	return mods, uint8(n), nil
}
