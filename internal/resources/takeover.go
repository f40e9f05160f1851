package resources

import (
	"github.com/loomwm/loom/internal/wmerr"
	"github.com/loomwm/loom/internal/x11"
)

// TakeOverWM implements the ICCCM window-manager handover: acquire
// WM_S<screen>, waiting for the previous owner to relinquish it first
// when replace is set. If replace is false and a selection owner
// already exists, it returns AnotherWMRunning so cmd/wm can exit with a
// diagnostic instead of fighting the incumbent manager for windows.
func TakeOverWM(server x11.Server, screen int, replace bool) error {
	if !replace {
		if _, exists, err := server.SelectionOwnerExists(screen); err != nil {
			return err
		} else if exists {
			return &wmerr.AnotherWMRunning{Screen: screen}
		}
	}
	return server.AcquireWMSelection(screen)
}
