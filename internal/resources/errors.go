package resources

import (
	"log/slog"

	"github.com/loomwm/loom/internal/wmerr"
)

// TrapErrors wraps a server round trip, logging a ServerError at Warn
// instead of propagating it. Most server errors here are BadWindow or
// BadMatch on a window that was destroyed between the event naming it
// and the operation that followed — expected traffic, not a bug.
func TrapErrors(logger *slog.Logger, op string, call func() error) {
	if err := call(); err != nil {
		wrapped := &wmerr.ServerError{Op: op, Err: err}
		logger.Warn("server call failed", "error", wrapped)
	}
}
