package main

import (
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/ops"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/wmstate"
	"github.com/loomwm/loom/internal/x11"
)

// loadResumedStackSet reads the two --resume arguments (each either a
// path or inline JSON, per wmstate.ReadArg) and reconstructs the
// StackSet and extensible state they carry. defaultLayout and tags cover
// tags the resumed state doesn't know about yet, and screens reconciles
// the resumed screen count against the server's current one.
func loadResumedStackSet(stateArg, extStateArg string, defaultLayout layout.Layout, tags []string, screens []stackset.ScreenDetail) (*stackset.StackSet, map[string]string, error) {
	ssData, err := wmstate.ReadArg(stateArg)
	if err != nil {
		return nil, nil, fmt.Errorf("read resumed stackset: %w", err)
	}
	ss, err := wmstate.DecodeStackSet(ssData)
	if err != nil {
		return nil, nil, fmt.Errorf("decode resumed stackset: %w", err)
	}

	extData, err := wmstate.ReadArg(extStateArg)
	if err != nil {
		return nil, nil, fmt.Errorf("read resumed extensible state: %w", err)
	}
	extState, err := wmstate.DecodeExtState(extData)
	if err != nil {
		return nil, nil, fmt.Errorf("decode resumed extensible state: %w", err)
	}

	ss = stackset.EnsureTags(ss, defaultLayout, tags)
	if rescreened, err := stackset.RescreenDetails(ss, screens); err == nil {
		ss = rescreened
	}

	return ss, extState, nil
}

// restartInPlace serializes the live StackSet and extensible state to the
// runtime directory and re-execs the binary with --resume pointing at
// the two files it just wrote. A failure before the exec is logged and
// leaves the process running; a failed exec, which comes after the
// connection is closed, is logged and exits the process.
func restartInPlace(server *x11.XGBServer, o *ops.Ops, extState map[string]string, logger *slog.Logger) {
	dir, err := wmstate.RuntimeDir()
	if err != nil {
		logger.Error("restart: resolve runtime dir", "error", err)
		return
	}

	ssData, err := wmstate.EncodeStackSet(o.WindowSet())
	if err != nil {
		logger.Error("restart: encode stackset", "error", err)
		return
	}
	ssPath := wmstate.StackSetPath(dir)
	if err := wmstate.WriteArg(ssPath, ssData); err != nil {
		logger.Error("restart: write stackset", "error", err)
		return
	}

	extData, err := wmstate.EncodeExtState(extState)
	if err != nil {
		logger.Error("restart: encode extensible state", "error", err)
		return
	}
	extPath := wmstate.ExtStatePath(dir)
	if err := wmstate.WriteArg(extPath, extData); err != nil {
		logger.Error("restart: write extensible state", "error", err)
		return
	}

	exe, err := os.Executable()
	if err != nil {
		logger.Error("restart: resolve own executable", "error", err)
		return
	}

	logger.Info("restarting in place", "exe", exe)
	server.Close()

	argv := []string{exe, "--resume", ssPath, extPath}
	if err := syscall.Exec(exe, argv, os.Environ()); err != nil {
		logger.Error("restart: exec failed", "error", err)
		os.Exit(1)
	}
}
