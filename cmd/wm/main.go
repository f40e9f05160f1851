// Command wm is the loom window manager daemon: it takes over the X
// display, builds or resumes a StackSet from host configuration, and
// runs the event reducer until asked to restart or the connection dies.
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/loomwm/loom/internal/config"
	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/ops"
	"github.com/loomwm/loom/internal/reducer"
	"github.com/loomwm/loom/internal/resources"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/wmerr"
	"github.com/loomwm/loom/internal/x11"
)

const restartAtomName = "LOOM_WM_RESTART"

func main() {
	replace, resumeState, resumeExt, resuming, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	server, err := x11.Connect()
	if err != nil {
		logger.Error("connect to X server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	if err := resources.TakeOverWM(server, 0, replace); err != nil {
		if _, ok := err.(*wmerr.AnotherWMRunning); ok {
			logger.Error(err.Error())
		} else {
			logger.Error("take over window manager", "error", err)
		}
		os.Exit(1)
	}

	rects, err := server.Displays()
	if err != nil {
		logger.Error("query displays", "error", err)
		os.Exit(1)
	}
	screens := make([]stackset.ScreenDetail, len(rects))
	for i, r := range rects {
		screens[i] = stackset.ScreenDetail{Rect: r, Gap: asGeomGap(cfg.Gap)}
	}

	defaultLayout, err := buildDefaultLayout(cfg.Layouts)
	if err != nil {
		logger.Error("build default layout", "error", err)
		os.Exit(1)
	}

	var ss *stackset.StackSet
	extState := map[string]string{}
	if resuming {
		ss, extState, err = loadResumedStackSet(resumeState, resumeExt, defaultLayout, cfg.Tags, screens)
		if err != nil {
			logger.Error("resume", "error", err)
			os.Exit(1)
		}
	} else {
		ss, err = stackset.New(defaultLayout, cfg.Tags, screens)
		if err != nil {
			logger.Error("build stackset", "error", err)
			os.Exit(1)
		}
	}

	o := ops.New(server, logger, ss, ops.Config{
		BorderWidth:  cfg.BorderWidth,
		FocusedColor: cfg.Border.Focused,
		NormalColor:  cfg.Border.Normal,
	})

	restart := func() { restartInPlace(server, o, extState, logger) }

	rawKeys, err := buildKeyBindings(cfg.Keys, server, o, restart, logger)
	if err != nil {
		logger.Error("build key bindings", "error", err)
		os.Exit(1)
	}
	keyBindings, err := resources.GrabKeys(server, rawKeys)
	if err != nil {
		logger.Error("grab keys", "error", err)
		os.Exit(1)
	}

	rawButtons, err := buildButtonBindings(cfg.Buttons)
	if err != nil {
		logger.Error("build button bindings", "error", err)
		os.Exit(1)
	}
	buttonBindings, err := resources.GrabButtons(server, rawButtons)
	if err != nil {
		logger.Error("grab buttons", "error", err)
		os.Exit(1)
	}

	if err := server.SelectRootInput(rootEventMask); err != nil {
		logger.Error("select root input", "error", err)
		os.Exit(1)
	}

	restartAtom, err := internAtom(server.XUtil().Conn(), restartAtomName)
	if err != nil {
		logger.Error("intern restart atom", "error", err)
		os.Exit(1)
	}

	r := reducer.New(o, server, logger, keyBindings, buttonBindings, cfg.FocusFollowsMouse)
	r.SetRebuildKeys(func() (map[uint16][]resources.Binding, error) {
		if err := resources.UngrabKeys(server); err != nil {
			logger.Warn("ungrab keys failed", "error", err)
		}
		rawKeys, err := buildKeyBindings(cfg.Keys, server, o, restart, logger)
		if err != nil {
			return nil, err
		}
		return resources.GrabKeys(server, rawKeys)
	})

	if err := publishEWMH(server, o.WindowSet(), cfg.Tags); err != nil {
		logger.Warn("publish EWMH state failed", "error", err)
	}

	logger.Info("loom running", "tags", cfg.Tags, "screens", len(screens), "resumed", resuming)
	runEventLoop(server, r, restartAtom, logger, restart)
}

// parseArgs hand-rolls the tiny CLI surface this daemon needs:
// --replace and --resume <stackset-arg> <extstate-arg>. The two-argument
// shape of --resume doesn't fit the standard flag package's model of a
// flag taking at most one value, so argv is walked directly.
func parseArgs(args []string) (replace bool, resumeState, resumeExt string, resuming bool, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--replace":
			replace = true
		case "--resume":
			if i+2 >= len(args) {
				return false, "", "", false, fmt.Errorf("--resume requires two arguments: <serialized-stackset> <serialized-extstate>")
			}
			resumeState, resumeExt = args[i+1], args[i+2]
			resuming = true
			i += 2
		default:
			return false, "", "", false, fmt.Errorf("unrecognized argument %q", args[i])
		}
	}
	return replace, resumeState, resumeExt, resuming, nil
}

// buildDefaultLayout wraps the configured layout stack in a Selector, the
// per-workspace layout every newly created or newly ensured-tag
// workspace starts on.
func buildDefaultLayout(names []string) (layout.Layout, error) {
	layouts := make([]layout.Layout, 0, len(names))
	for _, name := range names {
		l, err := layout.ByName(name)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layout.NewSelector(layouts...), nil
}

func asGeomGap(g config.Gap) geom.Gap {
	return geom.Gap{Top: g.Top, Bottom: g.Bottom, Left: g.Left, Right: g.Right}
}

// publishEWMH writes the panel/pager-facing properties a resumed or
// freshly built StackSet starts with.
func publishEWMH(server x11.Server, ss *stackset.StackSet, tags []string) error {
	current := 0
	for i, tag := range tags {
		if tag == ss.Current.Workspace.Tag {
			current = i
			break
		}
	}
	return server.PublishEWMHState(tags, current, stackset.AllWindows(ss))
}

const rootEventMask = uint32(xproto.EventMaskSubstructureNotify |
	xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange)

// internAtom interns a custom atom used to recognise the restart
// ClientMessage an external controller sends to the root window.
func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
