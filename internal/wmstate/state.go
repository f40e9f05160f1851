// Package wmstate persists the window manager's in-memory StackSet and
// its extensible scratch map across a restart, the way the reference
// workspace registry persists session bookkeeping: JSON, written under
// XDG_RUNTIME_DIR with os.WriteFile, read back on the next process's
// --resume.
package wmstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/stack"
	"github.com/loomwm/loom/internal/stackset"
)

// Window mirrors stackset.Window without importing wintype directly,
// keeping this package's wire format independent of internal type
// aliasing changes.
type Window = stackset.Window

// wireStack is the JSON-safe shape of a *stack.Stack[Window]; nil when
// the workspace the stack belongs to is empty.
type wireStack struct {
	Focus Window   `json:"focus"`
	Up    []Window `json:"up,omitempty"`
	Down  []Window `json:"down,omitempty"`
}

type wireWorkspace struct {
	Tag    string     `json:"tag"`
	Layout string     `json:"layout"`
	Stack  *wireStack `json:"stack,omitempty"`
}

type wireScreen struct {
	Workspace wireWorkspace `json:"workspace"`
	ID        int           `json:"id"`
	Detail    wireDetail    `json:"detail"`
}

type wireDetail struct {
	Rect geom.Rectangle `json:"rect"`
	Gap  geom.Gap       `json:"gap"`
}

type wireStackSet struct {
	Current  wireScreen                   `json:"current"`
	Visible  []wireScreen                 `json:"visible"`
	Hidden   []wireWorkspace              `json:"hidden"`
	Floating map[Window]geom.RationalRect `json:"floating"`
}

// EncodeStackSet serializes ss to JSON, encoding each workspace's layout
// through the layout.Encoder interface rather than Go's own type
// information, since a Layout interface value can't be unmarshaled on
// its own.
func EncodeStackSet(ss *stackset.StackSet) ([]byte, error) {
	doc := wireStackSet{Floating: ss.Floating}

	current, err := encodeScreen(ss.Current)
	if err != nil {
		return nil, err
	}
	doc.Current = current

	for _, scr := range ss.Visible {
		w, err := encodeScreen(scr)
		if err != nil {
			return nil, err
		}
		doc.Visible = append(doc.Visible, w)
	}

	for _, ws := range ss.Hidden {
		w, err := encodeWorkspace(ws)
		if err != nil {
			return nil, err
		}
		doc.Hidden = append(doc.Hidden, w)
	}

	return json.MarshalIndent(&doc, "", "  ")
}

// DecodeStackSet reverses EncodeStackSet, reconstructing each
// workspace's Layout via layout.Decode.
func DecodeStackSet(data []byte) (*stackset.StackSet, error) {
	var doc wireStackSet
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wmstate: decode stackset: %w", err)
	}

	current, err := decodeScreen(doc.Current)
	if err != nil {
		return nil, err
	}

	visible := make([]stackset.Screen, 0, len(doc.Visible))
	for _, w := range doc.Visible {
		scr, err := decodeScreen(w)
		if err != nil {
			return nil, err
		}
		visible = append(visible, scr)
	}

	hidden := make([]stackset.Workspace, 0, len(doc.Hidden))
	for _, w := range doc.Hidden {
		ws, err := decodeWorkspace(w)
		if err != nil {
			return nil, err
		}
		hidden = append(hidden, ws)
	}

	floating := doc.Floating
	if floating == nil {
		floating = make(map[Window]geom.RationalRect)
	}

	return &stackset.StackSet{
		Current:  current,
		Visible:  visible,
		Hidden:   hidden,
		Floating: floating,
	}, nil
}

// EncodeExtState serializes the opaque extensible-state map. Each key's
// own serialization is the concern of whoever registered it; this
// package only carries the map across a restart unexamined.
func EncodeExtState(m map[string]string) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// DecodeExtState reverses EncodeExtState.
func DecodeExtState(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("wmstate: decode extstate: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func encodeScreen(s stackset.Screen) (wireScreen, error) {
	ws, err := encodeWorkspace(s.Workspace)
	if err != nil {
		return wireScreen{}, err
	}
	return wireScreen{
		Workspace: ws,
		ID:        int(s.ID),
		Detail:    wireDetail{Rect: s.Detail.Rect, Gap: s.Detail.Gap},
	}, nil
}

func decodeScreen(w wireScreen) (stackset.Screen, error) {
	ws, err := decodeWorkspace(w.Workspace)
	if err != nil {
		return stackset.Screen{}, err
	}
	return stackset.Screen{
		Workspace: ws,
		ID:        stackset.ScreenID(w.ID),
		Detail:    stackset.ScreenDetail{Rect: w.Detail.Rect, Gap: w.Detail.Gap},
	}, nil
}

func encodeWorkspace(ws stackset.Workspace) (wireWorkspace, error) {
	encoded := "full"
	if ws.Layout != nil {
		enc, ok := ws.Layout.(layout.Encoder)
		if !ok {
			return wireWorkspace{}, fmt.Errorf("wmstate: layout %q for workspace %q does not implement Encoder", ws.Layout.Description(), ws.Tag)
		}
		encoded = enc.Encode()
	}

	var wireStk *wireStack
	if ws.Stack != nil {
		wireStk = &wireStack{
			Focus: ws.Stack.Focus,
			Up:    append([]Window{}, ws.Stack.Up...),
			Down:  append([]Window{}, ws.Stack.Down...),
		}
	}

	return wireWorkspace{Tag: ws.Tag, Layout: encoded, Stack: wireStk}, nil
}

func decodeWorkspace(w wireWorkspace) (stackset.Workspace, error) {
	l, err := layout.Decode(w.Layout)
	if err != nil {
		return stackset.Workspace{}, fmt.Errorf("wmstate: workspace %q: %w", w.Tag, err)
	}

	var s *stack.Stack[Window]
	if w.Stack != nil {
		s = &stack.Stack[Window]{
			Focus: w.Stack.Focus,
			Up:    append([]Window{}, w.Stack.Up...),
			Down:  append([]Window{}, w.Stack.Down...),
		}
	}

	return stackset.Workspace{Tag: w.Tag, Layout: l, Stack: s}, nil
}

// RuntimeDir resolves the directory resume files are written to:
// XDG_RUNTIME_DIR if set, otherwise a per-uid /tmp directory, mirroring
// the reference workspace registry's own statePath fallback.
func RuntimeDir() (string, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = fmt.Sprintf("/tmp/wm-runtime-%d", os.Getuid())
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("wmstate: create runtime dir: %w", err)
	}
	return dir, nil
}

// StackSetPath and ExtStatePath name the default resume files inside dir.
func StackSetPath(dir string) string { return filepath.Join(dir, "stackset.json") }
func ExtStatePath(dir string) string { return filepath.Join(dir, "extstate.json") }

// WriteArg writes data to path for use as a --resume argument.
func WriteArg(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}

// ReadArg resolves a --resume argument: if it names an existing file, its
// contents are read; otherwise arg is treated as inline JSON, the escape
// hatch for callers that pass serialized state directly on argv instead
// of through a file.
func ReadArg(arg string) ([]byte, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("wmstate: read %s: %w", arg, err)
		}
		return data, nil
	}
	return []byte(arg), nil
}
