package wmstate

import (
	"path/filepath"
	"testing"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/message"
	"github.com/loomwm/loom/internal/stack"
	"github.com/loomwm/loom/internal/stackset"
)

func sampleStackSet() *stackset.StackSet {
	return &stackset.StackSet{
		Current: stackset.Screen{
			Workspace: stackset.Workspace{
				Tag:    "1",
				Layout: layout.Mirror{Wrapped: layout.NewTall(1, 0.03, 0.5)},
				Stack:  &stack.Stack[Window]{Focus: 10, Up: []Window{9}, Down: []Window{11, 12}},
			},
			ID:     0,
			Detail: stackset.ScreenDetail{Rect: geom.Rectangle{X: 0, Y: 0, Width: 1920, Height: 1080}, Gap: geom.Gap{Top: 4, Bottom: 4, Left: 4, Right: 4}},
		},
		Visible: []stackset.Screen{},
		Hidden: []stackset.Workspace{
			{Tag: "2", Layout: layout.Full{}, Stack: nil},
			{Tag: "3", Layout: layout.Selector{Layouts: []layout.Layout{layout.Full{}, layout.NewTall(2, 0.05, 0.6)}}},
		},
		Floating: map[Window]geom.RationalRect{
			20: {X: 0.1, Y: 0.1, W: 0.3, H: 0.3},
		},
	}
}

func TestEncodeDecodeStackSetRoundTrip(t *testing.T) {
	want := sampleStackSet()

	data, err := EncodeStackSet(want)
	if err != nil {
		t.Fatalf("EncodeStackSet: %v", err)
	}

	got, err := DecodeStackSet(data)
	if err != nil {
		t.Fatalf("DecodeStackSet: %v", err)
	}

	if got.Current.Workspace.Tag != "1" {
		t.Fatalf("Current.Workspace.Tag = %q, want 1", got.Current.Workspace.Tag)
	}
	if got.Current.Workspace.Layout.Description() != "Mirror Tall" {
		t.Fatalf("Current.Workspace.Layout.Description() = %q, want %q",
			got.Current.Workspace.Layout.Description(), "Mirror Tall")
	}
	if got.Current.Workspace.Stack.Focus != 10 {
		t.Fatalf("Stack.Focus = %d, want 10", got.Current.Workspace.Stack.Focus)
	}
	if len(got.Hidden) != 2 || got.Hidden[0].Tag != "2" {
		t.Fatalf("Hidden = %+v", got.Hidden)
	}
	if got.Hidden[1].Layout.Description() == "" {
		t.Fatalf("Selector layout lost its description on round trip")
	}
	rect, ok := got.Floating[20]
	if !ok || rect.W != 0.3 {
		t.Fatalf("Floating[20] = %+v, ok=%v", rect, ok)
	}
}

func TestEncodeStackSetRejectsLayoutWithoutEncoder(t *testing.T) {
	ss := sampleStackSet()
	ss.Current.Workspace.Layout = unencodableLayout{}

	if _, err := EncodeStackSet(ss); err == nil {
		t.Fatalf("EncodeStackSet = nil, want error for a layout with no Encoder")
	}
}

type unencodableLayout struct{}

func (unencodableLayout) DoLayout(viewport geom.Rectangle, s *stack.Stack[Window]) ([]layout.Placement, layout.Layout) {
	return nil, nil
}
func (unencodableLayout) HandleMessage(message.Message) layout.Layout { return nil }
func (unencodableLayout) Description() string                        { return "unencodable" }

func TestExtStateRoundTrip(t *testing.T) {
	want := map[string]string{"last-layout-index": "1", "status-gap": "18"}

	data, err := EncodeExtState(want)
	if err != nil {
		t.Fatalf("EncodeExtState: %v", err)
	}

	got, err := DecodeExtState(data)
	if err != nil {
		t.Fatalf("DecodeExtState: %v", err)
	}
	if got["last-layout-index"] != "1" || got["status-gap"] != "18" {
		t.Fatalf("ExtState = %+v, want %+v", got, want)
	}
}

func TestDecodeExtStateOfEmptyIsEmptyMap(t *testing.T) {
	got, err := DecodeExtState(nil)
	if err != nil {
		t.Fatalf("DecodeExtState: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("DecodeExtState(nil) = %+v, want empty map", got)
	}
}

func TestReadArgFallsBackToInlineJSON(t *testing.T) {
	inline := `{"a":"b"}`
	data, err := ReadArg(inline)
	if err != nil {
		t.Fatalf("ReadArg: %v", err)
	}
	if string(data) != inline {
		t.Fatalf("ReadArg(inline) = %q, want %q", data, inline)
	}
}

func TestWriteArgThenReadArgFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stackset.json")
	want := []byte(`{"hello":"world"}`)

	if err := WriteArg(path, want); err != nil {
		t.Fatalf("WriteArg: %v", err)
	}
	got, err := ReadArg(path)
	if err != nil {
		t.Fatalf("ReadArg: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("ReadArg(path) = %q, want %q", got, want)
	}
}
