package reducer

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/loomwm/loom/internal/geom"
	"github.com/loomwm/loom/internal/layout"
	"github.com/loomwm/loom/internal/ops"
	"github.com/loomwm/loom/internal/resources"
	"github.com/loomwm/loom/internal/stackset"
	"github.com/loomwm/loom/internal/x11"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) (*Reducer, *ops.Ops, *x11.Fake) {
	t.Helper()
	server := x11.NewFake()
	ss, err := stackset.New(layout.Full{}, []string{"1", "2"}, []stackset.ScreenDetail{
		{Rect: geom.Rectangle{X: 0, Y: 0, Width: 1000, Height: 800}},
	})
	if err != nil {
		t.Fatalf("stackset.New: %v", err)
	}
	o := ops.New(server, testLogger(), ss, ops.Config{FocusedColor: 1, NormalColor: 2})
	r := New(o, server, testLogger(), nil, nil, false)
	return r, o, server
}

func TestMapRequestManagesNewWindow(t *testing.T) {
	r, o, server := newFixture(t)
	if err := r.HandleEvent(Input{Kind: MapRequest, Window: 1}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if !stackset.Member(o.WindowSet(), 1) {
		t.Fatalf("window 1 not managed")
	}
	if !server.Mapped[1] {
		t.Fatalf("window 1 not mapped")
	}
}

func TestMapRequestIgnoresOverrideRedirect(t *testing.T) {
	r, o, _ := newFixture(t)
	if err := r.HandleEvent(Input{Kind: MapRequest, Window: 1, OverrideRedirect: true}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if stackset.Member(o.WindowSet(), 1) {
		t.Fatalf("override-redirect window should not be managed")
	}
}

func TestDestroyNotifyUnmanagesKnownWindow(t *testing.T) {
	r, o, _ := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})
	if err := r.HandleEvent(Input{Kind: DestroyNotify, Window: 1}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if stackset.Member(o.WindowSet(), 1) {
		t.Fatalf("window 1 still managed after DestroyNotify")
	}
}

func TestUnmapNotifyDecrementsExpectedCounter(t *testing.T) {
	r, o, _ := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})
	_ = o.Hide(1)
	if err := r.HandleEvent(Input{Kind: UnmapNotify, Window: 1}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if !stackset.Member(o.WindowSet(), 1) {
		t.Fatalf("manager-initiated unmap should not unmanage the window")
	}
	if o.WaitingUnmap(1) != 0 {
		t.Fatalf("WaitingUnmap = %d, want 0 after consuming the expected unmap", o.WaitingUnmap(1))
	}
}

func TestUnmapNotifyWithNoWaitingUnmapUnmanages(t *testing.T) {
	r, o, _ := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})
	if err := r.HandleEvent(Input{Kind: UnmapNotify, Window: 1}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if stackset.Member(o.WindowSet(), 1) {
		t.Fatalf("client-initiated unmap should unmanage the window")
	}
}

func TestKeyPressDispatchesBoundAction(t *testing.T) {
	server := x11.NewFake()
	ss, _ := stackset.New(layout.Full{}, []string{"1"}, []stackset.ScreenDetail{{Rect: geom.Rectangle{Width: 800, Height: 600}}})
	o := ops.New(server, testLogger(), ss, ops.Config{})
	fired := 0
	keyBindings := map[uint16][]resources.Binding{
		8: {{Mods: 8, Keycode: 40, Action: func() { fired++ }}},
	}
	r := New(o, server, testLogger(), keyBindings, nil, false)

	if err := r.HandleEvent(Input{Kind: KeyPress, Mods: 8, Keycode: 40}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestButtonPressChildFocusesAndReplays(t *testing.T) {
	r, o, server := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 2})

	if err := r.HandleEvent(Input{Kind: ButtonPressChild, Window: 1}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	focused, ok := stackset.Peek(o.WindowSet())
	if !ok || focused != 1 {
		t.Fatalf("focused = %v, want window 1", focused)
	}
	if len(server.Calls) == 0 {
		t.Fatalf("expected at least one recorded server call")
	}
}

func TestConfigureRequestHonoursFloatingGeometry(t *testing.T) {
	r, o, server := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})
	_ = o.Float(1, geom.RationalRect{X: 0.1, Y: 0.1, W: 0.2, H: 0.2})

	rect := geom.Rectangle{X: 10, Y: 10, Width: 50, Height: 50}
	if err := r.HandleEvent(Input{Kind: ConfigureRequest, Window: 1, Rect: rect}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if server.Geometry[1] != rect {
		t.Fatalf("floating window geometry = %+v, want %+v", server.Geometry[1], rect)
	}
}

func TestConfigureRequestOnTiledWindowEchoesPlacedGeometry(t *testing.T) {
	r, o, server := newFixture(t)
	_ = r.HandleEvent(Input{Kind: MapRequest, Window: 1})

	placed, ok := o.PlacedRect(1)
	if !ok {
		t.Fatalf("window 1 has no placed geometry after being managed")
	}

	requested := geom.Rectangle{X: 999, Y: 999, Width: 10, Height: 10}
	if err := r.HandleEvent(Input{Kind: ConfigureRequest, Window: 1, Rect: requested}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	want := fmt.Sprintf("synthetic-configure %d %+v border=%d", Window(1), placed, 0)
	var got string
	for _, call := range server.Calls {
		if call == want {
			got = call
		}
	}
	if got == "" {
		t.Fatalf("no synthetic-configure call echoing placed geometry %+v; calls: %v", placed, server.Calls)
	}
}

func TestConfigureNotifyRootTriggersRescreen(t *testing.T) {
	r, o, server := newFixture(t)
	server.DisplayRects = []geom.Rectangle{
		{Width: 1000, Height: 800},
		{X: 1000, Width: 800, Height: 600},
	}
	if err := r.HandleEvent(Input{Kind: ConfigureNotifyRoot}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(stackset.Screens(o.WindowSet())) != 2 {
		t.Fatalf("got %d screens, want 2 after rescreen", len(stackset.Screens(o.WindowSet())))
	}
}

func TestMappingNotifyRebuildsKeyBindings(t *testing.T) {
	r, _, _ := newFixture(t)

	rebuilt := map[uint16][]resources.Binding{
		4: {{Mods: 4, Keycode: 50, Action: func() {}}},
	}
	calls := 0
	r.SetRebuildKeys(func() (map[uint16][]resources.Binding, error) {
		calls++
		return rebuilt, nil
	})

	if err := r.HandleEvent(Input{Kind: MappingNotify}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if calls != 1 {
		t.Fatalf("rebuild callback called %d times, want 1", calls)
	}

	fired := 0
	rebuilt[4][0].Action = func() { fired++ }
	if err := r.HandleEvent(Input{Kind: KeyPress, Mods: 4, Keycode: 50}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1 after rebuilt bindings took effect", fired)
	}
}

func TestMappingNotifyWithoutRebuildCallbackIsNoop(t *testing.T) {
	r, _, _ := newFixture(t)
	if err := r.HandleEvent(Input{Kind: MappingNotify}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
}

func TestClientMessageRestartReturnsErrRestart(t *testing.T) {
	r, _, _ := newFixture(t)
	err := r.HandleEvent(Input{Kind: ClientMessage, Restart: true})
	if _, ok := err.(ErrRestart); !ok {
		t.Fatalf("err = %v, want ErrRestart", err)
	}
}

func TestPanicInsideHandlerIsRecovered(t *testing.T) {
	r, _, server := newFixture(t)
	keyBindings := map[uint16][]resources.Binding{
		0: {{Mods: 0, Keycode: 1, Action: func() { panic("boom") }}},
	}
	r.keyBindings = keyBindings
	_ = server

	if err := r.HandleEvent(Input{Kind: KeyPress, Mods: 0, Keycode: 1}); err != nil {
		t.Fatalf("HandleEvent returned error after recovered panic: %v", err)
	}
}
