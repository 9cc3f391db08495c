package engine

import (
	"context"
	"errors"
	"testing"

	herrors "github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/event"
)

func TestTranslate_Bindings(t *testing.T) {
	tests := []struct {
		key      Keycode
		pressed  event.Event
		released event.Event
	}{
		{KeyW, event.UpPressed, event.UpReleased},
		{KeyA, event.LeftPressed, event.LeftReleased},
		{KeyS, event.DownPressed, event.DownReleased},
		{KeyD, event.RightPressed, event.RightReleased},
		{KeyLCtrl, event.Button1Pressed, event.Button1Released},
		{KeySpace, event.Button2Pressed, event.Button2Released},
		{KeyEscape, event.SelectPressed, event.SelectReleased},
		{KeyReturn, event.StartPressed, event.StartReleased},
	}

	for _, tt := range tests {
		t.Run(tt.pressed.String(), func(t *testing.T) {
			got, ok := Translate(KeyDown(tt.key))
			if !ok || got != tt.pressed {
				t.Errorf("Translate(down %d) = %v, %v; want %v", tt.key, got, ok, tt.pressed)
			}
			got, ok = Translate(KeyUp(tt.key))
			if !ok || got != tt.released {
				t.Errorf("Translate(up %d) = %v, %v; want %v", tt.key, got, ok, tt.released)
			}
		})
	}
}

func TestTranslate_QuitAndUnbound(t *testing.T) {
	if got, ok := Translate(Quit()); !ok || got != event.TurnOff {
		t.Errorf("Translate(quit) = %v, %v; want turn_off", got, ok)
	}

	unbound := []NativeEvent{
		KeyDown(KeyArrowUp),
		KeyUp(KeyUnknown),
		{Kind: NativeOther},
	}
	for _, n := range unbound {
		if got, ok := Translate(n); ok {
			t.Errorf("Translate(%+v) = %v, want no event", n, got)
		}
	}
}

func TestBindings_Unique(t *testing.T) {
	seen := make(map[event.Event]bool)
	for _, b := range Bindings {
		if seen[b.Pressed] || seen[b.Released] {
			t.Errorf("binding %q reuses an event", b.Name)
		}
		seen[b.Pressed] = true
		seen[b.Released] = true
		if !b.Pressed.IsPress() || !b.Released.IsRelease() {
			t.Errorf("binding %q has mismatched press/release pair", b.Name)
		}
	}
	if len(seen) != 16 {
		t.Errorf("bindings cover %d events, want 16", len(seen))
	}
}

func TestDevice_Lifecycle(t *testing.T) {
	ctx := context.Background()
	script := NewScript()
	d, err := New(BackendScripted, WithScript(script))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	script.Press(KeyW)
	if _, ok := d.ReadInput(); ok {
		t.Error("ReadInput before Initialize should report no event")
	}

	if err := d.Initialize(ctx, ""); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := d.Initialize(ctx, ""); err != nil {
		t.Errorf("second Initialize should be a no-op, got %v", err)
	}
	if d.State() != StateInitialized {
		t.Errorf("State = %v, want initialized", d.State())
	}

	if err := d.Deinitialize(); err != nil {
		t.Fatalf("Deinitialize: %v", err)
	}
	if !script.Closed() {
		t.Error("backend should be closed")
	}

	err = d.Deinitialize()
	if !errors.Is(err, &herrors.Error{Phase: herrors.PhaseInput, Kind: herrors.KindProtocolViolation}) {
		t.Errorf("second Deinitialize: got %v, want protocol violation", err)
	}
	if err := d.Initialize(ctx, ""); err == nil {
		t.Error("Initialize after Deinitialize should fail")
	}
	if _, ok := d.ReadInput(); ok {
		t.Error("ReadInput after Deinitialize should report no event")
	}
}

func TestDevice_InitializeFailure(t *testing.T) {
	ctx := context.Background()
	script := NewScript()
	script.FailInitialize(errors.New("no input device"))
	d, err := New(BackendScripted, WithScript(script))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = d.Initialize(ctx, "")
	if err == nil {
		t.Fatal("expected Initialize to fail")
	}
	if err.Error() == "" {
		t.Error("diagnostic must not be empty")
	}
	if d.State() != StateFailed {
		t.Errorf("State = %v, want failed", d.State())
	}

	script.FailInitialize(nil)
	if err2 := d.Initialize(ctx, ""); err2 != err {
		t.Errorf("retry after failure should return the original diagnostic, got %v", err2)
	}
	if err := d.Deinitialize(); err == nil {
		t.Error("Deinitialize after failed Initialize should fail")
	}
}

func TestDevice_ReadInputDrainsAndDrops(t *testing.T) {
	script := NewScript()
	d, _ := New(BackendScripted, WithScript(script))
	if err := d.Initialize(context.Background(), ""); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer d.Deinitialize()

	script.Push(
		KeyDown(KeyArrowLeft),
		KeyDown(KeyD),
		NativeEvent{Kind: NativeOther},
		KeyUp(KeyArrowLeft),
		KeyUp(KeyD),
		Quit(),
	)

	var got []event.Event
	for {
		e, ok := d.ReadInput()
		if !ok {
			break
		}
		got = append(got, e)
	}

	want := []event.Event{event.RightPressed, event.RightReleased, event.TurnOff}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if script.Pending() != 0 {
		t.Errorf("queue not drained: %d pending", script.Pending())
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(Backend("sdl")); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := ParseBackend("sdl"); err == nil {
		t.Error("expected ParseBackend error")
	}
	for _, b := range Backends() {
		got, err := ParseBackend(string(b))
		if err != nil || got != b {
			t.Errorf("ParseBackend(%q) = %q, %v", b, got, err)
		}
	}
}

func TestCapability(t *testing.T) {
	c := CapKeyRelease | CapQuit
	if !c.Has(CapQuit) || c.Has(CapScreen) {
		t.Errorf("Has mismatch for %v", c)
	}
	if got := c.String(); got != "key_release|quit" {
		t.Errorf("String = %q", got)
	}
	if got := Capability(0).String(); got != "none" {
		t.Errorf("String = %q, want none", got)
	}
}
