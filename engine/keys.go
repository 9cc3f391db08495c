package engine

import "github.com/wippyai/hotreload/event"

// Keycode identifies a physical key as reported by a backend.
type Keycode uint16

const (
	KeyUnknown Keycode = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyLCtrl
	KeySpace
	KeyEscape
	KeyReturn
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// NativeKind is the type of a backend event.
type NativeKind uint8

const (
	NativeKeyDown NativeKind = iota
	NativeKeyUp
	NativeQuit
	NativeOther
)

// NativeEvent is an untranslated backend event.
type NativeEvent struct {
	Kind NativeKind
	Key  Keycode
	Rune rune
}

// KeyDown returns a key press for k.
func KeyDown(k Keycode) NativeEvent { return NativeEvent{Kind: NativeKeyDown, Key: k} }

// KeyUp returns a key release for k.
func KeyUp(k Keycode) NativeEvent { return NativeEvent{Kind: NativeKeyUp, Key: k} }

// Quit returns the native quit signal.
func Quit() NativeEvent { return NativeEvent{Kind: NativeQuit} }

// Binding maps one physical key to its pressed/released event pair.
type Binding struct {
	Key      Keycode
	Name     string
	Pressed  event.Event
	Released event.Event
}

// Bindings is the fixed key table.
var Bindings = [8]Binding{
	{KeyW, "up", event.UpPressed, event.UpReleased},
	{KeyA, "left", event.LeftPressed, event.LeftReleased},
	{KeyS, "down", event.DownPressed, event.DownReleased},
	{KeyD, "right", event.RightPressed, event.RightReleased},
	{KeyLCtrl, "button1", event.Button1Pressed, event.Button1Released},
	{KeySpace, "button2", event.Button2Pressed, event.Button2Released},
	{KeyEscape, "select", event.SelectPressed, event.SelectReleased},
	{KeyReturn, "start", event.StartPressed, event.StartReleased},
}

// Lookup returns the binding for k.
func Lookup(k Keycode) (Binding, bool) {
	for _, b := range Bindings {
		if b.Key == k {
			return b, true
		}
	}
	return Binding{}, false
}

// Translate maps a native event to an abstract one. Unbound keys and
// unrecognized native events report false.
func Translate(n NativeEvent) (event.Event, bool) {
	switch n.Kind {
	case NativeQuit:
		return event.TurnOff, true
	case NativeKeyDown:
		if b, ok := Lookup(n.Key); ok {
			return b.Pressed, true
		}
	case NativeKeyUp:
		if b, ok := Lookup(n.Key); ok {
			return b.Released, true
		}
	}
	return 0, false
}

// press returns a press followed by a synthetic release.
func press(k Keycode, r rune) []NativeEvent {
	return []NativeEvent{
		{Kind: NativeKeyDown, Key: k, Rune: r},
		{Kind: NativeKeyUp, Key: k, Rune: r},
	}
}
