package engine

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/hotreload/event"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []NativeEvent
	}{
		{"letter", []byte("w"), press(KeyW, 'w')},
		{"uppercase", []byte("D"), press(KeyD, 'D')},
		{"space", []byte(" "), press(KeySpace, ' ')},
		{"enter", []byte("\r"), press(KeyReturn, 0)},
		{"escape", []byte{0x1b}, press(KeyEscape, 0)},
		{"ctrl_space", []byte{0x00}, press(KeyLCtrl, 0)},
		{"ctrl_c", []byte{0x03}, []NativeEvent{Quit()}},
		{"arrow", []byte("\x1b[A"), press(KeyArrowUp, 0)},
		{"truncated_csi", []byte("\x1b["), nil},
		{"ctrl_arrow", []byte("\x1b[1;5D"), press(KeyArrowLeft, 0)},
		{"ctrl_arrow_then_key", []byte("\x1b[1;5Dw"), append(press(KeyArrowLeft, 0), press(KeyW, 'w')...)},
		{"truncated_params", []byte("\x1b[1;5"), nil},
		{"ss3_arrow", []byte("\x1bOA"), press(KeyArrowUp, 0)},
		{"truncated_ss3", []byte("\x1bO"), nil},
		{"unbound", []byte("q"), press(KeyUnknown, 'q')},
		{"sequence", []byte("wa"), append(press(KeyW, 'w'), press(KeyA, 'a')...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeKeys(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("decodeKeys(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTerminal_ReadsFromPipe(t *testing.T) {
	var screen bytes.Buffer
	d, err := New(BackendTerminal,
		WithInput(bytes.NewReader([]byte("s\x1b[Cx\x03"))),
		WithOutput(&screen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Initialize(context.Background(), ""); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer d.Deinitialize()

	if !d.Capabilities().Has(CapSyntheticRelease) {
		t.Error("terminal should advertise synthetic releases")
	}

	want := []event.Event{event.DownPressed, event.DownReleased, event.TurnOff}
	var got []event.Event
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < len(want) && time.Now().Before(deadline) {
		if e, ok := d.ReadInput(); ok {
			got = append(got, e)
			continue
		}
		time.Sleep(time.Millisecond)
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}

	io.WriteString(d.Screen(), "frame")
	if screen.String() != "frame" {
		t.Errorf("screen = %q", screen.String())
	}
}

func TestFrameWriter(t *testing.T) {
	var sent []string
	w := &frameWriter{send: func(s string) { sent = append(sent, s) }}

	io.WriteString(w, "\b-")
	io.WriteString(w, "\b/")
	io.WriteString(w, "ab\bc")
	io.WriteString(w, "old\rnew")

	if w.String() != "new" {
		t.Errorf("line = %q, want new", w.String())
	}
	want := []string{"-", "/", "/ac", "new"}
	if len(sent) != len(want) {
		t.Fatalf("sent %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, sent[i], want[i])
		}
	}
}

func TestTUIModel_ForwardsKeys(t *testing.T) {
	events := make(chan NativeEvent, 16)
	var m tea.Model = newTUIModel(events, zap.NewNop())

	msgs := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'w'}},
		{Type: tea.KeySpace, Runes: []rune{' '}},
		{Type: tea.KeyCtrlAt},
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'x'}},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	close(events)

	var got []event.Event
	for n := range events {
		if e, ok := Translate(n); ok {
			got = append(got, e)
		}
	}

	want := []event.Event{
		event.UpPressed, event.UpReleased,
		event.Button2Pressed, event.Button2Released,
		event.Button1Pressed, event.Button1Released,
		event.StartPressed, event.StartReleased,
		event.SelectPressed, event.SelectReleased,
		event.TurnOff,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTUIModel_FrameView(t *testing.T) {
	var m tea.Model = newTUIModel(make(chan NativeEvent, 1), zap.NewNop())
	m, _ = m.Update(frameMsg("|"))
	view := m.View()
	if !bytes.Contains([]byte(view), []byte("|")) {
		t.Errorf("view %q does not show frame", view)
	}
	if !bytes.Contains([]byte(view), []byte("turn off")) {
		t.Errorf("view %q does not show help", view)
	}
}
