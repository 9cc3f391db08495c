package engine

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const terminalQueueSize = 256

// terminal reads raw bytes from a terminal in a background goroutine and
// queues decoded key events for the loop.
type terminal struct {
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	raw     *term.State
	events  chan NativeEvent
	stop    chan struct{}
	stopped sync.Once
	fd      int
}

func newTerminal(in io.Reader, out io.Writer, logger *zap.Logger) *terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &terminal{
		in:     in,
		out:    out,
		logger: logger,
		events: make(chan NativeEvent, terminalQueueSize),
		stop:   make(chan struct{}),
		fd:     -1,
	}
}

// open switches the terminal to raw mode unless config is "cooked". Raw mode
// is skipped silently when the input is not a terminal.
func (t *terminal) open(_ context.Context, config string) error {
	if f, ok := t.in.(*os.File); ok && config != "cooked" {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			t.fd = fd
			t.raw = state
		}
	}

	go t.readLoop()
	return nil
}

// readLoop blocks on the input. A Read cannot be interrupted, so after close
// the goroutine lingers until the next byte or process exit.
func (t *terminal) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			for _, ev := range decodeKeys(buf[:n]) {
				select {
				case t.events <- ev:
				case <-t.stop:
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Warn("terminal read failed", zap.Error(err))
			}
			return
		}
	}
}

func (t *terminal) poll() (NativeEvent, bool) {
	select {
	case ev := <-t.events:
		return ev, true
	default:
		return NativeEvent{}, false
	}
}

func (t *terminal) close() error {
	t.stopped.Do(func() { close(t.stop) })
	if t.raw != nil {
		err := term.Restore(t.fd, t.raw)
		t.raw = nil
		return err
	}
	return nil
}

func (t *terminal) capabilities() Capability {
	return CapSyntheticRelease | CapQuit | CapScreen
}

func (t *terminal) screen() io.Writer {
	return t.out
}

// decodeKeys turns a chunk of raw terminal input into native events. Every
// key byte becomes a press plus a synthetic release; Ctrl+C and Ctrl+D are
// the quit signal. CSI and SS3 sequences, modifiers included, decode to
// arrow keys, which are not in the binding table.
func decodeKeys(buf []byte) []NativeEvent {
	var out []NativeEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == 0x03 || b == 0x04:
			out = append(out, Quit())
		case b == 0x1b:
			if i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				end := sequenceEnd(buf, i+1)
				if end < len(buf) {
					out = append(out, press(arrowKey(buf[end]), 0)...)
				}
				i = end
				continue
			}
			out = append(out, press(KeyEscape, 0)...)
		case b == 0x00:
			out = append(out, press(KeyLCtrl, 0)...)
		case b == ' ':
			out = append(out, press(KeySpace, ' ')...)
		case b == '\r' || b == '\n':
			out = append(out, press(KeyReturn, 0)...)
		default:
			out = append(out, press(letterKey(b), rune(b))...)
		}
	}
	return out
}

// sequenceEnd returns the index of the final byte of the escape sequence
// whose introducer ('[' or 'O') sits at start, or len(buf) when the chunk
// ends first. CSI parameters run until a byte in 0x40-0x7E; SS3 carries a
// single final byte.
func sequenceEnd(buf []byte, start int) int {
	if buf[start] == 'O' {
		if start+1 < len(buf) {
			return start + 1
		}
		return len(buf)
	}
	for j := start + 1; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j
		}
	}
	return len(buf)
}

func arrowKey(b byte) Keycode {
	switch b {
	case 'A':
		return KeyArrowUp
	case 'B':
		return KeyArrowDown
	case 'C':
		return KeyArrowRight
	case 'D':
		return KeyArrowLeft
	}
	return KeyUnknown
}

func letterKey(b byte) Keycode {
	switch b {
	case 'w', 'W':
		return KeyW
	case 'a', 'A':
		return KeyA
	case 's', 'S':
		return KeyS
	case 'd', 'D':
		return KeyD
	}
	return KeyUnknown
}
