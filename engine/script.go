package engine

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Script is the event queue behind the scripted backend. It is safe to push
// events from other goroutines while the loop drains them.
type Script struct {
	failInit error
	queue    []NativeEvent
	out      lockedBuffer
	mu       sync.Mutex
	closed   bool
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{}
}

// Push appends native events to the queue.
func (s *Script) Push(evs ...NativeEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, evs...)
	s.mu.Unlock()
}

// Press queues a press and release of k.
func (s *Script) Press(k Keycode) {
	s.Push(KeyDown(k), KeyUp(k))
}

// Quit queues the native quit signal.
func (s *Script) Quit() {
	s.Push(Quit())
}

// FailInitialize makes the next Initialize fail with err.
func (s *Script) FailInitialize(err error) {
	s.mu.Lock()
	s.failInit = err
	s.mu.Unlock()
}

// Pending returns the number of queued native events.
func (s *Script) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Output returns everything games rendered so far.
func (s *Script) Output() string {
	return s.out.String()
}

// Closed reports whether the backend was closed.
func (s *Script) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Script) open(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInit != nil {
		return s.failInit
	}
	return nil
}

func (s *Script) poll() (NativeEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return NativeEvent{}, false
	}
	n := s.queue[0]
	s.queue = s.queue[1:]
	return n, true
}

func (s *Script) close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Script) capabilities() Capability {
	return CapKeyRelease | CapQuit | CapScreen
}

func (s *Script) screen() io.Writer {
	return &s.out
}

type lockedBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
