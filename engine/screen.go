package engine

import "unicode/utf8"

// frameWriter keeps the current output line of a game, interpreting the
// control bytes console games use to redraw in place, and publishes it after
// every write.
type frameWriter struct {
	send func(string)
	line []rune
}

func (w *frameWriter) Write(p []byte) (int, error) {
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRune(p[i:])
		i += size
		switch r {
		case '\b':
			if len(w.line) > 0 {
				w.line = w.line[:len(w.line)-1]
			}
		case '\r', '\n':
			w.line = w.line[:0]
		default:
			w.line = append(w.line, r)
		}
	}
	if w.send != nil {
		w.send(string(w.line))
	}
	return len(p), nil
}

// String returns the current line.
func (w *frameWriter) String() string {
	return string(w.line)
}
