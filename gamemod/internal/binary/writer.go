// Package binary writes the primitive encodings of the WebAssembly binary
// format.
package binary

import "bytes"

// Writer accumulates an encoded module or section body.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b ...byte) {
	w.buf.Write(b)
}

// U32 writes an unsigned LEB128 uint32.
func (w *Writer) U32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// S32 writes a signed LEB128 int32, the immediate of i32.const.
func (w *Writer) S32(v int32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			w.buf.WriteByte(b)
			return
		}
		w.buf.WriteByte(b | 0x80)
	}
}

// Name writes a length-prefixed UTF-8 name.
func (w *Writer) Name(s string) {
	w.U32(uint32(len(s)))
	w.buf.WriteString(s)
}

// Vec writes a length-prefixed byte vector.
func (w *Writer) Vec(data []byte) {
	w.U32(uint32(len(data)))
	w.buf.Write(data)
}

// Section writes a section with the given id and the body built by fn.
func (w *Writer) Section(id byte, fn func(body *Writer)) {
	body := NewWriter()
	fn(body)
	w.buf.WriteByte(id)
	w.Vec(body.Bytes())
}
