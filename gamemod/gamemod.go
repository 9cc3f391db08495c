// Package gamemod assembles game modules: WebAssembly binaries that
// implement the host ABI without any external toolchain.
//
// The default module is the console spinner. Each Update advances a glyph
// index, each Render redraws the current glyph in place with backspaces, and
// a start press resets the rotation. Options produce faulty variants used to
// exercise the host's validation and reload paths.
package gamemod

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/hotreload/abi"
	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/event"
	"github.com/wippyai/hotreload/gamemod/internal/binary"
)

// DefaultGlyphs is the spinner rotation.
const DefaultGlyphs = `-/|\`

// DefaultWidth is how many copies of the glyph each frame draws.
const DefaultWidth = 3

const (
	maxGlyphs = 64
	maxWidth  = 16

	// frameOffset is where the backspace prefix and the frame live in
	// guest memory. Glyphs occupy [0, maxGlyphs).
	frameOffset = maxGlyphs
)

type config struct {
	omit         map[string]bool
	misfit       map[string]bool
	glyphs       string
	version      uint32
	requiredCaps uint32
	width        int
	failFactory  bool
	trapUpdate   bool
}

// Option configures the assembled module.
type Option func(*config)

// WithGlyphs sets the rotation. Glyphs must be printable ASCII.
func WithGlyphs(glyphs string) Option {
	return func(c *config) { c.glyphs = glyphs }
}

// WithWidth sets how many copies of the glyph a frame draws.
func WithWidth(n int) Option {
	return func(c *config) { c.width = n }
}

// WithABIVersion overrides the version the module reports.
func WithABIVersion(v uint32) Option {
	return func(c *config) { c.version = v }
}

// WithRequiredCaps makes the factory fail unless every bit of mask is set
// in the capabilities it is given.
func WithRequiredCaps(mask uint32) Option {
	return func(c *config) { c.requiredCaps = mask }
}

// WithFactoryFailure makes the factory always return a null handle.
func WithFactoryFailure() Option {
	return func(c *config) { c.failFactory = true }
}

// WithoutExport leaves the named function unexported.
func WithoutExport(name string) Option {
	return func(c *config) { c.omit[name] = true }
}

// WithWrongSignature exports the named function with the version export's
// type instead of its own.
func WithWrongSignature(name string) Option {
	return func(c *config) { c.misfit[name] = true }
}

// WithTrappingUpdate makes every Update trap.
func WithTrappingUpdate() Option {
	return func(c *config) { c.trapUpdate = true }
}

// Build assembles a game module.
func Build(opts ...Option) ([]byte, error) {
	c := config{
		glyphs:  DefaultGlyphs,
		width:   DefaultWidth,
		version: abi.Version,
		omit:    make(map[string]bool),
		misfit:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return assemble(&c), nil
}

func (c *config) validate() error {
	if len(c.glyphs) == 0 || len(c.glyphs) > maxGlyphs {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("glyph count %d outside 1..%d", len(c.glyphs), maxGlyphs).
			Build()
	}
	for i := 0; i < len(c.glyphs); i++ {
		if g := c.glyphs[i]; g < 0x20 || g > 0x7e {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Detail("glyph %q at %d is not printable ASCII", g, i).
				Value(g).
				Build()
		}
	}
	if c.width < 1 || c.width > maxWidth {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("width %d outside 1..%d", c.width, maxWidth).
			Build()
	}
	for name := range c.omit {
		if _, ok := abi.Lookup(name); !ok {
			return errors.NotFound(errors.PhaseConfig, "export", name)
		}
	}
	for name := range c.misfit {
		if _, ok := abi.Lookup(name); !ok || name == abi.ExportVersion {
			return errors.InvalidInput(errors.PhaseConfig, "cannot mistype export "+name)
		}
	}
	return nil
}

// Type indices of the type section.
const (
	typeI32x2Void uint32 = iota // (i32, i32) -> ()
	typeVoidI32                 // () -> i32
	typeI32I32                  // (i32) -> i32
	typeI32Void                 // (i32) -> ()
)

// Global indices.
const (
	globalLive uint32 = iota
	globalIndex
	globalCaps
)

// hostWriteFunc is the function index of the imported engine.write.
const hostWriteFunc uint32 = 0

type function struct {
	name    string
	typeIdx uint32
	body    func(c *config, w *binary.Writer)
}

// functions are defined in abi.Exports order; function index i+1 because
// the host import occupies index 0.
var functions = []function{
	{abi.ExportVersion, typeVoidI32, bodyVersion},
	{abi.ExportCreate, typeI32I32, bodyCreate},
	{abi.ExportDestroy, typeI32Void, bodyDestroy},
	{abi.ExportInitialize, typeI32Void, bodyReset},
	{abi.ExportOnEvent, typeI32x2Void, bodyOnEvent},
	{abi.ExportUpdate, typeI32Void, bodyUpdate},
	{abi.ExportRender, typeI32Void, bodyRender},
}

func assemble(c *config) []byte {
	w := binary.NewWriter()
	w.Byte(0x00, 0x61, 0x73, 0x6d) // \0asm
	w.Byte(0x01, 0x00, 0x00, 0x00) // version 1

	w.Section(sectionType, func(s *binary.Writer) {
		i32 := api.ValueTypeI32
		s.U32(4)
		s.Byte(funcTypeByte, 2, i32, i32, 0)
		s.Byte(funcTypeByte, 0, 1, i32)
		s.Byte(funcTypeByte, 1, i32, 1, i32)
		s.Byte(funcTypeByte, 1, i32, 0)
	})

	w.Section(sectionImport, func(s *binary.Writer) {
		s.U32(1)
		s.Name(abi.HostModule)
		s.Name(abi.HostWrite)
		s.Byte(kindFunc)
		s.U32(typeI32x2Void)
	})

	w.Section(sectionFunction, func(s *binary.Writer) {
		s.U32(uint32(len(functions)))
		for _, f := range functions {
			s.U32(f.typeIdx)
		}
	})

	w.Section(sectionMemory, func(s *binary.Writer) {
		s.U32(1)
		s.Byte(0x00) // min only
		s.U32(1)
	})

	w.Section(sectionGlobal, func(s *binary.Writer) {
		s.U32(3)
		for range 3 {
			s.Byte(api.ValueTypeI32, 0x01) // mutable
			s.Byte(opI32Const, 0x00, opEnd)
		}
	})

	w.Section(sectionExport, func(s *binary.Writer) {
		var entries []func()
		entries = append(entries, func() {
			s.Name(abi.MemoryExport)
			s.Byte(kindMemory)
			s.U32(0)
		})
		for i, f := range functions {
			if c.omit[f.name] {
				continue
			}
			idx := uint32(i + 1)
			if c.misfit[f.name] {
				idx = 1 // the version function, () -> i32
			}
			name := f.name
			entries = append(entries, func() {
				s.Name(name)
				s.Byte(kindFunc)
				s.U32(idx)
			})
		}
		s.U32(uint32(len(entries)))
		for _, e := range entries {
			e()
		}
	})

	w.Section(sectionCode, func(s *binary.Writer) {
		s.U32(uint32(len(functions)))
		for _, f := range functions {
			body := binary.NewWriter()
			body.U32(0) // no locals
			f.body(c, body)
			body.Byte(opEnd)
			s.Vec(body.Bytes())
		}
	})

	w.Section(sectionData, func(s *binary.Writer) {
		s.U32(2)
		activeSegment(s, 0, []byte(c.glyphs))
		prefix := make([]byte, c.width)
		for i := range prefix {
			prefix[i] = '\b'
		}
		activeSegment(s, frameOffset, prefix)
	})

	return w.Bytes()
}

func activeSegment(s *binary.Writer, offset int32, data []byte) {
	s.U32(0) // active, memory 0
	s.Byte(opI32Const)
	s.S32(offset)
	s.Byte(opEnd)
	s.Vec(data)
}

func i32Const(w *binary.Writer, v int32) {
	w.Byte(opI32Const)
	w.S32(v)
}

func setGlobal(w *binary.Writer, idx uint32, v int32) {
	i32Const(w, v)
	w.Byte(opGlobalSet)
	w.U32(idx)
}

func bodyVersion(c *config, w *binary.Writer) {
	i32Const(w, int32(c.version))
}

func bodyCreate(c *config, w *binary.Writer) {
	if c.failFactory {
		i32Const(w, 0)
		return
	}
	if c.requiredCaps != 0 {
		mask := int32(c.requiredCaps)
		w.Byte(opLocalGet, 0)
		i32Const(w, mask)
		w.Byte(opI32And)
		i32Const(w, mask)
		w.Byte(opI32Ne, opIf, blockVoid)
		i32Const(w, 0)
		w.Byte(opReturn, opEnd)
	}
	w.Byte(opLocalGet, 0, opGlobalSet)
	w.U32(globalCaps)
	setGlobal(w, globalLive, 1)
	setGlobal(w, globalIndex, 0)
	i32Const(w, 1)
}

func bodyDestroy(_ *config, w *binary.Writer) {
	setGlobal(w, globalLive, 0)
}

func bodyReset(_ *config, w *binary.Writer) {
	setGlobal(w, globalIndex, 0)
}

func bodyOnEvent(_ *config, w *binary.Writer) {
	w.Byte(opLocalGet, 1)
	i32Const(w, int32(event.StartPressed))
	w.Byte(opI32Eq, opIf, blockVoid)
	setGlobal(w, globalIndex, 0)
	w.Byte(opEnd)
}

func bodyUpdate(c *config, w *binary.Writer) {
	if c.trapUpdate {
		w.Byte(opUnreachable)
		return
	}
	w.Byte(opGlobalGet)
	w.U32(globalIndex)
	i32Const(w, 1)
	w.Byte(opI32Add)
	i32Const(w, int32(len(c.glyphs)))
	w.Byte(opI32RemU, opGlobalSet)
	w.U32(globalIndex)
}

// bodyRender fills the frame after the backspace prefix with the current
// glyph and writes prefix and frame in one host call.
func bodyRender(c *config, w *binary.Writer) {
	for i := 0; i < c.width; i++ {
		i32Const(w, int32(frameOffset+c.width+i))
		w.Byte(opGlobalGet)
		w.U32(globalIndex)
		w.Byte(opI32Load8U, 0x00, 0x00) // align 0, offset 0
		w.Byte(opI32Store8, 0x00, 0x00)
	}
	i32Const(w, frameOffset)
	i32Const(w, int32(2*c.width))
	w.Byte(opCall)
	w.U32(hostWriteFunc)
}
