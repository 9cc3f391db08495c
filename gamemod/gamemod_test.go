package gamemod

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/hotreload/abi"
	"github.com/wippyai/hotreload/event"
)

func compile(t *testing.T, ctx context.Context, r wazero.Runtime, opts ...Option) wazero.CompiledModule {
	t.Helper()
	bin, err := Build(opts...)
	require.NoError(t, err)
	compiled, err := r.CompileModule(ctx, bin)
	require.NoError(t, err)
	return compiled
}

func TestBuild_ExportsMatchABI(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled := compile(t, ctx, r)
	exports := compiled.ExportedFunctions()
	for _, f := range abi.Exports {
		def, ok := exports[f.Name]
		require.True(t, ok, "export %s missing", f.Name)
		assert.True(t, f.Matches(def.ParamTypes(), def.ResultTypes()),
			"%s has %s, want %s", f.Name, abi.Signature(def.ParamTypes(), def.ResultTypes()), f.Signature())
	}
	_, ok := compiled.ExportedMemories()[abi.MemoryExport]
	assert.True(t, ok, "memory not exported")

	imports := compiled.ImportedFunctions()
	require.Len(t, imports, 1)
	mod, name, _ := imports[0].Import()
	assert.Equal(t, abi.HostModule, mod)
	assert.Equal(t, abi.HostWrite, name)
}

func TestBuild_FaultVariants(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	omitted := compile(t, ctx, r, WithoutExport(abi.ExportRender)).ExportedFunctions()
	_, ok := omitted[abi.ExportRender]
	assert.False(t, ok)
	assert.Contains(t, omitted, abi.ExportUpdate)

	mistyped := compile(t, ctx, r, WithWrongSignature(abi.ExportUpdate)).ExportedFunctions()
	def := mistyped[abi.ExportUpdate]
	require.NotNil(t, def)
	f, _ := abi.Lookup(abi.ExportUpdate)
	assert.False(t, f.Matches(def.ParamTypes(), def.ResultTypes()))
}

func TestBuild_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty_glyphs", WithGlyphs("")},
		{"non_ascii_glyph", WithGlyphs("-é")},
		{"control_glyph", WithGlyphs("-\b")},
		{"zero_width", WithWidth(0)},
		{"wide", WithWidth(maxWidth + 1)},
		{"unknown_export", WithoutExport("game_tick")},
		{"mistype_version", WithWrongSignature(abi.ExportVersion)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.opt)
			assert.Error(t, err)
		})
	}
}

// spinner instantiates a module with a host write that records frames.
type spinner struct {
	mod    api.Module
	frames *bytes.Buffer
}

func instantiate(t *testing.T, opts ...Option) (*spinner, func()) {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)

	frames := &bytes.Buffer{}
	_, err := r.NewHostModuleBuilder(abi.HostModule).
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, ptr, n uint32) {
			b, ok := m.Memory().Read(ptr, n)
			if ok {
				frames.Write(b)
			}
		}).
		Export(abi.HostWrite).
		Instantiate(ctx)
	require.NoError(t, err)

	compiled := compile(t, ctx, r, opts...)
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("game"))
	require.NoError(t, err)

	return &spinner{mod: mod, frames: frames}, func() { r.Close(ctx) }
}

func (s *spinner) call(t *testing.T, name string, args ...uint64) []uint64 {
	t.Helper()
	res, err := s.mod.ExportedFunction(name).Call(context.Background(), args...)
	require.NoError(t, err, name)
	return res
}

func (s *spinner) frame(t *testing.T, h uint64) string {
	t.Helper()
	s.frames.Reset()
	s.call(t, abi.ExportRender, h)
	return s.frames.String()
}

func TestSpinner_Rotation(t *testing.T) {
	s, done := instantiate(t)
	defer done()

	res := s.call(t, abi.ExportVersion)
	assert.Equal(t, abi.Version, api.DecodeU32(res[0]))

	h := s.call(t, abi.ExportCreate, 0)[0]
	require.NotZero(t, h)
	s.call(t, abi.ExportInitialize, h)

	assert.Equal(t, "\b\b\b---", s.frame(t, h))
	assert.Equal(t, "\b\b\b---", s.frame(t, h), "render must not advance")

	var got []string
	for range 4 {
		s.call(t, abi.ExportUpdate, h)
		got = append(got, s.frame(t, h))
	}
	assert.Equal(t, []string{"\b\b\b///", "\b\b\b|||", "\b\b\b\\\\\\", "\b\b\b---"}, got)
}

func TestSpinner_StartResets(t *testing.T) {
	s, done := instantiate(t, WithGlyphs("abc"), WithWidth(1))
	defer done()

	h := s.call(t, abi.ExportCreate, 0)[0]
	s.call(t, abi.ExportUpdate, h)
	s.call(t, abi.ExportUpdate, h)
	assert.Equal(t, "\bc", s.frame(t, h))

	s.call(t, abi.ExportOnEvent, h, uint64(event.UpPressed))
	assert.Equal(t, "\bc", s.frame(t, h))

	s.call(t, abi.ExportOnEvent, h, uint64(event.StartPressed))
	assert.Equal(t, "\ba", s.frame(t, h))
}

func TestSpinner_Factory(t *testing.T) {
	failing, done := instantiate(t, WithFactoryFailure())
	defer done()
	assert.Zero(t, failing.call(t, abi.ExportCreate, 0xff)[0])

	picky, done2 := instantiate(t, WithRequiredCaps(0x8))
	defer done2()
	assert.Zero(t, picky.call(t, abi.ExportCreate, 0x7)[0])
	assert.NotZero(t, picky.call(t, abi.ExportCreate, 0x9)[0])
}

func TestSpinner_TrappingUpdate(t *testing.T) {
	s, done := instantiate(t, WithTrappingUpdate())
	defer done()

	h := s.call(t, abi.ExportCreate, 0)[0]
	_, err := s.mod.ExportedFunction(abi.ExportUpdate).Call(context.Background(), h)
	assert.Error(t, err)
}

func TestSpinner_ABIVersionOverride(t *testing.T) {
	s, done := instantiate(t, WithABIVersion(7))
	defer done()
	assert.Equal(t, uint32(7), api.DecodeU32(s.call(t, abi.ExportVersion)[0]))
}
