// Package abi names the contract between the host and a game module.
//
// A game module is a WebAssembly core module. It exports a linear memory
// and the functions listed in Exports, and may import the host functions
// of the HostModule namespace. The version export must report Version;
// modules built against another version are rejected before any game is
// created.
package abi

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// Version is the ABI version this host implements.
const Version uint32 = 1

// Host import namespace and functions.
const (
	HostModule = "engine"
	// HostWrite is write(ptr, len i32): copy guest memory to the screen.
	HostWrite = "write"
)

// MemoryExport is the name of the exported linear memory.
const MemoryExport = "memory"

// Export names.
const (
	ExportVersion    = "hotreload_abi_version"
	ExportCreate     = "game_create"
	ExportDestroy    = "game_destroy"
	ExportInitialize = "game_initialize"
	ExportOnEvent    = "game_on_event"
	ExportUpdate     = "game_update"
	ExportRender     = "game_render"
)

// Func is the signature of a required export.
type Func struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

var (
	i32   = []api.ValueType{api.ValueTypeI32}
	i32x2 = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
)

// Exports lists every required function export in declaration order.
var Exports = []Func{
	{Name: ExportVersion, Results: i32},
	{Name: ExportCreate, Params: i32, Results: i32},
	{Name: ExportDestroy, Params: i32},
	{Name: ExportInitialize, Params: i32},
	{Name: ExportOnEvent, Params: i32x2},
	{Name: ExportUpdate, Params: i32},
	{Name: ExportRender, Params: i32},
}

// Lookup returns the required signature of the named export.
func Lookup(name string) (Func, bool) {
	for _, f := range Exports {
		if f.Name == name {
			return f, true
		}
	}
	return Func{}, false
}

// Signature formats the function type as "(i32,i32)->()".
func (f Func) Signature() string {
	return Signature(f.Params, f.Results)
}

// Matches reports whether params and results equal the required signature.
func (f Func) Matches(params, results []api.ValueType) bool {
	return equal(f.Params, params) && equal(f.Results, results)
}

// Signature formats a function type.
func Signature(params, results []api.ValueType) string {
	var b strings.Builder
	writeTypes(&b, params)
	b.WriteString("->")
	writeTypes(&b, results)
	return b.String()
}

func writeTypes(b *strings.Builder, ts []api.ValueType) {
	b.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(api.ValueTypeName(t))
	}
	b.WriteByte(')')
}

func equal(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
