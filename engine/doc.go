// Package engine provides the platform input side of the hot-reload loop.
//
// An Engine owns an input backend, translates the backend's native events
// into abstract events through a fixed binding table, and exposes a strict
// lifecycle:
//
//	Uninitialized --Initialize ok--> Initialized --Deinitialize--> Deinitialized
//	      |
//	      +--Initialize error--> Failed
//
// ReadInput is valid only while Initialized. It never blocks: each call
// drains native events until one maps to an event or the queue is empty.
// Callers drain a tick's input by calling it until it reports false.
//
// # Backends
//
// The set of backends is fixed and resolved once, at startup:
//
//	scripted  in-memory queue fed through a Script (tests, headless runs)
//	terminal  raw-mode stdin via golang.org/x/term
//	tui       bubbletea program with a styled frame view
//
// Terminals only report key presses, so the terminal and tui backends emit a
// synthetic release immediately after every press and advertise
// CapSyntheticRelease instead of CapKeyRelease.
//
// # Ownership
//
// There is no process-wide engine. A Slot holds at most one live engine and
// enforces the create/destroy protocol; the driver owns the Slot and passes
// the engine explicitly to everything that needs it.
package engine
