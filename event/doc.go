// Package event defines the closed set of abstract input and system events
// exchanged between the engine, the driver loop, and games.
//
// Events are ordinal-stable: the numeric value of each event is part of the
// game module ABI and never changes. Every valid event has exactly one
// display name, and the mapping is bidirectional:
//
//	name, err := event.StartPressed.Name() // "start_pressed"
//	e, err := event.Parse("start_pressed") // event.StartPressed
//
// Rendering an ordinal outside the known range fails with an invalid_event
// error instead of producing a default or truncated name.
package event
