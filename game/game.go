// Package game defines the contract between the driver loop and a game.
//
// A game is constructed by a module factory and then driven once per tick:
//
//	Initialize                 once, before the first Update
//	OnEvent                    once per drained input event, in order
//	Update, Render             once per tick, after events
//
// Render must not mutate game state. TurnOff is never delivered to OnEvent.
package game

import (
	"context"

	"github.com/wippyai/hotreload/event"
)

// Game is the polymorphic unit the driver steps.
type Game interface {
	Initialize(ctx context.Context) error
	OnEvent(ctx context.Context, e event.Event) error
	Update(ctx context.Context) error
	Render(ctx context.Context) error
}
