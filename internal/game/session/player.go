// Package session provides the authoritative player registry for the
// single shared maze session.
package session

import "github.com/cory-johannsen/mazeio/internal/game/maze"

// Player is a snapshot of one connected player's state.
//
// Values of Player are copies; mutating one never affects the registry.
type Player struct {
	// ID is the opaque unique player identifier handed to clients.
	ID string
	// Name is the display name supplied on join.
	Name string
	// Position is always an Open cell of the session maze.
	Position maze.Position
	// Alive is false only in the final snapshot broadcast on disconnect.
	Alive bool
}

// MoveResult is the outcome of a Registry.Mutate call.
type MoveResult struct {
	// Player is the post-move snapshot (unchanged when the move was rejected).
	Player Player
	// Moved reports whether the position changed.
	Moved bool
}
