// Package movement holds the collision rule shared by the authoritative
// server and client-side prediction.
package movement

import "github.com/cory-johannsen/mazeio/internal/game/maze"

// Candidate returns the position one cell from p in direction d, saturated at
// the outer edge of m rather than rejected.
func Candidate(p maze.Position, m *maze.Maze, d maze.Direction) maze.Position {
	return maze.Step(p, d, m.Bounds(), 1)
}

// MoveIfValid moves *p one cell in direction d when the destination is Open.
//
// Precondition: p and m must be non-nil.
// Postcondition: Returns true and updates *p iff the clamped candidate cell is Open;
// otherwise *p is unchanged and false is returned.
func MoveIfValid(p *maze.Position, m *maze.Maze, d maze.Direction) bool {
	if !d.Valid() {
		return false
	}
	next := Candidate(*p, m, d)
	if m.At(next) != maze.Open {
		return false
	}
	*p = next
	return true
}
