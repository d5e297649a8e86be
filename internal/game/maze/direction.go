// Package maze provides the shared maze model: grid cells, directions,
// clamped grid stepping, randomized generation, and layout loading.
package maze

import (
	"fmt"
	"strings"
)

// Direction is a single grid step on one axis.
//
// The numeric values are the wire values of the Direction enum.
type Direction int32

// The four movement directions.
const (
	Left Direction = iota
	Right
	Up
	Down
)

// AllDirections lists every valid Direction in wire order.
var AllDirections = []Direction{Left, Right, Up, Down}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// Flip returns the opposite direction.
//
// Postcondition: d.Flip().Flip() == d for every valid d. Invalid directions are returned unchanged.
func (d Direction) Flip() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

// String returns the lowercase name of d.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int32(d))
	}
}

// ParseDirection converts a case-insensitive direction name into a Direction.
//
// Postcondition: Returns a valid Direction or a non-nil error.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}
