package maze

import (
	"errors"
	"fmt"
)

// MaxOpenCells bounds open_cells_x and open_cells_y so grid dimensions stay small
// enough to index and to send in a single message.
const MaxOpenCells = 4096

// Dimension returns the grid size needed for open room cells along one axis.
// The result is always odd so room cells sit on odd coordinates with a wall
// row or column between neighbours.
func Dimension(open uint32) uint32 {
	d := open * 2
	if d%2 == 0 {
		d++
	}
	return d
}

// Generate carves a maze of openX*openY room cells.
//
// A cursor starts on the room at (1,1) and repeatedly jumps two cells in a
// random direction, clamped to the room lattice. Landing on a Wall opens it
// together with the single cell between it and the previous cursor position,
// so every new room is attached to an already-open one. Generation stops once
// every room has been opened.
//
// Precondition: 1 <= openX, openY <= MaxOpenCells; src must be non-nil.
// Postcondition: width and height are odd, exactly openX*openY room cells plus
// openX*openY-1 corridor cells are Open, and all of them are reachable from Start.
func Generate(openX, openY uint32, src Source) (*Maze, error) {
	if openX < 1 || openY < 1 {
		return nil, fmt.Errorf("open cells must be >= 1, got %dx%d", openX, openY)
	}
	if openX > MaxOpenCells || openY > MaxOpenCells {
		return nil, fmt.Errorf("open cells must be <= %d, got %dx%d", MaxOpenCells, openX, openY)
	}
	if src == nil {
		return nil, errors.New("maze source must not be nil")
	}

	width, height := Dimension(openX), Dimension(openY)
	m, err := NewWalled(width, height)
	if err != nil {
		return nil, err
	}

	rooms := Bounds{MinX: 1, MinY: 1, MaxX: width - 2, MaxY: height - 2}
	grid := Bounds{MinX: 1, MinY: 1, MaxX: width - 1, MaxY: height - 1}

	cursor := Start
	m.Set(cursor.X, cursor.Y, Open)
	remaining := uint64(openX)*uint64(openY) - 1

	for remaining > 0 {
		dir := AllDirections[src.Intn(len(AllDirections))]
		cursor = Step(cursor, dir, rooms, 2)
		if m.At(cursor) != Wall {
			continue
		}
		m.Set(cursor.X, cursor.Y, Open)
		between := Step(cursor, dir.Flip(), grid, 1)
		m.Set(between.X, between.Y, Open)
		remaining--
	}
	return m, nil
}
