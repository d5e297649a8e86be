package maze

import "fmt"

// Maze is a row-major grid of cells.
//
// Invariant: len(cells) == width*height.
// A Maze is mutated only while it is being generated or loaded; once handed to a
// session it is treated as immutable and shared without locking.
type Maze struct {
	width  uint32
	height uint32
	cells  []Cell
}

// NewWalled returns a width x height maze whose every cell is Wall.
//
// Precondition: width and height must be >= 1.
// Postcondition: Returns a Maze with width*height Wall cells, or a non-nil error.
func NewWalled(width, height uint32) (*Maze, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("maze dimensions must be positive, got %dx%d", width, height)
	}
	cells := make([]Cell, int(width)*int(height))
	for i := range cells {
		cells[i] = Wall
	}
	return &Maze{width: width, height: height, cells: cells}, nil
}

// FromCells builds a Maze from a row-major cell slice. The slice is copied.
//
// Precondition: len(cells) == width*height.
// Postcondition: Returns a Maze or a non-nil error when the dimensions disagree with the slice.
func FromCells(width, height uint32, cells []Cell) (*Maze, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("maze dimensions must be positive, got %dx%d", width, height)
	}
	if uint64(len(cells)) != uint64(width)*uint64(height) {
		return nil, fmt.Errorf("maze has %d cells, want %d for %dx%d", len(cells), uint64(width)*uint64(height), width, height)
	}
	cp := make([]Cell, len(cells))
	copy(cp, cells)
	return &Maze{width: width, height: height, cells: cp}, nil
}

// Width returns the number of columns.
func (m *Maze) Width() uint32 { return m.width }

// Height returns the number of rows.
func (m *Maze) Height() uint32 { return m.height }

// InBounds reports whether (x, y) addresses a cell of m.
func (m *Maze) InBounds(x, y uint32) bool {
	return x < m.width && y < m.height
}

// Get returns the cell at (x, y). Coordinates outside the grid read as Wall.
func (m *Maze) Get(x, y uint32) Cell {
	if !m.InBounds(x, y) {
		return Wall
	}
	return m.cells[int(y)*int(m.width)+int(x)]
}

// At is Get for a Position.
func (m *Maze) At(p Position) Cell {
	return m.Get(p.X, p.Y)
}

// Set overwrites the cell at (x, y). Coordinates outside the grid are ignored.
// Only generation and loading call Set.
func (m *Maze) Set(x, y uint32, c Cell) {
	if !m.InBounds(x, y) {
		return
	}
	m.cells[int(y)*int(m.width)+int(x)] = c
}

// Bounds returns the inclusive rectangle covering every cell of m.
func (m *Maze) Bounds() Bounds {
	return Bounds{MaxX: m.width - 1, MaxY: m.height - 1}
}

// Cells returns a copy of the row-major cell grid.
func (m *Maze) Cells() []Cell {
	cp := make([]Cell, len(m.cells))
	copy(cp, m.cells)
	return cp
}

// OpenCount returns the number of Open cells.
func (m *Maze) OpenCount() int {
	n := 0
	for _, c := range m.cells {
		if c == Open {
			n++
		}
	}
	return n
}
