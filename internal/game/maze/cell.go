package maze

// Cell is the content of one grid square.
//
// The numeric values are the wire values of the CellType enum.
type Cell int32

const (
	Open Cell = 0
	Wall Cell = 1
)

// CellFromWire converts a wire value into a Cell.
// Any value other than Open decodes as Wall so an unknown cell is never walkable.
func CellFromWire(v int32) Cell {
	if Cell(v) == Open {
		return Open
	}
	return Wall
}

// String returns "open" or "wall".
func (c Cell) String() string {
	if c == Open {
		return "open"
	}
	return "wall"
}
