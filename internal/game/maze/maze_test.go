package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWalled(t *testing.T) {
	m, err := NewWalled(3, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), m.Width())
	assert.Equal(t, uint32(5), m.Height())
	assert.Len(t, m.Cells(), 15)
	assert.Equal(t, 0, m.OpenCount())

	_, err = NewWalled(0, 5)
	assert.Error(t, err)
}

func TestMaze_GetOutOfRangeIsWall(t *testing.T) {
	m, err := FromCells(3, 3, []Cell{
		Open, Open, Open,
		Open, Open, Open,
		Open, Open, Open,
	})
	require.NoError(t, err)
	assert.Equal(t, Open, m.Get(2, 2))
	assert.Equal(t, Wall, m.Get(3, 0))
	assert.Equal(t, Wall, m.Get(0, 3))
}

func TestMaze_SetIgnoresOutOfRange(t *testing.T) {
	m, err := NewWalled(3, 3)
	require.NoError(t, err)
	m.Set(1, 1, Open)
	m.Set(9, 9, Open)
	assert.Equal(t, 1, m.OpenCount())
	assert.Equal(t, Open, m.At(Start))
}

func TestMaze_CellsIsCopy(t *testing.T) {
	m, err := NewWalled(3, 3)
	require.NoError(t, err)
	cells := m.Cells()
	cells[4] = Open
	assert.Equal(t, Wall, m.Get(1, 1))
}

func TestFromCells_LengthMismatch(t *testing.T) {
	_, err := FromCells(3, 3, []Cell{Open})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 9")
}

func TestCellFromWire(t *testing.T) {
	assert.Equal(t, Open, CellFromWire(0))
	assert.Equal(t, Wall, CellFromWire(1))
	assert.Equal(t, Wall, CellFromWire(2))
	assert.Equal(t, Wall, CellFromWire(-3))
}

func TestStep_Clamps(t *testing.T) {
	b := Bounds{MinX: 1, MinY: 1, MaxX: 5, MaxY: 5}

	assert.Equal(t, Position{X: 3, Y: 1}, Step(Position{X: 1, Y: 1}, Right, b, 2))
	assert.Equal(t, Position{X: 5, Y: 1}, Step(Position{X: 5, Y: 1}, Right, b, 2))
	assert.Equal(t, Position{X: 1, Y: 1}, Step(Position{X: 1, Y: 1}, Left, b, 2))
	assert.Equal(t, Position{X: 1, Y: 1}, Step(Position{X: 1, Y: 1}, Up, b, 2))
	assert.Equal(t, Position{X: 1, Y: 5}, Step(Position{X: 1, Y: 4}, Down, b, 2))
	assert.Equal(t, Position{X: 0, Y: 0}, Step(Position{X: 0, Y: 0}, Left, Bounds{MaxX: 4, MaxY: 4}, 1))
}
