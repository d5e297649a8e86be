package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
)

// corridor is a 5x3 maze whose only open cells are (1,1), (2,1), (3,1).
func corridor(t *testing.T) *maze.Maze {
	t.Helper()
	m, err := maze.LoadLayoutFromBytes([]byte("maze:\n  rows:\n    - \"#####\"\n    - \"#   #\"\n    - \"#####\"\n"))
	require.NoError(t, err)
	return m
}

func TestMoveIfValid_OpenCell(t *testing.T) {
	m := corridor(t)
	p := maze.Start
	assert.True(t, MoveIfValid(&p, m, maze.Right))
	assert.Equal(t, maze.Position{X: 2, Y: 1}, p)
}

func TestMoveIfValid_WallLeavesPosition(t *testing.T) {
	m := corridor(t)
	p := maze.Position{X: 3, Y: 1}
	assert.False(t, MoveIfValid(&p, m, maze.Right))
	assert.Equal(t, maze.Position{X: 3, Y: 1}, p)
	assert.False(t, MoveIfValid(&p, m, maze.Up))
	assert.Equal(t, maze.Position{X: 3, Y: 1}, p)
}

func TestMoveIfValid_InvalidDirection(t *testing.T) {
	m := corridor(t)
	p := maze.Start
	assert.False(t, MoveIfValid(&p, m, maze.Direction(9)))
	assert.Equal(t, maze.Start, p)
}

func TestCandidate_SaturatesAtOuterEdge(t *testing.T) {
	m, err := maze.FromCells(3, 3, []maze.Cell{
		maze.Open, maze.Open, maze.Open,
		maze.Open, maze.Open, maze.Open,
		maze.Open, maze.Open, maze.Open,
	})
	require.NoError(t, err)

	p := maze.Position{X: 0, Y: 0}
	assert.Equal(t, p, Candidate(p, m, maze.Left))
	assert.Equal(t, p, Candidate(p, m, maze.Up))
	edge := maze.Position{X: 2, Y: 2}
	assert.Equal(t, edge, Candidate(edge, m, maze.Right))
	assert.Equal(t, edge, Candidate(edge, m, maze.Down))

	// Saturated moves onto an Open edge cell still succeed.
	assert.True(t, MoveIfValid(&edge, m, maze.Right))
	assert.Equal(t, maze.Position{X: 2, Y: 2}, edge)
}

func TestProperty_MoveIntoWallIsNoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, err := maze.Generate(
			rapid.Uint32Range(1, 10).Draw(t, "open_x"),
			rapid.Uint32Range(1, 10).Draw(t, "open_y"),
			maze.NewSeededSource(rapid.Int64().Draw(t, "seed")),
		)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		p := maze.Position{
			X: rapid.Uint32Range(0, m.Width()-1).Draw(t, "x"),
			Y: rapid.Uint32Range(0, m.Height()-1).Draw(t, "y"),
		}
		d := rapid.SampledFrom(maze.AllDirections).Draw(t, "dir")
		before := p
		moved := MoveIfValid(&p, m, d)
		if m.At(Candidate(before, m, d)) == maze.Wall {
			if moved || p != before {
				t.Fatalf("move %s from %+v into wall changed position to %+v", d, before, p)
			}
			return
		}
		if !moved || p != Candidate(before, m, d) {
			t.Fatalf("move %s from %+v onto open cell left %+v", d, before, p)
		}
	})
}

func TestProperty_MovesStayOnOpenCells(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, err := maze.Generate(6, 6, maze.NewSeededSource(rapid.Int64().Draw(t, "seed")))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		p := maze.Start
		dirs := rapid.SliceOfN(rapid.SampledFrom(maze.AllDirections), 1, 200).Draw(t, "dirs")
		for _, d := range dirs {
			MoveIfValid(&p, m, d)
			if m.At(p) != maze.Open {
				t.Fatalf("position %+v is not open after %s", p, d)
			}
		}
	})
}
