package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// corridorResponse is a join reply for a 5x3 maze whose middle row is open from (1,1) to (3,1).
func corridorResponse() *mazev1.JoinGameResponse {
	w, o := mazev1.CellType_WALL, mazev1.CellType_OPEN
	return &mazev1.JoinGameResponse{
		PlayerId: "me",
		Maze: &mazev1.Maze{
			Width:  5,
			Height: 3,
			Cells: []mazev1.CellType{
				w, w, w, w, w,
				w, o, o, o, w,
				w, w, w, w, w,
			},
		},
		Players: []*mazev1.Player{
			{Id: "me", Name: "Alice", Pos: &mazev1.Position{X: 1, Y: 1}, Alive: true},
			{Id: "other", Name: "Bob", Pos: &mazev1.Position{X: 3, Y: 1}, Alive: true},
		},
	}
}

func TestNewState(t *testing.T) {
	s, err := NewState(corridorResponse())
	require.NoError(t, err)

	assert.Equal(t, "me", s.PlayerID())
	assert.Equal(t, uint32(5), s.Maze().Width())
	assert.Equal(t, maze.Open, s.Maze().Get(2, 1))
	assert.False(t, s.Changed())

	snap := s.Sync()
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "me", snap.Players[0].ID)
	assert.Equal(t, "other", snap.Players[1].ID)
}

func TestNewState_RejectsBadMaze(t *testing.T) {
	_, err := NewState(&mazev1.JoinGameResponse{PlayerId: "me"})
	assert.Error(t, err)

	resp := corridorResponse()
	resp.Maze.Cells = resp.Maze.Cells[:3]
	_, err = NewState(resp)
	assert.Error(t, err)
}

func TestMazeFromWire_UnknownCellIsWall(t *testing.T) {
	m, err := MazeFromWire(&mazev1.Maze{Width: 1, Height: 1, Cells: []mazev1.CellType{mazev1.CellType(9)}})
	require.NoError(t, err)
	assert.Equal(t, maze.Wall, m.Get(0, 0))
}

func TestApply(t *testing.T) {
	s, err := NewState(corridorResponse())
	require.NoError(t, err)

	s.Apply(session.Player{ID: "other", Name: "Bob", Position: maze.Position{X: 2, Y: 1}, Alive: true})
	assert.True(t, s.Changed())
	p, ok := s.Player("other")
	require.True(t, ok)
	assert.Equal(t, maze.Position{X: 2, Y: 1}, p.Position)

	s.Sync()
	assert.False(t, s.Changed())

	s.Apply(session.Player{ID: "other", Alive: false})
	assert.True(t, s.Changed())
	_, ok = s.Player("other")
	assert.False(t, ok)

	s.Apply(session.Player{ID: "new", Name: "Carol", Position: maze.Start, Alive: true})
	assert.Len(t, s.Sync().Players, 2)
}

func TestPredict(t *testing.T) {
	s, err := NewState(corridorResponse())
	require.NoError(t, err)
	s.Sync()

	assert.False(t, s.Predict(maze.Up))
	assert.False(t, s.Changed())

	assert.True(t, s.Predict(maze.Right))
	assert.True(t, s.Changed())
	p, _ := s.Player("me")
	assert.Equal(t, maze.Position{X: 2, Y: 1}, p.Position)

	// The server's view replaces the prediction.
	s.Apply(session.Player{ID: "me", Name: "Alice", Position: maze.Start, Alive: true})
	p, _ = s.Player("me")
	assert.Equal(t, maze.Start, p.Position)
}

func TestPredict_WithoutLocalPlayer(t *testing.T) {
	s, err := NewState(corridorResponse())
	require.NoError(t, err)
	s.Apply(session.Player{ID: "me", Alive: false})
	assert.False(t, s.Predict(maze.Right))
}

func TestPropertyPredictStaysOnOpenCells(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, err := NewState(corridorResponse())
		if err != nil {
			t.Fatal(err)
		}
		dirs := rapid.SliceOf(rapid.SampledFrom(maze.AllDirections)).Draw(t, "dirs")
		for _, d := range dirs {
			s.Predict(d)
			p, ok := s.Player("me")
			if !ok {
				t.Fatal("local player vanished")
			}
			if s.Maze().At(p.Position) != maze.Open {
				t.Fatalf("predicted onto wall at %+v", p.Position)
			}
		}
	})
}
