package gameserver

import (
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// PlayerToWire converts a player snapshot to its wire form.
func PlayerToWire(p session.Player) *mazev1.Player {
	return &mazev1.Player{
		Id:    p.ID,
		Name:  p.Name,
		Pos:   &mazev1.Position{X: p.Position.X, Y: p.Position.Y},
		Alive: p.Alive,
	}
}

// MazeToWire converts m to its wire form, cells in row-major order.
//
// Precondition: m must be non-nil.
func MazeToWire(m *maze.Maze) *mazev1.Maze {
	cells := m.Cells()
	out := make([]mazev1.CellType, len(cells))
	for i, c := range cells {
		if c == maze.Open {
			out[i] = mazev1.CellType_OPEN
		} else {
			out[i] = mazev1.CellType_WALL
		}
	}
	return &mazev1.Maze{Width: m.Width(), Height: m.Height(), Cells: out}
}

// JoinToWire converts a join result to the ConnectPlayer reply.
func JoinToWire(res JoinResult) *mazev1.JoinGameResponse {
	players := make([]*mazev1.Player, 0, len(res.Roster))
	for _, p := range res.Roster {
		players = append(players, PlayerToWire(p))
	}
	return &mazev1.JoinGameResponse{
		PlayerId: res.Player.ID,
		Maze:     MazeToWire(res.Maze),
		Players:  players,
	}
}

// DirectionFromWire converts a wire direction. Values outside the enum stay
// out of range so the caller can reject them with Direction.Valid.
func DirectionFromWire(d mazev1.Direction) maze.Direction {
	return maze.Direction(int32(d))
}
