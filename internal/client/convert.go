package client

import (
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// PlayerFromWire converts a wire player. A missing position decodes as (0,0).
func PlayerFromWire(p *mazev1.Player) session.Player {
	return session.Player{
		ID:       p.GetId(),
		Name:     p.GetName(),
		Position: maze.Position{X: p.GetPos().GetX(), Y: p.GetPos().GetY()},
		Alive:    p.GetAlive(),
	}
}

// MazeFromWire converts a wire maze. Unknown cell values decode as Wall.
func MazeFromWire(m *mazev1.Maze) (*maze.Maze, error) {
	cells := make([]maze.Cell, len(m.GetCells()))
	for i, c := range m.GetCells() {
		cells[i] = maze.CellFromWire(int32(c))
	}
	return maze.FromCells(m.GetWidth(), m.GetHeight(), cells)
}

// DirectionToWire converts a direction for sending.
func DirectionToWire(d maze.Direction) mazev1.Direction {
	return mazev1.Direction(int32(d))
}
