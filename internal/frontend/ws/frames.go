// Package ws serves the maze session over WebSocket with JSON frames.
//
// A client connects with GET {path}?name=<display name>. The server replies
// with one "join" frame and then one "player" frame per player update. The
// client sends {"direction":"left|right|up|down"} frames.
package ws

import (
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver"
)

// Frame types sent by the server.
const (
	FrameJoin   = "join"
	FramePlayer = "player"
)

// PlayerJSON is a player snapshot on the wire.
type PlayerJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	X     uint32 `json:"x"`
	Y     uint32 `json:"y"`
	Alive bool   `json:"alive"`
}

// MazeJSON is the maze grid as layout rows, '#' for wall and ' ' for open.
type MazeJSON struct {
	Width  uint32   `json:"width"`
	Height uint32   `json:"height"`
	Rows   []string `json:"rows"`
}

// ServerFrame is one server to client message.
type ServerFrame struct {
	Type     string       `json:"type"`
	PlayerID string       `json:"player_id,omitempty"`
	Maze     *MazeJSON    `json:"maze,omitempty"`
	Players  []PlayerJSON `json:"players,omitempty"`
	Player   *PlayerJSON  `json:"player,omitempty"`
}

// ClientFrame is one client to server message.
type ClientFrame struct {
	Direction string `json:"direction"`
}

func playerJSON(p session.Player) PlayerJSON {
	return PlayerJSON{
		ID:    p.ID,
		Name:  p.Name,
		X:     p.Position.X,
		Y:     p.Position.Y,
		Alive: p.Alive,
	}
}

func joinFrame(res gameserver.JoinResult) ServerFrame {
	players := make([]PlayerJSON, 0, len(res.Roster))
	for _, p := range res.Roster {
		players = append(players, playerJSON(p))
	}
	return ServerFrame{
		Type:     FrameJoin,
		PlayerID: res.Player.ID,
		Maze:     mazeJSON(res.Maze),
		Players:  players,
	}
}

func mazeJSON(m *maze.Maze) *MazeJSON {
	return &MazeJSON{Width: m.Width(), Height: m.Height(), Rows: m.Rows()}
}

func playerFrame(p session.Player) ServerFrame {
	pj := playerJSON(p)
	return ServerFrame{Type: FramePlayer, Player: &pj}
}
