// Package client holds the client side of a maze session: the local view of
// the game built from the join reply and kept current from the update stream.
package client

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/movement"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// State is a client's view of the session. It is safe for concurrent use:
// the stream reader applies updates while the UI reads snapshots.
type State struct {
	playerID string
	maze     *maze.Maze

	mu      sync.RWMutex
	players map[string]session.Player
	changed bool
}

// Snapshot is a consistent copy of a State's roster.
type Snapshot struct {
	PlayerID string
	Maze     *maze.Maze
	// Players are ordered by id.
	Players []session.Player
}

// NewState builds the initial view from a join reply.
//
// Precondition: resp must carry a maze whose cell count matches its dimensions.
// Postcondition: Returns a State holding every alive player in resp, or a non-nil error.
func NewState(resp *mazev1.JoinGameResponse) (*State, error) {
	if resp.GetMaze() == nil {
		return nil, errors.New("join reply has no maze")
	}
	m, err := MazeFromWire(resp.GetMaze())
	if err != nil {
		return nil, fmt.Errorf("decoding maze: %w", err)
	}

	s := &State{
		playerID: resp.GetPlayerId(),
		maze:     m,
		players:  make(map[string]session.Player, len(resp.GetPlayers())),
	}
	for _, wp := range resp.GetPlayers() {
		p := PlayerFromWire(wp)
		if p.Alive {
			s.players[p.ID] = p
		}
	}
	return s, nil
}

// PlayerID returns the id the server assigned to this client.
func (s *State) PlayerID() string { return s.playerID }

// Maze returns the session maze. Callers must not modify it.
func (s *State) Maze() *maze.Maze { return s.maze }

// Apply records a player update from the server. A dead player is removed.
//
// Postcondition: Changed reports true until the next Sync.
func (s *State) Apply(p session.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Alive {
		s.players[p.ID] = p
	} else {
		delete(s.players, p.ID)
	}
	s.changed = true
}

// Changed reports whether an update arrived since the last Sync.
func (s *State) Changed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// Sync returns a snapshot and clears the change flag.
func (s *State) Sync() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = false
	return s.snapshotLocked()
}

// Player returns the current view of player id.
func (s *State) Player(id string) (session.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}

// Predict moves the local player ahead of the server's confirmation using the
// same rule the server applies. The server's next update for this player
// replaces the prediction.
//
// Postcondition: Returns true if the local player exists and moved.
func (s *State) Predict(d maze.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[s.playerID]
	if !ok {
		return false
	}
	if !movement.MoveIfValid(&p.Position, s.maze, d) {
		return false
	}
	s.players[s.playerID] = p
	s.changed = true
	return true
}

func (s *State) snapshotLocked() Snapshot {
	players := make([]session.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return Snapshot{PlayerID: s.playerID, Maze: s.maze, Players: players}
}
