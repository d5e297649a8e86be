package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/movement"
)

// ErrAlreadyRegistered is returned by Register when the connection id is in use.
// It indicates a connection identity collision, which is a logic bug.
var ErrAlreadyRegistered = errors.New("connection already registered")

// entry guards one player's state.
type entry struct {
	mu      sync.RWMutex
	player  Player
	removed bool
}

// Registry maps connection identities to player state.
// All methods are safe for concurrent use.
//
// The map lock is held only to find, insert, or delete entries. Player fields are
// guarded by a per-entry lock, so mutations of different players never serialize
// with each other, and readers never see a half-applied move.
type Registry struct {
	maze     *maze.Maze
	onChange func(Player)

	mu      sync.RWMutex
	entries map[string]*entry // connection id → entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithChangeHook calls fn with the new snapshot after every registration,
// every move that changes a position, and every removal.
//
// fn runs while the player's lock is held, so calls for one player arrive in
// mutation order. fn must not block and must not call back into the Registry.
func WithChangeHook(fn func(Player)) Option {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// NewRegistry creates an empty Registry validating moves against m.
//
// Precondition: m must be non-nil and must have Start open.
// Postcondition: Returns an empty Registry or a non-nil error.
func NewRegistry(m *maze.Maze, opts ...Option) (*Registry, error) {
	if m == nil {
		return nil, errors.New("registry requires a maze")
	}
	if m.At(maze.Start) != maze.Open {
		return nil, fmt.Errorf("maze start cell (%d,%d) is not open", maze.Start.X, maze.Start.Y)
	}
	r := &Registry{
		maze:    m,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Register creates a live player named name at the maze start and stores it under connID.
//
// Precondition: connID must be non-empty.
// Postcondition: Returns a snapshot of the new player, or ErrAlreadyRegistered if connID is taken.
func (r *Registry) Register(connID, name string) (Player, error) {
	if connID == "" {
		return Player{}, errors.New("connection id must not be empty")
	}
	p := Player{
		ID:       uuid.NewString(),
		Name:     name,
		Position: maze.Start,
		Alive:    true,
	}

	r.mu.Lock()
	if _, exists := r.entries[connID]; exists {
		r.mu.Unlock()
		return Player{}, fmt.Errorf("registering %q: %w", connID, ErrAlreadyRegistered)
	}
	e := &entry{player: p}
	e.mu.Lock()
	r.entries[connID] = e
	r.mu.Unlock()

	defer e.mu.Unlock()
	r.changed(p)
	return p, nil
}

// Snapshot returns a copy of every registered player. Order is unspecified.
func (r *Registry) Snapshot() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Player, 0, len(r.entries))
	for _, e := range r.entries {
		e.mu.RLock()
		out = append(out, e.player)
		e.mu.RUnlock()
	}
	return out
}

// Get returns a snapshot of the player registered under connID.
func (r *Registry) Get(connID string) (Player, bool) {
	e, ok := r.lookup(connID)
	if !ok {
		return Player{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.removed {
		return Player{}, false
	}
	return e.player, true
}

// Mutate applies one movement in direction d to the player under connID.
//
// Postcondition: Returns the post-move snapshot and true, or false when connID is
// not registered (the connection has already been cleaned up).
func (r *Registry) Mutate(connID string, d maze.Direction) (MoveResult, bool) {
	e, ok := r.lookup(connID)
	if !ok {
		return MoveResult{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return MoveResult{}, false
	}
	moved := movement.MoveIfValid(&e.player.Position, r.maze, d)
	if moved {
		r.changed(e.player)
	}
	return MoveResult{Player: e.player, Moved: moved}, true
}

// MarkDeadAndRemove marks the player under connID dead, removes it, and returns
// the final snapshot for the disconnect broadcast.
//
// Postcondition: Returns (snapshot with Alive == false, true) on the first call for
// a registered connID and (Player{}, false) on every later call.
func (r *Registry) MarkDeadAndRemove(connID string) (Player, bool) {
	r.mu.Lock()
	e, ok := r.entries[connID]
	if ok {
		delete(r.entries, connID)
	}
	r.mu.Unlock()
	if !ok {
		return Player{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.player.Alive = false
	e.removed = true
	r.changed(e.player)
	return e.player, true
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Maze returns the maze moves are validated against.
func (r *Registry) Maze() *maze.Maze {
	return r.maze
}

// changed runs the change hook. Caller holds the entry lock of p.
func (r *Registry) changed(p Player) {
	if r.onChange != nil {
		r.onChange(p)
	}
}

func (r *Registry) lookup(connID string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[connID]
	return e, ok
}
