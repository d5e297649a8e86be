package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mazeio/internal/game/broadcast"
	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
)

// Inbound yields the directions sent by one client.
//
// Recv blocks until a direction arrives. It returns io.EOF when the client
// closes its side cleanly and any other error when the transport fails.
type Inbound interface {
	Recv() (maze.Direction, error)
}

// Outbound delivers player updates to one client.
//
// Send need not be safe for concurrent use.
type Outbound interface {
	Send(session.Player) error
}

// JoinResult is the immediate reply to a join.
type JoinResult struct {
	Player session.Player
	Maze   *maze.Maze
	Roster []session.Player
}

// Service owns the shared maze, the player registry, and the broadcast hub,
// and runs the per-connection join and stream flows on top of them. It knows
// nothing about the transport; the gRPC and WebSocket front ends adapt to it.
type Service struct {
	maze     *maze.Maze
	registry *session.Registry
	hub      *broadcast.Hub[session.Player]
	policy   Policy
	logger   *zap.Logger

	pendingMu sync.Mutex
	pending   map[string]*broadcast.Subscription[session.Player] // joined, stream not yet open

	active  atomic.Int64
	streams sync.WaitGroup
}

// NewService creates a Service over m with a broadcast history of hubCapacity updates.
//
// Precondition: m must be non-nil with an open start cell; hubCapacity must be > 0; logger must be non-nil.
// Postcondition: Returns a Service with an empty registry, or a non-nil error.
func NewService(m *maze.Maze, hubCapacity int, policy Policy, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		return nil, errors.New("gameserver: logger must not be nil")
	}
	hub, err := broadcast.NewHub[session.Player](hubCapacity)
	if err != nil {
		return nil, fmt.Errorf("creating broadcast hub: %w", err)
	}
	s := &Service{
		maze:    m,
		hub:     hub,
		policy:  policy,
		logger:  logger,
		pending: make(map[string]*broadcast.Subscription[session.Player]),
	}
	// The hook runs under the player's lock: each player's updates publish in mutation order.
	reg, err := session.NewRegistry(m, session.WithChangeHook(s.publish))
	if err != nil {
		return nil, fmt.Errorf("creating registry: %w", err)
	}
	s.registry = reg
	return s, nil
}

// Maze returns the shared maze. Callers must not modify it.
func (s *Service) Maze() *maze.Maze {
	return s.maze
}

// Players returns a snapshot of every registered player.
func (s *Service) Players() []session.Player {
	return s.registry.Snapshot()
}

// ActiveStreams returns the number of streams currently receiving updates.
func (s *Service) ActiveStreams() int {
	return int(s.active.Load())
}

// Join registers a player for connID, announces it to every active stream,
// and returns the new player with the maze and the current roster.
//
// The subscription for connID is taken before the roster snapshot and held
// until its stream opens, so arrivals between join and stream are delivered.
//
// Precondition: connID must be non-empty and not already registered.
// Postcondition: The roster contains the new player. A non-nil error wraps
// session.ErrAlreadyRegistered when connID already has a player.
func (s *Service) Join(connID, name string) (JoinResult, error) {
	p, err := s.registry.Register(connID, name)
	if err != nil {
		s.logger.Error("rejecting join",
			zap.String("conn_id", connID),
			zap.String("name", name),
			zap.Error(err),
		)
		return JoinResult{}, err
	}

	s.logger.Info("player joined",
		zap.String("conn_id", connID),
		zap.String("player_id", p.ID),
		zap.String("name", p.Name),
	)

	s.pendingMu.Lock()
	if old := s.pending[connID]; old != nil {
		old.Close()
	}
	s.pending[connID] = s.hub.Subscribe()
	s.pendingMu.Unlock()
	roster := s.registry.Snapshot()
	if _, ok := s.registry.Get(connID); !ok {
		// Disconnected while joining.
		s.dropPending(connID)
	}

	return JoinResult{
		Player: p,
		Maze:   s.maze,
		Roster: roster,
	}, nil
}

// Stream runs the bidirectional session for connID until the client goes away.
//
// Directions read from in are applied to the connection's player in arrival
// order and every resulting position change is broadcast. Every broadcast,
// including the connection's own, is written to out. When the stream ends
// for any reason the player is removed and a final update with Alive false is
// broadcast to the remaining streams.
//
// A stream for a connID that never joined ends immediately with nil.
//
// Precondition: in and out must be non-nil.
// Postcondition: No player is registered for connID. Returns nil on a clean
// close, or the error that ended the stream.
func (s *Service) Stream(ctx context.Context, connID string, in Inbound, out Outbound) error {
	s.streams.Add(1)
	defer s.streams.Done()

	if _, ok := s.registry.Get(connID); !ok {
		s.logger.Warn("stream for unregistered connection", zap.String("conn_id", connID))
		return nil
	}

	sub := s.takePending(connID)
	if sub == nil {
		sub = s.hub.Subscribe()
	}
	defer sub.Close()

	s.active.Add(1)
	defer s.active.Add(-1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := newTimedSender(out, s.policy)
	forwardDone := make(chan error, 1)
	go func() {
		err := s.forwardUpdates(ctx, connID, sub, writer)
		cancel()
		forwardDone <- err
	}()

	readErr := s.readLoop(ctx, connID, in)

	cancel()
	forwardErr := <-forwardDone
	writer.drain(s.policy.WriteTimeout)

	s.Disconnect(connID)

	switch {
	case errors.Is(forwardErr, ErrTooManyWriteFailures):
		return forwardErr
	case readErr == nil, errors.Is(readErr, context.Canceled):
		return nil
	default:
		return readErr
	}
}

// Disconnect removes the player registered for connID and broadcasts its
// final state. It is a no-op when connID has no player.
func (s *Service) Disconnect(connID string) {
	s.dropPending(connID)
	p, ok := s.registry.MarkDeadAndRemove(connID)
	if !ok {
		return
	}
	s.logger.Info("player disconnected",
		zap.String("conn_id", connID),
		zap.String("player_id", p.ID),
		zap.String("name", p.Name),
	)
}

// Close ends every active stream and waits for them to finish cleanup.
func (s *Service) Close() {
	s.hub.Close()
	s.streams.Wait()
}

type inboundResult struct {
	dir maze.Direction
	err error
}

// readLoop applies inbound directions until the client closes, the transport
// fails, or ctx is cancelled. A nil return means the client closed cleanly or
// its player is gone.
func (s *Service) readLoop(ctx context.Context, connID string, in Inbound) error {
	results := make(chan inboundResult)
	go func() {
		for {
			d, err := in.Recv()
			select {
			case results <- inboundResult{dir: d, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	poll := newPoller(s.policy.ReadPollInterval)
	defer poll.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C():
			s.logger.Debug("read poll idle", zap.String("conn_id", connID))
		case r := <-results:
			if errors.Is(r.err, io.EOF) {
				return nil
			}
			if r.err != nil {
				return fmt.Errorf("receiving direction: %w", r.err)
			}
			if !r.dir.Valid() {
				s.logger.Warn("dropping malformed direction",
					zap.String("conn_id", connID),
					zap.Int32("direction", int32(r.dir)),
				)
				continue
			}
			if _, ok := s.registry.Mutate(connID, r.dir); !ok {
				s.logger.Debug("direction for unregistered connection",
					zap.String("conn_id", connID),
					zap.Stringer("direction", r.dir),
				)
				return nil
			}
		}
	}
}

// forwardUpdates writes broadcast updates to one client until ctx is
// cancelled, the hub closes, or the write failure budget is spent.
func (s *Service) forwardUpdates(ctx context.Context, connID string, sub *broadcast.Subscription[session.Player], w *timedSender) error {
	for {
		p, err := sub.Recv(ctx)
		var lag *broadcast.LagError
		if errors.As(err, &lag) {
			s.logger.Warn("subscriber lagged",
				zap.String("conn_id", connID),
				zap.Uint64("skipped", lag.Skipped),
			)
			continue
		}
		if err != nil {
			return err
		}
		if err := w.send(p); err != nil {
			if errors.Is(err, ErrTooManyWriteFailures) {
				s.logger.Warn("closing slow connection",
					zap.String("conn_id", connID),
					zap.Error(err),
				)
				return err
			}
			s.logger.Debug("dropped player update",
				zap.String("conn_id", connID),
				zap.String("player_id", p.ID),
				zap.Error(err),
			)
		}
	}
}

// takePending removes and returns the subscription held for connID since its join, if any.
func (s *Service) takePending(connID string) *broadcast.Subscription[session.Player] {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	sub := s.pending[connID]
	delete(s.pending, connID)
	return sub
}

func (s *Service) dropPending(connID string) {
	if sub := s.takePending(connID); sub != nil {
		sub.Close()
	}
}

// publish broadcasts p. Delivery is best effort; an empty audience is normal.
func (s *Service) publish(p session.Player) {
	if err := s.hub.Publish(p); err != nil {
		s.logger.Debug("player update not broadcast",
			zap.String("player_id", p.ID),
			zap.Error(err),
		)
	}
}
