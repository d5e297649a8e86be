package gameserver

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc/stats"
)

type remoteAddrKey struct{}

// ConnTracker is a gRPC stats handler that removes the players joined over a
// client connection when that connection closes. Without it a client that
// joins but never opens a move stream would stay registered forever.
type ConnTracker struct {
	disconnect func(connID string)
	logger     *zap.Logger

	mu    sync.Mutex
	bound map[string]map[string]struct{}
}

// NewConnTracker creates a ConnTracker that calls disconnect for every
// connection id bound to a closed client connection.
//
// Precondition: disconnect and logger must be non-nil.
func NewConnTracker(disconnect func(connID string), logger *zap.Logger) *ConnTracker {
	return &ConnTracker{
		disconnect: disconnect,
		logger:     logger,
		bound:      make(map[string]map[string]struct{}),
	}
}

// Bind records that connID was joined over the client connection at remoteAddr.
func (t *ConnTracker) Bind(remoteAddr, connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids, ok := t.bound[remoteAddr]
	if !ok {
		ids = make(map[string]struct{})
		t.bound[remoteAddr] = ids
	}
	ids[connID] = struct{}{}
}

// Bound returns the number of client connections with at least one joined player.
func (t *ConnTracker) Bound() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.bound)
}

// TagConn implements stats.Handler.
func (t *ConnTracker) TagConn(ctx context.Context, info *stats.ConnTagInfo) context.Context {
	if info == nil || info.RemoteAddr == nil {
		return ctx
	}
	return context.WithValue(ctx, remoteAddrKey{}, info.RemoteAddr.String())
}

// HandleConn implements stats.Handler.
func (t *ConnTracker) HandleConn(ctx context.Context, s stats.ConnStats) {
	if _, ok := s.(*stats.ConnEnd); !ok {
		return
	}
	addr, ok := ctx.Value(remoteAddrKey{}).(string)
	if !ok {
		return
	}

	t.mu.Lock()
	ids := t.bound[addr]
	delete(t.bound, addr)
	t.mu.Unlock()

	for id := range ids {
		t.logger.Debug("client connection closed", zap.String("remote_addr", addr), zap.String("conn_id", id))
		t.disconnect(id)
	}
}

// TagRPC implements stats.Handler.
func (t *ConnTracker) TagRPC(ctx context.Context, _ *stats.RPCTagInfo) context.Context {
	return ctx
}

// HandleRPC implements stats.Handler.
func (t *ConnTracker) HandleRPC(context.Context, stats.RPCStats) {}
