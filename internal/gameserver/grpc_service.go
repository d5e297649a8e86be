package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// SessionMetadataKey is the request metadata key that selects a connection id.
const SessionMetadataKey = mazev1.SessionMetadataKey

// GameServiceServer implements the gRPC Game service on top of a Service.
type GameServiceServer struct {
	mazev1.UnimplementedGameServer
	svc     *Service
	tracker *ConnTracker
	logger  *zap.Logger
}

// NewGameServiceServer creates a GameServiceServer.
//
// Precondition: svc and logger must be non-nil. tracker may be nil, in which
// case players are removed only when their move stream ends.
// Postcondition: Returns a GameServiceServer ready to register.
func NewGameServiceServer(svc *Service, tracker *ConnTracker, logger *zap.Logger) *GameServiceServer {
	return &GameServiceServer{svc: svc, tracker: tracker, logger: logger}
}

// ConnectPlayer registers the caller and returns its id, the maze, and the roster.
func (s *GameServiceServer) ConnectPlayer(ctx context.Context, req *mazev1.JoinGameRequest) (*mazev1.JoinGameResponse, error) {
	connID, remote, err := connectionID(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.svc.Join(connID, req.GetName())
	if errors.Is(err, session.ErrAlreadyRegistered) {
		return nil, status.Errorf(codes.AlreadyExists, "connection %q has already joined", connID)
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "joining: %v", err)
	}

	if s.tracker != nil && remote != "" {
		s.tracker.Bind(remote, connID)
	}
	return JoinToWire(res), nil
}

// StreamGame applies the caller's directions and streams every player update
// back until either side closes.
func (s *GameServiceServer) StreamGame(stream mazev1.Game_StreamGameServer) error {
	connID, _, err := connectionID(stream.Context())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("move stream opened", zap.String("conn_id", connID))
	err = s.svc.Stream(stream.Context(), connID, grpcInbound{stream}, grpcOutbound{stream})
	if errors.Is(err, ErrTooManyWriteFailures) {
		return status.Error(codes.Unavailable, err.Error())
	}
	if err != nil {
		s.logger.Debug("move stream ended", zap.String("conn_id", connID), zap.Error(err))
		return err
	}
	return nil
}

// connectionID identifies the client behind ctx. It returns the connection id
// and the remote address, which may be empty when only metadata is present.
func connectionID(ctx context.Context) (string, string, error) {
	var remote string
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		remote = p.Addr.String()
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(SessionMetadataKey); len(vals) > 0 && vals[0] != "" {
			return vals[0], remote, nil
		}
	}
	if remote == "" {
		return "", "", fmt.Errorf("no %s metadata and no peer address", SessionMetadataKey)
	}
	return remote, remote, nil
}

type grpcInbound struct {
	stream mazev1.Game_StreamGameServer
}

func (in grpcInbound) Recv() (maze.Direction, error) {
	msg, err := in.stream.Recv()
	if err != nil {
		return 0, err
	}
	return DirectionFromWire(msg.GetDirection()), nil
}

type grpcOutbound struct {
	stream mazev1.Game_StreamGameServer
}

func (out grpcOutbound) Send(p session.Player) error {
	return out.stream.Send(PlayerToWire(p))
}
