package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/gameserver/mazev1"
)

// Client is a gRPC connection to a maze server.
type Client struct {
	conn    *grpc.ClientConn
	game    mazev1.GameClient
	session string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSessionKey sends key as the connection identity instead of relying on
// the client's address. Clients sharing one address need distinct keys.
func WithSessionKey(key string) Option {
	return func(c *Client) { c.session = key }
}

// Dial connects to the server at addr.
//
// Precondition: addr must be a "host:port" address; logger must be non-nil.
// Postcondition: Returns a Client or a non-nil error.
func Dial(addr string, logger *zap.Logger, opts ...Option) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dialing game server: %w", err)
	}
	c := &Client{conn: conn, game: mazev1.NewGameClient(conn), logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the connection. The server removes this client's player.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.session == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, mazev1.SessionMetadataKey, c.session)
}

// Join registers name with the server and returns the initial view.
func (c *Client) Join(ctx context.Context, name string) (*State, error) {
	resp, err := c.game.ConnectPlayer(c.outgoing(ctx), &mazev1.JoinGameRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("joining game: %w", err)
	}
	return NewState(resp)
}

// Play streams moves to the server and applies every update to state until
// ctx is cancelled, moves is closed, or the stream fails. Each move is
// predicted locally before it is sent.
//
// Postcondition: Returns nil when the session ends because moves closed or
// ctx was cancelled, or the error that ended it.
func (c *Client) Play(ctx context.Context, state *State, moves <-chan maze.Direction) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.game.StreamGame(c.outgoing(streamCtx))
	if err != nil {
		return fmt.Errorf("opening move stream: %w", err)
	}

	recvErr := make(chan error, 1)
	go func() {
		recvErr <- c.receiveUpdates(stream, state)
		cancel()
	}()

	// On a clean CloseSend the server finishes the stream and Recv reaches EOF.
	sendErr := c.sendMoves(streamCtx, stream, state, moves)
	if sendErr != nil {
		cancel()
	}
	rerr := <-recvErr

	if sendErr != nil && !errors.Is(sendErr, context.Canceled) {
		return sendErr
	}
	if rerr != nil && ctx.Err() == nil {
		return rerr
	}
	return nil
}

func (c *Client) sendMoves(ctx context.Context, stream mazev1.Game_StreamGameClient, state *State, moves <-chan maze.Direction) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-moves:
			if !ok {
				return stream.CloseSend()
			}
			state.Predict(d)
			if err := stream.Send(&mazev1.InputDirection{Direction: DirectionToWire(d)}); err != nil {
				return fmt.Errorf("sending direction: %w", err)
			}
		}
	}
}

func (c *Client) receiveUpdates(stream mazev1.Game_StreamGameClient, state *State) error {
	for {
		p, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			c.logger.Debug("update stream closed by server")
			return nil
		}
		if err != nil {
			return fmt.Errorf("receiving update: %w", err)
		}
		state.Apply(PlayerFromWire(p))
	}
}
