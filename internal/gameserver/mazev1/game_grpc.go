package mazev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Game_ConnectPlayer_FullMethodName = "/mazeio.Game/ConnectPlayer"
	Game_StreamGame_FullMethodName    = "/mazeio.Game/StreamGame"
)

// GameClient is the client API for the Game service.
type GameClient interface {
	ConnectPlayer(ctx context.Context, in *JoinGameRequest, opts ...grpc.CallOption) (*JoinGameResponse, error)
	StreamGame(ctx context.Context, opts ...grpc.CallOption) (Game_StreamGameClient, error)
}

type gameClient struct {
	cc grpc.ClientConnInterface
}

// NewGameClient wraps cc. Every call is sent with the mazeio codec.
func NewGameClient(cc grpc.ClientConnInterface) GameClient {
	return &gameClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *gameClient) ConnectPlayer(ctx context.Context, in *JoinGameRequest, opts ...grpc.CallOption) (*JoinGameResponse, error) {
	out := new(JoinGameResponse)
	if err := c.cc.Invoke(ctx, Game_ConnectPlayer_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameClient) StreamGame(ctx context.Context, opts ...grpc.CallOption) (Game_StreamGameClient, error) {
	stream, err := c.cc.NewStream(ctx, &Game_ServiceDesc.Streams[0], Game_StreamGame_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &gameStreamGameClient{stream}, nil
}

// Game_StreamGameClient is the client half of the StreamGame bidi stream.
type Game_StreamGameClient interface {
	Send(*InputDirection) error
	Recv() (*Player, error)
	grpc.ClientStream
}

type gameStreamGameClient struct {
	grpc.ClientStream
}

func (x *gameStreamGameClient) Send(m *InputDirection) error {
	return x.ClientStream.SendMsg(m)
}

func (x *gameStreamGameClient) Recv() (*Player, error) {
	m := new(Player)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// GameServer is the server API for the Game service.
type GameServer interface {
	ConnectPlayer(context.Context, *JoinGameRequest) (*JoinGameResponse, error)
	StreamGame(Game_StreamGameServer) error
}

// UnimplementedGameServer can be embedded to satisfy GameServer.
type UnimplementedGameServer struct{}

func (UnimplementedGameServer) ConnectPlayer(context.Context, *JoinGameRequest) (*JoinGameResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConnectPlayer not implemented")
}

func (UnimplementedGameServer) StreamGame(Game_StreamGameServer) error {
	return status.Errorf(codes.Unimplemented, "method StreamGame not implemented")
}

// RegisterGameServer registers srv on s.
func RegisterGameServer(s grpc.ServiceRegistrar, srv GameServer) {
	s.RegisterService(&Game_ServiceDesc, srv)
}

func _Game_ConnectPlayer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(JoinGameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServer).ConnectPlayer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Game_ConnectPlayer_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServer).ConnectPlayer(ctx, req.(*JoinGameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Game_StreamGame_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(GameServer).StreamGame(&gameStreamGameServer{stream})
}

// Game_StreamGameServer is the server half of the StreamGame bidi stream.
type Game_StreamGameServer interface {
	Send(*Player) error
	Recv() (*InputDirection, error)
	grpc.ServerStream
}

type gameStreamGameServer struct {
	grpc.ServerStream
}

func (x *gameStreamGameServer) Send(m *Player) error {
	return x.ServerStream.SendMsg(m)
}

func (x *gameStreamGameServer) Recv() (*InputDirection, error) {
	m := new(InputDirection)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Game_ServiceDesc is the grpc.ServiceDesc for the Game service.
var Game_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mazeio.Game",
	HandlerType: (*GameServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ConnectPlayer",
			Handler:    _Game_ConnectPlayer_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamGame",
			Handler:       _Game_StreamGame_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "mazeio.proto",
}
