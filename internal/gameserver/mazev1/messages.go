// Package mazev1 holds the mazeio wire messages and the Game gRPC service.
//
// Messages are encoded in protobuf wire format by hand with protowire so the
// service stays compatible with clients built from api/proto/mazeio/v1/mazeio.proto:
//
//	enum Direction { LEFT = 0; RIGHT = 1; UP = 2; DOWN = 3; }
//	enum CellType  { OPEN = 0; WALL = 1; }
//	message JoinGameRequest  { string name = 1; }
//	message JoinGameResponse { string player_id = 1; Maze maze = 2; repeated Player players = 3; }
//	message Maze             { uint32 width = 1; uint32 height = 2; repeated CellType cells = 3; }
//	message Position         { uint32 x = 1; uint32 y = 2; }
//	message Player           { string id = 1; string name = 2; Position pos = 3; bool alive = 4; }
//	message InputDirection   { Direction direction = 1; }
//	service Game {
//	  rpc ConnectPlayer(JoinGameRequest) returns (JoinGameResponse);
//	  rpc StreamGame(stream InputDirection) returns (stream Player);
//	}
package mazev1

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Direction is the wire enum for a movement direction.
type Direction int32

const (
	Direction_LEFT  Direction = 0
	Direction_RIGHT Direction = 1
	Direction_UP    Direction = 2
	Direction_DOWN  Direction = 3
)

// CellType is the wire enum for a maze cell.
type CellType int32

const (
	CellType_OPEN CellType = 0
	CellType_WALL CellType = 1
)

// JoinGameRequest asks to join the session under a display name.
type JoinGameRequest struct {
	Name string
}

func (x *JoinGameRequest) GetName() string {
	if x == nil {
		return ""
	}
	return x.Name
}

func (x *JoinGameRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, x.Name), nil
}

func (x *JoinGameRequest) Unmarshal(b []byte) error {
	*x = JoinGameRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			x.Name = v
			return n
		}
		return 0
	})
}

// JoinGameResponse carries the joining player's id, the maze, and the roster.
type JoinGameResponse struct {
	PlayerId string
	Maze     *Maze
	Players  []*Player
}

func (x *JoinGameResponse) GetPlayerId() string {
	if x == nil {
		return ""
	}
	return x.PlayerId
}

func (x *JoinGameResponse) GetMaze() *Maze {
	if x == nil {
		return nil
	}
	return x.Maze
}

func (x *JoinGameResponse) GetPlayers() []*Player {
	if x == nil {
		return nil
	}
	return x.Players
}

func (x *JoinGameResponse) Marshal() ([]byte, error) {
	b := appendString(nil, 1, x.PlayerId)
	if x.Maze != nil {
		b = appendMessage(b, 2, x.Maze.appendTo(nil))
	}
	for _, p := range x.Players {
		if p == nil {
			continue
		}
		b = appendMessage(b, 3, p.appendTo(nil))
	}
	return b, nil
}

func (x *JoinGameResponse) Unmarshal(b []byte) error {
	*x = JoinGameResponse{}
	var inner error
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.BytesType {
			return 0
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			x.PlayerId = v
			return n
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			if x.Maze == nil {
				x.Maze = &Maze{}
			}
			if err := x.Maze.merge(v); err != nil && inner == nil {
				inner = err
			}
			return n
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			p := &Player{}
			if err := p.merge(v); err != nil && inner == nil {
				inner = err
			}
			x.Players = append(x.Players, p)
			return n
		}
		return 0
	})
	if err != nil {
		return err
	}
	return inner
}

// Maze is a row-major cell grid.
type Maze struct {
	Width  uint32
	Height uint32
	Cells  []CellType
}

func (x *Maze) GetWidth() uint32 {
	if x == nil {
		return 0
	}
	return x.Width
}

func (x *Maze) GetHeight() uint32 {
	if x == nil {
		return 0
	}
	return x.Height
}

func (x *Maze) GetCells() []CellType {
	if x == nil {
		return nil
	}
	return x.Cells
}

func (x *Maze) Marshal() ([]byte, error) {
	return x.appendTo(nil), nil
}

func (x *Maze) Unmarshal(b []byte) error {
	*x = Maze{}
	return x.merge(b)
}

func (x *Maze) appendTo(b []byte) []byte {
	b = appendUint(b, 1, uint64(x.Width))
	b = appendUint(b, 2, uint64(x.Height))
	if len(x.Cells) > 0 {
		var packed []byte
		for _, c := range x.Cells {
			packed = protowire.AppendVarint(packed, uint64(int64(c)))
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	return b
}

func (x *Maze) merge(b []byte) error {
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			x.Width = uint32(v)
			return n
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			x.Height = uint32(v)
			return n
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			x.Cells = append(x.Cells, CellType(int32(v)))
			return n
		case num == 3 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return m
				}
				x.Cells = append(x.Cells, CellType(int32(v)))
				packed = packed[m:]
			}
			return n
		}
		return 0
	})
}

// Position is a grid coordinate.
type Position struct {
	X uint32
	Y uint32
}

func (x *Position) GetX() uint32 {
	if x == nil {
		return 0
	}
	return x.X
}

func (x *Position) GetY() uint32 {
	if x == nil {
		return 0
	}
	return x.Y
}

func (x *Position) appendTo(b []byte) []byte {
	b = appendUint(b, 1, uint64(x.X))
	return appendUint(b, 2, uint64(x.Y))
}

func (x *Position) merge(b []byte) error {
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.VarintType {
			return 0
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			x.X = uint32(v)
			return n
		case 2:
			v, n := protowire.ConsumeVarint(b)
			x.Y = uint32(v)
			return n
		}
		return 0
	})
}

// Player is one player's state; it is also the server-to-client stream event.
type Player struct {
	Id    string
	Name  string
	Pos   *Position
	Alive bool
}

func (x *Player) GetId() string {
	if x == nil {
		return ""
	}
	return x.Id
}

func (x *Player) GetName() string {
	if x == nil {
		return ""
	}
	return x.Name
}

func (x *Player) GetPos() *Position {
	if x == nil {
		return nil
	}
	return x.Pos
}

func (x *Player) GetAlive() bool {
	if x == nil {
		return false
	}
	return x.Alive
}

func (x *Player) Marshal() ([]byte, error) {
	return x.appendTo(nil), nil
}

func (x *Player) Unmarshal(b []byte) error {
	*x = Player{}
	return x.merge(b)
}

func (x *Player) appendTo(b []byte) []byte {
	b = appendString(b, 1, x.Id)
	b = appendString(b, 2, x.Name)
	if x.Pos != nil {
		b = appendMessage(b, 3, x.Pos.appendTo(nil))
	}
	if x.Alive {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

func (x *Player) merge(b []byte) error {
	var inner error
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			x.Id = v
			return n
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			x.Name = v
			return n
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			if x.Pos == nil {
				x.Pos = &Position{}
			}
			if err := x.Pos.merge(v); err != nil && inner == nil {
				inner = err
			}
			return n
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			x.Alive = protowire.DecodeBool(v)
			return n
		}
		return 0
	})
	if err != nil {
		return err
	}
	return inner
}

// InputDirection is one client-to-server stream message.
type InputDirection struct {
	Direction Direction
}

func (x *InputDirection) GetDirection() Direction {
	if x == nil {
		return Direction_LEFT
	}
	return x.Direction
}

func (x *InputDirection) Marshal() ([]byte, error) {
	if x.Direction == 0 {
		return nil, nil
	}
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(x.Direction))), nil
}

func (x *InputDirection) Unmarshal(b []byte) error {
	*x = InputDirection{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			x.Direction = Direction(int32(v))
			return n
		}
		return 0
	})
}

// walkFields decodes each field tag in b and hands the remaining bytes to fn.
// fn returns the number of bytes it consumed, 0 to skip the field as unknown,
// or a negative protowire error code.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := fn(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}
