package ws

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/session"
)

const (
	maxFrameBytes = 4096
	closeTimeout  = time.Second
)

// Conn adapts a WebSocket connection to the session Inbound and Outbound interfaces.
type Conn struct {
	ws           *websocket.Conn
	connID       string
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewConn wraps ws.
//
// Precondition: ws and logger must be non-nil.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(ws *websocket.Conn, connID string, writeTimeout time.Duration, logger *zap.Logger) *Conn {
	ws.SetReadLimit(maxFrameBytes)
	return &Conn{ws: ws, connID: connID, writeTimeout: writeTimeout, logger: logger}
}

// Recv returns the next valid direction. Frames that do not decode to a
// direction are logged and skipped. A normal close from the client yields io.EOF.
func (c *Conn) Recv() (maze.Direction, error) {
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return 0, io.EOF
			}
			return 0, err
		}

		var frame ClientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.logger.Warn("dropping malformed frame", zap.String("conn_id", c.connID), zap.Error(err))
			continue
		}
		d, err := maze.ParseDirection(frame.Direction)
		if err != nil {
			c.logger.Warn("dropping malformed direction", zap.String("conn_id", c.connID), zap.Error(err))
			continue
		}
		return d, nil
	}
}

// Send writes a player frame.
func (c *Conn) Send(p session.Player) error {
	return c.writeFrame(playerFrame(p))
}

func (c *Conn) writeFrame(f ServerFrame) error {
	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.ws.WriteJSON(f)
}

// CloseWith sends a close frame with code and reason, then closes the connection.
func (c *Conn) CloseWith(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	werr := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	if errors.Is(werr, websocket.ErrCloseSent) {
		werr = nil
	}
	return errors.Join(werr, c.ws.Close())
}
