package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazeio/internal/game/session"
	"github.com/cory-johannsen/mazeio/internal/gameserver"
)

// Handler upgrades HTTP requests to WebSocket sessions on a gameserver.Service.
type Handler struct {
	svc          *gameserver.Service
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewHandler creates a Handler. Every origin is accepted.
//
// Precondition: svc and logger must be non-nil.
func NewHandler(svc *gameserver.Service, writeTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// ServeHTTP joins the caller under the "name" query parameter and runs its session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name query", http.StatusBadRequest)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	connID := "ws-" + uuid.NewString()
	conn := NewConn(raw, connID, h.writeTimeout, h.logger)
	start := time.Now()

	res, err := h.svc.Join(connID, name)
	if err != nil {
		code := websocket.CloseInternalServerErr
		if errors.Is(err, session.ErrAlreadyRegistered) {
			code = websocket.ClosePolicyViolation
		}
		_ = conn.CloseWith(code, "join failed")
		return
	}
	if err := conn.writeFrame(joinFrame(res)); err != nil {
		h.logger.Info("sending join frame", zap.String("conn_id", connID), zap.Error(err))
		h.svc.Disconnect(connID)
		_ = raw.Close()
		return
	}

	err = h.svc.Stream(r.Context(), connID, conn, conn)
	switch {
	case errors.Is(err, gameserver.ErrTooManyWriteFailures):
		_ = conn.CloseWith(websocket.CloseTryAgainLater, "too slow")
	case err != nil:
		_ = raw.Close()
	default:
		_ = conn.CloseWith(websocket.CloseNormalClosure, "")
	}

	h.logger.Info("websocket session ended",
		zap.String("conn_id", connID),
		zap.String("remote_addr", r.RemoteAddr),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
}
