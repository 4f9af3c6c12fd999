// Package websocket serves sessions over WebSocket with the same JSON
// frames as the gRPC stream.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"workspace-chat/auth"
	"workspace-chat/errors"
	"workspace-chat/gateway"
	"workspace-chat/gateway/wire"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

type Handler struct {
	log      *slog.Logger
	gateway  *gateway.Gateway
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from any origin when checkOrigin is nil.
func NewHandler(log *slog.Logger, gw *gateway.Gateway, tokens *auth.TokenManager, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		log:     log,
		gateway: gw,
		tokens:  tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeHTTP authenticates with the Authorization header or the token query
// parameter, then pumps the session until either side closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.authenticate(r)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "user_id", identity.UserID, "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session, err := h.gateway.Open(ctx, identity)
	if err != nil {
		closeWith(conn, websocket.CloseInternalServerErr, errors.Code(err))
		return
	}
	defer session.Close(nil)

	go h.read(ctx, conn, session)
	h.write(conn, session)
}

func (h *Handler) authenticate(r *http.Request) (auth.Identity, error) {
	token := r.URL.Query().Get("token")
	if header := r.Header.Get("Authorization"); header != "" {
		var err error
		if token, err = auth.BearerToken(header); err != nil {
			return auth.Identity{}, err
		}
	}
	return h.tokens.Validate(token)
}

func (h *Handler) read(ctx context.Context, conn *websocket.Conn, session *gateway.Session) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("WebSocket read failed", "session_id", session.ID(), "error", err)
			}
			session.Close(nil)
			return
		}
		var intent wire.Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			session.Reject(fmt.Errorf("%w: %w", errors.ErrValidation, err))
			continue
		}
		if err := session.Handle(ctx, intent); errors.Is(err, errors.ErrSessionClosed) {
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, session *gateway.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-session.Outbound():
			if err := writeFrame(conn, frame); err != nil {
				h.log.Warn("Failed to push frame", "session_id", session.ID(), "error", err)
				session.Close(nil)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				session.Close(nil)
				return
			}
		case <-session.Done():
			if err := session.Err(); err != nil {
				closeWith(conn, websocket.CloseTryAgainLater, errors.Code(err))
				return
			}
			for {
				select {
				case frame := <-session.Outbound():
					if writeFrame(conn, frame) != nil {
						return
					}
				default:
					closeWith(conn, websocket.CloseNormalClosure, "")
					return
				}
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, frame wire.Frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
}
