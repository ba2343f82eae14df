package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Selection changes are small JSON objects.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// sessionMessage is pushed to the viewer after connect and after every change.
type sessionMessage struct {
	Type      string               `json:"type"` // view or error
	SessionID string               `json:"session_id"`
	View      *dashboard.ViewModel `json:"view,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// handleSession upgrades to a WebSocket and drives one dashboard session.
// Inbound messages are selection changes; each one triggers a full re-render.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := s.dash.NewSession()
	logger := s.logger.With(slog.String("session_id", session.ID()))
	logger.Info("session opened", "remote_addr", r.RemoteAddr)
	s.metrics.ActiveSessions.Inc()
	defer s.metrics.ActiveSessions.Dec()

	send := make(chan []byte, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(conn, send, logger)
	}()

	out := outbox{send: send, writerDone: writerDone, sessionID: session.ID()}
	ctx := r.Context()
	vm, err := session.Render(ctx)
	if s.push(out, s.viewMessage(logger, vm, err)) {
		s.readPump(ctx, conn, session, out, logger)
	}
	close(send)
	<-writerDone
	logger.Info("session closed")
}

func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, session *dashboard.Session, out outbox, logger *slog.Logger) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // deadline errors surface on read
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("unexpected websocket close", "error", err)
			}
			return
		}

		var change dashboard.SelectionChange
		if err := json.Unmarshal(data, &change); err != nil {
			if !s.push(out, sessionMessage{Type: "error", Error: "invalid selection message"}) {
				return
			}
			continue
		}
		vm, err := session.Apply(ctx, change)
		if !s.push(out, s.viewMessage(logger, vm, err)) {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, send <-chan []byte, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close() //nolint:errcheck // closing a finished session
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // deadline errors surface on write
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck // peer may already be gone
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // deadline errors surface on write
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // deadline errors surface on write
			bye := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			conn.WriteMessage(websocket.CloseMessage, bye) //nolint:errcheck // best-effort goodbye
			return
		}
	}
}

func (s *Server) viewMessage(logger *slog.Logger, vm dashboard.ViewModel, err error) sessionMessage {
	if err != nil {
		logger.Error("render failed", "error", err)
		return sessionMessage{Type: "error", Error: "failed to render dashboard"}
	}
	return sessionMessage{Type: "view", View: &vm}
}

// outbox is the read side's handle on a session's writer.
type outbox struct {
	send       chan<- []byte
	writerDone <-chan struct{}
	sessionID  string
}

// push queues a message for the writer. It returns false once the writer has
// stopped or the server is shutting down.
func (s *Server) push(out outbox, msg sessionMessage) bool {
	msg.SessionID = out.sessionID
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode session message failed", "error", err)
		return false
	}
	select {
	case out.send <- data:
		return true
	case <-out.writerDone:
		return false
	case <-s.done:
		return false
	}
}
