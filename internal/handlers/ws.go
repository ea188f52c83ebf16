package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/ws"
)

type WSHandler struct {
	hub      *ws.Hub
	sessions *services.SessionService
}

func NewWSHandler(hub *ws.Hub, sessions *services.SessionService) *WSHandler {
	return &WSHandler{hub: hub, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the request and runs the read loop for one client.
// When sessionId and userId arrive in the query string the client is joined
// immediately, before its first message; otherwise it must send a join
// envelope first.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}
	conn := ws.NewConn(raw)

	// sessionID/userID track the room this socket currently occupies so the
	// deferred disconnect removes exactly this connection and nothing newer.
	var sessionID, userID string
	defer func() {
		if sessionID != "" && userID != "" {
			h.hub.Disconnect(sessionID, userID, conn)
		}
		raw.Close()
	}()

	join := func(m ws.ClientMessage) {
		if sessionID != "" && (sessionID != m.SessionID || userID != m.UserID) {
			h.hub.Disconnect(sessionID, userID, conn)
		}
		sessionID, userID = m.SessionID, m.UserID
		h.hub.Join(m.SessionID, m.UserID, m.Name, m.Role, conn)
	}

	if q := c.Request.URL.Query(); q.Get("sessionId") != "" && q.Get("userId") != "" {
		role := ws.RolePlayer
		if ws.Role(q.Get("role")) == ws.RoleHost {
			role = ws.RoleHost
		}
		join(ws.ClientMessage{
			Type:      ws.TypeJoin,
			SessionID: q.Get("sessionId"),
			UserID:    q.Get("userId"),
			Name:      q.Get("name"),
			Role:      role,
		})
	}

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			return
		}

		m, err := ws.DecodeClientMessage(data)
		if err != nil {
			h.send(conn, ws.ErrorMessage(err.Error()))
			continue
		}

		switch m.Type {
		case ws.TypeJoin:
			join(m)
		case ws.TypeLeave:
			h.hub.Leave(m.SessionID, m.UserID)
			if m.SessionID == sessionID && m.UserID == userID {
				sessionID, userID = "", ""
				conn.CloseWithCode(ws.CloseClientLeft, ws.ReasonClientLeft)
				return
			}
		case ws.TypePhaseChange:
			// the committed transition is broadcast by the service's
			// notifier, in commit order
			if _, err := h.sessions.AdvancePhase(c.Request.Context(), m.SessionID, m.Phase, m.UserID); err != nil {
				h.send(conn, ws.ErrorMessage(err.Error()))
			}
		case ws.TypePing:
			if sessionID != "" {
				h.hub.Touch(sessionID, userID)
			}
			h.send(conn, ws.Ack())
		}
	}
}

func (h *WSHandler) send(conn ws.Conn, msg ws.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}
	if err := conn.Send(data); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.Printf("ws: send error: %v", err)
	}
}
