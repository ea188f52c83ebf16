// Package ws implements the real-time protocol: the JSON message contracts,
// the per-session connection registry and the broadcast hub.
package ws

import (
	"encoding/json"
	"errors"
)

type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// MessageType discriminates the protocol envelopes in both directions.
type MessageType string

const (
	// client -> server
	TypeJoin        MessageType = "join"
	TypeLeave       MessageType = "leave"
	TypePhaseChange MessageType = "phase_change"
	TypePing        MessageType = "ping"

	// server -> client
	TypeWelcome      MessageType = "welcome"
	TypeUserJoined   MessageType = "user_joined"
	TypeUserLeft     MessageType = "user_left"
	TypePhaseChanged MessageType = "phase_changed"
	TypeRoomSnapshot MessageType = "room_snapshot"
	TypeAck          MessageType = "ack"
	TypeError        MessageType = "error"
)

var (
	ErrInvalidJSON  = errors.New("invalid_json")
	ErrUnknownType  = errors.New("unknown_message_type")
	ErrMissingField = errors.New("missing_session_or_user")
	ErrMissingPhase = errors.New("missing_phase")
)

// UserSummary describes one present participant in a room snapshot.
type UserSummary struct {
	UserID      string `json:"userId"`
	Name        string `json:"name,omitempty"`
	Role        Role   `json:"role"`
	ConnectedAt int64  `json:"connectedAt"` // epoch milliseconds
}

// RoomSnapshot is the phase plus the present participants of one session,
// in join order.
type RoomSnapshot struct {
	SessionID string        `json:"sessionId"`
	Phase     string        `json:"phase,omitempty"`
	Users     []UserSummary `json:"users"`
}

// ClientMessage is the closed set of envelopes a client may send.
type ClientMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	UserID    string      `json:"userId,omitempty"`
	Name      string      `json:"name,omitempty"`
	Role      Role        `json:"role,omitempty"`
	Phase     string      `json:"phase,omitempty"`
}

// DecodeClientMessage parses and validates an inbound envelope. A bad payload
// never reaches the hub: it is rejected here with an error the handler echoes
// back as a protocol error message.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return ClientMessage{}, ErrInvalidJSON
	}

	switch m.Type {
	case TypeJoin:
		if m.SessionID == "" || m.UserID == "" {
			return ClientMessage{}, ErrMissingField
		}
		if m.Role != RoleHost {
			m.Role = RolePlayer
		}
	case TypeLeave:
		if m.SessionID == "" || m.UserID == "" {
			return ClientMessage{}, ErrMissingField
		}
	case TypePhaseChange:
		if m.SessionID == "" || m.UserID == "" {
			return ClientMessage{}, ErrMissingField
		}
		if m.Phase == "" {
			return ClientMessage{}, ErrMissingPhase
		}
	case TypePing:
		// sessionId is optional on pings
	default:
		return ClientMessage{}, ErrUnknownType
	}
	return m, nil
}

// You identifies the joining client inside its welcome message.
type You struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	Name   string `json:"name,omitempty"`
}

// ServerMessage is the closed set of envelopes the server may send. Empty
// fields are omitted, so each constructor below produces exactly the wire
// shape of its message type.
type ServerMessage struct {
	Type      MessageType   `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	You       *You          `json:"you,omitempty"`
	Room      *RoomSnapshot `json:"room,omitempty"`
	User      *UserSummary  `json:"user,omitempty"`
	UserID    string        `json:"userId,omitempty"`
	Phase     string        `json:"phase,omitempty"`
	By        string        `json:"by,omitempty"`
	Message   string        `json:"message,omitempty"`
}

func Welcome(sessionID string, you You, room RoomSnapshot) ServerMessage {
	return ServerMessage{Type: TypeWelcome, SessionID: sessionID, You: &you, Room: &room}
}

func UserJoined(sessionID string, user UserSummary) ServerMessage {
	return ServerMessage{Type: TypeUserJoined, SessionID: sessionID, User: &user}
}

func UserLeft(sessionID, userID string) ServerMessage {
	return ServerMessage{Type: TypeUserLeft, SessionID: sessionID, UserID: userID}
}

func PhaseChanged(sessionID, phase, by string) ServerMessage {
	return ServerMessage{Type: TypePhaseChanged, SessionID: sessionID, Phase: phase, By: by}
}

func Snapshot(room RoomSnapshot) ServerMessage {
	return ServerMessage{Type: TypeRoomSnapshot, SessionID: room.SessionID, Room: &room}
}

func Ack() ServerMessage {
	return ServerMessage{Type: TypeAck}
}

func ErrorMessage(message string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: message}
}
