package protocol

import (
	"encoding/json"

	"github.com/Rizaski/walkietalkie/internal/domain"
)

const (
	TypeError        = "error"
	TypeUserJoined   = "user-joined"
	TypeUserLeft     = "user-left"
	TypeRoster       = "roster"
	TypeChannelsList = "channels-list"
	TypeUserSpeaking = "user-speaking"
	TypeEmergencyOut = "emergency"
	TypePong         = "pong"
)

// ErrorEvent is sent to the originating caller only.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UserJoinedEvent is emitted to the other members of the joined channel.
type UserJoinedEvent struct {
	Type     string          `json:"type"`
	ID       domain.ClientID `json:"id"`
	Username string          `json:"username"`
	Role     domain.Role     `json:"role"`
}

// UserLeftEvent is emitted only for explicit leave and disconnect, never for
// the implicit leave performed when a client switches channels.
type UserLeftEvent struct {
	Type string          `json:"type"`
	ID   domain.ClientID `json:"id"`
}

type RosterEvent struct {
	Type   string               `json:"type"`
	Roster []domain.RosterEntry `json:"roster"`
}

type ChannelsListEvent struct {
	Type     string               `json:"type"`
	Channels []domain.ChannelInfo `json:"channels"`
}

// AudioChunkEvent relays one opaque payload to every channel member except
// the sender. Timestamp is attached at send time, in milliseconds.
type AudioChunkEvent struct {
	Type      string          `json:"type"`
	From      domain.ClientID `json:"from"`
	Username  string          `json:"username"`
	Role      domain.Role     `json:"role"`
	Blob      []byte          `json:"blob"`
	Timestamp int64           `json:"timestamp"`
}

type UserSpeakingEvent struct {
	Type       string          `json:"type"`
	ID         domain.ClientID `json:"id"`
	Username   string          `json:"username"`
	IsSpeaking bool            `json:"isSpeaking"`
}

// EmergencyEvent is a loudspeaker announcement: it reaches every channel
// member including the sender.
type EmergencyEvent struct {
	Type      string          `json:"type"`
	From      domain.ClientID `json:"from"`
	Username  string          `json:"username"`
	Message   string          `json:"message"`
	Timestamp int64           `json:"timestamp"`
}

// PongEvent echoes the ping payload back unchanged.
type PongEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
