// Package protocol defines the JSON wire messages exchanged with clients.
// Every inbound message carries a type tag; DecodeRequest maps it onto the
// closed set of request variants, so unknown or malformed traffic is rejected
// in one place.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown message type")

const (
	TypeJoin          = "join"
	TypeLeave         = "leave"
	TypeAudioChunk    = "audio-chunk"
	TypeSpeakingState = "speaking-state"
	TypeEmergency     = "emergency-broadcast"
	TypeGetChannels   = "get-channels"
	TypePing          = "ping"
)

// Request is one decoded client message.
type Request interface {
	isRequest()
}

type JoinRequest struct {
	Channel  string `json:"channel"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LeaveRequest struct {
	Channel string `json:"channel"`
}

type AudioChunkRequest struct {
	Channel string `json:"channel"`
	Blob    []byte `json:"blob"`
}

type SpeakingStateRequest struct {
	IsSpeaking bool `json:"isSpeaking"`
}

type EmergencyRequest struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

type GetChannelsRequest struct{}

type PingRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (JoinRequest) isRequest()          {}
func (LeaveRequest) isRequest()         {}
func (AudioChunkRequest) isRequest()    {}
func (SpeakingStateRequest) isRequest() {}
func (EmergencyRequest) isRequest()     {}
func (GetChannelsRequest) isRequest()   {}
func (PingRequest) isRequest()          {}

// DecodeRequest parses the envelope tag and unmarshals the matching variant.
func DecodeRequest(data []byte) (Request, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bad envelope: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		var r JoinRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad join payload: %w", err)
		}
		return r, nil
	case TypeLeave:
		var r LeaveRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad leave payload: %w", err)
		}
		return r, nil
	case TypeAudioChunk:
		var r AudioChunkRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad audio payload: %w", err)
		}
		return r, nil
	case TypeSpeakingState:
		var r SpeakingStateRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad speaking payload: %w", err)
		}
		return r, nil
	case TypeEmergency:
		var r EmergencyRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad emergency payload: %w", err)
		}
		return r, nil
	case TypeGetChannels:
		return GetChannelsRequest{}, nil
	case TypePing:
		var r PingRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("bad ping payload: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
