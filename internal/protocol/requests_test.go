package protocol

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRequest_Join(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"join","channel":"ops","username":"alice","role":"admin"}`))
	req.NoError(err)
	req.Equal(JoinRequest{Channel: "ops", Username: "alice", Role: "admin"}, r)
}

func TestDecodeRequest_JoinWithoutRole(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"join","channel":"ops","username":"alice"}`))
	req.NoError(err)
	req.Equal(JoinRequest{Channel: "ops", Username: "alice"}, r)
}

func TestDecodeRequest_Leave(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"leave"}`))
	req.NoError(err)
	req.Equal(LeaveRequest{}, r)

	r, err = DecodeRequest([]byte(`{"type":"leave","channel":"ops"}`))
	req.NoError(err)
	req.Equal(LeaveRequest{Channel: "ops"}, r)
}

func TestDecodeRequest_AudioChunkBlobPassesThrough(t *testing.T) {
	req := require.New(t)
	blob := []byte{0x00, 0x10, 0xfe}
	raw := `{"type":"audio-chunk","channel":"ops","blob":"` + base64.StdEncoding.EncodeToString(blob) + `"}`

	r, err := DecodeRequest([]byte(raw))
	req.NoError(err)
	req.Equal(AudioChunkRequest{Channel: "ops", Blob: blob}, r)
}

func TestDecodeRequest_SpeakingState(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"speaking-state","isSpeaking":true}`))
	req.NoError(err)
	req.Equal(SpeakingStateRequest{IsSpeaking: true}, r)
}

func TestDecodeRequest_Emergency(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"emergency-broadcast","message":"evac"}`))
	req.NoError(err)
	req.Equal(EmergencyRequest{Message: "evac"}, r)
}

func TestDecodeRequest_GetChannels(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"get-channels"}`))
	req.NoError(err)
	req.Equal(GetChannelsRequest{}, r)
}

func TestDecodeRequest_PingKeepsRawPayload(t *testing.T) {
	req := require.New(t)

	r, err := DecodeRequest([]byte(`{"type":"ping","payload":{"t":123}}`))
	req.NoError(err)
	ping, ok := r.(PingRequest)
	req.True(ok)
	req.JSONEq(`{"t":123}`, string(ping.Payload))
}

func TestDecodeRequest_UnknownType(t *testing.T) {
	req := require.New(t)

	_, err := DecodeRequest([]byte(`{"type":"teleport"}`))
	req.ErrorIs(err, ErrUnknownType)
}

func TestDecodeRequest_BadEnvelope(t *testing.T) {
	_, err := DecodeRequest([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeRequest_BadFieldType(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"type":"speaking-state","isSpeaking":"yes"}`))
	require.Error(t, err)
}
