package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rizaski/walkietalkie/internal/domain"
	"github.com/Rizaski/walkietalkie/internal/protocol"
)

// RelayEngine routes audio chunks, speaking-state updates, and emergency
// announcements between channel members. Lookups run under the coordinator's
// lock, so a relay never sees a half-applied membership change; the member
// set it reads is a snapshot, delivery is best-effort.
type RelayEngine struct {
	m *MembershipCoordinator
}

func NewRelayEngine(m *MembershipCoordinator) *RelayEngine {
	return &RelayEngine{m: m}
}

// RelayAudio forwards the payload to every other member of the resolved
// channel. The chunk itself carries the speaking signal: the sender is marked
// speaking without a separate user-speaking event. Unknown sender or
// unresolved channel is a silent no-op.
func (e *RelayEngine) RelayAudio(sender domain.ClientID, channel domain.ChannelName, blob []byte) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	c, ok := e.m.conns.Get(sender)
	if !ok {
		return
	}
	ch := channel
	if ch == "" {
		ch = c.Channel
	}
	if ch == "" {
		return
	}

	c.IsSpeaking = true
	e.m.presence.sendToChannelExcept(ch, sender, protocol.AudioChunkEvent{
		Type:      protocol.TypeAudioChunk,
		From:      sender,
		Username:  c.Username,
		Role:      c.Role,
		Blob:      blob,
		Timestamp: time.Now().UnixMilli(),
	})
}

// SetSpeaking updates the transmit flag and notifies the other channel
// members, if any.
func (e *RelayEngine) SetSpeaking(sender domain.ClientID, speaking bool) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	c, ok := e.m.conns.Get(sender)
	if !ok {
		return
	}
	c.IsSpeaking = speaking
	if c.Channel == "" {
		return
	}

	e.m.presence.sendToChannelExcept(c.Channel, sender, protocol.UserSpeakingEvent{
		Type:       protocol.TypeUserSpeaking,
		ID:         sender,
		Username:   c.Username,
		IsSpeaking: speaking,
	})
}

// EmergencyBroadcast is gated on the admin role and, unlike the audio relay,
// reaches every member of the channel including the sender. Unauthorized
// attempts are dropped without a reply so the caller learns nothing about
// roles.
func (e *RelayEngine) EmergencyBroadcast(sender domain.ClientID, channel domain.ChannelName, message string) {
	e.m.mu.RLock()
	defer e.m.mu.RUnlock()

	c, ok := e.m.conns.Get(sender)
	if !ok || c.Role != domain.RoleAdmin {
		return
	}
	ch := channel
	if ch == "" {
		ch = c.Channel
	}
	if ch == "" {
		return
	}

	evt := protocol.EmergencyEvent{
		Type:      protocol.TypeEmergencyOut,
		From:      sender,
		Username:  c.Username,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, id := range e.m.channels.MembersOf(ch) {
		e.m.presence.sendTo(id, evt)
	}
	log.Info().Str("module", "app.relay").Str("from", string(sender)).
		Str("channel", string(ch)).Msg("emergency broadcast")
}

// Channels returns the current channel list for a get-channels reply.
func (e *RelayEngine) Channels() []domain.ChannelInfo {
	e.m.mu.RLock()
	defer e.m.mu.RUnlock()
	return e.m.presence.channelList()
}
