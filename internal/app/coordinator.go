package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rizaski/walkietalkie/internal/domain"
	"github.com/Rizaski/walkietalkie/internal/protocol"
)

// Sender is the transport-side sink for one connection. TrySend must not
// block; a full send buffer is reported as an error and the frame is dropped.
type Sender interface {
	TrySend(data []byte) error
}

// MembershipCoordinator orchestrates join/leave/disconnect across the two
// registries. One RWMutex guards both, so no operation ever observes a
// half-applied membership change. Sends issued under the lock are
// fire-and-forget TrySend dispatches, never network I/O.
type MembershipCoordinator struct {
	mu       sync.RWMutex
	conns    *ConnectionRegistry
	channels *ChannelIndex
	senders  map[domain.ClientID]Sender
	presence *PresenceBroadcaster
}

func NewMembershipCoordinator() *MembershipCoordinator {
	conns := NewConnectionRegistry()
	channels := NewChannelIndex()
	senders := make(map[domain.ClientID]Sender)
	return &MembershipCoordinator{
		conns:    conns,
		channels: channels,
		senders:  senders,
		presence: &PresenceBroadcaster{conns: conns, channels: channels, senders: senders},
	}
}

// Connect binds the transport sink for a new connection. No channel yet.
func (m *MembershipCoordinator) Connect(id domain.ClientID, s Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senders[id] = s
	log.Info().Str("module", "app.membership").Str("id", string(id)).Msg("connection registered")
}

// Join moves the connection into the target channel. A connection already in
// another channel is moved over with an implicit leave: membership and roster
// refresh for the old channel, but no user-left event.
func (m *MembershipCoordinator) Join(id domain.ClientID, channel domain.ChannelName, username string, role domain.Role) error {
	if channel == "" {
		return domain.ErrChannelRequired
	}
	if username == "" {
		return domain.ErrUsernameRequired
	}
	if role == "" {
		role = domain.RoleUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.conns.Get(id); ok && prev.Channel != "" && prev.Channel != channel {
		m.channels.RemoveMember(prev.Channel, id)
		m.presence.publishRoster(prev.Channel)
	}

	m.conns.Upsert(&domain.Client{ID: id, Username: username, Channel: channel, Role: role})
	m.channels.AddMember(channel, id)

	m.presence.sendToChannelExcept(channel, id, protocol.UserJoinedEvent{
		Type:     protocol.TypeUserJoined,
		ID:       id,
		Username: username,
		Role:     role,
	})
	m.presence.publishRoster(channel)
	m.presence.publishChannelList()

	log.Info().Str("module", "app.membership").Str("id", string(id)).
		Str("username", username).Str("channel", string(channel)).Msg("joined channel")
	return nil
}

// Leave removes the connection from the given channel, or from its recorded
// one when the argument is empty. No-op when neither resolves. Leave deletes
// the whole session record, not just the membership, mirroring disconnect.
func (m *MembershipCoordinator) Leave(id domain.ClientID, channel domain.ChannelName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(id, channel)
}

func (m *MembershipCoordinator) leaveLocked(id domain.ClientID, channel domain.ChannelName) {
	ch := channel
	if ch == "" {
		if c, ok := m.conns.Get(id); ok {
			ch = c.Channel
		}
	}
	if ch == "" {
		return
	}

	m.channels.RemoveMember(ch, id)
	m.conns.Remove(id)

	m.presence.sendToChannelExcept(ch, id, protocol.UserLeftEvent{Type: protocol.TypeUserLeft, ID: id})
	m.presence.publishRoster(ch)
	m.presence.publishChannelList()

	log.Info().Str("module", "app.membership").Str("id", string(id)).Str("channel", string(ch)).Msg("left channel")
}

// Disconnect runs the leave sequence when a channel is recorded, then drops
// the session record and the transport binding. Idempotent.
func (m *MembershipCoordinator) Disconnect(id domain.ClientID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.conns.Get(id); ok && c.Channel != "" {
		m.leaveLocked(id, c.Channel)
	}
	m.conns.Remove(id)
	delete(m.senders, id)
	log.Info().Str("module", "app.membership").Str("id", string(id)).Msg("connection removed")
}
