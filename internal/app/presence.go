package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Rizaski/walkietalkie/internal/domain"
	"github.com/Rizaski/walkietalkie/internal/protocol"
)

// PresenceBroadcaster recomputes and fans out rosters and the global channel
// list after every membership mutation. Derived views are rebuilt each time,
// never cached. All methods run with the coordinator's lock held.
type PresenceBroadcaster struct {
	conns    *ConnectionRegistry
	channels *ChannelIndex
	senders  map[domain.ClientID]Sender
}

// publishRoster sends the current roster to every member of the channel.
// A channel with no members (already deleted) gets nothing, not an empty
// roster.
func (p *PresenceBroadcaster) publishRoster(name domain.ChannelName) {
	ids := p.channels.MembersOf(name)
	if len(ids) == 0 {
		return
	}

	roster := make([]domain.RosterEntry, 0, len(ids))
	for _, id := range ids {
		c, ok := p.conns.Get(id)
		if !ok {
			continue
		}
		roster = append(roster, domain.RosterEntry{
			ID:         id,
			Username:   c.Username,
			Role:       c.Role,
			IsSpeaking: c.IsSpeaking,
		})
	}

	evt := protocol.RosterEvent{Type: protocol.TypeRoster, Roster: roster}
	for _, id := range ids {
		p.sendTo(id, evt)
	}
}

// publishChannelList goes to every connected client, joined or not.
func (p *PresenceBroadcaster) publishChannelList() {
	evt := protocol.ChannelsListEvent{Type: protocol.TypeChannelsList, Channels: p.channelList()}
	for id := range p.senders {
		p.sendTo(id, evt)
	}
}

func (p *PresenceBroadcaster) channelList() []domain.ChannelInfo {
	return lo.MapToSlice(p.channels.List(), func(name domain.ChannelName, count int) domain.ChannelInfo {
		return domain.ChannelInfo{Name: name, UserCount: count}
	})
}

func (p *PresenceBroadcaster) sendToChannelExcept(name domain.ChannelName, except domain.ClientID, v any) {
	for _, id := range p.channels.MembersOf(name) {
		if id == except {
			continue
		}
		p.sendTo(id, v)
	}
}

func (p *PresenceBroadcaster) sendTo(id domain.ClientID, v any) {
	s, ok := p.senders[id]
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("marshal event")
		return
	}
	if err := s.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "app.presence").Str("id", string(id)).Msg("frame dropped")
	}
}
