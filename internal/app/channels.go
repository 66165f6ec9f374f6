package app

import "github.com/Rizaski/walkietalkie/internal/domain"

// ChannelIndex maps channel name to the set of member connection ids. An
// entry exists if and only if its member set is non-empty; empty channels are
// dropped immediately, never kept as tombstones. Like ConnectionRegistry it
// relies on the coordinator's lock.
type ChannelIndex struct {
	channels map[domain.ChannelName]map[domain.ClientID]struct{}
}

func NewChannelIndex() *ChannelIndex {
	return &ChannelIndex{channels: make(map[domain.ChannelName]map[domain.ClientID]struct{})}
}

// AddMember creates the channel on first join.
func (x *ChannelIndex) AddMember(name domain.ChannelName, id domain.ClientID) {
	set, ok := x.channels[name]
	if !ok {
		set = make(map[domain.ClientID]struct{})
		x.channels[name] = set
	}
	set[id] = struct{}{}
}

// RemoveMember deletes the channel entry when its last member goes.
func (x *ChannelIndex) RemoveMember(name domain.ChannelName, id domain.ClientID) {
	set, ok := x.channels[name]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(x.channels, name)
	}
}

// MembersOf returns a snapshot of the member ids, empty if the channel does
// not exist.
func (x *ChannelIndex) MembersOf(name domain.ChannelName) []domain.ClientID {
	set := x.channels[name]
	out := make([]domain.ClientID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// List reports the member count per channel.
func (x *ChannelIndex) List() map[domain.ChannelName]int {
	out := make(map[domain.ChannelName]int, len(x.channels))
	for name, set := range x.channels {
		out[name] = len(set)
	}
	return out
}
