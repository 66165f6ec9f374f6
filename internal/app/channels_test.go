package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rizaski/walkietalkie/internal/domain"
)

func TestChannelIndex_AddCreatesChannel(t *testing.T) {
	req := require.New(t)
	x := NewChannelIndex()

	// Given no channels
	req.Empty(x.List())

	// When two members join the same name
	x.AddMember("ops", "c1")
	x.AddMember("ops", "c2")

	// Then one channel exists with both ids
	req.Equal(map[domain.ChannelName]int{"ops": 2}, x.List())
	req.ElementsMatch([]domain.ClientID{"c1", "c2"}, x.MembersOf("ops"))
}

func TestChannelIndex_AddIsIdempotentPerMember(t *testing.T) {
	req := require.New(t)
	x := NewChannelIndex()

	x.AddMember("ops", "c1")
	x.AddMember("ops", "c1")

	req.Equal(map[domain.ChannelName]int{"ops": 1}, x.List())
}

func TestChannelIndex_RemoveLastMemberDeletesChannel(t *testing.T) {
	req := require.New(t)
	x := NewChannelIndex()
	x.AddMember("ops", "c1")
	x.AddMember("ops", "c2")

	// When members leave one by one
	x.RemoveMember("ops", "c1")
	req.Equal(map[domain.ChannelName]int{"ops": 1}, x.List())

	x.RemoveMember("ops", "c2")

	// Then the emptied channel is gone, not a tombstone
	req.Empty(x.List())
	req.Empty(x.MembersOf("ops"))
}

func TestChannelIndex_RemoveFromAbsentChannelIsNoOp(t *testing.T) {
	req := require.New(t)
	x := NewChannelIndex()

	x.RemoveMember("nowhere", "c1")

	req.Empty(x.List())
}

func TestChannelIndex_MembersOfAbsentChannelIsEmpty(t *testing.T) {
	require.Empty(t, NewChannelIndex().MembersOf("ghost"))
}
