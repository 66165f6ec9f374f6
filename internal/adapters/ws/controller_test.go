package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rizaski/walkietalkie/internal/app"
	"github.com/Rizaski/walkietalkie/internal/config"
	"github.com/Rizaski/walkietalkie/internal/domain"
	"github.com/Rizaski/walkietalkie/internal/protocol"
)

func newTestController() (*Controller, *app.MembershipCoordinator) {
	cfg := &config.Config{
		ReadLimit:  65536,
		SendBuffer: 16,
		PingPeriod: time.Hour,
		JoinLimit:  10,
		JoinWindow: 10 * time.Second,
	}
	m := app.NewMembershipCoordinator()
	return NewController(cfg, m, app.NewRelayEngine(m)), m
}

// queuedFrame pops the next frame the dispatch queued for this connection.
// Dispatch replies synchronously, so the frame must already be buffered.
func queuedFrame(t *testing.T, conn *Conn) []byte {
	t.Helper()
	select {
	case data := <-conn.send:
		return data
	default:
		t.Fatal("no frame queued")
		return nil
	}
}

func TestDispatch_PingEchoesPayloadForUnjoinedConnection(t *testing.T) {
	req := require.New(t)
	ctl, m := newTestController()
	conn := newConn(newFakeSocket(), 16)
	id := domain.ClientID("c1")
	m.Connect(id, conn) // connected, never joined

	ctl.dispatch(id, conn, []byte(`{"type":"ping","payload":{"t":123}}`))

	var pong protocol.PongEvent
	req.NoError(json.Unmarshal(queuedFrame(t, conn), &pong))
	req.Equal(protocol.TypePong, pong.Type)
	req.JSONEq(`{"t":123}`, string(pong.Payload))
	req.Empty(conn.send)
}

func TestDispatch_InvalidJoinRepliesErrorToCallerOnly(t *testing.T) {
	req := require.New(t)
	ctl, m := newTestController()
	conn := newConn(newFakeSocket(), 16)
	id := domain.ClientID("c1")
	m.Connect(id, conn)

	// Username missing
	ctl.dispatch(id, conn, []byte(`{"type":"join","channel":"ops"}`))

	var evt protocol.ErrorEvent
	req.NoError(json.Unmarshal(queuedFrame(t, conn), &evt))
	req.Equal(protocol.TypeError, evt.Type)
	req.Equal("Channel and username required", evt.Message)

	// No channel came into being
	req.Empty(ctl.relay.Channels())
	req.Empty(conn.send)
}

func TestDispatch_JoinQueuesRosterAndChannelList(t *testing.T) {
	req := require.New(t)
	ctl, m := newTestController()
	conn := newConn(newFakeSocket(), 16)
	id := domain.ClientID("c1")
	m.Connect(id, conn)

	ctl.dispatch(id, conn, []byte(`{"type":"join","channel":"ops","username":"alice"}`))

	var roster protocol.RosterEvent
	req.NoError(json.Unmarshal(queuedFrame(t, conn), &roster))
	req.Equal(protocol.TypeRoster, roster.Type)
	req.Equal([]domain.RosterEntry{
		{ID: id, Username: "alice", Role: domain.RoleUser},
	}, roster.Roster)

	var list protocol.ChannelsListEvent
	req.NoError(json.Unmarshal(queuedFrame(t, conn), &list))
	req.Equal(protocol.TypeChannelsList, list.Type)
	req.Equal([]domain.ChannelInfo{{Name: "ops", UserCount: 1}}, list.Channels)
}

func TestDispatch_GetChannelsRepliesToRequester(t *testing.T) {
	req := require.New(t)
	ctl, m := newTestController()
	joiner := newConn(newFakeSocket(), 16)
	m.Connect("c1", joiner)
	ctl.dispatch("c1", joiner, []byte(`{"type":"join","channel":"ops","username":"alice"}`))

	watcher := newConn(newFakeSocket(), 16)
	m.Connect("c2", watcher)
	for len(watcher.send) > 0 { // drop the broadcasts that preceded the query
		<-watcher.send
	}

	ctl.dispatch("c2", watcher, []byte(`{"type":"get-channels"}`))

	var list protocol.ChannelsListEvent
	req.NoError(json.Unmarshal(queuedFrame(t, watcher), &list))
	req.Equal(protocol.TypeChannelsList, list.Type)
	req.Equal([]domain.ChannelInfo{{Name: "ops", UserCount: 1}}, list.Channels)
}

func TestDispatch_MalformedMessageIsDropped(t *testing.T) {
	req := require.New(t)
	ctl, m := newTestController()
	conn := newConn(newFakeSocket(), 16)
	id := domain.ClientID("c1")
	m.Connect(id, conn)

	ctl.dispatch(id, conn, []byte(`not json`))
	ctl.dispatch(id, conn, []byte(`{"type":"teleport"}`))

	req.Empty(conn.send)
}
