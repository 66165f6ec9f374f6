package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Rizaski/walkietalkie/internal/app"
	"github.com/Rizaski/walkietalkie/internal/config"
	"github.com/Rizaski/walkietalkie/internal/domain"
	"github.com/Rizaski/walkietalkie/internal/protocol"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller upgrades HTTP requests to WebSocket connections and feeds
// decoded requests into the membership coordinator and the relay engine.
type Controller struct {
	cfg        *config.Config
	membership *app.MembershipCoordinator
	relay      *app.RelayEngine
	joins      *JoinRateLimiter
}

func NewController(cfg *config.Config, membership *app.MembershipCoordinator, relay *app.RelayEngine) *Controller {
	return &Controller{
		cfg:        cfg,
		membership: membership,
		relay:      relay,
		joins:      NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinWindow),
	}
}

// Handle upgrades the request and starts the connection's pumps. Each socket
// gets a fresh connection id; the client token from the cookie only ties log
// lines of the same browser together.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	id := domain.ClientID(uuid.NewString())
	log.Info().Str("module", "ws").Str("id", string(id)).
		Str("client", c.GetString("client_token")).Msg("connection established")

	sock.SetReadLimit(ctl.cfg.ReadLimit)
	conn := newConn(sock, ctl.cfg.SendBuffer)

	ctx, cancel := context.WithCancel(ctx)
	ctl.membership.Connect(id, conn)

	go conn.writePump(ctx, ctl.cfg.PingPeriod)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ClientID, conn *Conn) {
	defer func() {
		cancel()
		conn.Close()
		ctl.membership.Disconnect(id)
		ctl.joins.Forget(id)
		log.Info().Str("module", "ws").Str("id", string(id)).Msg("connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := conn.sock.ReadMessage()
			if err != nil {
				return
			}
			ctl.dispatch(id, conn, data)
		}
	}
}

// dispatch routes one decoded request. Malformed or unknown messages are
// dropped; the only error surfaced to the caller is a join with missing
// fields.
func (ctl *Controller) dispatch(id domain.ClientID, conn *Conn, data []byte) {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("id", string(id)).Msg("dropping message")
		return
	}

	switch r := req.(type) {
	case protocol.JoinRequest:
		if !ctl.joins.Allow(id) {
			log.Warn().Str("module", "ws").Str("id", string(id)).Msg("join rate limited")
			return
		}
		channel := domain.ChannelName(domain.TruncateName(r.Channel, domain.MaxChannelLen))
		username := domain.TruncateName(r.Username, domain.MaxUsernameLen)
		if err := ctl.membership.Join(id, channel, username, domain.Role(r.Role)); err != nil {
			ctl.reply(conn, protocol.ErrorEvent{Type: protocol.TypeError, Message: "Channel and username required"})
		}
	case protocol.LeaveRequest:
		ctl.membership.Leave(id, domain.ChannelName(r.Channel))
	case protocol.AudioChunkRequest:
		ctl.relay.RelayAudio(id, domain.ChannelName(r.Channel), r.Blob)
	case protocol.SpeakingStateRequest:
		ctl.relay.SetSpeaking(id, r.IsSpeaking)
	case protocol.EmergencyRequest:
		ctl.relay.EmergencyBroadcast(id, domain.ChannelName(r.Channel), r.Message)
	case protocol.GetChannelsRequest:
		ctl.reply(conn, protocol.ChannelsListEvent{Type: protocol.TypeChannelsList, Channels: ctl.relay.Channels()})
	case protocol.PingRequest:
		ctl.reply(conn, protocol.PongEvent{Type: protocol.TypePong, Payload: r.Payload})
	}
}

func (ctl *Controller) reply(conn *Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("marshal reply")
		return
	}
	_ = conn.TrySend(b)
}
