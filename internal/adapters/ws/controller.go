package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/router"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChannelController upgrades per-channel websocket requests and wires
// each connection into the hub and the router.
type ChannelController struct {
	Hub    core.Hub
	Router *router.Router
}

func NewChannelController(hub core.Hub, r *router.Router) *ChannelController {
	return &ChannelController{Hub: hub, Router: r}
}

// HandleChannel serves one websocket connection for the given channel.
// Inbound channels feed frames to the router; outbound channels join the
// peer set and receive fan-out until the socket closes.
func (ctl *ChannelController) HandleChannel(ctx context.Context, spec core.ChannelSpec, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("channel", string(spec.Key)).Msg("upgrade failed")
		return
	}

	peer := domain.NewPeer(c.Request.RemoteAddr)
	pc := newPeerConn(conn)

	ch, ok := ctl.Hub.Channel(spec.Key)
	if !ok {
		log.Error().Str("module", "ws").Str("channel", string(spec.Key)).Msg("unknown channel")
		pc.Close()
		return
	}
	ch.AddPeer(peer.ID, core.NewPeerSession(peer, pc))
	// Advisory status only; never consulted for delivery.
	log.Info().Str("module", "ws").Str("channel", string(spec.Key)).Str("peer", string(peer.ID)).Str("status", core.StatusConnected.String()).Msg("channel peer connected")

	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, spec, pc)
	go ctl.readPump(ctx, cancel, spec, ch, peer.ID, pc)
}

func (ctl *ChannelController) writePump(ctx context.Context, spec core.ChannelSpec, c *peerConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("channel", string(spec.Key)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("channel", string(spec.Key)).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump reads frames until the socket dies. On exit the peer must be
// removed from the channel to avoid leaks.
func (ctl *ChannelController) readPump(ctx context.Context, cancel context.CancelFunc, spec core.ChannelSpec, ch core.ChannelService, id domain.PeerID, c *peerConn) {
	defer func() {
		ch.RemovePeer(id)
		c.Close()
		cancel()
		log.Info().Str("module", "ws").Str("channel", string(spec.Key)).Str("peer", string(id)).Str("status", core.StatusDisconnected.String()).Msg("channel peer disconnected")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			if spec.Direction != core.Inbound {
				// Consumer channels are one-way; anything a peer sends
				// upstream is ignored.
				continue
			}
			if err := ctl.Router.Route(spec.Key, core.Frame(data)); err != nil {
				// Best-effort: the sample is dropped, the stream goes on.
				log.Warn().Err(err).Str("module", "ws").Str("channel", string(spec.Key)).Msg("sample dropped")
			}
		}
	}
}
