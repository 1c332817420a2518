package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/domain"
)

// channelImpl is a threadsafe in-memory channel.
// It never closes adapter-owned resources.
type channelImpl struct {
	spec  ChannelSpec
	mu    sync.RWMutex
	peers map[domain.PeerID]PeerSession
}

func NewChannelService(spec ChannelSpec) ChannelService {
	return &channelImpl{
		spec:  spec,
		peers: make(map[domain.PeerID]PeerSession),
	}
}

func (c *channelImpl) Spec() ChannelSpec { return c.spec }

func (c *channelImpl) PeerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.peers)
}

func (c *channelImpl) AddPeer(id domain.PeerID, ps PeerSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers[id] = ps
	log.Info().Str("module", "core.channel").Str("channel", string(c.spec.Key)).Str("peer", string(id)).Msg("peer added")
}

func (c *channelImpl) RemovePeer(id domain.PeerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.peers, id)
	log.Info().Str("module", "core.channel").Str("channel", string(c.spec.Key)).Str("peer", string(id)).Msg("peer removed")
}

// Broadcast fans data out to every peer whose connection is open at send
// time. There is no queuing for peers that join late; skipped peers are
// counted for diagnostics only.
func (c *channelImpl) Broadcast(data Frame) PublishResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := PublishResult{}
	for _, p := range c.peers {
		if !p.Conn().Open() {
			res.Skipped++
			continue
		}
		if err := p.Conn().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, p)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.channel").Str("channel", string(c.spec.Key)).Int("sent_to", res.SentTo).Int("skipped", res.Skipped).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (c *channelImpl) PeersSnapshot() []PeerDTO {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PeerDTO, 0, len(c.peers))
	for _, ps := range c.peers {
		m := ps.Meta()
		out = append(out, PeerDTO{
			ID:          m.ID,
			RemoteAddr:  m.RemoteAddr,
			ConnectedAt: m.ConnectedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
