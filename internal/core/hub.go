package core

import (
	"github.com/rs/zerolog/log"
)

type hubImpl struct {
	channels map[ChannelKey]ChannelService
}

// NewHub creates the fixed channel set. The set never changes after
// startup; only peer membership does.
func NewHub(specs []ChannelSpec) Hub {
	h := &hubImpl{channels: make(map[ChannelKey]ChannelService, len(specs))}
	for _, spec := range specs {
		h.channels[spec.Key] = NewChannelService(spec)
	}
	return h
}

func (h *hubImpl) Channel(key ChannelKey) (ChannelService, bool) {
	ch, ok := h.channels[key]
	return ch, ok
}

func (h *hubImpl) List() []ChannelInfo {
	out := make([]ChannelInfo, 0, len(h.channels))
	for key, ch := range h.channels {
		out = append(out, ChannelInfo{Key: key, PeerCount: ch.PeerCount()})
	}
	return out
}

// CloseAll drops every peer from every channel. Transport teardown is
// the adapters' job; this only empties the membership sets.
func (h *hubImpl) CloseAll() {
	for key, ch := range h.channels {
		for _, dto := range ch.PeersSnapshot() {
			ch.RemovePeer(dto.ID)
		}
		log.Info().Str("module", "core.hub").Str("channel", string(key)).Msg("channel cleared")
	}
}
