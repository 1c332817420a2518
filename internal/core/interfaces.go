package core

import "github.com/telesense/sensebridge/internal/domain"

// Frame is a raw payload on a channel (JSON sample or audio bytes).
type Frame []byte

// PeerConnection abstracts one connected endpoint of a channel.
// Owned by the adapter; the adapter must Close() it.
type PeerConnection interface {
	TrySend(Frame) error
	Open() bool
	Close()
}

// PeerSession binds a domain.Peer and its transport endpoint.
// This is what a channel stores and fans out to.
type PeerSession interface {
	Meta() *domain.Peer
	Conn() PeerConnection
}

// PublishResult reports delivery stats/backpressure to the router.
type PublishResult struct {
	SentTo  int
	Skipped int
	Dropped []PeerSession
}

// PeerDTO is a read-only view for APIs (no transport fields).
type PeerDTO struct {
	ID          domain.PeerID `json:"id"`
	RemoteAddr  string        `json:"remote_addr"`
	ConnectedAt string        `json:"connected_at"`
}

// ChannelService is the core-facing API of one channel.
// It owns the peer set but never touches transport resources.
type ChannelService interface {
	Spec() ChannelSpec
	PeerCount() int
	PeersSnapshot() []PeerDTO

	AddPeer(id domain.PeerID, ps PeerSession)
	RemovePeer(id domain.PeerID)

	// Broadcast delivers to every peer open at send time. Peers not in
	// open state are skipped without error; zero peers is a no-op.
	Broadcast(data Frame) PublishResult
}

type ChannelInfo struct {
	Key       ChannelKey `json:"key"`
	PeerCount int        `json:"peer_count"`
}

// Hub holds the fixed channel set created at startup.
type Hub interface {
	Channel(key ChannelKey) (ChannelService, bool)
	List() []ChannelInfo
	CloseAll()
}
