package core

import "github.com/telesense/sensebridge/internal/domain"

// peerSession implements PeerSession by pairing meta + transport.
type peerSession struct {
	meta *domain.Peer
	conn PeerConnection
}

func NewPeerSession(meta *domain.Peer, conn PeerConnection) PeerSession {
	return &peerSession{meta: meta, conn: conn}
}

func (p *peerSession) Meta() *domain.Peer   { return p.meta }
func (p *peerSession) Conn() PeerConnection { return p.conn }
