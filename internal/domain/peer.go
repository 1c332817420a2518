// Package domain contains entities without logic, just meta-data.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type PeerID string

// Peer is the meta for one connected websocket endpoint of a channel.
// No transport or lifecycle logic here.
type Peer struct {
	ID          PeerID    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NewPeer avoids raw literals in adapters and keeps construction obvious.
func NewPeer(remoteAddr string) *Peer {
	return &Peer{
		ID:          PeerID(uuid.NewString()),
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now(),
	}
}
