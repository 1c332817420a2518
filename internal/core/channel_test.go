package core

import (
	"testing"

	"github.com/telesense/sensebridge/internal/domain"
)

type fakeConn struct {
	open     bool
	fail     bool
	received []Frame
}

func (f *fakeConn) TrySend(fr Frame) error {
	if f.fail {
		return ErrBackpressure
	}
	f.received = append(f.received, fr)
	return nil
}

func (f *fakeConn) Open() bool { return f.open }
func (f *fakeConn) Close()     { f.open = false }

func addFake(ch ChannelService, open bool) *fakeConn {
	conn := &fakeConn{open: open}
	peer := domain.NewPeer("test")
	ch.AddPeer(peer.ID, NewPeerSession(peer, conn))
	return conn
}

func TestBroadcastZeroPeersIsNoop(t *testing.T) {
	ch := NewChannelService(ChannelSpec{ChannelTTS, Outbound})
	res := ch.Broadcast(Frame("hello"))
	if res.SentTo != 0 || res.Skipped != 0 || len(res.Dropped) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestBroadcastSkipsClosedPeers(t *testing.T) {
	ch := NewChannelService(ChannelSpec{ChannelTTS, Outbound})
	openConn := addFake(ch, true)
	closedConn := addFake(ch, false)

	res := ch.Broadcast(Frame("hello"))
	if res.SentTo != 1 {
		t.Fatalf("expected 1 delivery, got %d", res.SentTo)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", res.Skipped)
	}
	if len(openConn.received) != 1 || string(openConn.received[0]) != "hello" {
		t.Fatalf("open peer should receive frame, got %v", openConn.received)
	}
	if len(closedConn.received) != 0 {
		t.Fatal("closed peer must not receive frames")
	}
}

func TestBroadcastReportsBackpressure(t *testing.T) {
	ch := NewChannelService(ChannelSpec{ChannelWAVAudio, Outbound})
	conn := addFake(ch, true)
	conn.fail = true

	res := ch.Broadcast(Frame("x"))
	if res.SentTo != 0 || len(res.Dropped) != 1 {
		t.Fatalf("expected dropped peer, got %+v", res)
	}
}

func TestRemovePeerStopsDelivery(t *testing.T) {
	ch := NewChannelService(ChannelSpec{ChannelTTS, Outbound})
	conn := &fakeConn{open: true}
	peer := domain.NewPeer("test")
	ch.AddPeer(peer.ID, NewPeerSession(peer, conn))
	ch.RemovePeer(peer.ID)

	ch.Broadcast(Frame("gone"))
	if len(conn.received) != 0 {
		t.Fatal("removed peer must not receive frames")
	}
	if ch.PeerCount() != 0 {
		t.Fatalf("expected empty peer set, got %d", ch.PeerCount())
	}
}

func TestHubHasFixedChannelSet(t *testing.T) {
	h := NewHub(Specs)
	for _, spec := range Specs {
		ch, ok := h.Channel(spec.Key)
		if !ok {
			t.Fatalf("missing channel %s", spec.Key)
		}
		if ch.Spec().Direction != spec.Direction {
			t.Fatalf("channel %s has wrong direction", spec.Key)
		}
	}
	if _, ok := h.Channel("bogus"); ok {
		t.Fatal("unknown channel key should not resolve")
	}
	if len(h.List()) != len(Specs) {
		t.Fatalf("expected %d channels, got %d", len(Specs), len(h.List()))
	}
}

func TestHubCloseAllEmptiesPeerSets(t *testing.T) {
	h := NewHub(Specs)
	ch, _ := h.Channel(ChannelTTS)
	addFake(ch, true)
	addFake(ch, true)

	h.CloseAll()
	if ch.PeerCount() != 0 {
		t.Fatalf("expected cleared channel, got %d peers", ch.PeerCount())
	}
}
