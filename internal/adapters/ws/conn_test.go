package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/telesense/sensebridge/internal/core"
)

type stubConn struct {
	closed bool
}

func (s *stubConn) ReadMessage() (int, []byte, error)       { return 0, nil, errors.New("eof") }
func (s *stubConn) WriteMessage(mt int, data []byte) error  { return nil }
func (s *stubConn) SetWriteDeadline(t time.Time) error      { return nil }
func (s *stubConn) Close() error                            { s.closed = true; return nil }

func TestTrySendAfterCloseIsNoop(t *testing.T) {
	stub := &stubConn{}
	pc := newPeerConn(stub)

	pc.Close()
	if err := pc.TrySend(core.Frame("x")); !errors.Is(err, core.ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed, got %v", err)
	}
	if !stub.closed {
		t.Fatal("underlying socket must be closed")
	}
	if pc.Open() {
		t.Fatal("closed connection must not report open")
	}
}

func TestTrySendDropsOnFullBuffer(t *testing.T) {
	pc := newPeerConn(&stubConn{})
	for i := 0; i < sendBuffer; i++ {
		if err := pc.TrySend(core.Frame("fill")); err != nil {
			t.Fatalf("unexpected error filling buffer: %v", err)
		}
	}
	if err := pc.TrySend(core.Frame("overflow")); !errors.Is(err, core.ErrBackpressure) {
		t.Fatalf("expected ErrBackpressure, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pc := newPeerConn(&stubConn{})
	pc.Close()
	pc.Close() // must not panic on double close
}
