package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/telesense/sensebridge/internal/core"
)

type testServer struct {
	*httptest.Server
	dials int32
	drop  chan struct{} // each receive closes the current server conn
}

func newTestServer(t *testing.T, echo []byte) *testServer {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := &testServer{drop: make(chan struct{}, 8)}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&ts.dials, 1)
		if echo != nil {
			_ = conn.WriteMessage(websocket.BinaryMessage, echo)
		}
		go func() {
			<-ts.drop
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func (ts *testServer) dialCount() int32 { return atomic.LoadInt32(&ts.dials) }

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestClientConnectsAndReceives(t *testing.T) {
	ts := newTestServer(t, []byte("hi"))
	got := make(chan []byte, 1)

	c := Open(ts.wsURL(), core.ChannelTTS, func() bool { return true }, func(data []byte) {
		got <- data
	}, WithReconnectDelay(20*time.Millisecond))
	defer c.Close()

	select {
	case data := <-got:
		if string(data) != "hi" {
			t.Fatalf("unexpected payload %q", data)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for server frame")
	}
	if c.Status() != core.StatusConnected {
		t.Fatalf("expected connected status, got %s", c.Status())
	}
}

func TestReconnectAfterUnexpectedClose(t *testing.T) {
	ts := newTestServer(t, nil)
	c := Open(ts.wsURL(), core.ChannelIMU, func() bool { return true }, nil,
		WithReconnectDelay(20*time.Millisecond))
	defer c.Close()

	waitFor(t, func() bool { return ts.dialCount() == 1 }, "first dial never happened")
	ts.drop <- struct{}{}
	waitFor(t, func() bool { return ts.dialCount() >= 2 }, "no reconnect after unexpected close")
}

func TestNoReconnectWhenSessionEnded(t *testing.T) {
	ts := newTestServer(t, nil)
	var alive atomic.Bool
	alive.Store(true)

	c := Open(ts.wsURL(), core.ChannelGPS, alive.Load, nil,
		WithReconnectDelay(20*time.Millisecond))
	defer c.Close()

	waitFor(t, func() bool { return ts.dialCount() == 1 }, "first dial never happened")
	alive.Store(false)
	ts.drop <- struct{}{}

	time.Sleep(150 * time.Millisecond)
	if ts.dialCount() != 1 {
		t.Fatalf("expected no reconnect after session end, got %d dials", ts.dialCount())
	}
}

func TestCloseCancelsPendingReconnect(t *testing.T) {
	ts := newTestServer(t, nil)
	c := Open(ts.wsURL(), core.ChannelPose, func() bool { return true }, nil,
		WithReconnectDelay(100*time.Millisecond))

	waitFor(t, func() bool { return ts.dialCount() == 1 }, "first dial never happened")
	ts.drop <- struct{}{}
	waitFor(t, func() bool { return c.Status() == core.StatusDisconnected }, "client never noticed the drop")

	c.Close()
	time.Sleep(300 * time.Millisecond)
	if ts.dialCount() != 1 {
		t.Fatalf("reconnect timer must be cancelled by Close, got %d dials", ts.dialCount())
	}
}

func TestSendDuringDisconnectNeverPanics(t *testing.T) {
	// Every accepted connection is torn down almost immediately, so
	// senders keep racing the close/reconnect cycle.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		time.Sleep(300 * time.Microsecond)
		_ = conn.Close()
	}))
	t.Cleanup(srv.Close)

	c := Open("ws"+strings.TrimPrefix(srv.URL, "http"), core.ChannelCamera,
		func() bool { return true }, nil,
		WithReconnectDelay(time.Millisecond))
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Send panicked: %v", r)
				}
			}()
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				c.Send([]byte("frame"))
			}
		}()
	}
	wg.Wait()
}

func TestSendWhileDisconnectedIsSilentNoop(t *testing.T) {
	// Point at a server that is not there; the client stays connecting.
	c := Open("ws://127.0.0.1:1", core.ChannelCamera, func() bool { return false }, nil,
		WithReconnectDelay(20*time.Millisecond))
	defer c.Close()

	c.Send([]byte("dropped on the floor")) // must not panic or block
	if c.Status() == core.StatusConnected {
		t.Fatal("client cannot be connected to a dead endpoint")
	}
}
