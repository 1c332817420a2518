package audio

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// gateSink records playback order and holds each play until released.
type gateSink struct {
	mu      sync.Mutex
	order   []byte
	active  int
	peak    int
	release chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{release: make(chan struct{})}
}

func (s *gateSink) Play(ctx context.Context, data []byte) error {
	s.mu.Lock()
	s.order = append(s.order, data[0])
	s.active++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.mu.Unlock()

	select {
	case <-s.release:
	case <-ctx.Done():
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return nil
}

func (s *gateSink) snapshot() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.order...), s.peak
}

func TestPoolBoundedConcurrency(t *testing.T) {
	sink := newGateSink()
	pool := NewPool(sink, 3)
	defer pool.Halt()

	for i := byte(1); i <= 6; i++ {
		pool.Enqueue([]byte{i})
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		order, _ := sink.snapshot()
		if len(order) == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 concurrent plays, have %d", len(order))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if pool.QueueLen() != 3 {
		t.Fatalf("expected 3 queued buffers, got %d", pool.QueueLen())
	}

	close(sink.release)

	deadline = time.Now().Add(2 * time.Second)
	for {
		order, peak := sink.snapshot()
		if len(order) == 6 {
			if peak > 3 {
				t.Fatalf("pool exceeded handle bound: peak %d", peak)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("queue never drained, played %d", len(order))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPoolDrainsInArrivalOrder(t *testing.T) {
	sink := newGateSink()
	close(sink.release) // plays return immediately, one handle serializes
	pool := NewPool(sink, 1)
	defer pool.Halt()

	for i := byte(1); i <= 5; i++ {
		pool.Enqueue([]byte{i})
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		order, _ := sink.snapshot()
		if len(order) == 5 {
			for i, b := range order {
				if b != byte(i+1) {
					t.Fatalf("playback out of arrival order: %v", order)
				}
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("queue never drained, played %d", len(order))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHaltDropsQueueAndCancelsInFlight(t *testing.T) {
	sink := newGateSink()
	pool := NewPool(sink, 1)

	pool.Enqueue([]byte{1})
	pool.Enqueue([]byte{2})
	pool.Enqueue([]byte{3})

	done := make(chan struct{})
	go func() {
		pool.Halt()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Halt must cancel in-flight playback and return")
	}

	order, _ := sink.snapshot()
	if len(order) != 1 {
		t.Fatalf("queued buffers must be dropped on halt, played %v", order)
	}
	if pool.QueueLen() != 0 {
		t.Fatal("queue must be empty after halt")
	}

	pool.Enqueue([]byte{4})
	if pool.QueueLen() != 0 {
		t.Fatal("halted pool must reject new buffers")
	}
}

func TestWAVSinkSimulatedPlayback(t *testing.T) {
	data := encodeTestWAV(t)

	sink := &WAVSink{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sink.Play(ctx, data); err != nil {
		t.Fatalf("play: %v", err)
	}
}

func TestWAVSinkRejectsGarbage(t *testing.T) {
	sink := &WAVSink{}
	if err := sink.Play(context.Background(), []byte("definitely not a wav")); err == nil {
		t.Fatal("expected error for invalid buffer")
	}
}

// encodeTestWAV builds a tiny valid mono 16-bit 48 kHz clip.
func encodeTestWAV(t *testing.T) []byte {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "clip-*.wav")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 48000, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 48000},
		Data:           make([]int, 480), // 10 ms of silence
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	return data
}
