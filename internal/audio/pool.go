package audio

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultHandles is the size of the playback handle pool.
const DefaultHandles = 3

type handle struct {
	id   int
	busy bool
}

// Pool serializes playback through a bounded set of reusable handles.
// Buffers queue FIFO and drain one-at-a-time, strictly in arrival order,
// as handles free up. Allocation is round-robin with preference for an
// idle handle.
type Pool struct {
	sink Sink

	mu      sync.Mutex
	queue   [][]byte
	handles []*handle
	next    int
	halted  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(sink Sink, handles int) *Pool {
	if handles <= 0 {
		handles = DefaultHandles
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{sink: sink, ctx: ctx, cancel: cancel}
	for i := 0; i < handles; i++ {
		p.handles = append(p.handles, &handle{id: i})
	}
	return p
}

// Enqueue appends one buffer and kicks the dispatcher. Never blocks.
func (p *Pool) Enqueue(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.halted {
		return
	}
	p.queue = append(p.queue, data)
	p.dispatchLocked()
}

// QueueLen is diagnostics only.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Halt drops every queued buffer, cancels in-flight playback and waits
// for the handles to settle.
func (p *Pool) Halt() {
	p.mu.Lock()
	p.halted = true
	p.queue = nil
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// dispatchLocked starts playback for queue heads while idle handles
// remain. Caller holds p.mu.
func (p *Pool) dispatchLocked() {
	for len(p.queue) > 0 {
		h := p.idleHandleLocked()
		if h == nil {
			return
		}
		data := p.queue[0]
		p.queue = p.queue[1:]
		h.busy = true

		p.wg.Add(1)
		go p.play(h, data)
	}
}

// idleHandleLocked scans round-robin from the cursor for an idle handle.
func (p *Pool) idleHandleLocked() *handle {
	n := len(p.handles)
	for i := 0; i < n; i++ {
		h := p.handles[(p.next+i)%n]
		if !h.busy {
			p.next = (h.id + 1) % n
			return h
		}
	}
	return nil
}

func (p *Pool) play(h *handle, data []byte) {
	defer p.wg.Done()

	if err := p.sink.Play(p.ctx, data); err != nil && p.ctx.Err() == nil {
		log.Warn().Err(err).Str("module", "audio").Int("handle", h.id).Msg("playback failed")
	}

	p.mu.Lock()
	h.busy = false
	if !p.halted {
		p.dispatchLocked()
	}
	p.mu.Unlock()
}
