// Package session coordinates which channels are active for one logical
// streaming session: start/stop of capture adapters, channel open and
// teardown, and per-sensor toggling.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/capture"
	"github.com/telesense/sensebridge/internal/core"
)

type State int

const (
	Idle State = iota
	Starting
	Active
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Stopping:
		return "stopping"
	default:
		return "idle"
	}
}

// StopTimeout bounds the teardown: stop must be total and terminate in
// bounded time even when one teardown step never returns.
const StopTimeout = 3 * time.Second

var (
	ErrNotIdle   = errors.New("session already started")
	ErrNotActive = errors.New("session not active")
)

// Channel is the producer-side transport as seen by the controller.
type Channel interface {
	Send(data []byte)
	Close()
}

// ChannelFactory opens one channel endpoint. keepAlive governs the
// transport's reconnect behavior; onMessage may be nil for send-only
// channels.
type ChannelFactory func(key core.ChannelKey, keepAlive func() bool, onMessage func([]byte)) Channel

// Notifier surfaces adapter failures to the user. They disable the one
// sensor, never the session.
type Notifier interface {
	Notify(sensor core.ChannelKey, message string)
}

type logNotifier struct{}

func (logNotifier) Notify(sensor core.ChannelKey, message string) {
	log.Warn().Str("module", "session").Str("sensor", string(sensor)).Msg(message)
}

// Player receives inbound audio buffers; Halt stops all playback.
type Player interface {
	Enqueue(data []byte)
	Halt()
}

// Speaker synthesizes text arriving on the tts channel.
type Speaker interface {
	Speak(text string)
}

type sensorSlot struct {
	adapter capture.Adapter
	channel Channel
	enabled bool
	running bool
}

// Controller drives the state machine Idle -> Starting -> Active ->
// Stopping -> Idle.
type Controller struct {
	factory  ChannelFactory
	notifier Notifier
	player   Player
	speaker  Speaker

	audioMode    string // "tts" or "wav"
	audioEnabled bool

	mu         sync.Mutex
	state      State
	slots      map[core.ChannelKey]*sensorSlot
	order      []core.ChannelKey
	audioChan  Channel
	cancel     context.CancelFunc
	stopWindow time.Duration
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option   { return func(c *Controller) { c.notifier = n } }
func WithPlayer(p Player) Option       { return func(c *Controller) { c.player = p } }
func WithSpeaker(s Speaker) Option     { return func(c *Controller) { c.speaker = s } }
func WithAudio(mode string, enabled bool) Option {
	return func(c *Controller) {
		c.audioMode = mode
		c.audioEnabled = enabled
	}
}
func WithStopTimeout(d time.Duration) Option { return func(c *Controller) { c.stopWindow = d } }

func NewController(adapters []capture.Adapter, factory ChannelFactory, opts ...Option) *Controller {
	c := &Controller{
		factory:    factory,
		notifier:   logNotifier{},
		audioMode:  "wav",
		slots:      make(map[core.ChannelKey]*sensorSlot, len(adapters)),
		stopWindow: StopTimeout,
	}
	for _, a := range adapters {
		c.slots[a.Kind()] = &sensorSlot{adapter: a, enabled: true}
		c.order = append(c.order, a.Kind())
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SensorEnabled reports the per-sensor flag (mirrors the UI checkbox).
func (c *Controller) SensorEnabled(key core.ChannelKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.slots[key]
	return ok && slot.enabled
}

// Start runs the whole start action synchronously: every permission
// request happens inside this call, before any capture goroutine exists.
// Platforms silently reject prompts issued outside the triggering user
// action, so this ordering is a correctness requirement. Partial failure
// of one sensor disables that sensor only; the session still reaches
// Active.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return ErrNotIdle
	}
	c.state = Starting
	log.Info().Str("module", "session").Str("state", c.state.String()).Msg("session starting")

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	// Permission pass first, strictly synchronous.
	for _, key := range c.order {
		slot := c.slots[key]
		if !slot.enabled {
			continue
		}
		if err := slot.adapter.RequestAccess(); err != nil {
			slot.enabled = false
			c.notifier.Notify(key, fmt.Sprintf("sensor access denied: %v", err))
		}
	}

	for _, key := range c.order {
		slot := c.slots[key]
		if !slot.enabled {
			continue
		}
		c.startSlotLocked(ctx, key, slot)
	}

	if c.audioEnabled {
		c.openAudioLocked()
	}

	c.state = Active
	log.Info().Str("module", "session").Str("state", c.state.String()).Msg("session active")
	return nil
}

// startSlotLocked opens the slot's channel and starts its capture loop.
// Failure disables the sensor and notifies; other sensors proceed.
func (c *Controller) startSlotLocked(ctx context.Context, key core.ChannelKey, slot *sensorSlot) {
	keepAlive := func() bool { return c.sensorAlive(key) }
	ch := c.factory(key, keepAlive, nil)
	slot.channel = ch

	if err := slot.adapter.Start(ctx, func(frame []byte) {
		ch.Send(frame)
	}); err != nil {
		slot.enabled = false
		slot.channel = nil
		ch.Close()
		c.notifier.Notify(key, fmt.Sprintf("capture failed: %v", err))
		return
	}
	slot.running = true
}

// openAudioLocked connects the reverse channel matching the audio mode.
func (c *Controller) openAudioLocked() {
	switch c.audioMode {
	case "tts":
		if c.speaker == nil {
			return
		}
		c.audioChan = c.factory(core.ChannelTTS, c.sessionAlive, func(data []byte) {
			if c.alive() {
				c.speaker.Speak(string(data))
			}
		})
	default:
		if c.player == nil {
			return
		}
		c.audioChan = c.factory(core.ChannelWAVAudio, c.sessionAlive, func(data []byte) {
			// The session may have moved to Stopping while this buffer
			// was in flight; re-check before acting.
			if c.alive() {
				c.player.Enqueue(data)
			}
		})
	}
}

func (c *Controller) alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Starting || c.state == Active
}

func (c *Controller) sessionAlive() bool { return c.alive() }

func (c *Controller) sensorAlive(key core.ChannelKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Starting && c.state != Active {
		return false
	}
	slot, ok := c.slots[key]
	return ok && slot.enabled
}

// SetSensorEnabled toggles one sensor while the session runs, without
// touching session state or the other sensors.
func (c *Controller) SetSensorEnabled(key core.ChannelKey, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.slots[key]
	if !ok {
		return fmt.Errorf("no sensor for channel %q", key)
	}
	if slot.enabled == enabled {
		return nil
	}
	slot.enabled = enabled

	if c.state != Active {
		return nil
	}

	if enabled {
		if err := slot.adapter.RequestAccess(); err != nil {
			slot.enabled = false
			c.notifier.Notify(key, fmt.Sprintf("sensor access denied: %v", err))
			return nil
		}
		ctx := context.Background()
		if c.cancel != nil {
			// Reuse the session lifetime for the late-started loop.
			ctx = c.sessionContext()
		}
		c.startSlotLocked(ctx, key, slot)
		return nil
	}

	c.teardownSlotLocked(key, slot)
	return nil
}

// sessionContext rebuilds a context honoring the current cancel func.
func (c *Controller) sessionContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	prev := c.cancel
	c.cancel = func() {
		prev()
		cancel()
	}
	return ctx
}

func (c *Controller) teardownSlotLocked(key core.ChannelKey, slot *sensorSlot) {
	if slot.channel != nil {
		slot.channel.Close()
		slot.channel = nil
	}
	if slot.running {
		slot.adapter.Stop()
		slot.running = false
	}
	log.Info().Str("module", "session").Str("sensor", string(key)).Msg("sensor torn down")
}

// Stop tears everything down: every channel closed, every capture loop
// cancelled, in-flight playback halted. Individual failures are caught
// and logged; the sequence always completes within the stop window.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state != Active && c.state != Starting {
		c.mu.Unlock()
		return ErrNotActive
	}
	c.state = Stopping
	log.Info().Str("module", "session").Str("state", c.state.String()).Msg("session stopping")

	cancel := c.cancel
	c.cancel = nil

	var steps []func()
	for _, key := range c.order {
		key, slot := key, c.slots[key]
		if slot.channel == nil && !slot.running {
			continue
		}
		steps = append(steps, func() { c.stopSlot(key, slot) })
	}
	if c.audioChan != nil {
		ch := c.audioChan
		c.audioChan = nil
		steps = append(steps, func() { ch.Close() })
	}
	if c.player != nil {
		steps = append(steps, c.player.Halt)
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, step := range steps {
			step := step
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Error().Str("module", "session").Interface("panic", r).Msg("teardown step failed")
					}
				}()
				step()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(c.stopWindow):
		log.Warn().Str("module", "session").Dur("timeout", c.stopWindow).Msg("teardown timed out, forcing idle")
	}

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
	log.Info().Str("module", "session").Msg("session stopped")
	return nil
}

func (c *Controller) stopSlot(key core.ChannelKey, slot *sensorSlot) {
	c.mu.Lock()
	ch := slot.channel
	running := slot.running
	slot.channel = nil
	slot.running = false
	c.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
	if running {
		slot.adapter.Stop()
	}
	log.Debug().Str("module", "session").Str("sensor", string(key)).Msg("sensor stopped")
}
