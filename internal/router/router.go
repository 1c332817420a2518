// Package router moves translated messages between the channels and the
// external bus. Inbound samples are published fire-and-forget; outbound
// bus messages fan out to every peer open at send time.
package router

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/translate"
	"github.com/telesense/sensebridge/internal/wire"
)

// Bus is the black-box pub/sub capability the router depends on.
type Bus interface {
	Publish(topic string, data []byte) error
	Subscribe(topic string, handler func(data []byte)) error
}

type Router struct {
	hub core.Hub
	bus Bus
}

func New(hub core.Hub, bus Bus) *Router {
	return &Router{hub: hub, bus: bus}
}

// Route translates one raw channel payload and publishes it to the
// bound topics. A translation failure is returned for the caller to log;
// the sample is dropped either way (never propagates past the router).
func (r *Router) Route(key core.ChannelKey, payload core.Frame) error {
	switch key {
	case core.ChannelCamera:
		return r.routeCamera(payload)
	case core.ChannelIMU:
		return routeJSON(r, payload, wire.TopicIMU, translate.IMU)
	case core.ChannelGPS:
		return routeJSON(r, payload, wire.TopicGPS, translate.GPS)
	case core.ChannelPose:
		return routeJSON(r, payload, wire.TopicPose, translate.Pose)
	case core.ChannelMicrophone:
		return routeJSON(r, payload, wire.TopicSpeech, translate.Speech)
	default:
		return fmt.Errorf("no inbound binding for channel %q", key)
	}
}

// routeJSON parses a producer sample, applies its translator and
// publishes the result.
func routeJSON[S any, M any](r *Router, payload core.Frame, topic string, fn func(S) M) error {
	var sample S
	if err := json.Unmarshal(payload, &sample); err != nil {
		return fmt.Errorf("parse sample for %s: %w", topic, err)
	}
	return r.publish(topic, fn(sample))
}

// routeCamera publishes the compressed frame and the derived
// camera-info record together.
func (r *Router) routeCamera(payload core.Frame) error {
	var sample domain.CameraSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return fmt.Errorf("parse camera sample: %w", err)
	}
	img, info, err := translate.Camera(sample)
	if err != nil {
		return fmt.Errorf("translate camera sample: %w", err)
	}
	if err := r.publish(wire.TopicCameraImage, img); err != nil {
		return err
	}
	return r.publish(wire.TopicCameraInfo, info)
}

func (r *Router) publish(topic string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	if err := r.bus.Publish(topic, data); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// BindOutbound subscribes the bus->consumer channels per the bindings
// table. Aliased subjects (the wav naming migration) all land on the
// same handler; duplicate delivery through both is acceptable.
func (r *Router) BindOutbound() error {
	for key, binding := range wire.Bindings {
		handler := r.handlerFor(key)
		if handler == nil {
			continue
		}
		for _, topic := range binding.SubscribeTopics {
			if err := r.bus.Subscribe(topic, handler); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Router) handlerFor(key core.ChannelKey) func(data []byte) {
	switch key {
	case core.ChannelTTS:
		return r.handleTTS
	case core.ChannelWAVAudio:
		return r.handleWAV
	default:
		return nil
	}
}

func (r *Router) handleTTS(data []byte) {
	var msg wire.Text
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().Err(err).Str("module", "router").Msg("malformed tts message dropped")
		return
	}
	r.fanOut(core.ChannelTTS, core.Frame(msg.Text))
}

func (r *Router) handleWAV(data []byte) {
	// Raw PCM without a container gets a synthesized header so every
	// peer can hand the buffer straight to playback.
	r.fanOut(core.ChannelWAVAudio, core.Frame(translate.EnsureWAV(data)))
}

func (r *Router) fanOut(key core.ChannelKey, frame core.Frame) {
	ch, ok := r.hub.Channel(key)
	if !ok {
		log.Warn().Str("module", "router").Str("channel", string(key)).Msg("fan-out to unknown channel")
		return
	}
	res := ch.Broadcast(frame)
	log.Debug().Str("module", "router").Str("channel", string(key)).Int("sent_to", res.SentTo).Int("skipped", res.Skipped).Msg("fan-out")
}
