// Package audio is the consumer half of the reverse channel: playback
// of WAV buffers fanned out by the bridge, through a bounded pool of
// reusable handles.
package audio

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
)

var ErrInvalidWAV = errors.New("invalid wav buffer")

// Sink plays one complete WAV buffer, blocking until playback finishes
// or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, data []byte) error
}

// WAVSink validates and plays a buffer. With a player command configured
// the bytes are piped to its stdin; without one, playback is simulated
// by holding the handle for the clip duration.
type WAVSink struct {
	PlayerCmd string
}

func (s *WAVSink) Play(ctx context.Context, data []byte) error {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return ErrInvalidWAV
	}
	dur, err := dec.Duration()
	if err != nil {
		return err
	}
	log.Debug().Str("module", "audio").Dur("duration", dur).Int("bytes", len(data)).Msg("playing buffer")

	if s.PlayerCmd == "" {
		select {
		case <-time.After(dur):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	parts := strings.Fields(s.PlayerCmd)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	return cmd.Run()
}
