package main

import (
	"context"
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/audio"
	"github.com/telesense/sensebridge/internal/capture"
	"github.com/telesense/sensebridge/internal/client"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/session"
)

// execSpeaker shells out to a TTS command, passing the literal text as
// the last argument (espeak, say, and friends all accept this shape).
type execSpeaker struct {
	cmd string
}

func (s execSpeaker) Speak(text string) {
	if s.cmd == "" {
		log.Info().Str("module", "agent").Str("text", text).Msg("speak")
		return
	}
	if err := exec.Command(s.cmd, text).Run(); err != nil {
		log.Error().Str("module", "agent").Err(err).Msg("tts command failed")
	}
}

func main() {
	bridgeURL := flag.String("bridge", "http://127.0.0.1:8080", "base URL of the bridge server")
	replayDir := flag.String("replay", "", "directory with recorded frames and transcripts")
	playerCmd := flag.String("player", "", "external command to play WAV buffers from stdin")
	ttsCmd := flag.String("tts", "", "external command to speak text")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	view, err := client.FetchCaptureConfig(*bridgeURL)
	if err != nil {
		log.Fatal().Err(err).Str("bridge", *bridgeURL).Msg("failed to fetch capture config")
	}

	platform := capture.DetectPlatform(*replayDir)
	log.Info().Str("module", "agent").Str("platform", string(platform)).Msg("capture platform selected")
	adapters := capture.NewAdapters(platform, view, *replayDir)

	pool := audio.NewPool(&audio.WAVSink{PlayerCmd: *playerCmd}, audio.DefaultHandles)

	wsBase := "ws" + strings.TrimPrefix(*bridgeURL, "http")
	factory := func(key core.ChannelKey, keepAlive func() bool, onMessage func([]byte)) session.Channel {
		return client.Open(wsBase, key, client.KeepAliveFunc(keepAlive), onMessage)
	}

	controller := session.NewController(adapters, factory,
		session.WithPlayer(pool),
		session.WithSpeaker(execSpeaker{cmd: *ttsCmd}),
		session.WithAudio(view.Audio.Mode, view.Audio.Enabled))

	if err := controller.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}
	log.Info().Str("module", "agent").Str("bridge", *bridgeURL).Msg("sensor agent started")

	<-ctx.Done()
	log.Info().Str("module", "agent").Msg("shutting down")
	if err := controller.Stop(); err != nil {
		log.Error().Err(err).Msg("session stop failed")
	}
	log.Info().Str("module", "agent").Msg("shutdown complete")
}
