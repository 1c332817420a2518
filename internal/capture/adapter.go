// Package capture holds the device capture adapters: platform-specific
// acquisition of each raw signal, normalized into the producer-side
// sample shapes the translator expects.
package capture

import (
	"context"
	"os"

	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
)

// EmitFunc hands one serialized sample to the owning channel. Emit must
// never be called after Stop returns.
type EmitFunc func(frame []byte)

// Adapter is one capture strategy. RequestAccess runs synchronously
// inside the session's start action, before any capture goroutine is
// spawned; platforms silently reject permission prompts issued outside
// that context.
type Adapter interface {
	Kind() core.ChannelKey
	RequestAccess() error
	Start(ctx context.Context, emit EmitFunc) error
	Stop()
	Configure(view config.CaptureView)
}

// Platform selects the concrete strategy set once at session start.
type Platform string

const (
	// PlatformSynthetic generates signals in-process; the default for
	// headless agents and tests.
	PlatformSynthetic Platform = "synthetic"
	// PlatformReplay reads recorded JPEG frames and transcripts from
	// disk, preserving real capture quirks.
	PlatformReplay Platform = "replay"
)

// DetectPlatform is the platform-detection predicate. Replay mode is
// chosen when a recording directory is present (or forced by env).
func DetectPlatform(replayDir string) Platform {
	if env := os.Getenv("SENSEBRIDGE_PLATFORM"); env != "" {
		return Platform(env)
	}
	if replayDir != "" {
		if st, err := os.Stat(replayDir); err == nil && st.IsDir() {
			return PlatformReplay
		}
	}
	return PlatformSynthetic
}

// NewAdapters builds the full adapter set for the detected platform.
func NewAdapters(platform Platform, view config.CaptureView, replayDir string) []Adapter {
	camera := NewCameraAdapter(view.Camera, platform, replayDir)
	return []Adapter{
		camera,
		NewIMUAdapter(view.IMU),
		NewGPSAdapter(),
		NewPoseAdapter(),
		NewMicrophoneAdapter(view.Microphone, replayDir),
	}
}
