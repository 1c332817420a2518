package capture

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/domain"
)

type collector struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *collector) emit(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *collector) last() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

func waitForFrames(t *testing.T, c *collector, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c.count() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames, have %d", n, c.count())
}

func TestWakeWordGate(t *testing.T) {
	a := NewMicrophoneAdapter(config.MicrophoneConfig{WakeWord: "robot"}, "")

	if _, ok := a.Recognize("turn left"); ok {
		t.Fatal("transcript without wake word must be dropped")
	}

	payload, ok := a.Recognize("Robot turn left")
	if !ok {
		t.Fatal("wake-word transcript must pass the gate")
	}
	var s domain.SpeechSample
	if err := json.Unmarshal(payload, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Text != "turn left" {
		t.Fatalf("wake word must be stripped, got %q", s.Text)
	}
}

func TestNoWakeWordPassesEverything(t *testing.T) {
	a := NewMicrophoneAdapter(config.MicrophoneConfig{}, "")
	payload, ok := a.Recognize("hello there")
	if !ok {
		t.Fatal("without a wake word every transcript passes")
	}
	var s domain.SpeechSample
	if err := json.Unmarshal(payload, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Text != "hello there" {
		t.Fatalf("unexpected text %q", s.Text)
	}
}

func TestIMUAdapterEmitsAndStops(t *testing.T) {
	a := NewIMUAdapter(config.IMUConfig{SampleRate: 100})
	c := &collector{}

	if err := a.RequestAccess(); err != nil {
		t.Fatalf("request access: %v", err)
	}
	if err := a.Start(context.Background(), c.emit); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForFrames(t, c, 3)
	a.Stop()

	var s domain.IMUSample
	if err := json.Unmarshal(c.last(), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Acceleration.Z != 9.81 {
		t.Fatalf("expected gravity on z, got %v", s.Acceleration.Z)
	}

	// no emissions after Stop returns
	n := c.count()
	time.Sleep(50 * time.Millisecond)
	if c.count() != n {
		t.Fatal("adapter emitted after Stop")
	}
}

func TestCameraSyntheticFrames(t *testing.T) {
	a := NewCameraAdapter(config.CameraConfig{FPS: 50, Quality: 0.7}, PlatformSynthetic, "")
	c := &collector{}

	if err := a.RequestAccess(); err != nil {
		t.Fatalf("request access: %v", err)
	}
	if err := a.Start(context.Background(), c.emit); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForFrames(t, c, 1)
	a.Stop()

	var s domain.CameraSample
	if err := json.Unmarshal(c.last(), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Width != 640 || s.Height != 480 {
		t.Fatalf("unexpected dimensions %dx%d", s.Width, s.Height)
	}
	if s.Image == "" {
		t.Fatal("missing image payload")
	}
}

func TestCameraReplayMissingDirFailsAccess(t *testing.T) {
	a := NewCameraAdapter(config.CameraConfig{}, PlatformReplay, t.TempDir()+"/nope")
	if err := a.RequestAccess(); err == nil {
		t.Fatal("expected access error for missing recording")
	}
}

func TestDetectPlatform(t *testing.T) {
	if p := DetectPlatform(""); p != PlatformSynthetic {
		t.Fatalf("expected synthetic default, got %s", p)
	}
	dir := t.TempDir()
	if p := DetectPlatform(dir); p != PlatformReplay {
		t.Fatalf("expected replay for existing dir, got %s", p)
	}
	t.Setenv("SENSEBRIDGE_PLATFORM", "synthetic")
	if p := DetectPlatform(dir); p != PlatformSynthetic {
		t.Fatalf("env override must win, got %s", p)
	}
}

func TestStopIdempotent(t *testing.T) {
	a := NewGPSAdapter()
	if err := a.Start(context.Background(), func([]byte) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	a.Stop()
	a.Stop() // second stop must be a no-op
}
