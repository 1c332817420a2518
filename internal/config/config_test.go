package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Camera.FacingMode != "user" {
		t.Fatalf("expected default facing mode user, got %q", cfg.Camera.FacingMode)
	}
	if cfg.Audio.Mode != "wav" {
		t.Fatalf("expected default audio mode wav, got %q", cfg.Audio.Mode)
	}
	if !cfg.Audio.Enabled {
		t.Fatal("expected audio enabled by default")
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default bus server, got %v", cfg.Bus.Servers)
	}
	if cfg.IMU.SampleRate != 30 {
		t.Fatalf("expected default imu sample rate 30, got %d", cfg.IMU.SampleRate)
	}
}

func TestCaptureView(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view := cfg.Capture()
	if view.Camera.FacingMode != cfg.Camera.FacingMode {
		t.Fatal("capture view must mirror camera config")
	}
	if view.Audio.TTS.Rate != cfg.Audio.TTS.Rate {
		t.Fatal("capture view must mirror tts config")
	}
}
