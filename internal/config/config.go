package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full bridge configuration. Capture-related sections
// (Camera, Audio, Microphone, IMU) are exposed read-only over /api/config
// so producer-side adapters can pick them up at startup.
type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	TLS        TLSConfig        `mapstructure:"tls"`
	Bus        BusConfig        `mapstructure:"bus"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Audio      AudioConfig      `mapstructure:"audio"`
	Microphone MicrophoneConfig `mapstructure:"microphone"`
	IMU        IMUConfig        `mapstructure:"imu"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

// TLSConfig points at an externally provisioned key/cert pair. Both paths
// empty means plain HTTP (useful for tests and local runs behind a proxy).
type TLSConfig struct {
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type BusConfig struct {
	Embedded       bool     `mapstructure:"embedded"`
	Port           int      `mapstructure:"port"`
	Servers        []string `mapstructure:"servers"`
	ConnectTimeout int      `mapstructure:"connect_timeout_ms"`
}

type CameraConfig struct {
	FacingMode string  `mapstructure:"facing_mode" json:"facing_mode"`
	Quality    float64 `mapstructure:"quality" json:"quality"`
	FPS        int     `mapstructure:"fps" json:"fps"`
}

type AudioConfig struct {
	Mode    string    `mapstructure:"mode" json:"mode"` // "tts" or "wav"
	Enabled bool      `mapstructure:"enabled" json:"enabled"`
	TTS     TTSConfig `mapstructure:"tts" json:"tts"`
}

type TTSConfig struct {
	Rate            float64 `mapstructure:"rate" json:"rate"`
	Pitch           float64 `mapstructure:"pitch" json:"pitch"`
	Volume          float64 `mapstructure:"volume" json:"volume"`
	VoicePreference string  `mapstructure:"voice_preference" json:"voice_preference"`
}

type MicrophoneConfig struct {
	WakeWord string `mapstructure:"wake_word" json:"wake_word"`
}

type IMUConfig struct {
	SampleRate int `mapstructure:"sample_rate" json:"sample_rate"`
}

type DebugConfig struct {
	DebugLogging bool `mapstructure:"debug_logging" json:"debug_logging"`
	ColorLogging bool `mapstructure:"color_logging" json:"color_logging"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using built-in defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8443)
	v.SetDefault("static_path", "./web")
	v.SetDefault("ping_period", "54s")

	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")

	v.SetDefault("bus.embedded", false)
	v.SetDefault("bus.port", 4222)
	v.SetDefault("bus.servers", []string{"nats://localhost:4222"})
	v.SetDefault("bus.connect_timeout_ms", 3000)

	// The minimal fallback surface: a missing or unparsable file still
	// yields a usable capture configuration.
	v.SetDefault("camera.facing_mode", "user")
	v.SetDefault("camera.quality", 0.7)
	v.SetDefault("camera.fps", 10)

	v.SetDefault("audio.mode", "wav")
	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.tts.rate", 1.0)
	v.SetDefault("audio.tts.pitch", 1.0)
	v.SetDefault("audio.tts.volume", 1.0)
	v.SetDefault("audio.tts.voice_preference", "")

	v.SetDefault("microphone.wake_word", "")

	v.SetDefault("imu.sample_rate", 30)

	v.SetDefault("debug.debug_logging", false)
	v.SetDefault("debug.color_logging", true)
}

// CaptureView is the read-only JSON document served at /api/config and
// polled by each capture adapter at startup.
type CaptureView struct {
	Camera     CameraConfig     `json:"camera"`
	Audio      AudioConfig      `json:"audio"`
	Microphone MicrophoneConfig `json:"microphone"`
	IMU        IMUConfig        `json:"imu"`
	Debug      DebugConfig      `json:"debug"`
}

func (c *Config) Capture() CaptureView {
	return CaptureView{
		Camera:     c.Camera,
		Audio:      c.Audio,
		Microphone: c.Microphone,
		IMU:        c.IMU,
		Debug:      c.Debug,
	}
}
