package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/domain"
)

const (
	syntheticWidth  = 640
	syntheticHeight = 480
)

// CameraAdapter produces JPEG frames at the configured fps. The replay
// strategy loops over recorded .jpg files; the synthetic strategy
// renders a moving gradient so downstream consumers see changing data.
type CameraAdapter struct {
	platform Platform
	dir      string

	mu     sync.Mutex
	cfg    config.CameraConfig
	frames [][]byte // replay frames, loaded during RequestAccess
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCameraAdapter(cfg config.CameraConfig, platform Platform, replayDir string) *CameraAdapter {
	return &CameraAdapter{platform: platform, dir: replayDir, cfg: cfg}
}

func (a *CameraAdapter) Kind() core.ChannelKey { return core.ChannelCamera }

func (a *CameraAdapter) Configure(view config.CaptureView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = view.Camera
}

// RequestAccess acquires the frame source. For replay this loads the
// recording; failure here means the camera sensor is disabled for the
// session, nothing else.
func (a *CameraAdapter) RequestAccess() error {
	if a.platform != PlatformReplay {
		return nil
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return fmt.Errorf("open camera recording %s: %w", a.dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".jpg") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("camera recording %s holds no jpeg frames", a.dir)
	}
	sort.Strings(names)

	frames := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(a.dir, name))
		if err != nil {
			return fmt.Errorf("read frame %s: %w", name, err)
		}
		frames = append(frames, data)
	}

	a.mu.Lock()
	a.frames = frames
	a.mu.Unlock()
	return nil
}

func (a *CameraAdapter) Start(ctx context.Context, emit EmitFunc) error {
	a.mu.Lock()
	fps := a.cfg.FPS
	if fps <= 0 {
		fps = 10
	}
	cancelCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop(cancelCtx, emit, time.Second/time.Duration(fps))
	return nil
}

func (a *CameraAdapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *CameraAdapter) loop(ctx context.Context, emit EmitFunc, interval time.Duration) {
	defer a.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frameNo := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := a.frame(frameNo)
			if err != nil {
				log.Warn().Err(err).Str("module", "capture.camera").Msg("frame skipped")
				continue
			}
			emit(payload)
			frameNo++
		}
	}
}

func (a *CameraAdapter) frame(n int) ([]byte, error) {
	var (
		data          []byte
		width, height int
		err           error
	)
	if a.platform == PlatformReplay {
		a.mu.Lock()
		data = a.frames[n%len(a.frames)]
		a.mu.Unlock()
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("probe replay frame: %w", err)
		}
		width, height = cfg.Width, cfg.Height
	} else {
		data, err = a.renderSynthetic(n)
		if err != nil {
			return nil, err
		}
		width, height = syntheticWidth, syntheticHeight
	}

	sample := domain.CameraSample{
		Image:     base64.StdEncoding.EncodeToString(data),
		Width:     width,
		Height:    height,
		Timestamp: time.Now().UnixMilli(),
	}
	return json.Marshal(sample)
}

func (a *CameraAdapter) renderSynthetic(n int) ([]byte, error) {
	a.mu.Lock()
	quality := int(a.cfg.Quality * 100)
	a.mu.Unlock()
	if quality <= 0 || quality > 100 {
		quality = 70
	}

	img := image.NewRGBA(image.Rect(0, 0, syntheticWidth, syntheticHeight))
	shift := uint8(n * 7)
	for y := 0; y < syntheticHeight; y += 4 {
		for x := 0; x < syntheticWidth; x += 4 {
			c := color.RGBA{uint8(x/4) + shift, uint8(y / 4), shift, 255}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 4; dx++ {
					img.SetRGBA(x+dx, y+dy, c)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode synthetic frame: %w", err)
	}
	return buf.Bytes(), nil
}
