package capture

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/domain"
)

// transcriptFile is the replay source inside the recording directory.
const transcriptFile = "transcript.txt"

// MicrophoneAdapter emits recognized-text samples. With a recording
// directory it replays transcript lines; otherwise it stays silent (a
// headless agent has nothing to transcribe). A configured wake word
// gates emission: lines that do not start with it are dropped before
// they ever reach the channel.
type MicrophoneAdapter struct {
	dir string

	mu     sync.Mutex
	cfg    config.MicrophoneConfig
	lines  []string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMicrophoneAdapter(cfg config.MicrophoneConfig, replayDir string) *MicrophoneAdapter {
	return &MicrophoneAdapter{cfg: cfg, dir: replayDir}
}

func (a *MicrophoneAdapter) Kind() core.ChannelKey { return core.ChannelMicrophone }

func (a *MicrophoneAdapter) Configure(view config.CaptureView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = view.Microphone
}

// RequestAccess covers the microphone permission prompt and loads the
// transcript when replaying.
func (a *MicrophoneAdapter) RequestAccess() error {
	if a.dir == "" {
		return nil
	}
	path := filepath.Join(a.dir, transcriptFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no transcript recorded; adapter stays silent
		}
		return fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read transcript %s: %w", path, err)
	}

	a.mu.Lock()
	a.lines = lines
	a.mu.Unlock()
	return nil
}

func (a *MicrophoneAdapter) Start(ctx context.Context, emit EmitFunc) error {
	a.mu.Lock()
	cancelCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop(cancelCtx, emit)
	return nil
}

func (a *MicrophoneAdapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *MicrophoneAdapter) loop(ctx context.Context, emit EmitFunc) {
	defer a.wg.Done()

	a.mu.Lock()
	lines := a.lines
	a.mu.Unlock()
	if len(lines) == 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			line := lines[i%len(lines)]
			i++
			if payload, ok := a.Recognize(line); ok {
				emit(payload)
			}
		}
	}
}

// Recognize applies the wake-word gate and shapes one transcript sample.
// Exposed for tests and for live sources feeding text in.
func (a *MicrophoneAdapter) Recognize(text string) ([]byte, bool) {
	a.mu.Lock()
	wake := strings.TrimSpace(a.cfg.WakeWord)
	a.mu.Unlock()

	text = strings.TrimSpace(text)
	if wake != "" {
		if !strings.HasPrefix(strings.ToLower(text), strings.ToLower(wake)) {
			log.Debug().Str("module", "capture.microphone").Msg("transcript without wake word dropped")
			return nil, false
		}
		text = strings.TrimSpace(text[len(wake):])
	}

	payload, err := json.Marshal(domain.SpeechSample{
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, false
	}
	return payload, true
}
