package capture

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/domain"
)

// IMUAdapter emits synthetic inertial samples at the configured rate:
// gravity on z plus a slow oscillation, a rotating compass heading.
type IMUAdapter struct {
	mu     sync.Mutex
	cfg    config.IMUConfig
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIMUAdapter(cfg config.IMUConfig) *IMUAdapter {
	return &IMUAdapter{cfg: cfg}
}

func (a *IMUAdapter) Kind() core.ChannelKey { return core.ChannelIMU }

func (a *IMUAdapter) Configure(view config.CaptureView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = view.IMU
}

// RequestAccess covers the motion/orientation permission prompt. The
// synthetic source needs none, but the call still happens synchronously
// inside the start action to keep the ordering contract uniform.
func (a *IMUAdapter) RequestAccess() error { return nil }

func (a *IMUAdapter) Start(ctx context.Context, emit EmitFunc) error {
	a.mu.Lock()
	rate := a.cfg.SampleRate
	if rate <= 0 {
		rate = 30
	}
	cancelCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop(cancelCtx, emit, time.Second/time.Duration(rate))
	return nil
}

func (a *IMUAdapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *IMUAdapter) loop(ctx context.Context, emit EmitFunc, interval time.Duration) {
	defer a.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := time.Since(start).Seconds()
			sample := domain.IMUSample{
				Acceleration: domain.Vec3{
					X: 0.3 * math.Sin(t),
					Y: 0.3 * math.Cos(t),
					Z: 9.81,
				},
				Rotation: domain.Rotation{
					Alpha: 0.1 * math.Sin(t/2),
					Beta:  0.1 * math.Cos(t/2),
					Gamma: 0.05 * math.Sin(t/3),
				},
				Heading:   math.Mod(t*10, 360),
				Timestamp: time.Now().UnixMilli(),
			}
			payload, err := json.Marshal(sample)
			if err != nil {
				continue
			}
			emit(payload)
		}
	}
}
