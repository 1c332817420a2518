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

// PoseAdapter stands in for the spatial-tracking session: it emits a
// slow circular trajectory with a matching yaw orientation.
type PoseAdapter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoseAdapter() *PoseAdapter { return &PoseAdapter{} }

func (a *PoseAdapter) Kind() core.ChannelKey { return core.ChannelPose }

func (a *PoseAdapter) Configure(view config.CaptureView) {}

func (a *PoseAdapter) RequestAccess() error { return nil }

func (a *PoseAdapter) Start(ctx context.Context, emit EmitFunc) error {
	a.mu.Lock()
	cancelCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop(cancelCtx, emit)
	return nil
}

func (a *PoseAdapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *PoseAdapter) loop(ctx context.Context, emit EmitFunc) {
	defer a.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := time.Since(start).Seconds() / 10
			yaw := t
			sample := domain.PoseSample{
				Position: domain.Vec3{
					X: math.Cos(t),
					Y: math.Sin(t),
					Z: 0,
				},
				Orientation: domain.Quat{
					Z: math.Sin(yaw / 2),
					W: math.Cos(yaw / 2),
				},
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
