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

// GPSAdapter emits one fix per second: a slow walk around a base
// coordinate with a plausible accuracy figure.
type GPSAdapter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGPSAdapter() *GPSAdapter { return &GPSAdapter{} }

func (a *GPSAdapter) Kind() core.ChannelKey { return core.ChannelGPS }

func (a *GPSAdapter) Configure(view config.CaptureView) {}

// RequestAccess covers the geolocation permission prompt; called
// synchronously inside the start action.
func (a *GPSAdapter) RequestAccess() error { return nil }

func (a *GPSAdapter) Start(ctx context.Context, emit EmitFunc) error {
	a.mu.Lock()
	cancelCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop(cancelCtx, emit)
	return nil
}

func (a *GPSAdapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *GPSAdapter) loop(ctx context.Context, emit EmitFunc) {
	defer a.wg.Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	const (
		baseLat = 52.5200
		baseLon = 13.4050
	)
	step := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := float64(step)
			sample := domain.GPSSample{
				Latitude:  baseLat + 1e-5*math.Sin(t/20),
				Longitude: baseLon + 1e-5*math.Cos(t/20),
				Altitude:  34.0,
				Accuracy:  3.0 + math.Abs(math.Sin(t/7)),
				Timestamp: time.Now().UnixMilli(),
			}
			payload, err := json.Marshal(sample)
			if err != nil {
				continue
			}
			emit(payload)
			step++
		}
	}
}
