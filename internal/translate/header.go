// Package translate converts producer-side samples into the fixed wire
// schema and back. Every function is pure; a failure is returned to the
// caller, which logs and drops the sample (best-effort semantics).
package translate

import (
	"time"

	"github.com/telesense/sensebridge/internal/wire"
)

// stampFromMillis builds a wire timestamp from producer-clock epoch
// milliseconds, falling back to wall clock when the producer supplied
// none (zero).
func stampFromMillis(ms int64) wire.Time {
	if ms <= 0 {
		return stampNow()
	}
	return wire.Time{
		Sec:  ms / 1000,
		Nsec: (ms % 1000) * int64(time.Millisecond),
	}
}

func stampNow() wire.Time {
	now := time.Now()
	return wire.Time{
		Sec:  now.Unix(),
		Nsec: int64(now.Nanosecond()),
	}
}

func headerFromMillis(ms int64, frameID string) wire.Header {
	return wire.Header{Stamp: stampFromMillis(ms), FrameID: frameID}
}

func unknownCovariance() [9]float64 {
	var cov [9]float64
	for i := range cov {
		cov[i] = -1
	}
	return cov
}
