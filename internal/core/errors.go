package core

import "errors"

var (
	// ErrBackpressure means a peer's send buffer was full; the frame is
	// dropped for that peer (best-effort, most-recent-wins).
	ErrBackpressure = errors.New("backpressure")

	// ErrChannelClosed means the endpoint was closed before the send.
	ErrChannelClosed = errors.New("channel closed")
)
