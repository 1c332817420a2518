package translate

import (
	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/wire"
)

const speechFrameID = "microphone"

// Speech wraps recognized text with a header stamped from the producer
// capture time, falling back to arrival time.
func Speech(s domain.SpeechSample) wire.SpeechTranscript {
	return wire.SpeechTranscript{
		Header: headerFromMillis(s.Timestamp, speechFrameID),
		Text:   s.Text,
	}
}
