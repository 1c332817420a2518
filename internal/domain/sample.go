package domain

// Producer-side sample shapes. These are the JSON payloads the capture
// adapters put on their channels; the translator turns them into the
// fixed wire schema. Timestamps are producer-clock epoch milliseconds
// (zero means "not supplied", the translator falls back to wall clock).

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// CameraSample carries one JPEG frame, base64-encoded, optionally with a
// data-URL prefix the translator strips.
type CameraSample struct {
	Image     string `json:"image"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

// Rotation is the capture API's device-frame angular rates in rad/s.
// Alpha/beta/gamma follow the capture convention, not the consumer's.
type Rotation struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// IMUSample groups one accelerometer/gyroscope/magnetometer reading.
// Heading is the magnetometer compass heading in degrees.
type IMUSample struct {
	Acceleration Vec3     `json:"acceleration"`
	Rotation     Rotation `json:"rotation"`
	Heading      float64  `json:"heading"`
	Timestamp    int64    `json:"timestamp"`
}

// GPSSample is one geolocation fix. Altitude may be NaN when the
// provider has no vertical solution; Accuracy is meters (0 = unknown).
type GPSSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

// PoseSample is one spatial-tracking frame, passed through verbatim.
type PoseSample struct {
	Position    Vec3  `json:"position"`
	Orientation Quat  `json:"orientation"`
	Timestamp   int64 `json:"timestamp"`
}

// SpeechSample is one recognized-text result from the microphone adapter.
type SpeechSample struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
