// Package wire defines the fixed external message shapes consumed and
// produced by the pub/sub bus. The shapes mirror the consuming robotics
// convention; field order and units are load-bearing.
package wire

// Time is seconds/nanoseconds since the Unix epoch.
type Time struct {
	Sec  int64 `json:"sec"`
	Nsec int64 `json:"nsec"`
}

type Header struct {
	Stamp   Time   `json:"stamp"`
	FrameID string `json:"frame_id"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// CompressedImage carries an encoded frame. Data is the raw encoded
// bytes (standard base64 in JSON transit).
type CompressedImage struct {
	Header Header `json:"header"`
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// CameraInfo carries frame dimensions plus pinhole intrinsics. The
// bridge emits an identity-like placeholder, not a measured calibration:
// unit focal lengths with the principal point at the image center.
type CameraInfo struct {
	Header          Header     `json:"header"`
	Height          int        `json:"height"`
	Width           int        `json:"width"`
	DistortionModel string     `json:"distortion_model"`
	D               []float64  `json:"d"`
	K               [9]float64 `json:"k"`
	R               [9]float64 `json:"r"`
	P               [12]float64 `json:"p"`
}

// Imu groups one inertial sample. A covariance of nine -1 entries means
// "unknown" by convention.
type Imu struct {
	Header                    Header     `json:"header"`
	Orientation               Quaternion `json:"orientation"`
	OrientationCovariance     [9]float64 `json:"orientation_covariance"`
	AngularVelocity           Vector3    `json:"angular_velocity"`
	AngularVelocityCovariance [9]float64 `json:"angular_velocity_covariance"`
	LinearAcceleration        Vector3    `json:"linear_acceleration"`
	LinearAccelerationCovariance [9]float64 `json:"linear_acceleration_covariance"`
}

// NavSatStatus constants.
const (
	StatusFix  int8 = 0
	ServiceGPS uint16 = 1
)

// Position covariance type constants.
const (
	CovarianceTypeUnknown       uint8 = 0
	CovarianceTypeApproximated  uint8 = 1
	CovarianceTypeDiagonalKnown uint8 = 2
	CovarianceTypeKnown         uint8 = 3
)

type NavSatStatus struct {
	Status  int8   `json:"status"`
	Service uint16 `json:"service"`
}

type NavSatFix struct {
	Header                 Header       `json:"header"`
	Status                 NavSatStatus `json:"status"`
	Latitude               float64      `json:"latitude"`
	Longitude              float64      `json:"longitude"`
	Altitude               float64      `json:"altitude"`
	PositionCovariance     [9]float64   `json:"position_covariance"`
	PositionCovarianceType uint8        `json:"position_covariance_type"`
}

type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

// SpeechTranscript wraps recognized text with a capture-time header.
type SpeechTranscript struct {
	Header Header `json:"header"`
	Text   string `json:"text"`
}

// Text is the plain reverse-channel payload (bus -> bridge -> peers).
type Text struct {
	Text string `json:"text"`
}
