package translate

import (
	"math"

	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/wire"
)

const imuFrameID = "imu"

// IMU converts one inertial sample.
//
// Linear acceleration passes through as-is. Angular velocity is remapped:
// the capture API's beta/alpha/gamma become output x/y/z respectively.
// The remap is not identity on purpose; it compensates for the axis
// convention mismatch between the capture API and the consuming frame.
//
// Orientation is a yaw-only quaternion synthesized from the magnetometer
// heading (roll = pitch = 0). There is no AHRS fusion here and adding one
// would change the external contract.
func IMU(s domain.IMUSample) wire.Imu {
	yaw := s.Heading * math.Pi / 180

	return wire.Imu{
		Header: headerFromMillis(s.Timestamp, imuFrameID),
		Orientation: wire.Quaternion{
			X: 0,
			Y: 0,
			Z: math.Sin(yaw / 2),
			W: math.Cos(yaw / 2),
		},
		OrientationCovariance: unknownCovariance(),
		AngularVelocity: wire.Vector3{
			X: s.Rotation.Beta,
			Y: s.Rotation.Alpha,
			Z: s.Rotation.Gamma,
		},
		AngularVelocityCovariance: unknownCovariance(),
		LinearAcceleration: wire.Vector3{
			X: s.Acceleration.X,
			Y: s.Acceleration.Y,
			Z: s.Acceleration.Z,
		},
		LinearAccelerationCovariance: unknownCovariance(),
	}
}
