package translate

import (
	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/wire"
)

const poseFrameID = "pose"

// Pose passes position and orientation through verbatim from the
// spatial tracking frame.
func Pose(s domain.PoseSample) wire.PoseStamped {
	return wire.PoseStamped{
		Header: headerFromMillis(s.Timestamp, poseFrameID),
		Pose: wire.Pose{
			Position: wire.Vector3{
				X: s.Position.X,
				Y: s.Position.Y,
				Z: s.Position.Z,
			},
			Orientation: wire.Quaternion{
				X: s.Orientation.X,
				Y: s.Orientation.Y,
				Z: s.Orientation.Z,
				W: s.Orientation.W,
			},
		},
	}
}
