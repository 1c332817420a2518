package translate

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/wire"
)

// cameraFrameID is the fixed frame identifier stamped on every camera
// message.
const cameraFrameID = "camera"

var ErrEmptyImage = errors.New("empty image payload")

// Camera converts one JPEG sample into a compressed-image record plus a
// derived camera-info record. The payload may carry a data-URL prefix
// ("data:image/jpeg;base64,") which is stripped before decoding.
func Camera(s domain.CameraSample) (wire.CompressedImage, wire.CameraInfo, error) {
	payload := s.Image
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	if payload == "" {
		return wire.CompressedImage{}, wire.CameraInfo{}, ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return wire.CompressedImage{}, wire.CameraInfo{}, fmt.Errorf("decode jpeg payload: %w", err)
	}

	header := headerFromMillis(s.Timestamp, cameraFrameID)
	img := wire.CompressedImage{
		Header: header,
		Format: "jpeg",
		Data:   data,
	}
	return img, cameraInfo(header, s.Width, s.Height), nil
}

// cameraInfo derives an identity-like pinhole approximation from the
// frame dimensions: unit focal lengths, principal point at the image
// center. This is a placeholder, not a measured calibration.
func cameraInfo(header wire.Header, width, height int) wire.CameraInfo {
	cx := float64(width) / 2
	cy := float64(height) / 2
	return wire.CameraInfo{
		Header:          header,
		Width:           width,
		Height:          height,
		DistortionModel: "plumb_bob",
		D:               []float64{0, 0, 0, 0, 0},
		K: [9]float64{
			1, 0, cx,
			0, 1, cy,
			0, 0, 1,
		},
		R: [9]float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		P: [12]float64{
			1, 0, cx, 0,
			0, 1, cy, 0,
			0, 0, 1, 0,
		},
	}
}
