package translate

import (
	"math"

	"github.com/telesense/sensebridge/internal/domain"
	"github.com/telesense/sensebridge/internal/wire"
)

const gpsFrameID = "gps"

// defaultAccuracy is assumed when the provider reports none.
const defaultAccuracy = 1.0

// GPS converts one geolocation fix. Altitude defaults to 0 when absent
// or NaN. The position covariance is a diagonal built from the stated
// accuracy: each diagonal entry is accuracy squared.
func GPS(s domain.GPSSample) wire.NavSatFix {
	altitude := s.Altitude
	if math.IsNaN(altitude) {
		altitude = 0
	}

	accuracy := s.Accuracy
	if accuracy <= 0 || math.IsNaN(accuracy) {
		accuracy = defaultAccuracy
	}
	variance := accuracy * accuracy

	var cov [9]float64
	cov[0] = variance
	cov[4] = variance
	cov[8] = variance

	return wire.NavSatFix{
		Header: headerFromMillis(s.Timestamp, gpsFrameID),
		Status: wire.NavSatStatus{
			Status:  wire.StatusFix,
			Service: wire.ServiceGPS,
		},
		Latitude:               s.Latitude,
		Longitude:              s.Longitude,
		Altitude:               altitude,
		PositionCovariance:     cov,
		PositionCovarianceType: wire.CovarianceTypeDiagonalKnown,
	}
}
