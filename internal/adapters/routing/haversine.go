package routing

import (
	"math"

	"install-scheduling-service/internal/domain"
)

const earthRadiusKm = 6371.0

// DefaultAvgSpeedKmh is the assumed average urban driving speed used to
// turn a great-circle distance into a duration.
const DefaultAvgSpeedKmh = 30.0

// GreatCircle is the offline travel model: great-circle distance via the
// spherical law of cosines, duration at a fixed average speed rounded up
// to whole minutes. It is symmetric in its arguments and never fails.
func GreatCircle(from, to domain.Coordinates, avgSpeedKmh float64) domain.TravelEstimate {
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultAvgSpeedKmh
	}

	la1 := from.Lat * math.Pi / 180
	la2 := to.Lat * math.Pi / 180
	dLon := (to.Lon - from.Lon) * math.Pi / 180

	cosine := math.Sin(la1)*math.Sin(la2) + math.Cos(la1)*math.Cos(la2)*math.Cos(dLon)
	// Floating point can push the cosine just outside [-1, 1].
	cosine = math.Max(-1, math.Min(1, cosine))

	distanceKm := earthRadiusKm * math.Acos(cosine)
	minutes := int(math.Ceil(distanceKm / avgSpeedKmh * 60))

	return domain.TravelEstimate{DistanceKm: distanceKm, DurationMinutes: minutes}
}
