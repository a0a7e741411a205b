package routing

import (
	"context"
	"fmt"

	"install-scheduling-service/internal/domain"
)

// StaticPair scripts one travel estimate between two coordinate pairs.
type StaticPair struct {
	From, To domain.Coordinates
	Km       float64
	Minutes  int
}

// StaticEstimator serves scripted estimates for tests. Pairs are looked up
// in both directions; anything unscripted falls back to the offline model
// so the estimator-never-fails contract holds.
type StaticEstimator struct {
	m map[string]domain.TravelEstimate
}

func NewStaticEstimator(pairs []StaticPair) *StaticEstimator {
	m := make(map[string]domain.TravelEstimate, 2*len(pairs))
	for _, p := range pairs {
		est := domain.TravelEstimate{DistanceKm: p.Km, DurationMinutes: p.Minutes}
		m[pairKey(p.From, p.To)] = est
		m[pairKey(p.To, p.From)] = est
	}
	return &StaticEstimator{m: m}
}

func (s *StaticEstimator) Estimate(_ context.Context, from, to domain.Coordinates) domain.TravelEstimate {
	if est, ok := s.m[pairKey(from, to)]; ok {
		return est
	}
	return GreatCircle(from, to, DefaultAvgSpeedKmh)
}

func pairKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
}
