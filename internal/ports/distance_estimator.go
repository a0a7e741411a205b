package ports

import (
	"context"

	"install-scheduling-service/internal/domain"
)

// Contract for travel distance/duration between two coordinate pairs.
//
// Estimate never fails: implementations degrade to an offline model when
// the external routing service is unreachable, so callers always receive a
// best-effort figure.
type DistanceEstimator interface {
	Estimate(ctx context.Context, from, to domain.Coordinates) domain.TravelEstimate
}
